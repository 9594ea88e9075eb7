package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iiw24/turma/core/agenda"
	"github.com/iiw24/turma/storage/inmem"
	"github.com/iiw24/turma/tests"
)

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
	extra   interface{}
}

func setup(t *testing.T, store agenda.DocumentStore) (*commandLine, *bytes.Buffer) {
	var out bytes.Buffer
	return &commandLine{
		out: &out,
		newAgendaSvc: func() (cleaner, error) {
			if store == nil {
				return nil, errors.New("github owner, repo and token are required")
			}
			return agenda.NewService(store, testutil.NewConfig(), testutil.NewLogger(t)), nil
		},
	}, &out
}

func Test_commandLine_hashPassword(t *testing.T) {
	type extra struct {
		pwds []string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no password", args: []string{"hashpassword"}, wantErr: errHelp},
		{name: "mismatch", args: []string{"hashpassword"}, extra: extra{pwds: []string{"s3cret", "s3cre"}}, wantErr: errPasswordMismatch},
		{name: "hash", args: []string{"hashpassword", "-cost", "4"}, extra: extra{pwds: []string{"s3cret", "s3cret"}}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		var prompts int
		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok && prompts < len(extra.pwds) {
				prompts++
				return []byte(extra.pwds[prompts-1]), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			cli, out := setup(t, nil)
			err := cli.run(args)
			if err != tt.wantErr {
				t.Fatalf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			hash := lines[len(lines)-1]
			if err = bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")); err != nil {
				t.Errorf("printed hash %q does not match: %v", hash, err)
			}
		})
	}
}

func Test_commandLine_cleanup(t *testing.T) {
	store := inmemdb.NewDocumentStore()
	old := time.Now().Add(-90 * 24 * time.Hour).UTC().Format(time.RFC3339)
	store.Seed([]byte(`{"iiw24a": [{"id": "1", "classId": "iiw24a", "title": "t", "description": "d", "date": "2024-01-01", "tag": "prova", "createdAt": "` + old + `"}]}`))

	cli, out := setup(t, store)
	if err := cli.run([]string{"admin", "cleanup"}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
	if got := out.String(); got != "removed 1 expired agenda item(s)\n" {
		t.Errorf("output = %q", got)
	}

	svc := agenda.NewService(store, testutil.NewConfig(), testutil.NewLogger(t))
	if items, err := svc.Query(context.Background(), "iiw24a"); err != nil || len(items) != 0 {
		t.Errorf("Query() = %v, %v; want no items", items, err)
	}

	cli, _ = setup(t, nil)
	if err := cli.run([]string{"admin", "cleanup"}); err == nil {
		t.Error("cli.run() expected a store error")
	}
}
