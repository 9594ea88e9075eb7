package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp             = errors.New("help provided")
	errPasswordMismatch = errors.New("passwords do not match")
)

type cleaner interface {
	Cleanup(ctx context.Context) (int, error)
}

type commandLine struct {
	out          io.Writer
	newAgendaSvc func() (cleaner, error)
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  hashpassword [-cost COST] - print the bcrypt hash of the admin password, to be set as ADMINPASSWORDHASH")
	fmt.Fprintln(cli.out, "  cleanup - remove the agenda items older than the retention period")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	hashPasswordCmd := flag.NewFlagSet("hashpassword", flag.ContinueOnError)
	hashPasswordCost := hashPasswordCmd.Int("cost", bcrypt.DefaultCost, "The bcrypt cost. The password will be prompted next.")
	cleanupCmd := flag.NewFlagSet("cleanup", flag.ContinueOnError)

	switch args[1] {
	case "hashpassword":
		if err := hashPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		pwd, err := cli.promptPassword("Enter password:")
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			hashPasswordCmd.Usage()
			return errHelp
		}
		confirm, err := cli.promptPassword("Confirm password:")
		if err != nil {
			return err
		}
		if string(confirm) != string(pwd) {
			return errPasswordMismatch
		}
		return cli.hashPassword(pwd, *hashPasswordCost)
	case "cleanup":
		if err := cleanupCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.cleanup()
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword(prompt string) ([]byte, error) {
	fmt.Fprint(cli.out, prompt)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	return pwd, err
}

func (cli *commandLine) hashPassword(pwd []byte, cost int) error {
	hash, err := bcrypt.GenerateFromPassword(pwd, cost)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, string(hash))
	return nil
}

func (cli *commandLine) cleanup() error {
	svc, err := cli.newAgendaSvc()
	if err != nil {
		return err
	}
	removed, err := svc.Cleanup(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "removed %d expired agenda item(s)\n", removed)
	return nil
}
