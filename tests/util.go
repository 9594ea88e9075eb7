package testutil

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/iiw24/turma/core"
)

// NewConfig returns a Config fit for tests: in-memory agenda, console emails, no janitor.
func NewConfig() *core.Config {
	return &core.Config{
		Env:       "TEST",
		Build:     "test",
		TestMode:  true,
		AppName:   "IIW24",
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			Host:                   "localhost",
			ShutdownTimeout:        time.Second,
			SessionExpirationDelta: 7 * 24 * time.Hour,
		},
		Admin: core.AdminConfig{Username: "admin"},
		GitHub: core.GitHubConfig{
			Owner:      "iiw24",
			Repo:       "turma-data",
			Branch:     "main",
			AgendaPath: "data/agenda.json",
			Token:      "token",
		},
		Agenda: core.AgendaConfig{
			Backend:          "memory",
			RetentionDays:    30,
			MaxWriteAttempts: 3,
		},
		Timetable: core.TimetableConfig{
			ClassBaseURL:   "https://raw.test/docs/turma",
			RoomTreeURL:    "https://tree.test/docs/sala/",
			RoomRawBaseURL: "https://raw.test/docs/sala",
		},
		Email: core.EmailConfig{
			Backend:          "console",
			DefaultFromEmail: "noreply@iiw24.test",
			SuggestionTo:     "rep@iiw24.test",
		},
		Suggestion: core.SuggestionConfig{Limit: 3, Window: time.Hour},
		Remote:     core.RemoteConfig{Timeout: 5 * time.Second},
	}
}

type LogEntry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Logger records log entries and prints them with t.Log when t is set.
type Logger struct {
	t       *testing.T
	mu      sync.Mutex
	entries []LogEntry
}

var _ core.Logger = (*Logger)(nil)

func NewLogger(t *testing.T) *Logger {
	return &Logger{t: t}
}

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	l.entries = append(l.entries, LogEntry{Level: level, Msg: msg, Args: args})
	l.mu.Unlock()
	if l.t != nil {
		l.t.Helper()
		l.t.Log(fmt.Sprintf("[%s] %s", level, msg))
	}
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("fatal", msg, args) }

// Entries returns the recorded entries of level, or all of them when level is empty.
func (l *Logger) Entries(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []LogEntry
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
