package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"

	echoapi "github.com/iiw24/turma/apps/api/echo"
	"github.com/iiw24/turma/core"
	"github.com/iiw24/turma/core/agenda"
	"github.com/iiw24/turma/core/suggestion"
	"github.com/iiw24/turma/core/timetable"
	emailsvc "github.com/iiw24/turma/services/email"
	logsvc "github.com/iiw24/turma/services/logger"
	remotesvc "github.com/iiw24/turma/services/remote"
	badgerdb "github.com/iiw24/turma/storage/badger"
	githubstore "github.com/iiw24/turma/storage/github"
	inmemdb "github.com/iiw24/turma/storage/inmem"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	storeLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up storage
	store, err := newDocumentStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up agenda store: %v", err), err)
	}

	var cache timetable.Cache
	if conf.Timetable.CacheDir != "" {
		c, err := badgerdb.Open(conf.Timetable.CacheDir, conf.Timetable.CacheTTL)
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening room index cache: %v", err), err)
		}
		defer func() {
			if err := c.Close(); err != nil {
				storeLogger.Error("Failed to close room index cache", err)
			}
		}()
		cache = c
	}

	// set up services
	mailSvc, err := emailsvc.NewService(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up email service: %v", err), err)
	}

	validate, translator := core.NewValidator()

	agendaSvc := agenda.NewService(store, conf, storeLogger)
	timetableSvc := timetable.NewService(remotesvc.NewFetcher(conf), cache, conf, logger)
	suggestionSvc := suggestion.NewService(mailSvc, validate, conf)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// expired agenda items are removed in the background
	janitor := agenda.NewJanitor(agendaSvc, conf.Agenda.CleanupInterval, storeLogger)
	go janitor.Start(context.Background())
	defer janitor.Stop()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			AgendaSvc:     agendaSvc,
			TimetableSvc:  timetableSvc,
			SuggestionSvc: suggestionSvc,
			Validate:      validate,
			Translator:    translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newDocumentStore(conf *core.Config) (agenda.DocumentStore, error) {
	switch strings.ToLower(conf.Agenda.Backend) {
	case "github":
		return githubstore.NewDocumentStore(conf)
	case "memory":
		return inmemdb.NewDocumentStore(), nil
	default:
		return nil, errors.Errorf("unknown agenda backend %q", conf.Agenda.Backend)
	}
}
