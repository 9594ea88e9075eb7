package main

import (
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/iiw24/turma/core"
	"github.com/iiw24/turma/core/agenda"
	logsvc "github.com/iiw24/turma/services/logger"
	githubstore "github.com/iiw24/turma/storage/github"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stderr, "ADMIN : ", log.LstdFlags), conf)
	logger.Enable(false)

	// start CLI
	cli := commandLine{
		out: os.Stdout,
		newAgendaSvc: func() (cleaner, error) {
			store, err := githubstore.NewDocumentStore(conf)
			if err != nil {
				return nil, errors.Wrap(err, "setting up agenda store")
			}
			return agenda.NewService(store, conf, logger), nil
		},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("\nerror: " + err.Error())
		}
		os.Exit(1)
	}
}
