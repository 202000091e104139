package main

import (
	"log"
	"os"

	"github.com/Tawhide16/CampusKit/core"
	"github.com/Tawhide16/CampusKit/core/workspace"
	logsvc "github.com/Tawhide16/CampusKit/services/logger"
	"github.com/Tawhide16/CampusKit/storage"
)

var logger *log.Logger

func main() {
	os.Exit(run())
}

func run() int {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	// set up storage
	backend, err := storage.Open(conf)
	if err != nil {
		logger.Printf("error: %s\n", err)
		return 1
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Printf("closing storage: %s\n", err)
		}
	}()
	store := core.NewStorage(backend.KV, logsvc.NewRollbarLogger(logger, conf), conf.Storage.Timeout)

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	workspace.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		registry: workspace.NewRegistry(store, validate),
		in:       os.Stdin,
		out:      os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		return 1
	}
	return 0
}
