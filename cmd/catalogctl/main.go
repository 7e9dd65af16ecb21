// Command catalogctl drives the catalog API from a terminal.
//
//	catalogctl login -email admin@test.fr -password password
//	catalogctl list books -page 2 category=fiction
//	catalogctl create authors '{"name":"Ursula K. Le Guin"}'
//	catalogctl update books 7 '{"categories":null}'
package main

import (
	"context"
	"os"
	"os/signal"

	"bookcatalog/internal/apiclient"
	"bookcatalog/internal/authsession"
	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/logging"
)

func main() {
	cfg := config.LoadClient()
	logger := logging.NewWithOutput(os.Stderr, cfg.LogLevel, "text")

	opts := authsession.OptionsForEnv(cfg.Env)
	opts.Logger = logger
	if _, err := authsession.Init(authsession.NewFileStore(cfg.SessionFile), opts); err != nil {
		logger.WithError(err).Fatal("load session")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(cfg.APIURL, authsession.Default(), apiclient.LogNotifier{Logger: logger}, logger, os.Stdout)
	if err := a.run(ctx, os.Args[1:]); err != nil {
		logger.WithError(err).Debug("command failed")
		stop()
		os.Exit(1)
	}
}
