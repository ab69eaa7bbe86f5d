// Package main runs the interactive memorial registry client.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/atinyakov/memorial/internal/client/api"
	"github.com/atinyakov/memorial/internal/client/auth"
	"github.com/atinyakov/memorial/internal/client/shell"
	"github.com/atinyakov/memorial/internal/client/state"
	"github.com/atinyakov/memorial/internal/client/storage"
	"github.com/atinyakov/memorial/internal/config"
	"github.com/atinyakov/memorial/internal/logger"
)

var (
	version   string
	buildDate string
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires storage, auth state, the API client and the entity lists into
// the shell and blocks until the user exits.
func run() error {
	options, err := config.ParseClient(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	if options.ShowVersion {
		fmt.Printf("Memorial Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return nil
	}

	log := logger.New()
	level := "warn"
	if options.Debug {
		level = "debug"
	}
	if err := log.InitConsole(level, os.Stderr); err != nil {
		return err
	}
	defer func() { _ = log.Log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := storage.Open(options.StoragePath, log.Log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	if err := store.Watch(ctx); err != nil {
		log.Log.Warn("storage changes from other processes will not be seen", zap.Error(err))
	}

	session := auth.New(store, log.Log)
	defer session.Close()

	httpClient, err := api.NewHTTPClient(options.CAFile)
	if err != nil {
		return err
	}
	client := api.New(options.ServerURL,
		api.WithHTTPClient(httpClient),
		api.WithTokenSource(session),
		api.WithLogger(log.Log),
	)

	sh := shell.New(shell.Deps{
		API:       client,
		Auth:      session,
		Heroes:    state.NewHeroes(client, log.Log),
		Monuments: state.NewMonuments(client, log.Log),
		Log:       log.Log,
	}, os.Stdin, os.Stdout)

	return sh.Run(ctx)
}
