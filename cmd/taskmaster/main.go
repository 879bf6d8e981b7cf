package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/atulkashyap404/taskmaster/internal/cli"
	"github.com/atulkashyap404/taskmaster/internal/config"
	"github.com/atulkashyap404/taskmaster/internal/logging"
	"github.com/atulkashyap404/taskmaster/internal/store"
	"github.com/atulkashyap404/taskmaster/internal/store/jsonstore"
	"github.com/atulkashyap404/taskmaster/internal/store/sqlitestore"
	"github.com/atulkashyap404/taskmaster/internal/tui"
	"github.com/atulkashyap404/taskmaster/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	// Root flags (apply to every subcommand)
	fs := flag.NewFlagSet("taskmaster", flag.ContinueOnError)
	fs.Usage = func() { cli.PrintHelp(os.Stderr) }
	cfg, err := config.Load(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		ui.Fail(os.Stderr, err.Error())
		return 2
	}
	ui.SetTheme(cfg.UI.Theme)
	logger := logging.New(os.Stderr, logging.Options{
		Level:           cfg.Log.Level,
		Format:          cfg.Log.Format,
		ReportTimestamp: cfg.Log.Timestamps,
	})

	slot, closeSlot, err := openSlot(cfg, logger)
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		return 1
	}
	defer closeSlot()

	s := store.Open(slot, store.WithLogger(logger))

	// Hand the remaining args to the CLI runner.
	return cli.Run(fs.Args(), cli.Options{
		Config:      cfg,
		Store:       s,
		Interactive: tui.Run,
	})
}

func openSlot(cfg *config.Config, logger *log.Logger) (store.Slot, func(), error) {
	if err := os.MkdirAll(cfg.Storage.Dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("data dir: %w", err)
	}
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := sqlitestore.Open(cfg.SQLitePath())
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("storage", "backend", "sqlite", "path", cfg.SQLitePath(), "slot", cfg.Storage.Slot)
		return db.Slot(cfg.Storage.Slot), func() { db.Close() }, nil
	default:
		slot, err := jsonstore.New(cfg.Storage.Dir, cfg.Storage.Slot)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("storage", "backend", "json", "path", slot.Path())
		return slot, func() {}, nil
	}
}
