package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/homesense/homesense/internal/achievements"
	"github.com/homesense/homesense/internal/config"
	"github.com/homesense/homesense/internal/logging"
	"github.com/homesense/homesense/internal/store"
	"github.com/homesense/homesense/internal/suggestions"
)

// app bundles what most commands need: configuration, loggers, the
// progress store and the rule engines built on it.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	events  *logging.EventLogger
	kv      store.KVStore
	catalog *achievements.Catalog
	tracker *achievements.Tracker
	engine  *suggestions.Engine
}

// loadConfig reads the config named by --config (or the default one) and
// validates it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openApp loads config and opens the progress store. Callers must Close it.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	storePath, err := cfg.StorePath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store path: %w", err)
	}
	kv, err := store.Open(cfg.Store.Backend, storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open progress store: %w", err)
	}

	logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
	events := logging.NewEventLogger(filepath.Dir(storePath), cfg.Logging.Level)
	logger.Debug("progress store opened", "backend", cfg.Store.Backend, "path", storePath)

	catalog := achievements.NewCatalog()
	tracker := achievements.NewTracker(cmd.Context(), catalog, kv, logger)
	tracker.SetEventLogger(events)

	engine := suggestions.NewEngine(suggestions.NewSource(cfg.Hints.Seed))
	engine.SetLogger(logger, events)

	return &app{
		cfg:     cfg,
		logger:  logger,
		events:  events,
		kv:      kv,
		catalog: catalog,
		tracker: tracker,
		engine:  engine,
	}, nil
}

// Close flushes the event log and closes the progress store.
func (a *app) Close() error {
	a.events.Close()
	return a.kv.Close()
}

func jsonFlag(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}
