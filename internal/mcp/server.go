// Package mcp exposes homesense's achievement and hint rules to agents as an
// MCP (Model Context Protocol) server over stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/homesense/homesense/internal/achievements"
	"github.com/homesense/homesense/internal/logging"
	"github.com/homesense/homesense/internal/ratelimit"
	"github.com/homesense/homesense/internal/store"
	"github.com/homesense/homesense/internal/suggestions"
)

// Server wraps the MCP SDK server with homesense tools.
type Server struct {
	server       *sdk.Server
	kv           store.KVStore
	catalog      *achievements.Catalog
	tracker      *achievements.Tracker
	engine       *suggestions.Engine
	scenarioDirs []string
	toolLimiters ratelimit.ToolLimiters
	logger       *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "homesense")
	Version string // Server version

	// Store persists progress. The server takes ownership and closes it.
	Store store.KVStore

	// Seed for hint selection; zero picks a random seed.
	Seed int64

	// ScenarioDirs are the directories scenario files may be read from.
	ScenarioDirs []string

	Logger *slog.Logger
	Events *logging.EventLogger
}

// NewServer creates a new MCP server with homesense tools.
func NewServer(ctx context.Context, cfg *Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("mcp server: no progress store configured")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	catalog := achievements.NewCatalog()
	tracker := achievements.NewTracker(ctx, catalog, cfg.Store, logger)
	tracker.SetEventLogger(cfg.Events)

	engine := suggestions.NewEngine(suggestions.NewSource(cfg.Seed))
	engine.SetLogger(logger, cfg.Events)

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		server:       mcpServer,
		kv:           cfg.Store,
		catalog:      catalog,
		tracker:      tracker,
		engine:       engine,
		scenarioDirs: cfg.ScenarioDirs,
		toolLimiters: ratelimit.NewToolLimiters(),
		logger:       logger,
	}
	s.registerTools()

	return s, nil
}

// Run serves over stdio until the client disconnects, the context is
// cancelled or the process receives an interrupt.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})
	if cerr := s.kv.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing progress store: %w", cerr)
	}
	return err
}

// Close releases the progress store.
func (s *Server) Close() error {
	return s.kv.Close()
}
