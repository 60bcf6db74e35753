// Package server runs the live feed for the browser editor: the editor
// streams graph snapshots over a websocket and receives the current hint,
// fresh unlocks and coverage back on every tick.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/homesense/homesense/internal/achievements"
	"github.com/homesense/homesense/internal/logging"
	"github.com/homesense/homesense/internal/options"
	"github.com/homesense/homesense/internal/ratelimit"
	"github.com/homesense/homesense/internal/suggestions"
)

// DefaultTickInterval is how often a connected editor gets a new hint.
const DefaultTickInterval = 5 * time.Second

// Config holds live feed settings.
type Config struct {
	// TickInterval between pushed updates; zero means DefaultTickInterval.
	TickInterval time.Duration

	// SnapshotLimiter throttles inbound snapshots per connection. Nil uses
	// a limiter of 120 snapshots per minute with a burst of 20.
	SnapshotLimiter *ratelimit.Limiter

	Logger *slog.Logger
}

// Server serves the websocket feed and a small JSON API.
type Server struct {
	tracker *achievements.Tracker
	catalog *achievements.Catalog
	engine  *suggestions.Engine
	tick    time.Duration
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// New creates a live feed server over the given progress tracker and hint engine.
func New(catalog *achievements.Catalog, tracker *achievements.Tracker, engine *suggestions.Engine, cfg Config) *Server {
	s := &Server{
		tracker: tracker,
		catalog: catalog,
		engine:  engine,
		tick:    cfg.TickInterval,
		limiter: cfg.SnapshotLimiter,
		logger:  cfg.Logger,
	}
	if s.tick <= 0 {
		s.tick = DefaultTickInterval
	}
	if s.limiter == nil {
		s.limiter = ratelimit.PerMinute(120, 20)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	return s
}

// Handler returns the HTTP routes:
//
//	GET /ws                 live feed (websocket)
//	GET /api/achievements   done/not-done partition and intro flag
//	POST /api/intro         record that the intro has been shown
//	GET /api/protocols      link protocols and game options
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.serveWS)
	mux.HandleFunc("GET /api/achievements", s.handleAchievements)
	mux.HandleFunc("POST /api/intro", s.handleIntro)
	mux.HandleFunc("GET /api/protocols", s.handleProtocols)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("live feed listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// AchievementsResponse is the body of GET /api/achievements.
type AchievementsResponse struct {
	Done       []string `json:"done"`
	NotDone    []string `json:"not_done"`
	Total      int      `json:"total"`
	IntroShown bool     `json:"intro_shown"`
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	done, notDone := s.tracker.Partition()
	writeJSON(w, AchievementsResponse{
		Done:       done,
		NotDone:    notDone,
		Total:      s.catalog.Len(),
		IntroShown: s.tracker.HasShownIntro(r.Context()),
	})
}

func (s *Server) handleIntro(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.MarkIntroShown(r.Context()); err != nil {
		s.logger.Warn("saving intro flag failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ProtocolsResponse is the body of GET /api/protocols.
type ProtocolsResponse struct {
	Protocols []options.Protocol `json:"protocols"`
	Options   map[string]int     `json:"options"`
}

func (s *Server) handleProtocols(w http.ResponseWriter, r *http.Request) {
	opts := make(map[string]int)
	for _, name := range options.OptionNames() {
		opts[name], _ = options.Option(name)
	}
	writeJSON(w, ProtocolsResponse{Protocols: options.Protocols(), Options: opts})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
