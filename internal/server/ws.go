package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/homesense/homesense/internal/graph"
	"github.com/homesense/homesense/internal/suggestions"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20
)

// Update is pushed to the editor after each snapshot and on every tick.
type Update struct {
	Hint     suggestions.Hint `json:"hint"`
	Unlocked []string         `json:"unlocked"`
	Coverage map[string]int   `json:"coverage"`
	Progress Progress         `json:"progress"`
	Error    string           `json:"error,omitempty"`
}

// Progress counts unlocked achievements.
type Progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// inbound is a parsed snapshot frame, or the reason it was rejected.
type inbound struct {
	scenario *graph.Scenario
	err      error
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	key := fmt.Sprintf("%s/%p", conn.RemoteAddr(), conn)
	defer s.limiter.Forget(key)

	s.logger.Debug("editor connected", "remote", conn.RemoteAddr().String())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	frames := make(chan inbound, 1)
	go s.readSnapshots(ctx, conn, key, frames, cancel)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	var current *graph.Scenario
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("editor disconnected", "remote", conn.RemoteAddr().String())
			return
		case in := <-frames:
			if in.err != nil {
				if err := s.send(conn, Update{Error: in.err.Error()}); err != nil {
					return
				}
				continue
			}
			current = in.scenario
			if err := s.push(ctx, conn, current); err != nil {
				return
			}
		case <-ticker.C:
			if current == nil {
				continue
			}
			if err := s.push(ctx, conn, current); err != nil {
				return
			}
		}
	}
}

// readSnapshots parses text frames until the connection closes. Only the
// writer loop touches conn for writing.
func (s *Server) readSnapshots(ctx context.Context, conn *websocket.Conn, key string, frames chan<- inbound, done context.CancelFunc) {
	defer done()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var in inbound
		if !s.limiter.Allow(key) {
			in.err = fmt.Errorf("snapshot rate limit exceeded")
		} else {
			in.scenario, in.err = graph.ParseJSON(data)
		}

		select {
		case frames <- in:
		case <-ctx.Done():
			return
		}
	}
}

// push evaluates the scenario and sends the result.
func (s *Server) push(ctx context.Context, conn *websocket.Conn, sc *graph.Scenario) error {
	u := s.evaluate(ctx, sc)
	return s.send(conn, u)
}

func (s *Server) evaluate(ctx context.Context, sc *graph.Scenario) Update {
	u := Update{Unlocked: []string{}}

	unlocked, err := s.tracker.Evaluate(ctx, sc, sc)
	for _, a := range unlocked {
		u.Unlocked = append(u.Unlocked, a.Name)
	}
	if err != nil {
		s.logger.Warn("saving progress failed", "error", err)
		u.Error = err.Error()
	}

	u.Hint = s.engine.Next(sc, sc)
	u.Coverage = sc.Coverage()
	done, total := s.tracker.Progress()
	u.Progress = Progress{Done: done, Total: total}
	return u
}

func (s *Server) send(conn *websocket.Conn, u Update) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(u)
}
