package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/homesense/homesense/internal/achievements"
	"github.com/homesense/homesense/internal/ratelimit"
	"github.com/homesense/homesense/internal/store"
	"github.com/homesense/homesense/internal/suggestions"
)

const kitchenSnapshot = `{
  "rooms": ["kitchen"],
  "nodes": [
    {"id": "shg", "modality": "home-gateway", "home_gateway": true, "reachable": true, "rooms": ["kitchen"]},
    {"id": "env", "modality": "environmental", "reachable": true, "rooms": ["kitchen"]}
  ],
  "links": [{"source": "env", "target": "shg", "protocol": "TSCH"}]
}`

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	ctx := context.Background()
	catalog := achievements.NewCatalog()
	tracker := achievements.NewTracker(ctx, catalog, store.NewInMemoryStore(), nil)
	engine := suggestions.NewEngine(fixedSource(0.9))

	s := New(catalog, tracker, engine, cfg)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUpdate(t *testing.T, conn *websocket.Conn) Update {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	var u Update
	if err := conn.ReadJSON(&u); err != nil {
		t.Fatalf("reading update: %v", err)
	}
	return u
}

func TestLiveFeed_SnapshotUnlocks(t *testing.T) {
	_, ts := newTestServer(t, Config{TickInterval: time.Hour})
	conn := dial(t, ts)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(kitchenSnapshot)); err != nil {
		t.Fatal(err)
	}
	u := readUpdate(t, conn)

	if u.Error != "" {
		t.Fatalf("unexpected error: %s", u.Error)
	}
	want := []string{"Environmental sensing", "Full environmental sensing"}
	if !slices.Equal(u.Unlocked, want) {
		t.Errorf("Unlocked = %v, want %v", u.Unlocked, want)
	}
	if u.Coverage["environmental"] != 100 {
		t.Errorf("environmental coverage = %d, want 100", u.Coverage["environmental"])
	}
	if u.Progress.Done != 2 || u.Progress.Total != 15 {
		t.Errorf("Progress = %+v, want 2/15", u.Progress)
	}
	if u.Hint.Type != suggestions.TypeSuggestion || u.Hint.Text == "" {
		t.Errorf("Hint = %+v, want a suggestion", u.Hint)
	}

	// Same snapshot again: nothing new to unlock.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(kitchenSnapshot)); err != nil {
		t.Fatal(err)
	}
	u = readUpdate(t, conn)
	if len(u.Unlocked) != 0 {
		t.Errorf("second snapshot unlocked %v", u.Unlocked)
	}
	if u.Progress.Done != 2 {
		t.Errorf("Progress.Done = %d, want 2", u.Progress.Done)
	}
}

func TestLiveFeed_TickRepeatsLatestSnapshot(t *testing.T) {
	_, ts := newTestServer(t, Config{TickInterval: 20 * time.Millisecond})
	conn := dial(t, ts)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"started": false, "rooms": [], "nodes": []}`)); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		u := readUpdate(t, conn)
		if u.Hint.Text != suggestions.WaitingText {
			t.Fatalf("update %d hint = %q, want waiting text", i, u.Hint.Text)
		}
	}
}

func TestLiveFeed_BadSnapshot(t *testing.T) {
	_, ts := newTestServer(t, Config{TickInterval: time.Hour})
	conn := dial(t, ts)

	tests := []struct {
		name    string
		frame   string
		wantErr string
	}{
		{"malformed json", `{"nodes": [`, "parsing scenario"},
		{"dangling link", `{"rooms": [], "nodes": [{"id": "a", "modality": "video"}], "links": [{"source": "a", "target": "ghost"}]}`, "unknown node"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.frame)); err != nil {
				t.Fatal(err)
			}
			u := readUpdate(t, conn)
			if !strings.Contains(u.Error, tt.wantErr) {
				t.Errorf("Error = %q, want containing %q", u.Error, tt.wantErr)
			}
		})
	}
}

func TestLiveFeed_SnapshotRateLimit(t *testing.T) {
	_, ts := newTestServer(t, Config{
		TickInterval:    time.Hour,
		SnapshotLimiter: ratelimit.NewLimiter(0, 1),
	})
	conn := dial(t, ts)

	for i := 0; i < 2; i++ {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(kitchenSnapshot)); err != nil {
			t.Fatal(err)
		}
	}
	if u := readUpdate(t, conn); u.Error != "" {
		t.Fatalf("first snapshot rejected: %s", u.Error)
	}
	if u := readUpdate(t, conn); !strings.Contains(u.Error, "rate limit") {
		t.Errorf("second snapshot Error = %q, want rate limit", u.Error)
	}
}

func TestAPIAchievements(t *testing.T) {
	s, ts := newTestServer(t, Config{})
	if _, err := s.tracker.SetDone(context.Background(), "Video sensing"); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(ts.URL + "/api/achievements")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body AchievementsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(body.Done, []string{"Video sensing"}) {
		t.Errorf("Done = %v", body.Done)
	}
	if len(body.Done)+len(body.NotDone) != body.Total || body.Total != 15 {
		t.Errorf("partition %d+%d, total %d", len(body.Done), len(body.NotDone), body.Total)
	}
}

func TestAPIIntro(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	introShown := func() bool {
		t.Helper()
		resp, err := http.Get(ts.URL + "/api/achievements")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var body AchievementsResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		return body.IntroShown
	}

	if introShown() {
		t.Fatal("intro_shown = true before the intro was shown")
	}

	resp, err := http.Post(ts.URL+"/api/intro", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	if !introShown() {
		t.Error("intro_shown = false after POST /api/intro")
	}
}

func TestAPIProtocols(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/api/protocols")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body ProtocolsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Protocols) != 7 || body.Protocols[0].Nm != "TSCH" {
		t.Errorf("Protocols = %+v", body.Protocols)
	}
	if body.Options["distanceMetersToPixels"] != 50 {
		t.Errorf("Options = %v", body.Options)
	}
}

func TestAPI_MethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	resp, err := http.Post(ts.URL+"/api/achievements", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}
