package mcp

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/homesense/homesense/internal/achievements"
	"github.com/homesense/homesense/internal/graph"
	"github.com/homesense/homesense/internal/pathutil"
	"github.com/homesense/homesense/internal/ratelimit"
	"github.com/homesense/homesense/internal/suggestions"
)

func TestHandleHint_EmptyHouse(t *testing.T) {
	server, _, dir := setupTestServer(t)
	path := writeScenario(t, dir, "empty.yaml", "rooms: [kitchen]\nnodes: []\n")

	result, out, err := server.handleHint(context.Background(), &sdk.CallToolRequest{}, HintInput{Scenario: path, Count: 3})
	if err != nil {
		t.Fatalf("handleHint failed: %v", err)
	}
	if result != nil {
		t.Error("Expected nil result (SDK auto-populates)")
	}

	if len(out.Hints) != 3 {
		t.Fatalf("len(Hints) = %d, want 3", len(out.Hints))
	}
	pending := server.engine.PendingSuggestions(mustLoad(t, server, path))
	for i, h := range out.Hints {
		if h.Type != suggestions.TypeSuggestion {
			t.Errorf("hint %d type = %s, want Suggestion", i, h.Type)
		}
		if !slices.Contains(pending, h.Text) {
			t.Errorf("hint %d is not a pending suggestion: %q", i, h.Text)
		}
	}
	if len(out.Problems) != 0 {
		t.Errorf("Problems = %v, want none", out.Problems)
	}
	if out.Pending != 15 {
		t.Errorf("Pending = %d, want 15", out.Pending)
	}
}

func TestHandleHint_NotStarted(t *testing.T) {
	server, _, dir := setupTestServer(t)
	path := writeScenario(t, dir, "loading.json", `{"started": false, "rooms": [], "nodes": []}`)

	_, out, err := server.handleHint(context.Background(), &sdk.CallToolRequest{}, HintInput{Scenario: path})
	if err != nil {
		t.Fatalf("handleHint failed: %v", err)
	}
	if len(out.Hints) != 1 || out.Hints[0].Text != suggestions.WaitingText {
		t.Errorf("Hints = %+v, want the waiting message", out.Hints)
	}
}

func TestHandleHint_InvalidInput(t *testing.T) {
	server, _, dir := setupTestServer(t)
	valid := writeScenario(t, dir, "house.yaml", kitchenScenario)

	tests := []struct {
		name    string
		args    HintInput
		wantErr string
	}{
		{"count too large", HintInput{Scenario: valid, Count: 11}, "count must be between"},
		{"outside dirs", HintInput{Scenario: filepath.Join(t.TempDir(), "house.yaml")}, "outside allowed"},
		{"wrong extension", HintInput{Scenario: filepath.Join(dir, "house.txt")}, "unsupported extension"},
		{"missing file", HintInput{Scenario: filepath.Join(dir, "missing.yaml")}, "reading scenario file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := server.handleHint(context.Background(), &sdk.CallToolRequest{}, tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestHandleCheck(t *testing.T) {
	server, kv, dir := setupTestServer(t)
	path := writeScenario(t, dir, "house.yaml", kitchenScenario)
	ctx := context.Background()

	_, out, err := server.handleCheck(ctx, &sdk.CallToolRequest{}, CheckInput{Scenario: path})
	if err != nil {
		t.Fatalf("handleCheck failed: %v", err)
	}

	var names []string
	for _, a := range out.Unlocked {
		names = append(names, a.Name)
	}
	want := []string{"Environmental sensing", "Full environmental sensing", "Water monitoring: kitchen"}
	if !slices.Equal(names, want) {
		t.Errorf("Unlocked = %v, want %v", names, want)
	}
	if out.Coverage["environmental"] != 100 {
		t.Errorf("environmental coverage = %d, want 100", out.Coverage["environmental"])
	}
	if out.Done != 3 || out.Total != 15 {
		t.Errorf("Done/Total = %d/%d, want 3/15", out.Done, out.Total)
	}
	if !strings.HasPrefix(out.Message, "Unlocked Environmental sensing") {
		t.Errorf("Message = %q", out.Message)
	}

	raw, err := kv.Get(ctx, "doneAchievements")
	if err != nil {
		t.Fatalf("progress not persisted: %v", err)
	}
	if !strings.Contains(raw, "Water monitoring: kitchen") {
		t.Errorf("persisted = %s", raw)
	}

	// A second check unlocks nothing new and does not rewrite the store.
	writes := kv.Writes()
	_, out, err = server.handleCheck(ctx, &sdk.CallToolRequest{}, CheckInput{Scenario: path})
	if err != nil {
		t.Fatalf("second handleCheck failed: %v", err)
	}
	if len(out.Unlocked) != 0 {
		t.Errorf("second check unlocked %v", out.Unlocked)
	}
	if kv.Writes() != writes {
		t.Errorf("store written %d more times", kv.Writes()-writes)
	}
	if !strings.HasPrefix(out.Message, "No new achievements") {
		t.Errorf("Message = %q", out.Message)
	}
}

func TestHandleAchievements(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ctx := context.Background()

	if _, err := server.tracker.SetDone(ctx, "Minimalist"); err != nil {
		t.Fatal(err)
	}

	_, out, err := server.handleAchievements(ctx, &sdk.CallToolRequest{}, AchievementsInput{})
	if err != nil {
		t.Fatalf("handleAchievements failed: %v", err)
	}

	if len(out.Done) != 1 || out.Done[0].Name != "Minimalist" || out.Done[0].Explanation == "" {
		t.Errorf("Done = %+v", out.Done)
	}
	if len(out.Done)+len(out.NotDone) != out.Total {
		t.Errorf("partition sizes %d+%d != %d", len(out.Done), len(out.NotDone), out.Total)
	}
	if slices.Contains(out.NotDone, "Indoor localization") {
		t.Error("locked hidden achievement leaked its name")
	}
	if !slices.Contains(out.NotDone, achievements.HiddenPlaceholder) {
		t.Error("expected hidden placeholder in NotDone")
	}
	if out.IntroShown {
		t.Error("IntroShown = true before the intro was shown")
	}

	if err := server.tracker.MarkIntroShown(ctx); err != nil {
		t.Fatal(err)
	}
	_, out, err = server.handleAchievements(ctx, &sdk.CallToolRequest{}, AchievementsInput{})
	if err != nil {
		t.Fatalf("handleAchievements failed: %v", err)
	}
	if !out.IntroShown {
		t.Error("IntroShown = false after MarkIntroShown")
	}
}

func TestHandleReset(t *testing.T) {
	server, kv, _ := setupTestServer(t)
	ctx := context.Background()

	server.tracker.SetDone(ctx, "Video sensing")
	server.tracker.MarkIntroShown(ctx)

	if _, _, err := server.handleReset(ctx, &sdk.CallToolRequest{}, ResetInput{}); err == nil {
		t.Fatal("reset without confirm should fail")
	}
	if !server.tracker.IsDone("Video sensing") {
		t.Fatal("unconfirmed reset must not clear progress")
	}

	_, out, err := server.handleReset(ctx, &sdk.CallToolRequest{}, ResetInput{Confirm: true})
	if err != nil {
		t.Fatalf("handleReset failed: %v", err)
	}
	if out.Cleared != 1 {
		t.Errorf("Cleared = %d, want 1", out.Cleared)
	}
	if v, _ := kv.Get(ctx, "doneAchievements"); v != "[]" {
		t.Errorf("doneAchievements = %q, want []", v)
	}
	if server.tracker.HasShownIntro(ctx) {
		t.Error("intro flag should be cleared")
	}

	// Reset allows a single call per burst.
	_, _, err = server.handleReset(ctx, &sdk.CallToolRequest{}, ResetInput{Confirm: true})
	if !errors.Is(err, ratelimit.ErrLimited) {
		t.Errorf("second reset error = %v, want ErrLimited", err)
	}
}

func TestHandleProtocols(t *testing.T) {
	server, _, _ := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleProtocols(ctx, &sdk.CallToolRequest{}, ProtocolsInput{})
	if err != nil {
		t.Fatalf("handleProtocols failed: %v", err)
	}
	if len(out.Protocols) != 7 {
		t.Fatalf("len(Protocols) = %d, want 7", len(out.Protocols))
	}
	if out.Protocols[0].Nm != "TSCH" || out.Protocols[6].Nm != "3G" {
		t.Errorf("unexpected order: first %s, last %s", out.Protocols[0].Nm, out.Protocols[6].Nm)
	}
	if out.Options["startingCredits"] != 1500 {
		t.Errorf("startingCredits = %d, want 1500", out.Options["startingCredits"])
	}

	_, out, err = server.handleProtocols(ctx, &sdk.CallToolRequest{}, ProtocolsInput{Name: "BLE"})
	if err != nil {
		t.Fatalf("handleProtocols(BLE) failed: %v", err)
	}
	if len(out.Protocols) != 1 || out.Protocols[0].RangePixels != 350 || out.Protocols[0].RangeMeters != 7 {
		t.Errorf("BLE = %+v", out.Protocols)
	}
	if out.Options != nil {
		t.Error("options are only listed without a name")
	}

	if _, _, err := server.handleProtocols(ctx, &sdk.CallToolRequest{}, ProtocolsInput{Name: "Zigbee"}); err == nil {
		t.Error("expected error for unknown protocol")
	}
}

func TestHandleGraph(t *testing.T) {
	server, _, dir := setupTestServer(t)
	path := writeScenario(t, dir, "house.yaml", kitchenScenario)
	ctx := context.Background()

	_, out, err := server.handleGraph(ctx, &sdk.CallToolRequest{}, GraphInput{Scenario: path})
	if err != nil {
		t.Fatalf("handleGraph failed: %v", err)
	}
	if out.Format != "dot" || !strings.Contains(out.DOT, `"env-kitchen" -> "shg"`) {
		t.Errorf("unexpected DOT output: %+v", out)
	}

	_, out, err = server.handleGraph(ctx, &sdk.CallToolRequest{}, GraphInput{Scenario: path, Format: "json"})
	if err != nil {
		t.Fatalf("handleGraph(json) failed: %v", err)
	}
	if out.Graph["node_count"] != 4 {
		t.Errorf("node_count = %v, want 4", out.Graph["node_count"])
	}

	if _, _, err := server.handleGraph(ctx, &sdk.CallToolRequest{}, GraphInput{Scenario: path, Format: "svg"}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func mustLoad(t *testing.T, s *Server, path string) *graph.Scenario {
	t.Helper()
	sc, err := s.loadScenario(path)
	if err != nil {
		t.Fatalf("loading %s: %v", pathutil.Redact(path), err)
	}
	return sc
}
