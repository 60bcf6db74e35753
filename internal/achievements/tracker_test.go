package achievements

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/homesense/homesense/internal/constants"
	"github.com/homesense/homesense/internal/graph"
	"github.com/homesense/homesense/internal/logging"
	"github.com/homesense/homesense/internal/store"
)

func newTestTracker(t *testing.T) (*Tracker, *store.InMemoryStore) {
	t.Helper()
	kv := store.NewInMemoryStore()
	return NewTracker(context.Background(), NewCatalog(), kv, nil), kv
}

func TestTracker_SetDoneIdempotent(t *testing.T) {
	ctx := context.Background()
	tr, kv := newTestTracker(t)

	added, err := tr.SetDone(ctx, "Video sensing")
	if err != nil || !added {
		t.Fatalf("SetDone() = %v, %v; want true, nil", added, err)
	}
	writes := kv.Writes()

	added, err = tr.SetDone(ctx, "Video sensing")
	if err != nil || added {
		t.Fatalf("second SetDone() = %v, %v; want false, nil", added, err)
	}
	if kv.Writes() != writes {
		t.Errorf("second SetDone() wrote to the store (%d -> %d writes)", writes, kv.Writes())
	}

	if got := tr.Done(); !slices.Equal(got, []string{"Video sensing"}) {
		t.Errorf("Done() = %v, want [Video sensing]", got)
	}
	raw, _ := kv.Get(ctx, constants.KeyDoneAchievements)
	if raw != `["Video sensing"]` {
		t.Errorf("persisted = %s, want [\"Video sensing\"]", raw)
	}
	if !tr.IsDone("Video sensing") || tr.IsDone("Minimalist") {
		t.Error("IsDone() mismatch")
	}
}

func TestTracker_DoneKeepsUnlockOrder(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t)

	for _, name := range []string{"Minimalist", "Video sensing", "Environmental sensing"} {
		if _, err := tr.SetDone(ctx, name); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"Minimalist", "Video sensing", "Environmental sensing"}
	if got := tr.Done(); !slices.Equal(got, want) {
		t.Errorf("Done() = %v, want %v", got, want)
	}

	got := tr.Done()
	got[0] = "changed"
	if tr.Done()[0] != "Minimalist" {
		t.Error("mutating Done() result changed the tracker")
	}
}

func TestTracker_Partition(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t)
	catalog := NewCatalog()

	if _, err := tr.SetDone(ctx, "Video sensing"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.SetDone(ctx, "Minimalist"); err != nil {
		t.Fatal(err)
	}

	done, notDone := tr.Partition()

	if !slices.Equal(done, []string{"Video sensing", "Minimalist"}) {
		t.Errorf("done = %v", done)
	}
	if len(done)+len(notDone) != catalog.Len() {
		t.Errorf("partition sizes %d + %d != %d", len(done), len(notDone), catalog.Len())
	}

	placeholders := 0
	for _, label := range notDone {
		if label == HiddenPlaceholder {
			placeholders++
			continue
		}
		a, ok := catalog.FindByName(label)
		if !ok {
			t.Errorf("not-done label %q is not an achievement", label)
		}
		if a.Hidden {
			t.Errorf("hidden achievement %q leaked by name", label)
		}
		if slices.Contains(done, label) {
			t.Errorf("%q appears in both lists", label)
		}
	}
	// 7 hidden, Minimalist unlocked.
	if placeholders != 6 {
		t.Errorf("placeholders = %d, want 6", placeholders)
	}
}

func TestTracker_Reset(t *testing.T) {
	ctx := context.Background()
	tr, kv := newTestTracker(t)

	_, _ = tr.SetDone(ctx, "Video sensing")
	if err := tr.MarkIntroShown(ctx); err != nil {
		t.Fatal(err)
	}
	if !tr.HasShownIntro(ctx) {
		t.Fatal("HasShownIntro() = false after MarkIntroShown")
	}

	if err := tr.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	if got := tr.Done(); len(got) != 0 {
		t.Errorf("Done() after reset = %v, want empty", got)
	}
	done, notDone := tr.Partition()
	if len(done) != 0 || len(notDone) != NewCatalog().Len() {
		t.Errorf("Partition() after reset = %d done, %d not done", len(done), len(notDone))
	}
	if tr.HasShownIntro(ctx) {
		t.Error("HasShownIntro() = true after reset")
	}
	if raw, _ := kv.Get(ctx, constants.KeyDoneAchievements); raw != "[]" {
		t.Errorf("persisted done-set = %q, want []", raw)
	}
	if raw, err := kv.Get(ctx, constants.KeyHasShownIntro); err != nil || raw != "" {
		t.Errorf("persisted intro flag = %q, %v; want empty", raw, err)
	}
}

func TestNewTracker_LoadsPersisted(t *testing.T) {
	ctx := context.Background()
	kv := store.NewInMemoryStore()
	_ = kv.Set(ctx, constants.KeyDoneAchievements, `["Sleep monitoring","Sleep monitoring","Video sensing"]`)

	tr := NewTracker(ctx, NewCatalog(), kv, nil)
	if err := tr.LoadError(); err != nil {
		t.Fatalf("LoadError() = %v", err)
	}
	if got := tr.Done(); !slices.Equal(got, []string{"Sleep monitoring", "Video sensing"}) {
		t.Errorf("Done() = %v", got)
	}
}

func TestNewTracker_CorruptDataStartsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := store.NewInMemoryStore()
	_ = kv.Set(ctx, constants.KeyDoneAchievements, `["unterminated`)

	var buf bytes.Buffer
	tr := NewTracker(ctx, NewCatalog(), kv, logging.NewLogger("info", &buf))

	if len(tr.Done()) != 0 {
		t.Errorf("Done() = %v, want empty", tr.Done())
	}
	if tr.LoadError() == nil {
		t.Error("expected LoadError() to be set")
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected a warning, got %q", buf.String())
	}

	// The tracker keeps working and overwrites the corrupt value.
	if _, err := tr.SetDone(ctx, "Video sensing"); err != nil {
		t.Fatal(err)
	}
	if raw, _ := kv.Get(ctx, constants.KeyDoneAchievements); raw != `["Video sensing"]` {
		t.Errorf("persisted = %s", raw)
	}
}

func TestNewTracker_CorruptProgressFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	kv, err := store.NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	var buf bytes.Buffer
	tr := NewTracker(ctx, NewCatalog(), kv, logging.NewLogger("info", &buf))

	if tr.LoadError() == nil {
		t.Fatal("expected LoadError() to report the unreadable file")
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
	if len(tr.Done()) != 0 {
		t.Errorf("Done() = %v, want empty", tr.Done())
	}
}

func TestTracker_ProgressIgnoresUnknownNames(t *testing.T) {
	ctx := context.Background()
	kv := store.NewInMemoryStore()
	_ = kv.Set(ctx, constants.KeyDoneAchievements, `["Retired achievement","Video sensing","Another old one"]`)

	tr := NewTracker(ctx, NewCatalog(), kv, nil)
	done, total := tr.Progress()
	if done != 1 || total != 15 {
		t.Errorf("Progress() = %d/%d, want 1/15", done, total)
	}

	doneNames, notDone := tr.Partition()
	if len(doneNames) != done || len(doneNames)+len(notDone) != total {
		t.Errorf("Partition() sizes %d+%d disagree with Progress() %d/%d", len(doneNames), len(notDone), done, total)
	}
}

func TestNewTracker_EmptyValue(t *testing.T) {
	ctx := context.Background()
	kv := store.NewInMemoryStore()
	_ = kv.Set(ctx, constants.KeyDoneAchievements, "")

	tr := NewTracker(ctx, NewCatalog(), kv, nil)
	if tr.LoadError() != nil || len(tr.Done()) != 0 {
		t.Errorf("Done() = %v, LoadError() = %v", tr.Done(), tr.LoadError())
	}
}

func TestTracker_Evaluate(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t)

	s := house(houseRooms,
		node("video", true, "hall-and-stairs", "kitchen", "living room"),
		node("3G", true),
	)

	unlocked, err := tr.Evaluate(ctx, s, s)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	var names []string
	for _, a := range unlocked {
		names = append(names, a.Name)
	}
	want := []string{"Video sensing", "Full video sensing", "System monitoring"}
	if !slices.Equal(names, want) {
		t.Errorf("unlocked = %v, want %v", names, want)
	}

	cov := s.Coverage()
	if cov["video"] != 100 || cov["environmental"] != 0 || cov["wearable"] != 0 {
		t.Errorf("coverage = %v", cov)
	}

	again, err := tr.Evaluate(ctx, s, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 0 {
		t.Errorf("second Evaluate() unlocked %d achievements, want 0", len(again))
	}
}

func TestTracker_EvaluateKeepsDoneWhenGraphShrinks(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t)

	s := house(houseRooms, node("environmental", true, "kitchen"))
	if _, err := tr.Evaluate(ctx, s, s); err != nil {
		t.Fatal(err)
	}

	empty := house(houseRooms)
	if _, err := tr.Evaluate(ctx, empty, empty); err != nil {
		t.Fatal(err)
	}
	if !tr.IsDone("Environmental sensing") {
		t.Error("achievement was removed after the graph changed")
	}
}

func TestTracker_PersistsAcrossFileStores(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.json")

	kv, err := store.NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	tr := NewTracker(ctx, NewCatalog(), kv, nil)
	if _, err := tr.SetDone(ctx, "Sleep monitoring"); err != nil {
		t.Fatal(err)
	}

	kv2, err := store.NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	tr2 := NewTracker(ctx, NewCatalog(), kv2, nil)
	if !tr2.IsDone("Sleep monitoring") {
		t.Error("done-set not restored from file store")
	}
}

func TestTracker_EventLog(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	tr, _ := newTestTracker(t)

	events := logging.NewEventLogger(dir, "debug")
	defer events.Close()
	tr.SetEventLogger(events)

	s := graph.NewScenario(houseRooms, true)
	s.AddNode(node("environmental", true, "kitchen"))
	if _, err := tr.Evaluate(ctx, s, s); err != nil {
		t.Fatal(err)
	}
	if err := tr.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	events.Close()

	data, err := readFile(filepath.Join(dir, logging.EventsFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(data, `"event":"achievement_unlocked"`) || !strings.Contains(data, `"event":"progress_reset"`) {
		t.Errorf("events file missing entries: %s", data)
	}
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}
