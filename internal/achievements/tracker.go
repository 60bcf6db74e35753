package achievements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/homesense/homesense/internal/constants"
	"github.com/homesense/homesense/internal/graph"
	"github.com/homesense/homesense/internal/logging"
	"github.com/homesense/homesense/internal/store"
)

// Tracker records which achievements a player has unlocked. The done-set is
// append-only during play and persisted as a JSON array under
// constants.KeyDoneAchievements; only Reset clears it.
type Tracker struct {
	mu      sync.Mutex
	catalog *Catalog
	kv      store.KVStore
	done    []string

	loadErr error

	logger *slog.Logger
	events *logging.EventLogger
}

// NewTracker loads the done-set from kv. Missing or corrupt data yields an
// empty done-set: the problem is logged and kept in LoadError, never
// returned. A nil logger discards output.
func NewTracker(ctx context.Context, catalog *Catalog, kv store.KVStore, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = logging.Discard()
	}
	t := &Tracker{
		catalog: catalog,
		kv:      kv,
		logger:  logger,
	}
	t.done, t.loadErr = t.load(ctx)
	if t.loadErr != nil {
		t.logger.Warn("done achievements unreadable, starting empty", "error", t.loadErr)
	}
	return t
}

// SetEventLogger attaches the progress event log. Nil disables it.
func (t *Tracker) SetEventLogger(events *logging.EventLogger) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = events
}

// LoadError returns why the persisted done-set was discarded, if it was.
func (t *Tracker) LoadError() error {
	return t.loadErr
}

func (t *Tracker) load(ctx context.Context) ([]string, error) {
	if r, ok := t.kv.(store.Recovering); ok {
		if err := r.LoadError(); err != nil {
			return nil, fmt.Errorf("reading progress store: %w", err)
		}
	}

	raw, err := t.kv.Get(ctx, constants.KeyDoneAchievements)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading done achievements: %w", err)
	}

	done, err := parseDone(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing done achievements: %w", err)
	}
	return done, nil
}

// parseDone decodes the persisted done-set, dropping duplicates.
func parseDone(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(names))
	done := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			done = append(done, n)
		}
	}
	return done, nil
}

// SetDone marks an achievement unlocked. It reports whether the name was
// newly added; re-marking is a no-op and does not write to the store.
func (t *Tracker) SetDone(ctx context.Context, name string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.setDoneLocked(ctx, name)
}

func (t *Tracker) setDoneLocked(ctx context.Context, name string) (bool, error) {
	if slices.Contains(t.done, name) {
		return false, nil
	}
	t.done = append(t.done, name)

	data, err := json.Marshal(t.done)
	if err != nil {
		return true, fmt.Errorf("marshaling done achievements: %w", err)
	}
	if err := t.kv.Set(ctx, constants.KeyDoneAchievements, string(data)); err != nil {
		return true, fmt.Errorf("persisting done achievements: %w", err)
	}

	t.logger.Info("achievement unlocked", "name", name)
	t.events.Log("achievement_unlocked", map[string]any{"name": name, "done_count": len(t.done)})
	return true, nil
}

// IsDone reports whether the achievement has been unlocked.
func (t *Tracker) IsDone(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Contains(t.done, name)
}

// Done returns the unlocked names in unlock order.
func (t *Tracker) Done() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.done)
}

// Progress counts unlocked catalog achievements against the catalog size.
// Persisted names the catalog does not know are not counted.
func (t *Tracker) Progress() (done, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, a := range t.catalog.registry {
		if slices.Contains(t.done, a.Name) {
			done++
		}
	}
	return done, t.catalog.Len()
}

// Partition splits the catalog into unlocked names and the remaining
// labels. Hidden achievements that are still locked are reported as
// HiddenPlaceholder. Both lists follow catalog order, and every achievement
// lands in exactly one of them.
func (t *Tracker) Partition() (done, notDone []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	done = make([]string, 0, len(t.done))
	notDone = make([]string, 0, t.catalog.Len())
	for _, a := range t.catalog.registry {
		switch {
		case slices.Contains(t.done, a.Name):
			done = append(done, a.Name)
		case a.Hidden:
			notDone = append(notDone, HiddenPlaceholder)
		default:
			notDone = append(notDone, a.Name)
		}
	}
	return done, notDone
}

// Evaluate runs every predicate against the current graph so coverage
// percentages stay fresh, and unlocks achievements that became satisfied.
// It returns the newly unlocked achievements in catalog order.
func (t *Tracker) Evaluate(ctx context.Context, g graph.Graph, w graph.World) ([]Achievement, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var unlocked []Achievement
	for _, a := range t.catalog.registry {
		ok := a.Predicate(g, w)
		t.logger.Log(ctx, logging.LevelTrace, "predicate evaluated", "achievement", a.Name, "satisfied", ok)
		if !ok {
			continue
		}
		added, err := t.setDoneLocked(ctx, a.Name)
		if err != nil {
			return unlocked, err
		}
		if added {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked, nil
}

// HasShownIntro reports whether the intro has already been shown.
func (t *Tracker) HasShownIntro(ctx context.Context) bool {
	v, err := t.kv.Get(ctx, constants.KeyHasShownIntro)
	return err == nil && v != ""
}

// MarkIntroShown records that the intro has been shown.
func (t *Tracker) MarkIntroShown(ctx context.Context) error {
	if err := t.kv.Set(ctx, constants.KeyHasShownIntro, "true"); err != nil {
		return fmt.Errorf("persisting intro flag: %w", err)
	}
	return nil
}

// Reset clears all progress: the done-set and the intro flag.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.done = nil
	if err := t.kv.Set(ctx, constants.KeyDoneAchievements, "[]"); err != nil {
		return fmt.Errorf("resetting done achievements: %w", err)
	}
	if err := t.kv.Set(ctx, constants.KeyHasShownIntro, ""); err != nil {
		return fmt.Errorf("resetting intro flag: %w", err)
	}

	t.logger.Info("progress reset")
	t.events.Log("progress_reset", nil)
	return nil
}
