// Package suggestions picks the next hint to show the player: an active
// problem with the current design, or a piece of advice not yet followed.
package suggestions

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/homesense/homesense/internal/constants"
	"github.com/homesense/homesense/internal/graph"
	"github.com/homesense/homesense/internal/logging"
)

// HintType distinguishes problems from suggestions.
type HintType string

const (
	TypeProblem    HintType = "Problem"
	TypeSuggestion HintType = "Suggestion"
)

// Fixed messages.
const (
	// WaitingText is shown until the game has loaded (two dots, as displayed in the editor).
	WaitingText = "Wait for the game to load.."

	// DoneText is shown once every suggestion has been followed.
	DoneText = `Looks like you're all done with the "basic" stuff. Keep up the good work!<br><br>Some ideas to try out:<ul><li> What's the minimal number of devices needed to achieve full coverage?<li> If you're using BLE for communication, try switcing the network to TSCH and vice versa.<li>Indoor localization relies on Forwarding Gateways: the more, the better.<li> Leave <a href="#" onclick="$('#node-dialog-about').modal()">feedback via social media or email!</a></ul>`
)

// Hint is what the editor displays.
type Hint struct {
	Type HintType `json:"type"`
	Text string   `json:"text"`
}

// Source supplies uniform random numbers in [0, 1).
type Source interface {
	Float64() float64
}

// NewSource returns a Source seeded with seed, or a randomly seeded one
// when seed is zero.
func NewSource(seed int64) Source {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// Engine selects hints from ordered suggestion and problem lists.
// It is safe for concurrent use.
type Engine struct {
	suggestions []Rule
	problems    []Rule

	mu     sync.Mutex
	rng    Source
	logger *slog.Logger
	events *logging.EventLogger
}

// NewEngine creates an engine with the built-in rule lists.
func NewEngine(rng Source) *Engine {
	return NewEngineWithRules(rng, defaultSuggestions(), defaultProblems())
}

// NewEngineWithRules creates an engine with custom rule lists.
func NewEngineWithRules(rng Source, suggestions, problems []Rule) *Engine {
	if rng == nil {
		rng = NewSource(0)
	}
	return &Engine{
		suggestions: suggestions,
		problems:    problems,
		rng:         rng,
		logger:      logging.Discard(),
	}
}

// SetLogger attaches operational and event loggers. Either may be nil.
func (e *Engine) SetLogger(logger *slog.Logger, events *logging.EventLogger) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if logger == nil {
		logger = logging.Discard()
	}
	e.logger = logger
	e.events = events
}

// Next returns the hint to display for the current graph.
//
// Before the game starts it always returns WaitingText. Otherwise, half of
// the time the first active problem wins. Suggestions whose advice is not
// yet followed are then scanned in order; on the first pass each may be
// skipped at random (except the last), and a second pass without skipping
// runs only if something was skipped. When every suggestion is satisfied
// the result is DoneText.
func (e *Engine) Next(g graph.Graph, w graph.World) Hint {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := e.next(g, w)
	e.logger.Log(context.Background(), slog.LevelDebug, "hint selected", "type", h.Type)
	e.events.Log("hint_selected", map[string]any{"type": h.Type, "text": h.Text})
	return h
}

func (e *Engine) next(g graph.Graph, w graph.World) Hint {
	if !w.IsStarted() {
		return Hint{Type: TypeSuggestion, Text: WaitingText}
	}

	if e.rng.Float64() < constants.ProblemProbability {
		for _, p := range e.problems {
			if p.Check(g) {
				return Hint{Type: TypeProblem, Text: p.Text}
			}
		}
	}

	anySkipped := false
	for pass := 0; pass < 2; pass++ {
		for i, s := range e.suggestions {
			if s.Check(g) {
				continue
			}
			last := i == len(e.suggestions)-1
			if pass == 0 && !last && e.rng.Float64() < constants.SuggestionSkipProbability {
				anySkipped = true
				continue
			}
			return Hint{Type: TypeSuggestion, Text: s.Text}
		}
		if !anySkipped {
			break
		}
	}

	return Hint{Type: TypeSuggestion, Text: DoneText}
}

// ActiveProblems returns the texts of every problem currently present, in
// order. Unlike Next it is deterministic.
func (e *Engine) ActiveProblems(g graph.Graph) []string {
	var texts []string
	for _, p := range e.problems {
		if p.Check(g) {
			texts = append(texts, p.Text)
		}
	}
	return texts
}

// PendingSuggestions returns the texts of every suggestion not yet followed, in order.
func (e *Engine) PendingSuggestions(g graph.Graph) []string {
	var texts []string
	for _, s := range e.suggestions {
		if !s.Check(g) {
			texts = append(texts, s.Text)
		}
	}
	return texts
}
