package graph

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/homesense/homesense/internal/constants"
)

// ErrUnknownNode is returned when a link references a node that is not part
// of the scenario.
var ErrUnknownNode = errors.New("unknown node")

// Scenario is an in-memory snapshot of the editor state. It implements both
// Graph and World so that a single value can be handed to the rule engines.
//
// Scenario is safe for concurrent use; the live feed reads snapshots while
// new ones arrive on the websocket.
type Scenario struct {
	mu       sync.RWMutex
	nodes    []Node
	links    []Link
	rooms    []string
	started  bool
	coverage map[string]int
}

// NewScenario creates an empty scenario with the given declared rooms.
func NewScenario(rooms []string, started bool) *Scenario {
	return &Scenario{
		rooms:    slices.Clone(rooms),
		started:  started,
		coverage: make(map[string]int),
	}
}

// AddNode adds a node, assigning a random ID when none is set, and returns
// the node's ID.
func (s *Scenario) AddNode(n Node) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.Rooms = slices.Clone(n.Rooms)
	s.nodes = append(s.nodes, n)
	return n.ID
}

// AddLink adds a link between two existing nodes.
func (s *Scenario) AddLink(l Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasNode(l.Source) {
		return fmt.Errorf("link source %q: %w", l.Source, ErrUnknownNode)
	}
	if !s.hasNode(l.Target) {
		return fmt.Errorf("link target %q: %w", l.Target, ErrUnknownNode)
	}
	s.links = append(s.links, l)
	return nil
}

func (s *Scenario) hasNode(id string) bool {
	for _, n := range s.nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// SetStarted flips the game-started flag.
func (s *Scenario) SetStarted(started bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = started
}

// EachNode implements Graph.
func (s *Scenario) EachNode(fn func(Node)) {
	for _, n := range s.Nodes() {
		fn(n)
	}
}

// Nodes implements Graph.
func (s *Scenario) Nodes() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.nodes)
}

// Links implements Graph.
func (s *Scenario) Links() []Link {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.links)
}

// RoomNames implements World.
func (s *Scenario) RoomNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.rooms)
}

// IsStarted implements World.
func (s *Scenario) IsStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// SetCoverage implements World. Values outside 0-100 are clamped.
func (s *Scenario) SetCoverage(modality string, percent int) {
	percent = max(constants.MinCoveragePercent, min(constants.MaxCoveragePercent, percent))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.coverage[modality] = percent
}

// Coverage returns a copy of the recorded coverage percentages.
func (s *Scenario) Coverage() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.coverage)
}
