package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/homesense/homesense/internal/sanitize"
)

// Snapshot is the serialized form of a scenario, as written by hand in
// YAML or posted by the browser editor as JSON.
type Snapshot struct {
	Started *bool    `json:"started,omitempty" yaml:"started,omitempty"`
	Rooms   []string `json:"rooms" yaml:"rooms"`
	Nodes   []Node   `json:"nodes" yaml:"nodes"`
	Links   []Link   `json:"links,omitempty" yaml:"links,omitempty"`
}

// Build turns the snapshot into a Scenario. The game counts as started
// unless the snapshot says otherwise. Free-text fields are sanitized on the
// way in.
func (snap Snapshot) Build() (*Scenario, error) {
	started := true
	if snap.Started != nil {
		started = *snap.Started
	}

	s := NewScenario(sanitize.Fields(snap.Rooms), started)
	for _, n := range snap.Nodes {
		s.AddNode(cleanNode(n))
	}
	for i, l := range snap.Links {
		l.Protocol = sanitize.Field(l.Protocol)
		if err := s.AddLink(l); err != nil {
			return nil, fmt.Errorf("link %d: %w", i, err)
		}
	}
	return s, nil
}

func cleanNode(n Node) Node {
	n.Name = sanitize.Label(n.Name)
	n.Modality = sanitize.Field(n.Modality)
	n.Protocol = sanitize.Field(n.Protocol)
	n.Rooms = sanitize.Fields(n.Rooms)
	return n
}

// ParseJSON builds a scenario from a JSON snapshot.
func ParseJSON(data []byte) (*Scenario, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return snap.Build()
}

// ParseYAML builds a scenario from a YAML snapshot.
func ParseYAML(data []byte) (*Scenario, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return snap.Build()
}

// LoadFile reads a scenario file. Files ending in .json are parsed as JSON,
// everything else as YAML.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}
