// Package graph defines the view of the editor's sensor network that the
// achievement and hint rules evaluate against.
//
// The editor owns the graph: it places nodes, draws links and computes
// reachability. This package only describes the read side (Graph) and the
// world state a rule may consult or write back to (World).
package graph

import "slices"

// Node is a device placed on the floorplan.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Modality string   `json:"modality" yaml:"modality"`
	Protocol string   `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Rooms    []string `json:"rooms,omitempty" yaml:"rooms,omitempty"`

	// Reachable is computed by the editor: true when data from this node
	// can reach the home gateway.
	Reachable bool `json:"reachable" yaml:"reachable"`

	// HomeGateway marks the node the whole network reports to.
	HomeGateway bool `json:"home_gateway,omitempty" yaml:"home_gateway,omitempty"`
}

// InRoom reports whether the node covers the given room.
func (n Node) InRoom(room string) bool {
	return slices.Contains(n.Rooms, room)
}

// Link is a directed connection from an output port to an input port.
type Link struct {
	Source   string `json:"source" yaml:"source"`
	Target   string `json:"target" yaml:"target"`
	Protocol string `json:"protocol,omitempty" yaml:"protocol,omitempty"`
}

// Graph is read access to the current node/link snapshot.
type Graph interface {
	// EachNode calls fn for every node in insertion order.
	EachNode(fn func(Node))

	// Nodes returns a copy of all nodes.
	Nodes() []Node

	// Links returns a copy of all links.
	Links() []Link
}

// World is the game state surrounding the graph.
type World interface {
	// RoomNames returns the rooms declared by the current floorplan.
	RoomNames() []string

	// SetCoverage records a coverage percentage (0-100) for a modality.
	SetCoverage(modality string, percent int)

	// IsStarted reports whether the game has finished loading.
	IsStarted() bool
}
