// Package visualization renders the sensor network in Graphviz DOT and JSON.
package visualization

import (
	"fmt"
	"strings"

	"github.com/homesense/homesense/internal/constants"
	"github.com/homesense/homesense/internal/graph"
	"github.com/homesense/homesense/internal/options"
)

// modalityColors maps node modalities to DOT fill colors.
var modalityColors = map[string]string{
	constants.ModalityEnvironmental: "mediumseagreen",
	constants.ModalityWearable:      "goldenrod",
	constants.ModalityVideo:         "steelblue",
	constants.ModalityGateway:       "orchid",
	constants.ModalityWater:         "lightskyblue",
	constants.ModalityCellular:      "tomato",
}

const (
	defaultNodeColor = "lightgray"
	defaultLinkColor = "black"
	unassignedRoom   = ""
)

// RenderDOT produces a Graphviz DOT representation of the sensor network.
// Nodes are grouped into one cluster per room (by their first room) and
// filled by modality; unreachable nodes are dashed and the home gateway is
// drawn as a double octagon. Links take their protocol's color.
func RenderDOT(g graph.Graph) string {
	var b strings.Builder
	b.WriteString("digraph homesense {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=filled, fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	// Group by room, keeping first-seen room order.
	var roomOrder []string
	byRoom := make(map[string][]graph.Node)
	g.EachNode(func(n graph.Node) {
		room := unassignedRoom
		if len(n.Rooms) > 0 {
			room = n.Rooms[0]
		}
		if _, ok := byRoom[room]; !ok {
			roomOrder = append(roomOrder, room)
		}
		byRoom[room] = append(byRoom[room], n)
	})

	for i, room := range roomOrder {
		indent := "  "
		if room != unassignedRoom {
			fmt.Fprintf(&b, "  subgraph cluster_%d {\n", i)
			fmt.Fprintf(&b, "    label=%q;\n", room)
			indent = "    "
		}
		for _, n := range byRoom[room] {
			b.WriteString(indent)
			b.WriteString(nodeLine(n))
		}
		if room != unassignedRoom {
			b.WriteString("  }\n")
		}
	}
	b.WriteString("\n")

	seen := make(map[string]bool) // dedup "src|tgt|protocol"
	for _, l := range g.Links() {
		key := l.Source + "|" + l.Target + "|" + l.Protocol
		if seen[key] {
			continue
		}
		seen[key] = true

		color := defaultLinkColor
		if p, ok := options.ProtocolByName(l.Protocol); ok {
			color = p.Color
		}
		fmt.Fprintf(&b, "  %q -> %q [label=%q, color=%q];\n", l.Source, l.Target, l.Protocol, color)
	}

	b.WriteString("}\n")
	return b.String()
}

func nodeLine(n graph.Node) string {
	color := modalityColors[n.Modality]
	if color == "" {
		color = defaultNodeColor
	}

	style := "filled"
	if !n.Reachable {
		style = "filled,dashed"
	}

	shape := "box"
	if n.HomeGateway {
		shape = "doubleoctagon"
	}

	label := n.Name
	if label == "" {
		label = n.Modality
	}

	return fmt.Sprintf("%q [label=%q, shape=%s, style=%q, fillcolor=%q, tooltip=%q];\n",
		n.ID, truncate(label, 40), shape, style, color, strings.Join(n.Rooms, ", "))
}

// RenderJSON produces a JSON-ready graph with nodes and links arrays.
func RenderJSON(g graph.Graph) map[string]interface{} {
	jsonNodes := make([]map[string]interface{}, 0)
	reachable := 0
	g.EachNode(func(n graph.Node) {
		if n.Reachable {
			reachable++
		}
		jsonNodes = append(jsonNodes, map[string]interface{}{
			"id":           n.ID,
			"name":         n.Name,
			"modality":     n.Modality,
			"rooms":        n.Rooms,
			"reachable":    n.Reachable,
			"home_gateway": n.HomeGateway,
		})
	})

	links := g.Links()
	jsonLinks := make([]map[string]interface{}, 0, len(links))
	for _, l := range links {
		jsonLinks = append(jsonLinks, map[string]interface{}{
			"source":   l.Source,
			"target":   l.Target,
			"protocol": l.Protocol,
		})
	}

	return map[string]interface{}{
		"nodes":           jsonNodes,
		"links":           jsonLinks,
		"node_count":      len(jsonNodes),
		"link_count":      len(jsonLinks),
		"reachable_count": reachable,
	}
}

// truncate shortens s to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
