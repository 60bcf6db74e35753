package achievements

import (
	"math"
	"slices"

	"github.com/homesense/homesense/internal/constants"
	"github.com/homesense/homesense/internal/graph"
)

// anyCoverage reports whether some node of the modality exists, optionally
// requiring it to be reachable.
func anyCoverage(g graph.Graph, modality string, mustBeReachable bool) bool {
	found := false
	g.EachNode(func(n graph.Node) {
		if n.Modality == modality && (n.Reachable || !mustBeReachable) {
			found = true
		}
	})
	return found
}

// coverageInRoom is anyCoverage restricted to nodes covering room.
func coverageInRoom(g graph.Graph, modality, room string, mustBeReachable bool) bool {
	found := false
	g.EachNode(func(n graph.Node) {
		if n.Modality == modality && (n.Reachable || !mustBeReachable) && n.InRoom(room) {
			found = true
		}
	})
	return found
}

// roomSet tracks which declared rooms are covered.
type roomSet struct {
	declared map[string]bool
	covered  map[string]bool
}

func newRoomSet(rooms []string) *roomSet {
	rs := &roomSet{
		declared: make(map[string]bool, len(rooms)),
		covered:  make(map[string]bool),
	}
	for _, r := range rooms {
		rs.declared[r] = true
	}
	return rs
}

// add marks the node's rooms covered. Rooms the floorplan does not declare
// are ignored.
func (rs *roomSet) add(n graph.Node) {
	for _, r := range n.Rooms {
		if rs.declared[r] {
			rs.covered[r] = true
		}
	}
}

func (rs *roomSet) total() int { return len(rs.declared) }
func (rs *roomSet) count() int { return len(rs.covered) }

// percent converts a coverage fraction to a rounded 0-100 value.
func percent(fraction float64) int {
	return int(math.Round(100 * math.Min(1, fraction)))
}

func fullEnvironmentalCoverage(g graph.Graph, w graph.World) bool {
	rs := newRoomSet(w.RoomNames())
	g.EachNode(func(n graph.Node) {
		if n.Modality == constants.ModalityEnvironmental && n.Reachable {
			rs.add(n)
		}
	})

	if rs.total() == 0 {
		w.SetCoverage(constants.ModalityEnvironmental, 0)
		return false
	}
	w.SetCoverage(constants.ModalityEnvironmental, percent(float64(rs.count())/float64(rs.total())))
	return rs.count() >= rs.total()
}

// wearableStats summarizes what wearable sensing depends on: a wearable
// somewhere in the house and reachable forwarding gateways to pick up its
// data.
type wearableStats struct {
	rooms       *roomSet
	hasWearable bool
	numGateways int
}

func collectWearableStats(g graph.Graph, w graph.World) wearableStats {
	stats := wearableStats{rooms: newRoomSet(w.RoomNames())}
	g.EachNode(func(n graph.Node) {
		switch n.Modality {
		case constants.ModalityWearable:
			stats.hasWearable = true
		case constants.ModalityGateway:
			stats.numGateways++
			if n.Reachable {
				stats.rooms.add(n)
			}
		}
	})
	return stats
}

// halfCovered reports whether gateways reach at least every second room.
func (s wearableStats) halfCovered() bool {
	return s.rooms.total() > 0 && 2*s.rooms.count() >= s.rooms.total()
}

func (s wearableStats) allCovered() bool {
	return s.rooms.total() > 0 && s.rooms.count() >= s.rooms.total()
}

func fullWearableCoverage(g graph.Graph, w graph.World) bool {
	stats := collectWearableStats(g, w)

	pct := 0
	if stats.hasWearable && stats.rooms.total() > 0 {
		pct = percent(2 * float64(stats.rooms.count()) / float64(stats.rooms.total()))
	}
	w.SetCoverage(constants.ModalityWearable, pct)

	return stats.hasWearable && stats.halfCovered()
}

// videoRooms are the main areas of interest for video sensing.
var videoRooms = []string{
	constants.RoomHallAndStairs,
	constants.RoomKitchen,
	constants.RoomLivingRoom,
}

func fullVideoCoverage(g graph.Graph, w graph.World) bool {
	rs := newRoomSet(videoRooms)
	g.EachNode(func(n graph.Node) {
		if n.Modality == constants.ModalityVideo && n.Reachable {
			rs.add(n)
		}
	})

	w.SetCoverage(constants.ModalityVideo, percent(float64(rs.count())/float64(len(videoRooms))))
	return rs.count() >= len(videoRooms)
}

// wholeEmbeddedNetwork stands in for a check that every embedded device
// talks the given protocol. The protocol is ignored and the predicate never
// holds, so the TSCH and BLE network achievements stay locked.
func wholeEmbeddedNetwork(_ string) Predicate {
	return func(graph.Graph, graph.World) bool {
		return false
	}
}

func systemMonitoring(g graph.Graph, _ graph.World) bool {
	return anyCoverage(g, constants.ModalityCellular, true)
}

// sleepMonitoring needs a wearable and a reachable gateway in either
// bedroom. It only applies once the floorplan declares rooms, but the
// bedroom itself does not have to be among them.
func sleepMonitoring(g graph.Graph, w graph.World) bool {
	if len(w.RoomNames()) == 0 {
		return false
	}
	var hasWearable, inBedroom bool
	g.EachNode(func(n graph.Node) {
		switch n.Modality {
		case constants.ModalityWearable:
			hasWearable = true
		case constants.ModalityGateway:
			if n.Reachable && (slices.Contains(n.Rooms, constants.RoomGuestBedroom) || slices.Contains(n.Rooms, constants.RoomMasterBedroom)) {
				inBedroom = true
			}
		}
	})
	return hasWearable && inBedroom
}

func indoorLocalization(g graph.Graph, w graph.World) bool {
	stats := collectWearableStats(g, w)
	return stats.hasWearable && stats.allCovered()
}

// minimalist covers the house for wearables with at most two forwarding
// gateways placed in total, reachable or not.
func minimalist(g graph.Graph, w graph.World) bool {
	stats := collectWearableStats(g, w)
	return stats.numGateways <= 2 && stats.hasWearable && stats.halfCovered()
}

func waterSensorIn(room string) Predicate {
	return func(g graph.Graph, _ graph.World) bool {
		return coverageInRoom(g, constants.ModalityWater, room, true)
	}
}
