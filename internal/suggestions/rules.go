package suggestions

import (
	"github.com/homesense/homesense/internal/constants"
	"github.com/homesense/homesense/internal/graph"
)

// Rule pairs a condition on the graph with the text shown to the player.
// For suggestions the condition says the advice has been followed; for
// problems it says the problem is present.
type Rule struct {
	Check func(g graph.Graph) bool
	Text  string
}

func hasNodes(g graph.Graph) bool {
	return len(g.Nodes()) > 0
}

func hasLinks(g graph.Graph) bool {
	return len(g.Links()) > 0
}

func hasHomeGateway(g graph.Graph) bool {
	return anyNode(g, func(n graph.Node) bool { return n.HomeGateway })
}

func hasSensors(modality string) func(graph.Graph) bool {
	return func(g graph.Graph) bool {
		return anyNode(g, func(n graph.Node) bool { return n.Modality == modality })
	}
}

func hasAnySensors(g graph.Graph) bool {
	return hasSensors(constants.ModalityEnvironmental)(g) ||
		hasSensors(constants.ModalityWearable)(g) ||
		hasSensors(constants.ModalityVideo)(g)
}

func hasReachableSensors(modality string) func(graph.Graph) bool {
	return func(g graph.Graph) bool {
		return anyNode(g, func(n graph.Node) bool { return n.Reachable && n.Modality == modality })
	}
}

// sensingInRoom requires a reachable node of the modality in the room.
func sensingInRoom(modality string, rooms ...string) func(graph.Graph) bool {
	return func(g graph.Graph) bool {
		return anyNode(g, func(n graph.Node) bool {
			if !n.Reachable || n.Modality != modality {
				return false
			}
			for _, r := range rooms {
				if n.InRoom(r) {
					return true
				}
			}
			return false
		})
	}
}

// hasSensorIn is sensingInRoom without the reachability requirement.
func hasSensorIn(modality string, rooms ...string) func(graph.Graph) bool {
	return func(g graph.Graph) bool {
		return anyNode(g, func(n graph.Node) bool {
			if n.Modality != modality {
				return false
			}
			for _, r := range rooms {
				if n.InRoom(r) {
					return true
				}
			}
			return false
		})
	}
}

func hasUnreachableSensors(modality string) func(graph.Graph) bool {
	return func(g graph.Graph) bool {
		return anyNode(g, func(n graph.Node) bool { return !n.Reachable && n.Modality == modality })
	}
}

// hasDisconnectedSensors finds an unreachable node of the modality with no
// outgoing link at all, a stronger condition than just being unreachable.
func hasDisconnectedSensors(modality string) func(graph.Graph) bool {
	return func(g graph.Graph) bool {
		hasOutgoing := make(map[string]bool)
		for _, l := range g.Links() {
			hasOutgoing[l.Source] = true
		}
		return anyNode(g, func(n graph.Node) bool {
			return !n.Reachable && n.Modality == modality && !hasOutgoing[n.ID]
		})
	}
}

func moreSensorsThan(modality string, limit int) func(graph.Graph) bool {
	return func(g graph.Graph) bool {
		count := 0
		g.EachNode(func(n graph.Node) {
			if n.Modality == modality {
				count++
			}
		})
		return count > limit
	}
}

func anyNode(g graph.Graph, match func(graph.Node) bool) bool {
	found := false
	g.EachNode(func(n graph.Node) {
		if !found && match(n) {
			found = true
		}
	})
	return found
}

// maxVideoSensors is the camera count above which the budget is at risk.
const maxVideoSensors = 3

// defaultSuggestions are tried in order; the last one is never skipped.
func defaultSuggestions() []Rule {
	return []Rule{
		{hasNodes, "Try dragging some nodes from the palette to the house floorplan to get started"},
		{hasLinks, "Join the nodes together with links to get started.\nA link must connect an <strong>output port</strong> (right side) of a node with an <strong>input port</strong> (left side) of another node"},
		{hasHomeGateway, "A smart home system needs a <strong>home gateway</strong>"},
		{hasAnySensors, "A smart home system needs <strong>sensors</strong> for data collection"},
		{hasSensors(constants.ModalityEnvironmental), "A smart home system needs <strong>environmental sensors</strong> to capture ambient information about the rooms"},
		{hasSensors(constants.ModalityWearable), "A smart home system needs <strong>a wristband sensor</strong> (a \"wearable\") to capture participant activities and localize participants in the house"},
		{hasSensors(constants.ModalityVideo), "A smart home system needs <strong>video sensors</strong> to capture participant activities and information about their quality of movement"},
		{hasSensors(constants.ModalityGateway), "Adding <strong>forwarding gateways</strong> to the system is necessary to collect information from the wristband sensors; it also helps to increase the coverage in parts of the house remote from the Home Gateway"},
		{hasReachableSensors(constants.ModalityEnvironmental), "Environmental sensors need to be able to reach the Home Gateway"},
		{hasReachableSensors(constants.ModalityVideo), "Information extracted from raw video need to be able to reach the Home Gateway"},
		{hasReachableSensors(constants.ModalityGateway), "Information from wristband devices need to be able to reach the Home Gateway"},
		{sensingInRoom(constants.ModalityVideo, constants.RoomHallAndStairs), "A connected video sensor in the hall helps to detect movement quality, especially about participants moving up and down the stairs. This is useful to monitor the recovery of patients after hip or knee operations and diagnose the severity of problems such as Parkinson's disease"},
		{sensingInRoom(constants.ModalityVideo, constants.RoomKitchen), "A connected video sensor in the kitchen helps to detect cooking-related activities. This is useful to diagnose the complexity and duration of means, which is useful for many medical applications, including monitoring and early diagnosis of Alzheimer's disease"},
		{sensingInRoom(constants.ModalityVideo, constants.RoomLivingRoom), "A connected video sensor in the living room records a lot of infromation about activities, such as the time spent watching TV"},
		{sensingInRoom(constants.ModalityGateway, constants.RoomGuestBedroom, constants.RoomMasterBedroom), "A connected Forwarding Gateway in the bedroom is useful to record information about sleep quality during night, assuming a wristband node is worn by the particant sleeping there. Bad sleep quality is correlated and may increase the risk of many medical conditions, including depressing and hypertension"},
	}
}

// defaultProblems are checked in order; the first active one is reported.
func defaultProblems() []Rule {
	return []Rule{
		{hasSensorIn(constants.ModalityVideo, constants.RoomMasterBedroom, constants.RoomGuestBedroom), "Video monitoring in bedrooms could be seen as a severe violation of participant privacy"},
		{hasSensorIn(constants.ModalityVideo, constants.RoomToilet), "Video monitoring in the toilet could be seen as a severe violation of participant privacy"},
		{hasSensorIn(constants.ModalityVideo, constants.RoomBathroom), "Video monitoring in the bathroom could be seen as a severe violation of participant privacy"},
		{hasUnreachableSensors(constants.ModalityGateway), "There is a disconnected forwarding gateway. All forwarding gateways need to be able to communicate with the Home Gateway either directly or, for most of them, through another forwarding gateway"},
		{hasDisconnectedSensors(constants.ModalityEnvironmental), "There is a disconnected environmental sensor. All environmental sensors need to be able to communicate with the Home Gateway through forwarding gateways"},
		{hasUnreachableSensors(constants.ModalityEnvironmental), "There is an unreachable environmental sensor. All environmental sensors need to be able to communicate with the Home Gateway through a forwarding gateway"},
		{hasDisconnectedSensors(constants.ModalityVideo), "There is a disconnected video camera. Each video camera needs to be connected to a video gateway with a USB cable"},
		{hasUnreachableSensors(constants.ModalityVideo), "There is an unreachable video camera. All video cameras need to be able to communicate with the Home Gateway through a video gateway"},
		{moreSensorsThan(constants.ModalityVideo, maxVideoSensors), "More than three video cameras <i>may</i> make you run out of budget too soon if you're not careful"},
	}
}
