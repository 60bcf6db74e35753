package achievements

import (
	"github.com/homesense/homesense/internal/constants"
	"github.com/homesense/homesense/internal/graph"
)

// buildRegistry returns the achievements in display order. Names are unique.
func buildRegistry() []Achievement {
	return []Achievement{
		{
			Name:        "Environmental sensing",
			Explanation: "You have collected the first data from an environmental sensor",
			Predicate: func(g graph.Graph, _ graph.World) bool {
				return anyCoverage(g, constants.ModalityEnvironmental, true)
			},
		},
		{
			Name:        "Wearable sensing",
			Explanation: "You have collected the first data from a wristband sensor",
			Predicate: func(g graph.Graph, _ graph.World) bool {
				return anyCoverage(g, constants.ModalityWearable, false) &&
					anyCoverage(g, constants.ModalityGateway, true)
			},
		},
		{
			Name:        "Video sensing",
			Explanation: "You have collected first information extracted from video data",
			Predicate: func(g graph.Graph, _ graph.World) bool {
				return anyCoverage(g, constants.ModalityVideo, true)
			},
		},
		{
			Name:        "Full environmental sensing",
			Explanation: "You have fully covered the house with environmental sensors",
			Predicate:   fullEnvironmentalCoverage,
		},
		{
			Name:        "Full wearable sensing",
			Explanation: "You have fully covered the house with devices picking up data from wristband (wearable) sensors (at least one for each two rooms)",
			Predicate:   fullWearableCoverage,
		},
		{
			Name:        "Full video sensing",
			Explanation: "You have installed video sensors in the hall, kitchen, and living room, the main areas of interest for video sensing",
			Predicate:   fullVideoCoverage,
		},
		{
			Name:        "System monitoring",
			Explanation: "You have installed a monitoring service over a 3G mobile connection. This will allow to schedule maintenance visits if some of the components stop working or otherwise break down",
			Predicate:   systemMonitoring,
		},
		{
			Name:        "Sleep monitoring",
			Explanation: "You have installed a Wristband Sensor and a Forwarding Gateway in a bedroom. This will allow to monitor the activity levels during sleep.",
			Predicate:   sleepMonitoring,
		},

		// Hidden achievements are not named to the player until unlocked.
		{
			Name:        "TSCH network",
			Explanation: "You have connected all embedded sensing and forwarding devices in a TSCH network",
			Predicate:   wholeEmbeddedNetwork("TSCH"),
			Hidden:      true,
		},
		{
			Name:        "BLE network",
			Explanation: "You have connected all embedded sensing and forwarding devices in a BLE network",
			Predicate:   wholeEmbeddedNetwork("BLE"),
			Hidden:      true,
		},
		{
			Name:        "Minimalist",
			Explanation: "You have covered the whole house with just two Forwarding Gateways.<br><br>Note that while this is cost-efficient in the short term, adding some redundancy is usually a better option that helps to avoid losing data even after some devices break down",
			Predicate:   minimalist,
			Hidden:      true,
		},
		{
			Name:        "Indoor localization",
			Explanation: "You have installed Forwading Gateways in sufficiently many rooms. This will allow to accurately track the location of wristband sensor users. From healthcare perspecitive, increasingly stationary lifestyle may signal detoriation",
			Predicate:   indoorLocalization,
			Hidden:      true,
		},
		{
			Name:        "Water monitoring: kitchen",
			Explanation: "You have installed a Water Sensor in kitchen. Food preparation and water concumption habits are highly correlated with long-term health outcomes",
			Predicate:   waterSensorIn(constants.RoomKitchen),
			Hidden:      true,
		},
		{
			Name:        "Water monitoring: bathroom",
			Explanation: "You have installed a Water Sensor in bathroom. It may be helpful to know the showering frequency and duration for the energy bill",
			Predicate:   waterSensorIn(constants.RoomBathroom),
			Hidden:      true,
		},
		{
			Name:        "Water monitoring: toilet",
			Explanation: "You have installed a Water Sensor in toilet. Frequency of its usage may be correlated with health",
			Predicate:   waterSensorIn(constants.RoomToilet),
			Hidden:      true,
		},
	}
}
