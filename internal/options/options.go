// Package options holds the static game configuration: the communication
// protocols a link can use and a handful of scalar simulation constants.
package options

import (
	"maps"
	"slices"
)

// Option names accepted by Option.
const (
	StartingCredits        = "startingCredits"
	RoomBoundary           = "roomBoundary"
	DistanceMetersToPixels = "distanceMetersToPixels"
)

// The starting budget covers a reference design: 8 environmental sensors
// (320), 5 forwarding gateways (200), 4 wearables (200), 4 NUCs (480),
// 3 cameras (240) and 2 water sensors (40), 1460 credits in total.
var scalars = map[string]int{
	StartingCredits: 1500,

	// in pixels
	RoomBoundary: 30,

	DistanceMetersToPixels: 50,
}

// Protocol is a link-layer technology available in the editor.
type Protocol struct {
	// Nm is the short code used by nodes and links.
	Nm    string `json:"nm" yaml:"nm"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`

	// Range is the maximum link length in pixels.
	Range int `json:"range" yaml:"range"`
}

// RangeMeters converts the pixel range back to meters.
func (p Protocol) RangeMeters() float64 {
	return float64(p.Range) / float64(scalars[DistanceMetersToPixels])
}

func meters(m int) int {
	return m * scalars[DistanceMetersToPixels]
}

var protocols = []Protocol{
	{Nm: "TSCH", Name: "Time Slotted Channel Hopping (TSCH)", Color: "#388e3c", Range: meters(10)},
	{Nm: "BLE", Name: "Bluetooth Low Energy (BLE)", Color: "#bf360c", Range: meters(7)},
	// USB reaches 5 m in reality; 3 m keeps the devices visibly co-located.
	{Nm: "USB", Name: "USB cable", Color: "#666", Range: meters(3)},
	{Nm: "433 MHz", Name: "433 MHz wireless", Color: "#dddddd", Range: meters(20)},
	{Nm: "PLC", Name: "Power Line Comunications (PLC)", Color: "#dddddd", Range: meters(10)},
	{Nm: "WiFi", Name: "WiFi (5 GHz)", Color: "#ffa043", Range: meters(15)},
	{Nm: "3G", Name: "3G (cellular connection)", Color: "#ffa043", Range: meters(100)},
}

// Protocols returns all protocols in display order.
func Protocols() []Protocol {
	return slices.Clone(protocols)
}

// ProtocolByName looks up a protocol by its short code.
func ProtocolByName(nm string) (Protocol, bool) {
	for _, p := range protocols {
		if p.Nm == nm {
			return p, true
		}
	}
	return Protocol{}, false
}

// Option returns a scalar option by name.
func Option(name string) (int, bool) {
	v, ok := scalars[name]
	return v, ok
}

// OptionNames returns the names of all scalar options, sorted.
func OptionNames() []string {
	return slices.Sorted(maps.Keys(scalars))
}
