// Package constants provides named constants used throughout the homesense codebase.
// This centralizes modality tags, room names and storage keys that the
// rule tables share.
package constants

// Node modalities as tagged by the editor palette.
const (
	ModalityEnvironmental = "environmental"
	ModalityWearable      = "wearable"
	ModalityVideo         = "video"
	ModalityGateway       = "gateway"
	ModalityWater         = "water"

	// ModalityCellular is the uplink modality used for remote system monitoring.
	ModalityCellular = "3G"
)

// Room names referenced by individual rules. The full set of declared rooms
// comes from the world, these are only the ones a rule singles out.
const (
	RoomHallAndStairs = "hall-and-stairs"
	RoomKitchen       = "kitchen"
	RoomLivingRoom    = "living room"
	RoomGuestBedroom  = "guest bedroom"
	RoomMasterBedroom = "master bedroom"
	RoomBathroom      = "bathroom"
	RoomToilet        = "toilet"
)

// Persisted key-value store keys.
const (
	// KeyDoneAchievements holds a JSON array of unlocked achievement names.
	KeyDoneAchievements = "doneAchievements"

	// KeyHasShownIntro holds a non-empty value once the intro has been shown.
	KeyHasShownIntro = "hasShownIntro"
)

// Coverage bounds for the percentage side channel.
const (
	MinCoveragePercent = 0
	MaxCoveragePercent = 100
)

// Hint selection probabilities.
const (
	// ProblemProbability is the chance that active problems are considered
	// before suggestions on a given call.
	ProblemProbability = 0.5

	// SuggestionSkipProbability is the chance that an unmet suggestion is
	// skipped on the first pass.
	SuggestionSkipProbability = 0.5
)

// MaxFuzzyDistance bounds the edit distance for "did you mean" matches.
const MaxFuzzyDistance = 4
