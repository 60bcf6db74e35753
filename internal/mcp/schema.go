package mcp

import "github.com/homesense/homesense/internal/suggestions"

// HintInput defines the input for the homesense_hint tool.
type HintInput struct {
	Scenario string `json:"scenario" jsonschema:"Path to a scenario file (.yaml, .yml or .json)"`
	Count    int    `json:"count,omitempty" jsonschema:"Number of hints to draw (1-10, default 1)"`
}

// HintOutput defines the output for the homesense_hint tool.
type HintOutput struct {
	Hints    []suggestions.Hint `json:"hints" jsonschema:"Hints in the order they were drawn"`
	Problems []string           `json:"problems,omitempty" jsonschema:"Every problem currently present in the design"`
	Pending  int                `json:"pending" jsonschema:"Number of suggestions not yet followed"`
}

// CheckInput defines the input for the homesense_check tool.
type CheckInput struct {
	Scenario string `json:"scenario" jsonschema:"Path to a scenario file (.yaml, .yml or .json)"`
}

// CheckOutput defines the output for the homesense_check tool.
type CheckOutput struct {
	Unlocked []AchievementItem `json:"unlocked" jsonschema:"Achievements unlocked by this check"`
	Coverage map[string]int    `json:"coverage" jsonschema:"Coverage percentage per modality"`
	Done     int               `json:"done" jsonschema:"Achievements unlocked so far"`
	Total    int               `json:"total" jsonschema:"Achievements in the catalog"`
	Message  string            `json:"message" jsonschema:"Human-readable summary"`
}

// AchievementItem is an unlocked achievement.
type AchievementItem struct {
	Name        string `json:"name"`
	Explanation string `json:"explanation"`
}

// AchievementsInput defines the input for the homesense_achievements tool.
type AchievementsInput struct{}

// AchievementsOutput defines the output for the homesense_achievements tool.
type AchievementsOutput struct {
	Done       []AchievementItem `json:"done" jsonschema:"Unlocked achievements in catalog order"`
	NotDone    []string          `json:"not_done" jsonschema:"Locked achievements; hidden ones appear as a placeholder"`
	Total      int               `json:"total" jsonschema:"Achievements in the catalog"`
	IntroShown bool              `json:"intro_shown" jsonschema:"Whether the game intro has already been shown to the player"`
}

// ResetInput defines the input for the homesense_reset tool.
type ResetInput struct {
	Confirm bool `json:"confirm" jsonschema:"Must be true; clears all unlocked achievements and the intro flag"`
}

// ResetOutput defines the output for the homesense_reset tool.
type ResetOutput struct {
	Cleared int    `json:"cleared" jsonschema:"Number of achievements that were unlocked before the reset"`
	Message string `json:"message" jsonschema:"Human-readable result message"`
}

// ProtocolsInput defines the input for the homesense_protocols tool.
type ProtocolsInput struct {
	Name string `json:"name,omitempty" jsonschema:"Short protocol code to look up (e.g. TSCH); empty lists all"`
}

// ProtocolsOutput defines the output for the homesense_protocols tool.
type ProtocolsOutput struct {
	Protocols []ProtocolItem `json:"protocols" jsonschema:"Link protocols in display order"`
	Options   map[string]int `json:"options,omitempty" jsonschema:"Scalar game options, only when listing all"`
}

// ProtocolItem describes a link protocol.
type ProtocolItem struct {
	Nm          string  `json:"nm"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	RangePixels int     `json:"range_px"`
	RangeMeters float64 `json:"range_m"`
}

// GraphInput defines the input for the homesense_graph tool.
type GraphInput struct {
	Scenario string `json:"scenario" jsonschema:"Path to a scenario file (.yaml, .yml or .json)"`
	Format   string `json:"format,omitempty" jsonschema:"Output format: dot (default) or json"`
}

// GraphOutput defines the output for the homesense_graph tool.
type GraphOutput struct {
	Format string                 `json:"format" jsonschema:"Format of the rendered graph"`
	DOT    string                 `json:"dot,omitempty" jsonschema:"Graphviz DOT source"`
	Graph  map[string]interface{} `json:"graph,omitempty" jsonschema:"Nodes and links as JSON"`
}
