package sanitize

import (
	"slices"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "Kitchen sensor", "Kitchen sensor"},
		{"html tags", "<b>Hall</b> camera", "Hall camera"},
		{"script", `<script src="x.js"></script>Gateway`, "Gateway"},
		{"newlines become spaces", "Home\nGateway", "Home Gateway"},
		{"control chars dropped", "Wrist\x00band\x1b", "Wristband"},
		{"whitespace collapsed", "  Living   room \t cam  ", "Living room cam"},
		{"unicode kept", "Capteur salle à manger", "Capteur salle à manger"},
		{"not a tag", "a < b > c", "a < b > c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(tt.input); got != tt.want {
				t.Errorf("Label(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLabel_Truncates(t *testing.T) {
	got := Label(strings.Repeat("é", MaxLabelLength+20))
	if n := utf8.RuneCountInString(got); n != MaxLabelLength {
		t.Errorf("rune count = %d, want %d", n, MaxLabelLength)
	}
	if !utf8.ValidString(got) {
		t.Error("truncation split a rune")
	}
}

func TestField(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"living room", "living room"},
		{"  kitchen\n", "kitchen"},
		{"433 MHz", "433 MHz"},
		{"guest\x00 bedroom", "guest bedroom"},
		{strings.Repeat("x", MaxFieldLength+5), strings.Repeat("x", MaxFieldLength)},
	}
	for _, tt := range tests {
		if got := Field(tt.input); got != tt.want {
			t.Errorf("Field(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFields(t *testing.T) {
	if Fields(nil) != nil {
		t.Error("Fields(nil) should stay nil")
	}
	got := Fields([]string{" kitchen ", "", "\t", "toilet"})
	if !slices.Equal(got, []string{"kitchen", "toilet"}) {
		t.Errorf("Fields() = %v", got)
	}
}
