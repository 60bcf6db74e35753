// Package sanitize cleans free-text fields of editor snapshots before they
// reach logs, DOT labels or agent tool output. Snapshots arrive from the
// browser and may carry markup or control characters.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxLabelLength is the maximum length of a node label, in runes.
const MaxLabelLength = 80

// MaxFieldLength bounds identifiers such as room names and modalities.
const MaxFieldLength = 64

var (
	// reTag matches XML/HTML tags, with attributes and self-closing forms.
	reTag = regexp.MustCompile(`<[/?!]?[a-zA-Z][a-zA-Z0-9]*(?:\s+[^>]*)?/?>|<\?[^?]*\?>`)

	reSpaces = regexp.MustCompile(`\s{2,}`)
)

// Label cleans a display name: tags and control characters are removed,
// runs of whitespace collapse to one space, and the result is capped at
// MaxLabelLength runes.
func Label(input string) string {
	if input == "" {
		return ""
	}
	s := reTag.ReplaceAllString(input, "")
	s = stripControl(s, true)
	s = reSpaces.ReplaceAllString(s, " ")
	return truncate(strings.TrimSpace(s), MaxLabelLength)
}

// Field cleans an identifier compared by exact match (room names,
// modalities, protocol codes). Only surrounding whitespace and control
// characters are removed, so "living room" stays "living room".
func Field(input string) string {
	if input == "" {
		return ""
	}
	s := stripControl(input, true)
	return truncate(strings.TrimSpace(s), MaxFieldLength)
}

// Fields applies Field to each element, dropping the ones left empty.
func Fields(inputs []string) []string {
	if inputs == nil {
		return nil
	}
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if s := Field(in); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// stripControl removes control characters. With asSpace, tabs and
// newlines become spaces instead of being dropped.
func stripControl(s string, asSpace bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsControl(r) {
			b.WriteRune(r)
			continue
		}
		if asSpace && (r == '\n' || r == '\t' || r == '\r') {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max]))
}
