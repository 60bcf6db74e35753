// Package achievements defines the achievement catalog, the coverage rules
// that unlock it, and the persisted record of what a player has unlocked.
package achievements

import (
	"cmp"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/homesense/homesense/internal/constants"
	"github.com/homesense/homesense/internal/graph"
)

// HiddenPlaceholder is reported instead of the name of a hidden achievement
// the player has not unlocked yet.
const HiddenPlaceholder = "Hidden achievement"

// Predicate reports whether an achievement is satisfied by the current
// graph. Coverage predicates also record a percentage on the world.
type Predicate func(g graph.Graph, w graph.World) bool

// Achievement is a single unlockable goal.
type Achievement struct {
	Name        string    `json:"name"`
	Explanation string    `json:"explanation"`
	Hidden      bool      `json:"hidden,omitempty"`
	Predicate   Predicate `json:"-"`
}

// Catalog is the ordered, immutable list of achievements.
type Catalog struct {
	registry []Achievement
}

// NewCatalog creates a catalog pre-loaded with the full achievement set.
func NewCatalog() *Catalog {
	return &Catalog{registry: buildRegistry()}
}

// All returns a shallow copy of all achievements in display order.
func (c *Catalog) All() []Achievement {
	return slices.Clone(c.registry)
}

// Len returns the number of achievements.
func (c *Catalog) Len() int {
	return len(c.registry)
}

// FindByName returns the achievement with the given name.
func (c *Catalog) FindByName(name string) (Achievement, bool) {
	for _, a := range c.registry {
		if a.Name == name {
			return a, true
		}
	}
	return Achievement{}, false
}

// Suggest returns names of visible achievements close to name, best match
// first. Matching is case-insensitive; a name containing the query counts
// as a match regardless of edit distance.
func (c *Catalog) Suggest(name string) []string {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil
	}

	type candidate struct {
		name string
		dist int
	}
	var matches []candidate
	for _, a := range c.registry {
		if a.Hidden {
			continue
		}
		lower := strings.ToLower(a.Name)
		dist := levenshtein.ComputeDistance(query, lower)
		if strings.Contains(lower, query) {
			dist = 0
		}
		if dist <= constants.MaxFuzzyDistance {
			matches = append(matches, candidate{name: a.Name, dist: dist})
		}
	}

	slices.SortStableFunc(matches, func(a, b candidate) int {
		return cmp.Compare(a.dist, b.dist)
	})

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names
}
