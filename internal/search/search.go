// Package search filters in-memory hero and monument collections.
//
// All functions are pure: they never modify their input and return results
// in input order.
package search

import (
	"strings"

	"github.com/atinyakov/memorial/internal/models"
)

// HeroFacets are exact-match constraints on categorical hero fields.
// An empty value imposes no constraint.
type HeroFacets struct {
	Rank   string
	Region string
}

// MonumentFacets are exact-match constraints on categorical monument fields.
type MonumentFacets struct {
	Type string
}

// FilterHeroes returns the heroes whose name, unit or hometown contains query
// (case-insensitive) and whose rank and region equal the non-empty facets.
func FilterHeroes(heroes []models.Hero, query string, facets HeroFacets) []models.Hero {
	q := strings.ToLower(query)
	out := make([]models.Hero, 0, len(heroes))
	for _, h := range heroes {
		if !containsAny(q, h.Name, h.Unit, h.Hometown) {
			continue
		}
		if !facetMatch(facets.Rank, h.Rank) || !facetMatch(facets.Region, h.Region) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// FilterMonuments returns the monuments whose name or settlement contains
// query (case-insensitive) and whose type equals the non-empty facet.
func FilterMonuments(monuments []models.Monument, query string, facets MonumentFacets) []models.Monument {
	q := strings.ToLower(query)
	out := make([]models.Monument, 0, len(monuments))
	for _, m := range monuments {
		if !containsAny(q, m.Name, m.Settlement) {
			continue
		}
		if !facetMatch(facets.Type, m.Type) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// containsAny expects q already lowercased.
func containsAny(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func facetMatch(want, got string) bool {
	return want == "" || want == got
}

// Ranks returns the distinct non-empty ranks in order of first appearance.
func Ranks(heroes []models.Hero) []string {
	return distinct(len(heroes), func(i int) string { return heroes[i].Rank })
}

// Regions returns the distinct non-empty regions in order of first appearance.
func Regions(heroes []models.Hero) []string {
	return distinct(len(heroes), func(i int) string { return heroes[i].Region })
}

// MonumentTypes returns the distinct non-empty monument types in order of first appearance.
func MonumentTypes(monuments []models.Monument) []string {
	return distinct(len(monuments), func(i int) string { return monuments[i].Type })
}

func distinct(n int, at func(int) string) []string {
	seen := make(map[string]struct{}, n)
	var out []string
	for i := 0; i < n; i++ {
		v := at(i)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
