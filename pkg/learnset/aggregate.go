// Package learnset aggregates raw move acquisition records and formats
// version-group coverage.
package learnset

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Entry is one raw acquisition record. A nil VersionGroup applies to every
// version of the generation.
type Entry struct {
	Move         string  `json:"move"`
	Generation   string  `json:"generation"`
	Method       string  `json:"method"`
	Level        *int    `json:"level"`
	VersionGroup *string `json:"versionGroup"`
}

// Aggregated merges every Entry sharing generation, method and level.
type Aggregated struct {
	Method        string   `json:"method"`
	Generation    string   `json:"generation"`
	Level         *int     `json:"level"`
	VersionGroups []string `json:"versionGroups"`
}

// GenerationGroup holds the aggregated entries of one generation.
type GenerationGroup struct {
	Generation string       `json:"generation"`
	Label      string       `json:"label"`
	Entries    []Aggregated `json:"entries"`
}

// Aggregate groups entries by generation, then by (method, level), unioning
// version groups. The result does not depend on input order.
func Aggregate(entries []Entry) []GenerationGroup {
	type bucketKey struct {
		generation string
		method     string
		level      string
	}

	buckets := make(map[bucketKey]*Aggregated)
	seenGroups := make(map[bucketKey]map[string]struct{})
	for _, e := range entries {
		key := bucketKey{
			generation: CanonicalGeneration(e.Generation),
			method:     NormalizeMethod(e.Method),
			level:      levelKey(e.Level),
		}
		b, ok := buckets[key]
		if !ok {
			b = &Aggregated{
				Method:        key.method,
				Generation:    key.generation,
				Level:         copyLevel(e.Level),
				VersionGroups: []string{},
			}
			buckets[key] = b
			seenGroups[key] = make(map[string]struct{})
		}
		if e.VersionGroup == nil || *e.VersionGroup == "" {
			continue
		}
		if _, dup := seenGroups[key][*e.VersionGroup]; dup {
			continue
		}
		seenGroups[key][*e.VersionGroup] = struct{}{}
		b.VersionGroups = append(b.VersionGroups, *e.VersionGroup)
	}

	byGeneration := make(map[string][]Aggregated)
	for _, b := range buckets {
		sort.Strings(b.VersionGroups)
		byGeneration[b.Generation] = append(byGeneration[b.Generation], *b)
	}

	generations := make([]string, 0, len(byGeneration))
	for g := range byGeneration {
		generations = append(generations, g)
	}
	slices.SortFunc(generations, CompareGenerations)

	groups := make([]GenerationGroup, 0, len(generations))
	for _, g := range generations {
		list := byGeneration[g]
		slices.SortFunc(list, Compare)
		groups = append(groups, GenerationGroup{
			Generation: g,
			Label:      GenerationLabel(g),
			Entries:    list,
		})
	}
	return groups
}

// Compare orders aggregated entries by generation, method priority, level
// (entries without a level last) and number of version groups. Remaining
// ties break on method name and joined version groups so the order is total.
func Compare(a, b Aggregated) int {
	if c := CompareGenerations(a.Generation, b.Generation); c != 0 {
		return c
	}
	if c := CompareMethods(a.Method, b.Method); c != 0 {
		return c
	}
	if c := compareLevels(a.Level, b.Level); c != 0 {
		return c
	}
	if c := len(a.VersionGroups) - len(b.VersionGroups); c != 0 {
		return c
	}
	return strings.Compare(strings.Join(a.VersionGroups, ","), strings.Join(b.VersionGroups, ","))
}

func compareLevels(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return *a - *b
	}
}

// MethodGroup holds consecutive aggregated entries sharing a method.
type MethodGroup struct {
	Method  string       `json:"method"`
	Entries []Aggregated `json:"entries"`
}

// GroupByMethod groups entries by method, keeping first-appearance order.
func GroupByMethod(entries []Aggregated) []MethodGroup {
	var groups []MethodGroup
	index := make(map[string]int)
	for _, e := range entries {
		i, ok := index[e.Method]
		if !ok {
			i = len(groups)
			index[e.Method] = i
			groups = append(groups, MethodGroup{Method: e.Method})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}

// MoveLearnset is the aggregated learnset of one move for one creature.
type MoveLearnset struct {
	Move        string            `json:"move"`
	Generations []GenerationGroup `json:"generations"`
}

// AggregateMoves splits a creature's entries by normalized move slug and
// aggregates each move separately. Moves are sorted by slug.
func AggregateMoves(entries []Entry) []MoveLearnset {
	byMove := make(map[string][]Entry)
	for _, e := range entries {
		slug := NormalizeMoveSlug(e.Move)
		byMove[slug] = append(byMove[slug], e)
	}

	moves := make([]string, 0, len(byMove))
	for m := range byMove {
		moves = append(moves, m)
	}
	sort.Strings(moves)

	out := make([]MoveLearnset, 0, len(moves))
	for _, m := range moves {
		out = append(out, MoveLearnset{Move: m, Generations: Aggregate(byMove[m])})
	}
	return out
}

func levelKey(level *int) string {
	if level == nil {
		return "-"
	}
	return strconv.Itoa(*level)
}

func copyLevel(level *int) *int {
	if level == nil {
		return nil
	}
	v := *level
	return &v
}
