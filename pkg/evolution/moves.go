package evolution

import (
	"sort"

	"github.com/ibelion/omniwiki/pkg/learnset"
)

// MoveSet is a deduplicated set of move slugs.
type MoveSet map[string]struct{}

// NewMoveSet builds a set from slugs.
func NewMoveSet(moves ...string) MoveSet {
	s := make(MoveSet, len(moves))
	for _, m := range moves {
		s[m] = struct{}{}
	}
	return s
}

// Has reports whether move is in the set.
func (s MoveSet) Has(move string) bool {
	_, ok := s[move]
	return ok
}

// Sorted returns the set's members in lexical order.
func (s MoveSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// MoveSets builds one MoveSet per creature from raw learnsets. Move slugs
// are normalized. A non-empty method keeps only entries learned that way.
func MoveSets(learnsets map[string][]learnset.Entry, method string) map[string]MoveSet {
	if method != "" {
		method = learnset.NormalizeMethod(method)
	}
	sets := make(map[string]MoveSet, len(learnsets))
	for slug, entries := range learnsets {
		set := make(MoveSet)
		for _, e := range entries {
			if e.Move == "" {
				continue
			}
			if method != "" && learnset.NormalizeMethod(e.Method) != method {
				continue
			}
			set[learnset.NormalizeMoveSlug(e.Move)] = struct{}{}
		}
		sets[slug] = set
	}
	return sets
}

// StageDelta is the set relationship between two stages' move sets.
type StageDelta struct {
	Shared    []string `json:"shared"`
	OnlyA     []string `json:"onlyA"`
	OnlyB     []string `json:"onlyB"`
	UnionSize int      `json:"unionSize"`
}

// CompareStages computes shared and exclusive moves of a and b. All lists
// are sorted.
func CompareStages(a, b MoveSet) StageDelta {
	d := StageDelta{Shared: []string{}, OnlyA: []string{}, OnlyB: []string{}}
	for _, m := range a.Sorted() {
		if b.Has(m) {
			d.Shared = append(d.Shared, m)
		} else {
			d.OnlyA = append(d.OnlyA, m)
		}
	}
	for _, m := range b.Sorted() {
		if !a.Has(m) {
			d.OnlyB = append(d.OnlyB, m)
		}
	}
	d.UnionSize = len(d.Shared) + len(d.OnlyA) + len(d.OnlyB)
	return d
}

// StageComparison compares an earlier stage (From) with a later one (To).
type StageComparison struct {
	From   Node       `json:"from"`
	To     Node       `json:"to"`
	Direct bool       `json:"direct"`
	Delta  StageDelta `json:"delta"`
}

// MissingInherited reports whether the later stage lacks moves the earlier
// stage learns. It flags data to review, not an error.
func (c StageComparison) MissingInherited() bool {
	return len(c.Delta.OnlyA) > 0
}

// AnalyzeChain compares consecutive stages of a chain and, for chains of
// three or more, the first stage with the last (Direct).
func AnalyzeChain(chain Chain, movesOf func(Node) MoveSet) []StageComparison {
	nodes := chain.Nodes
	var out []StageComparison
	for i := 1; i < len(nodes); i++ {
		out = append(out, StageComparison{
			From:  nodes[i-1],
			To:    nodes[i],
			Delta: CompareStages(movesOf(nodes[i-1]), movesOf(nodes[i])),
		})
	}
	if len(nodes) >= 3 {
		first, last := nodes[0], nodes[len(nodes)-1]
		out = append(out, StageComparison{
			From:   first,
			To:     last,
			Direct: true,
			Delta:  CompareStages(movesOf(first), movesOf(last)),
		})
	}
	return out
}
