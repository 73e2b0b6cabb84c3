package pokemon

import (
	"sort"

	"github.com/ibelion/omniwiki/pkg/learnset"
)

// MoveCount is the number of distinct moves one creature learns.
type MoveCount struct {
	Pokemon PokemonRef
	Name    string
	Count   int
}

// Coverage summarises how complete the learnset data is.
type Coverage struct {
	Total        int
	WithMoves    int
	WithoutMoves int
	WithOneMove  int
	Average      float64
	Max          int
	Min          int
	// Few lists creatures with at least one but fewer than the threshold
	// moves, fewest first.
	Few     []MoveCount
	Missing []MoveCount
}

// MoveCoverage counts distinct move slugs per creature. A creature with
// no learnset entry counts as having no moves.
func MoveCoverage(creatures []Pokemon, learnsets map[string][]learnset.Entry, threshold int) Coverage {
	c := Coverage{Total: len(creatures)}
	if len(creatures) == 0 {
		return c
	}

	sum := 0
	c.Min = -1
	for _, p := range creatures {
		moves := make(map[string]struct{})
		for _, e := range learnsets[p.Slug] {
			if e.Move != "" {
				moves[e.Move] = struct{}{}
			}
		}
		n := len(moves)
		mc := MoveCount{Pokemon: PokemonRef{ID: p.ID, Generation: p.Generation, Slug: p.Slug}, Name: p.Name, Count: n}

		sum += n
		if n > c.Max {
			c.Max = n
		}
		if c.Min < 0 || n < c.Min {
			c.Min = n
		}
		switch {
		case n == 0:
			c.WithoutMoves++
			c.Missing = append(c.Missing, mc)
		case n < threshold:
			c.WithMoves++
			c.Few = append(c.Few, mc)
		default:
			c.WithMoves++
		}
		if n == 1 {
			c.WithOneMove++
		}
	}
	c.Average = float64(sum) / float64(len(creatures))
	sort.SliceStable(c.Few, func(i, j int) bool { return c.Few[i].Count < c.Few[j].Count })
	return c
}
