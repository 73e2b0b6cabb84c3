// Package typechart computes defensive type effectiveness from a type
// relation table.
//
// Relation tables scraped from upstream are not guaranteed to be symmetric,
// so a defender's profile is derived only from the *From* sets of its own
// types. The *To* sets are carried for display and never consulted here.
package typechart

import "sort"

// Relation is one elemental type's damage relations.
type Relation struct {
	Slug             string
	DoubleDamageTo   []string
	DoubleDamageFrom []string
	HalfDamageTo     []string
	HalfDamageFrom   []string
	NoDamageTo       []string
	NoDamageFrom     []string
}

type fromSets struct {
	double map[string]struct{}
	half   map[string]struct{}
	none   map[string]struct{}
}

// Chart is an immutable lookup over a relation table. The table order is
// the canonical attacking-type order.
type Chart struct {
	order []string
	from  map[string]fromSets
}

// NewChart indexes relations. A repeated slug keeps its first position and
// its last relation sets.
func NewChart(relations []Relation) *Chart {
	c := &Chart{from: make(map[string]fromSets, len(relations))}
	for _, r := range relations {
		if _, seen := c.from[r.Slug]; !seen {
			c.order = append(c.order, r.Slug)
		}
		c.from[r.Slug] = fromSets{
			double: toSet(r.DoubleDamageFrom),
			half:   toSet(r.HalfDamageFrom),
			none:   toSet(r.NoDamageFrom),
		}
	}
	return c
}

// Types returns every known type slug in table order.
func (c *Chart) Types() []string {
	return append([]string(nil), c.order...)
}

// Known reports whether slug is in the table.
func (c *Chart) Known(slug string) bool {
	_, ok := c.from[slug]
	return ok
}

// Multiplier returns the damage multiplier an attacking type deals to a
// defender with the given types. Repeated defending types count once and
// unknown ones contribute nothing. Any immunity zeroes the product.
func (c *Chart) Multiplier(defending []string, attacking string) float64 {
	multiplier := 1.0
	for _, def := range dedupe(defending) {
		sets, ok := c.from[def]
		if !ok {
			continue
		}
		if _, immune := sets.none[attacking]; immune {
			multiplier *= 0
			continue
		}
		if _, ok := sets.double[attacking]; ok {
			multiplier *= 2
		}
		if _, ok := sets.half[attacking]; ok {
			multiplier *= 0.5
		}
	}
	return multiplier
}

// Effectiveness pairs an attacking type with its multiplier.
type Effectiveness struct {
	Type       string  `json:"type"`
	Multiplier float64 `json:"multiplier"`
}

// DefenseProfile buckets every attacking type that does not deal neutral
// damage. A type appears in at most one bucket.
type DefenseProfile struct {
	Weaknesses  []Effectiveness `json:"weaknesses"`
	Resistances []Effectiveness `json:"resistances"`
	Immunities  []string        `json:"immunities"`
}

// DefenseProfile computes the profile of a defender with the given types.
// Weaknesses sort by descending multiplier, resistances ascending; ties and
// immunities keep table order.
func (c *Chart) DefenseProfile(types []string) DefenseProfile {
	p := DefenseProfile{
		Weaknesses:  []Effectiveness{},
		Resistances: []Effectiveness{},
		Immunities:  []string{},
	}
	for _, attacking := range c.order {
		m := c.Multiplier(types, attacking)
		switch {
		case m == 0:
			p.Immunities = append(p.Immunities, attacking)
		case m > 1:
			p.Weaknesses = append(p.Weaknesses, Effectiveness{Type: attacking, Multiplier: m})
		case m < 1:
			p.Resistances = append(p.Resistances, Effectiveness{Type: attacking, Multiplier: m})
		}
	}
	sort.SliceStable(p.Weaknesses, func(i, j int) bool {
		return p.Weaknesses[i].Multiplier > p.Weaknesses[j].Multiplier
	})
	sort.SliceStable(p.Resistances, func(i, j int) bool {
		return p.Resistances[i].Multiplier < p.Resistances[j].Multiplier
	})
	return p
}

// Matrix is the single-type effectiveness grid. Cells[a][d] is the
// multiplier attacking type Types[a] deals to defending type Types[d].
type Matrix struct {
	Types []string    `json:"types"`
	Cells [][]float64 `json:"cells"`
}

// Matrix derives the single-type grid from the table.
func (c *Chart) Matrix() Matrix {
	m := Matrix{Types: c.Types(), Cells: make([][]float64, len(c.order))}
	for a, attacking := range c.order {
		row := make([]float64, len(c.order))
		for d, defending := range c.order {
			row[d] = c.Multiplier([]string{defending}, attacking)
		}
		m.Cells[a] = row
	}
	return m
}

// At returns the multiplier attacking deals to defending.
func (m Matrix) At(attacking, defending string) (float64, bool) {
	a, d := -1, -1
	for i, t := range m.Types {
		if t == attacking {
			a = i
		}
		if t == defending {
			d = i
		}
	}
	if a < 0 || d < 0 {
		return 0, false
	}
	return m.Cells[a][d], true
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
