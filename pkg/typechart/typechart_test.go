package typechart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture is a trimmed relation table. Only the From sides matter.
func fixture() []Relation {
	return []Relation{
		{Slug: "normal", DoubleDamageFrom: []string{"fighting"}, NoDamageFrom: []string{"ghost"}},
		{Slug: "fire", DoubleDamageFrom: []string{"water", "ground", "rock"}, HalfDamageFrom: []string{"fire", "grass", "ice", "bug", "steel", "fairy"}},
		{Slug: "water", DoubleDamageFrom: []string{"electric", "grass"}, HalfDamageFrom: []string{"fire", "water", "ice", "steel"}},
		{Slug: "grass", DoubleDamageFrom: []string{"fire", "ice", "poison", "flying", "bug"}, HalfDamageFrom: []string{"water", "electric", "grass", "ground"}},
		{Slug: "electric", DoubleDamageFrom: []string{"ground"}, HalfDamageFrom: []string{"electric", "flying", "steel"}},
		{Slug: "ice", DoubleDamageFrom: []string{"fire", "fighting", "rock", "steel"}, HalfDamageFrom: []string{"ice"}},
		{Slug: "fighting", DoubleDamageFrom: []string{"flying", "psychic", "fairy"}, HalfDamageFrom: []string{"bug", "rock", "dark"}},
		{Slug: "poison", DoubleDamageFrom: []string{"ground", "psychic"}, HalfDamageFrom: []string{"grass", "fighting", "poison", "bug", "fairy"}},
		{Slug: "ground", DoubleDamageFrom: []string{"water", "grass", "ice"}, HalfDamageFrom: []string{"poison", "rock"}, NoDamageFrom: []string{"electric"}},
		{Slug: "flying", DoubleDamageFrom: []string{"electric", "ice", "rock"}, HalfDamageFrom: []string{"grass", "fighting", "bug"}, NoDamageFrom: []string{"ground"}},
		{Slug: "psychic", DoubleDamageFrom: []string{"bug", "ghost", "dark"}, HalfDamageFrom: []string{"fighting", "psychic"}},
		{Slug: "bug", DoubleDamageFrom: []string{"fire", "flying", "rock"}, HalfDamageFrom: []string{"grass", "fighting", "ground"}},
		{Slug: "rock", DoubleDamageFrom: []string{"water", "grass", "fighting", "ground", "steel"}, HalfDamageFrom: []string{"normal", "fire", "poison", "flying"}},
		{Slug: "ghost", DoubleDamageFrom: []string{"ghost", "dark"}, HalfDamageFrom: []string{"poison", "bug"}, NoDamageFrom: []string{"normal", "fighting"}},
		{Slug: "dark", DoubleDamageFrom: []string{"fighting", "bug", "fairy"}, HalfDamageFrom: []string{"ghost", "dark"}, NoDamageFrom: []string{"psychic"}},
		{Slug: "steel", DoubleDamageFrom: []string{"fire", "fighting", "ground"}, HalfDamageFrom: []string{"normal", "grass", "ice", "flying", "psychic", "bug", "rock", "steel", "fairy"}, NoDamageFrom: []string{"poison"}},
		{Slug: "fairy", DoubleDamageFrom: []string{"poison", "steel"}, HalfDamageFrom: []string{"fighting", "bug", "dark"}, NoDamageFrom: []string{"dragon"}},
		{Slug: "dragon", DoubleDamageFrom: []string{"ice", "dragon", "fairy"}, HalfDamageFrom: []string{"fire", "water", "grass", "electric"}},
	}
}

func TestMultiplierDualTypes(t *testing.T) {
	c := NewChart(fixture())

	tests := []struct {
		name      string
		defending []string
		attacking string
		want      float64
	}{
		{"grass poison vs fire", []string{"grass", "poison"}, "fire", 2},
		{"grass poison vs grass", []string{"grass", "poison"}, "grass", 0.25},
		{"grass poison vs psychic", []string{"grass", "poison"}, "psychic", 2},
		{"bug steel vs fire", []string{"bug", "steel"}, "fire", 4},
		{"water ground vs electric", []string{"water", "ground"}, "electric", 0},
		{"water ground vs grass", []string{"water", "ground"}, "grass", 4},
		{"normal ghost vs fighting", []string{"normal", "ghost"}, "fighting", 0},
		{"single neutral", []string{"water"}, "normal", 1},
		{"unknown own type ignored", []string{"water", "cosmic"}, "grass", 2},
		{"repeated own type counts once", []string{"fire", "fire"}, "water", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Multiplier(tt.defending, tt.attacking))
		})
	}
}

func TestImmunityDominates(t *testing.T) {
	c := NewChart(fixture())
	// Every pairing where either type is immune must yield exactly 0.
	for _, first := range c.Types() {
		for _, second := range c.Types() {
			for _, attacking := range c.Types() {
				immune := c.Multiplier([]string{first}, attacking) == 0 || c.Multiplier([]string{second}, attacking) == 0
				if !immune {
					continue
				}
				got := c.Multiplier([]string{first, second}, attacking)
				if got != 0 {
					t.Fatalf("%s/%s vs %s: expected 0, got %v", first, second, attacking, got)
				}
			}
		}
	}
}

func TestDefenseProfileOrdering(t *testing.T) {
	c := NewChart(fixture())
	p := c.DefenseProfile([]string{"bug", "steel"})

	require.NotEmpty(t, p.Weaknesses)
	assert.Equal(t, Effectiveness{Type: "fire", Multiplier: 4}, p.Weaknesses[0])
	assert.Equal(t, []string{"poison"}, p.Immunities)

	for i := 1; i < len(p.Weaknesses); i++ {
		assert.GreaterOrEqual(t, p.Weaknesses[i-1].Multiplier, p.Weaknesses[i].Multiplier)
	}
	for i := 1; i < len(p.Resistances); i++ {
		assert.LessOrEqual(t, p.Resistances[i-1].Multiplier, p.Resistances[i].Multiplier)
	}
	assert.Equal(t, Effectiveness{Type: "grass", Multiplier: 0.25}, p.Resistances[0])
}

func TestDefenseProfilePartition(t *testing.T) {
	c := NewChart(fixture())
	defenders := [][]string{
		{"grass", "poison"},
		{"water", "ground"},
		{"normal", "ghost"},
		{"fairy"},
		{"dragon", "flying"},
		{},
	}

	for _, types := range defenders {
		p := c.DefenseProfile(types)
		seen := map[string]int{}
		for _, w := range p.Weaknesses {
			seen[w.Type]++
		}
		for _, r := range p.Resistances {
			seen[r.Type]++
		}
		for _, im := range p.Immunities {
			seen[im]++
		}
		for typ, n := range seen {
			if n != 1 {
				t.Fatalf("%v: type %s appears in %d buckets", types, typ, n)
			}
			assert.True(t, c.Known(typ))
		}
	}
}

func TestDefenseProfileUsesFromSideOnly(t *testing.T) {
	// An asymmetric table: "a" claims to hit "b" for double, but "b" only
	// lists "a" as a half-damage source. The From side wins.
	c := NewChart([]Relation{
		{Slug: "a", DoubleDamageTo: []string{"b"}},
		{Slug: "b", HalfDamageFrom: []string{"a"}},
	})

	p := c.DefenseProfile([]string{"b"})
	assert.Empty(t, p.Weaknesses)
	assert.Equal(t, []Effectiveness{{Type: "a", Multiplier: 0.5}}, p.Resistances)
}

func TestDefenseProfileEmptyBucketsAreNotNil(t *testing.T) {
	p := NewChart(nil).DefenseProfile([]string{"fire"})
	assert.NotNil(t, p.Weaknesses)
	assert.NotNil(t, p.Resistances)
	assert.NotNil(t, p.Immunities)
}

func TestMatrix(t *testing.T) {
	c := NewChart(fixture())
	m := c.Matrix()

	require.Len(t, m.Cells, len(m.Types))
	v, ok := m.At("electric", "ground")
	require.True(t, ok)
	assert.Equal(t, 0.0, v)

	v, ok = m.At("water", "fire")
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	_, ok = m.At("shadow", "fire")
	assert.False(t, ok)
}
