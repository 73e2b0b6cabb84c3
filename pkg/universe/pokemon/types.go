package pokemon

import (
	"github.com/ibelion/omniwiki/pkg/evolution"
	"github.com/ibelion/omniwiki/pkg/learnset"
	"github.com/ibelion/omniwiki/pkg/typechart"
	"github.com/ibelion/omniwiki/pkg/universe"
)

type Type struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Slug             string   `json:"slug"`
	Generation       string   `json:"generation"`
	DoubleDamageTo   []string `json:"doubleDamageTo"`
	DoubleDamageFrom []string `json:"doubleDamageFrom"`
	HalfDamageTo     []string `json:"halfDamageTo"`
	HalfDamageFrom   []string `json:"halfDamageFrom"`
	NoDamageTo       []string `json:"noDamageTo"`
	NoDamageFrom     []string `json:"noDamageFrom"`
	SourceURL        string   `json:"sourceUrl"`
}

// Relation returns the type's damage relations for the type chart.
func (t Type) Relation() typechart.Relation {
	return typechart.Relation{
		Slug:             t.Slug,
		DoubleDamageTo:   t.DoubleDamageTo,
		DoubleDamageFrom: t.DoubleDamageFrom,
		HalfDamageTo:     t.HalfDamageTo,
		HalfDamageFrom:   t.HalfDamageFrom,
		NoDamageTo:       t.NoDamageTo,
		NoDamageFrom:     t.NoDamageFrom,
	}
}

// Chart builds a type chart from type records, in record order.
func Chart(types []Type) *typechart.Chart {
	relations := make([]typechart.Relation, len(types))
	for i, t := range types {
		relations[i] = t.Relation()
	}
	return typechart.NewChart(relations)
}

type Sprites struct {
	Default string `json:"default"`
	Shiny   string `json:"shiny"`
}

// Pokemon is one creature. DefenseProfile is derived from the type table on
// every build and never read from source.
type Pokemon struct {
	ID             int                      `json:"id"`
	Name           string                   `json:"name"`
	Slug           string                   `json:"slug"`
	Generation     string                   `json:"generation"`
	BaseExperience int                      `json:"baseExperience"`
	Height         float64                  `json:"height"`
	Weight         float64                  `json:"weight"`
	Types          []string                 `json:"types"`
	Abilities      []string                 `json:"abilities"`
	Stats          map[string]float64       `json:"stats"`
	BaseStatTotal  float64                  `json:"baseStatTotal"`
	Sprites        Sprites                  `json:"sprites"`
	SourceURL      string                   `json:"sourceUrl"`
	DefenseProfile typechart.DefenseProfile `json:"defenseProfile"`
}

type Species struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	Generation    string  `json:"generation"`
	Habitat       *string `json:"habitat"`
	Shape         *string `json:"shape"`
	Color         *string `json:"color"`
	CaptureRate   *int    `json:"captureRate"`
	BaseHappiness *int    `json:"baseHappiness"`
	GenderRate    *int    `json:"genderRate"`
	IsBaby        bool    `json:"isBaby"`
	IsLegendary   bool    `json:"isLegendary"`
	IsMythical    bool    `json:"isMythical"`
	FlavorText    *string `json:"flavorText"`
	SourceURL     string  `json:"sourceUrl"`
}

type Move struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Type        *string `json:"type"`
	Power       *int    `json:"power"`
	Accuracy    *int    `json:"accuracy"`
	PP          *int    `json:"pp"`
	Priority    *int    `json:"priority"`
	DamageClass *string `json:"damageClass"`
	Target      *string `json:"target"`
	Generation  string  `json:"generation"`
	Effect      *string `json:"effect"`
	ShortEffect *string `json:"shortEffect"`
	SourceURL   string  `json:"sourceUrl"`
}

type Ability struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Generation  string   `json:"generation"`
	Effect      *string  `json:"effect"`
	ShortEffect *string  `json:"shortEffect"`
	Pokemon     []string `json:"pokemon"`
	SourceURL   string   `json:"sourceUrl"`
}

type Item struct {
	ID          *int    `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Generation  *string `json:"generation"`
	Cost        *int    `json:"cost"`
	Category    *string `json:"category"`
	FlingPower  *int    `json:"flingPower"`
	Effect      *string `json:"effect"`
	ShortEffect *string `json:"shortEffect"`
	Sprite      *string `json:"sprite"`
	SourceURL   string  `json:"sourceUrl"`
}

type HeldItem struct {
	PokemonSlug string  `json:"pokemonSlug"`
	ItemSlug    string  `json:"itemSlug"`
	Rarity      *int    `json:"rarity"`
	Version     *string `json:"version"`
}

type TypeSlot struct {
	PokemonSlug string `json:"pokemonSlug"`
	Slot        *int   `json:"slot"`
	TypeSlug    string `json:"typeSlug"`
}

type Sprite struct {
	PokemonSlug string `json:"pokemonSlug"`
	SpriteType  string `json:"spriteType"`
	Image       string `json:"image"`
}

type NameEntry struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type Indexes struct {
	NameIndex    []NameEntry         `json:"nameIndex"`
	TypeIndex    map[string][]string `json:"typeIndex"`
	AbilityIndex map[string][]string `json:"abilityIndex"`
}

// Bundle is the complete Pokémon dataset written as bundle.json.
type Bundle struct {
	Meta         universe.Meta               `json:"meta"`
	Pokemon      []Pokemon                   `json:"pokemon"`
	Species      []Species                   `json:"species"`
	Moves        []Move                      `json:"moves"`
	Abilities    []Ability                   `json:"abilities"`
	Items        []Item                      `json:"items"`
	Types        []Type                      `json:"types"`
	Evolutions   []evolution.Edge            `json:"evolutions"`
	PokemonItems []HeldItem                  `json:"pokemonItems"`
	PokemonTypes []TypeSlot                  `json:"pokemonTypes"`
	Sprites      []Sprite                    `json:"sprites"`
	Learnsets    map[string][]learnset.Entry `json:"learnsets"`
	Indexes      Indexes                     `json:"indexes"`
}

// LearnsetSummary is the learnsets.json download: raw learnsets plus just
// enough creature and move data to render them.
type LearnsetSummary struct {
	Learnsets map[string][]learnset.Entry `json:"learnsets"`
	Pokemon   []PokemonRef                `json:"pokemon"`
	Moves     []Move                      `json:"moves"`
}

type PokemonRef struct {
	ID         int    `json:"id"`
	Generation string `json:"generation"`
	Slug       string `json:"slug"`
}
