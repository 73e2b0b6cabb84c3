// Package pokemon builds the Pokémon universe bundle from its CSV tables.
package pokemon

import (
	"context"
	"fmt"
	"sort"

	"github.com/ibelion/omniwiki/pkg/coerce"
	"github.com/ibelion/omniwiki/pkg/csvparse"
	"github.com/ibelion/omniwiki/pkg/evolution"
	"github.com/ibelion/omniwiki/pkg/learnset"
	"github.com/ibelion/omniwiki/pkg/typechart"
	"github.com/ibelion/omniwiki/pkg/universe"
)

const (
	// Universe is the name stamped on Pokémon bundles.
	Universe = "pokemon"

	// placeholderItemSlug marks the "no item" row shipped in items.csv.
	placeholderItemSlug = "item_none"
)

var tables = []string{
	"types",
	"pokemon",
	"species",
	"moves",
	"abilities",
	"items",
	"evolutions",
	"pokemon_items",
	"pokemon_types",
	"pokemon_sprites",
	"pokemon_moves",
}

type Builder struct{}

func New() *Builder {
	return &Builder{}
}

func (b *Builder) Name() string {
	return Universe
}

func (b *Builder) DisplayName() string {
	return "Pokemon"
}

func (b *Builder) Tables() []string {
	return append([]string(nil), tables...)
}

// Build reads every table, coerces records, derives defense profiles and
// indexes, and assembles the bundle.
func (b *Builder) Build(ctx context.Context, src *universe.Source, log universe.Logger) (*universe.Output, error) {
	if log == nil {
		log = universe.NopLogger{}
	}

	rows := make(map[string][]csvparse.Row, len(tables))
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := src.Rows(t)
		if err != nil {
			return nil, err
		}
		log.Debugf("Read %d rows from %s.csv", len(r), t)
		rows[t] = r
	}

	var collectors []*coerce.Collector
	collector := func(table string) *coerce.Collector {
		c := coerce.NewCollector(table + ".csv")
		collectors = append(collectors, c)
		return c
	}

	types := parseTypes(rows["types"], collector("types"))
	chart := Chart(types)
	creatures := parsePokemon(rows["pokemon"], chart, collector("pokemon"))
	if err := validateSlugs(creatures); err != nil {
		return nil, err
	}
	species := parseSpecies(rows["species"], collector("species"))
	moves := parseMoves(rows["moves"], collector("moves"))
	abilities := parseAbilities(rows["abilities"], collector("abilities"))
	items := parseItems(rows["items"], collector("items"))
	evolutions := parseEvolutions(rows["evolutions"], collector("evolutions"))
	heldItems := parseHeldItems(rows["pokemon_items"], collector("pokemon_items"))
	typeSlots := parseTypeSlots(rows["pokemon_types"], collector("pokemon_types"))
	sprites := parseSprites(rows["pokemon_sprites"])
	learnsets := parseLearnsets(rows["pokemon_moves"], collector("pokemon_moves"))

	warnings := 0
	for _, c := range collectors {
		for _, w := range c.Warnings() {
			log.Debugf("%v", w)
		}
		if n := len(c.Warnings()); n > 0 {
			log.Warnf("%d malformed cells in %s", n, c.Table)
			warnings += n
		}
	}

	out := &universe.Output{
		Universe: Universe,
		Tables: []universe.Table{
			{Name: "types", File: "types.json", Records: types, Count: len(types)},
			{Name: "pokemon", File: "pokemon.json", Records: creatures, Count: len(creatures)},
			{Name: "species", File: "species.json", Records: species, Count: len(species)},
			{Name: "moves", File: "moves.json", Records: moves, Count: len(moves)},
			{Name: "abilities", File: "abilities.json", Records: abilities, Count: len(abilities)},
			{Name: "items", File: "items.json", Records: items, Count: len(items)},
			{Name: "evolutions", File: "evolutions.json", Records: evolutions, Count: len(evolutions)},
			{Name: "pokemon_items", File: "pokemon_items.json", Records: heldItems, Count: len(heldItems)},
			{Name: "pokemon_types", File: "pokemon_types.json", Records: typeSlots, Count: len(typeSlots)},
			{Name: "sprites", File: "sprites.json", Records: sprites, Count: len(sprites)},
			{Name: "learnsets", File: "", Count: len(learnsets)},
		},
		Learnsets: learnsets,
		Warnings:  warnings,
	}
	out.Meta = universe.NewMeta(ctx, b, out.Tables)

	out.Bundle = &Bundle{
		Meta:         out.Meta,
		Pokemon:      creatures,
		Species:      species,
		Moves:        moves,
		Abilities:    abilities,
		Items:        items,
		Types:        types,
		Evolutions:   evolutions,
		PokemonItems: heldItems,
		PokemonTypes: typeSlots,
		Sprites:      sprites,
		Learnsets:    learnsets,
		Indexes:      BuildIndexes(creatures, abilities),
	}
	out.Extra = map[string]any{
		"learnsets.json": NewLearnsetSummary(learnsets, creatures, moves),
	}
	return out, nil
}

// validateSlugs rejects empty slugs and slugs repeated within a generation.
func validateSlugs(creatures []Pokemon) error {
	seen := make(map[string]map[string]struct{})
	for _, p := range creatures {
		if p.Slug == "" {
			return &universe.ValidationError{Universe: Universe, File: "pokemon.csv", Reason: fmt.Sprintf("pokemon %d has an empty slug", p.ID)}
		}
		gen := learnset.CanonicalGeneration(p.Generation)
		if seen[gen] == nil {
			seen[gen] = make(map[string]struct{})
		}
		if _, dup := seen[gen][p.Slug]; dup {
			return &universe.ValidationError{Universe: Universe, File: "pokemon.csv", Reason: fmt.Sprintf("duplicate slug %q in %s", p.Slug, gen)}
		}
		seen[gen][p.Slug] = struct{}{}
	}
	return nil
}

func parseTypes(rows []csvparse.Row, c *coerce.Collector) []Type {
	out := make([]Type, 0, len(rows))
	for _, row := range rows {
		c.Next()
		out = append(out, Type{
			ID:               c.RequiredInt(row, "id"),
			Name:             row.Get("name"),
			Slug:             row.Get("slug"),
			Generation:       row.Get("generation"),
			DoubleDamageTo:   coerce.SlugList(row.Get("double_damage_to")),
			DoubleDamageFrom: coerce.SlugList(row.Get("double_damage_from")),
			HalfDamageTo:     coerce.SlugList(row.Get("half_damage_to")),
			HalfDamageFrom:   coerce.SlugList(row.Get("half_damage_from")),
			NoDamageTo:       coerce.SlugList(row.Get("no_damage_to")),
			NoDamageFrom:     coerce.SlugList(row.Get("no_damage_from")),
			SourceURL:        row.Get("sourceUrl"),
		})
	}
	return out
}

func parsePokemon(rows []csvparse.Row, chart *typechart.Chart, c *coerce.Collector) []Pokemon {
	out := make([]Pokemon, 0, len(rows))
	for _, row := range rows {
		c.Next()
		types := coerce.SlugList(row.Get("types"))
		stats := c.Stats(row, "stats")
		total := 0.0
		for _, v := range stats {
			total += v
		}
		out = append(out, Pokemon{
			ID:             c.RequiredInt(row, "id"),
			Name:           row.Get("name"),
			Slug:           row.Get("slug"),
			Generation:     row.Get("generation"),
			BaseExperience: c.RequiredInt(row, "base_experience"),
			Height:         c.RequiredFloat(row, "height"),
			Weight:         c.RequiredFloat(row, "weight"),
			Types:          types,
			Abilities:      coerce.SlugList(row.Get("abilities")),
			Stats:          stats,
			BaseStatTotal:  total,
			Sprites: Sprites{
				Default: row.Get("sprite_default"),
				Shiny:   row.Get("sprite_shiny"),
			},
			SourceURL:      row.Get("sourceUrl"),
			DefenseProfile: chart.DefenseProfile(types),
		})
	}
	return out
}

func parseSpecies(rows []csvparse.Row, c *coerce.Collector) []Species {
	out := make([]Species, 0, len(rows))
	for _, row := range rows {
		c.Next()
		out = append(out, Species{
			ID:            c.RequiredInt(row, "id"),
			Name:          row.Get("name"),
			Slug:          row.Get("slug"),
			Generation:    row.Get("generation"),
			Habitat:       coerce.NullableString(row.Get("habitat")),
			Shape:         coerce.NullableString(row.Get("shape")),
			Color:         coerce.NullableString(row.Get("color")),
			CaptureRate:   c.Int(row, "capture_rate"),
			BaseHappiness: c.Int(row, "base_happiness"),
			GenderRate:    c.Int(row, "gender_rate"),
			IsBaby:        coerce.Boolean(row.Get("is_baby")),
			IsLegendary:   coerce.Boolean(row.Get("is_legendary")),
			IsMythical:    coerce.Boolean(row.Get("is_mythical")),
			FlavorText:    coerce.NullableString(row.Get("flavor_text_en")),
			SourceURL:     row.Get("sourceUrl"),
		})
	}
	return out
}

func parseMoves(rows []csvparse.Row, c *coerce.Collector) []Move {
	out := make([]Move, 0, len(rows))
	for _, row := range rows {
		c.Next()
		out = append(out, Move{
			ID:          c.RequiredInt(row, "id"),
			Name:        row.Get("name"),
			Slug:        row.Get("slug"),
			Type:        coerce.NullableString(row.Get("type")),
			Power:       c.Int(row, "power"),
			Accuracy:    c.Int(row, "accuracy"),
			PP:          c.Int(row, "pp"),
			Priority:    c.Int(row, "priority"),
			DamageClass: coerce.NullableString(row.Get("damage_class")),
			Target:      coerce.NullableString(row.Get("target")),
			Generation:  row.Get("generation"),
			Effect:      coerce.NullableString(row.Get("effect")),
			ShortEffect: coerce.NullableString(row.Get("short_effect")),
			SourceURL:   row.Get("sourceUrl"),
		})
	}
	return out
}

func parseAbilities(rows []csvparse.Row, c *coerce.Collector) []Ability {
	out := make([]Ability, 0, len(rows))
	for _, row := range rows {
		c.Next()
		out = append(out, Ability{
			ID:          c.RequiredInt(row, "id"),
			Name:        row.Get("name"),
			Slug:        row.Get("slug"),
			Generation:  row.Get("generation"),
			Effect:      coerce.NullableString(row.Get("effect")),
			ShortEffect: coerce.NullableString(row.Get("short_effect")),
			Pokemon:     uniq(coerce.SlugList(row.Get("pokemon"))),
			SourceURL:   row.Get("sourceUrl"),
		})
	}
	return out
}

func parseItems(rows []csvparse.Row, c *coerce.Collector) []Item {
	out := make([]Item, 0, len(rows))
	for _, row := range rows {
		c.Next()
		if row.Get("slug") == placeholderItemSlug {
			continue
		}
		out = append(out, Item{
			ID:          c.Int(row, "id"),
			Name:        row.Get("name"),
			Slug:        row.Get("slug"),
			Generation:  coerce.NullableString(row.Get("generation")),
			Cost:        c.Int(row, "cost"),
			Category:    coerce.NullableString(row.Get("category")),
			FlingPower:  c.Int(row, "fling_power"),
			Effect:      coerce.NullableString(row.Get("effect")),
			ShortEffect: coerce.NullableString(row.Get("short_effect")),
			Sprite:      coerce.NullableString(row.Get("sprite")),
			SourceURL:   row.Get("sourceUrl"),
		})
	}
	return out
}

func parseEvolutions(rows []csvparse.Row, c *coerce.Collector) []evolution.Edge {
	out := make([]evolution.Edge, 0, len(rows))
	for _, row := range rows {
		c.Next()
		out = append(out, evolution.Edge{
			ChainID:    c.RequiredInt(row, "chain_id"),
			StageIndex: c.RequiredInt(row, "stage_index"),
			FromID:     c.Int(row, "from_id"),
			FromName:   coerce.NullableString(row.Get("from_name")),
			ToID:       c.Int(row, "to_id"),
			ToName:     coerce.NullableString(row.Get("to_name")),
			Generation: row.Get("generation"),
			Trigger:    coerce.NullableString(row.Get("trigger")),
			MinLevel:   c.Int(row, "min_level"),
			Item:       coerce.NullableString(row.Get("item")),
			Location:   coerce.NullableString(row.Get("location")),
			Gender:     coerce.NullableString(row.Get("gender")),
			TimeOfDay:  coerce.NullableString(row.Get("time_of_day")),
			DetailsRaw: coerce.NullableString(row.Get("details_raw")),
			SourceURL:  row.Get("sourceUrl"),
		})
	}
	return out
}

func parseHeldItems(rows []csvparse.Row, c *coerce.Collector) []HeldItem {
	out := make([]HeldItem, 0, len(rows))
	for _, row := range rows {
		c.Next()
		out = append(out, HeldItem{
			PokemonSlug: row.Get("pokemon_slug"),
			ItemSlug:    row.Get("item_slug"),
			Rarity:      c.Int(row, "rarity"),
			Version:     coerce.NullableString(row.Get("version")),
		})
	}
	return out
}

func parseTypeSlots(rows []csvparse.Row, c *coerce.Collector) []TypeSlot {
	out := make([]TypeSlot, 0, len(rows))
	for _, row := range rows {
		c.Next()
		out = append(out, TypeSlot{
			PokemonSlug: row.Get("pokemon_slug"),
			Slot:        c.Int(row, "slot"),
			TypeSlug:    row.First("type_slug", "type_name"),
		})
	}
	return out
}

func parseSprites(rows []csvparse.Row) []Sprite {
	out := make([]Sprite, 0, len(rows))
	for _, row := range rows {
		out = append(out, Sprite{
			PokemonSlug: row.Get("pokemon_slug"),
			SpriteType:  row.First("sprite_type", "sprite_kind", "game"),
			Image:       row.Get("image"),
		})
	}
	return out
}

// parseLearnsets groups pokemon_moves rows by creature slug, keeping row order.
func parseLearnsets(rows []csvparse.Row, c *coerce.Collector) map[string][]learnset.Entry {
	out := make(map[string][]learnset.Entry)
	for _, row := range rows {
		c.Next()
		slug := row.Get("pokemon_slug")
		out[slug] = append(out[slug], learnset.Entry{
			Move:         row.Get("move_slug"),
			Generation:   row.Get("generation"),
			Method:       row.Get("learn_method"),
			Level:        c.Int(row, "level"),
			VersionGroup: coerce.NullableString(row.Get("version_group")),
		})
	}
	return out
}

// BuildIndexes derives the name, type and ability indexes. Type holders keep
// creature order. Ability holders merge the ability table's own lists with
// a scan of every creature's abilities, sorted and deduplicated.
func BuildIndexes(creatures []Pokemon, abilities []Ability) Indexes {
	idx := Indexes{
		NameIndex:    make([]NameEntry, 0, len(creatures)),
		TypeIndex:    make(map[string][]string),
		AbilityIndex: make(map[string][]string),
	}
	holders := make(map[string]map[string]struct{})
	hold := func(ability, slug string) {
		if holders[ability] == nil {
			holders[ability] = make(map[string]struct{})
		}
		holders[ability][slug] = struct{}{}
	}

	for _, p := range creatures {
		idx.NameIndex = append(idx.NameIndex, NameEntry{Slug: p.Slug, Name: p.Name})
		for _, t := range p.Types {
			idx.TypeIndex[t] = append(idx.TypeIndex[t], p.Slug)
		}
		for _, a := range p.Abilities {
			hold(a, p.Slug)
		}
	}
	for _, a := range abilities {
		if _, ok := holders[a.Slug]; !ok {
			holders[a.Slug] = make(map[string]struct{})
		}
		for _, slug := range a.Pokemon {
			hold(a.Slug, slug)
		}
	}

	for ability, set := range holders {
		list := make([]string, 0, len(set))
		for slug := range set {
			list = append(list, slug)
		}
		sort.Strings(list)
		idx.AbilityIndex[ability] = list
	}
	return idx
}

// NewLearnsetSummary assembles the learnsets.json download.
func NewLearnsetSummary(learnsets map[string][]learnset.Entry, creatures []Pokemon, moves []Move) LearnsetSummary {
	refs := make([]PokemonRef, len(creatures))
	for i, p := range creatures {
		refs[i] = PokemonRef{ID: p.ID, Generation: p.Generation, Slug: p.Slug}
	}
	return LearnsetSummary{Learnsets: learnsets, Pokemon: refs, Moves: moves}
}

func uniq(values []string) []string {
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
