// Package league builds the League of Legends universe bundle from its CSV
// tables.
package league

import (
	"context"
	"fmt"

	"github.com/ibelion/omniwiki/pkg/coerce"
	"github.com/ibelion/omniwiki/pkg/csvparse"
	"github.com/ibelion/omniwiki/pkg/universe"
)

const universeName = "lol"

var tables = []string{
	"champions",
	"abilities",
	"skins",
	"items",
	"runes",
	"summoner_spells",
	"lore",
	"quotes",
	"chromas",
	"emotes",
	"factions",
	"maps",
	"objectives",
	"queues",
	"summoner_icons",
	"ward_skins",
}

type Builder struct{}

func New() *Builder {
	return &Builder{}
}

func (b *Builder) Name() string {
	return universeName
}

func (b *Builder) DisplayName() string {
	return "League of Legends"
}

func (b *Builder) Tables() []string {
	return append([]string(nil), tables...)
}

// parseTable maps every row of a table through fn, advancing the collector's
// line counter as it goes.
func parseTable[T any](rows []csvparse.Row, c *coerce.Collector, fn func(csvparse.Row, *coerce.Collector) T) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		c.Next()
		out = append(out, fn(row, c))
	}
	return out
}

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

	collectors := make(map[string]*coerce.Collector, len(tables))
	for _, t := range tables {
		collectors[t] = coerce.NewCollector(t + ".csv")
	}

	bundle := &Bundle{
		Champions:      parseTable(rows["champions"], collectors["champions"], parseChampion),
		Abilities:      parseTable(rows["abilities"], collectors["abilities"], parseAbility),
		Skins:          parseTable(rows["skins"], collectors["skins"], parseSkin),
		Items:          parseTable(rows["items"], collectors["items"], parseItem),
		Runes:          parseTable(rows["runes"], collectors["runes"], parseRune),
		SummonerSpells: parseTable(rows["summoner_spells"], collectors["summoner_spells"], parseSummonerSpell),
		Lore:           parseTable(rows["lore"], collectors["lore"], parseLore),
		Quotes:         parseTable(rows["quotes"], collectors["quotes"], parseQuote),
		Chromas:        parseTable(rows["chromas"], collectors["chromas"], parseChroma),
		Emotes:         parseTable(rows["emotes"], collectors["emotes"], parseEmote),
		Factions:       parseTable(rows["factions"], collectors["factions"], parseFaction),
		Maps:           parseTable(rows["maps"], collectors["maps"], parseMap),
		Objectives:     parseTable(rows["objectives"], collectors["objectives"], parseObjective),
		Queues:         parseTable(rows["queues"], collectors["queues"], parseQueue),
		SummonerIcons:  parseTable(rows["summoner_icons"], collectors["summoner_icons"], parseSummonerIcon),
		WardSkins:      parseTable(rows["ward_skins"], collectors["ward_skins"], parseWardSkin),
	}
	if err := validateChampions(bundle.Champions); err != nil {
		return nil, err
	}
	bundle.Indexes = BuildIndexes(bundle.Champions)

	warnings := 0
	for _, t := range tables {
		c := collectors[t]
		for _, w := range c.Warnings() {
			log.Debugf("%v", w)
		}
		if n := len(c.Warnings()); n > 0 {
			log.Warnf("%d malformed cells in %s", n, c.Table)
			warnings += n
		}
	}

	out := &universe.Output{
		Universe: universeName,
		Tables: []universe.Table{
			{Name: "champions", File: "champions.json", Records: bundle.Champions, Count: len(bundle.Champions)},
			{Name: "abilities", File: "abilities.json", Records: bundle.Abilities, Count: len(bundle.Abilities)},
			{Name: "skins", File: "skins.json", Records: bundle.Skins, Count: len(bundle.Skins)},
			{Name: "items", File: "items.json", Records: bundle.Items, Count: len(bundle.Items)},
			{Name: "runes", File: "runes.json", Records: bundle.Runes, Count: len(bundle.Runes)},
			{Name: "summoner_spells", File: "summoner_spells.json", Records: bundle.SummonerSpells, Count: len(bundle.SummonerSpells)},
			{Name: "lore", File: "lore.json", Records: bundle.Lore, Count: len(bundle.Lore)},
			{Name: "quotes", File: "quotes.json", Records: bundle.Quotes, Count: len(bundle.Quotes)},
			{Name: "chromas", File: "chromas.json", Records: bundle.Chromas, Count: len(bundle.Chromas)},
			{Name: "emotes", File: "emotes.json", Records: bundle.Emotes, Count: len(bundle.Emotes)},
			{Name: "factions", File: "factions.json", Records: bundle.Factions, Count: len(bundle.Factions)},
			{Name: "maps", File: "maps.json", Records: bundle.Maps, Count: len(bundle.Maps)},
			{Name: "objectives", File: "objectives.json", Records: bundle.Objectives, Count: len(bundle.Objectives)},
			{Name: "queues", File: "queues.json", Records: bundle.Queues, Count: len(bundle.Queues)},
			{Name: "summoner_icons", File: "summoner_icons.json", Records: bundle.SummonerIcons, Count: len(bundle.SummonerIcons)},
			{Name: "ward_skins", File: "ward_skins.json", Records: bundle.WardSkins, Count: len(bundle.WardSkins)},
		},
		Bundle:   bundle,
		Warnings: warnings,
	}
	out.Meta = universe.NewMeta(ctx, b, out.Tables)
	bundle.Meta = out.Meta
	return out, nil
}

// validateChampions rejects champions whose name yields no slug and slugs
// shared by two champions.
func validateChampions(champions []Champion) error {
	seen := make(map[string]struct{}, len(champions))
	for _, c := range champions {
		if c.Slug == "" {
			return &universe.ValidationError{Universe: universeName, File: "champions.csv", Reason: fmt.Sprintf("champion %d has an empty slug", c.ID)}
		}
		if _, dup := seen[c.Slug]; dup {
			return &universe.ValidationError{Universe: universeName, File: "champions.csv", Reason: fmt.Sprintf("duplicate slug %q", c.Slug)}
		}
		seen[c.Slug] = struct{}{}
	}
	return nil
}

// BuildIndexes derives the champion name index, in champion order.
func BuildIndexes(champions []Champion) Indexes {
	names := make([]ChampionName, len(champions))
	for i, c := range champions {
		names[i] = ChampionName{Slug: c.Slug, Name: c.Name}
	}
	return Indexes{ChampionNames: names}
}

func parseChampion(row csvparse.Row, c *coerce.Collector) Champion {
	return Champion{
		ID:           c.RequiredInt(row, "id"),
		Slug:         coerce.Slugify(row.Get("name")),
		Name:         row.Get("name"),
		Image:        row.Get("image"),
		SplashImage:  row.Get("splash_image"),
		Roles:        coerce.Array(row.Get("roles")),
		Positions:    coerce.Array(row.Get("positions")),
		Resource:     row.Get("resource"),
		RangeType:    row.Get("range_type"),
		Regions:      coerce.Array(row.Get("regions")),
		ReleaseYear:  c.Number(row, "release_year"),
		ReleasePatch: coerce.NullableString(row.Get("release_patch")),
		LastPatch:    coerce.NullableString(row.Get("last_patch")),
		Difficulty:   c.Number(row, "difficulty"),
		Tags:         coerce.Array(row.Get("tags")),
		SourceURL:    row.Get("sourceUrl"),
	}
}

func parseAbility(row csvparse.Row, c *coerce.Collector) Ability {
	return Ability{
		ChampionID:      c.RequiredInt(row, "champion_id"),
		ChampionName:    row.Get("champion"),
		Slot:            row.Get("slot"),
		Name:            row.Get("name"),
		Description:     row.Get("description"),
		DescriptionText: coerce.StripHTML(row.Get("description")),
		Tooltip:         row.Get("tooltip"),
		Cooldown:        row.Get("cooldown"),
		Cost:            row.Get("cost"),
		Range:           row.Get("range"),
		Resource:        row.Get("resource"),
		Image:           row.Get("image"),
		ImageLarge:      row.Get("image_large"),
		SourceURL:       row.Get("sourceUrl"),
	}
}

func parseSkin(row csvparse.Row, c *coerce.Collector) Skin {
	return Skin{
		ChampionID:   c.RequiredInt(row, "champion_id"),
		ChampionName: row.Get("champion"),
		SkinID:       c.RequiredInt(row, "skin_id"),
		Name:         row.Get("name"),
		IsBase:       coerce.Boolean(row.Get("is_base")),
		Rarity:       coerce.NullableString(row.Get("rarity")),
		Cost:         c.Number(row, "cost"),
		Availability: coerce.NullableString(row.Get("availability")),
		ReleaseDate:  coerce.NullableString(row.Get("release")),
		Splash:       coerce.NullableString(row.Get("splash")),
		Tile:         coerce.NullableString(row.Get("tile")),
		LoadScreen:   coerce.NullableString(row.Get("load_screen")),
	}
}

func parseItem(row csvparse.Row, c *coerce.Collector) Item {
	return Item{
		ID:          c.RequiredInt(row, "id"),
		Name:        row.Get("name"),
		Plaintext:   coerce.NullableString(row.Get("plaintext")),
		Description: row.Get("description"),
		GoldTotal:   c.Number(row, "gold_total"),
		GoldBase:    c.Number(row, "gold_base"),
		GoldSell:    c.Number(row, "gold_sell"),
		Purchasable: coerce.Boolean(row.Get("purchasable")),
		Tags:        coerce.Array(row.Get("tags")),
		Stats:       c.Stats(row, "stats"),
		Image:       coerce.NullableString(row.Get("image")),
		SourceURL:   row.Get("sourceUrl"),
	}
}

func parseRune(row csvparse.Row, c *coerce.Collector) Rune {
	return Rune{
		TreeID:    c.RequiredInt(row, "tree_id"),
		Slot:      c.RequiredInt(row, "slot"),
		RuneID:    c.RequiredInt(row, "rune_id"),
		Key:       row.Get("key"),
		Name:      row.Get("name"),
		ShortDesc: row.Get("shortDesc"),
		LongDesc:  row.Get("longDesc"),
		Icon:      coerce.NullableString(row.Get("icon")),
	}
}

func parseSummonerSpell(row csvparse.Row, c *coerce.Collector) SummonerSpell {
	return SummonerSpell{
		ID:            row.Get("id"),
		Key:           c.RequiredInt(row, "key"),
		Name:          row.Get("name"),
		Description:   row.Get("description"),
		Cooldown:      row.Get("cooldown"),
		Modes:         coerce.Array(row.Get("modes")),
		SummonerLevel: c.Number(row, "summonerLevel"),
		Image:         coerce.NullableString(row.Get("image")),
	}
}

func parseLore(row csvparse.Row, _ *coerce.Collector) Lore {
	return Lore{
		Champion:    row.Get("champion"),
		Slug:        row.Get("slug"),
		Title:       row.Get("title"),
		ReleaseDate: coerce.NullableString(row.Get("release_date")),
		Faction:     coerce.NullableString(row.Get("faction")),
		LoreShort:   coerce.NullableString(row.Get("lore_short")),
		LoreLong:    coerce.NullableString(row.Get("lore_long")),
	}
}

// parseQuote accepts the alternate column names older quote scrapes used.
func parseQuote(row csvparse.Row, _ *coerce.Collector) Quote {
	return Quote{
		Champion: row.First("champion", "champ"),
		Text:     row.First("quote", "quote_text"),
		Category: coerce.NullableString(row.First("type", "category")),
		Language: coerce.NullableString(row.First("language", "lang")),
		Audio:    coerce.NullableString(row.First("audio", "audio_url")),
	}
}

func parseChroma(row csvparse.Row, c *coerce.Collector) Chroma {
	return Chroma{
		Champion:  row.Get("champion"),
		SkinID:    c.RequiredInt(row, "skin_id"),
		SkinName:  row.Get("skin_name"),
		ChromaID:  c.RequiredInt(row, "chroma_id"),
		Name:      row.Get("name"),
		Colors:    coerce.SlugList(row.Get("colors")),
		Image:     coerce.NullableString(row.Get("image")),
		SourceURL: coerce.NullableString(row.Get("sourceUrl")),
	}
}

func parseEmote(row csvparse.Row, c *coerce.Collector) Emote {
	return Emote{
		ID:          c.RequiredInt(row, "id"),
		Name:        row.Get("name"),
		Description: coerce.NullableString(row.Get("description")),
		ChampionIDs: coerce.Array(row.Get("champion_ids")),
		Image:       coerce.NullableString(row.Get("image")),
		SourceURL:   coerce.NullableString(row.Get("sourceUrl")),
	}
}

func parseFaction(row csvparse.Row, _ *coerce.Collector) Faction {
	return Faction{
		Slug:        row.Get("slug"),
		Name:        row.Get("name"),
		Description: coerce.NullableString(row.Get("description")),
	}
}

func parseMap(row csvparse.Row, c *coerce.Collector) Map {
	return Map{
		ID:        c.RequiredInt(row, "map_id"),
		Name:      row.Get("name"),
		Image:     coerce.NullableString(row.Get("image")),
		SourceURL: coerce.NullableString(row.Get("sourceUrl")),
	}
}

func parseObjective(row csvparse.Row, c *coerce.Collector) Objective {
	return Objective{
		Category:      coerce.NullableString(row.Get("category")),
		ObjectiveID:   row.Get("objective_id"),
		Title:         row.Get("title"),
		ObjectiveType: coerce.NullableString(row.Get("objective_type")),
		Tag:           coerce.NullableString(row.Get("tag")),
		Start:         c.Number(row, "start"),
		End:           c.Number(row, "end"),
	}
}

func parseQueue(row csvparse.Row, c *coerce.Collector) Queue {
	return Queue{
		ID:           c.RequiredInt(row, "queueId"),
		Map:          row.Get("map"),
		Description:  coerce.NullableString(row.Get("description")),
		Notes:        coerce.NullableString(row.Get("notes")),
		IsDeprecated: coerce.Boolean(row.Get("is_deprecated")),
	}
}

func parseSummonerIcon(row csvparse.Row, c *coerce.Collector) SummonerIcon {
	return SummonerIcon{
		ID:        c.RequiredInt(row, "id"),
		Title:     row.Get("title"),
		Year:      c.Number(row, "year"),
		IsLegacy:  coerce.Boolean(row.Get("is_legacy")),
		Image:     coerce.NullableString(row.Get("image")),
		SourceURL: coerce.NullableString(row.Get("sourceUrl")),
	}
}

func parseWardSkin(row csvparse.Row, c *coerce.Collector) WardSkin {
	return WardSkin{
		ID:          c.RequiredInt(row, "id"),
		Name:        row.Get("name"),
		Description: coerce.NullableString(row.Get("description")),
		IsLegacy:    coerce.Boolean(row.Get("is_legacy")),
		Image:       coerce.NullableString(row.Get("image")),
		SourceURL:   coerce.NullableString(row.Get("sourceUrl")),
	}
}
