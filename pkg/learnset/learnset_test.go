package learnset

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lvl(n int) *int { return &n }

func vg(s string) *string { return &s }

func sampleEntries() []Entry {
	return []Entry{
		{Move: "tackle", Generation: "generation-i", Method: "level-up", Level: lvl(1), VersionGroup: vg("yellow")},
		{Move: "tackle", Generation: "generation-i", Method: "level-up", Level: lvl(1), VersionGroup: vg("red-blue")},
		{Move: "tackle", Generation: "generation-i", Method: "level-up", Level: lvl(1), VersionGroup: vg("red-blue")},
		{Move: "tackle", Generation: "generation-iv", Method: "egg", Level: nil, VersionGroup: vg("platinum")},
		{Move: "tackle", Generation: "generation-iv", Method: "level-up", Level: nil, VersionGroup: vg("diamond-pearl")},
		{Move: "tackle", Generation: "generation-iv", Method: "level-up", Level: lvl(9), VersionGroup: vg("platinum")},
		{Move: "tackle", Generation: "generation-iv", Method: "machine", Level: nil, VersionGroup: nil},
		{Move: "tackle", Generation: "generation-ii", Method: "stadium-reward", Level: nil, VersionGroup: vg("crystal")},
		{Move: "tackle", Generation: "generation-ii", Method: "tutor", Level: nil, VersionGroup: vg("crystal")},
		{Move: "tackle", Generation: "generation-x", Method: "level-up", Level: lvl(3), VersionGroup: nil},
	}
}

func TestAggregateGroupsAndOrders(t *testing.T) {
	groups := Aggregate(sampleEntries())

	gens := make([]string, len(groups))
	for i, g := range groups {
		gens[i] = g.Generation
	}
	assert.Equal(t, []string{"generation-i", "generation-ii", "generation-iv", "generation-x"}, gens)

	require.Len(t, groups[0].Entries, 1)
	assert.Equal(t, "Gen I", groups[0].Label)
	assert.Equal(t, []string{"red-blue", "yellow"}, groups[0].Entries[0].VersionGroups)

	gen2 := groups[1].Entries
	require.Len(t, gen2, 2)
	assert.Equal(t, "tutor", gen2[0].Method)
	assert.Equal(t, "stadium-reward", gen2[1].Method)

	gen4 := groups[2].Entries
	require.Len(t, gen4, 4)
	assert.Equal(t, "level-up", gen4[0].Method)
	assert.Equal(t, 9, *gen4[0].Level)
	assert.Equal(t, "level-up", gen4[1].Method)
	assert.Nil(t, gen4[1].Level)
	assert.Equal(t, "machine", gen4[2].Method)
	assert.Equal(t, []string{}, gen4[2].VersionGroups)
	assert.Equal(t, "egg", gen4[3].Method)

	assert.Equal(t, "generation-x", groups[3].Label)
}

func TestAggregateVersionGroupCountBreaksTies(t *testing.T) {
	entries := []Entry{
		{Move: "a", Generation: "generation-iii", Method: "level-up", Level: lvl(5), VersionGroup: vg("emerald")},
		{Move: "b", Generation: "generation-iii", Method: "level-up", Level: lvl(5), VersionGroup: vg("xd")},
	}
	groups := Aggregate(entries)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Entries, 1)
	assert.Equal(t, []string{"emerald", "xd"}, groups[0].Entries[0].VersionGroups)

	a := Aggregated{Generation: "generation-iii", Method: "tutor", VersionGroups: []string{"emerald", "xd"}}
	b := Aggregated{Generation: "generation-iii", Method: "tutor", VersionGroups: []string{"emerald"}}
	assert.Greater(t, Compare(a, b), 0)
}

func TestAggregateMethodAliases(t *testing.T) {
	entries := []Entry{
		{Generation: "generation-v", Method: "level_up", Level: lvl(1), VersionGroup: vg("black-white")},
		{Generation: "gen-v", Method: "level-up", Level: lvl(1), VersionGroup: vg("black-2-white-2")},
	}
	groups := Aggregate(entries)
	require.Len(t, groups, 1)
	assert.Equal(t, "generation-v", groups[0].Generation)
	require.Len(t, groups[0].Entries, 1)
	assert.Equal(t, "level-up", groups[0].Entries[0].Method)
	assert.Equal(t, []string{"black-2-white-2", "black-white"}, groups[0].Entries[0].VersionGroups)
}

func TestAggregateIsOrderIndependent(t *testing.T) {
	entries := sampleEntries()
	want, err := json.Marshal(Aggregate(entries))
	require.NoError(t, err)

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 25; i++ {
		shuffled := append([]Entry(nil), entries...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := json.Marshal(Aggregate(shuffled))
		require.NoError(t, err)
		if diff := cmp.Diff(string(want), string(got)); diff != "" {
			t.Fatalf("aggregation depends on input order (-want +got):\n%s", diff)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}

func TestGroupByMethod(t *testing.T) {
	groups := Aggregate(sampleEntries())
	byMethod := GroupByMethod(groups[2].Entries)

	methods := make([]string, len(byMethod))
	for i, g := range byMethod {
		methods[i] = g.Method
	}
	assert.Equal(t, []string{"level-up", "machine", "egg"}, methods)
	assert.Len(t, byMethod[0].Entries, 2)
}

func TestAggregateMoves(t *testing.T) {
	entries := []Entry{
		{Move: "scratch_2", Generation: "generation-i", Method: "level-up", Level: lvl(1), VersionGroup: vg("red-blue")},
		{Move: "scratch", Generation: "generation-i", Method: "level-up", Level: lvl(1), VersionGroup: vg("yellow")},
		{Move: "ember", Generation: "generation-i", Method: "level-up", Level: lvl(9), VersionGroup: vg("red-blue")},
	}
	moves := AggregateMoves(entries)
	require.Len(t, moves, 2)
	assert.Equal(t, "ember", moves[0].Move)
	assert.Equal(t, "scratch", moves[1].Move)
	require.Len(t, moves[1].Generations, 1)
	assert.Equal(t, []string{"red-blue", "yellow"}, moves[1].Generations[0].Entries[0].VersionGroups)
}

func TestParseGeneration(t *testing.T) {
	tests := map[string]Generation{
		"generation-iv": GenerationIV,
		"Generation-IX": GenerationIX,
		"gen-ii":        GenerationII,
		"vii":           GenerationVII,
		"3":             GenerationIII,
		"generation-x":  GenerationUnknown,
		"":              GenerationUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseGeneration(in), "input %q", in)
	}
	assert.Len(t, Generations(), 9)
	assert.Less(t, CompareGenerations("generation-ii", "generation-x"), 0)
	assert.Greater(t, CompareGenerations("generation-ix", "generation-v"), 0)
}

func TestCompareMethods(t *testing.T) {
	order := []string{"level-up", "machine", "tutor", "egg", "light-ball-egg", "form-change", "special", "transfer", "zzz-unknown"}
	for i := 1; i < len(order); i++ {
		assert.Less(t, CompareMethods(order[i-1], order[i]), 0, "%s before %s", order[i-1], order[i])
	}
	assert.Equal(t, "machine", NormalizeMethod("TM"))
	assert.Equal(t, "pokewalker", NormalizeMethod(" Pokewalker "))
}

func TestFormatVersionGroups(t *testing.T) {
	tests := []struct {
		name   string
		groups []string
		gen    string
		want   string
	}{
		{"empty", nil, "generation-iv", "All versions"},
		{"complete generation", []string{"platinum", "diamond-pearl", "heartgold-soulsilver"}, "generation-iv", "All Gen IV games"},
		{"complete single game generation", []string{"scarlet-violet"}, "generation-ix", "All Gen IX games"},
		{"partial", []string{"diamond-pearl", "platinum"}, "generation-iv", "Diamond & Pearl, Platinum"},
		{"three", []string{"ruby-sapphire", "emerald", "xd"}, "generation-iii", "Ruby Sapphire, Emerald, XD"},
		{"elided", []string{"ruby-sapphire", "emerald", "firered-leafgreen", "colosseum"}, "generation-iii", "Ruby Sapphire, Emerald, FireRed & LeafGreen +1 more"},
		{"unknown generation", []string{"red-blue"}, "generation-x", "Red & Blue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatVersionGroups(tt.groups, tt.gen))
		})
	}
}

func TestIsAllGamesInGeneration(t *testing.T) {
	for _, g := range Generations() {
		all := AllGamesForGeneration(g.String())
		require.NotEmpty(t, all)
		assert.True(t, IsAllGamesInGeneration(all, g.String()))
		assert.Equal(t, "All "+g.Label()+" games", FormatVersionGroups(all, g.String()))
		assert.False(t, IsAllGamesInGeneration(all[:len(all)-1], g.String()))
	}
	assert.False(t, IsAllGamesInGeneration([]string{"red-blue", "yellow", "crystal"}, "generation-i"))
	assert.Nil(t, AllGamesForGeneration("generation-x"))
}

func TestGenerationForVersionGroup(t *testing.T) {
	gen, ok := GenerationForVersionGroup("legends-arceus")
	require.True(t, ok)
	assert.Equal(t, "generation-viii", gen)

	_, ok = GenerationForVersionGroup("stadium")
	assert.False(t, ok)
}

func TestFormatVersionGroupLabel(t *testing.T) {
	tests := map[string]string{
		"red-blue":                      "Red & Blue",
		"gold-silver":                   "Gold Silver",
		"xd":                            "XD",
		"lets-go-pikachu-lets-go-eevee": "Let's Go Pikachu/Eevee",
		"lets-go-meowth":                "Let's Go Meowth",
		"tm-shop":                       "TM Shop",
		"the-indigo-disk":               "The Indigo Disk",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatVersionGroupLabel(in), "input %q", in)
	}
}

func TestNormalizeMoveSlug(t *testing.T) {
	assert.Equal(t, "fire-punch", NormalizeMoveSlug("fire-punch_3"))
	assert.Equal(t, "tackle", NormalizeMoveSlug("tackle"))
	assert.Equal(t, "fire_punch", NormalizeMoveSlug("fire_punch_12"))
	assert.Equal(t, "move_2a", NormalizeMoveSlug("move_2a"))
}

func TestMoveIndex(t *testing.T) {
	type move struct{ Slug, Name string }
	idx := NewMoveIndex([]move{
		{Slug: "scratch", Name: "Scratch"},
		{Slug: "scratch_2", Name: "Scratch (variant)"},
		{Slug: "ember_3", Name: "Ember"},
	}, func(m move) string { return m.Slug })

	m, ok := idx.Lookup("scratch")
	require.True(t, ok)
	assert.Equal(t, "Scratch", m.Name)

	m, ok = idx.Lookup("scratch_2")
	require.True(t, ok)
	assert.Equal(t, "Scratch (variant)", m.Name)

	m, ok = idx.Lookup("ember")
	require.True(t, ok)
	assert.Equal(t, "Ember", m.Name)

	m, ok = idx.Lookup("scratch_9")
	require.True(t, ok)
	assert.Equal(t, "Scratch", m.Name)

	_, ok = idx.Lookup("surf")
	assert.False(t, ok)
}

func TestSplit(t *testing.T) {
	learnsets := map[string][]Entry{
		"bulbasaur": {
			{Move: "tackle", Generation: "generation-iv"},
			{Move: "tackle", Generation: "generation-i"},
			{Move: "growl", Generation: "generation-i"},
		},
		"pikachu": {
			{Move: "thunder-shock", Generation: "generation-i"},
		},
	}

	chunks, index := Split(learnsets, "/exports/pokemon/learnsets")
	assert.Equal(t, SplitIndex{Chunks: []Chunk{
		{Gen: "generation-i", Path: "/exports/pokemon/learnsets/generation-i.json"},
		{Gen: "generation-iv", Path: "/exports/pokemon/learnsets/generation-iv.json"},
	}}, index)

	require.Len(t, chunks["generation-i"]["bulbasaur"], 2)
	assert.Equal(t, "tackle", chunks["generation-i"]["bulbasaur"][0].Move)
	assert.Equal(t, "growl", chunks["generation-i"]["bulbasaur"][1].Move)
	assert.Len(t, chunks["generation-i"]["pikachu"], 1)
	assert.NotContains(t, chunks["generation-iv"], "pikachu")
}

func TestSplitMergesGenerationAliases(t *testing.T) {
	learnsets := map[string][]Entry{
		"bulbasaur": {
			{Move: "tackle", Generation: "generation-iv"},
			{Move: "growl", Generation: "4"},
			{Move: "vine-whip", Generation: ""},
		},
	}

	chunks, index := Split(learnsets, "/learnsets")
	assert.Equal(t, SplitIndex{Chunks: []Chunk{
		{Gen: "generation-iv", Path: "/learnsets/generation-iv.json"},
		{Gen: UnknownChunk, Path: "/learnsets/unknown.json"},
	}}, index)
	assert.Len(t, chunks, 2)

	gen4 := chunks["generation-iv"]["bulbasaur"]
	require.Len(t, gen4, 2)
	assert.Equal(t, "tackle", gen4[0].Move)
	assert.Equal(t, "growl", gen4[1].Move)
	assert.Equal(t, "4", gen4[1].Generation, "entries keep their source generation")

	require.Len(t, chunks[UnknownChunk]["bulbasaur"], 1)
	assert.Equal(t, "vine-whip", chunks[UnknownChunk]["bulbasaur"][0].Move)
}
