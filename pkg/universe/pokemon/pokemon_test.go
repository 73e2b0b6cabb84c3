package pokemon

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ibelion/omniwiki/pkg/coerce"
	"github.com/ibelion/omniwiki/pkg/universe"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sourceDir = "/src/pokemon"

var fixtureTables = map[string]string{
	"types.csv": `id,name,slug,generation,double_damage_to,double_damage_from,half_damage_to,half_damage_from,no_damage_to,no_damage_from,sourceUrl
1,Normal,normal,generation-i,,fighting,rock,,ghost,ghost,u1
2,Fire,fire,generation-i,grass,"water,ground",water,"fire,grass",,,u2
3,Water,water,generation-i,fire,grass,grass,"fire,water",,,u3
4,Grass,grass,generation-i,water,"fire,flying","fire,grass","water,grass,ground",,,u4
5,Ground,ground,generation-i,fire,"water,grass",grass,,flying,electric,u5
6,Flying,flying,generation-i,grass,,,grass,,ground,u6
7,Fighting,fighting,generation-i,normal,flying,flying,,ghost,,u7
8,Ghost,ghost,generation-i,ghost,ghost,,,normal,"normal,fighting",u8
9,Electric,electric,generation-i,water,ground,grass,electric,ground,,u9
`,
	"pokemon.csv": `id,name,slug,generation,base_experience,height,weight,types,abilities,stats,sprite_default,sprite_shiny,sourceUrl
1,Bulbasaur,bulbasaur,generation-i,64,7,69,grass,"overgrow,chlorophyll","hp:45,attack:49,defense:49",b.png,bs.png,p1
4,Charmander,charmander,generation-i,62,6,85,fire,blaze,"hp:39,attack:52",c.png,cs.png,p4
7,Squirtle,squirtle,generation-i,abc,5,90,water,torrent,"hp:44,attack:x",s.png,ss.png,p7
`,
	"species.csv": `id,name,slug,generation,habitat,shape,color,capture_rate,base_happiness,gender_rate,is_baby,is_legendary,is_mythical,flavor_text_en,sourceUrl
1,Bulbasaur,bulbasaur,generation-i,grassland,quadruped,green,45,50,1,False,false,FALSE,A seed.,s1
`,
	"moves.csv": `id,name,slug,type,power,accuracy,pp,priority,damage_class,target,generation,effect,short_effect,sourceUrl
33,Tackle,tackle,normal,40,100,35,0,physical,selected-pokemon,generation-i,Hits.,Hits.,m33
45,Growl,growl,normal,,100,40,0,status,all-opponents,generation-i,Lowers.,Lowers.,m45
`,
	"abilities.csv": `id,name,slug,generation,effect,short_effect,pokemon,sourceUrl
65,Overgrow,overgrow,generation-iii,Boosts grass.,Boost.,"bulbasaur,bulbasaur,ivysaur",a65
66,Blaze,blaze,generation-iii,Boosts fire.,Boost.,,a66
`,
	"items.csv": `id,name,slug,generation,cost,category,fling_power,effect,short_effect,sprite,sourceUrl
0,None,item_none,,,,,,,,
1,Master Ball,master-ball,generation-i,0,standard-balls,,Catches.,Catches.,mb.png,i1
`,
	"evolutions.csv": `chain_id,stage_index,from_id,from_name,to_id,to_name,generation,trigger,min_level,item,location,gender,time_of_day,details_raw,sourceUrl
1,1,1,bulbasaur,2,ivysaur,generation-i,level-up,16,,,,,,e1
`,
	"pokemon_items.csv": `pokemon_slug,item_slug,rarity,version
bulbasaur,master-ball,5,red
`,
	"pokemon_types.csv": `pokemon_slug,slot,type_name
bulbasaur,1,grass
`,
	"pokemon_sprites.csv": `pokemon_slug,sprite_kind,image
bulbasaur,front_default,b.png
`,
	"pokemon_moves.csv": `pokemon_slug,move_slug,learn_method,level,version_group,generation
bulbasaur,tackle,level-up,1,red-blue,generation-i
bulbasaur,growl,level-up,3,red-blue,generation-i
charmander,growl,level-up,1,red-blue,generation-i
`,
}

func writeFixture(t *testing.T, overrides map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, body := range fixtureTables {
		if o, ok := overrides[name]; ok {
			body = o
		}
		require.NoError(t, afero.WriteFile(fs, filepath.Join(sourceDir, name), []byte(body), 0o644))
	}
	return fs
}

func build(t *testing.T, fs afero.Fs) (*universe.Output, *Bundle) {
	t.Helper()
	ctx := universe.WithBuildID(context.Background(), "run-1")
	out, err := New().Build(ctx, universe.NewSource(fs, sourceDir, "pokemon"), nil)
	require.NoError(t, err)
	bundle, ok := out.Bundle.(*Bundle)
	require.True(t, ok)
	return out, bundle
}

func TestBuildCounts(t *testing.T) {
	out, bundle := build(t, writeFixture(t, nil))

	assert.Equal(t, "pokemon", out.Universe)
	assert.Equal(t, "run-1", bundle.Meta.BuildID)
	assert.Equal(t, "Pokemon", bundle.Meta.DisplayName)

	counts := out.Counts()
	assert.Equal(t, 9, counts["types"])
	assert.Equal(t, 3, counts["pokemon"])
	assert.Equal(t, 1, counts["items"], "placeholder item is dropped")
	assert.Equal(t, 2, counts["learnsets"])
	assert.Equal(t, counts, bundle.Meta.Counts)
}

func TestBuildCoercesCells(t *testing.T) {
	out, bundle := build(t, writeFixture(t, nil))

	bulbasaur := bundle.Pokemon[0]
	assert.Equal(t, 1, bulbasaur.ID)
	assert.Equal(t, 64, bulbasaur.BaseExperience)
	assert.Equal(t, []string{"overgrow", "chlorophyll"}, bulbasaur.Abilities)
	assert.Equal(t, 143.0, bulbasaur.BaseStatTotal)
	assert.Equal(t, Sprites{Default: "b.png", Shiny: "bs.png"}, bulbasaur.Sprites)

	squirtle := bundle.Pokemon[2]
	assert.Equal(t, 0, squirtle.BaseExperience)
	assert.Equal(t, 0.0, squirtle.Stats["attack"])
	assert.Equal(t, 2, out.Warnings, "malformed base_experience and stat")

	species := bundle.Species[0]
	assert.False(t, species.IsBaby)
	require.NotNil(t, species.CaptureRate)
	assert.Equal(t, 45, *species.CaptureRate)

	assert.Nil(t, bundle.Moves[1].Power)
	assert.Equal(t, []string{"bulbasaur", "ivysaur"}, bundle.Abilities[0].Pokemon)
	assert.Equal(t, "grass", bundle.PokemonTypes[0].TypeSlug)
	assert.Equal(t, "front_default", bundle.Sprites[0].SpriteType)
}

func TestBuildDefenseProfile(t *testing.T) {
	_, bundle := build(t, writeFixture(t, nil))

	profile := bundle.Pokemon[0].DefenseProfile
	var weak []string
	for _, w := range profile.Weaknesses {
		weak = append(weak, w.Type)
	}
	assert.Equal(t, []string{"fire", "flying"}, weak)

	var resist []string
	for _, r := range profile.Resistances {
		resist = append(resist, r.Type)
	}
	assert.Equal(t, []string{"water", "grass", "ground"}, resist)
	assert.Empty(t, profile.Immunities)
}

func TestBuildIndexes(t *testing.T) {
	_, bundle := build(t, writeFixture(t, nil))

	assert.Equal(t, NameEntry{Slug: "bulbasaur", Name: "Bulbasaur"}, bundle.Indexes.NameIndex[0])
	assert.Equal(t, []string{"bulbasaur"}, bundle.Indexes.TypeIndex["grass"])
	assert.Equal(t, []string{"bulbasaur", "ivysaur"}, bundle.Indexes.AbilityIndex["overgrow"])
	assert.Equal(t, []string{"charmander"}, bundle.Indexes.AbilityIndex["blaze"])
	assert.Equal(t, []string{"bulbasaur"}, bundle.Indexes.AbilityIndex["chlorophyll"])
}

func TestBuildLearnsetSummary(t *testing.T) {
	out, _ := build(t, writeFixture(t, nil))

	summary, ok := out.Extra["learnsets.json"].(LearnsetSummary)
	require.True(t, ok)
	assert.Len(t, summary.Learnsets["bulbasaur"], 2)
	assert.Equal(t, PokemonRef{ID: 4, Generation: "generation-i", Slug: "charmander"}, summary.Pokemon[1])
	assert.Len(t, summary.Moves, 2)
}

func TestBuildMissingTable(t *testing.T) {
	fs := writeFixture(t, nil)
	require.NoError(t, fs.Remove(filepath.Join(sourceDir, "moves.csv")))

	_, err := New().Build(context.Background(), universe.NewSource(fs, sourceDir, "pokemon"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, universe.ErrMissingSourceFile)
}

func TestBuildDuplicateSlug(t *testing.T) {
	fs := writeFixture(t, map[string]string{
		"pokemon.csv": `id,name,slug,generation
1,Bulbasaur,bulbasaur,generation-i
2,Bulbasaur,bulbasaur,generation-i
`,
	})

	_, err := New().Build(context.Background(), universe.NewSource(fs, sourceDir, "pokemon"), nil)
	assert.ErrorIs(t, err, universe.ErrValidation)
}

func TestBuildIndexesAbilityUnion(t *testing.T) {
	creatures := []Pokemon{
		{Slug: "zubat", Abilities: []string{"inner-focus"}},
		{Slug: "abra", Abilities: []string{"inner-focus", "synchronize"}},
	}
	abilities := []Ability{
		{Slug: "inner-focus", Pokemon: []string{"zubat", "dragonite"}},
		{Slug: "pressure", Pokemon: []string{}},
	}

	idx := BuildIndexes(creatures, abilities)
	assert.Equal(t, []string{"abra", "dragonite", "zubat"}, idx.AbilityIndex["inner-focus"])
	assert.Equal(t, []string{"abra"}, idx.AbilityIndex["synchronize"])
	assert.Equal(t, []string{}, idx.AbilityIndex["pressure"])
}

func TestWarningsAreTagged(t *testing.T) {
	fs := writeFixture(t, nil)
	rows, err := universe.NewSource(fs, sourceDir, "pokemon").Rows("pokemon")
	require.NoError(t, err)

	c := coerce.NewCollector("pokemon.csv")
	parsePokemon(rows, Chart(nil), c)
	require.Len(t, c.Warnings(), 2)
	assert.Equal(t, "base_experience", c.Warnings()[0].Column)
	assert.Equal(t, 3, c.Warnings()[0].Line)
	assert.Equal(t, "stats", c.Warnings()[1].Column)
	assert.ErrorIs(t, c.Warnings()[0], coerce.ErrMalformedField)
}
