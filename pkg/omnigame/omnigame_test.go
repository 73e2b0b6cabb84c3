package omnigame

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/ibelion/omniwiki/pkg/reconcile"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const pokemonExport = `{
	"universe": {"key": "pokemon", "displayName": "Pokemon", "version": 2},
	"exportedAt": "2024-01-01T00:00:00Z",
	"characterCount": 1,
	"characters": [{
		"id": "pikachu", "key": "pikachu", "name": "Pikachu", "universeId": "pokemon",
		"tags": ["electric"], "metadata": {},
		"images": {"portrait": "images/pikachu/portrait.png", "full": "images/pikachu/full.png"}
	}]
}`

func importFixture(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	write := func(p, body string) {
		require.NoError(t, afero.WriteFile(fs, p, []byte(body), 0o644))
	}
	write("/export/pokemon/metadata.json", pokemonExport)
	write("/export/pokemon/images/pikachu/portrait.png", "p")
	write("/export/pokemon/images/pikachu/full.png", "f")
	write("/export/bleach/metadata.json", `{"universeId":"bleach","universeName":"Bleach","characters":[]}`)
	write("/export/broken/metadata.json", `{"foo":1}`)
	require.NoError(t, fs.MkdirAll("/export/nometa", 0o755))
	return fs
}

func TestImportAll(t *testing.T) {
	fs := importFixture(t)
	im := &Importer{Fs: fs, ExportPath: "/export", DataDir: "/data", PublicDir: "/public"}

	summary, err := im.ImportAll(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Results, 4)

	got := map[string]ImportResult{}
	for _, r := range summary.Results {
		got[r.Universe] = r
	}
	assert.Equal(t, []string{"bleach", "broken", "nometa", "pokemon"}, []string{
		summary.Results[0].Universe, summary.Results[1].Universe,
		summary.Results[2].Universe, summary.Results[3].Universe,
	})

	assert.NoError(t, got["pokemon"].Err)
	assert.Equal(t, 1, got["pokemon"].Characters)
	assert.Equal(t, 2, got["pokemon"].Images)
	assert.NoError(t, got["bleach"].Err)
	assert.True(t, errors.Is(got["broken"].Err, reconcile.ErrSchemaMismatch))
	assert.ErrorContains(t, got["nometa"].Err, "metadata file not found")

	assert.Equal(t, 2, summary.Successful())
	assert.Equal(t, 2, summary.Failed())
	assert.Equal(t, 1, summary.TotalCharacters())
	assert.Equal(t, 2, summary.TotalImages())

	var rec reconcile.CanonicalRecord
	require.NoError(t, utils.ReadJSON(fs, "/data/pokemon/data.json", &rec))
	assert.Equal(t, "pokemon", rec.UniverseID)
	assert.Equal(t, "2", rec.Version)
	assert.Equal(t, "pikachu/portrait.png", rec.Characters[0].Images.Portrait)

	ok, err := afero.Exists(fs, "/public/universes/pokemon/images/pikachu/full.png")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = afero.Exists(fs, "/data/broken/data.json")
	assert.False(t, ok, "failed universes write nothing")
}

func TestImportAllMissingExport(t *testing.T) {
	im := &Importer{Fs: afero.NewMemMapFs(), ExportPath: "/export"}
	_, err := im.ImportAll(context.Background())
	assert.True(t, errors.Is(err, ErrExportNotFound))
}

func TestImportAllEmptyExport(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/export", 0o755))
	im := &Importer{Fs: fs, ExportPath: "/export"}
	_, err := im.ImportAll(context.Background())
	assert.True(t, errors.Is(err, ErrNoUniverses))
}

func TestImportAllCanceled(t *testing.T) {
	fs := importFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	im := &Importer{Fs: fs, ExportPath: "/export", DataDir: "/data", PublicDir: "/public"}
	summary, err := im.ImportAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Successful())
}

func exportFixture(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, utils.WriteJSON(fs, "/data/lol/characters.json", SourceBundle{
		Universe: "lol",
		Characters: []SourceCharacter{
			{ID: "zed", Name: "Zed", Universe: "lol", ImagePath: "zed_splash.jpg"},
			{ID: "ahri", Name: "Ahri", Universe: "lol", Tags: []string{"mage"}, ImagePath: "ahri_splash.jpg"},
		},
	}))
	for _, p := range []string{
		"/data/lol/images/zed_splash.jpg",
		"/data/lol/images/ahri_splash.jpg",
		"/data/lol/images/ahri/portrait.png",
		"/data/lol/images/ahri/full.png",
	} {
		require.NoError(t, afero.WriteFile(fs, p, []byte("x"), 0o644))
	}
	require.NoError(t, utils.WriteJSON(fs, "/data/halo/characters.json", SourceBundle{Universe: "cod"}))
	require.NoError(t, fs.MkdirAll("/data/notsupported", 0o755))
	return fs
}

func TestExportAll(t *testing.T) {
	fs := exportFixture(t)
	ex := &Exporter{
		Fs:        fs,
		DataDir:   "/data",
		ExportDir: "/exports",
		Now:       func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
	}

	summary, err := ex.ExportAll(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Results, 2)
	assert.Equal(t, 1, summary.Failed())

	assert.Equal(t, "halo", summary.Results[0].Universe)
	assert.ErrorContains(t, summary.Results[0].Err, "universe mismatch: expected halo, got cod")

	lol := summary.Results[1]
	require.NoError(t, lol.Err)
	assert.Equal(t, 2, lol.Characters)
	assert.Equal(t, 4, lol.Images)

	var shape reconcile.ExportShape
	require.NoError(t, utils.ReadJSON(fs, "/exports/lol.json", &shape))
	assert.Equal(t, "League of Legends", shape.Universe.DisplayName)
	assert.Equal(t, "2024-06-01T00:00:00Z", shape.ExportedAt)
	require.Len(t, shape.Characters, 2)

	ahri, zed := shape.Characters[0], shape.Characters[1]
	assert.Equal(t, "ahri", ahri.ID)
	assert.Equal(t, reconcile.ExportImages{Portrait: "images/ahri/portrait.png", Full: "images/ahri/full.png"}, ahri.Images)
	assert.Equal(t, reconcile.ExportImages{Full: "images/zed/zed_splash.jpg"}, zed.Images)
	assert.Equal(t, []string{}, zed.Tags)

	ok, err := afero.Exists(fs, "/exports/lol/images/ahri/full.png")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExportAllExplicitUniverses(t *testing.T) {
	fs := exportFixture(t)
	ex := &Exporter{Fs: fs, DataDir: "/data", ExportDir: "/exports", Universes: []string{"bleach"}}

	summary, err := ex.ExportAll(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.ErrorContains(t, summary.Results[0].Err, "characters.json not found")
}

func TestExportAllNoSupportedUniverses(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/data/other", 0o755))
	ex := &Exporter{Fs: fs, DataDir: "/data", ExportDir: "/exports"}
	_, err := ex.ExportAll(context.Background())
	assert.True(t, errors.Is(err, ErrNoUniverses))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Hunter x Hunter", DisplayName("hxh"))
	assert.Equal(t, "unknown", DisplayName("unknown"))
}
