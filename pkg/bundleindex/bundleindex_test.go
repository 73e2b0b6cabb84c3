package bundleindex

import (
	"fmt"
	"testing"

	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Infof(string, ...interface{})  {}
func (l *recordingLogger) Errorf(string, ...interface{}) {}
func (l *recordingLogger) Debugf(string, ...interface{}) {}
func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func ids(idx *Index) []string {
	out := make([]string, len(idx.Universes))
	for i, e := range idx.Universes {
		out[i] = e.ID
	}
	return out
}

func TestUpsert(t *testing.T) {
	idx := &Index{}

	assert.Equal(t, ChangeAdded, idx.Upsert(Entry{ID: "pokemon", Name: "Pokemon"}))
	assert.Equal(t, ChangeAdded, idx.Upsert(Entry{ID: "bleach", Name: "Bleach"}))
	assert.Equal(t, ChangeAdded, idx.Upsert(Entry{ID: "lol", Name: "LoL"}))
	assert.Equal(t, []string{"bleach", "lol", "pokemon"}, ids(idx))

	assert.Equal(t, ChangeUpdated, idx.Upsert(Entry{ID: "lol", Name: "League of Legends"}))
	assert.Equal(t, []string{"bleach", "lol", "pokemon"}, ids(idx))
	e, ok := idx.Get("lol")
	require.True(t, ok)
	assert.Equal(t, "League of Legends", e.Name)
}

func TestUpsertSortsBytewise(t *testing.T) {
	idx := &Index{}
	for _, id := range []string{"b", "B", "a", "_x"} {
		idx.Upsert(Entry{ID: id})
	}
	assert.Equal(t, []string{"B", "_x", "a", "b"}, ids(idx))
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	log := &recordingLogger{}

	idx := Load(fs, "/data/universes.json", log)
	assert.Empty(t, idx.Universes)
	assert.Empty(t, log.warnings, "a missing index is not worth a warning")

	require.NoError(t, afero.WriteFile(fs, "/data/universes.json", []byte("{broken"), 0o644))
	idx = Load(fs, "/data/universes.json", log)
	assert.Empty(t, idx.Universes)
	assert.Len(t, log.warnings, 1)
}

func TestLoadCollapsesDuplicateIDs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, utils.WriteJSON(fs, "/data/universes.json", Index{Universes: []Entry{
		{ID: "pokemon", Name: "Old"},
		{ID: "halo", Name: "Halo"},
		{ID: "pokemon", Name: "Pokemon"},
	}}))
	log := &recordingLogger{}

	idx := Load(fs, "/data/universes.json", log)
	assert.Equal(t, []string{"halo", "pokemon"}, ids(idx))
	e, ok := idx.Get("pokemon")
	require.True(t, ok)
	assert.Equal(t, "Pokemon", e.Name)
	assert.Len(t, log.warnings, 1)

	assert.Equal(t, ChangeUpdated, idx.Upsert(Entry{ID: "pokemon", Name: "Pokémon"}))
	assert.Equal(t, []string{"halo", "pokemon"}, ids(idx))
}

func TestUpdate(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, utils.WriteJSON(fs, "/data/universes.json", Index{Universes: []Entry{
		{ID: "halo", Name: "Halo", Path: "/data/halo/data.json"},
		{ID: "pokemon", Name: "Old", Path: "/data/pokemon/data.json"},
	}}))
	require.NoError(t, utils.WriteJSON(fs, "/data/pokemon/data.json", map[string]any{"universeId": "pokemon", "universeName": "Pokemon"}))
	require.NoError(t, utils.WriteJSON(fs, "/data/bleach/data.json", map[string]any{"universeId": "bleach"}))
	require.NoError(t, fs.MkdirAll("/data/empty", 0o755))

	log := &recordingLogger{}
	idx, changes, err := Update(fs, "/data", "/data/universes.json", log)
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{ID: "bleach", Name: "bleach", Path: "/data/bleach/data.json"},
		{ID: "halo", Name: "Halo", Path: "/data/halo/data.json"},
		{ID: "pokemon", Name: "Pokemon", Path: "/data/pokemon/data.json"},
	}, idx.Universes)
	assert.Equal(t, []Change{{ID: "bleach", Type: ChangeAdded}, {ID: "pokemon", Type: ChangeUpdated}}, changes)
	assert.Len(t, log.warnings, 1, "empty directory is skipped")

	var saved Index
	require.NoError(t, utils.ReadJSON(fs, "/data/universes.json", &saved))
	assert.Equal(t, idx.Universes, saved.Universes)
}

func TestUpdateMissingDataDir(t *testing.T) {
	_, _, err := Update(afero.NewMemMapFs(), "/data", "/data/universes.json", nil)
	assert.Error(t, err)
}

func TestWriteExportsIndex(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, f := range []string{"pokemon.json", "bleach.json", "index.json", "notes.txt"} {
		require.NoError(t, afero.WriteFile(fs, "/exports/"+f, []byte("{}"), 0o644))
	}
	require.NoError(t, fs.MkdirAll("/exports/pokemon.json.d", 0o755))

	idx, err := WriteExportsIndex(fs, "/exports")
	require.NoError(t, err)
	assert.Equal(t, []string{"bleach", "pokemon"}, idx.Universes)

	var saved ExportsIndex
	require.NoError(t, utils.ReadJSON(fs, "/exports/index.json", &saved))
	assert.Equal(t, idx.Universes, saved.Universes)
}

func TestWriteBundleIndex(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, utils.WriteJSON(fs, "/public/pokemon/data/bundle.json", map[string]any{"meta": map[string]any{"displayName": "Pokemon"}}))
	require.NoError(t, utils.WriteJSON(fs, "/public/lol/data/bundle.json", map[string]any{"meta": map[string]any{}}))
	require.NoError(t, fs.MkdirAll("/public/exports", 0o755))

	idx, err := WriteBundleIndex(fs, "/public")
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{ID: "lol", Name: "lol", Path: "/lol/data/bundle.json"},
		{ID: "pokemon", Name: "Pokemon", Path: "/pokemon/data/bundle.json"},
	}, idx.Universes)

	ok, err := afero.Exists(fs, "/public/universes.json")
	require.NoError(t, err)
	assert.True(t, ok)
}
