// Package bundleindex maintains the top-level universe indexes that list
// every imported or built universe.
package bundleindex

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/ibelion/omniwiki/pkg/universe"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

type Entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Index is the universes.json document. Universes is kept sorted by ID with
// no duplicate IDs.
type Index struct {
	Universes []Entry `json:"universes"`
}

// ChangeType describes how an Upsert affected the index.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeUpdated ChangeType = "updated"
)

type Change struct {
	ID   string
	Type ChangeType
}

// Upsert replaces the entry sharing e's ID or appends e, then re-sorts.
func (idx *Index) Upsert(e Entry) ChangeType {
	change := ChangeAdded
	replaced := false
	for i := range idx.Universes {
		if idx.Universes[i].ID == e.ID {
			idx.Universes[i] = e
			replaced = true
			change = ChangeUpdated
			break
		}
	}
	if !replaced {
		idx.Universes = append(idx.Universes, e)
	}
	sort.SliceStable(idx.Universes, func(i, j int) bool {
		return idx.Universes[i].ID < idx.Universes[j].ID
	})
	return change
}

// Get returns the entry with the given ID.
func (idx *Index) Get(id string) (Entry, bool) {
	for _, e := range idx.Universes {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Load reads an index. A missing file yields an empty index; an unreadable
// one is logged and also yields an empty index. Duplicate IDs collapse to
// their last entry.
func Load(fs afero.Fs, indexPath string, log universe.Logger) *Index {
	if log == nil {
		log = universe.NopLogger{}
	}
	idx := &Index{Universes: []Entry{}}
	if err := utils.ReadJSON(fs, indexPath, idx); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warnf("Failed to read existing index, creating new one: %v", err)
		}
		return &Index{Universes: []Entry{}}
	}
	entries := idx.Universes
	idx.Universes = []Entry{}
	for _, e := range entries {
		if change := idx.Upsert(e); change == ChangeUpdated {
			log.Warnf("Duplicate universe %s in %s, keeping the last entry", e.ID, indexPath)
		}
	}
	return idx
}

func Save(fs afero.Fs, indexPath string, idx *Index) error {
	return utils.WriteJSON(fs, indexPath, idx)
}

// DataPath is the public path of an imported universe's data.json.
func DataPath(id string) string {
	return path.Join("/data", id, "data.json")
}

// Update upserts an entry for every <dataDir>/<id>/data.json into the index
// at indexPath and saves it. The name comes from the file's universeName,
// falling back to the directory name.
func Update(fs afero.Fs, dataDir, indexPath string, log universe.Logger) (*Index, []Change, error) {
	if log == nil {
		log = universe.NopLogger{}
	}
	if ok, _ := afero.DirExists(fs, dataDir); !ok {
		return nil, nil, fmt.Errorf("data directory not found: %s", dataDir)
	}

	idx := Load(fs, indexPath, log)
	ids, err := utils.SubDirs(fs, dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", dataDir, err)
	}

	var changes []Change
	for _, id := range ids {
		dataPath := filepath.Join(dataDir, id, "data.json")
		raw, err := afero.ReadFile(fs, dataPath)
		if err != nil {
			log.Warnf("Skipping %s: data.json not found", id)
			continue
		}
		name := id
		if !gjson.ValidBytes(raw) {
			log.Warnf("Failed to read %s data, using ID as name", id)
		} else if n := gjson.GetBytes(raw, "universeName").String(); n != "" {
			name = n
		}
		change := idx.Upsert(Entry{ID: id, Name: name, Path: DataPath(id)})
		log.Debugf("%s: %s", change, id)
		changes = append(changes, Change{ID: id, Type: change})
	}

	if err := Save(fs, indexPath, idx); err != nil {
		return nil, nil, err
	}
	return idx, changes, nil
}

// ExportsIndex is the flat {universes: [ids]} listing of an exports
// directory.
type ExportsIndex struct {
	Universes []string `json:"universes"`
}

// WriteExportsIndex lists every *.json file in exportsDir except index.json
// itself and writes the listing to exportsDir/index.json.
func WriteExportsIndex(fs afero.Fs, exportsDir string) (*ExportsIndex, error) {
	entries, err := afero.ReadDir(fs, exportsDir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", exportsDir, err)
	}
	idx := &ExportsIndex{Universes: []string{}}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || name == "index.json" {
			continue
		}
		idx.Universes = append(idx.Universes, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(idx.Universes)
	if err := utils.WriteJSON(fs, filepath.Join(exportsDir, "index.json"), idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// WriteBundleIndex lists every <outputRoot>/<universe>/data/bundle.json and
// writes the listing to <outputRoot>/universes.json. Names come from the
// bundle's meta.displayName.
func WriteBundleIndex(fs afero.Fs, outputRoot string) (*Index, error) {
	dirs, err := utils.SubDirs(fs, outputRoot)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", outputRoot, err)
	}
	idx := &Index{Universes: []Entry{}}
	for _, id := range dirs {
		raw, err := afero.ReadFile(fs, filepath.Join(outputRoot, id, "data", "bundle.json"))
		if err != nil {
			continue
		}
		name := gjson.GetBytes(raw, "meta.displayName").String()
		if name == "" {
			name = id
		}
		idx.Upsert(Entry{ID: id, Name: name, Path: path.Join("/", id, "data", "bundle.json")})
	}
	if err := Save(fs, filepath.Join(outputRoot, "universes.json"), idx); err != nil {
		return nil, err
	}
	return idx, nil
}
