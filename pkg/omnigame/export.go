package omnigame

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/ibelion/omniwiki/pkg/reconcile"
	"github.com/ibelion/omniwiki/pkg/universe"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

// SupportedUniverses lists the universes the game client knows about.
var SupportedUniverses = []string{
	"pokemon",
	"bleach",
	"lol",
	"halo",
	"cod",
	"mk",
	"hxh",
	"eldenring",
}

var displayNames = map[string]string{
	"pokemon":   "Pokemon",
	"bleach":    "Bleach",
	"lol":       "League of Legends",
	"halo":      "Halo",
	"cod":       "Call of Duty",
	"mk":        "Mortal Kombat",
	"hxh":       "Hunter x Hunter",
	"eldenring": "Elden Ring",
}

// DisplayName returns the human-readable name of a universe, or id itself.
func DisplayName(id string) string {
	if name, ok := displayNames[id]; ok {
		return name
	}
	return id
}

// SourceCharacter is one entry of a universe's characters.json.
type SourceCharacter struct {
	ID        string         `json:"id"`
	Key       string         `json:"key,omitempty"`
	Name      string         `json:"name"`
	Universe  string         `json:"universe"`
	Tags      []string       `json:"tags"`
	ImagePath string         `json:"imagePath,omitempty"`
	Metadata  map[string]any `json:"metadata"`
}

// SourceBundle is a universe's characters.json.
type SourceBundle struct {
	Universe   string            `json:"universe"`
	Characters []SourceCharacter `json:"characters"`
}

// Exporter writes <ExportDir>/<universe>.json in the export shape from
// <DataDir>/<universe>/characters.json.
type Exporter struct {
	Fs        afero.Fs
	DataDir   string
	ExportDir string
	// Universes restricts the export; empty means every supported universe
	// present under DataDir.
	Universes   []string
	Concurrency int
	Log         universe.Logger
	// Now stamps exportedAt; defaults to time.Now.
	Now func() time.Time
}

type ExportResult struct {
	Universe   string
	Characters int
	Images     int
	Err        error
}

type ExportSummary struct {
	Results []ExportResult
}

func (s *ExportSummary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// ExportAll exports every selected universe. A missing data directory or
// no supported universe is fatal; per-universe failures are recorded.
func (ex *Exporter) ExportAll(ctx context.Context) (*ExportSummary, error) {
	log := ex.Log
	if log == nil {
		log = universe.NopLogger{}
	}
	concurrency := ex.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	if ok, _ := afero.DirExists(ex.Fs, ex.DataDir); !ok {
		return nil, fmt.Errorf("data directory not found: %s", ex.DataDir)
	}
	ids, err := ex.universes()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoUniverses, ex.DataDir)
	}

	summary := &ExportSummary{}
	p := pool.New().WithMaxGoroutines(concurrency)
	var mu sync.Mutex
	for _, id := range ids {
		id := id // capture loop variable
		p.Go(func() {
			log.Infof("Exporting %s", id)
			res := ex.exportUniverse(ctx, id)
			if res.Err != nil {
				log.Errorf("Failed to export %s: %v", id, res.Err)
			}
			mu.Lock()
			summary.Results = append(summary.Results, res)
			mu.Unlock()
		})
	}
	p.Wait()

	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].Universe < summary.Results[j].Universe
	})
	return summary, nil
}

func (ex *Exporter) universes() ([]string, error) {
	if len(ex.Universes) > 0 {
		return ex.Universes, nil
	}
	dirs, err := utils.SubDirs(ex.Fs, ex.DataDir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", ex.DataDir, err)
	}
	supported := make(map[string]struct{}, len(SupportedUniverses))
	for _, u := range SupportedUniverses {
		supported[u] = struct{}{}
	}
	var ids []string
	for _, d := range dirs {
		if _, ok := supported[d]; ok {
			ids = append(ids, d)
		}
	}
	return ids, nil
}

func (ex *Exporter) exportUniverse(ctx context.Context, id string) ExportResult {
	res := ExportResult{Universe: id}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	var bundle SourceBundle
	if err := utils.ReadJSON(ex.Fs, filepath.Join(ex.DataDir, id, "characters.json"), &bundle); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			res.Err = fmt.Errorf("characters.json not found for universe: %s", id)
		} else {
			res.Err = err
		}
		return res
	}
	if bundle.Universe != id {
		res.Err = fmt.Errorf("universe mismatch: expected %s, got %s", id, bundle.Universe)
		return res
	}

	imagesDir := filepath.Join(ex.DataDir, id, "images")
	rec := ex.canonical(id, bundle, imagesDir)
	if err := reconcile.Validate(rec); err != nil {
		res.Err = err
		return res
	}

	now := time.Now
	if ex.Now != nil {
		now = ex.Now
	}
	shape := reconcile.ToExport(rec, DisplayName(id), now())
	if err := utils.WriteJSON(ex.Fs, filepath.Join(ex.ExportDir, id+".json"), shape); err != nil {
		res.Err = err
		return res
	}
	res.Characters = shape.CharacterCount

	if ok, _ := afero.DirExists(ex.Fs, imagesDir); ok {
		n, err := utils.CopyDir(ex.Fs, imagesDir, filepath.Join(ex.ExportDir, id, "images"))
		res.Images = n
		if err != nil {
			res.Err = err
		}
	}
	return res
}

// canonical maps a characters.json bundle to a canonical record, sorted by
// character id, resolving images that exist under imagesDir.
func (ex *Exporter) canonical(id string, bundle SourceBundle, imagesDir string) *reconcile.CanonicalRecord {
	chars := append([]SourceCharacter(nil), bundle.Characters...)
	sort.SliceStable(chars, func(i, j int) bool { return chars[i].ID < chars[j].ID })

	rec := &reconcile.CanonicalRecord{
		UniverseID:   id,
		UniverseName: DisplayName(id),
		Characters:   make([]reconcile.Character, 0, len(chars)),
	}
	for _, c := range chars {
		key := c.Key
		if key == "" {
			key = c.ID
		}
		rec.Characters = append(rec.Characters, reconcile.Character{
			ID:         c.ID,
			Key:        key,
			Name:       c.Name,
			UniverseID: id,
			Tags:       c.Tags,
			Metadata:   c.Metadata,
			Images:     ex.resolveImages(imagesDir, c),
		})
	}
	return rec
}

// resolveImages finds a character's portrait and full images. A standard
// full.png takes precedence over the character's own imagePath.
func (ex *Exporter) resolveImages(imagesDir string, c SourceCharacter) reconcile.Images {
	var img reconcile.Images
	exists := func(p string) bool {
		ok, _ := afero.Exists(ex.Fs, filepath.Join(imagesDir, filepath.FromSlash(p)))
		return ok
	}
	if c.ImagePath != "" && exists(c.ImagePath) {
		img.Full = path.Join(c.ID, c.ImagePath)
	}
	if p := path.Join(c.ID, "portrait.png"); exists(p) {
		img.Portrait = p
	}
	if p := path.Join(c.ID, "full.png"); exists(p) {
		img.Full = p
	}
	return img
}
