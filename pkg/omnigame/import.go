// Package omnigame moves universe character data between the game's export
// bundles and the wiki's canonical data directory.
package omnigame

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/ibelion/omniwiki/pkg/reconcile"
	"github.com/ibelion/omniwiki/pkg/universe"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

var (
	// ErrExportNotFound is returned when the export directory does not exist.
	ErrExportNotFound = errors.New("export directory not found")
	// ErrNoUniverses is returned when the export directory has no universe
	// subdirectories.
	ErrNoUniverses = errors.New("no universe directories found")
)

// Importer reads <ExportPath>/<universe>/metadata.json bundles.
type Importer struct {
	Fs         afero.Fs
	ExportPath string
	DataDir    string
	PublicDir  string
	// Concurrency defaults to 4 if <= 0.
	Concurrency int
	Log         universe.Logger // optional; nil = no logging
}

// ImportResult holds the outcome of importing a single universe.
type ImportResult struct {
	Universe   string
	Characters int
	Images     int
	Err        error
}

type ImportSummary struct {
	Results []ImportResult
}

func (s *ImportSummary) Successful() int {
	n := 0
	for _, r := range s.Results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

func (s *ImportSummary) Failed() int {
	return len(s.Results) - s.Successful()
}

func (s *ImportSummary) TotalCharacters() int {
	n := 0
	for _, r := range s.Results {
		n += r.Characters
	}
	return n
}

func (s *ImportSummary) TotalImages() int {
	n := 0
	for _, r := range s.Results {
		n += r.Images
	}
	return n
}

// ImportAll imports every universe directory under ExportPath. Only a
// missing or empty export directory is fatal; per-universe failures are
// recorded in the summary.
func (im *Importer) ImportAll(ctx context.Context) (*ImportSummary, error) {
	log := im.Log
	if log == nil {
		log = universe.NopLogger{}
	}
	concurrency := im.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	if ok, _ := afero.DirExists(im.Fs, im.ExportPath); !ok {
		return nil, fmt.Errorf("%w: %s", ErrExportNotFound, im.ExportPath)
	}
	dirs, err := utils.SubDirs(im.Fs, im.ExportPath)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", im.ExportPath, err)
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoUniverses, im.ExportPath)
	}

	summary := &ImportSummary{}
	p := pool.New().WithMaxGoroutines(concurrency)
	var mu sync.Mutex

	for _, dir := range dirs {
		dir := dir // capture loop variable
		p.Go(func() {
			log.Infof("Importing universe: %s", dir)
			res := im.importUniverse(ctx, dir)
			if res.Err != nil {
				log.Errorf("Failed to import %s: %v", dir, res.Err)
			} else {
				log.Infof("Imported %s: %d characters, %d images", dir, res.Characters, res.Images)
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

func (im *Importer) importUniverse(ctx context.Context, dir string) ImportResult {
	res := ImportResult{Universe: dir}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	metadataPath := filepath.Join(im.ExportPath, dir, "metadata.json")
	raw, err := afero.ReadFile(im.Fs, metadataPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			res.Err = fmt.Errorf("metadata file not found: %s", metadataPath)
		} else {
			res.Err = fmt.Errorf("read metadata: %w", err)
		}
		return res
	}

	rec, err := reconcile.Reconcile(raw, dir)
	if err != nil {
		res.Err = err
		return res
	}

	imagesPath := filepath.Join(im.ExportPath, dir, "images")
	if ok, _ := afero.DirExists(im.Fs, imagesPath); ok {
		n, err := utils.CopyDir(im.Fs, imagesPath, filepath.Join(im.PublicDir, "universes", dir, "images"))
		res.Images = n
		if err != nil {
			res.Err = err
			return res
		}
	}

	if err := utils.WriteJSON(im.Fs, filepath.Join(im.DataDir, dir, "data.json"), rec); err != nil {
		res.Err = err
		return res
	}
	res.Characters = len(rec.Characters)
	return res
}
