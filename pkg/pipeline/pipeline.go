// Package pipeline builds every registered universe and writes its bundle.
package pipeline

import (
	"context"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/ibelion/omniwiki/internal/utils"
	"github.com/ibelion/omniwiki/pkg/learnset"
	"github.com/ibelion/omniwiki/pkg/universe"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

// LearnsetChunkPrefix is the public path a universe's split learnset chunks
// are served from.
func LearnsetChunkPrefix(universeName string) string {
	return path.Join("/exports", universeName, "learnsets")
}

// LearnsetChunkDir is where a universe's split learnset chunks are written.
func LearnsetChunkDir(outputRoot, universeName string) string {
	return filepath.Join(outputRoot, "exports", universeName, "learnsets")
}

// Config holds everything BuildAll needs.
type Config struct {
	Builders   []universe.Builder
	SourceFs   afero.Fs
	SourceRoot string // <SourceRoot>/<universe>/<table>.csv
	OutputFs   afero.Fs
	OutputRoot string // <OutputRoot>/<universe>/data/<table>.json
	// Concurrency defaults to 4 if <= 0.
	Concurrency int
	// SplitLearnsets writes per-generation learnset chunks for universes
	// that carry learnsets.
	SplitLearnsets bool
	Log            universe.Logger // optional; nil = no logging

	// OnUniverseDone is called per universe once its files are written or
	// its build failed (from worker goroutines). Nil = no callback.
	OnUniverseDone func(Result)
}

// Result holds the outcome of building a single universe.
type Result struct {
	Universe string
	Counts   map[string]int
	Files    []string
	Warnings int
	Err      error
}

// Summary collects every universe's result, sorted by universe name.
type Summary struct {
	RunID   string
	Results []Result
}

// Succeeded returns the universes that built and wrote cleanly.
func (s *Summary) Succeeded() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Err == nil {
			out = append(out, r)
		}
	}
	return out
}

func (s *Summary) Failed() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// BuildAll builds every configured universe concurrently. A failing universe
// never stops the others; its error is recorded in its Result.
func BuildAll(ctx context.Context, cfg Config) *Summary {
	log := cfg.Log
	if log == nil {
		log = universe.NopLogger{}
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	runID := uuid.NewString()
	ctx = universe.WithBuildID(ctx, runID)
	summary := &Summary{RunID: runID}

	p := pool.New().WithMaxGoroutines(concurrency)
	var mu sync.Mutex

	for _, b := range cfg.Builders {
		b := b // capture loop variable
		p.Go(func() {
			res := buildOne(ctx, cfg, b, log)
			mu.Lock()
			summary.Results = append(summary.Results, res)
			mu.Unlock()
			if cfg.OnUniverseDone != nil {
				cfg.OnUniverseDone(res)
			}
		})
	}
	p.Wait()

	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].Universe < summary.Results[j].Universe
	})
	return summary
}

func buildOne(ctx context.Context, cfg Config, b universe.Builder, log universe.Logger) Result {
	res := Result{Universe: b.Name()}

	src := universe.NewSource(cfg.SourceFs, filepath.Join(cfg.SourceRoot, b.Name()), b.Name())
	if missing := src.Missing(b.Tables()); len(missing) > 0 {
		log.Debugf("%s is missing %d source tables: %v", b.Name(), len(missing), missing)
	}

	log.Infof("Building %s", b.Name())
	out, err := b.Build(ctx, src, log)
	if err != nil {
		log.Errorf("Failed to build %s: %v", b.Name(), err)
		res.Err = err
		return res
	}
	res.Counts = out.Counts()
	res.Warnings = out.Warnings

	files, err := WriteOutput(cfg.OutputFs, cfg.OutputRoot, out)
	res.Files = files
	if err != nil {
		log.Errorf("Failed to write %s: %v", b.Name(), err)
		res.Err = err
		return res
	}

	if cfg.SplitLearnsets && len(out.Learnsets) > 0 {
		chunkFiles, err := WriteLearnsetChunks(cfg.OutputFs, LearnsetChunkDir(cfg.OutputRoot, out.Universe), out.Learnsets, LearnsetChunkPrefix(out.Universe))
		res.Files = append(res.Files, chunkFiles...)
		if err != nil {
			log.Errorf("Failed to split %s learnsets: %v", b.Name(), err)
			res.Err = err
			return res
		}
	}

	log.Infof("Built %s: %d files, %d warnings", b.Name(), len(res.Files), res.Warnings)
	return res
}

// WriteOutput writes a universe's tables, extra files and bundle under
// <root>/<universe>/data and returns the written paths.
func WriteOutput(fs afero.Fs, root string, out *universe.Output) ([]string, error) {
	dir := filepath.Join(root, out.Universe, "data")
	var written []string

	for _, t := range out.Tables {
		if t.File == "" {
			continue
		}
		p := filepath.Join(dir, t.File)
		if err := utils.WriteJSON(fs, p, t.Records); err != nil {
			return written, err
		}
		written = append(written, p)
	}

	extra := make([]string, 0, len(out.Extra))
	for name := range out.Extra {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	for _, name := range extra {
		p := filepath.Join(dir, name)
		if err := utils.WriteJSON(fs, p, out.Extra[name]); err != nil {
			return written, err
		}
		written = append(written, p)
	}

	p := filepath.Join(dir, "bundle.json")
	if err := utils.WriteJSON(fs, p, out.Bundle); err != nil {
		return written, err
	}
	return append(written, p), nil
}

// WriteLearnsetChunks writes one file per generation plus index.json under
// dir. Chunk paths in the index are rooted at publicPrefix.
func WriteLearnsetChunks(fs afero.Fs, dir string, learnsets map[string][]learnset.Entry, publicPrefix string) ([]string, error) {
	chunks, index := learnset.Split(learnsets, publicPrefix)
	var written []string
	for _, c := range index.Chunks {
		p := filepath.Join(dir, c.Gen+".json")
		if err := utils.WriteJSON(fs, p, chunks[c.Gen]); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	p := filepath.Join(dir, "index.json")
	if err := utils.WriteJSON(fs, p, index); err != nil {
		return written, err
	}
	return append(written, p), nil
}
