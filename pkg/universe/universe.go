// Package universe defines the contract between the build pipeline and the
// per-universe record builders.
package universe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ibelion/omniwiki/pkg/csvparse"
	"github.com/ibelion/omniwiki/pkg/learnset"
	"github.com/spf13/afero"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// NopLogger silently discards all messages.
type NopLogger struct{}

func (NopLogger) Infof(string, ...interface{})  {}
func (NopLogger) Warnf(string, ...interface{})  {}
func (NopLogger) Errorf(string, ...interface{}) {}
func (NopLogger) Debugf(string, ...interface{}) {}

// Builder turns one universe's source tables into a bundle.
type Builder interface {
	// Name is the universe identifier, also its source and output directory name.
	Name() string
	DisplayName() string
	// Tables lists the source table names the builder reads, without extension.
	Tables() []string
	Build(ctx context.Context, src *Source, log Logger) (*Output, error)
}

// Table is one output table. Tables with an empty File only contribute to
// the bundle counts.
type Table struct {
	Name    string
	File    string
	Records any
	Count   int
}

// Output is a universe's complete build result. It is not modified after
// Build returns.
type Output struct {
	Universe string
	Meta     Meta
	Tables   []Table
	// Bundle is written as bundle.json.
	Bundle any
	// Extra files written next to the tables, keyed by file name.
	Extra map[string]any
	// Learnsets holds raw per-creature learnsets for universes that have them.
	Learnsets map[string][]learnset.Entry
	Warnings  int
}

// Counts returns the record count per table.
func (o *Output) Counts() map[string]int {
	counts := make(map[string]int, len(o.Tables))
	for _, t := range o.Tables {
		counts[t.Name] = t.Count
	}
	return counts
}

// Meta is stamped on every bundle.
type Meta struct {
	Universe    string         `json:"universe"`
	DisplayName string         `json:"displayName"`
	BuildID     string         `json:"buildId"`
	GeneratedAt string         `json:"generatedAt"`
	Counts      map[string]int `json:"counts"`
}

// Source reads one universe's CSV tables from a directory.
type Source struct {
	Fs       afero.Fs
	Dir      string
	Universe string
}

// NewSource returns a Source rooted at dir.
func NewSource(fs afero.Fs, dir, universe string) *Source {
	return &Source{Fs: fs, Dir: dir, Universe: universe}
}

// Path returns the path a table is read from. A gzip-compressed
// "<table>.csv.gz" is used when the plain file is absent.
func (s *Source) Path(table string) string {
	plain := filepath.Join(s.Dir, table+".csv")
	if ok, _ := afero.Exists(s.Fs, plain); ok {
		return plain
	}
	gz := plain + ".gz"
	if ok, _ := afero.Exists(s.Fs, gz); ok {
		return gz
	}
	return plain
}

// Rows parses a table. A missing file yields a *MissingSourceFileError.
func (s *Source) Rows(table string) ([]csvparse.Row, error) {
	p := s.Path(table)
	data, err := afero.ReadFile(s.Fs, p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingSourceFileError{Universe: s.Universe, Path: p}
		}
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	rows, err := csvparse.ParseBytes(data)
	if err != nil {
		return nil, &ValidationError{Universe: s.Universe, File: filepath.Base(p), Reason: err.Error()}
	}
	return rows, nil
}

// Missing lists the given tables that have no source file.
func (s *Source) Missing(tables []string) []string {
	var missing []string
	for _, t := range tables {
		if ok, _ := afero.Exists(s.Fs, s.Path(t)); !ok {
			missing = append(missing, t)
		}
	}
	return missing
}

type buildIDKey struct{}

// WithBuildID attaches a build run id to ctx so every universe built in one
// run carries the same id.
func WithBuildID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, buildIDKey{}, id)
}

// BuildID returns the run id attached to ctx, or a fresh one.
func BuildID(ctx context.Context) string {
	if id, ok := ctx.Value(buildIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// NewMeta stamps bundle metadata for b.
func NewMeta(ctx context.Context, b Builder, tables []Table) Meta {
	counts := make(map[string]int, len(tables))
	for _, t := range tables {
		counts[t.Name] = t.Count
	}
	return Meta{
		Universe:    b.Name(),
		DisplayName: b.DisplayName(),
		BuildID:     BuildID(ctx),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Counts:      counts,
	}
}

// Select picks builders by name, in the order given. No names selects all.
func Select(all []Builder, names []string) ([]Builder, error) {
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]Builder, len(all))
	for _, b := range all {
		byName[b.Name()] = b
	}
	var selected []Builder
	for _, n := range names {
		b, ok := byName[strings.ToLower(n)]
		if !ok {
			known := make([]string, 0, len(byName))
			for k := range byName {
				known = append(known, k)
			}
			sort.Strings(known)
			return nil, fmt.Errorf("unknown universe %q (available: %s)", n, strings.Join(known, ", "))
		}
		selected = append(selected, b)
	}
	return selected, nil
}
