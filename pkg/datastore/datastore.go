// Package datastore holds a built universe bundle in memory for read-only
// consumers. Loading is explicit; Reload swaps the bundle atomically.
package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/ibelion/omniwiki/pkg/universe"
	"github.com/ibelion/omniwiki/pkg/universe/pokemon"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

var (
	// ErrNotLoaded is returned by accessors before the first successful Load.
	ErrNotLoaded = errors.New("bundle not loaded")
	// ErrWrongUniverse is returned by a typed accessor when the loaded bundle
	// belongs to another universe.
	ErrWrongUniverse = errors.New("bundle belongs to another universe")
)

type Option func(*Store)

// WithFs sets the filesystem used for path sources. Defaults to the OS.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) { s.fs = fs }
}

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *retryablehttp.Client) Option {
	return func(s *Store) { s.client = c }
}

func WithLogger(l universe.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Store is safe for concurrent use.
type Store struct {
	source string
	fs     afero.Fs
	client *retryablehttp.Client
	log    universe.Logger

	mu       sync.RWMutex
	raw      []byte
	universe string
	meta     universe.Meta
	pokemon  *pokemon.Bundle
	loadedAt time.Time
}

// New returns a Store reading source, a filesystem path or an http(s) URL.
// Nothing is read until Load.
func New(source string, opts ...Option) *Store {
	s := &Store{source: source}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.log == nil {
		s.log = universe.NopLogger{}
	}
	if s.client == nil && isRemote(source) {
		s.client = retryablehttp.NewClient()
		s.client.Logger = log.New(io.Discard, "", 0)
		s.client.RetryMax = 3
	}
	return s
}

func (s *Store) Source() string {
	return s.source
}

// Load reads the bundle if it has not been loaded yet.
func (s *Store) Load(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.raw != nil
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Reload(ctx)
}

// Reload reads the bundle again and swaps it in. On error the previous
// bundle stays in place.
func (s *Store) Reload(ctx context.Context) error {
	raw, err := s.read(ctx)
	if err != nil {
		return err
	}
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("bundle %s: invalid JSON", s.source)
	}

	id := gjson.GetBytes(raw, "meta.universe").String()
	var meta universe.Meta
	if m := gjson.GetBytes(raw, "meta"); m.IsObject() {
		if err := json.Unmarshal([]byte(m.Raw), &meta); err != nil {
			return fmt.Errorf("bundle %s: decode meta: %w", s.source, err)
		}
	}

	var pb *pokemon.Bundle
	if id == pokemon.Universe {
		pb = &pokemon.Bundle{}
		if err := json.Unmarshal(raw, pb); err != nil {
			return fmt.Errorf("bundle %s: decode: %w", s.source, err)
		}
	}

	s.mu.Lock()
	s.raw = raw
	s.universe = id
	s.meta = meta
	s.pokemon = pb
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.log.Infof("Loaded %s bundle from %s (%d bytes)", id, s.source, len(raw))
	return nil
}

func (s *Store) read(ctx context.Context) ([]byte, error) {
	if !isRemote(s.source) {
		raw, err := afero.ReadFile(s.fs, s.source)
		if err != nil {
			return nil, fmt.Errorf("read bundle: %w", err)
		}
		return raw, nil
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bundle: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch bundle %s: status %d", s.source, resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch bundle: %w", err)
	}
	return raw, nil
}

// Raw returns the bundle bytes as loaded.
func (s *Store) Raw() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.raw == nil {
		return nil, ErrNotLoaded
	}
	return s.raw, nil
}

// Universe returns the loaded bundle's meta.universe.
func (s *Store) Universe() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.raw == nil {
		return "", ErrNotLoaded
	}
	return s.universe, nil
}

func (s *Store) Meta() (universe.Meta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.raw == nil {
		return universe.Meta{}, ErrNotLoaded
	}
	return s.meta, nil
}

// Pokemon returns the decoded Pokémon bundle. Callers must not modify it.
func (s *Store) Pokemon() (*pokemon.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.raw == nil {
		return nil, ErrNotLoaded
	}
	if s.pokemon == nil {
		return nil, fmt.Errorf("%w: %s", ErrWrongUniverse, s.universe)
	}
	return s.pokemon, nil
}

// LoadedAt reports when the current bundle was read; zero before Load.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
