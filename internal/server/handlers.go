package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ibelion/omniwiki/pkg/bundleindex"
	"github.com/ibelion/omniwiki/pkg/datastore"
	"github.com/ibelion/omniwiki/pkg/learnset"
	"github.com/ibelion/omniwiki/pkg/typechart"
	"github.com/ibelion/omniwiki/pkg/universe/pokemon"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleUniverses(w http.ResponseWriter, r *http.Request) {
	idx := &bundleindex.Index{Universes: []bundleindex.Entry{}}
	for _, st := range s.Stores {
		meta, err := st.Meta()
		if err != nil {
			continue
		}
		name := meta.DisplayName
		if name == "" {
			name = meta.Universe
		}
		idx.Upsert(bundleindex.Entry{ID: meta.Universe, Name: name, Path: st.Source()})
	}
	writeJSON(w, http.StatusOK, idx)
}

// pokemonBundle returns the first loaded Pokémon bundle.
func (s *Server) pokemonBundle() (*pokemon.Bundle, error) {
	for _, st := range s.Stores {
		if b, err := st.Pokemon(); err == nil {
			return b, nil
		}
	}
	return nil, datastore.ErrNotLoaded
}

func (s *Server) lookupPokemon(w http.ResponseWriter, r *http.Request) (*pokemon.Bundle, pokemon.Pokemon, bool) {
	b, err := s.pokemonBundle()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return nil, pokemon.Pokemon{}, false
	}
	slug := strings.ToLower(r.PathValue("slug"))
	for _, p := range b.Pokemon {
		if p.Slug == slug {
			return b, p, true
		}
	}
	http.Error(w, "pokemon not found: "+slug, http.StatusNotFound)
	return nil, pokemon.Pokemon{}, false
}

func (s *Server) handlePokemon(w http.ResponseWriter, r *http.Request) {
	_, p, ok := s.lookupPokemon(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type LearnsetResponse struct {
	Slug        string                     `json:"slug"`
	Generations []learnset.GenerationGroup `json:"generations"`
	Moves       []learnset.MoveLearnset    `json:"moves,omitempty"`
}

func (s *Server) handleLearnset(w http.ResponseWriter, r *http.Request) {
	b, p, ok := s.lookupPokemon(w, r)
	if !ok {
		return
	}
	entries := b.Learnsets[p.Slug]
	if gen := r.URL.Query().Get("generation"); gen != "" {
		want := learnset.CanonicalGeneration(gen)
		var filtered []learnset.Entry
		for _, e := range entries {
			if learnset.CanonicalGeneration(e.Generation) == want {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	resp := LearnsetResponse{Slug: p.Slug, Generations: learnset.Aggregate(entries)}
	if r.URL.Query().Get("view") == "moves" {
		resp.Moves = learnset.AggregateMoves(entries)
	}
	writeJSON(w, http.StatusOK, resp)
}

type DefenseResponse struct {
	Slug    string                   `json:"slug"`
	Types   []string                 `json:"types"`
	Profile typechart.DefenseProfile `json:"profile"`
}

func (s *Server) handleDefense(w http.ResponseWriter, r *http.Request) {
	b, p, ok := s.lookupPokemon(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, DefenseResponse{
		Slug:    p.Slug,
		Types:   p.Types,
		Profile: pokemon.Chart(b.Types).DefenseProfile(p.Types),
	})
}

func (s *Server) handleTypeChart(w http.ResponseWriter, r *http.Request) {
	b, err := s.pokemonBundle()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, pokemon.Chart(b.Types).Matrix())
}

type ReloadResponse struct {
	Reloaded int      `json:"reloaded"`
	Errors   []string `json:"errors,omitempty"`
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	var resp ReloadResponse
	for _, st := range s.Stores {
		if err := st.Reload(r.Context()); err != nil {
			resp.Errors = append(resp.Errors, err.Error())
			continue
		}
		resp.Reloaded++
	}
	status := http.StatusOK
	if len(resp.Errors) > 0 {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, resp)
}
