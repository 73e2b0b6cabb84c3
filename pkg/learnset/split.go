package learnset

import (
	"path"
	"slices"
)

// Chunk references one per-generation learnset file.
type Chunk struct {
	Gen  string `json:"gen"`
	Path string `json:"path"`
}

// UnknownChunk names the chunk holding entries with no generation.
const UnknownChunk = "unknown"

// SplitIndex lists the chunk files of a split learnset export.
type SplitIndex struct {
	Chunks []Chunk `json:"chunks"`
}

// Split partitions creature learnsets by canonical generation, so alias
// spellings of one generation share a chunk and entries without a generation
// land in UnknownChunk. Entries keep their order within each creature. Chunk
// paths are pathPrefix/<gen>.json and the index lists generations canonically.
func Split(learnsets map[string][]Entry, pathPrefix string) (map[string]map[string][]Entry, SplitIndex) {
	chunks := make(map[string]map[string][]Entry)
	for slug, entries := range learnsets {
		for _, e := range entries {
			gen := CanonicalGeneration(e.Generation)
			if gen == "" {
				gen = UnknownChunk
			}
			if chunks[gen] == nil {
				chunks[gen] = make(map[string][]Entry)
			}
			chunks[gen][slug] = append(chunks[gen][slug], e)
		}
	}

	gens := make([]string, 0, len(chunks))
	for g := range chunks {
		gens = append(gens, g)
	}
	slices.SortFunc(gens, CompareGenerations)

	index := SplitIndex{Chunks: make([]Chunk, 0, len(gens))}
	for _, g := range gens {
		index.Chunks = append(index.Chunks, Chunk{Gen: g, Path: path.Join(pathPrefix, g+".json")})
	}
	return chunks, index
}
