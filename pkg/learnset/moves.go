package learnset

import "regexp"

var moveVariantSuffix = regexp.MustCompile(`_\d+$`)

// NormalizeMoveSlug strips a trailing "_<digits>" variant suffix, e.g.
// "scratch_2" becomes "scratch".
func NormalizeMoveSlug(slug string) string {
	return moveVariantSuffix.ReplaceAllString(slug, "")
}

// MoveIndex looks moves up by their own slug or by normalized slug.
type MoveIndex[T any] struct {
	bySlug map[string]T
}

// NewMoveIndex indexes items by slug. A normalized alias never shadows a
// move whose own slug is identical.
func NewMoveIndex[T any](items []T, slug func(T) string) *MoveIndex[T] {
	idx := &MoveIndex[T]{bySlug: make(map[string]T, len(items))}
	for _, item := range items {
		idx.bySlug[slug(item)] = item
	}
	for _, item := range items {
		normalized := NormalizeMoveSlug(slug(item))
		if _, exists := idx.bySlug[normalized]; !exists {
			idx.bySlug[normalized] = item
		}
	}
	return idx
}

// Lookup finds a move by exact slug, then by normalized slug.
func (idx *MoveIndex[T]) Lookup(slug string) (T, bool) {
	if item, ok := idx.bySlug[slug]; ok {
		return item, true
	}
	item, ok := idx.bySlug[NormalizeMoveSlug(slug)]
	return item, ok
}

// Len returns the number of indexed keys, aliases included.
func (idx *MoveIndex[T]) Len() int {
	return len(idx.bySlug)
}
