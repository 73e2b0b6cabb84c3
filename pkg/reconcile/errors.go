package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaMismatch matches every *SchemaMismatchError.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// SchemaMismatchError is returned when a document matches no known shape.
// Keys lists the document's top-level keys to help spot the mistake.
type SchemaMismatchError struct {
	Keys []string
}

func (e *SchemaMismatchError) Error() string {
	if len(e.Keys) == 0 {
		return "unknown metadata format: expected a universe object or universeId field"
	}
	return fmt.Sprintf("unknown metadata format: expected a universe object or universeId field (found keys: %s)", strings.Join(e.Keys, ", "))
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// ValidationError reports one field that breaks the canonical contract.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
