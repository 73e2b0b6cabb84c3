package universe

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSourceFile matches every *MissingSourceFileError.
	ErrMissingSourceFile = errors.New("missing source file")
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// MissingSourceFileError aborts one universe's build.
type MissingSourceFileError struct {
	Universe string
	Path     string
}

func (e *MissingSourceFileError) Error() string {
	return fmt.Sprintf("%s: source file not found: %s", e.Universe, e.Path)
}

func (e *MissingSourceFileError) Is(target error) bool {
	return target == ErrMissingSourceFile
}

// ValidationError reports a built record that breaks a contract, such as a
// duplicate or empty identity key.
type ValidationError struct {
	Universe string
	File     string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Universe, e.File, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
