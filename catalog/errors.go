package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrValidation          = errors.New("invalid record")
)

// UnresolvedReferenceError reports a slug that names no loaded record.
type UnresolvedReferenceError struct {
	Source string
	Field  string
	Slug   string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s: %s %q does not name a record", e.Source, e.Field, e.Slug)
}

func (e *UnresolvedReferenceError) Unwrap() error {
	return ErrUnresolvedReference
}

// ValidationError reports a record file that could not be used, either
// because it does not parse or because mandatory attributes are missing.
type ValidationError struct {
	Path    string
	Kind    Kind
	Missing []string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: missing %s", e.Kind, e.Path, strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrValidation, e.Err}
	}
	return []error{ErrValidation}
}
