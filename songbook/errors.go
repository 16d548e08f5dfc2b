package songbook

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownStyle     = errors.New("unknown style")
	ErrUnrenderable     = errors.New("unrenderable block")
	ErrNumeralRange     = errors.New("numeral out of range")
	ErrMissingAsset     = errors.New("missing asset")
	ErrTOCUnresolved    = errors.New("table of contents not resolved")
	ErrEmptyDocument    = errors.New("document has no songs")
	ErrInvalidRomanForm = errors.New("invalid roman numeral")
)

// UnknownStyleError is returned when a style name is not registered.
type UnknownStyleError struct {
	Name string
}

func (e *UnknownStyleError) Error() string {
	return fmt.Sprintf("unknown style %q", e.Name)
}

func (e *UnknownStyleError) Unwrap() error {
	return ErrUnknownStyle
}

// UnrenderableBlockError is returned when a block has no usable style.
type UnrenderableBlockError struct {
	Kind  BlockKind
	Index int
	Err   error
}

func (e *UnrenderableBlockError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("block %d (%s) cannot be rendered: %v", e.Index, e.Kind, e.Err)
	}
	return fmt.Sprintf("block %d (%s) cannot be rendered", e.Index, e.Kind)
}

func (e *UnrenderableBlockError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUnrenderable, e.Err}
	}
	return []error{ErrUnrenderable}
}

// NumeralRangeError is returned for numbers without a roman form.
type NumeralRangeError struct {
	Value int
}

func (e *NumeralRangeError) Error() string {
	return fmt.Sprintf("%d is outside the roman numeral range [1, 3999]", e.Value)
}

func (e *NumeralRangeError) Unwrap() error {
	return ErrNumeralRange
}

// MissingAssetError reports artwork that could not be loaded. It is
// recovered by substituting the placeholder image.
type MissingAssetError struct {
	Path string
	Err  error
}

func (e *MissingAssetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("asset %s unavailable: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("asset %s unavailable", e.Path)
}

func (e *MissingAssetError) Unwrap() error {
	return ErrMissingAsset
}
