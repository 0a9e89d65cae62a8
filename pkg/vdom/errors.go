package vdom

import (
	"errors"
	"fmt"
)

// Category groups reconciler errors by where they originate.
type Category string

const (
	// CategoryContract covers producer contract violations: malformed
	// flag masks or missing companion data. Recovered by degrading to
	// the full diff.
	CategoryContract Category = "contract"

	// CategoryStructure covers disagreements between optimization data
	// and the live tree, such as misaligned block lists. Recovered by
	// degrading to the full diff for the affected subtree.
	CategoryStructure Category = "structure"

	// CategoryAsync covers async resource failures under suspense,
	// which route to the fallback branch rather than failing the walk.
	CategoryAsync Category = "async"
)

// Sentinel errors for errors.Is checks.
var (
	ErrInvalidFlagCombination = errors.New("vdom: special flag combined with positive bits")
	ErrAmbiguousShape         = errors.New("vdom: multiple primary-kind or layout bits set")
	ErrMissingDynamicProps    = errors.New("vdom: PROPS flag set without a dynamic-props list")
	ErrBlockMisaligned        = errors.New("vdom: block dynamic lists disagree with tree shape")
)

// Error is a structured reconciler error.
type Error struct {
	Category Category
	Message  string
	Wrapped  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return e.Wrapped.Error()
	}
	return fmt.Sprintf("%s: %s", e.Wrapped.Error(), e.Message)
}

// Unwrap returns the sentinel for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// contractViolation builds a producer contract violation error.
func contractViolation(sentinel error, format string, args ...any) error {
	return &Error{
		Category: CategoryContract,
		Message:  fmt.Sprintf(format, args...),
		Wrapped:  sentinel,
	}
}

// structureError builds a structural mismatch error.
func structureError(sentinel error, format string, args ...any) error {
	return &Error{
		Category: CategoryStructure,
		Message:  fmt.Sprintf(format, args...),
		Wrapped:  sentinel,
	}
}
