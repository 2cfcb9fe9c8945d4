package icalc

import "errors"

var (
	// ErrIllFormed reports a well-scopedness violation: a duplicate binder
	// introduction, a dangling occurrence, or non-affine use of a binder.
	// It indicates a generator or engine bug and is never expected from
	// correct code.
	ErrIllFormed = errors.New("ill-formed term")

	// ErrInvalidRedex reports a stale position passed to the engine after a
	// prior rewrite elsewhere moved things. Callers recover by re-scanning.
	ErrInvalidRedex = errors.New("invalid redex")

	// ErrSizeExhausted reports that the generator could not honor its size
	// budget. Callers recover by retrying with a larger budget.
	ErrSizeExhausted = errors.New("size budget exhausted")
)
