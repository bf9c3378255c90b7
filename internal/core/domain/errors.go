package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrClosed indicates the service has been shut down.
	ErrClosed = errors.New("closed")

	// Completion Errors.

	// ErrParse indicates a malformed keyword boundary definition.
	// It is surfaced to whoever initialised the buffer and never replaced
	// by an empty matcher.
	ErrParse = errors.New("invalid keyword definition")

	// ErrMissingContext indicates a required RPC argument was absent or of the wrong type.
	ErrMissingContext = errors.New("missing context")

	// ErrSourceFailure indicates a single completion source failed.
	// It contributes zero entries to the cycle and is never propagated further.
	ErrSourceFailure = errors.New("source failure")

	// ErrIOFailure indicates a source could not read from the filesystem.
	ErrIOFailure = errors.New("io failure")
)
