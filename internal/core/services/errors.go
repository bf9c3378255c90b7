package services

import (
	"fmt"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// SourceError records a failure inside one source invocation.
// It matches both domain.ErrSourceFailure and the underlying cause.
type SourceError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("source %q: %v", e.Source, e.Err)
}

// Unwrap allows errors.Is against the sentinel and the cause.
func (e *SourceError) Unwrap() []error {
	return []error{domain.ErrSourceFailure, e.Err}
}
