package keyword

import (
	"fmt"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// ParseError is returned when a boundary definition cannot be parsed.
type ParseError struct {
	Spec   string
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("keyword: %s in %q", e.Reason, e.Spec)
}

// Unwrap allows errors.Is(err, domain.ErrParse).
func (e *ParseError) Unwrap() error {
	return domain.ErrParse
}
