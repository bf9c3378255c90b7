// Package nvim is the editor host adapter. It serves the completion
// methods over Neovim's msgpack-rpc channel and shows results in the
// editor's completion popup.
package nvim

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// ErrMissingCompletionService is returned when the completion service is not provided.
var ErrMissingCompletionService = errors.New("nvim: completion service is required")

// ErrMissingMatchers is returned when the matcher registry is not provided.
var ErrMissingMatchers = errors.New("nvim: matcher registry is required")

// argError reports a missing or mistyped RPC argument.
func argError(method, name, reason string) error {
	return fmt.Errorf("%s: argument %q %s: %w", method, name, reason, domain.ErrMissingContext)
}
