package tui

import "errors"

// ErrMissingCompletionService is returned when the completion service is not provided.
var ErrMissingCompletionService = errors.New("tui: completion service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
