// Package domain defines the core entities for quill.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Entry: A candidate completion and its relevance Score
//   - MatchContext: What a source is asked to complete
//   - LineRange: The keyword span around a cursor
//   - CompletionSettings: Tunables for the completion orchestrator
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
