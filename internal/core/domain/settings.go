package domain

import "time"

const unknownDescription = "Unknown"

// Completion defaults.
const (
	// DefaultMaxResults is K, the number of entries a cycle delivers at most.
	DefaultMaxResults = 5

	// DefaultRelayBuffer bounds the channel between sources and the collector.
	DefaultRelayBuffer = 64

	// DefaultSourceTimeout caps a single source invocation.
	DefaultSourceTimeout = 2 * time.Second
)

// SourceKind identifies a built-in completion source.
type SourceKind string

// Built-in source kinds.
const (
	// SourceBuffer completes words seen in open buffers.
	SourceBuffer SourceKind = "buffer"

	// SourceFilesystem completes paths relative to the working directory.
	SourceFilesystem SourceKind = "filesystem"

	// SourceStatic completes from a fixed word list.
	SourceStatic SourceKind = "static"

	// SourceCounter returns an incrementing counter. Useful for diagnostics.
	SourceCounter SourceKind = "counter"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceBuffer, SourceFilesystem, SourceStatic, SourceCounter:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the source.
func (k SourceKind) Description() string {
	switch k {
	case SourceBuffer:
		return "Buffer words (per-line word index)"
	case SourceFilesystem:
		return "Filesystem paths"
	case SourceStatic:
		return "Static word list"
	case SourceCounter:
		return "Counter (diagnostic)"
	default:
		return unknownDescription
	}
}

// AllSourceKinds returns all built-in source kinds.
func AllSourceKinds() []SourceKind {
	return []SourceKind{
		SourceBuffer,
		SourceFilesystem,
		SourceStatic,
		SourceCounter,
	}
}

// LogLevel is the minimum severity written to the log file.
type LogLevel string

// Available log levels.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// IsValid returns true if the log level is recognised.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (l LogLevel) String() string {
	return string(l)
}

// CompletionSettings tunes the completion orchestrator.
type CompletionSettings struct {
	// MaxResults is K: at most this many entries are delivered per cycle.
	MaxResults int

	// Debounce suppresses triggers arriving closer together than this.
	// Zero disables debouncing.
	Debounce time.Duration

	// RelayBuffer is the capacity of the bounded relay between source
	// invocations and the collector.
	RelayBuffer int

	// MaxConcurrentSources limits simultaneous source invocations in one
	// cycle. Zero means no limit.
	MaxConcurrentSources int

	// SourceTimeout caps a single source invocation. Zero means no timeout.
	SourceTimeout time.Duration
}

// DefaultCompletionSettings returns completion settings with sensible defaults.
// Debouncing is off by default.
func DefaultCompletionSettings() CompletionSettings {
	return CompletionSettings{
		MaxResults:    DefaultMaxResults,
		RelayBuffer:   DefaultRelayBuffer,
		SourceTimeout: DefaultSourceTimeout,
	}
}

// Validate returns ErrInvalidInput if any field is out of range.
func (c CompletionSettings) Validate() error {
	if c.MaxResults < 1 || c.RelayBuffer < 1 {
		return ErrInvalidInput
	}
	if c.Debounce < 0 || c.SourceTimeout < 0 || c.MaxConcurrentSources < 0 {
		return ErrInvalidInput
	}
	return nil
}

// Normalise replaces out-of-range fields with their defaults.
func (c CompletionSettings) Normalise() CompletionSettings {
	def := DefaultCompletionSettings()
	if c.MaxResults < 1 {
		c.MaxResults = def.MaxResults
	}
	if c.RelayBuffer < 1 {
		c.RelayBuffer = def.RelayBuffer
	}
	if c.Debounce < 0 {
		c.Debounce = 0
	}
	if c.SourceTimeout < 0 {
		c.SourceTimeout = def.SourceTimeout
	}
	if c.MaxConcurrentSources < 0 {
		c.MaxConcurrentSources = 0
	}
	return c
}

// SourceSettings selects and configures the built-in sources.
type SourceSettings struct {
	// Enabled lists the sources registered at startup, in registration order.
	Enabled []SourceKind

	// StaticWords feeds the static source.
	StaticWords []string

	// AllBuffers makes the buffer source match words from every indexed
	// buffer instead of only the current one.
	AllBuffers bool
}

// IsEnabled returns true if kind is in the enabled list.
func (s SourceSettings) IsEnabled(kind SourceKind) bool {
	for _, k := range s.Enabled {
		if k == kind {
			return true
		}
	}
	return false
}

// LogSettings holds logging configuration.
type LogSettings struct {
	// Path is the log file. Empty means the default under the user cache dir.
	Path string

	// Level is the minimum level written.
	Level LogLevel
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Completion holds orchestrator settings.
	Completion CompletionSettings

	// Sources holds source selection settings.
	Sources SourceSettings

	// Log holds logging settings.
	Log LogSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Completion: DefaultCompletionSettings(),
		Sources: SourceSettings{
			Enabled: []SourceKind{SourceBuffer, SourceFilesystem, SourceStatic},
		},
		Log: LogSettings{
			Level: LogLevelInfo,
		},
	}
}
