// Package config defines the configuration types for readpat.
// These types are plain data; loading and merging live in internal/configloader.
package config

// Comparison names how literal boundary strings compare text.
type Comparison string

const (
	ComparisonOrdinal Comparison = "ordinal"
	ComparisonCulture Comparison = "culture"
)

// IsValid returns true if the comparison is known.
func (c Comparison) IsValid() bool {
	switch c {
	case ComparisonOrdinal, ComparisonCulture:
		return true
	default:
		return false
	}
}

// OutputFormat specifies how extracted strings are printed.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatRaw  OutputFormat = "raw"
	FormatJSON OutputFormat = "json"
)

// Error kinds and actions accepted in the errors map.
const (
	ErrorKindEndOfStream  = "end-of-stream"
	ErrorKindInfiniteLoop = "infinite-loop"
	ErrorKindClosed       = "closed"
	ErrorKindOther        = "other"

	ErrorActionPropagate = "propagate"
	ErrorActionSuppress  = "suppress"
	ErrorActionWrap      = "wrap"
)

// Config is the root configuration structure for readpat.
type Config struct {
	// Comparison is "ordinal" or "culture".
	Comparison Comparison `yaml:"comparison" toml:"comparison"`

	// Culture is the BCP 47 language tag used by culture comparison.
	Culture string `yaml:"culture" toml:"culture"`

	// Errors maps error kinds to actions.
	Errors map[string]string `yaml:"errors" toml:"errors"`

	// Ignore contains glob patterns for inputs to skip when walking
	// directories.
	Ignore []string `yaml:"ignore" toml:"ignore"`

	// Extensions limits directory walks to files with these extensions.
	// Empty means every regular file.
	Extensions []string `yaml:"extensions" toml:"extensions"`

	// Patterns holds named patterns, selected with --name.
	Patterns map[string]string `yaml:"patterns" toml:"patterns"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-" toml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-" toml:"-"`

	// Color is auto, always or never.
	Color string `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Comparison: ComparisonOrdinal,
		Culture:    "und",
		Errors: map[string]string{
			ErrorKindEndOfStream: ErrorActionWrap,
		},
		Patterns: make(map[string]string),
		LogLevel: "info",
		Format:   FormatText,
		Jobs:     0, // 0 means use NumCPU
		Color:    "auto",
	}
}
