package configloader

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/yaklabco/readpat/pkg/config"
	"github.com/yaklabco/readpat/pkg/interp"
	"github.com/yaklabco/readpat/pkg/pattern"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "patterns.kv").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownFormats lists valid output format values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[config.OutputFormat]bool{
	config.FormatText: true,
	config.FormatRaw:  true,
	config.FormatJSON: true,
}

// knownLogLevels lists valid log level values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// knownColorModes lists valid color values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownColorModes = map[string]bool{
	"auto":   true,
	"always": true,
	"never":  true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	return validate(cfg, true)
}

// validate checks cfg. Named patterns are compiled only with checkPatterns.
func validate(cfg *config.Config, checkPatterns bool) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	if cfg.Comparison != "" && !cfg.Comparison.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "comparison",
			Value:   cfg.Comparison,
			Message: fmt.Sprintf("invalid comparison %q; must be one of: ordinal, culture", cfg.Comparison),
		})
	}

	validateCulture(cfg, result)

	if cfg.Format != "" && !knownFormats[cfg.Format] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, raw, json", cfg.Format),
		})
	}

	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	if cfg.LogLevel != "" && !knownLogLevels[cfg.LogLevel] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: fmt.Sprintf("invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel),
		})
	}

	if cfg.Color != "" && !knownColorModes[cfg.Color] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "color",
			Value:   cfg.Color,
			Message: fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color),
		})
	}

	validateErrors(cfg, result)
	if checkPatterns {
		validatePatterns(cfg, result)
	}
	validateIgnorePatterns(cfg, result)

	return result
}

// validateCulture checks that the culture is a well-formed language tag.
func validateCulture(cfg *config.Config, result *ValidationResult) {
	if cfg.Culture == "" {
		return
	}

	if _, err := language.Parse(cfg.Culture); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "culture",
			Value:   cfg.Culture,
			Message: fmt.Sprintf("invalid language tag: %v", err),
		})
		return
	}

	if cfg.Comparison == config.ComparisonOrdinal && cfg.Culture != "und" {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "culture",
			Value:   cfg.Culture,
			Message: "culture has no effect with ordinal comparison",
		})
	}
}

// validateErrors checks every entry of the errors map.
func validateErrors(cfg *config.Config, result *ValidationResult) {
	for _, kind := range sortedKeys(cfg.Errors) {
		action := cfg.Errors[kind]
		if _, err := interp.ParseErrorKind(kind); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "errors." + kind,
				Value:   kind,
				Message: "unknown error kind; must be one of: end-of-stream, infinite-loop, closed, other",
			})
			continue
		}
		if _, err := interp.ParseAction(action); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "errors." + kind,
				Value:   action,
				Message: fmt.Sprintf("invalid action %q; must be one of: propagate, suppress, wrap", action),
			})
		}
	}
}

// validatePatterns compiles every named pattern.
func validatePatterns(cfg *config.Config, result *ValidationResult) {
	for _, name := range sortedKeys(cfg.Patterns) {
		source := cfg.Patterns[name]
		if _, err := pattern.Compile(source, pattern.Options{}); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "patterns." + name,
				Value:   source,
				Message: err.Error(),
			})
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, glob := range cfg.Ignore {
		// filepath.Match returns an error only for malformed patterns
		_, err := filepath.Match(glob, "")
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   glob,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// sortedKeys returns the keys of m in order, so findings are stable.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	return validateWithFile(cfg, filePath, true)
}

func validateWithFile(cfg *config.Config, filePath string, checkPatterns bool) *ValidationResult {
	result := validate(cfg, checkPatterns)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return knownFormats[f]
}
