package reporter

import (
	"io"
	"os"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter receives input failures in the raw format (typically
	// os.Stderr).
	ErrorWriter io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// Pattern is the canonical pattern text, shown in JSON output and used
	// to point at the failing operation in text output.
	Pattern string

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// ShowHeaders prints a header per input in text output. Without it the
	// values of all inputs run together.
	ShowHeaders bool

	// Delimiter separates values in raw output. Defaults to "\n".
	Delimiter string

	// Compact uses minified JSON.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      FormatText,
		Color:       "auto",
		ShowSummary: true,
		ShowHeaders: true,
		Delimiter:   "\n",
	}
}
