package cli

import (
	"context"
	"errors"
	"io/fs"

	"github.com/yaklabco/readpat/internal/configloader"
	"github.com/yaklabco/readpat/pkg/optree"
	"github.com/yaklabco/readpat/pkg/pattern"
)

// Exit codes for readpat.
const (
	// ExitSuccess indicates every input was read.
	ExitSuccess = 0

	// ExitInputFailed indicates at least one input failed to match.
	ExitInputFailed = 1

	// ExitInterrupted indicates the run was cancelled.
	ExitInterrupted = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitDataError indicates an invalid pattern or configuration.
	ExitDataError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeForError maps an error returned by a command to an exit code.
func ExitCodeForError(err error) int {
	var (
		syntaxErr     *pattern.SyntaxError
		treeErr       *optree.ValidationError
		validationErr *configloader.ValidationError
		pathErr       *fs.PathError
	)

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrInputsFailed):
		return ExitInputFailed
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrInvalidPatterns),
		errors.As(err, &syntaxErr),
		errors.As(err, &treeErr),
		errors.As(err, &validationErr):
		return ExitDataError
	case errors.As(err, &pathErr):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
