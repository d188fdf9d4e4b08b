package interp

import (
	"fmt"
	"strings"

	"github.com/yaklabco/readpat/pkg/optree"
	"github.com/yaklabco/readpat/pkg/pattern"
)

const (
	maxFragmentLen    = 50
	fragmentTruncated = "<...>"
)

// ExecError tags an execution error with where it happened.
type ExecError struct {
	Err error

	// Offset is the stream position, in characters, where the failing
	// operation started. For block errors it is the position when the
	// block gave up.
	Offset int

	// Node is the operation that failed.
	Node optree.Node
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// DetailedError is an execution error enriched with the failing part of the
// pattern.
type DetailedError struct {
	Err error

	// Fragment is the rendered pattern text of the failing operation. Empty
	// when the operation could not be rendered.
	Fragment string

	// PatternPos is where the operation starts in the pattern. The zero value
	// means unknown.
	PatternPos pattern.Position

	// Offset is the stream position where the failing operation started.
	Offset int
}

// Error implements the error interface.
func (e *DetailedError) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Err.Error())
	if e.Fragment != "" {
		fmt.Fprintf(&msg, " in operation %q", e.Fragment)
	}
	if e.PatternPos.IsValid() {
		fmt.Fprintf(&msg, " at pattern line %d, column %d", e.PatternPos.Line, e.PatternPos.Column)
	}
	fmt.Fprintf(&msg, " (text offset %d)", e.Offset)
	return msg.String()
}

// Unwrap returns the underlying error.
func (e *DetailedError) Unwrap() error {
	return e.Err
}

// detail builds a DetailedError for execErr from the program's registry and
// renderer. Missing pieces are left empty.
func detail(prog *pattern.Program, execErr *ExecError) *DetailedError {
	detailed := &DetailedError{Err: execErr.Err, Offset: execErr.Offset}
	if execErr.Node == nil {
		return detailed
	}

	if fragment, err := prog.Render(execErr.Node); err == nil {
		detailed.Fragment = truncateFragment(fragment)
	}
	if pos, ok := prog.Positions.Lookup(execErr.Node); ok {
		detailed.PatternPos = pos
	}
	return detailed
}

func truncateFragment(fragment string) string {
	runes := []rune(fragment)
	if len(runes) <= maxFragmentLen {
		return fragment
	}
	return string(runes[:maxFragmentLen]) + fragmentTruncated
}
