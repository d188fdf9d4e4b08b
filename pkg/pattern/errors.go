package pattern

import (
	"errors"
	"fmt"
)

// Token errors.
var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrMissingToken    = errors.New("missing token")
	ErrUnexpectedEnd   = errors.New("unexpected end of pattern")
	ErrMissingScopeEnd = errors.New("missing end of scope")
	ErrEmptyPattern    = errors.New("pattern must not be empty")
)

// Number errors.
var (
	ErrMissingNumber  = errors.New("missing number")
	ErrNumberTooLarge = errors.New("number is too large")
	ErrZeroNumber     = errors.New("number must not be zero")
	ErrNegativeNumber = errors.New("number must not be negative")
	ErrPositiveNumber = errors.New("number must not be positive")
)

// Operation errors.
var (
	ErrEmptyBoundaryString = errors.New("boundary string must not be empty")
	ErrEmptySequence       = errors.New("boundary string sequence must not be empty")
	ErrEmptyBlock          = errors.New("operation block must not be empty")
	ErrUnrecognizedEscape  = errors.New("unrecognized escape sequence")
	ErrInvalidRegex        = errors.New("invalid regular expression")
	ErrInvalidParameter    = errors.New("invalid operation parameter")
)

// SyntaxError reports malformed pattern text.
type SyntaxError struct {
	// Err is one of the sentinel errors of this package.
	Err error

	// Pos is where the problem was detected.
	Pos Position

	// Detail names the offending token or adds context. May be empty.
	Detail string

	// Cause is an underlying error, e.g. from the regex compiler.
	Cause error
}

// NewSyntaxError returns a SyntaxError for err at pos.
func NewSyntaxError(err error, pos Position, detail string) *SyntaxError {
	return &SyntaxError{Err: err, Pos: pos, Detail: detail}
}

// Message returns the error text without the position.
func (e *SyntaxError) Message() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += " " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message(), e.Pos.Line, e.Pos.Column)
}

// Unwrap exposes both the sentinel and the cause to errors.Is and errors.As.
func (e *SyntaxError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// quoteToken renders a token for error messages.
func quoteToken(r rune) string {
	return fmt.Sprintf("%q", r)
}
