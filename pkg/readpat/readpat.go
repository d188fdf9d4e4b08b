// Package readpat extracts text with read patterns.
//
// A pattern is a sequence of read (R) and skip (S) operations. New compiles
// one, and the returned Reader runs it against any number of inputs:
//
//	r, err := readpat.New(`S|'=' {&R} R>`)
//	if err != nil {
//		return err
//	}
//	values, err := r.ReadString(ctx, "key=value")
package readpat

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/text/language"

	"github.com/yaklabco/readpat/pkg/boundary"
	"github.com/yaklabco/readpat/pkg/interp"
	"github.com/yaklabco/readpat/pkg/pattern"
	"github.com/yaklabco/readpat/pkg/stream"
)

// ErrClosed is returned by Read and ReadString after Close.
var ErrClosed = errors.New("reader is closed")

// Option configures New.
type Option func(*options)

type options struct {
	compile pattern.Options
	exec    interp.Options
}

// WithComparison sets how literal boundary strings compare text.
func WithComparison(c boundary.Comparison) Option {
	return func(o *options) {
		o.compile.Boundary.Comparison = c
	}
}

// WithCulture sets the language used by culture-sensitive comparison.
func WithCulture(tag language.Tag) Option {
	return func(o *options) {
		o.compile.Boundary.Language = tag
	}
}

// WithPolicy sets what happens to execution errors.
func WithPolicy(p interp.Policy) Option {
	return func(o *options) {
		o.exec.Policy = p
	}
}

// WithOperationParsers adds custom operations to the language.
func WithOperationParsers(parsers ...pattern.OperationParser) Option {
	return func(o *options) {
		o.compile.OperationParsers = append(o.compile.OperationParsers, parsers...)
	}
}

// WithRenderers adds renderers for custom operations, used in error
// messages.
func WithRenderers(renderers ...pattern.NodeRenderer) Option {
	return func(o *options) {
		o.compile.Renderers = append(o.compile.Renderers, renderers...)
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.exec.Logger = logger
	}
}

// Reader runs one compiled pattern. It is safe for concurrent use.
type Reader struct {
	prog   *pattern.Program
	interp *interp.Interpreter
	closed atomic.Bool
}

// New compiles and validates source.
func New(source string, opts ...Option) (*Reader, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	prog, err := pattern.Compile(source, o.compile)
	if err != nil {
		return nil, err
	}
	return &Reader{prog: prog, interp: interp.New(prog, o.exec)}, nil
}

// Program returns the compiled pattern.
func (r *Reader) Program() *pattern.Program {
	return r.prog
}

// String returns the canonical text of the pattern.
func (r *Reader) String() string {
	return r.prog.String()
}

// Read runs the pattern against src and returns the extracted strings. src
// is not closed.
func (r *Reader) Read(ctx context.Context, src io.Reader) ([]string, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}

	// Hide any Close method so the stream does not close src.
	s := stream.New(struct{ io.Reader }{src})
	defer s.Close()

	return r.interp.Execute(ctx, s)
}

// ReadString runs the pattern against text.
func (r *Reader) ReadString(ctx context.Context, text string) ([]string, error) {
	return r.Read(ctx, strings.NewReader(text))
}

// Close releases the reader. Later reads fail with ErrClosed. Close is
// idempotent.
func (r *Reader) Close() error {
	r.closed.Store(true)
	return nil
}
