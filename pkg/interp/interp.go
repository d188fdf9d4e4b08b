// Package interp executes compiled patterns against a text stream.
//
// Execution is sequential: one operation runs at a time and every operation
// completes before the next starts. The only fan-out is inside a boundary
// scan, where the candidate strings of a sequence are tested concurrently.
package interp

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/readpat/internal/logging"
	"github.com/yaklabco/readpat/pkg/boundary"
	"github.com/yaklabco/readpat/pkg/optree"
	"github.com/yaklabco/readpat/pkg/pattern"
	"github.com/yaklabco/readpat/pkg/stream"
)

const (
	initialWindow = 16
	windowGrowth  = 4
)

// Sink receives output strings in execution order.
type Sink interface {
	Emit(text string)
}

// SliceSink collects output in memory.
type SliceSink struct {
	Items []string
}

// Emit implements Sink.
func (s *SliceSink) Emit(text string) {
	s.Items = append(s.Items, text)
}

// Options configures an Interpreter.
type Options struct {
	// Policy decides what happens to execution errors. Nil means
	// DefaultPolicy.
	Policy Policy

	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// Interpreter runs one compiled program. It holds no per-execution state, so
// it may be used by several goroutines at once as long as each passes its
// own stream.
type Interpreter struct {
	prog   *pattern.Program
	policy Policy
	logger *log.Logger
}

// New returns an Interpreter for prog.
func New(prog *pattern.Program, opts Options) *Interpreter {
	policy := opts.Policy
	if policy == nil {
		policy = DefaultPolicy()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Interpreter{prog: prog, policy: policy, logger: logger}
}

// Execute runs the program against s and returns the output. On error the
// output produced before the failure is returned as well.
func (in *Interpreter) Execute(ctx context.Context, s *stream.Stream) ([]string, error) {
	sink := &SliceSink{}
	err := in.ExecuteTo(ctx, s, sink)
	return sink.Items, err
}

// ExecuteTo runs the program against s, passing output to sink.
func (in *Interpreter) ExecuteTo(ctx context.Context, s *stream.Stream, sink Sink) error {
	run := &execution{
		ctx:    ctx,
		s:      s,
		emit:   sink.Emit,
		logger: in.logger,
	}
	if err := run.node(in.prog.Tree); err != nil {
		return in.resolve(err)
	}
	return nil
}

// resolve applies the policy to an execution error.
func (in *Interpreter) resolve(err error) error {
	var execErr *ExecError
	if !errors.As(err, &execErr) {
		return err
	}
	if errors.Is(execErr.Err, context.Canceled) || errors.Is(execErr.Err, context.DeadlineExceeded) {
		return execErr.Err
	}

	kind := Classify(execErr.Err)
	action := in.policy.Resolve(kind)
	in.logger.Debug("resolving execution error",
		logging.FieldKind, kind,
		logging.FieldAction, action,
		logging.FieldOffset, execErr.Offset,
		logging.FieldError, execErr.Err)

	switch action {
	case Suppress:
		return nil
	case WrapWithDetail:
		return detail(in.prog, execErr)
	case Propagate:
		return execErr.Err
	default:
		return execErr.Err
	}
}

// execution is the state of one Execute call.
type execution struct {
	ctx    context.Context
	s      *stream.Stream
	emit   func(string)
	logger *log.Logger
}

func (e *execution) node(n optree.Node) error {
	switch node := n.(type) {
	case *optree.Tree:
		return e.sequence(node.Children)
	case *optree.Composite:
		return e.sequence(node.Children)
	case *optree.Repeat:
		return e.repeat(node)
	case *optree.UntilEOF:
		return e.untilEOF(node)
	default:
		start := e.offset()
		if err := e.leaf(n); err != nil {
			return e.tagAt(n, err, start)
		}
		return nil
	}
}

func (e *execution) sequence(children []optree.Node) error {
	for _, child := range children {
		if err := e.ctx.Err(); err != nil {
			return err
		}
		if err := e.node(child); err != nil {
			return err
		}
	}
	return nil
}

func (e *execution) repeat(block *optree.Repeat) error {
	for range block.Count {
		if err := e.ctx.Err(); err != nil {
			return err
		}
		if err := e.node(block.Body); err != nil {
			return err
		}
	}
	return nil
}

// untilEOF runs the body until the stream is exhausted. An iteration that
// does not move the stream would repeat forever, so it fails instead.
func (e *execution) untilEOF(block *optree.UntilEOF) error {
	for {
		if err := e.ctx.Err(); err != nil {
			return err
		}

		eof, err := e.s.EOF(e.ctx)
		if err != nil {
			return e.tag(block, err)
		}
		if eof {
			return nil
		}

		before, err := e.s.Position()
		if err != nil {
			return e.tag(block, err)
		}
		if err := e.node(block.Body); err != nil {
			return err
		}
		after, err := e.s.Position()
		if err != nil {
			return e.tag(block, err)
		}
		if after == before {
			return e.tag(block, ErrInfiniteLoop)
		}
	}
}

// tag attaches the failing node and the current stream offset to err.
func (e *execution) tag(n optree.Node, err error) error {
	return e.tagAt(n, err, e.offset())
}

// tagAt attaches the failing node and offset to err. Context errors and
// errors that are already tagged pass through.
func (e *execution) tagAt(n optree.Node, err error, offset int) error {
	var execErr *ExecError
	if errors.As(err, &execErr) {
		return err
	}
	if ctxErr := e.ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}
	return &ExecError{Err: err, Offset: offset, Node: n}
}

// offset is the stream position, or the cache length once the stream is
// closed.
func (e *execution) offset() int {
	pos, err := e.s.Position()
	if err != nil {
		return e.s.Len()
	}
	return pos
}

func (e *execution) leaf(n optree.Node) error {
	switch op := n.(type) {
	case *optree.OneChar:
		return e.oneChar(op)
	case *optree.CharBlock:
		return e.charBlock(op)
	case *optree.RemainingLine:
		return e.remainingLine(op)
	case *optree.BoundaryOp:
		return e.boundary(op)
	case *optree.Custom:
		if op.Op == nil {
			return ErrUnknownNode
		}
		return op.Op.Execute(e.ctx, e.s, op.Kind, e.emit)
	default:
		return ErrUnknownNode
	}
}

func (e *execution) oneChar(op *optree.OneChar) error {
	r, ok, err := e.s.Read(e.ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEndOfStream
	}
	if op.Kind == optree.Read {
		e.emit(string(r))
	}
	return nil
}

// charBlock emits whatever it could read before reporting a short block.
func (e *execution) charBlock(op *optree.CharBlock) error {
	block, err := e.s.ReadBlock(e.ctx, op.Size)
	if err != nil {
		return err
	}
	if block == "" {
		return ErrEndOfStream
	}
	if op.Kind == optree.Read {
		e.emit(block)
	}
	if utf8.RuneCountInString(block) < op.Size {
		return ErrEndOfStream
	}
	return nil
}

func (e *execution) remainingLine(op *optree.RemainingLine) error {
	line, ok, err := e.s.ReadLine(e.ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEndOfStream
	}
	if op.Kind == optree.Read {
		e.emit(line)
	}
	return nil
}

// boundary scans growing windows until one of the boundary strings matches,
// then moves past the text the operation consumes.
func (e *execution) boundary(op *optree.BoundaryOp) error {
	start, err := e.s.Position()
	if err != nil {
		return err
	}

	var (
		window string
		match  boundary.Match
	)
	for size := initialWindow; ; size *= windowGrowth {
		window, err = e.s.PeekBlock(e.ctx, size)
		if err != nil {
			return err
		}
		if window == "" {
			return ErrEndOfStream
		}

		match, err = op.Strings.Find(e.ctx, window)
		if err != nil {
			return err
		}
		if match.Success {
			break
		}
		if utf8.RuneCountInString(window) < size {
			return ErrEndOfStream
		}
		e.logger.Debug("boundary not found, growing window",
			logging.FieldOffset, start,
			logging.FieldWindow, size*windowGrowth)
	}

	resultLen := match.Index
	if op.Behavior == optree.WithOverstepping {
		resultLen += match.Len()
	}
	advance := resultLen
	if op.Behavior == optree.WithOversteppingFromCounterpart {
		advance += match.Len()
	}

	if _, err := e.s.SetPosition(e.ctx, start+advance); err != nil {
		return err
	}

	switch {
	case op.Kind == optree.Read:
		e.emit(string([]rune(window)[:resultLen]))
	case resultLen < advance:
		e.emit(match.Text)
	}
	return nil
}
