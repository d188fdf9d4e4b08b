// Package stream provides a seekable, caching wrapper over a forward-only
// character source.
//
// Every character ever pulled from the source is kept in memory, so callers
// may peek ahead, rewind, or jump forward freely. Positions are measured in
// characters (runes), not bytes.
package stream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrClosed is returned by every operation on a closed stream.
	ErrClosed = errors.New("stream is closed")

	// ErrNegativePosition is returned when seeking before the start of the stream.
	ErrNegativePosition = errors.New("position must not be negative")
)

const (
	// minPull is the first chunk size requested when the required length is unknown.
	minPull = 16

	// maxPull bounds a single pull so cancellation is observed regularly.
	maxPull = 4096
)

// Stream is a buffering reader over a forward-only source.
// A Stream is not safe for concurrent use.
type Stream struct {
	src    *bufio.Reader
	closer io.Closer
	cache  []rune
	pos    int
	closed bool
}

// New wraps r. If r implements io.Closer, Close releases it.
func New(r io.Reader) *Stream {
	s := &Stream{src: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// NewString returns a Stream over an in-memory string.
func NewString(text string) *Stream {
	return New(strings.NewReader(text))
}

// Position returns the current cursor offset.
func (s *Stream) Position() (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	return s.pos, nil
}

// Len returns the number of characters materialized so far.
func (s *Stream) Len() int {
	return len(s.cache)
}

// SetPosition moves the cursor to pos, pulling from the source when pos lies
// beyond the cache. If the source ends first, the cursor stops at the end and
// the reached position is returned.
func (s *Stream) SetPosition(ctx context.Context, pos int) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if pos < 0 {
		return s.pos, fmt.Errorf("set position %d: %w", pos, ErrNegativePosition)
	}
	if err := s.ensure(ctx, pos); err != nil {
		return s.pos, err
	}
	s.pos = min(pos, len(s.cache))
	return s.pos, nil
}

// EOF reports whether the cursor is at the end of the cache and the source
// has nothing further to offer. The probe does not consume source data.
func (s *Stream) EOF(ctx context.Context) (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	if s.pos < len(s.cache) {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.sourceDrained()
}

// Peek returns the next character without advancing.
// ok is false at end of stream.
func (s *Stream) Peek(ctx context.Context) (r rune, ok bool, err error) {
	if s.closed {
		return 0, false, ErrClosed
	}
	if err := s.ensure(ctx, s.pos+1); err != nil {
		return 0, false, err
	}
	if s.pos >= len(s.cache) {
		return 0, false, nil
	}
	return s.cache[s.pos], true, nil
}

// Read returns the next character and advances past it.
func (s *Stream) Read(ctx context.Context) (rune, bool, error) {
	r, ok, err := s.Peek(ctx)
	if ok {
		s.pos++
	}
	return r, ok, err
}

// PeekBlock returns up to n characters from the cursor without advancing.
// Fewer characters, possibly none, are returned at end of stream.
func (s *Stream) PeekBlock(ctx context.Context, n int) (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	if n <= 0 {
		return "", nil
	}
	if err := s.ensure(ctx, s.pos+n); err != nil {
		return "", err
	}
	end := min(s.pos+n, len(s.cache))
	return string(s.cache[s.pos:end]), nil
}

// ReadBlock is PeekBlock followed by advancing past the returned characters.
func (s *Stream) ReadBlock(ctx context.Context, n int) (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	if n <= 0 {
		return "", nil
	}
	if err := s.ensure(ctx, s.pos+n); err != nil {
		return "", err
	}
	end := min(s.pos+n, len(s.cache))
	block := string(s.cache[s.pos:end])
	s.pos = end
	return block, nil
}

// PeekLine returns the characters up to the next CR, LF or CRLF without
// advancing. The terminator is never part of the line. ok is false only when
// the cursor is already at end of stream.
func (s *Stream) PeekLine(ctx context.Context) (line string, ok bool, err error) {
	if s.closed {
		return "", false, ErrClosed
	}
	line, _, ok, err = s.scanLine(ctx)
	return line, ok, err
}

// ReadLine is PeekLine followed by advancing past the line and its terminator.
func (s *Stream) ReadLine(ctx context.Context) (string, bool, error) {
	if s.closed {
		return "", false, ErrClosed
	}
	line, next, ok, err := s.scanLine(ctx)
	if err != nil || !ok {
		return "", ok, err
	}
	s.pos = next
	return line, true, nil
}

// PeekToEnd returns everything from the cursor to the end of the source.
func (s *Stream) PeekToEnd(ctx context.Context) (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	if err := s.drain(ctx); err != nil {
		return "", err
	}
	return string(s.cache[s.pos:]), nil
}

// ReadToEnd returns everything from the cursor and moves to the end.
func (s *Stream) ReadToEnd(ctx context.Context) (string, error) {
	rest, err := s.PeekToEnd(ctx)
	if err != nil {
		return "", err
	}
	s.pos = len(s.cache)
	return rest, nil
}

// Close releases the source and discards the cache. It is idempotent.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cache = nil
	s.src = nil
	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			return fmt.Errorf("close source: %w", err)
		}
	}
	return nil
}

// scanLine locates the line starting at the cursor. next is the offset just
// past the terminator.
func (s *Stream) scanLine(ctx context.Context) (line string, next int, ok bool, err error) {
	idx := s.pos
	chunk := minPull

	for {
		for ; idx < len(s.cache); idx++ {
			if c := s.cache[idx]; c == '\r' || c == '\n' {
				return s.terminate(ctx, idx)
			}
		}

		pulled, err := s.pull(ctx, chunk)
		if err != nil {
			return "", s.pos, false, err
		}
		if pulled == 0 {
			break
		}
		chunk = min(chunk*2, maxPull)
	}

	if s.pos == len(s.cache) {
		return "", s.pos, false, nil
	}
	return string(s.cache[s.pos:]), len(s.cache), true, nil
}

// terminate builds the scanLine result for a terminator found at idx.
func (s *Stream) terminate(ctx context.Context, idx int) (string, int, bool, error) {
	line := string(s.cache[s.pos:idx])
	next := idx + 1
	if s.cache[idx] == '\r' {
		if err := s.ensure(ctx, next+1); err != nil {
			return "", s.pos, false, err
		}
		if next < len(s.cache) && s.cache[next] == '\n' {
			next++
		}
	}
	return line, next, true, nil
}

// ensure pulls until the cache holds at least end characters or the source
// is exhausted.
func (s *Stream) ensure(ctx context.Context, end int) error {
	for len(s.cache) < end {
		pulled, err := s.pull(ctx, min(end-len(s.cache), maxPull))
		if err != nil {
			return err
		}
		if pulled == 0 {
			return nil
		}
	}
	return nil
}

// drain pulls the remainder of the source into the cache.
func (s *Stream) drain(ctx context.Context) error {
	for {
		pulled, err := s.pull(ctx, maxPull)
		if err != nil {
			return err
		}
		if pulled == 0 {
			return nil
		}
	}
}

// pull appends up to n characters from the source to the cache and returns
// how many were appended. Zero means the source is exhausted.
func (s *Stream) pull(ctx context.Context, n int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	pulled := 0
	for pulled < n {
		r, _, err := s.src.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return pulled, fmt.Errorf("read source: %w", err)
		}
		s.cache = append(s.cache, r)
		pulled++
	}
	return pulled, nil
}

// sourceDrained probes the source without consuming from it.
func (s *Stream) sourceDrained() (bool, error) {
	_, err := s.src.Peek(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("probe source: %w", err)
	}
	return false, nil
}
