// Package boundary implements the boundary strings that delimit scans:
// case-sensitive and case-insensitive literals, regular expressions, and
// ordered sequences of them.
package boundary

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/search"
)

var (
	// ErrEmpty is returned when a literal value or regex pattern is empty.
	ErrEmpty = errors.New("boundary string must not be empty")

	// ErrUnknownComparison is returned by ParseComparison for unrecognized names.
	ErrUnknownComparison = errors.New("unknown comparison mode")
)

// Comparison selects how literals are compared with text.
type Comparison int

const (
	// Ordinal compares characters by code point, ignoring culture.
	Ordinal Comparison = iota

	// CultureSensitive compares using the collation rules of a language.
	CultureSensitive
)

// String returns the configuration name of the mode.
func (c Comparison) String() string {
	switch c {
	case Ordinal:
		return "ordinal"
	case CultureSensitive:
		return "culture"
	default:
		return fmt.Sprintf("Comparison(%d)", int(c))
	}
}

// ParseComparison parses "ordinal" or "culture".
func ParseComparison(name string) (Comparison, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ordinal":
		return Ordinal, nil
	case "culture", "culture-sensitive":
		return CultureSensitive, nil
	default:
		return Ordinal, fmt.Errorf("%w: %q (expected ordinal or culture)", ErrUnknownComparison, name)
	}
}

// Options configures how boundary strings compare text.
type Options struct {
	Comparison Comparison

	// Language is used by CultureSensitive comparison. The zero value is
	// language.Und, the root collation.
	Language language.Tag
}

// Match is the outcome of testing a boundary string against a window.
type Match struct {
	Success bool

	// Text is the matched text as it appears in the window.
	Text string

	// Index is the character offset of Text within the window.
	Index int
}

// Len returns the length of the matched text in characters.
func (m Match) Len() int {
	return utf8.RuneCountInString(m.Text)
}

// Matcher is a single boundary string.
// Implementations must be safe for concurrent use.
type Matcher interface {
	// Match finds the first occurrence of the boundary string in window.
	Match(window string) Match
}

// Literal matches a fixed string.
type Literal struct {
	Value      string
	IgnoreCase bool
	opts       Options
}

// NewLiteral returns a literal boundary string.
func NewLiteral(value string, ignoreCase bool, opts Options) (*Literal, error) {
	if value == "" {
		return nil, ErrEmpty
	}
	return &Literal{Value: value, IgnoreCase: ignoreCase, opts: opts}, nil
}

// Match implements Matcher.
func (l *Literal) Match(window string) Match {
	if l.opts.Comparison == CultureSensitive {
		return l.matchCulture(window)
	}
	if l.IgnoreCase {
		return l.matchFold(window)
	}

	idx := strings.Index(window, l.Value)
	if idx < 0 {
		return Match{}
	}
	return Match{
		Success: true,
		Text:    l.Value,
		Index:   utf8.RuneCountInString(window[:idx]),
	}
}

// matchFold is an ordinal case-insensitive search. The match always has as
// many characters as the value.
func (l *Literal) matchFold(window string) Match {
	value := []rune(l.Value)
	text := []rune(window)

	for start := 0; start+len(value) <= len(text); start++ {
		if equalFold(text[start:start+len(value)], value) {
			return Match{
				Success: true,
				Text:    string(text[start : start+len(value)]),
				Index:   start,
			}
		}
	}
	return Match{}
}

// matchCulture searches with collation rules. A search.Matcher is built per
// call because it is not documented as safe for concurrent use.
func (l *Literal) matchCulture(window string) Match {
	var opts []search.Option
	if l.IgnoreCase {
		opts = append(opts, search.IgnoreCase)
	}

	matcher := search.New(l.opts.Language, opts...)
	start, end := matcher.IndexString(window, l.Value)
	if start < 0 {
		return Match{}
	}
	return Match{
		Success: true,
		Text:    window[start:end],
		Index:   utf8.RuneCountInString(window[:start]),
	}
}

func equalFold(a, b []rune) bool {
	for i := range a {
		if !strings.EqualFold(string(a[i]), string(b[i])) {
			return false
		}
	}
	return true
}

// Regex matches a regular expression using Go's RE2 syntax.
type Regex struct {
	// Source is the expression as written in the pattern.
	Source string
	re     *regexp.Regexp
}

// NewRegex compiles expr. RE2 has no culture-specific behavior, so regexes
// match the same way under every Comparison.
func NewRegex(expr string) (*Regex, error) {
	if expr == "" {
		return nil, ErrEmpty
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile regex: %w", err)
	}
	return &Regex{Source: expr, re: re}, nil
}

// Match implements Matcher.
func (r *Regex) Match(window string) Match {
	loc := r.re.FindStringIndex(window)
	if loc == nil {
		return Match{}
	}
	return Match{
		Success: true,
		Text:    window[loc[0]:loc[1]],
		Index:   utf8.RuneCountInString(window[:loc[0]]),
	}
}
