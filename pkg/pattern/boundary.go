package pattern

import (
	"strings"

	"github.com/yaklabco/readpat/pkg/boundary"
)

// literalSyntax describes one kind of quoted boundary string.
type literalSyntax struct {
	quote rune

	// escapes maps the character after a backslash to its replacement.
	escapes map[rune]rune

	// strict rejects escapes missing from the table. Otherwise the backslash
	// and the character are kept as written.
	strict bool

	build func(value string, opts boundary.Options) (boundary.Matcher, error)
}

func textEscapes(quote rune) map[rune]rune {
	return map[rune]rune{
		tokenEscape: tokenEscape,
		quote:       quote,
		'r':         '\r',
		'n':         '\n',
	}
}

// literalSyntaxes lists the quoted forms in the order they are tried.
//
//nolint:gochecknoglobals // Read-only lookup table.
var literalSyntaxes = []literalSyntax{
	{
		quote:   tokenQuote,
		escapes: textEscapes(tokenQuote),
		strict:  true,
		build: func(value string, opts boundary.Options) (boundary.Matcher, error) {
			return boundary.NewLiteral(value, false, opts)
		},
	},
	{
		quote:   tokenQuoteFold,
		escapes: textEscapes(tokenQuoteFold),
		strict:  true,
		build: func(value string, opts boundary.Options) (boundary.Matcher, error) {
			return boundary.NewLiteral(value, true, opts)
		},
	},
	{
		quote:   tokenRegex,
		escapes: map[rune]rune{tokenRegex: tokenRegex},
		build: func(value string, _ boundary.Options) (boundary.Matcher, error) {
			return boundary.NewRegex(value)
		},
	},
}

func findLiteralSyntax(r rune) (literalSyntax, bool) {
	for _, syntax := range literalSyntaxes {
		if syntax.quote == r {
			return syntax, true
		}
	}
	return literalSyntax{}, false
}

// parseBoundarySpec parses either a single boundary string or a bracketed
// sequence of them.
func parseBoundarySpec(c *Cursor, opts boundary.Options) (boundary.Sequence, error) {
	if SizeScope.CanEnter(c) {
		return parseBoundarySequence(c, opts)
	}

	matcher, err := parseBoundaryString(c, opts)
	if err != nil {
		return nil, err
	}
	return boundary.Sequence{matcher}, nil
}

func parseBoundarySequence(c *Cursor, opts boundary.Options) (boundary.Sequence, error) {
	start := c.Position()
	if err := SizeScope.Enter(c); err != nil {
		return nil, err
	}
	if c.Is(tokenSizeClose) {
		return nil, NewSyntaxError(ErrEmptySequence, start, "")
	}

	var seq boundary.Sequence
	for {
		matcher, err := parseBoundaryString(c, opts)
		if err != nil {
			return nil, err
		}
		seq = append(seq, matcher)

		if !c.Is(tokenSeparator) {
			break
		}
		c.advance()
	}

	if err := SizeScope.Exit(c); err != nil {
		return nil, err
	}
	return seq, nil
}

func parseBoundaryString(c *Cursor, opts boundary.Options) (boundary.Matcher, error) {
	r, ok := c.Peek()
	if !ok {
		return nil, NewSyntaxError(ErrUnexpectedEnd, c.Position(), "")
	}
	syntax, ok := findLiteralSyntax(r)
	if !ok {
		return nil, c.ErrNextToken()
	}

	start := c.Position()
	c.advance()

	value, err := readQuoted(c, syntax)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, NewSyntaxError(ErrEmptyBoundaryString, start, "")
	}

	matcher, err := syntax.build(value, opts)
	if err != nil {
		return nil, &SyntaxError{Err: ErrInvalidRegex, Pos: start, Cause: err}
	}
	return matcher, nil
}

// readQuoted reads raw characters up to the closing quote, resolving escapes,
// and consumes the closing quote.
func readQuoted(c *Cursor, syntax literalSyntax) (string, error) {
	var value strings.Builder

	for {
		r, ok := c.PeekRaw()
		if !ok {
			return "", NewSyntaxError(ErrMissingScopeEnd, c.Position(), quoteToken(syntax.quote))
		}
		if r == syntax.quote {
			c.advance()
			return value.String(), nil
		}

		escapePos := c.Position()
		c.advance()
		if r != tokenEscape {
			value.WriteRune(r)
			continue
		}

		next, err := c.ReadRaw()
		if err != nil {
			return "", err
		}
		if replacement, known := syntax.escapes[next]; known {
			value.WriteRune(replacement)
			continue
		}
		if syntax.strict {
			return "", NewSyntaxError(ErrUnrecognizedEscape, escapePos, `"\`+string(next)+`"`)
		}
		value.WriteRune(r)
		value.WriteRune(next)
	}
}
