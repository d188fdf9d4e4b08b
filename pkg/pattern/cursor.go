package pattern

import "unicode"

// Pattern tokens.
const (
	tokenRead          = 'R'
	tokenSkip          = 'S'
	tokenOneChar       = '.'
	tokenRemainingLine = '>'
	tokenNoOverstep    = '|'
	tokenOverstep      = '+'
	tokenBlockOpen     = '('
	tokenBlockClose    = ')'
	tokenCountOpen     = '{'
	tokenCountClose    = '}'
	tokenSizeOpen      = '['
	tokenSizeClose     = ']'
	tokenSeparator     = '?'
	tokenParameter     = '&'
	tokenUntilEOF      = '*'
	tokenEscape        = '\\'
	tokenQuote         = '\''
	tokenQuoteFold     = '~'
	tokenRegex         = '/'
	tokenMinus         = '-'
	tokenPlus          = '+'
)

// Cursor walks pattern text one character at a time while tracking the
// line and column of the next character.
//
// Logical reads (Peek, Read, Expect) skip whitespace first. Raw reads
// (PeekRaw, ReadRaw) see every character, which is what quoted literals need.
type Cursor struct {
	text []rune
	idx  int
	pos  Position
}

// NewCursor returns a cursor at the start of text.
func NewCursor(text string) *Cursor {
	return &Cursor{
		text: []rune(text),
		pos:  Position{Line: 1, Column: 1},
	}
}

// Position returns the position of the next unread character.
func (c *Cursor) Position() Position {
	return c.pos
}

// EndOfPattern reports whether only whitespace remains.
func (c *Cursor) EndOfPattern() bool {
	c.skipSpace()
	return c.idx >= len(c.text)
}

// Peek returns the next non-whitespace character without consuming it.
func (c *Cursor) Peek() (rune, bool) {
	c.skipSpace()
	return c.PeekRaw()
}

// PeekRaw returns the next character without consuming it.
func (c *Cursor) PeekRaw() (rune, bool) {
	if c.idx >= len(c.text) {
		return 0, false
	}
	return c.text[c.idx], true
}

// Read consumes the next non-whitespace character.
func (c *Cursor) Read() (rune, error) {
	c.skipSpace()
	return c.ReadRaw()
}

// ReadRaw consumes the next character.
func (c *Cursor) ReadRaw() (rune, error) {
	if c.idx >= len(c.text) {
		return 0, NewSyntaxError(ErrUnexpectedEnd, c.pos, "")
	}
	return c.advance(), nil
}

// Is reports whether the next non-whitespace character is token.
func (c *Cursor) Is(token rune) bool {
	r, ok := c.Peek()
	return ok && r == token
}

// Expect consumes the next non-whitespace character and fails unless it is
// token.
func (c *Cursor) Expect(token rune) error {
	r, ok := c.Peek()
	if !ok {
		return NewSyntaxError(ErrMissingToken, c.pos, quoteToken(token))
	}
	if r != token {
		return NewSyntaxError(ErrUnexpectedToken, c.pos, quoteToken(r))
	}
	c.advance()
	return nil
}

// ReadExpect is Expect for callers that need to know where the token was.
func (c *Cursor) ReadExpect(token rune) (Position, error) {
	c.skipSpace()
	pos := c.pos
	if err := c.Expect(token); err != nil {
		return pos, err
	}
	return pos, nil
}

// ErrNextToken returns the error for a pattern whose next token cannot be
// handled at the current point.
func (c *Cursor) ErrNextToken() error {
	r, ok := c.Peek()
	if !ok {
		return NewSyntaxError(ErrUnexpectedEnd, c.pos, "")
	}
	return NewSyntaxError(ErrUnexpectedToken, c.pos, quoteToken(r))
}

func (c *Cursor) skipSpace() {
	for c.idx < len(c.text) && unicode.IsSpace(c.text[c.idx]) {
		c.advance()
	}
}

// advance consumes one character. LF, or CR not followed by LF, ends a line.
func (c *Cursor) advance() rune {
	r := c.text[c.idx]
	c.idx++

	newLine := r == '\n' || (r == '\r' && (c.idx >= len(c.text) || c.text[c.idx] != '\n'))
	if newLine {
		c.pos.Line++
		c.pos.Column = 1
	} else {
		c.pos.Column++
	}
	return r
}
