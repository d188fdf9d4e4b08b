package pattern

// Scope is a pair of bracketing tokens around a sub-grammar.
type Scope struct {
	Open  rune
	Close rune
}

// Scopes used by the built-in grammar.
//
//nolint:gochecknoglobals // Read-only token pairs.
var (
	BlockScope = Scope{Open: tokenBlockOpen, Close: tokenBlockClose}
	CountScope = Scope{Open: tokenCountOpen, Close: tokenCountClose}
	SizeScope  = Scope{Open: tokenSizeOpen, Close: tokenSizeClose}
)

// CanEnter reports whether the next token opens the scope.
func (s Scope) CanEnter(c *Cursor) bool {
	return c.Is(s.Open)
}

// Enter consumes the opening token.
func (s Scope) Enter(c *Cursor) error {
	return c.Expect(s.Open)
}

// Exit consumes the closing token.
func (s Scope) Exit(c *Cursor) error {
	r, ok := c.Peek()
	if !ok {
		return NewSyntaxError(ErrMissingScopeEnd, c.Position(), quoteToken(s.Close))
	}
	if r != s.Close {
		return NewSyntaxError(ErrUnexpectedToken, c.Position(), quoteToken(r))
	}
	c.advance()
	return nil
}
