package pattern

import (
	"github.com/yaklabco/readpat/pkg/boundary"
	"github.com/yaklabco/readpat/pkg/optree"
)

// OperationParser parses the qualifier of an operation, i.e. everything after
// its R or S token.
//
// Parsers are asked in order whether they can handle the next token; the
// first one that can is given the cursor. Custom parsers are consulted after
// the built-in ones, so they can only claim tokens the language leaves free.
type OperationParser interface {
	// CanParse reports whether the parser handles the next token. It must not
	// consume anything.
	CanParse(c *Cursor) bool

	// Parse consumes the qualifier and returns the operation node.
	Parse(c *Cursor, kind optree.Kind) (optree.Node, error)
}

// tokenParser claims a qualifier by its first token.
type tokenParser struct {
	tokens []rune
	parse  func(c *Cursor, kind optree.Kind) (optree.Node, error)
}

func (p tokenParser) CanParse(c *Cursor) bool {
	for _, token := range p.tokens {
		if c.Is(token) {
			return true
		}
	}
	return false
}

func (p tokenParser) Parse(c *Cursor, kind optree.Kind) (optree.Node, error) {
	return p.parse(c, kind)
}

// builtinOperations returns the operation parsers of the language in the
// order they are tried.
func builtinOperations(opts boundary.Options) []OperationParser {
	return []OperationParser{
		tokenParser{
			tokens: []rune{tokenNoOverstep, tokenOverstep},
			parse: func(c *Cursor, kind optree.Kind) (optree.Node, error) {
				return parseBoundaryOp(c, kind, opts)
			},
		},
		tokenParser{tokens: []rune{tokenOneChar}, parse: parseOneChar},
		tokenParser{tokens: []rune{tokenSizeOpen}, parse: parseCharBlock},
		tokenParser{tokens: []rune{tokenRemainingLine}, parse: parseRemainingLine},
	}
}

func parseOneChar(c *Cursor, kind optree.Kind) (optree.Node, error) {
	if err := c.Expect(tokenOneChar); err != nil {
		return nil, err
	}
	return &optree.OneChar{Kind: kind}, nil
}

func parseCharBlock(c *Cursor, kind optree.Kind) (optree.Node, error) {
	size, err := ParseNumber(c, SizeScope, Positive)
	if err != nil {
		return nil, err
	}
	return &optree.CharBlock{Kind: kind, Size: size}, nil
}

func parseRemainingLine(c *Cursor, kind optree.Kind) (optree.Node, error) {
	if err := c.Expect(tokenRemainingLine); err != nil {
		return nil, err
	}
	return &optree.RemainingLine{Kind: kind}, nil
}

func parseBoundaryOp(c *Cursor, kind optree.Kind, opts boundary.Options) (optree.Node, error) {
	qualifier, err := c.Read()
	if err != nil {
		return nil, err
	}

	behavior := optree.WithOverstepping
	if qualifier == tokenNoOverstep {
		behavior = optree.NoOverstepping
	}

	candidates, err := parseBoundarySpec(c, opts)
	if err != nil {
		return nil, err
	}

	// A count scope after "|" always introduces a parameter. Repeating a
	// non-overstepping boundary operation takes a block.
	if behavior == optree.NoOverstepping && CountScope.CanEnter(c) {
		if err := parseCounterpartParameter(c, kind); err != nil {
			return nil, err
		}
		behavior = optree.WithOversteppingFromCounterpart
	}

	return &optree.BoundaryOp{Kind: kind, Behavior: behavior, Strings: candidates}, nil
}

// parseCounterpartParameter parses "{&X}" where X must be the counterpart of
// kind.
func parseCounterpartParameter(c *Cursor, kind optree.Kind) error {
	if err := CountScope.Enter(c); err != nil {
		return err
	}
	if err := c.Expect(tokenParameter); err != nil {
		return err
	}

	pos := c.Position()
	r, ok := c.Peek()
	switch {
	case !ok:
		return NewSyntaxError(ErrUnexpectedEnd, pos, "")
	case r == CountScope.Close:
		return NewSyntaxError(ErrMissingToken, pos, quoteToken(kind.Counterpart().Rune()))
	}

	declared, ok := kindOf(r)
	if !ok {
		return NewSyntaxError(ErrUnexpectedToken, pos, quoteToken(r))
	}
	if declared != kind.Counterpart() {
		return NewSyntaxError(ErrInvalidParameter, pos,
			"(expected "+quoteToken(kind.Counterpart().Rune())+" for a "+quoteToken(kind.Rune())+" operation)")
	}
	c.advance()

	return CountScope.Exit(c)
}

// kindOf maps an operation type token to its kind.
func kindOf(r rune) (optree.Kind, bool) {
	switch r {
	case tokenRead:
		return optree.Read, true
	case tokenSkip:
		return optree.Skip, true
	default:
		return 0, false
	}
}
