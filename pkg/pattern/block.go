package pattern

import "github.com/yaklabco/readpat/pkg/optree"

// blockCompletion turns the body of a block into its final node based on
// what follows the closing parenthesis.
type blockCompletion struct {
	token    rune
	complete func(c *Cursor, body optree.Node) (optree.Node, error)
}

// blockCompletions are tried in order. A block matching none of them runs
// its body once.
//
//nolint:gochecknoglobals // Read-only lookup table.
var blockCompletions = []blockCompletion{
	{token: tokenUntilEOF, complete: completeUntilEOF},
	{token: tokenCountOpen, complete: completeRepeat},
}

func completeUntilEOF(c *Cursor, body optree.Node) (optree.Node, error) {
	if err := c.Expect(tokenUntilEOF); err != nil {
		return nil, err
	}
	// Nothing can run after a block that consumes the rest of the text.
	if !c.EndOfPattern() {
		return nil, c.ErrNextToken()
	}
	return &optree.UntilEOF{Body: body}, nil
}

func completeRepeat(c *Cursor, body optree.Node) (optree.Node, error) {
	count, err := ParseNumber(c, CountScope, Positive)
	if err != nil {
		return nil, err
	}
	if count == 1 {
		return body, nil
	}
	return &optree.Repeat{Body: body, Count: count}, nil
}

// parseBlock parses "(" sequence ")" and an optional completion.
func (p *parser) parseBlock() (optree.Node, error) {
	pos, err := p.c.ReadExpect(tokenBlockOpen)
	if err != nil {
		return nil, err
	}
	if p.c.Is(tokenBlockClose) {
		return nil, NewSyntaxError(ErrEmptyBlock, pos, "")
	}

	children, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if err := BlockScope.Exit(p.c); err != nil {
		return nil, err
	}

	var body optree.Node
	if len(children) == 1 {
		body = children[0]
	} else {
		body = &optree.Composite{Children: children}
		p.registry.record(body, pos)
	}

	for _, completion := range blockCompletions {
		if !p.c.Is(completion.token) {
			continue
		}
		node, err := completion.complete(p.c, body)
		if err != nil {
			return nil, err
		}
		if node != body {
			p.registry.record(node, pos)
		}
		return node, nil
	}
	return body, nil
}
