// Package pattern compiles read-pattern text into an operation tree.
//
// The grammar is parsed by recursive descent with a single token of
// lookahead. Operation qualifiers and block completions are each handled by
// an ordered list of candidates, the first of which to accept the next token
// wins.
package pattern

import (
	"strings"

	"github.com/yaklabco/readpat/pkg/boundary"
	"github.com/yaklabco/readpat/pkg/optree"
)

// Options configures compilation.
type Options struct {
	// Boundary controls how literal boundary strings compare text.
	Boundary boundary.Options

	// OperationParsers are tried after the built-in operations.
	OperationParsers []OperationParser

	// Renderers render custom nodes back to pattern text.
	Renderers []NodeRenderer
}

// Program is a compiled and validated pattern.
type Program struct {
	// Source is the pattern text the program was compiled from.
	Source string

	// Tree is the root of the operation tree.
	Tree *optree.Tree

	// Positions maps nodes of Tree to where they start in Source.
	Positions *Registry

	renderer *Renderer
}

// Render returns the pattern text for n, which should belong to p.Tree.
func (p *Program) Render(n optree.Node) (string, error) {
	return p.renderer.Render(n)
}

// String returns the canonical pattern text of the whole program.
func (p *Program) String() string {
	text, err := p.renderer.Render(p.Tree)
	if err != nil {
		return p.Source
	}
	return text
}

// Compile parses source and validates the resulting tree.
func Compile(source string, opts Options) (*Program, error) {
	if strings.TrimSpace(source) == "" {
		return nil, NewSyntaxError(ErrEmptyPattern, Position{Line: 1, Column: 1}, "")
	}

	p := &parser{
		c:          NewCursor(source),
		registry:   newRegistry(),
		operations: append(builtinOperations(opts.Boundary), opts.OperationParsers...),
	}

	tree, err := p.parseRoot()
	if err != nil {
		return nil, err
	}
	if err := optree.Validate(tree); err != nil {
		return nil, err
	}

	return &Program{
		Source:    source,
		Tree:      tree,
		Positions: p.registry,
		renderer:  NewRenderer(opts.Renderers...),
	}, nil
}

type parser struct {
	c          *Cursor
	registry   *Registry
	operations []OperationParser
}

func (p *parser) parseRoot() (*optree.Tree, error) {
	p.c.EndOfPattern()
	pos := p.c.Position()

	children, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if !p.c.EndOfPattern() {
		return nil, p.c.ErrNextToken()
	}

	tree := &optree.Tree{Children: children}
	p.registry.record(tree, pos)
	return tree, nil
}

// parseSequence parses operations and blocks until the end of the pattern or
// a closing parenthesis. At least one element is required.
func (p *parser) parseSequence() ([]optree.Node, error) {
	var children []optree.Node

	for !p.c.EndOfPattern() && !p.c.Is(tokenBlockClose) {
		var (
			node optree.Node
			err  error
		)
		if p.c.Is(tokenBlockOpen) {
			node, err = p.parseBlock()
		} else {
			node, err = p.parseOperation()
		}
		if err != nil {
			return nil, err
		}
		children = append(children, node)
	}

	if len(children) == 0 {
		return nil, p.c.ErrNextToken()
	}
	return children, nil
}

// parseOperation parses an R or S token, its qualifier, and an optional
// repetition count.
func (p *parser) parseOperation() (optree.Node, error) {
	r, ok := p.c.Peek()
	if !ok {
		return nil, p.c.ErrNextToken()
	}
	pos := p.c.Position()
	kind, ok := kindOf(r)
	if !ok {
		return nil, p.c.ErrNextToken()
	}
	p.c.advance()

	var node optree.Node
	for _, candidate := range p.operations {
		if !candidate.CanParse(p.c) {
			continue
		}
		parsed, err := candidate.Parse(p.c, kind)
		if err != nil {
			return nil, err
		}
		node = parsed
		break
	}
	if node == nil {
		return nil, p.c.ErrNextToken()
	}
	p.registry.record(node, pos)

	if !CountScope.CanEnter(p.c) {
		return node, nil
	}
	count, err := ParseNumber(p.c, CountScope, Positive)
	if err != nil {
		return nil, err
	}
	if count == 1 {
		return node, nil
	}
	repeat := &optree.Repeat{Body: node, Count: count}
	p.registry.record(repeat, pos)
	return repeat, nil
}
