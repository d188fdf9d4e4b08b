package pattern

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/readpat/pkg/boundary"
	"github.com/yaklabco/readpat/pkg/optree"
)

// ErrUnrenderable is returned for nodes no renderer recognizes.
var ErrUnrenderable = errors.New("node cannot be rendered")

// NodeRenderer renders nodes the built-in renderer does not know, typically
// ones produced by a custom OperationParser.
type NodeRenderer interface {
	// CanRender reports whether the renderer handles n.
	CanRender(n optree.Node) bool

	// Render returns pattern text that compiles back to n.
	Render(n optree.Node) (string, error)
}

// Renderer turns operation trees back into pattern text.
//
// Output compiles to a tree with the same behavior as the input. Bodies of
// repeated and until-EOF blocks are always parenthesized, since "{" after a
// non-overstepping boundary operation would be read as a parameter.
type Renderer struct {
	custom []NodeRenderer
}

// NewRenderer returns a Renderer that falls back to custom, in order, for
// nodes it does not recognize.
func NewRenderer(custom ...NodeRenderer) *Renderer {
	return &Renderer{custom: custom}
}

// Render returns the pattern text for n.
func (r *Renderer) Render(n optree.Node) (string, error) {
	var out strings.Builder
	if err := r.render(&out, n); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (r *Renderer) render(out *strings.Builder, n optree.Node) error {
	switch node := n.(type) {
	case *optree.Tree:
		return r.renderList(out, node.Children)

	case *optree.Composite:
		out.WriteRune(tokenBlockOpen)
		if err := r.renderList(out, node.Children); err != nil {
			return err
		}
		out.WriteRune(tokenBlockClose)
		return nil

	case *optree.Repeat:
		if err := r.renderBody(out, node.Body); err != nil {
			return err
		}
		if node.Count != 1 {
			out.WriteRune(tokenCountOpen)
			out.WriteString(strconv.Itoa(node.Count))
			out.WriteRune(tokenCountClose)
		}
		return nil

	case *optree.UntilEOF:
		if err := r.renderBody(out, node.Body); err != nil {
			return err
		}
		out.WriteRune(tokenUntilEOF)
		return nil

	case *optree.OneChar:
		out.WriteRune(node.Kind.Rune())
		out.WriteRune(tokenOneChar)
		return nil

	case *optree.CharBlock:
		out.WriteRune(node.Kind.Rune())
		out.WriteRune(tokenSizeOpen)
		out.WriteString(strconv.Itoa(node.Size))
		out.WriteRune(tokenSizeClose)
		return nil

	case *optree.RemainingLine:
		out.WriteRune(node.Kind.Rune())
		out.WriteRune(tokenRemainingLine)
		return nil

	case *optree.BoundaryOp:
		return renderBoundaryOp(out, node)
	}

	return r.renderCustom(out, n)
}

// renderList writes nodes separated by single spaces.
func (r *Renderer) renderList(out *strings.Builder, nodes []optree.Node) error {
	for i, child := range nodes {
		if i > 0 {
			out.WriteByte(' ')
		}
		if err := r.render(out, child); err != nil {
			return err
		}
	}
	return nil
}

// renderBody writes the body of a repeated block inside one pair of
// parentheses.
func (r *Renderer) renderBody(out *strings.Builder, body optree.Node) error {
	out.WriteRune(tokenBlockOpen)
	var err error
	if composite, ok := body.(*optree.Composite); ok {
		err = r.renderList(out, composite.Children)
	} else {
		err = r.render(out, body)
	}
	if err != nil {
		return err
	}
	out.WriteRune(tokenBlockClose)
	return nil
}

func (r *Renderer) renderCustom(out *strings.Builder, n optree.Node) error {
	for _, custom := range r.custom {
		if !custom.CanRender(n) {
			continue
		}
		text, err := custom.Render(n)
		if err != nil {
			return err
		}
		out.WriteString(text)
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnrenderable, n)
}

func renderBoundaryOp(out *strings.Builder, node *optree.BoundaryOp) error {
	out.WriteRune(node.Kind.Rune())
	if node.Behavior == optree.WithOverstepping {
		out.WriteRune(tokenOverstep)
	} else {
		out.WriteRune(tokenNoOverstep)
	}

	if err := renderSequence(out, node.Strings); err != nil {
		return err
	}

	if node.Behavior == optree.WithOversteppingFromCounterpart {
		out.WriteRune(tokenCountOpen)
		out.WriteRune(tokenParameter)
		out.WriteRune(node.Kind.Counterpart().Rune())
		out.WriteRune(tokenCountClose)
	}
	return nil
}

func renderSequence(out *strings.Builder, seq boundary.Sequence) error {
	if len(seq) == 1 {
		return renderBoundaryString(out, seq[0])
	}

	out.WriteRune(tokenSizeOpen)
	for i, matcher := range seq {
		if i > 0 {
			out.WriteString(" ? ")
		}
		if err := renderBoundaryString(out, matcher); err != nil {
			return err
		}
	}
	out.WriteRune(tokenSizeClose)
	return nil
}

func renderBoundaryString(out *strings.Builder, matcher boundary.Matcher) error {
	switch m := matcher.(type) {
	case *boundary.Literal:
		quote := tokenQuote
		if m.IgnoreCase {
			quote = tokenQuoteFold
		}
		out.WriteRune(quote)
		for _, r := range m.Value {
			switch r {
			case tokenEscape, quote:
				out.WriteRune(tokenEscape)
				out.WriteRune(r)
			case '\r':
				out.WriteString(`\r`)
			case '\n':
				out.WriteString(`\n`)
			default:
				out.WriteRune(r)
			}
		}
		out.WriteRune(quote)
		return nil

	case *boundary.Regex:
		out.WriteRune(tokenRegex)
		out.WriteString(strings.ReplaceAll(m.Source, string(tokenRegex), `\/`))
		out.WriteRune(tokenRegex)
		return nil

	default:
		return fmt.Errorf("%w: boundary string %T", ErrUnrenderable, matcher)
	}
}
