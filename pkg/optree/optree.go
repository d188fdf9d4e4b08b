// Package optree defines the operation tree produced by compiling a pattern.
//
// Node is a closed sum type. Consumers dispatch on the concrete type with a
// type switch. Operations the package does not know about are carried by
// Custom, which delegates execution to a CustomOp.
package optree

import (
	"context"

	"github.com/yaklabco/readpat/pkg/boundary"
	"github.com/yaklabco/readpat/pkg/stream"
)

// Kind says whether a leaf operation emits what it consumes.
type Kind int

const (
	// Read consumes text and emits it.
	Read Kind = iota

	// Skip consumes text without emitting it.
	Skip
)

// String returns the pattern token for the kind.
func (k Kind) String() string {
	if k == Skip {
		return "S"
	}
	return "R"
}

// Rune returns the pattern token for the kind as a rune.
func (k Kind) Rune() rune {
	if k == Skip {
		return 'S'
	}
	return 'R'
}

// Counterpart returns the opposite kind.
func (k Kind) Counterpart() Kind {
	if k == Read {
		return Skip
	}
	return Read
}

// Behavior controls how a boundary operation treats the matched text.
type Behavior int

const (
	// NoOverstepping stops in front of the match.
	NoOverstepping Behavior = iota

	// WithOverstepping consumes the match together with the preceding text.
	WithOverstepping

	// WithOversteppingFromCounterpart consumes the match but treats it with
	// the counterpart kind: a Skip emits the match, a Read does not.
	WithOversteppingFromCounterpart
)

// String returns a readable name for the behavior.
func (b Behavior) String() string {
	switch b {
	case NoOverstepping:
		return "no-overstepping"
	case WithOverstepping:
		return "with-overstepping"
	case WithOversteppingFromCounterpart:
		return "with-overstepping-from-counterpart"
	default:
		return "unknown"
	}
}

// Node is any element of an operation tree.
type Node interface {
	node()
}

// Leaf is implemented by nodes that carry a Read/Skip kind.
type Leaf interface {
	Node
	OpKind() Kind
}

// Tree is the root of a compiled pattern.
type Tree struct {
	Children []Node
}

// Composite runs its children in order.
type Composite struct {
	Children []Node
}

// Repeat runs Body Count times.
type Repeat struct {
	Body  Node
	Count int
}

// UntilEOF runs Body until the stream is exhausted.
type UntilEOF struct {
	Body Node
}

// OneChar consumes a single character.
type OneChar struct {
	Kind Kind
}

// CharBlock consumes exactly Size characters.
type CharBlock struct {
	Kind Kind
	Size int
}

// RemainingLine consumes the rest of the current line and its terminator.
type RemainingLine struct {
	Kind Kind
}

// BoundaryOp consumes text up to (and possibly including) the first match of
// any boundary string in Strings.
type BoundaryOp struct {
	Kind     Kind
	Behavior Behavior
	Strings  boundary.Sequence
}

// CustomOp is an operation contributed from outside the package.
type CustomOp interface {
	// Execute runs the operation against s. Text to be output is passed to
	// emit; kind is the Read/Skip kind the operation was declared with.
	Execute(ctx context.Context, s *stream.Stream, kind Kind, emit func(string)) error
}

// Custom wraps a CustomOp so it can take part in a tree.
type Custom struct {
	Kind Kind
	Op   CustomOp
}

func (*Tree) node()          {}
func (*Composite) node()     {}
func (*Repeat) node()        {}
func (*UntilEOF) node()      {}
func (*OneChar) node()       {}
func (*CharBlock) node()     {}
func (*RemainingLine) node() {}
func (*BoundaryOp) node()    {}
func (*Custom) node()        {}

// OpKind implements Leaf.
func (n *OneChar) OpKind() Kind { return n.Kind }

// OpKind implements Leaf.
func (n *CharBlock) OpKind() Kind { return n.Kind }

// OpKind implements Leaf.
func (n *RemainingLine) OpKind() Kind { return n.Kind }

// OpKind implements Leaf.
func (n *BoundaryOp) OpKind() Kind { return n.Kind }

// OpKind implements Leaf.
func (n *Custom) OpKind() Kind { return n.Kind }

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the node just visited.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, fn)
	}
}

// Children returns the direct children of n.
func Children(n Node) []Node {
	switch node := n.(type) {
	case *Tree:
		return node.Children
	case *Composite:
		return node.Children
	case *Repeat:
		return []Node{node.Body}
	case *UntilEOF:
		return []Node{node.Body}
	default:
		return nil
	}
}
