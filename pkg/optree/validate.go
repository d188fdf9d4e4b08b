package optree

import (
	"errors"
	"fmt"
)

// Structural errors reported by Validate.
var (
	ErrMissingRoot     = errors.New("operation tree root must be the outermost node")
	ErrDuplicateRoot   = errors.New("operation tree root must not be repeated")
	ErrEmptyComposite  = errors.New("composite operation must have at least one child operation")
	ErrNestedUntilEOF  = errors.New("continuous operation block must not be nested")
	ErrFollowsUntilEOF = errors.New("continuous operation block must not be followed by another operation")
	ErrInvalidCount    = errors.New("operation size and repetition count must be positive")
	ErrEmptyBoundary   = errors.New("boundary operation must have at least one boundary string")
	ErrNilNode         = errors.New("operation must not be nil")
	ErrNilCustomOp     = errors.New("custom operation has no implementation")
)

// ValidationError describes the first structural problem found in a tree.
type ValidationError struct {
	// Err is one of the sentinel errors above.
	Err error

	// Path locates the offending node, e.g. "root/1/body".
	Path string

	// Node is the offending node. It is nil for ErrNilNode.
	Node Node
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks n in a single pre-order pass and returns the first
// violation as a *ValidationError. A valid tree has exactly one Tree node at
// the top, no empty composites, and at most one UntilEOF block, which must be
// a direct child of the root with nothing after it.
func Validate(n Node) error {
	v := &validator{}
	return v.visit(n, "root")
}

type validator struct {
	rootSeen     bool
	untilEOFSeen bool
}

func (v *validator) visit(n Node, path string) error {
	if n == nil {
		return &ValidationError{Err: ErrNilNode, Path: path}
	}

	if root, ok := n.(*Tree); ok {
		return v.visitRoot(root, path)
	}

	if !v.rootSeen {
		return &ValidationError{Err: ErrMissingRoot, Path: path, Node: n}
	}
	if v.untilEOFSeen {
		return &ValidationError{Err: ErrFollowsUntilEOF, Path: path, Node: n}
	}

	switch node := n.(type) {
	case *Composite:
		return v.visitComposite(node, path)
	case *Repeat:
		if node.Count <= 0 {
			return &ValidationError{Err: ErrInvalidCount, Path: path, Node: n}
		}
		return v.visitBody(node.Body, path+"/body")
	case *UntilEOF:
		if err := v.visitBody(node.Body, path+"/body"); err != nil {
			return err
		}
		v.untilEOFSeen = true
		return nil
	case *CharBlock:
		if node.Size <= 0 {
			return &ValidationError{Err: ErrInvalidCount, Path: path, Node: n}
		}
	case *BoundaryOp:
		if len(node.Strings) == 0 {
			return &ValidationError{Err: ErrEmptyBoundary, Path: path, Node: n}
		}
	case *Custom:
		if node == nil || node.Op == nil {
			return &ValidationError{Err: ErrNilCustomOp, Path: path, Node: n}
		}
	}
	return nil
}

func (v *validator) visitRoot(root *Tree, path string) error {
	if v.rootSeen {
		return &ValidationError{Err: ErrDuplicateRoot, Path: path, Node: root}
	}
	v.rootSeen = true

	for idx, child := range root.Children {
		if err := v.visit(child, fmt.Sprintf("%s/%d", path, idx)); err != nil {
			return err
		}
	}
	if len(root.Children) == 0 {
		return &ValidationError{Err: ErrEmptyComposite, Path: path, Node: root}
	}
	return nil
}

func (v *validator) visitComposite(composite *Composite, path string) error {
	for idx, child := range composite.Children {
		if err := v.visitBody(child, fmt.Sprintf("%s/%d", path, idx)); err != nil {
			return err
		}
	}
	if len(composite.Children) == 0 {
		return &ValidationError{Err: ErrEmptyComposite, Path: path, Node: composite}
	}
	return nil
}

// visitBody visits a node that sits inside a block or composite, where an
// UntilEOF block is never allowed.
func (v *validator) visitBody(n Node, path string) error {
	if _, nested := n.(*UntilEOF); nested {
		return &ValidationError{Err: ErrNestedUntilEOF, Path: path, Node: n}
	}
	return v.visit(n, path)
}
