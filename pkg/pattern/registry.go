package pattern

import "github.com/yaklabco/readpat/pkg/optree"

// Registry maps the nodes of a compiled tree to where they start in the
// pattern text. It is filled during parsing and read-only afterwards, so a
// single Registry may be shared by concurrent executions.
type Registry struct {
	positions map[optree.Node]Position
}

func newRegistry() *Registry {
	return &Registry{positions: make(map[optree.Node]Position)}
}

func (r *Registry) record(n optree.Node, pos Position) {
	r.positions[n] = pos
}

// Lookup returns the position recorded for n.
func (r *Registry) Lookup(n optree.Node) (Position, bool) {
	if r == nil {
		return Position{}, false
	}
	pos, ok := r.positions[n]
	return pos, ok
}

// Len returns the number of recorded nodes.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.positions)
}
