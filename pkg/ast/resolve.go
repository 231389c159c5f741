package ast

// Resolver collects the reference definitions of a document so links can be
// resolved by name. It is a Visitor: walk it over a Document before
// rendering, then query it with Resolve. Definitions sharing a name
// overwrite earlier ones, so the last definition in document order wins.
type Resolver struct {
	refs map[string]*Reference
}

// NewResolver returns an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{refs: make(map[string]*Reference)}
}

// Visit records every Reference at the top level of the document. Only the
// Document itself is descended into; reference definitions cannot nest, so
// every other subtree is skipped.
func (r *Resolver) Visit(node Node, dir Direction) Action {
	if dir != Entering {
		return GotoNext
	}

	switch n := node.(type) {
	case *Document:
		return GotoNext
	case *Reference:
		r.refs[n.Name()] = n
		return SkipChildren
	default:
		return SkipChildren
	}
}

// Resolve returns the definition for name, if one was collected.
func (r *Resolver) Resolve(name string) (*Reference, bool) {
	ref, ok := r.refs[name]
	return ref, ok
}

// Len returns the number of distinct names collected.
func (r *Resolver) Len() int { return len(r.refs) }

// All returns the collected definitions keyed by name. The map is the
// resolver's own; callers must not mutate it.
func (r *Resolver) All() map[string]*Reference { return r.refs }
