package ast

// Direction tells a visitor whether a node is being entered, before its
// children, or exited, after them.
type Direction uint8

const (
	Entering Direction = iota
	Exiting
)

func (d Direction) String() string {
	if d == Exiting {
		return "exiting"
	}
	return "entering"
}

// Action is a visitor's verdict on how the walk should proceed.
type Action uint8

const (
	// GotoNext continues the walk normally.
	GotoNext Action = iota

	// SkipChildren descends no further below the current node. The node
	// still receives its Exiting call.
	SkipChildren

	// End aborts the walk.
	End
)

// Visitor receives each node during a walk and steers it. Walk never
// inspects why a visitor asked to stop; a visitor that fails internally
// records its own error and returns End.
type Visitor interface {
	Visit(node Node, dir Direction) Action
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(node Node, dir Direction) Action

func (f VisitorFunc) Visit(node Node, dir Direction) Action { return f(node, dir) }

// Walk performs a depth-first traversal rooted at node. Containers are
// visited twice, Entering before their children and Exiting after, even when
// they hold no children. Leaves and the end-of-input sentinel are visited
// once, Entering only, and their visit result is returned directly. The
// result of the final visit pipes through as Walk's return value.
//
// Cancellation is immediate and asymmetric. The node whose visit returned
// End receives its own Exiting call, and so does a node whose Entering visit
// returned SkipChildren, but when End arrives from inside a child subtree it
// propagates without issuing the Exiting call of any ancestor above the
// aborting node. Visitors must not rely on Exiting calls for cleanup that
// has to run on every path; do that after Walk returns.
func Walk(node Node, v Visitor) Action {
	if node.Class() != ClassContainer {
		return v.Visit(node, Entering)
	}

	switch v.Visit(node, Entering) {
	case GotoNext:
		for _, kid := range node.Children() {
			if Walk(kid, v) == End {
				return End
			}
		}
		return v.Visit(node, Exiting)

	case SkipChildren:
		return v.Visit(node, Exiting)

	default:
		v.Visit(node, Exiting)
		return End
	}
}
