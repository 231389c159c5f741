// Package ast builds and exposes the typed syntax tree for a Markdown
// document, along with the traversal protocol renderers consume.
//
// Every node stores the exact source substring it was derived from. Spans
// are Go string slices into the single input buffer passed to Parse, so the
// tree holds no copies and is valid for as long as the input is. The tree
// is built once and never mutated: traversal carries ancestry on the call
// stack and nodes hold no parent references.
package ast

// Class discriminates the three shapes a node can take.
type Class uint8

const (
	// ClassContainer nodes own an ordered sequence of children.
	ClassContainer Class = iota

	// ClassLeaf nodes carry only their span and attributes.
	ClassLeaf

	// ClassSentinel marks the end of input.
	ClassSentinel
)

// Node is the closed union over all syntax tree variants.
type Node interface {
	// Span returns the exact source substring the node was derived from.
	Span() string

	// Children returns the node's children in document order, or nil for
	// leaves and the end-of-input sentinel.
	Children() []Node

	// Class discriminates container, leaf, and sentinel variants.
	Class() Class

	node()
}

type container struct {
	span     string
	children []Node
}

func (c *container) Span() string     { return c.span }
func (c *container) Children() []Node { return c.children }
func (c *container) Class() Class     { return ClassContainer }
func (c *container) node()            {}

type leaf struct {
	span string
}

func (l *leaf) Span() string     { return l.span }
func (l *leaf) Children() []Node { return nil }
func (l *leaf) Class() Class     { return ClassLeaf }
func (l *leaf) node()            {}

// Document is the root of the tree. Its last child is the EOI sentinel.
type Document struct{ container }

// Paragraph holds a run of inline content.
type Paragraph struct{ container }

// BlockQuote holds the blocks of a quoted region.
type BlockQuote struct{ container }

// Heading is a section title with a level of 1 through 6.
type Heading struct {
	container
	level int
}

// Level returns the heading level, equal to the number of marker
// characters in the source.
func (h *Heading) Level() int { return h.level }

// List is an ordered or bullet list of items.
type List struct {
	container
	tight   bool
	ordered bool
	start   int
}

// Tight reports whether the list renders without paragraph wrapping
// around each item's inline content.
func (l *List) Tight() bool { return l.tight }

// Ordered reports whether the list uses enumerator markers.
func (l *List) Ordered() bool { return l.ordered }

// Start returns the first item's resolved index, at minimum 1.
func (l *List) Start() int { return l.start }

// ListItem is a single list entry with a 1-based index.
type ListItem struct {
	container
	index int
}

// Index returns the item's resolved 1-based index. Indices increase
// monotonically even when the source enumerators do not.
func (li *ListItem) Index() int { return li.index }

// CodeBlock holds preformatted block content with an optional language.
type CodeBlock struct {
	container
	language string
}

// Language returns the fence info word, or "" for indented blocks and
// fences without one.
func (cb *CodeBlock) Language() string { return cb.language }

// Emphasis wraps emphasized inline content.
type Emphasis struct{ container }

// Strong wraps strongly emphasized inline content.
type Strong struct{ container }

// Label holds the display content of a link, image, or reference.
type Label struct{ container }

// Code holds inline code content as coalesced Text children.
type Code struct{ container }

// Link points at a destination. Its single child is the Label. For
// autolinks and shortcut forms the source equals the label's own text.
type Link struct {
	container
	source string
	title  string
}

// Source returns the link destination.
func (l *Link) Source() string { return l.source }

// Title returns the optional link title, or "".
func (l *Link) Title() string { return l.title }

// Reference is a named, out-of-band link definition. Its single child is
// the Label holding the name.
type Reference struct {
	container
	name   string
	source string
	title  string
}

// Name returns the definition's name.
func (r *Reference) Name() string { return r.name }

// Source returns the defined destination.
func (r *Reference) Source() string { return r.source }

// Title returns the optional title, or "".
func (r *Reference) Title() string { return r.title }

// Text is a maximal run of coalesced plaintext. Its span is never empty.
type Text struct{ leaf }

// Linebreak is a hard line break.
type Linebreak struct{ leaf }

// SoftLinebreak is a source line ending that renders as soft whitespace.
type SoftLinebreak struct{ leaf }

// Image embeds a picture. The span holds the alternative text.
type Image struct {
	leaf
	source string
}

// Source returns the image destination.
func (i *Image) Source() string { return i.source }

// eoiSpan is the fixed span every EOI node reports.
const eoiSpan = "EOI"

// EOI marks the end of the input. It carries no data.
type EOI struct{}

func (*EOI) Span() string     { return eoiSpan }
func (*EOI) Children() []Node { return nil }
func (*EOI) Class() Class     { return ClassSentinel }
func (*EOI) node()            {}
