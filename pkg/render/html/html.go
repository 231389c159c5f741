// Package html renders a document tree to HTML by driving a visitor over
// it. The renderer keeps its generation state in an explicit context: a
// stack of open list scopes decides how list items wrap their content.
//
// Write failures cannot cross the visitor boundary, so the renderer stops
// the walk with End and surfaces the first error from Err afterwards.
package html

import (
	"fmt"
	"io"
	"strings"

	"github.com/quillsoft/mdtree/pkg/ast"
)

// Detector guesses a language tag for a code snippet, returning "" when
// it has no confident answer.
type Detector func(content string) string

// Option configures a Renderer.
type Option func(*Renderer)

// WithResolver makes the renderer resolve link sources against collected
// reference definitions, falling back to the inline source and title when
// no definition matches.
func WithResolver(r *ast.Resolver) Option {
	return func(ren *Renderer) { ren.resolver = r }
}

// WithDetector supplies a language guesser for fenced code blocks that
// carry no info string.
func WithDetector(d Detector) Option {
	return func(ren *Renderer) { ren.detect = d }
}

// WithStandalone wraps the output in a minimal HTML document shell.
func WithStandalone() Option {
	return func(ren *Renderer) { ren.standalone = true }
}

// listScope is the rendering context of one open list.
type listScope struct {
	tight bool
}

// Renderer is an ast.Visitor that emits HTML.
type Renderer struct {
	w          io.Writer
	resolver   *ast.Resolver
	detect     Detector
	standalone bool

	lists []listScope
	err   error
}

// New returns a renderer writing to w.
func New(w io.Writer, opts ...Option) *Renderer {
	ren := &Renderer{w: w}
	for _, opt := range opts {
		opt(ren)
	}
	return ren
}

// Render walks doc with a renderer and returns the first error it hit.
func Render(w io.Writer, doc *ast.Document, opts ...Option) error {
	ren := New(w, opts...)
	ast.Walk(doc, ren)
	return ren.Err()
}

// Err returns the first error encountered while rendering, or nil.
func (r *Renderer) Err() error { return r.err }

// Visit emits the markup for one node. Any failure records the error and
// ends the walk.
func (r *Renderer) Visit(node ast.Node, dir ast.Direction) ast.Action {
	entering := dir == ast.Entering

	switch n := node.(type) {
	case *ast.Document:
		if r.standalone {
			r.wrap(entering, "<!DOCTYPE html><html><body>", "</body></html>")
		}

	case *ast.Paragraph:
		r.wrap(entering, "<p>", "</p>")

	case *ast.BlockQuote:
		r.wrap(entering, "<blockquote>", "</blockquote>")

	case *ast.Heading:
		if entering {
			r.printf("<h%d>", n.Level())
		} else {
			r.printf("</h%d>", n.Level())
		}

	case *ast.List:
		r.list(n, entering)

	case *ast.ListItem:
		r.listItem(entering)

	case *ast.CodeBlock:
		r.codeBlock(n, entering)

	case *ast.Emphasis:
		r.wrap(entering, "<em>", "</em>")

	case *ast.Strong:
		r.wrap(entering, "<strong>", "</strong>")

	case *ast.Code:
		r.wrap(entering, "<code>", "</code>")

	case *ast.Link:
		r.link(n, entering)

	case *ast.Image:
		r.image(n)

	case *ast.Reference:
		// Definitions produce no output of their own.
		if entering && r.err == nil {
			return ast.SkipChildren
		}

	case *ast.Label:
		// Label content renders through its children.

	case *ast.Text:
		r.printf("%s", escape(n.Span()))

	case *ast.Linebreak:
		r.printf("<br/>")

	case *ast.SoftLinebreak:
		r.printf(" ")

	case *ast.EOI:
	}

	if r.err != nil {
		return ast.End
	}
	return ast.GotoNext
}

func (r *Renderer) list(n *ast.List, entering bool) {
	tag := "ul"
	if n.Ordered() {
		tag = "ol"
	}

	if entering {
		r.lists = append(r.lists, listScope{tight: n.Tight()})
		if n.Ordered() && n.Start() != 1 {
			r.printf(`<ol start="%d">`, n.Start())
		} else {
			r.printf("<%s>", tag)
		}
		return
	}

	if len(r.lists) > 0 {
		r.lists = r.lists[:len(r.lists)-1]
	}
	r.printf("</%s>", tag)
}

// listItem wraps loose items in a paragraph; tight items render bare.
func (r *Renderer) listItem(entering bool) {
	if len(r.lists) == 0 {
		r.fail(fmt.Errorf("list item outside any list scope"))
		return
	}
	scope := r.lists[len(r.lists)-1]

	switch {
	case entering && scope.tight:
		r.printf("<li>")
	case entering:
		r.printf("<li><p>")
	case scope.tight:
		r.printf("</li>")
	default:
		r.printf("</p></li>")
	}
}

func (r *Renderer) codeBlock(n *ast.CodeBlock, entering bool) {
	if !entering {
		r.printf("</code></pre>")
		return
	}

	lang := n.Language()
	if lang == "" && r.detect != nil {
		lang = r.detect(codeText(n))
	}
	if lang != "" {
		r.printf(`<pre><code class="language-%s">`, escape(lang))
	} else {
		r.printf("<pre><code>")
	}
}

// link resolves the source through the reference table when one is wired.
// A shortcut link's source is its own label text, which is exactly the
// name a matching definition was recorded under.
func (r *Renderer) link(n *ast.Link, entering bool) {
	if !entering {
		r.printf("</a>")
		return
	}

	source, title := n.Source(), n.Title()
	if r.resolver != nil {
		if ref, ok := r.resolver.Resolve(source); ok {
			source, title = ref.Source(), ref.Title()
		}
	}

	if title != "" {
		r.printf(`<a href="%s" title="%s">`, escape(source), escape(title))
	} else {
		r.printf(`<a href="%s">`, escape(source))
	}
}

func (r *Renderer) image(n *ast.Image) {
	r.printf(`<img src="%s" alt="%s"/>`, escape(n.Source()), escape(n.Span()))
}

func (r *Renderer) wrap(entering bool, open, close string) {
	if entering {
		r.printf("%s", open)
	} else {
		r.printf("%s", close)
	}
}

func (r *Renderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	if _, err := fmt.Fprintf(r.w, format, args...); err != nil {
		r.fail(fmt.Errorf("write output: %w", err))
	}
}

func (r *Renderer) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// codeText reassembles a code block's body from its text children.
func codeText(n *ast.CodeBlock) string {
	var sb strings.Builder
	for _, kid := range n.Children() {
		sb.WriteString(kid.Span())
	}
	return sb.String()
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string { return escaper.Replace(s) }
