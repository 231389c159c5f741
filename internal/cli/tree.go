package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillsoft/mdtree/internal/ui/pretty"
	"github.com/quillsoft/mdtree/pkg/ast"
)

func newTreeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the document's syntax tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, source, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			doc, err := parseDocument(cmd, name, string(source), opts.cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			dumper := &treeDumper{
				w:      out,
				styles: pretty.NewStyles(pretty.IsColorEnabled(opts.cfg.Color, out)),
			}
			ast.Walk(doc, dumper)
			return dumper.err
		},
	}
	return cmd
}

// treeDumper prints one line per node, indented by depth.
type treeDumper struct {
	w      io.Writer
	styles *pretty.Styles
	depth  int
	err    error
}

func (d *treeDumper) Visit(node ast.Node, dir ast.Direction) ast.Action {
	if dir == ast.Exiting {
		d.depth--
		return ast.GotoNext
	}

	line := d.styles.NodeKind.Render(kindOf(node))
	if attrs := attrsOf(node); attrs != "" {
		line += " " + d.styles.NodeAttr.Render(attrs)
	}
	if node.Class() != ast.ClassContainer {
		line += " " + d.styles.Dim.Render(fmt.Sprintf("%q", clip(node.Span())))
	}

	if _, err := fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", d.depth), line); err != nil {
		d.err = err
		return ast.End
	}

	// Exiting fires for every container, empty ones included.
	if node.Class() == ast.ClassContainer {
		d.depth++
	}
	return ast.GotoNext
}

func kindOf(node ast.Node) string {
	switch node.(type) {
	case *ast.Document:
		return "document"
	case *ast.Paragraph:
		return "paragraph"
	case *ast.BlockQuote:
		return "blockquote"
	case *ast.Heading:
		return "heading"
	case *ast.List:
		return "list"
	case *ast.ListItem:
		return "item"
	case *ast.CodeBlock:
		return "codeblock"
	case *ast.Emphasis:
		return "emphasis"
	case *ast.Strong:
		return "strong"
	case *ast.Label:
		return "label"
	case *ast.Code:
		return "code"
	case *ast.Link:
		return "link"
	case *ast.Reference:
		return "reference"
	case *ast.Image:
		return "image"
	case *ast.Text:
		return "text"
	case *ast.Linebreak:
		return "linebreak"
	case *ast.SoftLinebreak:
		return "softbreak"
	case *ast.EOI:
		return "eoi"
	default:
		return fmt.Sprintf("%T", node)
	}
}

func attrsOf(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Heading:
		return fmt.Sprintf("level=%d", n.Level())
	case *ast.List:
		kind := "bullet"
		if n.Ordered() {
			kind = "ordered"
		}
		layout := "loose"
		if n.Tight() {
			layout = "tight"
		}
		return fmt.Sprintf("%s %s start=%d", kind, layout, n.Start())
	case *ast.ListItem:
		return fmt.Sprintf("index=%d", n.Index())
	case *ast.CodeBlock:
		if n.Language() != "" {
			return "lang=" + n.Language()
		}
	case *ast.Link:
		if n.Title() != "" {
			return fmt.Sprintf("source=%q title=%q", n.Source(), n.Title())
		}
		return fmt.Sprintf("source=%q", n.Source())
	case *ast.Reference:
		return fmt.Sprintf("name=%q source=%q", n.Name(), n.Source())
	case *ast.Image:
		return fmt.Sprintf("source=%q", n.Source())
	}
	return ""
}

func clip(s string) string {
	const max = 40
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
