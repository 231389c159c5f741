package ast

import (
	"strconv"

	"github.com/quillsoft/mdtree/pkg/scan"
	"github.com/quillsoft/mdtree/pkg/span"
)

// Parse scans input and builds its syntax tree. Errors from the scanner
// pass through as *scan.Error; structurally invalid spans surface as
// *SyntaxError. On error no partial tree is returned.
func Parse(input string) (*Document, error) {
	root, err := scan.Scan(input)
	if err != nil {
		return nil, err
	}
	node, err := Build(root)
	if err != nil {
		return nil, err
	}
	return node.(*Document), nil
}

// Build maps a tagged span onto its typed node. The mapping is total: every
// rule the scanner can produce either builds a node here or yields a
// *SyntaxError, so a new grammar rule fails loudly instead of silently
// dropping content.
func Build(sp span.Span) (Node, error) {
	switch sp.Rule() {
	case span.RuleDocument:
		kids, err := buildChildren(sp, sp.Children(), sp.Start())
		if err != nil {
			return nil, err
		}
		return &Document{container{span: sp.Text(), children: kids}}, nil

	case span.RuleParagraph:
		kids, err := buildChildren(sp, sp.Children(), sp.Start())
		if err != nil {
			return nil, err
		}
		return &Paragraph{container{span: sp.Text(), children: kids}}, nil

	case span.RuleVerbatim:
		kids, err := buildChildren(sp, sp.Children(), sp.Start())
		if err != nil {
			return nil, err
		}
		return &BlockQuote{container{span: sp.Text(), children: kids}}, nil

	case span.RuleHeader:
		return buildHeading(sp)

	case span.RuleBulletList, span.RuleOrderedList:
		return buildList(sp)

	case span.RuleListItem:
		return buildListItem(sp, 0)

	case span.RuleCodeBlock:
		return buildCodeBlock(sp)

	case span.RuleEmphasis:
		kids, err := buildChildren(sp, sp.Children(), sp.Start())
		if err != nil {
			return nil, err
		}
		return &Emphasis{container{span: sp.Text(), children: kids}}, nil

	case span.RuleStrong:
		kids, err := buildChildren(sp, sp.Children(), sp.Start())
		if err != nil {
			return nil, err
		}
		return &Strong{container{span: sp.Text(), children: kids}}, nil

	case span.RuleLabel:
		kids, err := buildChildren(sp, sp.Children(), sp.Start())
		if err != nil {
			return nil, err
		}
		return &Label{container{span: sp.Text(), children: kids}}, nil

	case span.RuleCode:
		kids, err := buildChildren(sp, sp.Children(), sp.Start())
		if err != nil {
			return nil, err
		}
		return &Code{container{span: sp.Text(), children: kids}}, nil

	case span.RuleDirectedLink, span.RuleAutolink:
		return buildLink(sp)

	case span.RuleReference:
		return buildReference(sp)

	case span.RuleImage:
		return buildImage(sp)

	case span.RuleLinebreak:
		return &Linebreak{leaf{span: sp.Text()}}, nil

	case span.RuleSoftLinebreak:
		return &SoftLinebreak{leaf{span: sp.Text()}}, nil

	case span.RuleStr, span.RuleSpace, span.RuleSymbol, span.RuleEscaped, span.RuleRaw:
		return &Text{leaf{span: sp.Text()}}, nil

	case span.RuleEOI:
		return &EOI{}, nil

	default:
		return nil, syntaxErrorf(sp, "no node represents rule %q", sp.Rule())
	}
}

// buildChildren maps a container's sub-spans to nodes, coalescing adjacent
// plaintext-class spans into single Text nodes. The pending run is the
// half-open window [runStart, runEnd); origin is the container's own content
// start. Plaintext spans extend the window, where a gap before the span
// restarts the run at its start; any other span flushes the pending run,
// recurses, and collapses the window past the span's end. Each emitted Text
// covers one maximal run and is never empty.
func buildChildren(sp span.Span, kids []span.Span, origin int) ([]Node, error) {
	out := make([]Node, 0, len(kids))
	runStart, runEnd := origin, origin

	flush := func() {
		if runEnd > runStart {
			out = append(out, &Text{leaf{span: sp.Slice(runStart, runEnd)}})
		}
	}

	for _, child := range kids {
		if child.Rule().IsPlaintext() {
			if child.Start() > runEnd {
				runStart = child.Start()
			}
			runEnd = child.End()
			continue
		}

		flush()
		node, err := Build(child)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
		runStart, runEnd = child.End(), child.End()
	}

	flush()
	return out, nil
}

func buildHeading(sp span.Span) (Node, error) {
	kids := sp.Children()
	if len(kids) == 0 || kids[0].Rule() != span.RuleHeaderMarker {
		return nil, syntaxErrorf(sp, "no header markers found")
	}
	marker := kids[0]
	if len(kids) == 1 {
		return nil, syntaxErrorf(sp, "no title found")
	}

	content, err := buildChildren(sp, kids[1:], marker.End())
	if err != nil {
		return nil, err
	}
	return &Heading{
		container: container{span: sp.Text(), children: content},
		level:     marker.Len(),
	}, nil
}

func buildList(sp span.Span) (Node, error) {
	kids := sp.Children()
	if len(kids) != 1 {
		return nil, syntaxErrorf(sp, "expected a single tight or loose subform, got %d children", len(kids))
	}

	sub := kids[0]
	var tight bool
	switch sub.Rule() {
	case span.RuleListTight:
		tight = true
	case span.RuleListLoose:
		tight = false
	default:
		return nil, syntaxErrorf(sp, "expected a tight or loose subform, got %q", sub.Rule())
	}

	items := make([]Node, 0, len(sub.Children()))
	prev := 0
	for _, is := range sub.Children() {
		if is.Rule() != span.RuleListItem {
			return nil, syntaxErrorf(is, "expected a list item, got %q", is.Rule())
		}
		item, err := buildListItem(is, prev)
		if err != nil {
			return nil, err
		}
		prev = item.index
		items = append(items, item)
	}

	start := 1
	if len(items) > 0 {
		if first := items[0].(*ListItem).Index(); first > 1 {
			start = first
		}
	}

	return &List{
		container: container{span: sp.Text(), children: items},
		tight:     tight,
		ordered:   sp.Rule() == span.RuleOrderedList,
		start:     start,
	}, nil
}

// buildListItem resolves the item's index from its enumerator when it has
// one. Indices are kept strictly increasing: an enumerator at or below the
// previous item's index is overridden by prev+1, so "1. 1. 1." resolves to
// 1, 2, 3. Bullet items always take prev+1.
func buildListItem(sp span.Span, prev int) (*ListItem, error) {
	index := prev + 1
	if digits := enumeratorOf(sp.Text()); digits != "" {
		v, err := strconv.Atoi(digits)
		if err != nil {
			serr := syntaxErrorf(sp, "cannot convert enumerator %q to an index", digits)
			serr.Err = err
			return nil, serr
		}
		if v > prev {
			index = v
		}
	}

	kids, err := buildChildren(sp, sp.Children(), sp.Start())
	if err != nil {
		return nil, err
	}
	return &ListItem{
		container: container{span: sp.Text(), children: kids},
		index:     index,
	}, nil
}

// enumeratorOf returns the item's leading digit run, or "" for bullet items.
func enumeratorOf(text string) string {
	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	return text[:i]
}

func buildCodeBlock(sp span.Span) (Node, error) {
	kids := sp.Children()
	language := ""
	if len(kids) > 0 && kids[0].Rule() == span.RuleLanguage {
		language = kids[0].Text()
		kids = kids[1:]
	}

	origin := sp.Start()
	if len(kids) > 0 {
		origin = kids[0].Start()
	}
	body, err := buildChildren(sp, kids, origin)
	if err != nil {
		return nil, err
	}
	return &CodeBlock{
		container: container{span: sp.Text(), children: body},
		language:  language,
	}, nil
}

// buildLink distinguishes link forms by arity rather than by rule: a label
// alone is self-referential (autolinks and shortcut references), a second
// sub-span supplies the destination, a third the title.
func buildLink(sp span.Span) (Node, error) {
	kids := sp.Children()
	if len(kids) == 0 || kids[0].Rule() != span.RuleLabel {
		return nil, syntaxErrorf(sp, "no label node found")
	}

	label, err := Build(kids[0])
	if err != nil {
		return nil, err
	}

	source := kids[0].Text()
	title := ""
	if len(kids) > 1 {
		source = kids[1].Text()
	}
	if len(kids) > 2 {
		title = kids[2].Text()
	}

	return &Link{
		container: container{span: sp.Text(), children: []Node{label}},
		source:    source,
		title:     title,
	}, nil
}

func buildReference(sp span.Span) (Node, error) {
	kids := sp.Children()
	if len(kids) == 0 || kids[0].Rule() != span.RuleLabel {
		return nil, syntaxErrorf(sp, "no label node found")
	}
	if len(kids) < 2 || kids[1].Rule() != span.RuleSource {
		return nil, syntaxErrorf(sp, "no source node found")
	}

	label, err := Build(kids[0])
	if err != nil {
		return nil, err
	}

	title := ""
	if len(kids) > 2 {
		title = kids[2].Text()
	}

	return &Reference{
		container: container{span: sp.Text(), children: []Node{label}},
		name:      kids[0].Text(),
		source:    kids[1].Text(),
		title:     title,
	}, nil
}

func buildImage(sp span.Span) (Node, error) {
	kids := sp.Children()
	if len(kids) == 0 || kids[0].Rule() != span.RuleLabel {
		return nil, syntaxErrorf(sp, "no label node found")
	}
	if len(kids) < 2 || kids[1].Rule() != span.RuleSource {
		return nil, syntaxErrorf(sp, "no source node found")
	}

	return &Image{
		leaf:   leaf{span: kids[0].Text()},
		source: kids[1].Text(),
	}, nil
}
