// Package scan recognizes Markdown input against the dialect grammar and
// produces the tagged-span tree consumed by the AST builder. It is the span
// classifier of the pipeline: downstream packages use only a span's rule
// tag, its text, its start offset, and its sub-spans.
//
// The scanner is line-oriented. Block constructs are recognized first
// (headings, block quotes, lists, code blocks, reference definitions,
// paragraphs), then each block's inline content is tokenized at
// word/space/symbol granularity so that the builder's plaintext coalescing
// operates on real token runs.
package scan

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/quillsoft/mdtree/pkg/span"
)

// maxNestingDepth bounds recursion on block structures (quotes inside list
// items inside quotes, ...) so adversarial input cannot exhaust the stack.
const maxNestingDepth = 64

// Error reports input the scanner could not recognize against the grammar.
type Error struct {
	Msg string
	Pos span.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to tokenize input at %s: %s", e.Pos, e.Msg)
}

// Scan recognizes the whole input buffer and returns the document span.
// The returned tree borrows from source; it holds no copies.
func Scan(source string) (span.Span, error) {
	if !utf8.ValidString(source) {
		return span.Span{}, &Error{
			Msg: "input is not valid UTF-8",
			Pos: span.Position{Line: 1, Column: 1},
		}
	}

	s := &scanner{src: source}
	blocks, err := s.scanBlocks(splitLines(source), 0)
	if err != nil {
		return span.Span{}, err
	}

	blocks = append(blocks, span.New(span.RuleEOI, source, len(source), len(source), nil))
	return span.New(span.RuleDocument, source, 0, len(source), blocks), nil
}

// line is a view of one input line. start/end bound the line's content in
// the original buffer (end excludes the line terminator), nl is one past the
// terminator. In nested contexts (block quotes, list items) start is
// advanced past the enclosing prefix so offsets always reference the
// original buffer.
type line struct {
	start int
	end   int
	nl    int
}

type scanner struct {
	src string
}

func splitLines(source string) []line {
	var lines []line
	start := 0
	for i := 0; i < len(source); i++ {
		if source[i] != '\n' {
			continue
		}
		end := i
		if end > start && source[end-1] == '\r' {
			end--
		}
		lines = append(lines, line{start: start, end: end, nl: i + 1})
		start = i + 1
	}
	if start < len(source) {
		lines = append(lines, line{start: start, end: len(source), nl: len(source)})
	}
	return lines
}

func (s *scanner) content(l line) string { return s.src[l.start:l.end] }

func (s *scanner) isBlank(l line) bool {
	for i := l.start; i < l.end; i++ {
		if s.src[i] != ' ' && s.src[i] != '\t' {
			return false
		}
	}
	return true
}

func indentOf(text string) int {
	n := 0
	for n < len(text) && text[n] == ' ' {
		n++
	}
	return n
}

// scanBlocks recognizes a sequence of block constructs over the given lines.
func (s *scanner) scanBlocks(lines []line, depth int) ([]span.Span, error) {
	if depth > maxNestingDepth {
		pos := span.Position{Line: 1, Column: 1}
		if len(lines) > 0 {
			pos = span.PositionAt(s.src, lines[0].start)
		}
		return nil, &Error{Msg: "block nesting too deep", Pos: pos}
	}

	var blocks []span.Span
	i := 0
	for i < len(lines) {
		l := lines[i]
		if s.isBlank(l) {
			i++
			continue
		}

		text := s.content(l)
		indent := indentOf(text)

		if indent >= 4 {
			blocks = append(blocks, s.scanIndentedCode(lines, &i))
			continue
		}

		rest := text[indent:]
		switch {
		case headerLevel(rest) > 0:
			blocks = append(blocks, s.scanHeader(l, indent))
			i++
		case isFence(rest):
			sp, err := s.scanFence(lines, &i, indent)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, sp)
		case rest[0] == '>':
			sp, err := s.scanQuote(lines, &i, depth)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, sp)
		case isRefDef(rest):
			blocks = append(blocks, s.scanRefDef(l, indent))
			i++
		case markerWidth(rest) > 0:
			sp, err := s.scanList(lines, &i, depth)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, sp)
		default:
			blocks = append(blocks, s.scanParagraph(lines, &i))
		}
	}
	return blocks, nil
}

// headerLevel returns the heading level (1-6) if text opens with a marker
// run followed by a space, 0 otherwise.
func headerLevel(text string) int {
	n := 0
	for n < len(text) && text[n] == '#' {
		n++
	}
	if n == 0 || n > 6 || n >= len(text) || text[n] != ' ' {
		return 0
	}
	return n
}

func isFence(text string) bool {
	return strings.HasPrefix(text, "```")
}

// markerWidth returns the width of a list marker at the start of text
// ("- " is 2, "12. " is 4), or 0 when text does not open a list item.
func markerWidth(text string) int {
	if len(text) >= 2 && (text[0] == '-' || text[0] == '+' || text[0] == '*') && text[1] == ' ' {
		return 2
	}
	n := 0
	for n < len(text) && text[n] >= '0' && text[n] <= '9' {
		n++
	}
	if n > 0 && n+1 < len(text) && text[n] == '.' && text[n+1] == ' ' {
		return n + 2
	}
	return 0
}

func markerOrdered(text string) bool {
	return text[0] >= '0' && text[0] <= '9'
}

// isRefDef reports whether text opens a reference definition:
// a bracketed name immediately followed by a colon and a destination.
func isRefDef(text string) bool {
	if len(text) == 0 || text[0] != '[' {
		return false
	}
	rb := strings.IndexByte(text, ']')
	if rb <= 1 || rb+1 >= len(text) || text[rb+1] != ':' {
		return false
	}
	return strings.TrimSpace(text[rb+2:]) != ""
}

func (s *scanner) scanHeader(l line, indent int) span.Span {
	start := l.start + indent
	level := 0
	for start+level < l.end && s.src[start+level] == '#' {
		level++
	}
	marker := span.New(span.RuleHeaderMarker, s.src, start, start+level, nil)

	cs := start + level
	for cs < l.end && s.src[cs] == ' ' {
		cs++
	}
	ce := l.end
	for ce > cs && s.src[ce-1] == ' ' {
		ce--
	}

	kids := append([]span.Span{marker}, s.tokenize(cs, ce)...)
	return span.New(span.RuleHeader, s.src, start, l.end, kids)
}

func (s *scanner) scanFence(lines []line, i *int, indent int) (span.Span, error) {
	l := lines[*i]
	fs := l.start + indent
	ticks := 0
	for fs+ticks < l.end && s.src[fs+ticks] == '`' {
		ticks++
	}

	var kids []span.Span
	infoStart := fs + ticks
	for infoStart < l.end && s.src[infoStart] == ' ' {
		infoStart++
	}
	infoEnd := infoStart
	for infoEnd < l.end && s.src[infoEnd] != ' ' {
		infoEnd++
	}
	if infoEnd > infoStart {
		kids = append(kids, span.New(span.RuleLanguage, s.src, infoStart, infoEnd, nil))
	}

	closer := strings.Repeat("`", ticks)
	j := *i + 1
	for j < len(lines) {
		t := strings.TrimRight(s.content(lines[j]), " ")
		t = t[indentOf(t):]
		if strings.HasPrefix(t, closer) && strings.Trim(t, "`") == "" {
			break
		}
		j++
	}
	if j == len(lines) {
		return span.Span{}, &Error{
			Msg: "unterminated code fence",
			Pos: span.PositionAt(s.src, fs),
		}
	}

	if j > *i+1 {
		bodyStart := lines[*i+1].start
		bodyEnd := lines[j-1].nl
		kids = append(kids, span.New(span.RuleRaw, s.src, bodyStart, bodyEnd, nil))
	}

	sp := span.New(span.RuleCodeBlock, s.src, fs, lines[j].end, kids)
	*i = j + 1
	return sp, nil
}

func (s *scanner) scanIndentedCode(lines []line, i *int) span.Span {
	first := lines[*i]
	j := *i
	for j < len(lines) && !s.isBlank(lines[j]) && indentOf(s.content(lines[j])) >= 4 {
		j++
	}
	last := lines[j-1]
	*i = j

	body := span.New(span.RuleRaw, s.src, first.start, last.end, nil)
	return span.New(span.RuleCodeBlock, s.src, first.start, last.end, []span.Span{body})
}

func (s *scanner) scanQuote(lines []line, i *int, depth int) (span.Span, error) {
	first := lines[*i]
	var inner []line
	j := *i
	for j < len(lines) {
		l := lines[j]
		if s.isBlank(l) {
			break
		}
		text := s.content(l)
		indent := indentOf(text)
		if indent >= 4 || indent >= len(text) || text[indent] != '>' {
			break
		}
		cs := l.start + indent + 1
		if cs < l.end && s.src[cs] == ' ' {
			cs++
		}
		inner = append(inner, line{start: cs, end: l.end, nl: l.nl})
		j++
	}
	last := lines[j-1]
	*i = j

	kids, err := s.scanBlocks(inner, depth+1)
	if err != nil {
		return span.Span{}, err
	}
	start := first.start + indentOf(s.content(first))
	return span.New(span.RuleVerbatim, s.src, start, last.end, kids), nil
}

func (s *scanner) scanRefDef(l line, indent int) span.Span {
	start := l.start + indent
	text := s.src[start:l.end]
	rb := strings.IndexByte(text, ']')

	nameStart := start + 1
	nameEnd := start + rb
	label := span.New(span.RuleLabel, s.src, nameStart, nameEnd, s.tokenize(nameStart, nameEnd))

	destStart := start + rb + 2
	for destStart < l.end && s.src[destStart] == ' ' {
		destStart++
	}
	destEnd := destStart
	for destEnd < l.end && s.src[destEnd] != ' ' {
		destEnd++
	}
	kids := []span.Span{label, span.New(span.RuleSource, s.src, destStart, destEnd, nil)}

	ts := destEnd
	for ts < l.end && s.src[ts] == ' ' {
		ts++
	}
	if ts < l.end && s.src[ts] == '"' {
		te := strings.IndexByte(s.src[ts+1:l.end], '"')
		if te >= 0 {
			kids = append(kids, span.New(span.RuleTitle, s.src, ts+1, ts+1+te, nil))
		}
	}

	return span.New(span.RuleReference, s.src, start, l.end, kids)
}

// startsBlock reports whether a line's content opens a non-paragraph block.
func startsBlock(text string) bool {
	indent := indentOf(text)
	if indent >= len(text) {
		return false
	}
	rest := text[indent:]
	return headerLevel(rest) > 0 || isFence(rest) || rest[0] == '>' || markerWidth(rest) > 0
}

func (s *scanner) scanParagraph(lines []line, i *int) span.Span {
	var segs []line
	j := *i
	for j < len(lines) {
		l := lines[j]
		if s.isBlank(l) {
			break
		}
		text := s.content(l)
		if len(segs) > 0 && (startsBlock(text) || isRefDef(text[indentOf(text):])) {
			break
		}
		segs = append(segs, l)
		j++
	}
	*i = j

	first := segs[0]
	start := first.start + indentOf(s.content(first))
	end := segs[len(segs)-1].end
	return span.New(span.RuleParagraph, s.src, start, end, s.scanInlines(segs))
}

func (s *scanner) scanList(lines []line, i *int, depth int) (span.Span, error) {
	l0 := lines[*i]
	indent0 := indentOf(s.content(l0))
	ordered := markerOrdered(s.content(l0)[indent0:])

	var items []span.Span
	loose := false
	pendingBlank := false
	j := *i

	for j < len(lines) {
		l := lines[j]
		if s.isBlank(l) {
			pendingBlank = true
			j++
			continue
		}

		text := s.content(l)
		indent := indentOf(text)
		mlen := markerWidth(text[indent:])
		if mlen == 0 || indent != indent0 {
			break
		}
		if pendingBlank && len(items) > 0 {
			loose = true
		}
		pendingBlank = false

		itemStart := l.start + indent
		contIndent := indent + mlen
		itemLines := []line{{start: itemStart + mlen, end: l.end, nl: l.nl}}
		k := j + 1

		for k < len(lines) {
			lk := lines[k]
			if s.isBlank(lk) {
				// A blank stays inside the item only when continuation
				// content follows at the item's indent.
				p := k
				for p < len(lines) && s.isBlank(lines[p]) {
					p++
				}
				if p == len(lines) || indentOf(s.content(lines[p])) < contIndent {
					break
				}
				loose = true
				for ; k < p; k++ {
					bl := lines[k]
					cs := min(bl.start+contIndent, bl.end)
					itemLines = append(itemLines, line{start: cs, end: bl.end, nl: bl.nl})
				}
				continue
			}
			if indentOf(s.content(lk)) < contIndent {
				break
			}
			itemLines = append(itemLines, line{start: lk.start + contIndent, end: lk.end, nl: lk.nl})
			k++
		}

		kids, err := s.scanItemContent(itemLines, depth)
		if err != nil {
			return span.Span{}, err
		}
		itemEnd := itemLines[len(itemLines)-1].end
		items = append(items, span.New(span.RuleListItem, s.src, itemStart, itemEnd, kids))
		j = k
	}
	*i = j

	listStart := l0.start + indent0
	listEnd := items[len(items)-1].End()

	subRule := span.RuleListTight
	if loose {
		subRule = span.RuleListLoose
	}
	sub := span.New(subRule, s.src, listStart, listEnd, items)

	listRule := span.RuleBulletList
	if ordered {
		listRule = span.RuleOrderedList
	}
	return span.New(listRule, s.src, listStart, listEnd, []span.Span{sub}), nil
}

// scanItemContent recognizes a list item's body: a leading inline run,
// optionally followed by nested blocks, or nested blocks alone when the
// item opens directly with a block construct.
func (s *scanner) scanItemContent(itemLines []line, depth int) ([]span.Span, error) {
	first := itemLines[0]
	firstText := s.content(first)
	if s.isBlank(first) || startsBlock(firstText) {
		return s.scanBlocks(itemLines, depth+1)
	}

	var segs []line
	r := 0
	for r < len(itemLines) {
		l := itemLines[r]
		if s.isBlank(l) || startsBlock(s.content(l)) {
			break
		}
		segs = append(segs, l)
		r++
	}

	kids := s.scanInlines(segs)
	if r < len(itemLines) {
		blocks, err := s.scanBlocks(itemLines[r:], depth+1)
		if err != nil {
			return nil, err
		}
		kids = append(kids, blocks...)
	}
	return kids, nil
}
