// Package span defines the tagged-span parse tree produced by the scanner
// and consumed by the AST builder. A span is a rule-tagged window into the
// original input buffer; sub-spans cover nested grammar matches. Spans never
// copy input text: Text and Slice return substrings that share the input's
// backing array, so the tree is valid exactly as long as the input is.
package span

// Rule identifies the grammar rule a span was matched by.
type Rule uint8

// Grammar rules the scanner can tag a span with.
const (
	RuleDocument Rule = iota

	// Block-level rules.
	RuleParagraph
	RuleVerbatim // block quote
	RuleHeader
	RuleHeaderMarker
	RuleBulletList
	RuleOrderedList
	RuleListTight
	RuleListLoose
	RuleListItem
	RuleCodeBlock
	RuleLanguage
	RuleReference

	// Inline-level rules.
	RuleEmphasis
	RuleStrong
	RuleCode
	RuleLabel
	RuleDirectedLink
	RuleAutolink
	RuleImage
	RuleSource
	RuleTitle
	RuleLinebreak
	RuleSoftLinebreak

	// Plaintext-class rules. The builder coalesces adjacent runs of these
	// into single Text nodes.
	RuleStr
	RuleSpace
	RuleSymbol
	RuleEscaped
	RuleRaw

	// End of input.
	RuleEOI
)

var ruleNames = map[Rule]string{
	RuleDocument:      "document",
	RuleParagraph:     "paragraph",
	RuleVerbatim:      "verbatim",
	RuleHeader:        "header",
	RuleHeaderMarker:  "header_marker",
	RuleBulletList:    "bullet_list",
	RuleOrderedList:   "ordered_list",
	RuleListTight:     "list_tight",
	RuleListLoose:     "list_loose",
	RuleListItem:      "list_item",
	RuleCodeBlock:     "codeblock",
	RuleLanguage:      "language",
	RuleReference:     "reference",
	RuleEmphasis:      "emphasis",
	RuleStrong:        "strong",
	RuleCode:          "code",
	RuleLabel:         "label",
	RuleDirectedLink:  "directed_link",
	RuleAutolink:      "autolink",
	RuleImage:         "image",
	RuleSource:        "source",
	RuleTitle:         "title",
	RuleLinebreak:     "linebreak",
	RuleSoftLinebreak: "soft_linebreak",
	RuleStr:           "str",
	RuleSpace:         "space",
	RuleSymbol:        "symbol",
	RuleEscaped:       "escaped_special_char",
	RuleRaw:           "raw",
	RuleEOI:           "EOI",
}

// String returns the grammar name of the rule.
func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return "unknown"
}

// IsPlaintext reports whether spans tagged with this rule are
// plaintext-class, i.e. subject to coalescing into Text nodes.
func (r Rule) IsPlaintext() bool {
	switch r {
	case RuleStr, RuleSpace, RuleSymbol, RuleEscaped, RuleRaw:
		return true
	default:
		return false
	}
}

// Span is a rule-tagged half-open window [Start, End) into the input buffer,
// with ordered sub-spans for nested matches.
type Span struct {
	rule     Rule
	source   string
	start    int
	end      int
	children []Span
}

// New creates a span over source[start:end] with the given sub-spans.
// Sub-spans must lie within [start, end) and appear in document order.
func New(rule Rule, source string, start, end int, children []Span) Span {
	return Span{
		rule:     rule,
		source:   source,
		start:    start,
		end:      end,
		children: children,
	}
}

// Rule returns the grammar rule that matched this span.
func (s Span) Rule() Rule { return s.rule }

// Start returns the byte offset of the span in the input buffer.
func (s Span) Start() int { return s.start }

// End returns the byte offset one past the last byte of the span.
func (s Span) End() int { return s.end }

// Len returns the span's length in bytes.
func (s Span) Len() int { return s.end - s.start }

// Text returns the exact substring the span covers. The returned string
// shares the input buffer's backing array.
func (s Span) Text() string { return s.source[s.start:s.end] }

// Slice returns the substring of the input buffer over [start, end).
// It is used by consumers that assemble windows across sub-span boundaries.
func (s Span) Slice(start, end int) string { return s.source[start:end] }

// Children returns the span's immediate sub-spans in document order.
func (s Span) Children() []Span { return s.children }

// Position returns the 1-based line/column of the span's start offset.
func (s Span) Position() Position { return PositionAt(s.source, s.start) }
