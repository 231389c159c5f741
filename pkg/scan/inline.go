package scan

import (
	"strings"

	"github.com/quillsoft/mdtree/pkg/span"
)

// isSpecial reports whether a byte can open or close inline markup. The
// tokenizer emits these as single symbol tokens when no construct matches,
// so unmatched markup degrades to plain text instead of failing.
func isSpecial(c byte) bool {
	switch c {
	case '*', '`', '[', ']', '(', ')', '<', '>', '!', '\\', '#', '"', '\'':
		return true
	default:
		return false
	}
}

// scanInlines tokenizes a run of paragraph-style lines. Line joints become
// soft linebreak spans, or hard linebreak spans when a line ends with two
// or more trailing spaces.
func (s *scanner) scanInlines(segs []line) []span.Span {
	var out []span.Span
	for idx, seg := range segs {
		start := seg.start + indentOf(s.content(seg))
		end := seg.end

		hard := false
		if idx < len(segs)-1 {
			trailing := 0
			for end-1-trailing >= start && s.src[end-1-trailing] == ' ' {
				trailing++
			}
			if trailing >= 2 {
				hard = true
			}
			end -= trailing
		}

		out = append(out, s.tokenize(start, end)...)

		if idx < len(segs)-1 {
			rule := span.RuleSoftLinebreak
			if hard {
				rule = span.RuleLinebreak
			}
			out = append(out, span.New(rule, s.src, end, seg.nl, nil))
		}
	}
	return out
}

// tokenize recognizes inline content over [start, end). Plaintext comes out
// at word/space/symbol/escape granularity; markup constructs come out as
// structured spans with tokenized sub-spans.
func (s *scanner) tokenize(start, end int) []span.Span {
	var out []span.Span
	pos := start
	for pos < end {
		c := s.src[pos]
		switch {
		case c == ' ' || c == '\t':
			p := pos
			for pos < end && (s.src[pos] == ' ' || s.src[pos] == '\t') {
				pos++
			}
			out = append(out, span.New(span.RuleSpace, s.src, p, pos, nil))

		case c == '\\' && pos+1 < end && isSpecial(s.src[pos+1]):
			out = append(out, span.New(span.RuleEscaped, s.src, pos, pos+2, nil))
			pos += 2

		case c == '*':
			if sp, ok := s.scanEmphasis(pos, end); ok {
				out = append(out, sp)
				pos = sp.End()
				break
			}
			out = append(out, span.New(span.RuleSymbol, s.src, pos, pos+1, nil))
			pos++

		case c == '`':
			if sp, ok := s.scanCode(pos, end); ok {
				out = append(out, sp)
				pos = sp.End()
				break
			}
			out = append(out, span.New(span.RuleSymbol, s.src, pos, pos+1, nil))
			pos++

		case c == '!' && pos+1 < end && s.src[pos+1] == '[':
			if sp, ok := s.scanLinkLike(pos, pos+1, end, true); ok {
				out = append(out, sp)
				pos = sp.End()
				break
			}
			out = append(out, span.New(span.RuleSymbol, s.src, pos, pos+1, nil))
			pos++

		case c == '[':
			if sp, ok := s.scanLinkLike(pos, pos, end, false); ok {
				out = append(out, sp)
				pos = sp.End()
				break
			}
			out = append(out, span.New(span.RuleSymbol, s.src, pos, pos+1, nil))
			pos++

		case c == '<':
			if sp, ok := s.scanAutolink(pos, end); ok {
				out = append(out, sp)
				pos = sp.End()
				break
			}
			out = append(out, span.New(span.RuleSymbol, s.src, pos, pos+1, nil))
			pos++

		case isSpecial(c):
			out = append(out, span.New(span.RuleSymbol, s.src, pos, pos+1, nil))
			pos++

		default:
			p := pos
			for pos < end && s.src[pos] != ' ' && s.src[pos] != '\t' && !isSpecial(s.src[pos]) {
				pos++
			}
			out = append(out, span.New(span.RuleStr, s.src, p, pos, nil))
		}
	}
	return out
}

// scanEmphasis matches **strong** or *emphasis* starting at pos.
func (s *scanner) scanEmphasis(pos, end int) (span.Span, bool) {
	if pos+1 < end && s.src[pos+1] == '*' {
		rel := strings.Index(s.src[pos+2:end], "**")
		if rel < 1 {
			return span.Span{}, false
		}
		inner := s.tokenize(pos+2, pos+2+rel)
		return span.New(span.RuleStrong, s.src, pos, pos+2+rel+2, inner), true
	}

	rel := strings.IndexByte(s.src[pos+1:end], '*')
	if rel < 1 {
		return span.Span{}, false
	}
	inner := s.tokenize(pos+1, pos+1+rel)
	return span.New(span.RuleEmphasis, s.src, pos, pos+1+rel+1, inner), true
}

// scanCode matches `inline code` starting at pos. The content is a single
// raw sub-span; the builder coalesces it into the code node's text.
func (s *scanner) scanCode(pos, end int) (span.Span, bool) {
	rel := strings.IndexByte(s.src[pos+1:end], '`')
	if rel < 1 {
		return span.Span{}, false
	}
	raw := span.New(span.RuleRaw, s.src, pos+1, pos+1+rel, nil)
	return span.New(span.RuleCode, s.src, pos, pos+1+rel+1, []span.Span{raw}), true
}

// scanLinkLike matches [label](dest "title"), a shortcut [label], or the
// image forms of the same. start is the span's first byte ('!' for images),
// lb the opening bracket.
func (s *scanner) scanLinkLike(start, lb, end int, image bool) (span.Span, bool) {
	rel := strings.IndexByte(s.src[lb+1:end], ']')
	if rel < 1 {
		return span.Span{}, false
	}
	rb := lb + 1 + rel
	label := span.New(span.RuleLabel, s.src, lb+1, rb, s.tokenize(lb+1, rb))

	if rb+1 >= end || s.src[rb+1] != '(' {
		if image {
			return span.Span{}, false
		}
		// Shortcut form: a label alone. The builder makes it
		// self-referential; rendering resolves it by name.
		return span.New(span.RuleDirectedLink, s.src, start, rb+1, []span.Span{label}), true
	}

	crel := strings.IndexByte(s.src[rb+2:end], ')')
	if crel < 0 {
		return span.Span{}, false
	}
	cb := rb + 2 + crel

	destStart := rb + 2
	for destStart < cb && s.src[destStart] == ' ' {
		destStart++
	}
	destEnd := destStart
	for destEnd < cb && s.src[destEnd] != ' ' {
		destEnd++
	}
	kids := []span.Span{label, span.New(span.RuleSource, s.src, destStart, destEnd, nil)}

	ts := destEnd
	for ts < cb && s.src[ts] == ' ' {
		ts++
	}
	if ts < cb && s.src[ts] == '"' {
		trel := strings.IndexByte(s.src[ts+1:cb], '"')
		if trel >= 0 {
			kids = append(kids, span.New(span.RuleTitle, s.src, ts+1, ts+1+trel, nil))
		}
	}

	rule := span.RuleDirectedLink
	if image {
		rule = span.RuleImage
	}
	return span.New(rule, s.src, start, cb+1, kids), true
}

// scanAutolink matches <scheme://destination> starting at pos.
func (s *scanner) scanAutolink(pos, end int) (span.Span, bool) {
	rel := strings.IndexByte(s.src[pos+1:end], '>')
	if rel < 1 {
		return span.Span{}, false
	}
	gt := pos + 1 + rel
	url := s.src[pos+1 : gt]
	if strings.ContainsAny(url, " \t") || !strings.Contains(url, "://") {
		return span.Span{}, false
	}
	label := span.New(span.RuleLabel, s.src, pos+1, gt, s.tokenize(pos+1, gt))
	return span.New(span.RuleAutolink, s.src, pos, gt+1, []span.Span{label}), true
}
