package scan_test

import (
	"errors"
	"testing"

	"github.com/quillsoft/mdtree/pkg/scan"
	"github.com/quillsoft/mdtree/pkg/span"
)

func mustScan(t *testing.T, input string) span.Span {
	t.Helper()
	root, err := scan.Scan(input)
	if err != nil {
		t.Fatalf("Scan(%q) failed: %v", input, err)
	}
	return root
}

// body returns the document's sub-spans without the trailing EOI.
func body(t *testing.T, root span.Span) []span.Span {
	t.Helper()
	kids := root.Children()
	if len(kids) == 0 || kids[len(kids)-1].Rule() != span.RuleEOI {
		t.Fatalf("document does not end in EOI: %v", kids)
	}
	return kids[:len(kids)-1]
}

func TestScanDocumentShape(t *testing.T) {
	t.Parallel()

	input := "# Top\n\ntext here\n"
	root := mustScan(t, input)

	if root.Rule() != span.RuleDocument {
		t.Fatalf("root rule = %v, want document", root.Rule())
	}
	if root.Start() != 0 || root.End() != len(input) {
		t.Fatalf("root spans [%d, %d), want [0, %d)", root.Start(), root.End(), len(input))
	}

	bs := body(t, root)
	if len(bs) != 2 {
		t.Fatalf("got %d blocks, want 2", len(bs))
	}
	if bs[0].Rule() != span.RuleHeader || bs[1].Rule() != span.RuleParagraph {
		t.Fatalf("block rules = %v, %v", bs[0].Rule(), bs[1].Rule())
	}
}

func TestScanHeaderMarker(t *testing.T) {
	t.Parallel()

	bs := body(t, mustScan(t, "### Deep title\n"))
	h := bs[0]
	kids := h.Children()
	if kids[0].Rule() != span.RuleHeaderMarker || kids[0].Len() != 3 {
		t.Fatalf("marker = %v len %d, want header_marker len 3", kids[0].Rule(), kids[0].Len())
	}
	if kids[1].Text() != "Deep" {
		t.Fatalf("first title token = %q, want %q", kids[1].Text(), "Deep")
	}
}

func TestScanListShape(t *testing.T) {
	t.Parallel()

	bs := body(t, mustScan(t, "1. a\n2. b\n"))
	list := bs[0]
	if list.Rule() != span.RuleOrderedList {
		t.Fatalf("rule = %v, want ordered_list", list.Rule())
	}
	if len(list.Children()) != 1 {
		t.Fatalf("list has %d children, want the single subform", len(list.Children()))
	}
	sub := list.Children()[0]
	if sub.Rule() != span.RuleListTight {
		t.Fatalf("subform = %v, want list_tight", sub.Rule())
	}
	items := sub.Children()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Text() != "1. a" {
		t.Fatalf("item span = %q, want %q", items[0].Text(), "1. a")
	}
}

func TestScanLooseListSubform(t *testing.T) {
	t.Parallel()

	bs := body(t, mustScan(t, "- a\n\n- b\n"))
	sub := bs[0].Children()[0]
	if sub.Rule() != span.RuleListLoose {
		t.Fatalf("subform = %v, want list_loose", sub.Rule())
	}
}

func TestScanNestedListInsideItem(t *testing.T) {
	t.Parallel()

	bs := body(t, mustScan(t, "- a\n  - b\n"))
	items := bs[0].Children()[0].Children()
	if len(items) != 1 {
		t.Fatalf("got %d outer items, want 1", len(items))
	}

	var nested bool
	for _, kid := range items[0].Children() {
		if kid.Rule() == span.RuleBulletList {
			nested = true
		}
	}
	if !nested {
		t.Fatal("item does not contain a nested bullet_list")
	}
}

func TestScanFence(t *testing.T) {
	t.Parallel()

	input := "```rust\nlet x = 1;\n```\n"
	bs := body(t, mustScan(t, input))
	cb := bs[0]
	if cb.Rule() != span.RuleCodeBlock {
		t.Fatalf("rule = %v, want codeblock", cb.Rule())
	}
	kids := cb.Children()
	if kids[0].Rule() != span.RuleLanguage || kids[0].Text() != "rust" {
		t.Fatalf("language = %v %q, want language %q", kids[0].Rule(), kids[0].Text(), "rust")
	}
	if kids[1].Rule() != span.RuleRaw || kids[1].Text() != "let x = 1;\n" {
		t.Fatalf("body = %v %q", kids[1].Rule(), kids[1].Text())
	}
}

func TestScanFenceWithoutLanguage(t *testing.T) {
	t.Parallel()

	bs := body(t, mustScan(t, "```\nplain\n```\n"))
	kids := bs[0].Children()
	if len(kids) != 1 || kids[0].Rule() != span.RuleRaw {
		t.Fatalf("children = %v, want a single raw body", kids)
	}
}

func TestScanUnterminatedFence(t *testing.T) {
	t.Parallel()

	_, err := scan.Scan("```\nnever closed\n")
	var serr *scan.Error
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want *scan.Error", err)
	}
	if serr.Pos.Line != 1 {
		t.Fatalf("error line = %d, want 1", serr.Pos.Line)
	}
}

func TestScanIndentedCode(t *testing.T) {
	t.Parallel()

	bs := body(t, mustScan(t, "    one\n    two\n"))
	cb := bs[0]
	if cb.Rule() != span.RuleCodeBlock {
		t.Fatalf("rule = %v, want codeblock", cb.Rule())
	}
	raw := cb.Children()[0]
	if raw.Rule() != span.RuleRaw || raw.Text() != cb.Text() {
		t.Fatalf("raw body %q does not cover the block %q", raw.Text(), cb.Text())
	}
}

func TestScanQuoteStripsPrefix(t *testing.T) {
	t.Parallel()

	bs := body(t, mustScan(t, "> inner words\n"))
	quote := bs[0]
	if quote.Rule() != span.RuleVerbatim {
		t.Fatalf("rule = %v, want verbatim", quote.Rule())
	}
	para := quote.Children()[0]
	if para.Rule() != span.RuleParagraph || para.Text() != "inner words" {
		t.Fatalf("inner = %v %q", para.Rule(), para.Text())
	}
}

func TestScanRefDef(t *testing.T) {
	t.Parallel()

	bs := body(t, mustScan(t, "[name]: http://x.io \"A Title\"\n"))
	ref := bs[0]
	if ref.Rule() != span.RuleReference {
		t.Fatalf("rule = %v, want reference", ref.Rule())
	}
	kids := ref.Children()
	if kids[0].Rule() != span.RuleLabel || kids[0].Text() != "name" {
		t.Fatalf("label = %v %q", kids[0].Rule(), kids[0].Text())
	}
	if kids[1].Rule() != span.RuleSource || kids[1].Text() != "http://x.io" {
		t.Fatalf("source = %v %q", kids[1].Rule(), kids[1].Text())
	}
	if kids[2].Rule() != span.RuleTitle || kids[2].Text() != "A Title" {
		t.Fatalf("title = %v %q", kids[2].Rule(), kids[2].Text())
	}
}

func TestScanInlineTokens(t *testing.T) {
	t.Parallel()

	bs := body(t, mustScan(t, "one two\n"))
	kids := bs[0].Children()

	rules := make([]span.Rule, len(kids))
	for i, k := range kids {
		rules[i] = k.Rule()
	}
	want := []span.Rule{span.RuleStr, span.RuleSpace, span.RuleStr}
	if len(rules) != len(want) {
		t.Fatalf("rules = %v, want %v", rules, want)
	}
	for i := range want {
		if rules[i] != want[i] {
			t.Fatalf("rules = %v, want %v", rules, want)
		}
	}
}

func TestScanEmphasisAndStrong(t *testing.T) {
	t.Parallel()

	bs := body(t, mustScan(t, "*a* **b**\n"))
	kids := bs[0].Children()
	if kids[0].Rule() != span.RuleEmphasis || kids[0].Text() != "*a*" {
		t.Fatalf("kids[0] = %v %q", kids[0].Rule(), kids[0].Text())
	}
	if kids[2].Rule() != span.RuleStrong || kids[2].Text() != "**b**" {
		t.Fatalf("kids[2] = %v %q", kids[2].Rule(), kids[2].Text())
	}
}

func TestScanUnmatchedMarkupDegrades(t *testing.T) {
	t.Parallel()

	bs := body(t, mustScan(t, "a * b [c\n"))
	for _, kid := range bs[0].Children() {
		switch kid.Rule() {
		case span.RuleStr, span.RuleSpace, span.RuleSymbol:
		default:
			t.Fatalf("unexpected structured span %v in %q", kid.Rule(), kid.Text())
		}
	}
}

func TestScanAutolinkRequiresScheme(t *testing.T) {
	t.Parallel()

	bs := body(t, mustScan(t, "<http://x.io> <notaurl>\n"))
	kids := bs[0].Children()
	if kids[0].Rule() != span.RuleAutolink {
		t.Fatalf("kids[0] = %v, want autolink", kids[0].Rule())
	}

	for _, kid := range kids[1:] {
		if kid.Rule() == span.RuleAutolink {
			t.Fatalf("%q scanned as an autolink", kid.Text())
		}
	}
}

func TestScanLinkForms(t *testing.T) {
	t.Parallel()

	t.Run("directed with title", func(t *testing.T) {
		bs := body(t, mustScan(t, "[l](http://x.io \"T\")\n"))
		link := bs[0].Children()[0]
		if link.Rule() != span.RuleDirectedLink {
			t.Fatalf("rule = %v, want directed_link", link.Rule())
		}
		kids := link.Children()
		if len(kids) != 3 {
			t.Fatalf("got %d children, want label+source+title", len(kids))
		}
		if kids[1].Text() != "http://x.io" || kids[2].Text() != "T" {
			t.Fatalf("source %q title %q", kids[1].Text(), kids[2].Text())
		}
	})

	t.Run("shortcut", func(t *testing.T) {
		bs := body(t, mustScan(t, "[name]\n"))
		link := bs[0].Children()[0]
		if link.Rule() != span.RuleDirectedLink || len(link.Children()) != 1 {
			t.Fatalf("got %v with %d children, want directed_link with label only",
				link.Rule(), len(link.Children()))
		}
	})

	t.Run("image", func(t *testing.T) {
		bs := body(t, mustScan(t, "![alt](pic.png)\n"))
		img := bs[0].Children()[0]
		if img.Rule() != span.RuleImage {
			t.Fatalf("rule = %v, want image", img.Rule())
		}
	})
}

func TestScanLinebreaks(t *testing.T) {
	t.Parallel()

	bs := body(t, mustScan(t, "hard  \nsoft\nend\n"))
	var rules []span.Rule
	for _, kid := range bs[0].Children() {
		if kid.Rule() == span.RuleLinebreak || kid.Rule() == span.RuleSoftLinebreak {
			rules = append(rules, kid.Rule())
		}
	}
	if len(rules) != 2 || rules[0] != span.RuleLinebreak || rules[1] != span.RuleSoftLinebreak {
		t.Fatalf("joint rules = %v, want [linebreak soft_linebreak]", rules)
	}
}

func TestScanCRLFInput(t *testing.T) {
	t.Parallel()

	bs := body(t, mustScan(t, "# Title\r\n\r\ntext\r\n"))
	if len(bs) != 2 {
		t.Fatalf("got %d blocks, want 2", len(bs))
	}
	if bs[1].Text() != "text" {
		t.Fatalf("paragraph = %q, want %q", bs[1].Text(), "text")
	}
}

func TestScanRejectsInvalidUTF8(t *testing.T) {
	t.Parallel()

	_, err := scan.Scan("bad \xc3\x28 bytes")
	var serr *scan.Error
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want *scan.Error", err)
	}
}

func TestScanDeepNestingBounded(t *testing.T) {
	t.Parallel()

	var input string
	for range 200 {
		input += ">"
	}
	input += " deep\n"

	_, err := scan.Scan(input)
	var serr *scan.Error
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want *scan.Error for runaway nesting", err)
	}
}

func TestScanEmptyInput(t *testing.T) {
	t.Parallel()

	root := mustScan(t, "")
	kids := root.Children()
	if len(kids) != 1 || kids[0].Rule() != span.RuleEOI {
		t.Fatalf("children = %v, want a lone EOI", kids)
	}
}
