package html_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/quillsoft/mdtree/pkg/ast"
	"github.com/quillsoft/mdtree/pkg/render/html"
)

func render(t *testing.T, input string, opts ...html.Option) string {
	t.Helper()
	doc, err := ast.Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}

	var sb strings.Builder
	if err := html.Render(&sb, doc, opts...); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return sb.String()
}

func TestRenderBasicMarkup(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"heading", "## Title\n", "<h2>Title</h2>"},
		{"paragraph", "plain words\n", "<p>plain words</p>"},
		{"emphasis", "an *em* word\n", "<p>an <em>em</em> word</p>"},
		{"strong", "**bold** start\n", "<p><strong>bold</strong> start</p>"},
		{"inline code", "run `go vet` now\n", "<p>run <code>go vet</code> now</p>"},
		{"blockquote", "> quoted\n", "<blockquote><p>quoted</p></blockquote>"},
		{"hard break", "a  \nb\n", "<p>a<br/>b</p>"},
		{"soft break", "a\nb\n", "<p>a b</p>"},
		{"image", "![alt](pic.png)\n", `<p><img src="pic.png" alt="alt"/></p>`},
		{"escaping", "a <tag> & \"q\"\n", "<p>a &lt;tag&gt; &amp; &quot;q&quot;</p>"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := render(t, tc.input); got != tc.want {
				t.Fatalf("render(%q):\n  got  %s\n  want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestRenderLists(t *testing.T) {
	t.Parallel()

	t.Run("tight bullet", func(t *testing.T) {
		t.Parallel()
		got := render(t, "- a\n- b\n")
		want := "<ul><li>a</li><li>b</li></ul>"
		if got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	})

	t.Run("loose wraps items in paragraphs", func(t *testing.T) {
		t.Parallel()
		got := render(t, "- a\n\n- b\n")
		want := "<ul><li><p>a</p></li><li><p>b</p></li></ul>"
		if got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	})

	t.Run("ordered start offset", func(t *testing.T) {
		t.Parallel()
		got := render(t, "3. a\n4. b\n")
		want := `<ol start="3"><li>a</li><li>b</li></ol>`
		if got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	})

	t.Run("ordered from one omits start", func(t *testing.T) {
		t.Parallel()
		got := render(t, "1. a\n")
		want := "<ol><li>a</li></ol>"
		if got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	})
}

func TestRenderCodeBlocks(t *testing.T) {
	t.Parallel()

	t.Run("fenced with language", func(t *testing.T) {
		t.Parallel()
		got := render(t, "```go\nx := 1\n```\n")
		want := `<pre><code class="language-go">x := 1` + "\n</code></pre>"
		if got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	})

	t.Run("fenced without language", func(t *testing.T) {
		t.Parallel()
		got := render(t, "```\nplain\n```\n")
		want := "<pre><code>plain\n</code></pre>"
		if got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	})

	t.Run("detector fills missing language", func(t *testing.T) {
		t.Parallel()
		detect := func(content string) string {
			if !strings.Contains(content, "plain") {
				t.Errorf("detector saw %q, want the block body", content)
			}
			return "text"
		}
		got := render(t, "```\nplain\n```\n", html.WithDetector(detect))
		want := `<pre><code class="language-text">plain` + "\n</code></pre>"
		if got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	})

	t.Run("detector does not override explicit language", func(t *testing.T) {
		t.Parallel()
		detect := func(string) string { return "wrong" }
		got := render(t, "```go\nx\n```\n", html.WithDetector(detect))
		if !strings.Contains(got, "language-go") {
			t.Fatalf("got %s, want language-go", got)
		}
	})
}

func TestRenderEmptyContainersBalanced(t *testing.T) {
	t.Parallel()

	t.Run("empty fenced block", func(t *testing.T) {
		t.Parallel()
		got := render(t, "```\n```")
		want := "<pre><code></code></pre>"
		if got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	})

	t.Run("empty block quote", func(t *testing.T) {
		t.Parallel()
		got := render(t, ">\n")
		want := "<blockquote></blockquote>"
		if got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	})
}

func TestRenderLinks(t *testing.T) {
	t.Parallel()

	t.Run("directed", func(t *testing.T) {
		t.Parallel()
		got := render(t, "[here](http://x.io)\n")
		want := `<p><a href="http://x.io">here</a></p>`
		if got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	})

	t.Run("directed with title", func(t *testing.T) {
		t.Parallel()
		got := render(t, "[here](http://x.io \"The Site\")\n")
		want := `<p><a href="http://x.io" title="The Site">here</a></p>`
		if got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	})

	t.Run("autolink", func(t *testing.T) {
		t.Parallel()
		got := render(t, "<http://x.io>\n")
		want := `<p><a href="http://x.io">http://x.io</a></p>`
		if got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	})

	t.Run("shortcut resolves through definitions", func(t *testing.T) {
		t.Parallel()
		input := "see [docs]\n\n[docs]: http://d.io \"D\"\n"
		doc, err := ast.Parse(input)
		if err != nil {
			t.Fatal(err)
		}

		resolver := ast.NewResolver()
		ast.Walk(doc, resolver)

		var sb strings.Builder
		if err := html.Render(&sb, doc, html.WithResolver(resolver)); err != nil {
			t.Fatal(err)
		}
		want := `<p>see <a href="http://d.io" title="D">docs</a></p>`
		if sb.String() != want {
			t.Fatalf("got %s, want %s", sb.String(), want)
		}
	})

	t.Run("unresolved shortcut falls back to its name", func(t *testing.T) {
		t.Parallel()
		got := render(t, "see [docs]\n", html.WithResolver(ast.NewResolver()))
		want := `<p>see <a href="docs">docs</a></p>`
		if got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	})
}

func TestRenderStandalone(t *testing.T) {
	t.Parallel()

	got := render(t, "hi\n", html.WithStandalone())
	want := "<!DOCTYPE html><html><body><p>hi</p></body></html>"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestRenderReferenceDefinitionsProduceNoOutput(t *testing.T) {
	t.Parallel()

	got := render(t, "[r]: http://x.io\n\ntext\n")
	want := "<p>text</p>"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("sink closed") }

func TestRenderWriteErrorStopsWalk(t *testing.T) {
	t.Parallel()

	doc, err := ast.Parse("some text\n")
	if err != nil {
		t.Fatal(err)
	}

	if err := html.Render(failWriter{}, doc); err == nil {
		t.Fatal("Render returned nil, want the write error")
	}
}
