package ast

import (
	"fmt"

	"github.com/quillsoft/mdtree/pkg/span"
)

// SyntaxError reports a tagged span whose shape does not admit a node: a
// missing required sub-span, an unconvertible enumerator, or a rule the
// builder has no mapping for. No partial tree is returned alongside one.
type SyntaxError struct {
	Msg  string
	Text string
	Pos  span.Position
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid document structure at %s: %s in %q: %v", e.Pos, e.Msg, e.Text, e.Err)
	}
	return fmt.Sprintf("invalid document structure at %s: %s in %q", e.Pos, e.Msg, e.Text)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func syntaxErrorf(sp span.Span, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Msg:  fmt.Sprintf(format, args...),
		Text: clipText(sp.Text()),
		Pos:  sp.Position(),
	}
}

// clipText bounds the offending text carried in an error message.
func clipText(text string) string {
	const max = 80
	if len(text) > max {
		return text[:max] + "..."
	}
	return text
}
