// Package goldmark renders source text with the goldmark CommonMark
// engine. The CLI exposes it next to the native renderer so output can be
// compared against a full CommonMark implementation.
package goldmark

import (
	"fmt"
	"io"

	"github.com/yuin/goldmark"
)

// Engine wraps a configured goldmark instance. The zero value is not
// usable; construct with New.
type Engine struct {
	md goldmark.Markdown
}

// New returns an engine with goldmark's CommonMark defaults.
func New() *Engine {
	return &Engine{md: goldmark.New()}
}

// Render converts source and writes the HTML to w.
func (e *Engine) Render(w io.Writer, source []byte) error {
	if err := e.md.Convert(source, w); err != nil {
		return fmt.Errorf("goldmark conversion: %w", err)
	}
	return nil
}
