package pretty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quillsoft/mdtree/pkg/ast"
	"github.com/quillsoft/mdtree/pkg/scan"
	"github.com/quillsoft/mdtree/pkg/span"
)

// FormatParseError formats a scan or build failure with its source
// context: a path:line:col header, the offending line, and a caret under
// the failing column.
func (s *Styles) FormatParseError(path, source string, err error) string {
	pos, msg := describe(err)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s %s %s\n",
		s.FilePath.Render(path)+s.Location.Render(fmt.Sprintf(":%s", pos)),
		s.Error.Render("error:"),
		s.Message.Render(msg),
	))

	if pos.IsValid() {
		builder.WriteString(s.formatSourceContext(source, pos))
	}
	return builder.String()
}

// describe pulls the position and message out of the error taxonomy.
func describe(err error) (span.Position, string) {
	var serr *scan.Error
	if errors.As(err, &serr) {
		return serr.Pos, serr.Msg
	}

	var berr *ast.SyntaxError
	if errors.As(err, &berr) {
		return berr.Pos, berr.Msg
	}

	return span.Position{}, err.Error()
}

func (s *Styles) formatSourceContext(source string, pos span.Position) string {
	line := lineContent(source, pos.Line)
	if line == "" {
		return ""
	}

	const indent = "    "
	var builder strings.Builder
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if pos.Column > 0 && pos.Column <= len(line)+1 {
		builder.WriteString(indent + strings.Repeat(" ", pos.Column-1) + s.Caret.Render("^") + "\n")
	}
	return builder.String()
}

// lineContent returns the 1-based line from source, without its newline.
func lineContent(source string, lineNo int) string {
	offset := 0
	for n := 1; n < lineNo; n++ {
		next := strings.IndexByte(source[offset:], '\n')
		if next < 0 {
			return ""
		}
		offset += next + 1
	}
	return span.LineAt(source, offset)
}
