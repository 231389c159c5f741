package span

import "fmt"

// Position is a 1-based line and column in the input buffer.
// Column counts bytes, not runes.
type Position struct {
	Line   int
	Column int
}

// String formats the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position has positive line and column values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// PositionAt converts a byte offset into a 1-based line/column position.
// Offsets at or past the end of the buffer report the position one past the
// last byte. A negative offset yields the zero Position.
func PositionAt(source string, offset int) Position {
	if offset < 0 {
		return Position{}
	}
	if offset > len(source) {
		offset = len(source)
	}

	line := 1
	lineStart := 0
	for i := range offset {
		if source[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}

	return Position{Line: line, Column: offset - lineStart + 1}
}

// LineAt returns the content of the line containing offset, without its
// trailing newline. It is used to show source context in diagnostics.
func LineAt(source string, offset int) string {
	if offset < 0 || len(source) == 0 {
		return ""
	}
	if offset > len(source) {
		offset = len(source)
	}

	start := offset
	for start > 0 && source[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(source) && source[end] != '\n' {
		end++
	}
	if end > 0 && source[end-1] == '\r' {
		end--
	}

	return source[start:end]
}
