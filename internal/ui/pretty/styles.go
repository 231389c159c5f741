// Package pretty provides lipgloss-styled terminal output for mdtree's
// diagnostics.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/quillsoft/mdtree/pkg/config"
)

// Styles contains the styled renderers for CLI output.
type Styles struct {
	Error      lipgloss.Style
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	Message    lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	NodeKind lipgloss.Style
	NodeAttr lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a style set, plain or colored.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &Styles{
			Error:      plain,
			FilePath:   plain,
			Location:   plain,
			Message:    plain,
			SourceLine: plain,
			Caret:      plain,
			NodeKind:   plain,
			NodeAttr:   plain,
			Dim:        plain,
			Bold:       plain,
		}
	}

	return &Styles{
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		FilePath:   lipgloss.NewStyle().Bold(true),
		Location:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Message:    lipgloss.NewStyle(),
		SourceLine: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Caret:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		NodeKind:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		NodeAttr:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:       lipgloss.NewStyle().Bold(true),
	}
}

// IsColorEnabled decides whether to color output for the given mode and
// writer. Auto mode requires a TTY and an unset NO_COLOR.
func IsColorEnabled(mode config.ColorMode, writer io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
