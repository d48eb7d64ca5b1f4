package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhamidi/fishast/fish/parser"
)

var (
	colorError = lipgloss.Color("#EF4444")
	colorMuted = lipgloss.Color("#6B7280")
	colorOK    = lipgloss.Color("#10B981")

	pathStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	caretStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	sourceStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	summaryStyle = lipgloss.NewStyle().Foreground(colorOK)
)

// renderError styles err as Describe lays it out: the message, then the
// offending source line and its caret line. A non-empty path prefixes the
// message.
func renderError(path, src string, err *parser.ParseError) string {
	lines := strings.Split(err.Describe(src), "\n")

	var b strings.Builder
	if path != "" {
		b.WriteString(pathStyle.Render(path))
		b.WriteString(": ")
	}
	b.WriteString(errorStyle.Render(lines[0]))
	if n := len(lines); n >= 3 {
		for _, line := range lines[1 : n-1] {
			b.WriteString("\n")
			b.WriteString(sourceStyle.Render(line))
		}
		b.WriteString("\n")
		b.WriteString(caretStyle.Render(lines[n-1]))
	}
	return b.String()
}

func renderMessage(path, msg string) string {
	return pathStyle.Render(path) + ": " + errorStyle.Render(msg)
}
