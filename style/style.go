// Package style holds the terminal styles of the console screen.
package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	AccentColor     = lipgloss.Color("#7D56F4")
	MutedColor      = lipgloss.Color("#6C6C6C")
	DiagnosticColor = lipgloss.Color("#FF5F87")
	HeaderColor     = lipgloss.Color("#5FAFFF")
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)
	menuKeyStyle    = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)
	menuNameStyle   = lipgloss.NewStyle().Foreground(MutedColor)
	headerStyle     = lipgloss.NewStyle().Bold(true).Foreground(HeaderColor)
	diagnosticStyle = lipgloss.NewStyle().Foreground(DiagnosticColor)
	hintStyle       = lipgloss.NewStyle().Foreground(MutedColor).Italic(true)
)

// Title renders the screen heading.
func Title(s string) string {
	return titleStyle.Render(s)
}

// Hint renders the key help under the log.
func Hint(s string) string {
	return hintStyle.Render(s)
}

// MenuItem renders one entry of the demo menu.
func MenuItem(id, name string) string {
	if name == "" || name == id {
		return menuKeyStyle.Render(id)
	}
	return menuKeyStyle.Render(id) + " " + menuNameStyle.Render(name)
}

// MenuRows lays items out in rows no wider than width cells, separated by
// two spaces. An item wider than width gets a row of its own.
func MenuRows(width int, items []string) []string {
	var (
		rows []string
		row  string
	)
	for _, item := range items {
		switch {
		case row == "":
			row = item
		case width > 0 && Width(row)+2+Width(item) > width:
			rows = append(rows, row)
			row = item
		default:
			row += "  " + item
		}
	}
	if row != "" {
		rows = append(rows, row)
	}
	return rows
}

// Line styles a single log line by its shape: run headers and failure
// diagnostics are highlighted, anything else is left alone.
func Line(s string) string {
	switch {
	case strings.HasPrefix(s, "=== running ") && strings.HasSuffix(s, " ==="):
		return headerStyle.Render(s)
	case strings.HasPrefix(s, "unknown demo '"),
		strings.HasPrefix(s, "demo '") && strings.Contains(s, "' failed: "):
		return diagnosticStyle.Render(s)
	}
	return s
}

// Lines applies Line to every line of s.
func Lines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = Line(l)
	}
	return strings.Join(lines, "\n")
}

// Frame draws a rounded border of the given inner width around content.
func Frame(width int, content string) string {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor)
	if width > 0 {
		s = s.Width(width)
	}
	return s.Render(content)
}

// Join stacks blocks vertically, left aligned.
func Join(blocks ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// Width returns the cell width of the widest line in s.
func Width(s string) int {
	return lipgloss.Width(s)
}
