package console

import "strings"

// RenderString renders the given Model's view as a terminal frame: line
// endings are normalized to "\r\n" so the frame draws correctly on a raw
// terminal, and the frame always ends with a line break.
func RenderString(m Model) string {
	if m == nil {
		return ""
	}
	view := m.View()
	if view == "" {
		return ""
	}
	view = strings.ReplaceAll(view, "\r\n", "\n")
	view = strings.TrimSuffix(view, "\n")
	return strings.ReplaceAll(view, "\n", "\r\n") + "\r\n"
}
