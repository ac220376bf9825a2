package console

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Viewport is a line-based Surface for terminals. Its extent is the number
// of lines of text and its scroll position is the index of the first
// visible line.
//
// A Viewport is not safe for concurrent use; it belongs to the execution
// context of the screen that draws it.
type Viewport struct {
	width  int
	height int
	offset int
	lines  []string
}

// NewViewport creates a viewport showing height lines of at most width
// characters. A width below 1 disables truncation.
func NewViewport(width, height int) *Viewport {
	v := &Viewport{}
	v.SetSize(width, height)
	return v
}

// SetSize changes the viewport's dimensions, keeping the offset in range.
func (v *Viewport) SetSize(width, height int) {
	if height < 1 {
		height = 1
	}
	v.width = width
	v.height = height
	v.offset = v.clamp(v.offset)
}

// Width returns the viewport width.
func (v *Viewport) Width() int { return v.width }

// Height returns the number of visible lines.
func (v *Viewport) Height() int { return v.height }

// SetText replaces the content. The offset is left where it was, so the
// view does not follow new lines until it is scrolled.
func (v *Viewport) SetText(text string) {
	if text == "" {
		v.lines = nil
	} else {
		v.lines = strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	}
	v.offset = v.clamp(v.offset)
}

// Extent returns the number of content lines.
func (v *Viewport) Extent() int { return len(v.lines) }

// ScrollTo positions the view so that line pos is just past the last
// visible line. Out-of-range positions are clamped.
func (v *Viewport) ScrollTo(pos int) {
	v.offset = v.clamp(pos - v.height)
}

// Offset returns the index of the first visible line.
func (v *Viewport) Offset() int { return v.offset }

// AtBottom reports whether the last content line is visible.
func (v *Viewport) AtBottom() bool { return v.offset == v.maxOffset() }

// VisibleLines returns the content lines currently in view.
func (v *Viewport) VisibleLines() []string {
	end := v.offset + v.height
	if end > len(v.lines) {
		end = len(v.lines)
	}
	return v.lines[v.offset:end]
}

// View renders the visible lines, truncated to the width and padded to the
// height.
func (v *Viewport) View() string {
	var b strings.Builder
	visible := v.VisibleLines()
	for i := 0; i < v.height; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i < len(visible) {
			b.WriteString(truncate(visible[i], v.width))
		}
	}
	return b.String()
}

func (v *Viewport) maxOffset() int {
	if n := len(v.lines) - v.height; n > 0 {
		return n
	}
	return 0
}

func (v *Viewport) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if m := v.maxOffset(); offset > m {
		return m
	}
	return offset
}

// truncate cuts s to width terminal cells. Wide characters count as two.
func truncate(s string, width int) string {
	if width < 1 {
		return s
	}
	return ansi.Truncate(s, width, "")
}
