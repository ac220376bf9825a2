package console

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func numbered(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("line ")
		b.WriteByte(byte('a' + i%26))
		b.WriteByte('\n')
	}
	return b.String()
}

func TestViewportExtent(t *testing.T) {
	vp := NewViewport(10, 3)
	if vp.Extent() != 0 {
		t.Fatalf("expected empty viewport, got extent %d", vp.Extent())
	}
	vp.SetText("\n")
	if vp.Extent() != 1 {
		t.Fatalf("expected one empty line, got extent %d", vp.Extent())
	}
	vp.SetText(numbered(7))
	if vp.Extent() != 7 {
		t.Fatalf("expected extent 7, got %d", vp.Extent())
	}
}

func TestViewportScrollToClamps(t *testing.T) {
	vp := NewViewport(10, 3)
	vp.SetText(numbered(10))

	vp.ScrollTo(vp.Extent())
	if vp.Offset() != 7 || !vp.AtBottom() {
		t.Fatalf("expected offset 7 at bottom, got %d", vp.Offset())
	}

	vp.ScrollTo(100)
	if vp.Offset() != 7 {
		t.Fatalf("expected offset clamped to 7, got %d", vp.Offset())
	}

	vp.ScrollTo(-5)
	if vp.Offset() != 0 {
		t.Fatalf("expected offset clamped to 0, got %d", vp.Offset())
	}
	if vp.AtBottom() {
		t.Fatal("expected viewport to not be at bottom")
	}
}

func TestViewportSetTextKeepsOffset(t *testing.T) {
	vp := NewViewport(10, 3)
	vp.SetText(numbered(5))
	vp.ScrollTo(5)

	vp.SetText(numbered(8))
	if vp.Offset() != 2 {
		t.Fatalf("expected offset to stay at 2 until scrolled, got %d", vp.Offset())
	}
	if vp.AtBottom() {
		t.Fatal("expected new lines to be below the view")
	}

	vp.SetText("")
	if vp.Offset() != 0 {
		t.Fatalf("expected offset to reset when content shrinks, got %d", vp.Offset())
	}
}

func TestViewportView(t *testing.T) {
	vp := NewViewport(4, 3)
	vp.SetText("abcdef\nxy\n")

	want := "abcd\nxy\n"
	if got := vp.View(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestViewportViewWideCharacters(t *testing.T) {
	vp := NewViewport(10, 2)
	vp.SetText("线程池核心线程数量演示完毕\n任务 ✅ ok")

	lines := strings.Split(vp.View(), "\n")
	if lines[0] != "线程池核心" {
		t.Fatalf("expected the first line cut to 10 cells, got %q", lines[0])
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w > 10 {
			t.Errorf("line %d is %d cells wide: %q", i, w, line)
		}
	}
}

func TestViewportSetSize(t *testing.T) {
	vp := NewViewport(10, 0)
	if vp.Height() != 1 {
		t.Fatalf("expected minimum height 1, got %d", vp.Height())
	}

	vp.SetText(numbered(10))
	vp.ScrollTo(10)
	vp.SetSize(10, 4)
	if vp.Offset() != 6 {
		t.Fatalf("expected offset 6 after resize, got %d", vp.Offset())
	}
	if len(vp.VisibleLines()) != 4 {
		t.Fatalf("expected 4 visible lines, got %d", len(vp.VisibleLines()))
	}
}
