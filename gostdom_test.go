package console

import (
	"strings"
	"testing"

	"github.com/gost-dom/browser/html"
)

func TestDOMSurface(t *testing.T) {
	win, err := NewConsoleWindow("Demo console")
	if err != nil {
		t.Fatalf("failed to create gost-dom window: %v", err)
	}
	s, err := NewDOMSurface(win, ConsoleSelector)
	if err != nil {
		t.Fatalf("failed to bind surface: %v", err)
	}

	s.SetText("=== running double ===\n2 -> 4\n")
	if got := s.Extent(); got != 2 {
		t.Fatalf("expected extent 2, got %d", got)
	}
	s.ScrollTo(s.Extent())
	if got := s.ScrollLine(); got != 2 {
		t.Fatalf("expected scroll line 2, got %d", got)
	}

	container, _ := win.Document().QuerySelector(ConsoleSelector)
	if v, ok := container.GetAttribute(ScrollLineAttr); !ok || v != "2" {
		t.Fatalf("expected %s=2 on the container, got %q", ScrollLineAttr, v)
	}

	body := s.HTML()
	if !strings.Contains(body, "2 -&gt; 4") {
		t.Errorf("expected escaped log text in body, got %q", body)
	}
	if !strings.Contains(body, "Demo console") {
		t.Errorf("expected title in body, got %q", body)
	}
}

func TestDOMSurfaceCreatesPre(t *testing.T) {
	win, err := html.NewWindowReader(strings.NewReader(`<!DOCTYPE html><html><body><div id="log"></div></body></html>`))
	if err != nil {
		t.Fatalf("failed to create gost-dom window: %v", err)
	}
	s, err := NewDOMSurface(win, "#log")
	if err != nil {
		t.Fatalf("failed to bind surface: %v", err)
	}
	s.SetText("a\n")
	if !strings.Contains(s.HTML(), "<pre>a\n</pre>") {
		t.Fatalf("expected a <pre> to be created, got %q", s.HTML())
	}
}

func TestDOMSurfaceMissingContainer(t *testing.T) {
	win, err := NewConsoleWindow("x")
	if err != nil {
		t.Fatalf("failed to create gost-dom window: %v", err)
	}
	if _, err := NewDOMSurface(win, "#missing"); err == nil {
		t.Fatal("expected an error for a missing container")
	}
}

func TestPresenterDrivesDOMSurface(t *testing.T) {
	win, err := NewConsoleWindow("x")
	if err != nil {
		t.Fatalf("failed to create gost-dom window: %v", err)
	}
	l := NewLooper()
	defer l.Close()

	var s *DOMSurface
	var bindErr error
	l.Post(func() { s, bindErr = NewDOMSurface(win, ConsoleSelector) })
	l.Sync()
	if bindErr != nil {
		t.Fatal(bindErr)
	}

	sink := NewLogSink(l)
	p := NewScrollPresenter(sink, s, l)
	defer p.Close()

	sink.Append("one\ntwo\nthree")
	settle(l)

	var line int
	l.Post(func() { line = s.ScrollLine() })
	l.Sync()
	if line != 3 {
		t.Fatalf("expected scroll line 3, got %d", line)
	}
}
