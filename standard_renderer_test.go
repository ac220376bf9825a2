package console

import (
	"strings"
	"testing"
	"time"
)

type viewModel string

func (viewModel) Init() Cmd                 { return nil }
func (m viewModel) Update(Msg) (Model, Cmd) { return m, nil }
func (m viewModel) View() string            { return string(m) }

func TestStandardRendererFlushesLatestFrame(t *testing.T) {
	var buf safeBuffer
	r := newRenderer(&buf, 120)
	r.render(viewModel("first"))
	r.render(viewModel("second\nline"))
	r.start()

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(buf.String(), "second\r\nline\r\n") {
		if time.Now().After(deadline) {
			t.Fatalf("frame was never flushed, got %q", buf.String())
		}
		time.Sleep(time.Millisecond)
	}
	r.stop()

	out := buf.String()
	if strings.Count(out, clearScreen) != 1 {
		t.Errorf("expected a single redraw for an unchanged frame, got %q", out)
	}
}

func TestStandardRendererStopFlushes(t *testing.T) {
	var buf safeBuffer
	r := newRenderer(&buf, 1)
	r.start()
	r.render(viewModel("final"))
	r.stop()

	if !strings.HasSuffix(buf.String(), "final\r\n") {
		t.Fatalf("expected final frame on stop, got %q", buf.String())
	}
}

func TestStandardRendererStopWithoutStart(t *testing.T) {
	r := newRenderer(&safeBuffer{}, 0)
	r.stop()
}

func TestRenderString(t *testing.T) {
	if got := RenderString(nil); got != "" {
		t.Errorf("expected empty frame for nil model, got %q", got)
	}
	if got := RenderString(viewModel("")); got != "" {
		t.Errorf("expected empty frame for empty view, got %q", got)
	}
	if got := RenderString(viewModel("a\r\nb\n")); got != "a\r\nb\r\n" {
		t.Errorf("unexpected frame %q", got)
	}
}
