package console

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func doubleDemo(log Log) error {
	log.Appendf("%d -> %d", 2, 2*2)
	return nil
}

type dispatchFixture struct {
	reg    *Registry
	sink   *LogSink
	looper *Looper
	d      *Dispatcher
	logs   *bytes.Buffer
}

func newDispatchFixture(t *testing.T) *dispatchFixture {
	t.Helper()
	reg := NewRegistry()
	reg.MustRegister("double", "Double", doubleDemo)
	reg.MustRegister("fails", "Fails", func(log Log) error {
		log.Append("before failure")
		return errors.New("bad input")
	})
	reg.MustRegister("panics", "Panics", func(log Log) error {
		log.Append("before panic")
		panic("index out of range")
	})
	reg.MustRegister("multiline", "Multiline", func(Log) error {
		return errors.New("first\nsecond")
	})
	reg.MustRegister("writer", "Writer", func(log Log) error {
		fmt.Fprint(log.Writer(), "unterminated")
		return errors.New("stopped")
	})
	reg.MustRegister("writers", "Writers", func(log Log) error {
		var wg sync.WaitGroup
		for _, name := range []string{"a", "b"} {
			w := log.Writer()
			wg.Add(1)
			go func() {
				defer wg.Done()
				fmt.Fprintf(w, "worker %s", name)
			}()
		}
		wg.Wait()
		return nil
	})
	reg.Seal()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l := NewLooper()
	t.Cleanup(l.Close)
	sink := NewLogSink(l)
	return &dispatchFixture{
		reg:    reg,
		sink:   sink,
		looper: l,
		d:      NewDispatcher(reg, sink, WithDispatcherLogger(logger)),
		logs:   &logs,
	}
}

func (f *dispatchFixture) lines() []string {
	f.looper.Sync()
	return f.sink.CurrentSnapshot().Strings()
}

func TestDispatcherRunDouble(t *testing.T) {
	f := newDispatchFixture(t)
	f.d.Run("double")

	want := []string{"=== running double ===", "2 -> 4"}
	if diff := cmp.Diff(want, f.lines()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestDispatcherRunTwice(t *testing.T) {
	f := newDispatchFixture(t)
	f.d.Run("double")
	f.d.Run("double")

	want := []string{
		"=== running double ===", "2 -> 4",
		"=== running double ===", "2 -> 4",
	}
	if diff := cmp.Diff(want, f.lines()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestDispatcherClearThenRun(t *testing.T) {
	f := newDispatchFixture(t)
	f.d.Run("double")
	f.d.Run("double")
	f.d.Execute(ClearLog{})
	if got := f.lines(); len(got) != 0 {
		t.Fatalf("expected empty log after clear, got %v", got)
	}

	f.d.Execute(RunDemo{ID: "double"})
	want := []string{"=== running double ===", "2 -> 4"}
	if diff := cmp.Diff(want, f.lines()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if seq := f.sink.CurrentSnapshot().Seq(); seq != 2 {
		t.Fatalf("expected sequence to restart after clear, got %d", seq)
	}
}

func TestDispatcherUnknownDemo(t *testing.T) {
	f := newDispatchFixture(t)
	f.d.Run("double")
	before := f.reg.Entries()

	f.d.Run("nonexistent")

	want := []string{"=== running double ===", "2 -> 4", "unknown demo 'nonexistent'"}
	if diff := cmp.Diff(want, f.lines()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	after := f.reg.Entries()
	if len(before) != len(after) {
		t.Fatalf("resolution table changed: %d entries before, %d after", len(before), len(after))
	}
	if _, ok := f.reg.Lookup("nonexistent"); ok {
		t.Fatal("unknown id was added to the registry")
	}
}

func TestDispatcherHandlerError(t *testing.T) {
	f := newDispatchFixture(t)
	f.d.Run("fails")
	f.d.Run("double")

	want := []string{
		"=== running fails ===",
		"before failure",
		"demo 'fails' failed: bad input",
		"=== running double ===",
		"2 -> 4",
	}
	if diff := cmp.Diff(want, f.lines()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if !strings.Contains(f.logs.String(), "demo=fails") {
		t.Errorf("expected failure to be reported to the logger, got %q", f.logs.String())
	}
}

func TestDispatcherHandlerPanic(t *testing.T) {
	f := newDispatchFixture(t)
	f.d.Run("panics")

	want := []string{
		"=== running panics ===",
		"before panic",
		"demo 'panics' failed: index out of range",
	}
	if diff := cmp.Diff(want, f.lines()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if !strings.Contains(f.logs.String(), "stack=") {
		t.Errorf("expected panic stack in debug log")
	}
}

func TestDispatcherFoldsMultilineErrors(t *testing.T) {
	f := newDispatchFixture(t)
	f.d.Run("multiline")

	want := []string{"=== running multiline ===", "demo 'multiline' failed: first second"}
	if diff := cmp.Diff(want, f.lines()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestDispatcherFlushesWriterBeforeFailure(t *testing.T) {
	f := newDispatchFixture(t)
	f.d.Run("writer")

	want := []string{"=== running writer ===", "unterminated", "demo 'writer' failed: stopped"}
	if diff := cmp.Diff(want, f.lines()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestDispatcherFlushesEveryWriter(t *testing.T) {
	f := newDispatchFixture(t)
	f.d.Run("writers")
	f.d.Run("double")

	want := []string{"=== running writers ===", "worker a", "worker b", "=== running double ===", "2 -> 4"}
	if diff := cmp.Diff(want, f.lines()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestHandlerErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := error(&HandlerError{ID: "x", Err: &PanicError{Value: cause}})

	if !errors.Is(err, cause) {
		t.Fatal("expected HandlerError to unwrap to the panic value")
	}
	var perr *PanicError
	if !errors.As(err, &perr) {
		t.Fatal("expected a PanicError in the chain")
	}
	if err.Error() != "demo 'x' failed: cause" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
