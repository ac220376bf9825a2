package console

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    Command
		wantErr bool
		quit    bool
	}{
		{line: "run double", want: RunDemo{ID: "double"}},
		{line: "  double  ", want: RunDemo{ID: "double"}},
		{line: "clear", want: ClearLog{}},
		{line: "", want: nil},
		{line: "# comment", want: nil},
		{line: "quit", quit: true},
		{line: "exit", quit: true},
		{line: "run", wantErr: true},
		{line: "run a b", wantErr: true},
		{line: "clear now", wantErr: true},
		{line: "two words", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			switch {
			case tt.quit:
				if !errors.Is(err, ErrQuit) {
					t.Fatalf("expected ErrQuit, got %v", err)
				}
				return
			case tt.wantErr:
				if err == nil || errors.Is(err, ErrQuit) {
					t.Fatalf("expected a parse error, got %v", err)
				}
				return
			case err != nil:
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestLineSource(t *testing.T) {
	input := strings.Join([]string{
		"# warm up",
		"run double",
		"bogus input here",
		"clear",
		"triple",
		"quit",
		"run never",
	}, "\n")

	var bad []string
	src := &LineSource{
		Reader:  strings.NewReader(input),
		OnError: func(line string, err error) { bad = append(bad, line) },
	}

	var got []Command
	if err := src.Run(context.Background(), func(c Command) { got = append(got, c) }); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []Command{RunDemo{ID: "double"}, ClearLog{}, RunDemo{ID: "triple"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"bogus input here"}, bad); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestLineSourceEOF(t *testing.T) {
	src := &LineSource{Reader: strings.NewReader("double")}
	var n int
	if err := src.Run(context.Background(), func(Command) { n++ }); err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 command, got %d", n)
	}
}

func TestLineSourceContext(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	src := &LineSource{Reader: r}

	errc := make(chan error, 1)
	go func() { errc <- src.Run(ctx, func(Command) {}) }()
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
