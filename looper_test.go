package console

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func TestLooperRunsInOrder(t *testing.T) {
	l := NewLooper()
	defer l.Close()

	var got []int
	for i := 0; i < 500; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	l.Sync()

	if len(got) != 500 {
		t.Fatalf("expected 500 runs, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("run %d: expected %d, got %d", i, i, v)
		}
	}
}

func TestLooperPostFromManyGoroutines(t *testing.T) {
	l := NewLooper()
	defer l.Close()

	const producers, each = 8, 100
	seen := make(map[int][]int)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				i := i
				l.Post(func() { seen[p] = append(seen[p], i) })
			}
		}(p)
	}
	wg.Wait()
	l.Sync()

	for p := 0; p < producers; p++ {
		if len(seen[p]) != each {
			t.Fatalf("producer %d: expected %d runs, got %d", p, each, len(seen[p]))
		}
		for i, v := range seen[p] {
			if v != i {
				t.Fatalf("producer %d: run %d out of order (%d)", p, i, v)
			}
		}
	}
}

func TestLooperPostDoesNotBlock(t *testing.T) {
	l := NewLooper()
	defer l.Close()

	release := make(chan struct{})
	l.Post(func() { <-release })

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			l.Post(func() {})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Post blocked while the looper was busy")
	}
	close(release)
}

func TestLooperRecoversPanics(t *testing.T) {
	l := NewLooper(WithLooperLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer l.Close()

	ran := false
	l.Post(func() { panic("boom") })
	l.Post(func() { ran = true })
	l.Sync()

	if !ran {
		t.Fatal("expected work after a panic to run")
	}
}

func TestLooperClose(t *testing.T) {
	l := NewLooper()

	ran := false
	l.Post(func() { ran = true })
	l.Close()
	if !ran {
		t.Fatal("expected queued work to run before Close returns")
	}

	// Post and Sync after Close are no-ops.
	l.Post(func() { t.Error("work ran after Close") })
	l.Sync()
	l.Close()
}
