package console

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Looper is a headless execution context: a single goroutine that runs
// posted functions one at a time in the order they were posted. It is the
// Poster used when there is no screen, such as the run command and tests.
type Looper struct {
	msgs   *mailbox
	logger *slog.Logger

	closeOnce sync.Once
	closing   chan struct{}
	done      chan struct{}
}

// LooperOption configures a Looper.
type LooperOption func(*Looper)

// WithLooperLogger sets the logger used to report panics in posted work.
func WithLooperLogger(logger *slog.Logger) LooperOption {
	return func(l *Looper) {
		l.logger = logger
	}
}

// NewLooper starts a Looper.
func NewLooper(opts ...LooperOption) *Looper {
	l := &Looper{
		msgs:    newMailbox(),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	go l.loop()
	return l
}

// Post schedules fn. It never blocks. Work posted after Close is dropped.
func (l *Looper) Post(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-l.closing:
		return
	default:
	}
	l.msgs.put(fn)
}

// Sync blocks until every function posted before the call has run. Calling
// Sync from posted work deadlocks.
func (l *Looper) Sync() {
	ch := make(chan struct{})
	l.Post(func() { close(ch) })
	select {
	case <-ch:
	case <-l.done:
	}
}

// Close runs the work already posted and stops the looper. It blocks until
// the goroutine has exited.
func (l *Looper) Close() {
	l.closeOnce.Do(func() {
		close(l.closing)
	})
	<-l.done
}

func (l *Looper) loop() {
	defer close(l.done)
	for {
		select {
		case <-l.msgs.wake:
			l.runQueued()
		case <-l.closing:
			l.runQueued()
			return
		}
	}
}

func (l *Looper) runQueued() {
	for _, msg := range l.msgs.drain() {
		if fn, ok := msg.(func()); ok {
			l.run(fn)
		}
	}
}

func (l *Looper) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("console: caught panic in posted work",
				"panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()
	fn()
}
