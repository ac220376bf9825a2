package console

import (
	"errors"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
)

// Dispatcher runs demos by id. Every outcome, including an unknown id and a
// failing handler, is reported as a line in its log; Run never returns an
// error or lets a panic escape.
type Dispatcher struct {
	registry *Registry
	log      Log
	logger   *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger handler failures are reported to, at
// debug level. The default is slog.Default().
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher that resolves ids in reg and writes to
// log.
func NewDispatcher(reg *Registry, log Log, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{registry: reg, log: log}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Log returns the log the dispatcher writes to.
func (d *Dispatcher) Log() Log { return d.log }

// Run executes the demo registered under id on the calling goroutine.
func (d *Dispatcher) Run(id string) {
	h, err := d.registry.Resolve(id)
	if err != nil {
		d.log.Append(oneLine(err.Error()))
		return
	}

	d.log.Appendf("=== running %s ===", id)
	if err := d.invoke(h); err != nil {
		herr := &HandlerError{ID: id, Err: err}
		attrs := []any{"demo", id, "error", err}
		var perr *PanicError
		if errors.As(err, &perr) {
			attrs = append(attrs, "stack", perr.Stack)
		}
		d.logger.Debug("console: demo failed", attrs...)
		d.log.Append(oneLine(herr.Error()))
	}
}

// Execute applies a command from an action source.
func (d *Dispatcher) Execute(cmd Command) {
	switch cmd := cmd.(type) {
	case RunDemo:
		d.Run(cmd.ID)
	case ClearLog:
		d.log.Clear()
	}
}

type flusher interface {
	Flush()
}

// runLog tracks the writers a handler takes during one run so their partial
// lines can be flushed when it returns, ahead of any failure line.
type runLog struct {
	Log

	mu      sync.Mutex
	writers []io.Writer
}

func (r *runLog) Writer() io.Writer {
	w := r.Log.Writer()
	r.mu.Lock()
	r.writers = append(r.writers, w)
	r.mu.Unlock()
	return w
}

func (r *runLog) flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.writers {
		if f, ok := w.(flusher); ok {
			f.Flush()
		}
	}
}

func (d *Dispatcher) invoke(h Handler) (err error) {
	log := &runLog{Log: d.log}
	defer log.flush()
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	return h(log)
}

// oneLine folds line breaks so a message occupies exactly one log line.
func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}
