package console

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

// Poster schedules work on the execution context that owns a LogSink's
// buffer. Post must return without waiting for fn to run and must run
// posted functions one at a time in the order they were posted.
//
// Program and Looper implement Poster.
type Poster interface {
	Post(fn func())
}

// PosterFunc adapts a function to a Poster.
type PosterFunc func(fn func())

// Post calls f(fn).
func (f PosterFunc) Post(fn func()) { f(fn) }

// Log is the output channel demo handlers write to.
type Log interface {
	// Append adds text to the log, one line per "\n"-separated segment.
	Append(text string)
	// Appendf formats according to a format specifier and appends the result.
	Appendf(format string, args ...any)
	// Clear empties the log.
	Clear()
	// Writer returns a new io.Writer whose complete lines are appended to
	// the log. Each writer buffers its own partial line, so concurrent
	// callers should each take their own.
	Writer() io.Writer
}

// LogLine is one line of log text. Seq starts at 1 after every clear and
// increases by one per line.
type LogLine struct {
	Seq  uint64
	Text string
}

// Snapshot is the log's content at a point in time. Snapshots are immutable.
type Snapshot struct {
	Lines []LogLine
	// Text is every line followed by "\n".
	Text string
}

// Len returns the number of lines.
func (s Snapshot) Len() int { return len(s.Lines) }

// Seq returns the sequence number of the last line, or 0 when empty.
func (s Snapshot) Seq() uint64 {
	if len(s.Lines) == 0 {
		return 0
	}
	return s.Lines[len(s.Lines)-1].Seq
}

// Strings returns the text of every line.
func (s Snapshot) Strings() []string {
	out := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		out[i] = l.Text
	}
	return out
}

// Tail returns the text of the last n lines.
func (s Snapshot) Tail(n int) []string {
	all := s.Strings()
	if n < 0 || n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}

// LogSink is an append-only, ordered text buffer. Append and Clear may be
// called from any goroutine; they marshal the mutation onto the sink's
// Poster and return immediately. The buffer itself is only touched by work
// running on the Poster, so the Poster's FIFO order is the log's order.
type LogSink struct {
	poster Poster

	// Owned by the poster's context.
	lines []LogLine
	seq   uint64
	text  strings.Builder

	current atomic.Pointer[Snapshot]
	// clears counts Clear calls; writers drop partial lines buffered before
	// the latest one.
	clears atomic.Uint64

	subMu sync.Mutex
	subs  []*subscription
}

type subscription struct {
	fn func(Snapshot)
}

// NewLogSink creates an empty sink whose mutations run on poster.
func NewLogSink(poster Poster) *LogSink {
	s := &LogSink{poster: poster}
	s.current.Store(&Snapshot{})
	return s
}

// Append splits text into lines and appends them. An empty text appends one
// empty line.
func (s *LogSink) Append(text string) {
	parts := splitLines(text)
	s.poster.Post(func() {
		for _, p := range parts {
			s.seq++
			s.lines = append(s.lines, LogLine{Seq: s.seq, Text: p})
			s.text.WriteString(p)
			s.text.WriteByte('\n')
		}
		s.publish()
	})
}

// Appendf formats according to a format specifier and appends the result.
func (s *LogSink) Appendf(format string, args ...any) {
	s.Append(fmt.Sprintf(format, args...))
}

// Clear empties the buffer and resets the sequence counter to zero. Partial
// lines pending in writers are discarded.
func (s *LogSink) Clear() {
	s.clears.Add(1)
	s.poster.Post(func() {
		s.lines = nil
		s.seq = 0
		s.text = strings.Builder{}
		s.publish()
	})
}

// CurrentSnapshot returns the latest published snapshot. It never blocks.
func (s *LogSink) CurrentSnapshot() Snapshot {
	return *s.current.Load()
}

// Subscribe registers fn to be called with every new snapshot. fn runs on
// the sink's Poster. The returned function removes the subscription.
func (s *LogSink) Subscribe(fn func(Snapshot)) (cancel func()) {
	sub := &subscription{fn: fn}
	s.subMu.Lock()
	s.subs = append(s.subs, sub)
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, other := range s.subs {
			if other == sub {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Writer returns a new *LineWriter for the sink.
func (s *LogSink) Writer() io.Writer { return s.NewLineWriter() }

// NewLineWriter returns a writer that appends each complete line written to
// it as one line of the sink.
func (s *LogSink) NewLineWriter() *LineWriter {
	return &LineWriter{sink: s, clears: s.clears.Load()}
}

// publish runs on the poster's context.
func (s *LogSink) publish() {
	n := len(s.lines)
	snap := &Snapshot{
		// Cap the slice so later appends never write into a published
		// snapshot's view of the array.
		Lines: s.lines[:n:n],
		Text:  s.text.String(),
	}
	s.current.Store(snap)

	s.subMu.Lock()
	subs := append([]*subscription(nil), s.subs...)
	s.subMu.Unlock()
	for _, sub := range subs {
		sub.fn(*snap)
	}
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// LineWriter converts writes into sink lines. It is meant for one caller at
// a time; a partial line is held until its newline arrives, Flush is called
// or the sink is cleared.
type LineWriter struct {
	sink   *LogSink
	mu     sync.Mutex
	buf    bytes.Buffer
	clears uint64
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dropCleared()

	total := len(p)
	data := p

	for len(data) > 0 {
		idx := bytes.IndexByte(data, '\n')
		if idx == -1 {
			w.buf.Write(data)
			break
		}

		w.buf.Write(data[:idx])
		w.emit()
		data = data[idx+1:]
	}

	return total, nil
}

// Flush appends the pending partial line, if any.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dropCleared()
	if w.buf.Len() == 0 {
		return
	}
	w.emit()
}

// dropCleared discards a partial line written before the last Clear.
func (w *LineWriter) dropCleared() {
	if n := w.sink.clears.Load(); n != w.clears {
		w.buf.Reset()
		w.clears = n
	}
}

func (w *LineWriter) emit() {
	line := strings.TrimSuffix(w.buf.String(), "\r")
	w.buf.Reset()
	w.sink.Append(line)
}
