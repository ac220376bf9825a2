package console

import (
	"sync"
	"sync/atomic"
	"time"
)

// Surface is a scrollable text view. Its methods are only called from the
// presenter's Poster context.
type Surface interface {
	// SetText replaces the displayed text.
	SetText(text string)
	// Extent returns the scrollable extent of the committed content, in the
	// surface's own units.
	Extent() int
	// ScrollTo moves the view so that pos is the end of the visible range.
	ScrollTo(pos int)
}

// ScrollPresenter keeps a Surface showing the newest lines of a LogSink.
//
// Every snapshot is written to the surface immediately. Scrolling to the
// end is deferred to a later step on the same context so it measures the
// content after it has been laid out; at most one scroll is pending at a
// time.
type ScrollPresenter struct {
	sink    *LogSink
	surface Surface
	poster  Poster
	delay   time.Duration

	pending atomic.Bool
	closed  atomic.Bool
	scrolls atomic.Uint64

	mu     sync.Mutex
	timer  *time.Timer
	idle   []func()
	cancel func()
}

// PresenterOption configures a ScrollPresenter.
type PresenterOption func(*ScrollPresenter)

// WithScrollDelay defers the scroll step by d instead of posting it
// straight away. The step still runs on the presenter's Poster.
func WithScrollDelay(d time.Duration) PresenterOption {
	return func(p *ScrollPresenter) {
		p.delay = d
	}
}

// NewScrollPresenter binds surface to sink. poster must be the context the
// sink publishes on. The current snapshot is rendered as the first step
// posted after construction.
func NewScrollPresenter(sink *LogSink, surface Surface, poster Poster, opts ...PresenterOption) *ScrollPresenter {
	p := &ScrollPresenter{
		sink:    sink,
		surface: surface,
		poster:  poster,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cancel = sink.Subscribe(p.update)
	poster.Post(func() {
		p.update(sink.CurrentSnapshot())
	})
	return p
}

// Pending reports whether a scroll step is scheduled but has not run yet.
func (p *ScrollPresenter) Pending() bool { return p.pending.Load() }

// Scrolls returns the number of scroll steps that have run.
func (p *ScrollPresenter) Scrolls() uint64 { return p.scrolls.Load() }

// AfterScroll posts fn once no scroll step is pending: straight away when
// idle, otherwise right after the pending step has run.
func (p *ScrollPresenter) AfterScroll(fn func()) {
	p.mu.Lock()
	if p.pending.Load() {
		p.idle = append(p.idle, fn)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	p.poster.Post(fn)
}

// Close unsubscribes from the sink and cancels delayed scroll steps.
// Functions waiting in AfterScroll are still posted.
func (p *ScrollPresenter) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	p.cancel()

	p.mu.Lock()
	var idle []func()
	if p.timer != nil && p.timer.Stop() {
		p.pending.Store(false)
		idle, p.idle = p.idle, nil
	}
	p.mu.Unlock()
	for _, fn := range idle {
		p.poster.Post(fn)
	}
}

// update runs on the poster's context.
func (p *ScrollPresenter) update(snap Snapshot) {
	if p.closed.Load() {
		return
	}
	p.surface.SetText(snap.Text)
	if !p.pending.CompareAndSwap(false, true) {
		return
	}
	p.schedule()
}

func (p *ScrollPresenter) schedule() {
	if p.delay <= 0 {
		p.poster.Post(p.scroll)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.timer = time.AfterFunc(p.delay, func() {
		p.poster.Post(p.scroll)
	})
}

// scroll runs on the poster's context.
func (p *ScrollPresenter) scroll() {
	p.mu.Lock()
	p.pending.Store(false)
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	if !p.closed.Load() {
		p.surface.ScrollTo(p.surface.Extent())
		p.scrolls.Add(1)
	}
	for _, fn := range idle {
		p.poster.Post(fn)
	}
}
