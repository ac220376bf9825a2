package console

import (
	"io"
	"sync"
	"time"
)

const (
	// defaultFramerate specifies the maximum interval at which we should
	// update the view.
	defaultFPS = 60
	maxFPS     = 120
)

// clearScreen moves the cursor home and erases the display.
const clearScreen = "\x1b[H\x1b[2J"

// standardRenderer is a framerate-based text renderer, updating the view
// at a given framerate to avoid overloading the terminal emulator.
//
// render only records the newest frame; the ticker goroutine writes it out,
// so bursts of log lines between two ticks cost a single redraw.
type standardRenderer struct {
	mtx *sync.Mutex
	out io.Writer

	frame     string
	lastFrame string
	framerate time.Duration
	ticker    *time.Ticker
	done      chan struct{}
	once      sync.Once
}

// newRenderer creates a new renderer. Normally you'll want to initialize it
// with os.Stdout as the first argument.
func newRenderer(out io.Writer, fps int) renderer {
	if fps < 1 {
		fps = defaultFPS
	} else if fps > maxFPS {
		fps = maxFPS
	}
	r := &standardRenderer{
		mtx:       &sync.Mutex{},
		out:       out,
		framerate: time.Second / time.Duration(fps),
	}
	return r
}

// start starts the renderer.
func (r *standardRenderer) start() {
	// Since the renderer can be restarted after a stop, we need to reset
	// the done channel and its corresponding sync.Once.
	r.once = sync.Once{}
	r.done = make(chan struct{})
	if r.ticker == nil {
		r.ticker = time.NewTicker(r.framerate)
	} else {
		r.ticker.Reset(r.framerate)
	}
	go r.listen(r.done)
}

// stop permanently halts the renderer, flushing the final frame.
func (r *standardRenderer) stop() {
	if r.done == nil {
		return
	}
	r.once.Do(func() {
		close(r.done)
	})
	r.flush()
}

// listen waits for ticks on the ticker, or a signal to stop the renderer.
func (r *standardRenderer) listen(done chan struct{}) {
	for {
		select {
		case <-done:
			r.ticker.Stop()
			return

		case <-r.ticker.C:
			r.flush()
		}
	}
}

// flush renders the buffer.
func (r *standardRenderer) flush() {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.frame == r.lastFrame {
		return
	}
	_, _ = io.WriteString(r.out, clearScreen+r.frame)
	r.lastFrame = r.frame
}

func (r *standardRenderer) render(m Model) {
	frame := RenderString(m)

	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.frame = frame
}
