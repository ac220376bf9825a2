package console

import (
	"strings"
	"time"

	"github.com/octoberswimmer/console/style"
)

// ScreenConfig describes an interactive console screen.
type ScreenConfig struct {
	Title  string
	Banner []string

	// Width and Height are the outer size of the log frame.
	Width  int
	Height int

	// ScrollDelay defers scrolling to the newest line, see WithScrollDelay.
	ScrollDelay time.Duration
}

const (
	defaultScreenWidth  = 80
	defaultScreenHeight = 20

	// frameLines is the number of rows the screen draws around the log
	// besides the menu: the title, the frame border and the hint.
	frameLines = 4
)

// Screen is the interactive console: a demo menu above a log view that
// follows the newest line. It is the Model of its own Program, so every
// mutation of the log and the view happens on the program's event loop.
type Screen struct {
	cfg      ScreenConfig
	registry *Registry

	program    *Program
	sink       *LogSink
	dispatcher *Dispatcher
	viewport   *Viewport
	presenter  *ScrollPresenter

	menu []string
}

// NewScreen creates a screen over reg. The returned screen owns a Program
// configured with opts; start it with Run.
func NewScreen(reg *Registry, cfg ScreenConfig, opts ...ProgramOption) *Screen {
	if cfg.Width < 1 {
		cfg.Width = defaultScreenWidth
	}
	if cfg.Height < 1 {
		cfg.Height = defaultScreenHeight
	}

	s := &Screen{cfg: cfg, registry: reg}
	s.program = NewProgram(s, opts...)
	s.sink = NewLogSink(s.program)
	s.dispatcher = NewDispatcher(reg, s.sink, WithDispatcherLogger(s.program.logger))
	s.viewport = NewViewport(0, 1)
	s.layout()

	var popts []PresenterOption
	if cfg.ScrollDelay > 0 {
		popts = append(popts, WithScrollDelay(cfg.ScrollDelay))
	}
	s.presenter = NewScrollPresenter(s.sink, s.viewport, s.program, popts...)

	for _, line := range cfg.Banner {
		s.sink.Append(line)
	}
	return s
}

// layout wraps the menu to the screen width and gives the log the rows
// left over.
func (s *Screen) layout() {
	entries := s.registry.Entries()
	items := make([]string, len(entries))
	for i, e := range entries {
		items[i] = style.MenuItem(e.ID, e.DisplayName)
	}
	s.menu = style.MenuRows(s.cfg.Width, items)

	h := s.cfg.Height - frameLines - len(s.menu)
	if h < 1 {
		h = 1
	}
	s.viewport.SetSize(s.cfg.Width-2, h)
}

// Program returns the screen's event loop.
func (s *Screen) Program() *Program { return s.program }

// Log returns the screen's log.
func (s *Screen) Log() *LogSink { return s.sink }

// Presenter returns the presenter keeping the view at the newest line.
func (s *Screen) Presenter() *ScrollPresenter { return s.presenter }

// Viewport returns the log view. It must only be read on the event loop.
func (s *Screen) Viewport() *Viewport { return s.viewport }

// Send queues a command for the event loop. It never blocks.
func (s *Screen) Send(cmd Command) { s.program.Send(cmd) }

// QuitWhenIdle quits once every queued command, the log updates it caused
// and the pending scroll have been applied.
func (s *Screen) QuitWhenIdle() {
	var check func()
	check = func() {
		switch {
		case s.program.msgs.len() > 0:
			s.program.Post(check)
			return
		case s.presenter.Pending():
			s.presenter.AfterScroll(check)
			return
		}
		s.program.Quit()
	}
	s.program.Post(check)
}

// Run runs the screen until it quits or is killed.
func (s *Screen) Run() error {
	defer s.presenter.Close()
	_, err := s.program.Run()
	return err
}

// Init implements Model.
func (s *Screen) Init() Cmd { return nil }

// Update applies commands and window size changes.
func (s *Screen) Update(msg Msg) (Model, Cmd) {
	switch msg := msg.(type) {
	case RunDemo:
		s.dispatcher.Run(msg.ID)
	case ClearLog:
		s.sink.Clear()
	case WindowSizeMsg:
		follow := s.viewport.AtBottom()
		s.cfg.Width, s.cfg.Height = msg.Width, msg.Height
		s.layout()
		if follow {
			s.viewport.ScrollTo(s.viewport.Extent())
		}
	}
	return s, nil
}

// View renders the title, the demo menu and the framed log.
func (s *Screen) View() string {
	return style.Join(
		style.Title(s.cfg.Title),
		strings.Join(s.menu, "\n"),
		style.Frame(s.cfg.Width-2, style.Lines(s.viewport.View())),
		style.Hint("run <id> · clear · quit"),
	)
}
