// Package console provides the demo dispatch and log console used by the
// interactive demo screens. It is built around a single event loop, in the
// style of The Elm Architecture: one goroutine owns the screen state and
// applies messages strictly in arrival order, while any other goroutine may
// hand it work without waiting.
//
// Example programs can be found under cmd/console.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrProgramKilled is returned by [Program.Run] when the program got killed.
var ErrProgramKilled = errors.New("program was killed")

// Msg contain data from the result of a IO operation. Msgs trigger the update
// function and, henceforth, the UI.
type Msg interface{}

// Model contains the program's state as well as its core functions.
type Model interface {
	// Init is the first function that will be called. It returns an optional
	// initial command. To not perform an initial command return nil.
	Init() Cmd

	// Update is called when a message is received. Use it to inspect messages
	// and, in response, update the model and/or send a command.
	Update(Msg) (Model, Cmd)

	// View renders the model's current state as text.
	View() string
}

// Cmd is an IO operation that returns a message when it's complete. If it's
// nil it's considered a no-op. Use it for things like timers, reading input
// and so on.
type Cmd func() Msg

// Options to customize the program during its initialization. These are
// generally set with ProgramOptions.
//
// The options here are treated as bits.
type startupOptions int16

func (s startupOptions) has(option startupOptions) bool {
	return s&option != 0
}

const (
	// Catching panics keeps a misbehaving model from taking the process
	// down with it. This feature is on by default.
	withoutCatchPanics startupOptions = 1 << iota
)

// handlers manages series of channels returned by various processes. It allows
// us to wait for those processes to terminate before exiting the program.
type handlers []chan struct{}

// Adds a channel to the list of handlers. We wait for all handlers to terminate
// gracefully on shutdown.
func (h *handlers) add(ch chan struct{}) {
	*h = append(*h, ch)
}

// shutdown waits for all handlers to terminate.
func (h handlers) shutdown() {
	var wg sync.WaitGroup
	for _, ch := range h {
		wg.Add(1)
		go func(ch chan struct{}) {
			<-ch
			wg.Done()
		}(ch)
	}
	wg.Wait()
}

// Program is the event loop that owns a screen. It is the execution context
// every screen mutation is marshaled onto.
type Program struct {
	initialModel Model

	// Configuration options that will set as the program is initializing,
	// treated as bits. These options can be set via various ProgramOptions.
	startupOptions startupOptions

	ctx    context.Context
	cancel context.CancelFunc

	msgs     *mailbox
	finished chan struct{}

	renderer renderer
	output   io.Writer
	fps      int

	logger *slog.Logger

	filter func(Model, Msg) Msg
}

// Quit is a special command that tells the program to exit.
func Quit() Msg {
	return QuitMsg{}
}

// QuitMsg signals that the program should quit. You can send a QuitMsg with
// Quit.
type QuitMsg struct{}

// postMsg carries a function marshaled onto the event loop by Post.
type postMsg func()

// NewProgram creates a new Program.
func NewProgram(model Model, opts ...ProgramOption) *Program {
	p := &Program{
		initialModel: model,
		msgs:         newMailbox(),
		finished:     make(chan struct{}, 1),
	}

	// Apply all options to the program.
	for _, opt := range opts {
		opt(p)
	}

	// A context can be provided with a ProgramOption, but if none was provided
	// we'll use the default background context.
	if p.ctx == nil {
		p.ctx = context.Background()
	}
	// Initialize context and teardown channel.
	p.ctx, p.cancel = context.WithCancel(p.ctx)

	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.output == nil {
		p.output = os.Stdout
	}

	return p
}

// handleCommands runs commands in a goroutine and sends the result to the
// program's message channel.
func (p *Program) handleCommands(cmds chan Cmd) chan struct{} {
	ch := make(chan struct{})

	go func() {
		defer close(ch)

		for {
			select {
			case <-p.ctx.Done():
				return

			case cmd := <-cmds:
				if cmd == nil {
					continue
				}

				// Don't wait on these goroutines, otherwise the shutdown
				// latency would get too large as a Cmd can run for some time
				// (e.g. tick commands that sleep for half a second). It's not
				// possible to cancel them so we'll have to leak the goroutine
				// until Cmd returns.
				go func() {
					msg := cmd() // this can be long.
					p.Send(msg)
				}()
			}
		}
	}()

	return ch
}

// eventLoop is the central message loop. It receives and handles the default
// messages, update the model and triggers redraws.
func (p *Program) eventLoop(model Model, cmds chan Cmd) (Model, error) {
	for {
		select {
		case <-p.ctx.Done():
			return model, nil

		case <-p.msgs.wake:
			for _, msg := range p.msgs.drain() {
				var quit bool
				model, quit = p.handle(model, msg, cmds)
				if quit {
					return model, nil
				}
			}
		}
	}
}

// handle applies a single message. It reports whether the program should
// quit.
func (p *Program) handle(model Model, msg Msg, cmds chan Cmd) (Model, bool) {
	// Filter messages.
	if p.filter != nil {
		msg = p.filter(model, msg)
	}
	if msg == nil {
		return model, false
	}

	// Handle special internal messages.
	switch msg := msg.(type) {
	case QuitMsg:
		return model, true

	case postMsg:
		msg()
		p.renderer.render(model)
		return model, false

	case BatchMsg:
		for _, cmd := range msg {
			cmds <- cmd
		}
		return model, false

	case sequenceMsg:
		go func() {
			// Execute commands one at a time, in order.
			for _, cmd := range msg {
				if cmd == nil {
					continue
				}

				msg := cmd()
				if batchMsg, ok := msg.(BatchMsg); ok {
					g, _ := errgroup.WithContext(p.ctx)
					for _, cmd := range batchMsg {
						cmd := cmd
						g.Go(func() error {
							p.Send(cmd())
							return nil
						})
					}

					//nolint:errcheck
					g.Wait() // wait for all commands from batch msg to finish
					continue
				}

				p.Send(msg)
			}
		}()
		return model, false
	}

	var cmd Cmd
	model, cmd = model.Update(msg) // run update
	cmds <- cmd                    // process command (if any)
	p.renderer.render(model)       // send view to renderer
	return model, false
}

// Run initializes the program and runs its event loops, blocking until it gets
// terminated by either [Program.Quit] or [Program.Kill]. Returns the final
// model.
func (p *Program) Run() (returnModel Model, returnErr error) {
	handlers := handlers{}
	cmds := make(chan Cmd)

	defer p.cancel()

	// Recover from panics.
	if !p.startupOptions.has(withoutCatchPanics) {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("console: caught panic in event loop",
					"panic", fmt.Sprint(r), "stack", string(debug.Stack()))
				returnErr = fmt.Errorf("console: program panicked: %v", r)
				p.cancel()
				p.shutdown()
			}
		}()
	}

	// If no renderer is set use the standard one.
	if p.renderer == nil {
		p.renderer = newRenderer(p.output, p.fps)
	}

	// Initialize the program.
	model := p.initialModel
	if initCmd := model.Init(); initCmd != nil {
		ch := make(chan struct{})
		handlers.add(ch)

		go func() {
			defer close(ch)

			select {
			case cmds <- initCmd:
			case <-p.ctx.Done():
			}
		}()
	}

	// Start the renderer.
	p.renderer.start()

	// Render the initial view.
	p.renderer.render(model)

	// Process commands.
	handlers.add(p.handleCommands(cmds))

	// Run event loop, handle updates and draw.
	model, err := p.eventLoop(model, cmds)
	killed := p.ctx.Err() != nil
	if killed {
		err = ErrProgramKilled
	} else {
		// Ensure we rendered the final state of the model.
		p.renderer.render(model)
	}

	// Tear down.
	p.cancel()

	// Wait for all handlers to finish.
	handlers.shutdown()

	p.renderer.stop()
	p.shutdown()

	return model, err
}

// Send sends a message to the main update function, effectively allowing
// messages to be injected from outside the program for interoperability
// purposes.
//
// Send never blocks. Messages sent before the program is started are queued
// and delivered once it runs. If the program has already been terminated
// this will be a no-op, so it's safe to send messages after the program has
// exited.
func (p *Program) Send(msg Msg) {
	if p.ctx.Err() != nil {
		return
	}
	p.msgs.put(msg)
}

// Post schedules fn to run on the event loop after every message sent
// before it. The view is re-rendered once fn returns. Post returns
// immediately.
func (p *Program) Post(fn func()) {
	if fn == nil {
		return
	}
	p.Send(postMsg(fn))
}

// Quit is a convenience function for quitting programs. Use it when you need
// to shut down a program from the outside.
//
// If you wish to quit from within a program use the Quit command.
//
// If the program is not running this will be a no-op, so it's safe to call
// if the program is unstarted or has already exited.
func (p *Program) Quit() {
	p.Send(Quit())
}

// Kill stops the program immediately. The final render that you would
// normally see when quitting will be skipped. [Program.Run] returns a
// [ErrProgramKilled] error.
func (p *Program) Kill() {
	p.cancel()
}

// Wait waits/blocks until the underlying Program finished shutting down.
func (p *Program) Wait() {
	<-p.finished
}

// shutdown signals Wait that the program is finished.
func (p *Program) shutdown() {
	select {
	case p.finished <- struct{}{}:
	default:
	}
}
