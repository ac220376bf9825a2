package console

import (
	"context"
	"io"
	"log/slog"
)

// ProgramOption is used to set options when initializing a Program. Program can
// accept a variable number of options.
//
// Example usage:
//
//	p := NewProgram(model, WithOutput(os.Stderr), WithFPS(30))
type ProgramOption func(*Program)

// WithContext lets you specify a context in which to run the Program. This is
// useful if you want to cancel the execution from outside. When a Program gets
// cancelled it will exit with an error ErrProgramKilled.
func WithContext(ctx context.Context) ProgramOption {
	return func(p *Program) {
		p.ctx = ctx
	}
}

// WithOutput sets the writer the standard renderer draws frames to. The
// default is os.Stdout.
func WithOutput(w io.Writer) ProgramOption {
	return func(p *Program) {
		p.output = w
	}
}

// WithLogger sets the logger used for the program's own diagnostics, such as
// recovered panics. The default is slog.Default().
func WithLogger(logger *slog.Logger) ProgramOption {
	return func(p *Program) {
		p.logger = logger
	}
}

// WithoutCatchPanics disables the panic catching that the program does by
// default. With panic catching disabled a panic in Update or View crashes
// the process.
func WithoutCatchPanics() ProgramOption {
	return func(p *Program) {
		p.startupOptions |= withoutCatchPanics
	}
}

// WithoutRenderer disables the renderer. The model is still updated, but no
// frames are written anywhere. This is useful for headless screens and
// tests.
func WithoutRenderer() ProgramOption {
	return func(p *Program) {
		p.renderer = &nilRenderer{}
	}
}

// WithFilter supplies an event filter that will be invoked before the program
// processes a Msg. The event filter can return any Msg which will then get
// handled instead of the original event. If the event filter returns nil,
// the event will be ignored and will not be processed.
//
// As an example, this could be used to keep a program alive until the log
// view has caught up with the newest line.
//
// Example:
//
//	func filter(m console.Model, msg console.Msg) console.Msg {
//		if _, ok := msg.(console.QuitMsg); !ok {
//			return msg
//		}
//
//		screen := m.(*console.Screen)
//		if screen.Presenter().Pending() {
//			return nil
//		}
//
//		return msg
//	}
//
//	p := console.NewProgram(model, console.WithFilter(filter))
func WithFilter(filter func(Model, Msg) Msg) ProgramOption {
	return func(p *Program) {
		p.filter = filter
	}
}

// WithFPS sets a custom maximum FPS at which the renderer should run. If
// less than 1, the default value of 60 will be used. If over 120, the FPS
// will be capped at 120.
func WithFPS(fps int) ProgramOption {
	return func(p *Program) {
		p.fps = fps
	}
}
