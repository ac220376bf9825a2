package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrQuit is returned by ParseCommand for a quit request.
var ErrQuit = errors.New("console: quit")

// Command is a user action on the console. Commands are also Program
// messages.
type Command interface {
	command()
}

// RunDemo asks for the demo registered under ID to run.
type RunDemo struct {
	ID string
}

// ClearLog asks for the log to be emptied.
type ClearLog struct{}

func (RunDemo) command()  {}
func (ClearLog) command() {}

// ActionSource produces commands. Run calls emit for each command in the
// order it was requested and returns when the source is exhausted, ctx is
// done or the user quits.
type ActionSource interface {
	Run(ctx context.Context, emit func(Command)) error
}

// ParseCommand parses one line of console input:
//
//	run <id>     run a demo
//	<id>         run a demo
//	clear        clear the log
//	quit, exit   stop reading (ErrQuit)
//
// Blank lines and lines starting with '#' yield a nil Command and no error.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "quit", "exit":
		if len(fields) > 1 {
			return nil, fmt.Errorf("%s takes no arguments", fields[0])
		}
		return nil, ErrQuit
	case "clear":
		if len(fields) > 1 {
			return nil, errors.New("clear takes no arguments")
		}
		return ClearLog{}, nil
	case "run":
		if len(fields) != 2 {
			return nil, errors.New("usage: run <id>")
		}
		return RunDemo{ID: fields[1]}, nil
	}

	if len(fields) > 1 {
		return nil, fmt.Errorf("unrecognized command %q", line)
	}
	return RunDemo{ID: fields[0]}, nil
}

// LineSource reads commands line by line from Reader.
type LineSource struct {
	Reader io.Reader
	// OnError is called for lines that do not parse. When nil, malformed
	// lines are skipped.
	OnError func(line string, err error)
}

// Run reads until EOF, a quit command or ctx is done. Reaching EOF or a quit
// command is not an error.
func (s *LineSource) Run(ctx context.Context, emit func(Command)) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.Reader)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return ctx.Err()
				}
			}
			cmd, err := ParseCommand(line)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				if s.OnError != nil {
					s.OnError(line, err)
				}
				continue
			}
			if cmd != nil {
				emit(cmd)
			}
		}
	}
}
