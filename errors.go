package console

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID indicates an attempt to register a demo id twice.
	ErrDuplicateID = errors.New("console: duplicate demo id")
	// ErrUnknownDemo indicates a lookup for an unregistered demo id.
	ErrUnknownDemo = errors.New("console: unknown demo")
	// ErrSealed indicates an attempt to register in a sealed registry.
	ErrSealed = errors.New("console: sealed registry")
	// ErrInvalidEntry indicates a registration with an empty id or nil handler.
	ErrInvalidEntry = errors.New("console: invalid demo entry")
)

// DuplicateIDError is returned by Registry.Register when the id is taken.
// It is a programming error and should stop startup.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("demo '%s' already registered", e.ID)
}

func (e *DuplicateIDError) Unwrap() error { return ErrDuplicateID }

// UnknownDemoError is returned by Registry.Resolve when no entry matches.
type UnknownDemoError struct {
	ID string
}

func (e *UnknownDemoError) Error() string {
	return fmt.Sprintf("unknown demo '%s'", e.ID)
}

func (e *UnknownDemoError) Unwrap() error { return ErrUnknownDemo }

// HandlerError wraps a failure raised inside a demo handler, either a
// returned error or a recovered panic (as a *PanicError).
type HandlerError struct {
	ID  string
	Err error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("demo '%s' failed: %v", e.ID, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// PanicError represents a recovered panic.
type PanicError struct {
	// Value is the value passed to panic().
	Value any
	// Stack contains the call stack at the time of the panic.
	Stack string
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
