package demos

import (
	"errors"
	"fmt"
	"math"

	"github.com/octoberswimmer/console"
)

type printer interface {
	Print() string
}

type consolePrinter struct {
	message string
}

func (p consolePrinter) Print() string { return p.message }

// loggingPrinter delegates to the embedded printer and decorates its
// output.
type loggingPrinter struct {
	printer
	calls int
}

func (p *loggingPrinter) Print() string {
	p.calls++
	return fmt.Sprintf("[log #%d] %s", p.calls, p.printer.Print())
}

func delegation(log console.Log) error {
	log.Append("=== interface delegation ===")
	inner := consolePrinter{message: "hello from the inner printer"}
	outer := &loggingPrinter{printer: inner}

	log.Appendf("inner.Print() = %s", inner.Print())
	log.Appendf("outer.Print() = %s", outer.Print())
	log.Appendf("outer.Print() = %s", outer.Print())
	log.Append("the embedded field supplies every method loggingPrinter does not override")
	return nil
}

// shape is closed: only this package can implement it.
type shape interface {
	area() float64
	isShape()
}

type circle struct{ r float64 }
type rect struct{ w, h float64 }
type square struct{ side float64 }

func (c circle) area() float64 { return math.Pi * c.r * c.r }
func (r rect) area() float64   { return r.w * r.h }
func (s square) area() float64 { return s.side * s.side }

func (circle) isShape() {}
func (rect) isShape()   {}
func (square) isShape() {}

func describe(s shape) (string, error) {
	switch s := s.(type) {
	case circle:
		return fmt.Sprintf("circle r=%g area=%.2f", s.r, s.area()), nil
	case rect:
		return fmt.Sprintf("rect %gx%g area=%.2f", s.w, s.h, s.area()), nil
	case square:
		return fmt.Sprintf("square side=%g area=%.2f", s.side, s.area()), nil
	}
	return "", fmt.Errorf("unhandled shape %T", s)
}

func sealed(log console.Log) error {
	log.Append("=== closed type switches ===")
	for _, s := range []shape{circle{r: 1}, rect{w: 2, h: 3}, square{side: 4}} {
		d, err := describe(s)
		if err != nil {
			return err
		}
		log.Append(d)
	}
	return nil
}

// ValidationError reports a rejected input value.
type ValidationError struct {
	Field string
	Value int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must be positive, got %d", e.Field, e.Value)
}

var errNegative = errors.New("negative input")

func checkedSqrt(n int) (float64, error) {
	if n < 0 {
		return 0, fmt.Errorf("sqrt(%d): %w", n, &ValidationError{Field: "n", Value: n})
	}
	return math.Sqrt(float64(n)), nil
}

// customError demonstrates a handler that fails part way through: the lines
// it wrote before the failure stay in the log.
func customError(log console.Log) error {
	log.Append("=== custom errors ===")
	for _, n := range []int{16, 2, -4, 9} {
		v, err := checkedSqrt(n)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				log.Appendf("errors.As found *ValidationError for field %q", verr.Field)
			}
			return errors.Join(errNegative, err)
		}
		log.Appendf("sqrt(%d) = %.3f", n, v)
	}
	return nil
}
