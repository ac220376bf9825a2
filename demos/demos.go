// Package demos holds the tutorial handlers offered by the console. Each
// demo is a small, deterministic walk through one language feature that
// writes its narration to the log it is given.
package demos

import (
	"slices"

	"github.com/octoberswimmer/console"
)

// Demo is a tutorial handler with its menu entry.
type Demo struct {
	ID      string
	Name    string
	Handler console.Handler
}

// All returns every demo in menu order.
func All() []Demo {
	return []Demo{
		{ID: "functionReference", Name: "Function values", Handler: functionReference},
		{ID: "methodValue", Name: "Method values", Handler: methodValue},
		{ID: "methodExpression", Name: "Method expressions", Handler: methodExpression},
		{ID: "constructorReference", Name: "Constructors as factories", Handler: constructorReference},
		{ID: "clickListener", Name: "Callbacks", Handler: clickListener},
		{ID: "listOperations", Name: "Slice pipelines", Handler: listOperations},
		{ID: "lambda", Name: "Closures", Handler: lambda},
		{ID: "delegation", Name: "Interface delegation", Handler: delegation},
		{ID: "sealed", Name: "Closed type switches", Handler: sealed},
		{ID: "customError", Name: "Custom errors", Handler: customError},
		{ID: "fixedPool", Name: "Bounded worker pool", Handler: fixedPool},
		{ID: "serialPool", Name: "Serial executor", Handler: serialPool},
		{ID: "scheduled", Name: "Periodic task", Handler: scheduled},
		{ID: "rejectionPolicy", Name: "Saturation policies", Handler: rejectionPolicies},
	}
}

// Register adds every demo not listed in hidden to reg.
func Register(reg *console.Registry, hidden ...string) error {
	for _, d := range All() {
		if slices.Contains(hidden, d.ID) {
			continue
		}
		if err := reg.Register(d.ID, d.Name, d.Handler); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a sealed registry of every demo not listed in hidden.
func NewRegistry(hidden ...string) *console.Registry {
	reg := console.NewRegistry()
	for _, d := range All() {
		if slices.Contains(hidden, d.ID) {
			continue
		}
		reg.MustRegister(d.ID, d.Name, d.Handler)
	}
	reg.Seal()
	return reg
}
