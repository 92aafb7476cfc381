// Package extensibility provides the pluggable behaviors that processors hook
// into the scoping runtime: expression evaluation for bound attributes.
package extensibility

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExprBinder compiles and evaluates attribute expressions against a render
// environment. Programs are compiled once per source string and cached, and a
// single reused VM runs them.
//
// A binder serves one sequential render chain and is not safe for concurrent
// use.
type ExprBinder struct {
	programs map[string]*vm.Program
	vm       vm.VM
}

// NewExprBinder creates a binder with an empty program cache.
func NewExprBinder() *ExprBinder {
	return &ExprBinder{programs: make(map[string]*vm.Program)}
}

// Eval evaluates src against env and returns the typed result. Unknown
// variables are permitted and evaluate to nil, so templates can reference
// state an ancestor may or may not have set.
func (b *ExprBinder) Eval(src string, env map[string]any) (any, error) {
	prog, ok := b.programs[src]
	if !ok {
		p, err := expr.Compile(src, expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("compile expression %q: %w", src, err)
		}
		b.programs[src] = p
		prog = p
	}

	out, err := b.vm.Run(prog, env)
	if err != nil {
		return nil, fmt.Errorf("evaluate expression %q: %w", src, err)
	}
	return out, nil
}
