package submodel

import (
	"github.com/aretw0/galvani/pkg/registry"
	"github.com/aretw0/galvani/pkg/symbol"
)

type (
	fundamentalFunc func() (Variables, error)
	coupledFunc     func(registry.Reader) (Variables, error)
	equationsFunc   func(registry.Reader) (*symbol.Equations, error)
	boundaryFunc    func(registry.Reader) (symbol.BoundaryConditions, error)
)

// Builder assembles a submodel from closures.
type Builder struct {
	fn *Func
}

// Define starts a new closure-backed submodel.
func Define(name string) *Builder {
	return &Builder{fn: &Func{name: name}}
}

// Fundamental sets the fundamental step.
func (b *Builder) Fundamental(f func() (Variables, error)) *Builder {
	b.fn.fundamental = f
	return b
}

// Coupled sets the coupled step.
func (b *Builder) Coupled(f func(registry.Reader) (Variables, error)) *Builder {
	b.fn.coupled = f
	return b
}

// RHS sets the rhs step.
func (b *Builder) RHS(f func(registry.Reader) (*symbol.Equations, error)) *Builder {
	b.fn.rhs = f
	return b
}

// Algebraic sets the algebraic step.
func (b *Builder) Algebraic(f func(registry.Reader) (*symbol.Equations, error)) *Builder {
	b.fn.algebraic = f
	return b
}

// InitialConditions sets the initial condition step.
func (b *Builder) InitialConditions(f func(registry.Reader) (*symbol.Equations, error)) *Builder {
	b.fn.initial = f
	return b
}

// BoundaryConditions sets the boundary condition step.
func (b *Builder) BoundaryConditions(f func(registry.Reader) (symbol.BoundaryConditions, error)) *Builder {
	b.fn.boundary = f
	return b
}

// Build returns the submodel. Steps that were never set contribute nothing.
func (b *Builder) Build() *Func {
	f := *b.fn
	return &f
}

// Func is a submodel whose steps are closures.
type Func struct {
	name        string
	fundamental fundamentalFunc
	coupled     coupledFunc
	rhs         equationsFunc
	algebraic   equationsFunc
	initial     equationsFunc
	boundary    boundaryFunc
}

func (f *Func) Name() string { return f.name }

func (f *Func) FundamentalVariables() (Variables, error) {
	if f.fundamental == nil {
		return nil, nil
	}
	return f.fundamental()
}

func (f *Func) CoupledVariables(vars registry.Reader) (Variables, error) {
	if f.coupled == nil {
		return nil, nil
	}
	return f.coupled(vars)
}

func (f *Func) RHS(vars registry.Reader) (*symbol.Equations, error) {
	return callEquations(f.rhs, vars)
}

func (f *Func) Algebraic(vars registry.Reader) (*symbol.Equations, error) {
	return callEquations(f.algebraic, vars)
}

func (f *Func) InitialConditions(vars registry.Reader) (*symbol.Equations, error) {
	return callEquations(f.initial, vars)
}

func (f *Func) BoundaryConditions(vars registry.Reader) (symbol.BoundaryConditions, error) {
	if f.boundary == nil {
		return nil, nil
	}
	return f.boundary(vars)
}

func callEquations(fn equationsFunc, vars registry.Reader) (*symbol.Equations, error) {
	if fn == nil {
		return nil, nil
	}
	return fn(vars)
}
