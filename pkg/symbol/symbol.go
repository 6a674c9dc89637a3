package symbol

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Symbol is a node of an expression tree.
type Symbol interface {
	Name() string
	Domain() Domain
	Auxiliary() AuxiliaryDomains
	Children() []Symbol
	String() string
}

type base struct {
	name      string
	domain    Domain
	auxiliary AuxiliaryDomains
}

func (b *base) Name() string                { return b.name }
func (b *base) Domain() Domain              { return b.domain }
func (b *base) Auxiliary() AuxiliaryDomains { return b.auxiliary }

// Option configures the domains of a leaf symbol.
type Option func(*base)

// WithDomain places the symbol on the given regions.
func WithDomain(regions ...string) Option {
	return func(b *base) {
		b.domain = slices.Clone(Domain(regions))
	}
}

// WithAuxiliary sets the auxiliary domain at level (Secondary, Tertiary).
func WithAuxiliary(level string, regions ...string) Option {
	return func(b *base) {
		if len(regions) == 0 {
			return
		}
		if b.auxiliary == nil {
			b.auxiliary = AuxiliaryDomains{}
		}
		b.auxiliary[level] = slices.Clone(Domain(regions))
	}
}

func newBase(name string, opts []Option) base {
	b := base{name: name}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Scalar is a constant number.
type Scalar struct {
	base
	Value float64
}

// NewScalar returns a domain-less constant.
func NewScalar(v float64) *Scalar {
	return &Scalar{base: base{name: formatFloat(v)}, Value: v}
}

func (s *Scalar) Children() []Symbol { return nil }
func (s *Scalar) String() string     { return s.name }

// Vector is a constant column vector.
type Vector struct {
	base
	Values []float64
}

// NewVector copies values into a constant vector.
func NewVector(values []float64, opts ...Option) *Vector {
	return &Vector{
		base:   newBase(fmt.Sprintf("Vector(%d)", len(values)), opts),
		Values: slices.Clone(values),
	}
}

func (v *Vector) Children() []Symbol { return nil }
func (v *Vector) String() string     { return v.name }

// Parameter is a named constant whose value is supplied at evaluation time.
type Parameter struct {
	base
}

// NewParameter returns a named parameter leaf.
func NewParameter(name string, opts ...Option) *Parameter {
	return &Parameter{base: newBase(name, opts)}
}

func (p *Parameter) Children() []Symbol { return nil }
func (p *Parameter) String() string     { return p.name }

// Input is one named argument of a FunctionParameter.
type Input struct {
	Name   string
	Symbol Symbol
}

// In builds an Input.
func In(name string, s Symbol) Input { return Input{Name: name, Symbol: s} }

// FunctionParameter is a parameter that is a function of other symbols,
// e.g. an open-circuit potential as a function of stoichiometry.
type FunctionParameter struct {
	base
	Inputs []Input
}

// NewFunctionParameter builds a function parameter. Its domain is the common
// domain of its inputs; incompatible inputs panic with *DomainError.
func NewFunctionParameter(name string, inputs ...Input) *FunctionParameter {
	fp := &FunctionParameter{base: base{name: name}, Inputs: slices.Clone(inputs)}
	for _, in := range inputs {
		d, ok := mergeDomains(fp.domain, in.Symbol.Domain())
		if !ok {
			panic(&DomainError{Op: name, Left: fp.domain, Right: in.Symbol.Domain()})
		}
		aux, ok := mergeAuxiliary(fp.auxiliary, in.Symbol.Auxiliary())
		if !ok {
			panic(&DomainError{Op: name, Left: fp.auxiliary.Get(Secondary), Right: in.Symbol.Auxiliary().Get(Secondary), Auxiliary: true})
		}
		fp.domain, fp.auxiliary = d, aux
	}
	return fp
}

func (f *FunctionParameter) Children() []Symbol {
	out := make([]Symbol, len(f.Inputs))
	for i, in := range f.Inputs {
		out[i] = in.Symbol
	}
	return out
}

func (f *FunctionParameter) String() string {
	args := make([]string, len(f.Inputs))
	for i, in := range f.Inputs {
		args[i] = in.Symbol.String()
	}
	return fmt.Sprintf("%s(%s)", f.name, strings.Join(args, ", "))
}

// Variable is an unknown field solved for by the external solver.
type Variable struct {
	base
}

// NewVariable creates a new unknown. Two calls with the same name return
// distinct variables.
func NewVariable(name string, opts ...Option) *Variable {
	return &Variable{base: newBase(name, opts)}
}

func (v *Variable) Children() []Symbol { return nil }
func (v *Variable) String() string     { return v.name }

// Slice is a half-open index range [Start, Stop) into the state vector.
type Slice struct {
	Start int `json:"start"`
	Stop  int `json:"stop"`
}

// Len returns the number of entries covered.
func (s Slice) Len() int { return s.Stop - s.Start }

// Overlaps reports whether s and o share at least one index.
func (s Slice) Overlaps(o Slice) bool {
	return s.Start < o.Stop && o.Start < s.Stop
}

func (s Slice) String() string { return fmt.Sprintf("%d:%d", s.Start, s.Stop) }

// StateVector reads one or more slices of the global state vector y.
type StateVector struct {
	base
	Slices []Slice
}

// NewStateVector builds a state vector over the given slices.
func NewStateVector(slices []Slice, opts ...Option) *StateVector {
	parts := make([]string, len(slices))
	for i, s := range slices {
		parts[i] = s.String()
	}
	return &StateVector{
		base:   newBase("y["+strings.Join(parts, ",")+"]", opts),
		Slices: append([]Slice(nil), slices...),
	}
}

// Len is the total number of entries read.
func (sv *StateVector) Len() int {
	n := 0
	for _, s := range sv.Slices {
		n += s.Len()
	}
	return n
}

// Stop is the largest index read, plus one.
func (sv *StateVector) Stop() int {
	stop := 0
	for _, s := range sv.Slices {
		stop = max(stop, s.Stop)
	}
	return stop
}

func (sv *StateVector) Children() []Symbol { return nil }
func (sv *StateVector) String() string     { return sv.name }

// Time is the independent variable t.
type Time struct {
	base
}

// T is the time symbol shared by all expressions.
var T = &Time{base: base{name: "time"}}

func (t *Time) Children() []Symbol { return nil }
func (t *Time) String() string     { return "t" }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
