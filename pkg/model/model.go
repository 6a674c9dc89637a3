package model

import (
	"slices"

	"github.com/aretw0/galvani/pkg/registry"
	"github.com/aretw0/galvani/pkg/symbol"
)

// Model is the merged result of all submodels: the variable mapping and
// the equation sets handed to the discretiser.
type Model struct {
	Name               string
	Variables          *registry.Registry
	RHS                *symbol.Equations
	Algebraic          *symbol.Equations
	InitialConditions  *symbol.Equations
	BoundaryConditions symbol.BoundaryConditions
	// Submodels lists contributing submodels in declaration order.
	Submodels []string

	owners     map[*symbol.Variable]string
	publishers map[string]string
	reads      map[string][]string
}

// New returns an empty model.
func New(name string) *Model {
	return &Model{
		Name:               name,
		Variables:          registry.New(),
		RHS:                symbol.NewEquations(),
		Algebraic:          symbol.NewEquations(),
		InitialConditions:  symbol.NewEquations(),
		BoundaryConditions: symbol.BoundaryConditions{},
		owners:             make(map[*symbol.Variable]string),
		publishers:         make(map[string]string),
		reads:              make(map[string][]string),
	}
}

// Owner returns the submodel that created v.
func (m *Model) Owner(v *symbol.Variable) (string, bool) {
	o, ok := m.owners[v]
	return o, ok
}

// Publisher returns the submodel that published name.
func (m *Model) Publisher(name string) (string, bool) {
	p, ok := m.publishers[name]
	return p, ok
}

// Reads returns the names submodel looked up during the build, in first
// read order. Lookups of names that were never published are included.
func (m *Model) Reads(submodel string) []string {
	return slices.Clone(m.reads[submodel])
}

// reader returns a view of the registry that records reads by submodel.
func (m *Model) reader(submodel string) registry.Reader {
	return &tracker{Reader: m.Variables, record: func(name string) {
		if !slices.Contains(m.reads[submodel], name) {
			m.reads[submodel] = append(m.reads[submodel], name)
		}
	}}
}

type tracker struct {
	registry.Reader
	record func(string)
}

func (t *tracker) Lookup(name string) (symbol.Symbol, bool) {
	t.record(name)
	return t.Reader.Lookup(name)
}

func (t *tracker) Require(name string) (symbol.Symbol, error) {
	t.record(name)
	return t.Reader.Require(name)
}

func (t *tracker) Has(name string) bool {
	t.record(name)
	return t.Reader.Has(name)
}

// StateVariables returns the unknowns in state-vector order: rhs keys
// first, then algebraic keys.
func (m *Model) StateVariables() []*symbol.Variable {
	return append(m.RHS.Keys(), m.Algebraic.Keys()...)
}

// Check verifies completeness: every variable referenced by an equation
// has exactly one of an rhs or an algebraic equation, and an initial
// condition. All violations are returned together.
func (m *Model) Check() error {
	var order []*symbol.Variable
	seen := make(map[*symbol.Variable]bool)
	add := func(v *symbol.Variable) {
		if !seen[v] {
			seen[v] = true
			order = append(order, v)
		}
	}
	for _, eqs := range []*symbol.Equations{m.RHS, m.Algebraic} {
		for v, expr := range eqs.All() {
			add(v)
			for _, u := range symbol.Variables(expr) {
				add(u)
			}
		}
	}
	for _, v := range m.InitialConditions.Keys() {
		add(v)
	}

	var errs []error
	for _, v := range order {
		inRHS, inAlg := m.RHS.Has(v), m.Algebraic.Has(v)
		switch {
		case inRHS && inAlg:
			errs = append(errs, &ModelError{Variable: v.Name(), Reason: "defined by both an rhs and an algebraic equation"})
		case !inRHS && !inAlg:
			errs = append(errs, &ModelError{Variable: v.Name(), Reason: "has no rhs or algebraic equation"})
		}
		if !m.InitialConditions.Has(v) {
			errs = append(errs, &ModelError{Variable: v.Name(), Reason: "has no initial condition"})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
