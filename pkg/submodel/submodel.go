package submodel

import (
	"strings"

	"github.com/aretw0/galvani/pkg/registry"
	"github.com/aretw0/galvani/pkg/symbol"
)

// Variables maps domain-qualified names to the symbols a submodel publishes.
type Variables map[string]symbol.Symbol

// Submodel is the identity every contributor carries.
type Submodel interface {
	Name() string
}

// FundamentalContributor creates new unknowns without reading anything
// published by other submodels.
type FundamentalContributor interface {
	Submodel
	FundamentalVariables() (Variables, error)
}

// CoupledContributor derives variables from earlier contributions. A
// missing input is reported as *registry.MissingVariableError.
type CoupledContributor interface {
	Submodel
	CoupledVariables(vars registry.Reader) (Variables, error)
}

// RHSContributor writes time-derivative equations for its own unknowns.
type RHSContributor interface {
	Submodel
	RHS(vars registry.Reader) (*symbol.Equations, error)
}

// AlgebraicContributor writes algebraic constraints for its own unknowns.
type AlgebraicContributor interface {
	Submodel
	Algebraic(vars registry.Reader) (*symbol.Equations, error)
}

// InitialConditionContributor writes initial values for its own unknowns.
type InitialConditionContributor interface {
	Submodel
	InitialConditions(vars registry.Reader) (*symbol.Equations, error)
}

// BoundaryConditionContributor writes boundary conditions for expressions
// built on its own unknowns.
type BoundaryConditionContributor interface {
	Submodel
	BoundaryConditions(vars registry.Reader) (symbol.BoundaryConditions, error)
}

// Aggregator combines variables contributed by several submodels once all
// coupled variables exist.
type Aggregator interface {
	Name() string
	Aggregate(vars registry.Reader) (Variables, error)
}

// Domain identifies the cell component a submodel acts on.
type Domain string

const (
	Negative  Domain = "Negative"
	Separator Domain = "Separator"
	Positive  Domain = "Positive"
)

// Lower returns the lower-case domain name, e.g. "negative".
func (d Domain) Lower() string { return strings.ToLower(string(d)) }

// Electrode returns the region name of the electrode, e.g. "negative electrode".
func (d Domain) Electrode() string { return d.Lower() + " electrode" }

// Particle returns the region name of the electrode particles.
func (d Domain) Particle() string { return d.Lower() + " particle" }

// Valid reports whether d is a known domain.
func (d Domain) Valid() bool {
	switch d {
	case Negative, Separator, Positive:
		return true
	}
	return false
}

// Base carries the fields shared by concrete submodels.
type Base struct {
	name   string
	Domain Domain
}

// NewBase returns a Base named name acting on d.
func NewBase(name string, d Domain) Base {
	return Base{name: name, Domain: d}
}

func (b Base) Name() string { return b.name }
