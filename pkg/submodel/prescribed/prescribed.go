// Package prescribed provides generic submodels for quantities that are
// given rather than solved for, plus a first-order decay state used for
// lumped models and tests.
package prescribed

import (
	"fmt"
	"maps"

	"github.com/aretw0/galvani/pkg/registry"
	"github.com/aretw0/galvani/pkg/submodel"
	"github.com/aretw0/galvani/pkg/symbol"
)

// Variables publishes fixed symbols in the fundamental step.
type Variables struct {
	name string
	vars submodel.Variables
}

// NewVariables returns a submodel publishing vars.
func NewVariables(name string, vars submodel.Variables) *Variables {
	return &Variables{name: name, vars: maps.Clone(vars)}
}

func (p *Variables) Name() string { return p.name }

func (p *Variables) FundamentalVariables() (submodel.Variables, error) {
	return maps.Clone(p.vars), nil
}

// Decay owns one unknown c with dc/dt = -k c and c(0) = c0.
type Decay struct {
	name    string
	Key     string
	Rate    symbol.Symbol
	Initial symbol.Symbol
	opts    []symbol.Option
}

// NewDecay returns a decay submodel publishing its unknown under key.
func NewDecay(name, key string, rate, initial symbol.Symbol, opts ...symbol.Option) *Decay {
	return &Decay{name: name, Key: key, Rate: rate, Initial: initial, opts: opts}
}

func (d *Decay) Name() string { return d.name }

func (d *Decay) FundamentalVariables() (submodel.Variables, error) {
	if d.Rate == nil || d.Initial == nil {
		return nil, fmt.Errorf("decay %q needs a rate and an initial value", d.name)
	}
	return submodel.Variables{d.Key: symbol.NewVariable(d.Key, d.opts...)}, nil
}

func (d *Decay) RHS(vars registry.Reader) (*symbol.Equations, error) {
	c, err := registry.RequireVariable(vars, d.Key)
	if err != nil {
		return nil, err
	}
	return symbol.NewEquations().Set(c, symbol.Neg(symbol.Mul(d.Rate, c))), nil
}

func (d *Decay) InitialConditions(vars registry.Reader) (*symbol.Equations, error) {
	c, err := registry.RequireVariable(vars, d.Key)
	if err != nil {
		return nil, err
	}
	return symbol.NewEquations().Set(c, d.Initial), nil
}
