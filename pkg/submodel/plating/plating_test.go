package plating

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/galvani/pkg/parameters"
	"github.com/aretw0/galvani/pkg/registry"
	"github.com/aretw0/galvani/pkg/submodel"
	"github.com/aretw0/galvani/pkg/symbol"
)

func TestReversible_Steps(t *testing.T) {
	param := parameters.NewLithiumIon()
	r, err := NewReversible(param, submodel.Negative)
	require.NoError(t, err)
	assert.Equal(t, "negative reversible plating", r.Name())

	vars := registry.New()

	// 1. Fundamental
	fund, err := r.FundamentalVariables()
	require.NoError(t, err)
	c, ok := fund[Concentration(submodel.Negative)].(*symbol.Variable)
	require.True(t, ok)
	assert.Equal(t, "Plated Li concentration", c.Name())
	assert.Equal(t, symbol.Domain{"negative electrode"}, c.Domain())
	assert.Equal(t, symbol.Domain{"current collector"}, c.Auxiliary().Get(symbol.Secondary))
	for k, v := range fund {
		vars.Set(k, v)
	}

	// 2. Coupled
	vars.Set("Negative electrode potential", symbol.NewScalar(0.1))
	vars.Set("Negative electrolyte potential", symbol.NewScalar(0.05))
	vars.Set("Negative electrolyte concentration", symbol.NewScalar(1))
	coupled, err := r.CoupledVariables(vars)
	require.NoError(t, err)
	j := coupled[InterfacialCurrent(submodel.Negative)]
	require.NotNil(t, j)
	assert.Equal(t, c.Domain(), j.Domain())
	for k, v := range coupled {
		vars.Set(k, v)
	}

	// 3. Equations
	rhs, err := r.RHS(vars)
	require.NoError(t, err)
	assert.Equal(t, []*symbol.Variable{c}, rhs.Keys())

	ics, err := r.InitialConditions(vars)
	require.NoError(t, err)
	ic, _ := ics.Get(c)
	assert.Same(t, param.CPlatedLi0, ic)
}

func TestReversible_StrippingCurrent(t *testing.T) {
	param := parameters.NewLithiumIon()
	r, err := NewReversible(param, submodel.Negative)
	require.NoError(t, err)

	vars := registry.New()
	vars.Set(Concentration(submodel.Negative), symbol.NewScalar(2))
	vars.Set("Negative electrode potential", symbol.NewScalar(0.1))
	vars.Set("Negative electrolyte potential", symbol.NewScalar(0.05))
	vars.Set("Negative electrolyte concentration", symbol.NewScalar(1))

	out, err := r.CoupledVariables(vars)
	require.NoError(t, err)

	in := &symbol.Inputs{Values: map[string]float64{
		"Negative electrode reference OCP [V]": 0.1,
		"Potential scale [V]":                  0.05,
		"Lithium plating kinetic timescale":    4,
	}}
	got, err := symbol.Evaluate(out[InterfacialCurrent(submodel.Negative)], 0, nil, in)
	require.NoError(t, err)

	eta := 0.1 - 0.05 + 0.1/0.05
	want := (2*math.Exp(0.5*eta) - math.Exp(-0.5*eta)) / 4
	assert.InDelta(t, want, got[0], 1e-12)
}

func TestReversible_MissingCoupledInput(t *testing.T) {
	r, err := NewReversible(parameters.NewLithiumIon(), submodel.Positive)
	require.NoError(t, err)

	_, err = r.CoupledVariables(registry.New())
	var missing *registry.MissingVariableError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Positive electrode potential", missing.Name)
}

func TestNewReversible_Validation(t *testing.T) {
	_, err := NewReversible(nil, submodel.Negative)
	assert.Error(t, err)
	_, err = NewReversible(parameters.NewLithiumIon(), submodel.Separator)
	assert.Error(t, err)
}
