package submodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/galvani/pkg/registry"
	"github.com/aretw0/galvani/pkg/symbol"
)

func TestDefine(t *testing.T) {
	c := symbol.NewVariable("c")
	sm := Define("decay").
		Fundamental(func() (Variables, error) {
			return Variables{"c": c}, nil
		}).
		RHS(func(registry.Reader) (*symbol.Equations, error) {
			return symbol.NewEquations().Set(c, symbol.Neg(c)), nil
		}).
		Build()

	assert.Equal(t, "decay", sm.Name())

	vars, err := sm.FundamentalVariables()
	require.NoError(t, err)
	assert.Same(t, c, vars["c"])

	rhs, err := sm.RHS(registry.New())
	require.NoError(t, err)
	assert.True(t, rhs.Has(c))

	// Unset steps contribute nothing.
	alg, err := sm.Algebraic(registry.New())
	require.NoError(t, err)
	assert.Nil(t, alg)
	coupled, err := sm.CoupledVariables(registry.New())
	require.NoError(t, err)
	assert.Nil(t, coupled)
}

func TestFuncImplementsEveryCapability(t *testing.T) {
	var sm Submodel = Define("x").Build()
	_, ok := sm.(FundamentalContributor)
	assert.True(t, ok)
	_, ok = sm.(CoupledContributor)
	assert.True(t, ok)
	_, ok = sm.(RHSContributor)
	assert.True(t, ok)
	_, ok = sm.(AlgebraicContributor)
	assert.True(t, ok)
	_, ok = sm.(InitialConditionContributor)
	assert.True(t, ok)
	_, ok = sm.(BoundaryConditionContributor)
	assert.True(t, ok)
}

func TestDomainNames(t *testing.T) {
	assert.Equal(t, "negative electrode", Negative.Electrode())
	assert.Equal(t, "positive particle", Positive.Particle())
	assert.True(t, Separator.Valid())
	assert.False(t, Domain("Middle").Valid())
}
