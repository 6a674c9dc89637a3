package parameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/galvani/pkg/submodel"
	"github.com/aretw0/galvani/pkg/symbol"
)

func TestLithiumIon_DomainSelection(t *testing.T) {
	p := NewLithiumIon()
	cs := symbol.NewVariable("c_s", symbol.WithDomain("positive electrode"))

	ocp := p.OCP(submodel.Positive, cs)
	fp, ok := ocp.(*symbol.FunctionParameter)
	require.True(t, ok)
	assert.Equal(t, PositiveOCP, fp.Name())
	assert.Equal(t, symbol.Domain{"positive electrode"}, fp.Domain())

	assert.Same(t, p.UnRef, p.ReferenceOCP(submodel.Negative))
	assert.Same(t, p.NeP, p.Electrons(submodel.Positive))
}

func TestLithiumIon_OCPEvaluatesThroughInputs(t *testing.T) {
	p := NewLithiumIon()
	ocp := p.OCP(submodel.Negative, symbol.NewScalar(0.5))
	in := &symbol.Inputs{Functions: map[string]func(...float64) float64{
		NegativeOCP: func(x ...float64) float64 { return 1 - x[0] },
	}}
	got, err := symbol.Evaluate(ocp, 0, nil, in)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, got)
}

func TestLithiumSulfur_Current(t *testing.T) {
	ls := NewLithiumSulfur()
	in := &symbol.Inputs{Functions: map[string]func(...float64) float64{
		CurrentFunction: func(x ...float64) float64 { return 2 * x[0] },
	}}
	got, err := symbol.Evaluate(ls.Current, 3, nil, in)
	require.NoError(t, err)
	assert.Equal(t, []float64{6}, got)

	assert.Equal(t, "Reference temperature [K]", ls.TRef.Name())

	vt, err := symbol.Evaluate(ls.ThermalVoltage(), 0, nil, &symbol.Inputs{Values: map[string]float64{"Reference temperature [K]": 298.15}})
	require.NoError(t, err)
	assert.InDelta(t, 0.025693, vt[0], 1e-5)
}
