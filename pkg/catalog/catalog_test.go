package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/galvani/pkg/parameters"
	"github.com/aretw0/galvani/pkg/submodel"
	"github.com/aretw0/galvani/pkg/submodel/aggregate"
	"github.com/aretw0/galvani/pkg/submodel/kinetics"
	"github.com/aretw0/galvani/pkg/submodel/prescribed"
	"github.com/aretw0/galvani/pkg/symbol"
)

func TestCatalog_Kinds(t *testing.T) {
	c := Default(parameters.NewLithiumIon())
	assert.Equal(t, []string{"applied-current", "decay", "interface", "plating", "prescribed", "whole-cell"}, c.Kinds())
}

func TestCatalog_Build(t *testing.T) {
	c := Default(parameters.NewLithiumIon())

	tests := []struct {
		name  string
		spec  Spec
		check func(t *testing.T, sm submodel.Submodel)
	}{
		{
			name: "decay with parameter rate and numeric initial value",
			spec: Spec{Kind: KindDecay, Options: map[string]any{
				"key": "c", "rate": "k", "initial": 2, "regions": []string{"negative electrode"},
			}},
			check: func(t *testing.T, sm submodel.Submodel) {
				d, ok := sm.(*prescribed.Decay)
				require.True(t, ok)
				assert.Equal(t, "c decay", d.Name())
				assert.Equal(t, symbol.NewParameter("k").Name(), d.Rate.Name())
				require.IsType(t, &symbol.Scalar{}, d.Initial)
				assert.Equal(t, 2.0, d.Initial.(*symbol.Scalar).Value)

				vars, err := d.FundamentalVariables()
				require.NoError(t, err)
				assert.Equal(t, symbol.Domain{"negative electrode"}, vars["c"].Domain())
			},
		},
		{
			name: "prescribed variables",
			spec: Spec{Kind: KindPrescribed, Name: "inputs", Options: map[string]any{
				"variables": map[string]any{"phi": 0.5, "T": "Ambient temperature"},
			}},
			check: func(t *testing.T, sm submodel.Submodel) {
				assert.Equal(t, "inputs", sm.Name())
				vars, err := sm.(submodel.FundamentalContributor).FundamentalVariables()
				require.NoError(t, err)
				assert.IsType(t, &symbol.Scalar{}, vars["phi"])
				assert.IsType(t, &symbol.Parameter{}, vars["T"])
			},
		},
		{
			name: "interface with inverse kinetics",
			spec: Spec{Kind: KindInterface, Domain: submodel.Positive, Options: map[string]any{"kinetics": "inverse-butler-volmer"}},
			check: func(t *testing.T, sm submodel.Submodel) {
				i, ok := sm.(*kinetics.Interface)
				require.True(t, ok)
				assert.Equal(t, kinetics.InverseButlerVolmer{}, i.Kinetics())
				assert.Equal(t, "positive interface (inverse butler-volmer)", i.Name())
			},
		},
		{
			name: "whole-cell aggregator",
			spec: Spec{Kind: KindWholeCell, Options: map[string]any{"reaction": "Li plating"}},
			check: func(t *testing.T, sm submodel.Submodel) {
				w, ok := sm.(*aggregate.WholeCell)
				require.True(t, ok)
				assert.Equal(t, "Li plating", w.Reaction)
			},
		},
		{
			name: "applied current",
			spec: Spec{Kind: KindCurrent},
			check: func(t *testing.T, sm submodel.Submodel) {
				assert.Equal(t, "applied current", sm.Name())
				vars, err := sm.(submodel.FundamentalContributor).FundamentalVariables()
				require.NoError(t, err)
				require.IsType(t, &symbol.FunctionParameter{}, vars[CurrentVariable])
				assert.Equal(t, parameters.CurrentFunction, vars[CurrentVariable].Name())

				in := &symbol.Inputs{
					Values:    map[string]float64{"Reference temperature [K]": 298.15},
					Functions: map[string]func(...float64) float64{parameters.CurrentFunction: func(args ...float64) float64 { return 1.7 }},
				}
				got, err := symbol.Evaluate(vars[CurrentVariable], 3, nil, in)
				require.NoError(t, err)
				assert.Equal(t, []float64{1.7}, got)

				vt, err := symbol.Evaluate(vars[ThermalVoltageVariable], 0, nil, in)
				require.NoError(t, err)
				assert.InDelta(t, 0.025693, vt[0], 1e-6)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm, err := c.Build(tt.spec)
			require.NoError(t, err)
			tt.check(t, sm)
		})
	}
}

func TestCatalog_BuildErrors(t *testing.T) {
	c := Default(parameters.NewLithiumIon())

	tests := []struct {
		name string
		spec Spec
		want string
	}{
		{"unknown option", Spec{Kind: KindDecay, Options: map[string]any{"key": "c", "typo": 1}}, "invalid options"},
		{"missing key", Spec{Kind: KindDecay}, "decay needs a key"},
		{"bad kinetics", Spec{Kind: KindInterface, Domain: submodel.Negative, Options: map[string]any{"kinetics": "tafel"}}, `unknown kinetics "tafel"`},
		{"separator interface", Spec{Kind: KindInterface, Domain: submodel.Separator}, "must be Negative or Positive"},
		{"plating options", Spec{Kind: KindPlating, Domain: submodel.Negative, Options: map[string]any{"x": 1}}, "no options"},
		{"non-symbol value", Spec{Kind: KindPrescribed, Options: map[string]any{"variables": map[string]any{"x": true}}}, "as a symbol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Build(tt.spec)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := c.Build(Spec{Kind: "spme"})
	var uk *UnknownKindError
	require.ErrorAs(t, err, &uk)
	assert.Equal(t, "spme", uk.Kind)
	assert.Contains(t, uk.Known, KindDecay)
}

func TestCatalog_Resolve(t *testing.T) {
	c := Default(parameters.NewLithiumIon())
	sms, ags, err := c.Resolve([]Spec{
		{Kind: KindPlating, Domain: submodel.Negative},
		{Kind: KindWholeCell, Options: map[string]any{"reaction": "Li plating"}},
		{Kind: KindPlating, Domain: submodel.Positive},
	})
	require.NoError(t, err)
	require.Len(t, sms, 2)
	require.Len(t, ags, 1)
	assert.Equal(t, "negative reversible plating", sms[0].Name())
	assert.Equal(t, "positive reversible plating", sms[1].Name())

	_, _, err = c.Resolve([]Spec{{Kind: KindDecay, Options: map[string]any{"key": "c"}}, {Kind: "nope"}})
	assert.ErrorContains(t, err, "submodels[1]")
}

func TestCatalog_RegisterOverrides(t *testing.T) {
	c := New()
	fixed := prescribed.NewVariables("fixed", submodel.Variables{"x": symbol.NewScalar(1)})
	c.Register("custom", func(Spec) (submodel.Submodel, error) { return fixed, nil })

	sm, err := c.Build(Spec{Kind: "custom"})
	require.NoError(t, err)
	assert.Same(t, fixed, sm)
}
