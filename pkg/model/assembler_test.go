package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/galvani/pkg/registry"
	"github.com/aretw0/galvani/pkg/submodel"
	"github.com/aretw0/galvani/pkg/submodel/aggregate"
	"github.com/aretw0/galvani/pkg/submodel/prescribed"
	"github.com/aretw0/galvani/pkg/symbol"
)

// orderingSubmodels returns A, which reads "X" in its coupled step, and B,
// which publishes it.
func orderingSubmodels() (a, b submodel.Submodel) {
	a = submodel.Define("A").
		Coupled(func(vars registry.Reader) (submodel.Variables, error) {
			x, err := vars.Require("X")
			if err != nil {
				return nil, err
			}
			return submodel.Variables{"Y": symbol.Mul(symbol.NewScalar(2), x)}, nil
		}).
		Build()
	b = submodel.Define("B").
		Coupled(func(registry.Reader) (submodel.Variables, error) {
			return submodel.Variables{"X": symbol.NewScalar(1)}, nil
		}).
		Build()
	return a, b
}

func TestBuild_CoupledOrdering(t *testing.T) {
	a, b := orderingSubmodels()

	t.Run("Definer before reader succeeds", func(t *testing.T) {
		m, err := NewAssembler().Add(b, a).Build(context.Background())
		require.NoError(t, err)
		assert.True(t, m.Variables.Has("Y"))
		assert.Equal(t, []string{"X"}, m.Reads("A"))
		assert.Empty(t, m.Reads("B"))
	})

	t.Run("Reader before definer fails", func(t *testing.T) {
		_, err := NewAssembler().Add(a, b).Build(context.Background())
		var missing *registry.MissingVariableError
		require.True(t, errors.As(err, &missing), "got %v", err)
		assert.Equal(t, "X", missing.Name)
	})
}

func TestBuild_Completeness(t *testing.T) {
	c := symbol.NewVariable("c")
	d := symbol.NewVariable("d")
	owned := func(name string, build func(*submodel.Builder)) submodel.Submodel {
		b := submodel.Define(name).Fundamental(func() (submodel.Variables, error) {
			return submodel.Variables{"c": c, "d": d}, nil
		})
		build(b)
		return b.Build()
	}

	tests := []struct {
		name    string
		sm      submodel.Submodel
		reasons []string
	}{
		{
			name: "rhs and algebraic for the same variable",
			sm: owned("both", func(b *submodel.Builder) {
				b.RHS(func(registry.Reader) (*symbol.Equations, error) {
					return symbol.NewEquations().Set(c, symbol.NewScalar(0)), nil
				}).Algebraic(func(registry.Reader) (*symbol.Equations, error) {
					return symbol.NewEquations().Set(c, c), nil
				}).InitialConditions(func(registry.Reader) (*symbol.Equations, error) {
					return symbol.NewEquations().Set(c, symbol.NewScalar(1)), nil
				})
			}),
			reasons: []string{`variable "c": defined by both an rhs and an algebraic equation`},
		},
		{
			name: "missing initial condition",
			sm: owned("noic", func(b *submodel.Builder) {
				b.RHS(func(registry.Reader) (*symbol.Equations, error) {
					return symbol.NewEquations().Set(c, symbol.Neg(c)), nil
				})
			}),
			reasons: []string{`variable "c": has no initial condition`},
		},
		{
			name: "referenced variable without equation",
			sm: owned("dangling", func(b *submodel.Builder) {
				b.RHS(func(registry.Reader) (*symbol.Equations, error) {
					return symbol.NewEquations().Set(c, d), nil
				}).InitialConditions(func(registry.Reader) (*symbol.Equations, error) {
					return symbol.NewEquations().Set(c, symbol.NewScalar(1)), nil
				})
			}),
			reasons: []string{
				`variable "d": has no rhs or algebraic equation`,
				`variable "d": has no initial condition`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAssembler().Add(tt.sm).Build(context.Background())
			require.Error(t, err)
			violations := Violations(err)
			require.Len(t, violations, len(tt.reasons))
			for i, v := range violations {
				var me *ModelError
				require.ErrorAs(t, v, &me)
				assert.Equal(t, tt.reasons[i], v.Error())
			}
		})
	}
}

func TestBuild_CompleteModel(t *testing.T) {
	decay := prescribed.NewDecay("decay", "c", symbol.NewParameter("k"), symbol.NewParameter("c0"))
	m, err := NewAssembler(WithName("lumped")).Add(decay).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "lumped", m.Name)
	assert.Equal(t, []string{"decay"}, m.Submodels)
	require.Len(t, m.StateVariables(), 1)
	c := m.StateVariables()[0]
	owner, ok := m.Owner(c)
	require.True(t, ok)
	assert.Equal(t, "decay", owner)
	assert.NoError(t, m.Check())
}

func TestBuild_AggregateIdempotence(t *testing.T) {
	const partialNeg = "Negative electrode Li plating interfacial current density"
	const partialPos = "Positive electrode Li plating interfacial current density"
	const whole = "Li plating interfacial current density"

	var seenDuringCoupled []bool
	probe := submodel.Define("probe").
		Coupled(func(vars registry.Reader) (submodel.Variables, error) {
			seenDuringCoupled = append(seenDuringCoupled, vars.Has(whole))
			return nil, nil
		}).
		Build()
	neg := prescribed.NewVariables("negative plating", submodel.Variables{partialNeg: symbol.NewScalar(1.5)})
	pos := prescribed.NewVariables("positive plating", submodel.Variables{partialPos: symbol.NewScalar(-0.5)})

	calls := 0
	counter := countingAggregator{inner: aggregate.NewWholeCell("Li plating"), calls: &calls}

	m, err := NewAssembler().
		Add(neg, probe, pos).
		AddAggregator(counter, counter).
		Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []bool{false}, seenDuringCoupled, "aggregate absent before both partials exist")
	assert.Equal(t, []string{whole}, m.Reads("probe"))
	assert.Equal(t, 2, calls)

	s, ok := m.Variables.Lookup(whole)
	require.True(t, ok)
	got, err := symbol.Evaluate(s, 0, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, got)
	assert.Len(t, m.Variables.Names(), 3, "whole-cell variable published exactly once")
}

type countingAggregator struct {
	inner submodel.Aggregator
	calls *int
}

func (c countingAggregator) Name() string { return c.inner.Name() }

func (c countingAggregator) Aggregate(vars registry.Reader) (submodel.Variables, error) {
	*c.calls++
	return c.inner.Aggregate(vars)
}

func TestBuild_Collisions(t *testing.T) {
	shared := symbol.NewScalar(1)
	one := prescribed.NewVariables("one", submodel.Variables{"X": shared})
	same := prescribed.NewVariables("same", submodel.Variables{"X": shared})
	other := prescribed.NewVariables("other", submodel.Variables{"X": symbol.NewScalar(2)})

	_, err := NewAssembler().Add(one, same).Build(context.Background())
	assert.NoError(t, err, "re-publishing the same symbol is allowed")

	_, err = NewAssembler().Add(one, other).Build(context.Background())
	var collision *CollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "X", collision.Key)
	assert.Equal(t, "other", collision.Submodel)
	assert.Equal(t, "one", collision.Previous)

	_, err = NewAssembler().Add(one, one).Build(context.Background())
	assert.ErrorIs(t, err, ErrDuplicateSubmodel)
}

func TestBuild_Ownership(t *testing.T) {
	decay := prescribed.NewDecay("decay", "c", symbol.NewScalar(1), symbol.NewScalar(1))
	thief := submodel.Define("thief").
		Algebraic(func(vars registry.Reader) (*symbol.Equations, error) {
			c, err := registry.RequireVariable(vars, "c")
			if err != nil {
				return nil, err
			}
			return symbol.NewEquations().Set(c, c), nil
		}).
		Build()

	_, err := NewAssembler().Add(decay, thief).Build(context.Background())
	var own *OwnershipError
	require.ErrorAs(t, err, &own)
	assert.Equal(t, "thief", own.Submodel)
	assert.Equal(t, "decay", own.Owner)
	assert.Equal(t, PhaseAlgebraic, own.Phase)
}

func TestBuild_BoundaryConditions(t *testing.T) {
	c := symbol.NewVariable("c", symbol.WithDomain("negative electrode"))
	diffusion := submodel.Define("diffusion").
		Fundamental(func() (submodel.Variables, error) {
			return submodel.Variables{"c": c}, nil
		}).
		RHS(func(registry.Reader) (*symbol.Equations, error) {
			return symbol.NewEquations().Set(c, symbol.DivOf(symbol.Grad(c))), nil
		}).
		InitialConditions(func(registry.Reader) (*symbol.Equations, error) {
			return symbol.NewEquations().Set(c, symbol.NewScalar(1)), nil
		}).
		BoundaryConditions(func(registry.Reader) (symbol.BoundaryConditions, error) {
			bcs := symbol.BoundaryConditions{}
			bcs.Set(c, symbol.Left, symbol.BoundaryCondition{Value: symbol.NewScalar(0), Type: symbol.Neumann})
			return bcs, nil
		}).
		Build()

	m, err := NewAssembler().Add(diffusion).Build(context.Background())
	require.NoError(t, err)
	bc, ok := m.BoundaryConditions.Get(c, symbol.Left)
	require.True(t, ok)
	assert.Equal(t, symbol.Neumann, bc.Type)
}

func TestBuild_DomainPanicBecomesError(t *testing.T) {
	bad := submodel.Define("bad").
		Coupled(func(registry.Reader) (submodel.Variables, error) {
			a := symbol.NewVariable("a", symbol.WithDomain("negative electrode"))
			b := symbol.NewVariable("b", symbol.WithDomain("positive electrode"))
			return submodel.Variables{"sum": symbol.Add(a, b)}, nil
		}).
		Build()

	_, err := NewAssembler().Add(bad).Build(context.Background())
	var de *symbol.DomainError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, err.Error(), `submodel "bad"`)
}

func TestBuild_ParallelFundamentalsKeepOrder(t *testing.T) {
	var sms []submodel.Submodel
	for _, name := range []string{"a", "b", "c", "d"} {
		sms = append(sms, prescribed.NewDecay(name, name, symbol.NewScalar(1), symbol.NewScalar(1)))
	}
	m, err := NewAssembler(WithParallelFundamentals()).Add(sms...).Build(context.Background())
	require.NoError(t, err)

	var keys []string
	for _, v := range m.StateVariables() {
		keys = append(keys, v.Name())
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, keys)
}

func TestBuild_LifecycleHooks(t *testing.T) {
	var started, ended []Phase
	hooks := Hooks{
		OnPhaseStart: func(_ context.Context, e *PhaseEvent) { started = append(started, e.Phase) },
		OnPhaseEnd:   func(_ context.Context, e *PhaseEvent) { ended = append(ended, e.Phase) },
	}
	decay := prescribed.NewDecay("decay", "c", symbol.NewScalar(1), symbol.NewScalar(1))
	_, err := NewAssembler(WithLifecycleHooks(hooks)).Add(decay).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Phases, started)
	assert.Equal(t, Phases, ended)
}

func TestBuild_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAssembler().Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
