package symbol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestBinary_DomainCompatibility(t *testing.T) {
	neg := NewVariable("c_n", WithDomain("negative electrode"))
	pos := NewVariable("c_p", WithDomain("positive electrode"))
	k := NewParameter("k")

	t.Run("Empty domain adopts the other", func(t *testing.T) {
		s := Mul(k, neg)
		assert.Equal(t, Domain{"negative electrode"}, s.Domain())
	})

	t.Run("Mismatched domains panic with DomainError", func(t *testing.T) {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			de, ok := r.(*DomainError)
			require.True(t, ok, "expected *DomainError, got %T", r)
			assert.Equal(t, "+", de.Op)
		}()
		Add(neg, pos)
	})

	t.Run("Recover turns the panic into an error", func(t *testing.T) {
		build := func() (err error) {
			defer Recover(&err)
			Add(neg, pos)
			return nil
		}
		err := build()
		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Contains(t, err.Error(), "negative electrode")
	})

	t.Run("Auxiliary domains must agree", func(t *testing.T) {
		a := NewVariable("a", WithDomain("x"), WithAuxiliary(Secondary, "current collector"))
		b := NewVariable("b", WithDomain("x"), WithAuxiliary(Secondary, "other"))
		assert.Panics(t, func() { Add(a, b) })
	})
}

func TestScalarFolding(t *testing.T) {
	s := Mul(NewScalar(2), Add(NewScalar(1), NewScalar(3)))
	sc, ok := s.(*Scalar)
	require.True(t, ok)
	assert.Equal(t, 8.0, sc.Value)

	n := Neg(NewScalar(4))
	assert.Equal(t, -4.0, n.(*Scalar).Value)
}

func TestSpatialOperatorDomains(t *testing.T) {
	c := NewVariable("c", WithDomain("negative particle"), WithAuxiliary(Secondary, "negative electrode"), WithAuxiliary(Tertiary, "current collector"))

	grad := Grad(c)
	assert.Equal(t, c.Domain(), grad.Domain())

	surf := BoundaryValueOf(c, Right)
	assert.Equal(t, Domain{"negative electrode"}, surf.Domain())
	assert.Equal(t, Domain{"current collector"}, surf.Auxiliary().Get(Secondary))

	avg := XAverage(NewVariable("phi", WithDomain("negative electrode")))
	assert.True(t, avg.Domain().Empty())
	assert.True(t, avg.Average)

	assert.Panics(t, func() { Grad(NewParameter("p")) })
}

func TestBroadcastDomains(t *testing.T) {
	i := NewVariable("i", WithDomain("current collector"))
	b := PrimaryBroadcast(i, "separator")
	assert.Equal(t, Domain{"separator"}, b.Domain())
	assert.Equal(t, Domain{"current collector"}, b.Auxiliary().Get(Secondary))

	f := FullBroadcastOf(NewScalar(0), Domain{"negative electrode"}, AuxiliaryDomains{Secondary: {"current collector"}})
	assert.Equal(t, Domain{"current collector"}, f.Auxiliary().Get(Secondary))

	assert.Panics(t, func() { FullBroadcastOf(i, Domain{"separator"}, nil) })
}

func TestConcatenation(t *testing.T) {
	a := NewVariable("a", WithDomain("negative electrode"))
	b := NewVariable("b", WithDomain("separator"))
	c := Concat(a, b)
	assert.Equal(t, Domain{"negative electrode", "separator"}, c.Domain())

	assert.Panics(t, func() { Concat(a, a) })
}

func TestEvaluate(t *testing.T) {
	y := []float64{1, 2, 3, 4}
	in := &Inputs{
		Values: map[string]float64{"k": 2},
		Functions: map[string]func(...float64) float64{
			"U": func(args ...float64) float64 { return 10 * args[0] },
		},
	}

	tests := []struct {
		name string
		expr Symbol
		want []float64
	}{
		{"scalar", NewScalar(3), []float64{3}},
		{"state", NewStateVector([]Slice{{0, 2}}), []float64{1, 2}},
		{"multi slice state", NewStateVector([]Slice{{0, 1}, {3, 4}}), []float64{1, 4}},
		{"broadcast scalar", Mul(NewParameter("k"), NewStateVector([]Slice{{1, 3}})), []float64{4, 6}},
		{"time", Add(T, NewScalar(1)), []float64{1.5}},
		{"negation", Neg(NewStateVector([]Slice{{0, 1}})), []float64{-1}},
		{"power", Sqrt(NewStateVector([]Slice{{3, 4}})), []float64{2}},
		{"function parameter", NewFunctionParameter("U", In("x", NewStateVector([]Slice{{0, 2}}))), []float64{10, 20}},
		{"concatenation", Concat(NewScalar(7), NewStateVector([]Slice{{2, 4}})), []float64{7, 3, 4}},
		{"matmul", MatMul(NewMatrix(mat.NewDense(1, 2, []float64{1, -1})), NewStateVector([]Slice{{0, 2}})), []float64{-1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expr, 0.5, y, in)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got, 1e-12)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	y := make([]float64, 10)

	t.Run("Mismatched lengths", func(t *testing.T) {
		expr := Add(NewStateVector([]Slice{{0, 10}}), NewStateVector([]Slice{{0, 5}}))
		_, err := Evaluate(expr, 0, y, nil)
		assert.ErrorIs(t, err, ErrShape)
	})

	t.Run("Unbound parameter", func(t *testing.T) {
		_, err := Evaluate(NewParameter("missing"), 0, y, nil)
		assert.ErrorIs(t, err, ErrUnboundParameter)
	})

	t.Run("Variable before discretisation", func(t *testing.T) {
		_, err := Evaluate(NewVariable("c"), 0, y, nil)
		assert.ErrorIs(t, err, ErrNotDiscretised)
	})

	t.Run("Slice outside state", func(t *testing.T) {
		_, err := Evaluate(NewStateVector([]Slice{{8, 12}}), 0, y, nil)
		var se *ShapeError
		require.True(t, errors.As(err, &se))
	})
}

func TestSize(t *testing.T) {
	n, err := Size(Mul(NewParameter("k"), NewStateVector([]Slice{{0, 10}})))
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	_, err = Size(Add(NewStateVector([]Slice{{0, 10}}), NewStateVector([]Slice{{0, 5}})))
	assert.ErrorIs(t, err, ErrShape)
}

func TestEquations_Order(t *testing.T) {
	a, b, c := NewVariable("a"), NewVariable("b"), NewVariable("c")
	eqs := NewEquations().Set(b, NewScalar(1)).Set(a, NewScalar(2)).Set(c, NewScalar(3))
	eqs.Set(b, NewScalar(4))

	assert.Equal(t, []*Variable{b, a, c}, eqs.Keys())
	got, ok := eqs.Get(b)
	require.True(t, ok)
	assert.Equal(t, 4.0, got.(*Scalar).Value)

	var names []string
	for v := range eqs.All() {
		names = append(names, v.Name())
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)
}

func TestVariables(t *testing.T) {
	a, b := NewVariable("a"), NewVariable("b")
	expr := Add(Mul(a, b), Exp(a))
	assert.Equal(t, []*Variable{a, b}, Variables(expr))
	assert.Equal(t, 0, StateStop(expr))
}

func TestRebuildKeepsDomains(t *testing.T) {
	a := NewVariable("a", WithDomain("separator"))
	expr := Mul(NewParameter("k"), a).(*Binary)
	sv := NewStateVector([]Slice{{0, 3}})

	got := Rebuild(expr, []Symbol{expr.Left, sv})
	b, ok := got.(*Binary)
	require.True(t, ok)
	assert.Same(t, sv, b.Right)
	assert.Equal(t, Domain{"separator"}, b.Domain())
	assert.Same(t, a, expr.Right, "original must be untouched")

	tagged := Retag(sv, Domain{"negative electrode"}, nil)
	assert.Equal(t, Domain{"negative electrode"}, tagged.Domain())
	assert.True(t, sv.Domain().Empty())
}
