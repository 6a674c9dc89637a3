package discretise

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/aretw0/galvani/pkg/symbol"
)

// block is one discretised equation and the state slots it drives.
type block struct {
	variable string
	slice    symbol.Slice
	expr     symbol.Symbol
}

// System is the discretised model handed to a solver. It is written in
// semi-explicit mass-matrix form M y' = F(t, y), where the first
// Layout.Differential() rows of F are the rhs and the remaining rows are
// algebraic residuals with zero mass.
type System struct {
	Name       string
	Y0         []float64
	Layout     *Layout
	// MassMatrix is nil when the state vector is empty.
	MassMatrix *mat.DiagDense
	// Inputs binds parameter values during evaluation. It may be replaced
	// between calls.
	Inputs *symbol.Inputs

	rhs       []block
	algebraic []block
}

// Len returns the size of the state vector.
func (s *System) Len() int { return s.Layout.Size }

// Differential returns the number of differential state slots.
func (s *System) Differential() int { return s.Layout.Differential() }

// Expression returns the discretised rhs or algebraic expression of
// variable.
func (s *System) Expression(variable string) (symbol.Symbol, bool) {
	for _, b := range slices.Concat(s.rhs, s.algebraic) {
		if b.variable == variable {
			return b.expr, true
		}
	}
	return nil, false
}

// RHS evaluates the differential part of F at (t, y).
func (s *System) RHS(t float64, y []float64) ([]float64, error) {
	if err := s.checkState(y); err != nil {
		return nil, err
	}
	return s.eval(s.rhs, t, y)
}

// Algebraic evaluates the algebraic residuals at (t, y).
func (s *System) Algebraic(t float64, y []float64) ([]float64, error) {
	if err := s.checkState(y); err != nil {
		return nil, err
	}
	return s.eval(s.algebraic, t, y)
}

// Residual returns F(t, y) - M y', which vanishes on a solution.
func (s *System) Residual(t float64, y, ydot []float64) ([]float64, error) {
	if len(ydot) != s.Len() {
		return nil, &symbol.ShapeError{Expression: "ydot", Want: s.Len(), Got: len(ydot)}
	}
	rhs, err := s.RHS(t, y)
	if err != nil {
		return nil, err
	}
	alg, err := s.Algebraic(t, y)
	if err != nil {
		return nil, err
	}
	out := append(rhs, alg...)
	for i := range out {
		out[i] -= s.MassMatrix.At(i, i) * ydot[i]
	}
	return out, nil
}

func (s *System) checkState(y []float64) error {
	if len(y) != s.Len() {
		return &symbol.ShapeError{Expression: "state vector", Want: s.Len(), Got: len(y)}
	}
	return nil
}

func (s *System) eval(blocks []block, t float64, y []float64) ([]float64, error) {
	n := 0
	for _, b := range blocks {
		n += b.slice.Len()
	}
	out := make([]float64, 0, n)
	for _, b := range blocks {
		v, err := symbol.Evaluate(b.expr, t, y, s.Inputs)
		if err != nil {
			return nil, fmt.Errorf("evaluating %q: %w", b.variable, err)
		}
		out = append(out, v...)
	}
	return out, nil
}

// Norm returns the Euclidean norm of F at (t, y). At a consistent initial
// state of a purely algebraic system it is zero.
func (s *System) Norm(t float64, y []float64) (float64, error) {
	rhs, err := s.RHS(t, y)
	if err != nil {
		return 0, err
	}
	alg, err := s.Algebraic(t, y)
	if err != nil {
		return 0, err
	}
	return floats.Norm(append(rhs, alg...), 2), nil
}
