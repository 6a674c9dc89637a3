package symbol

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Inputs supplies numeric values for Parameter and FunctionParameter leaves.
type Inputs struct {
	Values    map[string]float64
	Functions map[string]func(args ...float64) float64
}

// Evaluate computes s at time t and state y. The result is a flat column.
func Evaluate(s Symbol, t float64, y []float64, in *Inputs) ([]float64, error) {
	e := &evaluator{t: t, y: y, inputs: in, memo: make(map[Symbol][]float64)}
	return e.eval(s)
}

// Size evaluates s against a synthetic state of ones with every parameter
// set to one and returns the length of the result. It reports shape
// inconsistencies without needing parameter values.
func Size(s Symbol) (int, error) {
	y := make([]float64, StateStop(s))
	for i := range y {
		y[i] = 1
	}
	e := &evaluator{y: y, lenient: true, memo: make(map[Symbol][]float64)}
	out, err := e.eval(s)
	if err != nil {
		return 0, err
	}
	return len(out), nil
}

type evaluator struct {
	t       float64
	y       []float64
	inputs  *Inputs
	lenient bool
	memo    map[Symbol][]float64
}

func (e *evaluator) eval(s Symbol) ([]float64, error) {
	if v, ok := e.memo[s]; ok {
		return v, nil
	}
	v, err := e.compute(s)
	if err != nil {
		return nil, err
	}
	e.memo[s] = v
	return v, nil
}

func (e *evaluator) compute(s Symbol) ([]float64, error) {
	switch n := s.(type) {
	case *Scalar:
		return []float64{n.Value}, nil
	case *Vector:
		return slices.Clone(n.Values), nil
	case *Time:
		return []float64{e.t}, nil
	case *Parameter:
		return e.parameter(n.name)
	case *FunctionParameter:
		return e.function(n)
	case *StateVector:
		return e.state(n)
	case *Binary:
		return e.binary(n)
	case *Function:
		x, err := e.eval(n.Child)
		if err != nil {
			return nil, err
		}
		f := fnImpl[n.Fn]
		out := make([]float64, len(x))
		for i, xi := range x {
			out[i] = f(xi)
		}
		return out, nil
	case *Concatenation:
		var out []float64
		for _, it := range n.Items {
			v, err := e.eval(it)
			if err != nil {
				return nil, err
			}
			out = append(out, v...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotDiscretised, s)
	}
}

func (e *evaluator) parameter(name string) ([]float64, error) {
	if e.lenient {
		return []float64{1}, nil
	}
	if e.inputs != nil {
		if v, ok := e.inputs.Values[name]; ok {
			return []float64{v}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnboundParameter, name)
}

func (e *evaluator) function(fp *FunctionParameter) ([]float64, error) {
	args := make([][]float64, len(fp.Inputs))
	n := 1
	for i, in := range fp.Inputs {
		v, err := e.eval(in.Symbol)
		if err != nil {
			return nil, err
		}
		if len(v) != 1 {
			if n != 1 && n != len(v) {
				return nil, &ShapeError{Expression: fp.String(), Want: n, Got: len(v)}
			}
			n = len(v)
		}
		args[i] = v
	}
	out := make([]float64, n)
	if e.lenient {
		floats.AddConst(1, out)
		return out, nil
	}
	if e.inputs != nil {
		if f, ok := e.inputs.Functions[fp.name]; ok {
			point := make([]float64, len(args))
			for k := range out {
				for i, a := range args {
					point[i] = a[min(k, len(a)-1)]
				}
				out[k] = f(point...)
			}
			return out, nil
		}
		if v, ok := e.inputs.Values[fp.name]; ok {
			floats.AddConst(v, out)
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnboundParameter, fp.name)
}

func (e *evaluator) state(sv *StateVector) ([]float64, error) {
	out := make([]float64, 0, sv.Len())
	for _, sl := range sv.Slices {
		if sl.Start < 0 || sl.Stop > len(e.y) || sl.Start > sl.Stop {
			return nil, &ShapeError{
				Expression: sv.name,
				Reason:     fmt.Sprintf("slice %s outside state of length %d", sl, len(e.y)),
			}
		}
		out = append(out, e.y[sl.Start:sl.Stop]...)
	}
	return out, nil
}

func (e *evaluator) binary(b *Binary) ([]float64, error) {
	if b.Op == OpMatMul {
		return e.matmul(b)
	}
	l, err := e.eval(b.Left)
	if err != nil {
		return nil, err
	}
	r, err := e.eval(b.Right)
	if err != nil {
		return nil, err
	}
	n := len(l)
	switch {
	case len(l) == len(r):
	case len(l) == 1:
		n = len(r)
	case len(r) == 1:
	default:
		return nil, &ShapeError{
			Expression: fmt.Sprintf("%s %s %s", b.Left.Name(), b.Op, b.Right.Name()),
			Want:       len(l),
			Got:        len(r),
		}
	}
	dst := expand(l, n)
	rr := expand(r, n)
	switch b.Op {
	case OpAdd:
		floats.Add(dst, rr)
	case OpSub:
		floats.Sub(dst, rr)
	case OpMul:
		floats.Mul(dst, rr)
	case OpDiv:
		floats.Div(dst, rr)
	case OpPow:
		for i := range dst {
			dst[i] = math.Pow(dst[i], rr[i])
		}
	}
	return dst, nil
}

func (e *evaluator) matmul(b *Binary) ([]float64, error) {
	x, err := e.eval(b.Right)
	if err != nil {
		return nil, err
	}
	switch m := b.Left.(type) {
	case *Scalar:
		out := slices.Clone(x)
		floats.Scale(m.Value, out)
		return out, nil
	case *Matrix:
		rows, cols := m.M.Dims()
		if cols != len(x) {
			return nil, &ShapeError{
				Expression: fmt.Sprintf("%s @ %s", m.name, b.Right.Name()),
				Want:       cols,
				Got:        len(x),
			}
		}
		dst := mat.NewVecDense(rows, nil)
		dst.MulVec(m.M, mat.NewVecDense(cols, slices.Clone(x)))
		return dst.RawVector().Data, nil
	default:
		return nil, fmt.Errorf("matrix product with non-constant left operand %s", b.Left)
	}
}

// expand returns a fresh slice of length n, repeating v when it has a
// single entry.
func expand(v []float64, n int) []float64 {
	if len(v) == n {
		return slices.Clone(v)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = v[0]
	}
	return out
}
