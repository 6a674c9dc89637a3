package symbol

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Op identifies a binary operator.
type Op string

const (
	OpAdd    Op = "+"
	OpSub    Op = "-"
	OpMul    Op = "*"
	OpDiv    Op = "/"
	OpPow    Op = "**"
	OpMatMul Op = "@"
)

// Binary applies Op element-wise (or as a matrix product for OpMatMul).
type Binary struct {
	base
	Op          Op
	Left, Right Symbol
}

func (b *Binary) Children() []Symbol { return []Symbol{b.Left, b.Right} }

func (b *Binary) String() string {
	return fmt.Sprintf("%s %s %s", wrap(b.Left), b.Op, wrap(b.Right))
}

func wrap(s Symbol) string {
	if _, ok := s.(*Binary); ok {
		return "(" + s.String() + ")"
	}
	return s.String()
}

// NewBinary builds a binary node, checking domain compatibility.
// Matrix products take the right operand's domains, since the matrix is
// produced by discretisation and carries none of its own.
func NewBinary(op Op, left, right Symbol) *Binary {
	b := &Binary{base: base{name: string(op)}, Op: op, Left: left, Right: right}
	if op == OpMatMul {
		b.domain, b.auxiliary = right.Domain(), right.Auxiliary()
		return b
	}
	d, ok := mergeDomains(left.Domain(), right.Domain())
	if !ok {
		panic(&DomainError{Op: string(op), Left: left.Domain(), Right: right.Domain()})
	}
	aux, ok := mergeAuxiliary(left.Auxiliary(), right.Auxiliary())
	if !ok {
		panic(&DomainError{Op: string(op), Left: left.Auxiliary().Get(Secondary), Right: right.Auxiliary().Get(Secondary), Auxiliary: true})
	}
	b.domain, b.auxiliary = d, aux
	return b
}

func binary(op Op, left, right Symbol) Symbol {
	l, lok := left.(*Scalar)
	r, rok := right.(*Scalar)
	if lok && rok {
		return NewScalar(applyOp(op, l.Value, r.Value))
	}
	return NewBinary(op, left, right)
}

func applyOp(op Op, l, r float64) float64 {
	switch op {
	case OpAdd:
		return l + r
	case OpSub:
		return l - r
	case OpMul, OpMatMul:
		return l * r
	case OpDiv:
		return l / r
	case OpPow:
		return math.Pow(l, r)
	}
	panic("symbol: unknown operator " + string(op))
}

// Add returns l + r.
func Add(l, r Symbol) Symbol { return binary(OpAdd, l, r) }

// Sub returns l - r.
func Sub(l, r Symbol) Symbol { return binary(OpSub, l, r) }

// Mul returns l * r.
func Mul(l, r Symbol) Symbol { return binary(OpMul, l, r) }

// Div returns l / r.
func Div(l, r Symbol) Symbol { return binary(OpDiv, l, r) }

// Pow returns l ** r.
func Pow(l, r Symbol) Symbol { return binary(OpPow, l, r) }

// MatMul returns the matrix product m @ x.
func MatMul(m, x Symbol) Symbol { return NewBinary(OpMatMul, m, x) }

// Sqrt returns x ** 0.5.
func Sqrt(x Symbol) Symbol { return Pow(x, NewScalar(0.5)) }

// Fn identifies an element-wise function.
type Fn string

const (
	FnNeg     Fn = "-"
	FnExp     Fn = "exp"
	FnLog     Fn = "log"
	FnSinh    Fn = "sinh"
	FnArcsinh Fn = "arcsinh"
	FnAbs     Fn = "abs"
)

var fnImpl = map[Fn]func(float64) float64{
	FnNeg:     func(x float64) float64 { return -x },
	FnExp:     math.Exp,
	FnLog:     math.Log,
	FnSinh:    math.Sinh,
	FnArcsinh: math.Asinh,
	FnAbs:     math.Abs,
}

// Function applies Fn element-wise to Child.
type Function struct {
	base
	Fn    Fn
	Child Symbol
}

func (f *Function) Children() []Symbol { return []Symbol{f.Child} }

func (f *Function) String() string {
	if f.Fn == FnNeg {
		return "-" + wrap(f.Child)
	}
	return fmt.Sprintf("%s(%s)", f.Fn, f.Child)
}

func unary(fn Fn, x Symbol) Symbol {
	if s, ok := x.(*Scalar); ok {
		return NewScalar(fnImpl[fn](s.Value))
	}
	return &Function{
		base:  base{name: string(fn), domain: x.Domain(), auxiliary: x.Auxiliary()},
		Fn:    fn,
		Child: x,
	}
}

// Neg returns -x.
func Neg(x Symbol) Symbol { return unary(FnNeg, x) }

// Exp returns exp(x).
func Exp(x Symbol) Symbol { return unary(FnExp, x) }

// Log returns the natural logarithm of x.
func Log(x Symbol) Symbol { return unary(FnLog, x) }

// Sinh returns sinh(x).
func Sinh(x Symbol) Symbol { return unary(FnSinh, x) }

// Arcsinh returns arcsinh(x).
func Arcsinh(x Symbol) Symbol { return unary(FnArcsinh, x) }

// Abs returns |x|.
func Abs(x Symbol) Symbol { return unary(FnAbs, x) }

// Matrix is a constant matrix, usually produced by a spatial method.
type Matrix struct {
	base
	M mat.Matrix
}

// NewMatrix wraps m as a symbol.
func NewMatrix(m mat.Matrix) *Matrix {
	r, c := m.Dims()
	return &Matrix{base: base{name: fmt.Sprintf("Matrix(%dx%d)", r, c)}, M: m}
}

func (m *Matrix) Children() []Symbol { return nil }
func (m *Matrix) String() string     { return m.name }
