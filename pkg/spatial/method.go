package spatial

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/aretw0/galvani/pkg/mesh"
	"github.com/aretw0/galvani/pkg/symbol"
)

// Method discretises spatial operators on a mesh. In every operation disc
// is the already discretised operand of sym; bcs holds discretised boundary
// condition values keyed by the symbolic expression they constrain.
type Method interface {
	Gradient(sym *symbol.Gradient, disc symbol.Symbol, bcs symbol.BoundaryConditions) (symbol.Symbol, error)
	Divergence(sym *symbol.Divergence, disc symbol.Symbol, bcs symbol.BoundaryConditions) (symbol.Symbol, error)
	Integral(sym *symbol.Integral, disc symbol.Symbol) (symbol.Symbol, error)
	IndefiniteIntegral(sym *symbol.IndefiniteIntegral, disc symbol.Symbol) (symbol.Symbol, error)
	BoundaryValueOrFlux(sym symbol.BoundaryOperator, disc symbol.Symbol, bcs symbol.BoundaryConditions) (symbol.Symbol, error)
	// Broadcast expands disc, the discretised operand of a *symbol.Broadcast
	// or *symbol.FullBroadcast, onto the broadcast's domains.
	Broadcast(sym symbol.Symbol, disc symbol.Symbol) (symbol.Symbol, error)
	MassMatrix(v *symbol.Variable, n int) *mat.DiagDense
	TestShape(expr symbol.Symbol) error
}

// Base implements the parts of Method that do not depend on a scheme.
type Base struct {
	Mesh *mesh.Mesh
	name string
}

// NewBase returns the unspecialised method over m.
func NewBase(m *mesh.Mesh) *Base {
	return &Base{Mesh: m, name: "base"}
}

func (b *Base) notImplemented(op string) error {
	return &NotImplementedError{Method: b.name, Operator: op}
}

func (b *Base) Gradient(sym *symbol.Gradient, _ symbol.Symbol, _ symbol.BoundaryConditions) (symbol.Symbol, error) {
	return nil, b.notImplemented(sym.Operator())
}

func (b *Base) Divergence(sym *symbol.Divergence, _ symbol.Symbol, _ symbol.BoundaryConditions) (symbol.Symbol, error) {
	return nil, b.notImplemented(sym.Operator())
}

func (b *Base) Integral(sym *symbol.Integral, _ symbol.Symbol) (symbol.Symbol, error) {
	return nil, b.notImplemented(sym.Operator())
}

func (b *Base) IndefiniteIntegral(sym *symbol.IndefiniteIntegral, _ symbol.Symbol) (symbol.Symbol, error) {
	return nil, b.notImplemented(sym.Operator())
}

// BoundaryValueOrFlux rejects fluxes. A boundary value is only defined for
// operands on a single-point domain, where it is the operand itself.
func (b *Base) BoundaryValueOrFlux(sym symbol.BoundaryOperator, disc symbol.Symbol, _ symbol.BoundaryConditions) (symbol.Symbol, error) {
	if sym.IsFlux() {
		return nil, &OperatorError{
			Operator: sym.Operator(),
			Reason:   fmt.Sprintf("%s method only supports boundary values, got flux of %q", b.name, sym.Operand().Name()),
		}
	}
	n, err := b.Mesh.Npts(sym.Operand().Domain())
	if err != nil {
		return nil, err
	}
	if n == 1 {
		return disc, nil
	}
	return nil, b.notImplemented(sym.Operator())
}

// Broadcast repeats every entry of disc over the points of the target
// primary domain. The operand's points become the outer (secondary) index.
func (b *Base) Broadcast(sym symbol.Symbol, disc symbol.Symbol) (symbol.Symbol, error) {
	switch s := sym.(type) {
	case *symbol.Broadcast:
		n, err := b.Mesh.Npts(s.Domain())
		if err != nil {
			return nil, err
		}
		child := s.Operand()
		m, err := b.Mesh.Size(child.Domain(), child.Auxiliary())
		if err != nil {
			return nil, err
		}
		return symbol.MatMul(symbol.NewMatrix(kronEye(m, ones(n, 1))), disc), nil
	case *symbol.FullBroadcast:
		n, err := b.Mesh.Size(s.Domain(), s.Auxiliary())
		if err != nil {
			return nil, err
		}
		return symbol.MatMul(symbol.NewMatrix(ones(n, 1)), disc), nil
	default:
		return nil, fmt.Errorf("%T is not a broadcast", sym)
	}
}

// MassMatrix returns the identity block of a differential variable.
func (b *Base) MassMatrix(_ *symbol.Variable, n int) *mat.DiagDense {
	return eye(n)
}

// TestShape evaluates expr against a synthetic state and checks that the
// result has one entry per degree of freedom of its domain. Domain-less
// expressions only need to evaluate consistently.
func (b *Base) TestShape(expr symbol.Symbol) error {
	n, err := symbol.Size(expr)
	if err != nil {
		return err
	}
	if expr.Domain().Empty() {
		return nil
	}
	want, err := b.Mesh.Size(expr.Domain(), expr.Auxiliary())
	if err != nil {
		return err
	}
	if n != want {
		return &symbol.ShapeError{Expression: expr.String(), Want: want, Got: n}
	}
	return nil
}

// IsNotImplemented reports whether err comes from a missing strategy.
func IsNotImplemented(err error) bool {
	return errors.Is(err, ErrNotImplemented)
}

func eye(n int) *mat.DiagDense {
	d := make([]float64, n)
	for i := range d {
		d[i] = 1
	}
	return mat.NewDiagDense(n, d)
}

func ones(r, c int) *mat.Dense {
	d := make([]float64, r*c)
	for i := range d {
		d[i] = 1
	}
	return mat.NewDense(r, c, d)
}

// kronEye returns I_n ⊗ a, the block-diagonal repetition of a used to apply
// a primary-domain operator on every auxiliary point.
func kronEye(n int, a mat.Matrix) mat.Matrix {
	if n == 1 {
		return a
	}
	var dst mat.Dense
	dst.Kronecker(eye(n), a)
	return &dst
}
