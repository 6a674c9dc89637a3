package spatial

import (
	"github.com/aretw0/galvani/pkg/mesh"
	"github.com/aretw0/galvani/pkg/symbol"
)

// ZeroDimensional discretises operators on single-point domains, where
// integrals and boundary values reduce to the operand itself.
type ZeroDimensional struct {
	*Base
}

// NewZeroDimensional returns the single-point method over m.
func NewZeroDimensional(m *mesh.Mesh) *ZeroDimensional {
	return &ZeroDimensional{Base: &Base{Mesh: m, name: "zero dimensional"}}
}

func (z *ZeroDimensional) Integral(_ *symbol.Integral, disc symbol.Symbol) (symbol.Symbol, error) {
	return disc, nil
}

func (z *ZeroDimensional) IndefiniteIntegral(_ *symbol.IndefiniteIntegral, disc symbol.Symbol) (symbol.Symbol, error) {
	return disc, nil
}

func (z *ZeroDimensional) BoundaryValueOrFlux(sym symbol.BoundaryOperator, disc symbol.Symbol, _ symbol.BoundaryConditions) (symbol.Symbol, error) {
	if sym.IsFlux() {
		return nil, &OperatorError{Operator: sym.Operator(), Reason: "a point domain has no flux"}
	}
	return disc, nil
}
