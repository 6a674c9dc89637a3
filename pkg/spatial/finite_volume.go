package spatial

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/aretw0/galvani/pkg/mesh"
	"github.com/aretw0/galvani/pkg/symbol"
)

// FiniteVolume is the cell-centred finite volume scheme on one-dimensional
// submeshes. Unknowns live on cell centres, fluxes on cell edges. Operands
// with auxiliary domains are handled block-wise, one primary block per
// auxiliary point.
type FiniteVolume struct {
	*Base
}

// NewFiniteVolume returns a finite volume method over m.
func NewFiniteVolume(m *mesh.Mesh) *FiniteVolume {
	return &FiniteVolume{Base: &Base{Mesh: m, name: "finite volume"}}
}

type geometry struct {
	sub  *mesh.Submesh
	n    int
	nsec int
}

// geometry returns the combined primary submesh of the operand of sym and
// the number of auxiliary blocks. A point submesh has no cell widths, so
// the scheme does not apply there.
func (fv *FiniteVolume) geometry(sym symbol.SpatialOperator) (geometry, error) {
	s := sym.Operand()
	sub, err := fv.Mesh.Combine(s.Domain())
	if err != nil {
		return geometry{}, err
	}
	if sub.ZeroDimensional() {
		return geometry{}, fv.notImplemented(fmt.Sprintf("%s on point domain %s", sym.Operator(), s.Domain()))
	}
	nsec, err := fv.Mesh.AuxiliaryNpts(s.Auxiliary())
	if err != nil {
		return geometry{}, err
	}
	return geometry{sub: sub, n: sub.Npts(), nsec: nsec}, nil
}

// leftHalf and rightHalf are the distances from the outer cell centres to
// the domain edges.
func (g geometry) leftHalf() float64  { return g.sub.Nodes()[0] - g.sub.Edges[0] }
func (g geometry) rightHalf() float64 { return g.sub.Edges[g.n] - g.sub.Nodes()[g.n-1] }

// Gradient evaluates the gradient on cell edges. Interior edges use the
// centred difference; a boundary edge is present only when a boundary
// condition is given for that side. Dirichlet values enter through a half
// cell difference, Neumann values are the gradient itself.
func (fv *FiniteVolume) Gradient(sym *symbol.Gradient, disc symbol.Symbol, bcs symbol.BoundaryConditions) (symbol.Symbol, error) {
	operand := sym.Operand()
	g, err := fv.geometry(sym)
	if err != nil {
		return nil, err
	}
	left, hasLeft := bcs.Get(operand, symbol.Left)
	right, hasRight := bcs.Get(operand, symbol.Right)

	rows := g.n - 1
	offset := 0
	if hasLeft {
		rows++
		offset = 1
	}
	if hasRight {
		rows++
	}
	if rows == 0 {
		return nil, fmt.Errorf("gradient of %q on a single cell needs boundary conditions", operand.Name())
	}

	// 1. Interior differences
	G := mat.NewDense(rows, g.n, nil)
	dx := g.sub.NodeSpacing()
	for i, h := range dx {
		G.Set(offset+i, i, -1/h)
		G.Set(offset+i, i+1, 1/h)
	}

	// 2. Boundary rows
	var terms []symbol.Symbol
	if hasLeft {
		E := mat.NewDense(rows, 1, nil)
		switch left.Type {
		case symbol.Dirichlet:
			h := g.leftHalf()
			G.Set(0, 0, 1/h)
			E.Set(0, 0, -1/h)
		case symbol.Neumann:
			E.Set(0, 0, 1)
		}
		term, err := boundaryTerm(E, left.Value, g.nsec)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	if hasRight {
		E := mat.NewDense(rows, 1, nil)
		switch right.Type {
		case symbol.Dirichlet:
			h := g.rightHalf()
			G.Set(rows-1, g.n-1, -1/h)
			E.Set(rows-1, 0, 1/h)
		case symbol.Neumann:
			E.Set(rows-1, 0, 1)
		}
		term, err := boundaryTerm(E, right.Value, g.nsec)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}

	out := symbol.MatMul(symbol.NewMatrix(kronEye(g.nsec, G)), disc)
	for _, term := range terms {
		out = symbol.Join(symbol.OpAdd, out, term, operand.Domain(), operand.Auxiliary())
	}
	return out, nil
}

// Divergence maps edge fluxes to cell centres.
func (fv *FiniteVolume) Divergence(sym *symbol.Divergence, disc symbol.Symbol, _ symbol.BoundaryConditions) (symbol.Symbol, error) {
	g, err := fv.geometry(sym)
	if err != nil {
		return nil, err
	}
	D := mat.NewDense(g.n, g.n+1, nil)
	for i, w := range g.sub.Widths() {
		D.Set(i, i, -1/w)
		D.Set(i, i+1, 1/w)
	}
	return symbol.MatMul(symbol.NewMatrix(kronEye(g.nsec, D)), disc), nil
}

// Integral applies the midpoint rule over the primary domain.
func (fv *FiniteVolume) Integral(sym *symbol.Integral, disc symbol.Symbol) (symbol.Symbol, error) {
	g, err := fv.geometry(sym)
	if err != nil {
		return nil, err
	}
	w := g.sub.Widths()
	if sym.Average {
		floats.Scale(1/g.sub.Length(), w)
	}
	return symbol.MatMul(symbol.NewMatrix(kronEye(g.nsec, mat.NewDense(1, g.n, w))), disc), nil
}

// IndefiniteIntegral returns the running integral on the cell edges,
// starting from zero on the left edge.
func (fv *FiniteVolume) IndefiniteIntegral(sym *symbol.IndefiniteIntegral, disc symbol.Symbol) (symbol.Symbol, error) {
	g, err := fv.geometry(sym)
	if err != nil {
		return nil, err
	}
	w := g.sub.Widths()
	M := mat.NewDense(g.n+1, g.n, nil)
	for row := 1; row <= g.n; row++ {
		for col := 0; col < row; col++ {
			M.Set(row, col, w[col])
		}
	}
	return symbol.MatMul(symbol.NewMatrix(kronEye(g.nsec, M)), disc), nil
}

// BoundaryValueOrFlux extrapolates the operand to a domain edge. A boundary
// condition of the matching kind is returned directly.
func (fv *FiniteVolume) BoundaryValueOrFlux(sym symbol.BoundaryOperator, disc symbol.Symbol, bcs symbol.BoundaryConditions) (symbol.Symbol, error) {
	operand := sym.Operand()
	g, err := fv.geometry(sym)
	if err != nil {
		return nil, err
	}
	side := sym.Edge()
	bc, hasBC := bcs.Get(operand, side)

	if !sym.IsFlux() {
		if hasBC && bc.Type == symbol.Dirichlet {
			return bc.Value, nil
		}
		row := mat.NewDense(1, g.n, nil)
		switch {
		case g.n == 1:
			row.Set(0, 0, 1)
		case side == symbol.Left:
			nodes := g.sub.Nodes()
			d := g.leftHalf() / (nodes[1] - nodes[0])
			row.Set(0, 0, 1+d)
			row.Set(0, 1, -d)
		default:
			nodes := g.sub.Nodes()
			d := g.rightHalf() / (nodes[g.n-1] - nodes[g.n-2])
			row.Set(0, g.n-1, 1+d)
			row.Set(0, g.n-2, -d)
		}
		return symbol.MatMul(symbol.NewMatrix(kronEye(g.nsec, row)), disc), nil
	}

	if hasBC && bc.Type == symbol.Neumann {
		return bc.Value, nil
	}
	row := mat.NewDense(1, g.n, nil)
	if hasBC {
		// Dirichlet: half-cell difference between the outer centre and the edge value.
		E := mat.NewDense(1, 1, nil)
		if side == symbol.Left {
			h := g.leftHalf()
			row.Set(0, 0, 1/h)
			E.Set(0, 0, -1/h)
		} else {
			h := g.rightHalf()
			row.Set(0, g.n-1, -1/h)
			E.Set(0, 0, 1/h)
		}
		term, err := boundaryTerm(E, bc.Value, g.nsec)
		if err != nil {
			return nil, err
		}
		inner := symbol.MatMul(symbol.NewMatrix(kronEye(g.nsec, row)), disc)
		return symbol.Join(symbol.OpAdd, inner, term, sym.Domain(), sym.Auxiliary()), nil
	}
	if g.n == 1 {
		return nil, fv.notImplemented(sym.Operator() + " on a single cell without boundary conditions")
	}
	dx := g.sub.NodeSpacing()
	if side == symbol.Left {
		row.Set(0, 0, -1/dx[0])
		row.Set(0, 1, 1/dx[0])
	} else {
		h := dx[len(dx)-1]
		row.Set(0, g.n-2, -1/h)
		row.Set(0, g.n-1, 1/h)
	}
	return symbol.MatMul(symbol.NewMatrix(kronEye(g.nsec, row)), disc), nil
}

// boundaryTerm applies the coefficient column E to a boundary value,
// repeating a single value over every secondary point.
func boundaryTerm(E *mat.Dense, value symbol.Symbol, nsec int) (symbol.Symbol, error) {
	n, err := symbol.Size(value)
	if err != nil {
		return nil, err
	}
	switch {
	case n == nsec:
		return symbol.MatMul(symbol.NewMatrix(kronEye(nsec, E)), value), nil
	case n == 1:
		var dst mat.Dense
		dst.Kronecker(ones(nsec, 1), E)
		return symbol.MatMul(symbol.NewMatrix(&dst), value), nil
	default:
		return nil, &symbol.ShapeError{Expression: "boundary condition " + value.String(), Want: nsec, Got: n}
	}
}
