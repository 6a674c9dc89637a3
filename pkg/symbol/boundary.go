package symbol

// Side names one end of a one-dimensional domain.
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

// BCType is the kind of boundary condition.
type BCType string

const (
	Dirichlet BCType = "Dirichlet"
	Neumann   BCType = "Neumann"
)

// BoundaryCondition fixes the value (Dirichlet) or the flux (Neumann) of an
// expression on one side of its domain.
type BoundaryCondition struct {
	Value Symbol
	Type  BCType
}

// BoundaryConditions maps an expression to the conditions on its sides.
type BoundaryConditions map[Symbol]map[Side]BoundaryCondition

// Set records a condition for s at side.
func (b BoundaryConditions) Set(s Symbol, side Side, bc BoundaryCondition) {
	sides, ok := b[s]
	if !ok {
		sides = make(map[Side]BoundaryCondition, 2)
		b[s] = sides
	}
	sides[side] = bc
}

// Get returns the condition for s at side.
func (b BoundaryConditions) Get(s Symbol, side Side) (BoundaryCondition, bool) {
	sides, ok := b[s]
	if !ok {
		return BoundaryCondition{}, false
	}
	bc, ok := sides[side]
	return bc, ok
}
