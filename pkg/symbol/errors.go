package symbol

import (
	"errors"
	"fmt"
)

var (
	// ErrShape is matched by every *ShapeError.
	ErrShape = errors.New("shape mismatch")

	// ErrUnboundParameter is returned when a parameter has no value in the
	// supplied Inputs.
	ErrUnboundParameter = errors.New("unbound parameter")

	// ErrNotDiscretised is returned when evaluating a node that only has
	// meaning after discretisation (variables, spatial operators, broadcasts).
	ErrNotDiscretised = errors.New("symbol is not discretised")
)

// ShapeError reports an expression whose evaluated size is inconsistent.
type ShapeError struct {
	Expression string
	Want, Got  int
	Reason     string
}

func (e *ShapeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("shape error in %s: %s", e.Expression, e.Reason)
	}
	return fmt.Sprintf("shape error in %s: want %d entries, got %d", e.Expression, e.Want, e.Got)
}

// Is makes errors.Is(err, ErrShape) true for every ShapeError.
func (e *ShapeError) Is(target error) bool { return target == ErrShape }

// DomainError is raised (as a panic) when two operands live on
// incompatible domains.
type DomainError struct {
	Op          string
	Left, Right Domain
	Auxiliary   bool
	Reason      string
}

func (e *DomainError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot apply %s: %s", e.Op, e.Reason)
	}
	kind := "domains"
	if e.Auxiliary {
		kind = "auxiliary domains"
	}
	return fmt.Sprintf("cannot apply %s to children with different %s %s and %s", e.Op, kind, e.Left, e.Right)
}

// Recover converts a *DomainError panic into an error stored in *err.
// Other panics propagate. Use it as: defer symbol.Recover(&err).
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if de, ok := r.(*DomainError); ok {
		*err = de
		return
	}
	panic(r)
}
