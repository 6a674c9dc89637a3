package discretise

import (
	"errors"
	"fmt"

	"github.com/aretw0/galvani/pkg/symbol"
)

var (
	// ErrNoMethod is returned when a region has no spatial method.
	ErrNoMethod = errors.New("no spatial method for region")
	// ErrInvalidLayout is returned by Layout.Validate.
	ErrInvalidLayout = errors.New("invalid state layout")
)

// SliceError reports two state vectors whose slices partially overlap.
// Slices referring to the same unknowns must be disjoint or identical.
type SliceError struct {
	Left, Right   string
	First, Second symbol.Slice
}

func (e *SliceError) Error() string {
	return fmt.Sprintf("state slices %s of %s and %s of %s partially overlap", e.First, e.Left, e.Second, e.Right)
}

// UnknownVariableError reports a variable that appears in an expression but
// owns no slice of the state vector.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("variable %q has no state slice", e.Name)
}
