package model

import (
	"errors"
	"fmt"
)

// ErrDuplicateSubmodel is returned when two submodels share a name.
var ErrDuplicateSubmodel = errors.New("duplicate submodel name")

// CollisionError reports a key contributed twice with different content.
type CollisionError struct {
	Kind     string // "variable", "rhs", "algebraic", ...
	Key      string
	Submodel string
	Previous string // submodel that contributed the key first
}

func (e *CollisionError) Error() string {
	if e.Previous == "" {
		return fmt.Sprintf("%s %q from %q is already defined", e.Kind, e.Key, e.Submodel)
	}
	return fmt.Sprintf("%s %q from %q is already defined by %q", e.Kind, e.Key, e.Submodel, e.Previous)
}

// OwnershipError reports a submodel writing equations for a variable it
// did not create.
type OwnershipError struct {
	Phase    Phase
	Variable string
	Submodel string
	Owner    string
}

func (e *OwnershipError) Error() string {
	if e.Owner == "" {
		return fmt.Sprintf("%s: submodel %q wrote an equation for %q, which no submodel created", e.Phase, e.Submodel, e.Variable)
	}
	return fmt.Sprintf("%s: submodel %q wrote an equation for %q, which belongs to %q", e.Phase, e.Submodel, e.Variable, e.Owner)
}

// ModelError is a completeness violation for one variable.
type ModelError struct {
	Variable string
	Reason   string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("variable %q: %s", e.Variable, e.Reason)
}

// AggregateError groups every completeness violation of a model.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d model errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the grouped errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error { return e.Errors }

// Violations returns the grouped errors if err is an AggregateError.
// Otherwise returns nil.
func Violations(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
