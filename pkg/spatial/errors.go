package spatial

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is wrapped by every *NotImplementedError.
var ErrNotImplemented = errors.New("not implemented")

// NotImplementedError is returned when a method has no strategy for an
// operator.
type NotImplementedError struct {
	Method   string
	Operator string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s: no discretisation strategy defined for %s", e.Method, e.Operator)
}

func (e *NotImplementedError) Unwrap() error { return ErrNotImplemented }

// OperatorError is returned when a method receives an operator kind it
// cannot process at all.
type OperatorError struct {
	Operator string
	Reason   string
}

func (e *OperatorError) Error() string {
	return fmt.Sprintf("Cannot process %s: %s", e.Operator, e.Reason)
}
