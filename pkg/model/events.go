package model

import (
	"context"
	"time"
)

// Phase is one step of the assembly.
type Phase string

const (
	PhaseFundamental Phase = "fundamental"
	PhaseCoupled     Phase = "coupled"
	PhaseAggregate   Phase = "aggregate"
	PhaseRHS         Phase = "rhs"
	PhaseAlgebraic   Phase = "algebraic"
	PhaseInitial     Phase = "initial conditions"
	PhaseBoundary    Phase = "boundary conditions"
	PhaseCheck       Phase = "check"
)

// Phases lists the phases in execution order.
var Phases = []Phase{
	PhaseFundamental,
	PhaseCoupled,
	PhaseAggregate,
	PhaseRHS,
	PhaseAlgebraic,
	PhaseInitial,
	PhaseBoundary,
	PhaseCheck,
}

// PhaseEvent describes the start or end of a phase.
type PhaseEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Model     string        `json:"model"`
	Phase     Phase         `json:"phase"`
	Duration  time.Duration `json:"duration,omitempty"` // set on end events
	Err       error         `json:"-"`
}

// Hooks defines callbacks for assembly observability.
type Hooks struct {
	OnPhaseStart func(context.Context, *PhaseEvent)
	OnPhaseEnd   func(context.Context, *PhaseEvent)
}
