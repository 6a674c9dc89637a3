package model

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/galvani/pkg/registry"
	"github.com/aretw0/galvani/pkg/submodel"
	"github.com/aretw0/galvani/pkg/symbol"
)

// Assembler merges submodels into a Model.
type Assembler struct {
	name        string
	submodels   []submodel.Submodel
	aggregators []submodel.Aggregator
	hooks       Hooks
	logger      *slog.Logger
	parallel    bool
}

// Option defines a functional option for configuring the Assembler.
type Option func(*Assembler)

// WithName sets the model name.
func WithName(name string) Option {
	return func(a *Assembler) {
		a.name = name
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks Hooks) Option {
	return func(a *Assembler) {
		a.hooks = hooks
	}
}

// WithParallelFundamentals runs the fundamental steps concurrently. Their
// results are still merged in declaration order.
func WithParallelFundamentals() Option {
	return func(a *Assembler) {
		a.parallel = true
	}
}

// NewAssembler creates an assembler with no submodels.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{name: "model"}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a
}

// Add appends submodels in declaration order.
func (a *Assembler) Add(sms ...submodel.Submodel) *Assembler {
	a.submodels = append(a.submodels, sms...)
	return a
}

// AddAggregator appends aggregation steps.
func (a *Assembler) AddAggregator(ags ...submodel.Aggregator) *Assembler {
	a.aggregators = append(a.aggregators, ags...)
	return a
}

// Submodels returns the declared submodels.
func (a *Assembler) Submodels() []submodel.Submodel {
	return slices.Clone(a.submodels)
}

// Build runs every phase in order and returns the checked model. The first
// failing phase aborts the build.
func (a *Assembler) Build(ctx context.Context) (*Model, error) {
	m := New(a.name)
	seen := make(map[string]bool, len(a.submodels))
	for _, sm := range a.submodels {
		if seen[sm.Name()] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSubmodel, sm.Name())
		}
		seen[sm.Name()] = true
		m.Submodels = append(m.Submodels, sm.Name())
	}

	logger := a.logger.With("model", a.name)
	steps := []struct {
		phase Phase
		run   func(context.Context, *Model) error
	}{
		{PhaseFundamental, a.fundamental},
		{PhaseCoupled, a.coupled},
		{PhaseAggregate, a.aggregate},
		{PhaseRHS, a.rhs},
		{PhaseAlgebraic, a.algebraic},
		{PhaseInitial, a.initial},
		{PhaseBoundary, a.boundary},
		{PhaseCheck, func(context.Context, *Model) error { return m.Check() }},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		if a.hooks.OnPhaseStart != nil {
			a.hooks.OnPhaseStart(ctx, &PhaseEvent{Timestamp: start, Model: a.name, Phase: step.phase})
		}
		err := step.run(ctx, m)
		elapsed := time.Since(start)
		if a.hooks.OnPhaseEnd != nil {
			a.hooks.OnPhaseEnd(ctx, &PhaseEvent{Timestamp: time.Now(), Model: a.name, Phase: step.phase, Duration: elapsed, Err: err})
		}
		if err != nil {
			logger.Debug("phase failed", "phase", step.phase, "err", err)
			return nil, fmt.Errorf("%s phase: %w", step.phase, err)
		}
		logger.Debug("phase complete", "phase", step.phase, "duration", elapsed, "variables", m.Variables.Len())
	}
	return m, nil
}

// guard runs one submodel step, turning domain panics into errors and
// naming the submodel in the result.
func guard(name string, fn func() error) error {
	err := func() (err error) {
		defer symbol.Recover(&err)
		return fn()
	}()
	if err != nil {
		return fmt.Errorf("submodel %q: %w", name, err)
	}
	return nil
}

func (a *Assembler) fundamental(ctx context.Context, m *Model) error {
	results := make([]submodel.Variables, len(a.submodels))
	run := func(i int, fc submodel.FundamentalContributor) error {
		return guard(fc.Name(), func() (err error) {
			results[i], err = fc.FundamentalVariables()
			return err
		})
	}

	if a.parallel {
		g, _ := errgroup.WithContext(ctx)
		for i, sm := range a.submodels {
			if fc, ok := sm.(submodel.FundamentalContributor); ok {
				g.Go(func() error { return run(i, fc) })
			}
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		for i, sm := range a.submodels {
			if fc, ok := sm.(submodel.FundamentalContributor); ok {
				if err := run(i, fc); err != nil {
					return err
				}
			}
		}
	}

	for i, sm := range a.submodels {
		if err := m.publish(sm.Name(), results[i]); err != nil {
			return err
		}
		m.claim(sm.Name(), results[i])
	}
	return nil
}

func (a *Assembler) coupled(_ context.Context, m *Model) error {
	for _, sm := range a.submodels {
		cc, ok := sm.(submodel.CoupledContributor)
		if !ok {
			continue
		}
		var vars submodel.Variables
		err := guard(sm.Name(), func() (err error) {
			vars, err = cc.CoupledVariables(m.reader(sm.Name()))
			return err
		})
		if err != nil {
			return err
		}
		if err := m.publish(sm.Name(), vars); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assembler) aggregate(_ context.Context, m *Model) error {
	for _, ag := range a.aggregators {
		var vars submodel.Variables
		err := guard(ag.Name(), func() (err error) {
			vars, err = ag.Aggregate(m.reader(ag.Name()))
			return err
		})
		if err != nil {
			return err
		}
		if err := m.publish(ag.Name(), vars); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assembler) rhs(_ context.Context, m *Model) error {
	return a.equations(m, PhaseRHS, m.RHS, func(sm submodel.Submodel) (func(registry.Reader) (*symbol.Equations, error), bool) {
		c, ok := sm.(submodel.RHSContributor)
		if !ok {
			return nil, false
		}
		return c.RHS, true
	})
}

func (a *Assembler) algebraic(_ context.Context, m *Model) error {
	return a.equations(m, PhaseAlgebraic, m.Algebraic, func(sm submodel.Submodel) (func(registry.Reader) (*symbol.Equations, error), bool) {
		c, ok := sm.(submodel.AlgebraicContributor)
		if !ok {
			return nil, false
		}
		return c.Algebraic, true
	})
}

func (a *Assembler) initial(_ context.Context, m *Model) error {
	return a.equations(m, PhaseInitial, m.InitialConditions, func(sm submodel.Submodel) (func(registry.Reader) (*symbol.Equations, error), bool) {
		c, ok := sm.(submodel.InitialConditionContributor)
		if !ok {
			return nil, false
		}
		return c.InitialConditions, true
	})
}

func (a *Assembler) equations(
	m *Model,
	phase Phase,
	dst *symbol.Equations,
	capability func(submodel.Submodel) (func(registry.Reader) (*symbol.Equations, error), bool),
) error {
	for _, sm := range a.submodels {
		fn, ok := capability(sm)
		if !ok {
			continue
		}
		var eqs *symbol.Equations
		err := guard(sm.Name(), func() (err error) {
			eqs, err = fn(m.reader(sm.Name()))
			return err
		})
		if err != nil {
			return err
		}
		for v, expr := range eqs.All() {
			if owner, ok := m.owners[v]; !ok || owner != sm.Name() {
				return &OwnershipError{Phase: phase, Variable: v.Name(), Submodel: sm.Name(), Owner: owner}
			}
			if dst.Has(v) {
				return &CollisionError{Kind: string(phase), Key: v.Name(), Submodel: sm.Name()}
			}
			dst.Set(v, expr)
		}
		a.logger.Debug("equations contributed", "phase", phase, "submodel", sm.Name(), "count", eqs.Len())
	}
	return nil
}

func (a *Assembler) boundary(_ context.Context, m *Model) error {
	for _, sm := range a.submodels {
		bc, ok := sm.(submodel.BoundaryConditionContributor)
		if !ok {
			continue
		}
		var bcs symbol.BoundaryConditions
		err := guard(sm.Name(), func() (err error) {
			bcs, err = bc.BoundaryConditions(m.reader(sm.Name()))
			return err
		})
		if err != nil {
			return err
		}
		for key, sides := range bcs {
			for _, v := range symbol.Variables(key) {
				if owner, ok := m.owners[v]; !ok || owner != sm.Name() {
					return &OwnershipError{Phase: PhaseBoundary, Variable: v.Name(), Submodel: sm.Name(), Owner: owner}
				}
			}
			for side, cond := range sides {
				if _, exists := m.BoundaryConditions.Get(key, side); exists {
					return &CollisionError{Kind: "boundary condition", Key: key.Name() + " (" + string(side) + ")", Submodel: sm.Name()}
				}
				m.BoundaryConditions.Set(key, side, cond)
			}
		}
	}
	return nil
}

// publish merges vars into the registry in name order. Re-publishing the
// same symbol under a name is allowed; binding a different one is not.
func (m *Model) publish(owner string, vars submodel.Variables) error {
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		s := vars[name]
		if s == nil {
			return fmt.Errorf("submodel %q published a nil symbol for %q", owner, name)
		}
		if existing, ok := m.Variables.Lookup(name); ok {
			if existing == s {
				continue
			}
			return &CollisionError{Kind: "variable", Key: name, Submodel: owner, Previous: m.publishers[name]}
		}
		m.Variables.Set(name, s)
		m.publishers[name] = owner
	}
	return nil
}

// claim records owner as the creator of every variable in vars that has
// no owner yet.
func (m *Model) claim(owner string, vars submodel.Variables) {
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		for _, v := range symbol.Variables(vars[name]) {
			if _, ok := m.owners[v]; !ok {
				m.owners[v] = owner
			}
		}
	}
}
