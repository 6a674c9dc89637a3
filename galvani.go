package galvani

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/galvani/pkg/discretise"
	"github.com/aretw0/galvani/pkg/mesh"
	"github.com/aretw0/galvani/pkg/model"
	"github.com/aretw0/galvani/pkg/ports"
	"github.com/aretw0/galvani/pkg/spatial"
	"github.com/aretw0/galvani/pkg/submodel"
	"github.com/aretw0/galvani/pkg/symbol"
)

// DefaultLockTTL bounds how long a compile holds the model lock.
const DefaultLockTTL = 30 * time.Second

// CompileEvent describes a finished compilation.
type CompileEvent struct {
	Timestamp    time.Time     `json:"timestamp"`
	Model        string        `json:"model"`
	Duration     time.Duration `json:"duration"`
	Size         int           `json:"size"`
	Differential int           `json:"differential"`
	Changed      bool          `json:"changed"`
	Err          error         `json:"-"`
}

// Hooks defines callbacks for pipeline observability. Phase hooks are
// forwarded to the assembler.
type Hooks struct {
	OnPhaseStart func(context.Context, *model.PhaseEvent)
	OnPhaseEnd   func(context.Context, *model.PhaseEvent)
	OnCompiled   func(context.Context, *CompileEvent)
}

// Result is the outcome of a compilation.
type Result struct {
	Model  *model.Model
	System *discretise.System
	// Previous is the layout stored by the last compilation of the same
	// model, nil when there was none or no store is configured.
	Previous *discretise.Layout
	// Changed reports whether the layout differs from Previous.
	Changed bool
}

// Pipeline is the high-level entry point: it assembles the declared
// submodels and discretises the result on a mesh.
type Pipeline struct {
	name        string
	mesh        *mesh.Mesh
	methods     map[string]spatial.Method
	submodels   []submodel.Submodel
	aggregators []submodel.Aggregator
	inputs      symbol.Inputs
	hooks       Hooks
	logger      *slog.Logger
	parallel    bool
	store       ports.LayoutStore
	locker      ports.DistributedLocker
	lockTTL     time.Duration
}

// Option defines a functional option for configuring the Pipeline.
type Option func(*Pipeline)

// WithName sets the model name (default: "model").
func WithName(name string) Option {
	return func(p *Pipeline) {
		p.name = name
	}
}

// WithInputs sets the parameter values used for initial conditions and
// carried by the compiled System.
func WithInputs(in symbol.Inputs) Option {
	return func(p *Pipeline) {
		p.inputs = in
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks Hooks) Option {
	return func(p *Pipeline) {
		p.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithParallelFundamentals runs the fundamental phase concurrently.
func WithParallelFundamentals() Option {
	return func(p *Pipeline) {
		p.parallel = true
	}
}

// WithLayoutStore persists every compiled layout and compares it against
// the previous one.
func WithLayoutStore(s ports.LayoutStore) Option {
	return func(p *Pipeline) {
		p.store = s
	}
}

// WithLocker serializes compilations of the same model across processes.
// A zero ttl selects DefaultLockTTL.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(p *Pipeline) {
		p.locker = l
		p.lockTTL = ttl
	}
}

// New creates a pipeline over m. methods maps region names to spatial
// methods.
func New(m *mesh.Mesh, methods map[string]spatial.Method, opts ...Option) *Pipeline {
	p := &Pipeline{
		name:    "model",
		mesh:    m,
		methods: methods,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if p.lockTTL <= 0 {
		p.lockTTL = DefaultLockTTL
	}
	return p
}

// Name returns the model name.
func (p *Pipeline) Name() string { return p.name }

// Add appends submodels in declaration order.
func (p *Pipeline) Add(sms ...submodel.Submodel) *Pipeline {
	p.submodels = append(p.submodels, sms...)
	return p
}

// AddAggregator appends aggregation steps.
func (p *Pipeline) AddAggregator(ags ...submodel.Aggregator) *Pipeline {
	p.aggregators = append(p.aggregators, ags...)
	return p
}

// Assemble builds and checks the model without discretising it.
func (p *Pipeline) Assemble(ctx context.Context) (*model.Model, error) {
	opts := []model.Option{
		model.WithName(p.name),
		model.WithLogger(p.logger),
		model.WithLifecycleHooks(model.Hooks{
			OnPhaseStart: p.hooks.OnPhaseStart,
			OnPhaseEnd:   p.hooks.OnPhaseEnd,
		}),
	}
	if p.parallel {
		opts = append(opts, model.WithParallelFundamentals())
	}
	return model.NewAssembler(opts...).
		Add(p.submodels...).
		AddAggregator(p.aggregators...).
		Build(ctx)
}

// Compile assembles the model, discretises it and, when a store is
// configured, records the resulting layout.
func (p *Pipeline) Compile(ctx context.Context) (res *Result, err error) {
	start := time.Now()
	logger := p.logger.With("model", p.name)
	defer func() {
		if p.hooks.OnCompiled == nil {
			return
		}
		ev := &CompileEvent{Timestamp: time.Now(), Model: p.name, Duration: time.Since(start), Err: err}
		if res != nil {
			ev.Size = res.System.Len()
			ev.Differential = res.System.Differential()
			ev.Changed = res.Changed
		}
		p.hooks.OnCompiled(ctx, ev)
	}()

	// 1. Lock, so concurrent builds of one model do not interleave their
	// layout writes
	if p.locker != nil {
		unlock, err := p.locker.Lock(ctx, "compile:"+p.name, p.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock model %q: %w", p.name, err)
		}
		defer func() {
			if uerr := unlock(context.WithoutCancel(ctx)); uerr != nil {
				logger.Warn("failed to release model lock", "err", uerr)
			}
		}()
	}

	// 2. Assemble
	m, err := p.Assemble(ctx)
	if err != nil {
		return nil, err
	}

	// 3. Discretise
	disc := discretise.New(p.mesh, p.methods,
		discretise.WithLogger(p.logger),
		discretise.WithInputs(p.inputs),
	)
	sys, err := disc.ProcessModel(m)
	if err != nil {
		return nil, fmt.Errorf("discretise: %w", err)
	}
	res = &Result{Model: m, System: sys, Changed: true}

	if p.store == nil {
		logger.Info("model compiled", "size", sys.Len(), "differential", sys.Differential())
		return res, nil
	}

	// 4. Compare with the previous layout, then save
	prev, err := p.store.Load(ctx, p.name)
	switch {
	case errors.Is(err, ports.ErrLayoutNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to load previous layout: %w", err)
	default:
		res.Previous = prev
		res.Changed = !prev.Equal(sys.Layout)
	}
	if res.Changed && res.Previous != nil {
		logger.Warn("state layout changed since last build", "previous_size", prev.Size, "size", sys.Len())
	}
	if err := p.store.Save(ctx, sys.Layout); err != nil {
		return nil, fmt.Errorf("failed to save layout: %w", err)
	}

	logger.Info("model compiled", "size", sys.Len(), "differential", sys.Differential(), "changed", res.Changed)
	return res, nil
}
