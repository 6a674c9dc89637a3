package discretise

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/aretw0/galvani/pkg/mesh"
	"github.com/aretw0/galvani/pkg/model"
	"github.com/aretw0/galvani/pkg/spatial"
	"github.com/aretw0/galvani/pkg/symbol"
)

// Discretiser replaces variables and spatial operators with state vector
// slices and discrete linear algebra on one mesh. It keeps the slices and
// processed symbols of the current model, so a Discretiser is not safe for
// concurrent use.
type Discretiser struct {
	mesh    *mesh.Mesh
	methods map[string]spatial.Method
	base    *spatial.Base
	inputs  *symbol.Inputs
	logger  *slog.Logger

	order  []*symbol.Variable
	slices map[*symbol.Variable]symbol.Slice
	size   int
	bcs    symbol.BoundaryConditions
	cache  map[symbol.Symbol]symbol.Symbol
}

// Option defines a functional option for configuring the Discretiser.
type Option func(*Discretiser)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Discretiser) {
		d.logger = logger
	}
}

// WithInputs sets the parameter values used to evaluate initial conditions.
// The resulting System evaluates with the same inputs.
func WithInputs(in symbol.Inputs) Option {
	return func(d *Discretiser) {
		d.inputs = &in
	}
}

// New creates a discretiser over m. methods maps region names to the
// spatial method that discretises operators whose operand lives there.
func New(m *mesh.Mesh, methods map[string]spatial.Method, opts ...Option) *Discretiser {
	d := &Discretiser{
		mesh:    m,
		methods: methods,
		base:    spatial.NewBase(m),
		inputs:  &symbol.Inputs{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	d.reset()
	return d
}

func (d *Discretiser) reset() {
	d.order = nil
	d.slices = make(map[*symbol.Variable]symbol.Slice)
	d.size = 0
	d.bcs = symbol.BoundaryConditions{}
	d.cache = make(map[symbol.Symbol]symbol.Symbol)
}

// method returns the spatial method of the first region of dom. Domain-less
// symbols use the base method.
func (d *Discretiser) method(dom symbol.Domain) (spatial.Method, error) {
	if dom.Empty() {
		return d.base, nil
	}
	m, ok := d.methods[dom[0]]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNoMethod, dom[0])
	}
	return m, nil
}

// SetVariableSlices assigns contiguous slices to vars in order and clears
// every previously processed symbol.
func (d *Discretiser) SetVariableSlices(vars ...*symbol.Variable) error {
	d.reset()
	start := 0
	for _, v := range vars {
		if _, dup := d.slices[v]; dup {
			return fmt.Errorf("variable %q is listed twice", v.Name())
		}
		n, err := d.mesh.Size(v.Domain(), v.Auxiliary())
		if err != nil {
			return fmt.Errorf("variable %q: %w", v.Name(), err)
		}
		d.slices[v] = symbol.Slice{Start: start, Stop: start + n}
		start += n
	}
	d.order = slices.Clone(vars)
	d.size = start
	d.logger.Debug("slices allocated", "variables", len(vars), "size", d.size)
	return nil
}

// Slice returns the slice of v.
func (d *Discretiser) Slice(v *symbol.Variable) (symbol.Slice, bool) {
	sl, ok := d.slices[v]
	return sl, ok
}

// SetBoundaryConditions discretises the boundary condition values. Keys
// stay symbolic so methods can match them against operator operands.
func (d *Discretiser) SetBoundaryConditions(bcs symbol.BoundaryConditions) error {
	d.bcs = symbol.BoundaryConditions{}
	for key, sides := range bcs {
		for side, bc := range sides {
			value, err := d.ProcessSymbol(bc.Value)
			if err != nil {
				return fmt.Errorf("boundary condition %s of %q: %w", side, key.Name(), err)
			}
			d.bcs.Set(key, side, symbol.BoundaryCondition{Value: value, Type: bc.Type})
		}
	}
	return nil
}

// ProcessSymbol returns the discrete form of s. Variables must have been
// given slices with SetVariableSlices. Processed nodes keep the domains of
// the symbols they replace.
func (d *Discretiser) ProcessSymbol(s symbol.Symbol) (out symbol.Symbol, err error) {
	defer symbol.Recover(&err)
	return d.process(s)
}

func (d *Discretiser) process(s symbol.Symbol) (symbol.Symbol, error) {
	if out, ok := d.cache[s]; ok {
		return out, nil
	}
	out, err := d.discretise(s)
	if err != nil {
		return nil, err
	}
	d.cache[s] = out
	return out, nil
}

func (d *Discretiser) discretise(s symbol.Symbol) (symbol.Symbol, error) {
	switch n := s.(type) {
	case *symbol.Variable:
		sl, ok := d.slices[n]
		if !ok {
			return nil, &UnknownVariableError{Name: n.Name()}
		}
		return symbol.Retag(symbol.NewStateVector([]symbol.Slice{sl}), n.Domain(), n.Auxiliary()), nil
	case *symbol.Broadcast:
		return d.broadcast(s, n.Operand())
	case *symbol.FullBroadcast:
		return d.broadcast(s, n.Operand())
	case symbol.SpatialOperator:
		return d.spatial(n)
	case *symbol.Binary, *symbol.Function, *symbol.Concatenation, *symbol.FunctionParameter:
		children := s.Children()
		disc := make([]symbol.Symbol, len(children))
		for i, c := range children {
			var err error
			if disc[i], err = d.process(c); err != nil {
				return nil, err
			}
		}
		return symbol.Rebuild(s, disc), nil
	default:
		return s, nil
	}
}

func (d *Discretiser) broadcast(s, operand symbol.Symbol) (symbol.Symbol, error) {
	disc, err := d.process(operand)
	if err != nil {
		return nil, err
	}
	method, err := d.method(s.Domain())
	if err != nil {
		return nil, err
	}
	out, err := method.Broadcast(s, disc)
	if err != nil {
		return nil, fmt.Errorf("broadcast of %q: %w", operand.Name(), err)
	}
	return symbol.Retag(out, s.Domain(), s.Auxiliary()), nil
}

func (d *Discretiser) spatial(op symbol.SpatialOperator) (symbol.Symbol, error) {
	operand := op.Operand()
	disc, err := d.process(operand)
	if err != nil {
		return nil, err
	}
	method, err := d.method(operand.Domain())
	if err != nil {
		return nil, err
	}

	var out symbol.Symbol
	switch n := op.(type) {
	case *symbol.Gradient:
		out, err = method.Gradient(n, disc, d.bcs)
	case *symbol.Divergence:
		out, err = method.Divergence(n, disc, d.bcs)
	case *symbol.Integral:
		out, err = method.Integral(n, disc)
	case *symbol.IndefiniteIntegral:
		out, err = method.IndefiniteIntegral(n, disc)
	case symbol.BoundaryOperator:
		out, err = method.BoundaryValueOrFlux(n, disc, d.bcs)
	default:
		err = &spatial.OperatorError{Operator: op.Operator(), Reason: "unknown spatial operator"}
	}
	if err != nil {
		return nil, fmt.Errorf("%s of %q: %w", op.Operator(), operand.Name(), err)
	}
	return symbol.Retag(out, op.Domain(), op.Auxiliary()), nil
}

// ProcessModel compiles m into a System.
func (d *Discretiser) ProcessModel(m *model.Model) (*System, error) {
	logger := d.logger.With("model", m.Name)

	// 1. Slices: rhs variables first, then algebraic ones
	if err := d.SetVariableSlices(m.StateVariables()...); err != nil {
		return nil, err
	}
	layout := &Layout{Model: m.Name, Size: d.size}
	for _, v := range d.order {
		sl := d.slices[v]
		layout.Entries = append(layout.Entries, Entry{
			Variable:     v.Name(),
			Domain:       slices.Clone(v.Domain()),
			Start:        sl.Start,
			Stop:         sl.Stop,
			Differential: m.RHS.Has(v),
		})
	}

	// 2. Boundary conditions, needed by gradients and boundary operators
	if err := d.SetBoundaryConditions(m.BoundaryConditions); err != nil {
		return nil, err
	}

	// 3. Equations
	rhs, err := d.blocks(m.RHS)
	if err != nil {
		return nil, fmt.Errorf("rhs: %w", err)
	}
	alg, err := d.blocks(m.Algebraic)
	if err != nil {
		return nil, fmt.Errorf("algebraic: %w", err)
	}
	exprs := make([]symbol.Symbol, 0, len(rhs)+len(alg))
	for _, b := range slices.Concat(rhs, alg) {
		exprs = append(exprs, b.expr)
	}
	if err := CheckSlices(exprs...); err != nil {
		return nil, err
	}

	// 4. Initial conditions
	y0 := make([]float64, d.size)
	for i, v := range d.order {
		vals, err := d.initial(m, v)
		if err != nil {
			return nil, err
		}
		sl := d.slices[v]
		copy(y0[sl.Start:sl.Stop], vals)
		layout.Entries[i].Y0 = vals
	}

	// 5. Mass matrix
	mass, err := d.massMatrix(m)
	if err != nil {
		return nil, err
	}

	logger.Debug("model discretised", "size", d.size, "differential", layout.Differential())
	return &System{
		Name:       m.Name,
		Y0:         y0,
		Layout:     layout,
		MassMatrix: mass,
		Inputs:     d.inputs,
		rhs:        rhs,
		algebraic:  alg,
	}, nil
}

// blocks processes every equation of eqs and checks that each one fills
// exactly the slice of its variable.
func (d *Discretiser) blocks(eqs *symbol.Equations) ([]block, error) {
	var out []block
	for v, expr := range eqs.All() {
		disc, err := d.ProcessSymbol(expr)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.Name(), err)
		}
		if err := d.TestShape(disc); err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.Name(), err)
		}
		n, err := symbol.Size(disc)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.Name(), err)
		}
		sl := d.slices[v]
		if n != sl.Len() {
			return nil, &symbol.ShapeError{Expression: fmt.Sprintf("equation of %q", v.Name()), Want: sl.Len(), Got: n}
		}
		out = append(out, block{variable: v.Name(), slice: sl, expr: disc})
	}
	return out, nil
}

// TestShape checks a processed expression with the method of its domain.
// Regions without a method fall back to the base check.
func (d *Discretiser) TestShape(expr symbol.Symbol) error {
	method, err := d.method(expr.Domain())
	if err != nil {
		method = d.base
	}
	return method.TestShape(expr)
}

// initial evaluates the initial condition of v at t = 0. A single value is
// repeated over the whole slice.
func (d *Discretiser) initial(m *model.Model, v *symbol.Variable) ([]float64, error) {
	ic, ok := m.InitialConditions.Get(v)
	if !ok {
		return nil, &model.ModelError{Variable: v.Name(), Reason: "has no initial condition"}
	}
	disc, err := d.ProcessSymbol(ic)
	if err != nil {
		return nil, fmt.Errorf("initial condition of %q: %w", v.Name(), err)
	}
	vals, err := symbol.Evaluate(disc, 0, nil, d.inputs)
	if err != nil {
		return nil, fmt.Errorf("initial condition of %q: %w", v.Name(), err)
	}
	n := d.slices[v].Len()
	switch len(vals) {
	case n:
		return vals, nil
	case 1:
		out := make([]float64, n)
		for i := range out {
			out[i] = vals[0]
		}
		return out, nil
	default:
		return nil, &symbol.ShapeError{Expression: fmt.Sprintf("initial condition of %q", v.Name()), Want: n, Got: len(vals)}
	}
}

// massMatrix places the method's identity block on every differential
// slice and zeros on algebraic ones. A model without state has no mass
// matrix.
func (d *Discretiser) massMatrix(m *model.Model) (*mat.DiagDense, error) {
	if d.size == 0 {
		return nil, nil
	}
	diag := make([]float64, d.size)
	for _, v := range m.RHS.Keys() {
		method, err := d.method(v.Domain())
		if err != nil {
			return nil, err
		}
		sl := d.slices[v]
		mm := method.MassMatrix(v, sl.Len())
		for i := range sl.Len() {
			diag[sl.Start+i] = mm.At(i, i)
		}
	}
	return mat.NewDiagDense(len(diag), diag), nil
}

// CheckSlices reports the first pair of state vectors in exprs whose slices
// partially overlap.
func CheckSlices(exprs ...symbol.Symbol) error {
	type owned struct {
		slice symbol.Slice
		name  string
	}
	var seen []owned
	for _, e := range exprs {
		var err error
		symbol.Walk(e, func(n symbol.Symbol) bool {
			sv, ok := n.(*symbol.StateVector)
			if !ok || err != nil {
				return err == nil
			}
			for _, sl := range sv.Slices {
				for _, o := range seen {
					if sl != o.slice && sl.Overlaps(o.slice) {
						err = &SliceError{Left: o.name, Right: sv.Name(), First: o.slice, Second: sl}
						return false
					}
				}
				seen = append(seen, owned{slice: sl, name: sv.Name()})
			}
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}
