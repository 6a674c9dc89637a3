/*
Package discretise compiles an assembled model into a System for an external
DAE solver.

ProcessModel allocates contiguous slices of the state vector (rhs variables
first, then algebraic ones, both in equation order), replaces every Variable
with a StateVector and every spatial operator with the discrete form returned
by the Method registered for its region, checks shapes, evaluates the
initial conditions and builds the diagonal mass matrix.

	d := discretise.New(m, map[string]spatial.Method{
		"negative electrode": spatial.NewFiniteVolume(m),
	}, discretise.WithInputs(in))
	sys, err := d.ProcessModel(model)
	ydot, err := sys.RHS(0, sys.Y0)
*/
package discretise
