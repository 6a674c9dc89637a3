/*
Package galvani compiles symbolic battery models into discretised
differential-algebraic systems.

A model is declared as a list of submodels. Each submodel contributes the
variables it owns, reads the ones published by others, and writes the
equations of its unknowns. The pipeline merges them in a fixed sequence of
phases and then discretises the merged model on a mesh, producing a System
in mass-matrix form that an external solver can integrate.

# Concept

Compilation runs in two stages:

  - Assembly (pkg/model): fundamental, coupled, aggregate, rhs, algebraic,
    initial-condition and boundary-condition phases, followed by a
    completeness check. Variables are exchanged through a registry keyed by
    domain-qualified names such as "Negative electrode interfacial current
    density [A.m-2]".
  - Discretisation (pkg/discretise): every unknown gets a contiguous slice
    of the state vector, spatial operators are replaced by matrices from
    the spatial method of their region, and the initial state and mass
    matrix are built.

Layouts of compiled systems can be persisted through ports.LayoutStore so
that a changed state layout between two builds is reported.

# Usage

	m, _ := mesh.New(mesh.Region{Name: "cell", Submesh: mesh.Point(0)})
	methods := map[string]spatial.Method{"cell": spatial.NewZeroDimensional(m)}

	p := galvani.New(m, methods,
		galvani.WithName("decay"),
		galvani.WithInputs(symbol.Inputs{Values: map[string]float64{"k": 0.5}}),
	).Add(prescribed.NewDecay("decay", "c", symbol.NewParameter("k"), symbol.NewScalar(1)))

	res, err := p.Compile(ctx)
	if err != nil {
		log.Fatal(err)
	}
	dydt, _ := res.System.RHS(0, res.System.Y0)
*/
package galvani
