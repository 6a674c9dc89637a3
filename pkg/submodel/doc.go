/*
Package submodel defines how independently written pieces of physics
contribute to a model.

A submodel implements [Submodel] plus any subset of the capability
interfaces. The assembler probes each capability and calls it in a fixed
phase order:

 1. [FundamentalContributor]: create the submodel's own unknowns.
 2. [CoupledContributor]: derive quantities from what earlier submodels
    published.
 3. [Aggregator]: combine per-domain partials into whole-system variables.
 4. [RHSContributor], [AlgebraicContributor],
    [InitialConditionContributor] and [BoundaryConditionContributor]:
    write equations for the submodel's own unknowns.

Small submodels can be put together from closures with [Define]:

	decay := submodel.Define("decay").
		Fundamental(func() (submodel.Variables, error) {
			return submodel.Variables{"c": c}, nil
		}).
		RHS(func(vars registry.Reader) (*symbol.Equations, error) {
			return symbol.NewEquations().Set(c, symbol.Neg(c)), nil
		}).
		Build()
*/
package submodel
