/*
Package spatial turns continuous operators into discrete linear algebra.

A [Method] receives a symbolic operator (gradient, divergence, integral,
indefinite integral, boundary value or flux) together with its already
discretised operand and returns the discrete equivalent, usually a constant
matrix applied to a state vector.

[Base] is the contract every method builds on: each operator reports a
[*NotImplementedError] until a concrete method overrides it, and a boundary
flux is rejected with an [*OperatorError]. [FiniteVolume] implements the
cell-centred finite volume scheme on one-dimensional meshes and
[ZeroDimensional] covers single-point domains such as a lumped current
collector.

[Base.TestShape] is the shape check run on every discretised equation.
*/
package spatial
