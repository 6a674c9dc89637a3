/*
Package symbol implements the expression tree that models are written in.

Every node satisfies [Symbol]. Leaves are constants ([Scalar], [Vector],
[Matrix]), parameters ([Parameter], [FunctionParameter]), unknowns
([Variable]), discretised unknowns ([StateVector]) and [Time]. Interior
nodes are arithmetic ([Binary], [Function]), spatial operators
([Gradient], [Divergence], [Integral], [IndefiniteIntegral],
[BoundaryValue], [BoundaryFlux]) and shape changers ([Broadcast],
[FullBroadcast], [Concatenation]).

Nodes are immutable once built and are compared by pointer identity, so a
Variable created once can be used as a map key across the whole pipeline.

Domains:

Each node lives on an ordered list of named regions (its [Domain]) and may
carry auxiliary domains keyed by level ("secondary", "tertiary"). Combining
two nodes requires their domains to agree, or one of them to be empty.
Combining incompatible nodes panics with a [*DomainError], the same way
gonum/mat panics with ErrShape on mismatched dimensions; callers that
compose user-supplied trees recover it with [Recover].
*/
package symbol
