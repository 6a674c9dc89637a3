/*
Package kinetics provides the electrode/electrolyte interface submodel.

An [Interface] is composed from three independent strategies instead of
a class hierarchy:

  - [Kinetics] relates overpotential and interfacial current
    ([ButlerVolmer], [InverseButlerVolmer]);
  - [ExchangeCurrent] gives the exchange current density
    ([LithiumIonExchange]);
  - [OpenCircuitPotential] gives the equilibrium potential and the standard
    OCP variables ([LithiumIonOCP]).

Use [NewBuilder] to pick strategies:

	neg, err := kinetics.NewBuilder(param, submodel.Negative).
		Kinetics(kinetics.ButlerVolmer{}).
		Build()
*/
package kinetics
