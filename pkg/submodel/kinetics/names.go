package kinetics

import "github.com/aretw0/galvani/pkg/submodel"

// Variable names read and published by the interface submodel.

func electrodePotential(d submodel.Domain) string {
	return string(d) + " electrode potential"
}

func electrolytePotential(d submodel.Domain) string {
	return string(d) + " electrolyte potential"
}

func electrolyteConcentration(d submodel.Domain) string {
	return string(d) + " electrolyte concentration"
}

func surfaceConcentration(d submodel.Domain) string {
	return string(d) + " particle surface concentration"
}

// InterfacialCurrent is the name of the interfacial current density of d.
func InterfacialCurrent(d submodel.Domain) string {
	return string(d) + " electrode interfacial current density"
}

// ExchangeCurrentDensity is the name of the exchange current density of d.
func ExchangeCurrentDensity(d submodel.Domain) string {
	return string(d) + " electrode exchange current density"
}

// ReactionOverpotential is the name of the reaction overpotential of d.
func ReactionOverpotential(d submodel.Domain) string {
	return string(d) + " electrode reaction overpotential"
}

// SurfacePotentialDifference is the name of phi_s - phi_e in d.
func SurfacePotentialDifference(d submodel.Domain) string {
	return string(d) + " electrode surface potential difference"
}

// OpenCircuitPotentialName is the name of the dimensionless OCP of d.
func OpenCircuitPotentialName(d submodel.Domain) string {
	return string(d) + " electrode open circuit potential"
}

func xAveraged(d submodel.Domain, rest string) string {
	return "X-averaged " + d.Lower() + " electrode " + rest
}

func average(d submodel.Domain, rest string) string {
	return "Average " + d.Lower() + " electrode " + rest
}
