package parameters

import "github.com/aretw0/galvani/pkg/symbol"

// Physical constants.
var (
	GasConstant = symbol.NewScalar(8.314462618)
	Faraday     = symbol.NewScalar(96485.33212)
)

// CurrentFunction is the name of the applied current function parameter.
const CurrentFunction = "Current function [A]"

// LithiumSulfur holds the dimensional parameters of zero-dimensional
// lithium-sulfur models.
type LithiumSulfur struct {
	R, F *symbol.Scalar
	TRef *symbol.Parameter

	Ms, Ns, Ns2, Ns4, Ns8 *symbol.Parameter
	Ne                    *symbol.Parameter
	IH0, IL0              *symbol.Parameter
	MassS                 *symbol.Parameter
	RhoS                  *symbol.Parameter
	EH0, EL0              *symbol.Parameter

	VoltageLowCut, VoltageHighCut *symbol.Parameter
	NCells                        *symbol.Parameter

	V           *symbol.Parameter
	Ar          *symbol.Parameter
	KP          *symbol.Parameter
	SStar       *symbol.Parameter
	KSCharge    *symbol.Parameter
	KSDischarge *symbol.Parameter

	// Timescale converts t to seconds; the models are dimensional, so it is one.
	Timescale *symbol.Scalar
	// Current is the applied current as a function of time in seconds.
	Current *symbol.FunctionParameter
}

// NewLithiumSulfur declares the lithium-sulfur parameter set.
func NewLithiumSulfur() *LithiumSulfur {
	p := symbol.NewParameter
	ls := &LithiumSulfur{
		R:    GasConstant,
		F:    Faraday,
		TRef: p("Reference temperature [K]"),

		Ms:    p("Molar mass of S8 [g.mol-1]"),
		Ns:    p("Number of S atoms in S [atoms]"),
		Ns2:   p("Number of S atoms in S2 [atoms]"),
		Ns4:   p("Number of S atoms in S4 [atoms]"),
		Ns8:   p("Number of S atoms in S8 [atoms]"),
		Ne:    p("Electron number per reaction [electrons]"),
		IH0:   p("Exchange current density H [A.m-2]"),
		IL0:   p("Exchange current density L [A.m-2]"),
		MassS: p("Mass of active sulfur per cell [g]"),
		RhoS:  p("Density of precipitated Sulfur [g.L-1]"),
		EH0:   p("Standard Potential H [V]"),
		EL0:   p("Standard Potential L [V]"),

		VoltageLowCut:  p("Lower voltage cut-off [V]"),
		VoltageHighCut: p("Upper voltage cut-off [V]"),
		NCells:         p("Number of cells connected in series to make a battery"),

		V:           p("Electrolyte volume per cell [L]"),
		Ar:          p("Active reaction area per cell [m2]"),
		KP:          p("Precipitation rate [s-1]"),
		SStar:       p("S saturation mass [g]"),
		KSCharge:    p("Shuttle rate coefficient during charge [s-1]"),
		KSDischarge: p("Shuttle rate coefficient during discharge [s-1]"),

		Timescale: symbol.NewScalar(1),
	}
	ls.Current = symbol.NewFunctionParameter(CurrentFunction, symbol.In("Time[s]", symbol.Mul(symbol.T, ls.Timescale)))
	return ls
}

// ThermalVoltage returns RT_ref/F.
func (ls *LithiumSulfur) ThermalVoltage() symbol.Symbol {
	return symbol.Div(symbol.Mul(ls.R, ls.TRef), ls.F)
}
