package thermo

// UniversalGasConstant in J/(mol K).
const UniversalGasConstant = 8.314462618

// Fluid describes the constant composition a stream is flashed against.
type Fluid struct {
	Name      string
	MolarMass float64 // kg/mol
	Cp        float64 // ideal-gas specific heat capacity, J/(kg K)
}

// Kappa returns the ideal isentropic exponent cp/cv for the fluid.
func (f Fluid) Kappa() float64 {
	rSpecific := UniversalGasConstant / f.MolarMass
	return f.Cp / (f.Cp - rSpecific)
}

// Stream is an immutable thermodynamic state snapshot at a point in the
// process. A new Stream is produced by every flash; none is mutated in
// place.
type Stream struct {
	Pressure      float64 // bara
	Temperature   float64 // K
	Density       float64 // kg/m3
	Enthalpy      float64 // J/kg, engine-specific reference state
	Z             float64 // compressibility
	Kappa         float64 // isentropic exponent
	MolarMass     float64 // kg/mol
	VaporFraction float64 // molar, 1 for single-phase gas
}

// Engine is the external thermodynamic property engine. The process
// solvers never bypass it with physics of their own.
//
// Implementations must be deterministic: identical inputs yield identical
// streams. Calls are synchronous; callers provide any caching or
// concurrency discipline themselves.
type Engine interface {
	// FlashPT computes the equilibrium state at a pressure (bara) and
	// temperature (K).
	FlashPT(fluid Fluid, pressureBara, temperatureK float64) (Stream, error)

	// FlashPH computes the equilibrium state at a pressure (bara) and
	// specific enthalpy (J/kg). The enthalpy must stem from the same
	// engine, so reference states cancel.
	FlashPH(fluid Fluid, pressureBara, enthalpyJPerKg float64) (Stream, error)
}
