package thermo

import "fmt"

// enthalpyRefK is the temperature at which the reference engine pins
// enthalpy to zero.
const enthalpyRefK = 273.15

// ReferenceEngine is the built-in property engine: ideal heat capacity with
// a mild pressure/temperature compressibility correlation. It exists so the
// binary runs end-to-end without an external property server and so tests
// are deterministic; production deployments inject their own Engine.
type ReferenceEngine struct{}

var _ Engine = ReferenceEngine{}

// z approximates compressibility: unity at low pressure, dropping with
// pressure and rising with temperature. Smooth and monotonic so the stage
// iteration has a well-behaved fixed point.
func (ReferenceEngine) z(pressureBara, temperatureK float64) float64 {
	return 1 - 0.05*(pressureBara/100)*(288.15/temperatureK)
}

// FlashPT computes the state at pressure (bara) and temperature (K).
func (e ReferenceEngine) FlashPT(fluid Fluid, pressureBara, temperatureK float64) (Stream, error) {
	if pressureBara <= 0 {
		return Stream{}, fmt.Errorf("flash PT: non-positive pressure %g bara", pressureBara)
	}
	if temperatureK <= 0 {
		return Stream{}, fmt.Errorf("flash PT: non-positive temperature %g K", temperatureK)
	}

	z := e.z(pressureBara, temperatureK)
	if z <= 0 {
		return Stream{}, fmt.Errorf("flash PT: state outside correlation range (p=%g bara, T=%g K)", pressureBara, temperatureK)
	}
	density := pressureBara * 1e5 * fluid.MolarMass / (z * UniversalGasConstant * temperatureK)

	return Stream{
		Pressure:      pressureBara,
		Temperature:   temperatureK,
		Density:       density,
		Enthalpy:      fluid.Cp * (temperatureK - enthalpyRefK),
		Z:             z,
		Kappa:         fluid.Kappa(),
		MolarMass:     fluid.MolarMass,
		VaporFraction: 1,
	}, nil
}

// FlashPH computes the state at pressure (bara) and specific enthalpy
// (J/kg). With an ideal heat capacity the temperature follows directly.
func (e ReferenceEngine) FlashPH(fluid Fluid, pressureBara, enthalpyJPerKg float64) (Stream, error) {
	temperatureK := enthalpyRefK + enthalpyJPerKg/fluid.Cp
	if temperatureK <= 0 {
		return Stream{}, fmt.Errorf("flash PH: enthalpy %g J/kg below correlation range", enthalpyJPerKg)
	}
	return e.FlashPT(fluid, pressureBara, temperatureK)
}
