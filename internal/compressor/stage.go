package compressor

import (
	"fmt"
	"math"

	"github.com/enflow/enflow/internal/thermo"
)

const (
	// outletTolerance is the relative outlet-pressure change at which the
	// fixed-point iteration is considered converged.
	outletTolerance = 1e-2
	// maxOutletIterations bounds the fixed-point loop.
	maxOutletIterations = 20
	// initialGuessDiscount shades the closed-form first estimate.
	initialGuessDiscount = 0.95
)

// Stage is one compression stage: a performance chart plus the conditions
// ahead of it. Stages are constructed once from configuration and reused
// across every evaluated timestep.
type Stage struct {
	Chart             Chart
	InletTemperature  float64 // K, after inter-stage cooling
	PressureDropAhead float64 // bar, upstream of the stage
	RemoveLiquid      bool    // scrub condensate before compression
}

// IterationResult records how the outlet fixed-point loop terminated.
// Non-convergence here is soft: the last estimate is still returned and the
// caller decides whether to log or escalate.
type IterationResult struct {
	Iterations int
	Converged  bool
	RelChange  float64 // relative pressure change of the last iteration
}

// ComputeOutlet computes the outlet pressure and outlet state for a stage
// doing polytropicHead (J/kg) of work at polytropicEfficiency on inlet.
//
// The first estimate comes from the closed-form polytropic relation using
// inlet z and kappa alone, discounted by 5%. Each iteration averages inlet
// and outlet z/kappa, recomputes the closed-form pressure and reflashes the
// outlet from the head/efficiency enthalpy rise. The loop stops when the
// relative pressure change drops below 1e-2, or after 20 iterations with
// Converged=false and the last estimate in force.
func ComputeOutlet(
	eng thermo.Engine,
	fluid thermo.Fluid,
	polytropicEfficiency, polytropicHead float64,
	inlet thermo.Stream,
) (float64, thermo.Stream, IterationResult, error) {
	if polytropicEfficiency <= 0 || polytropicEfficiency > 1 {
		return 0, thermo.Stream{}, IterationResult{}, fmt.Errorf("polytropic efficiency %g outside (0, 1]", polytropicEfficiency)
	}

	outletEnthalpy := inlet.Enthalpy + polytropicHead/polytropicEfficiency
	pressure := outletPressureClosedForm(inlet, polytropicEfficiency, polytropicHead, inlet.Z, inlet.Kappa) * initialGuessDiscount

	var res IterationResult
	for i := 1; i <= maxOutletIterations; i++ {
		outlet, err := eng.FlashPH(fluid, pressure, outletEnthalpy)
		if err != nil {
			return 0, thermo.Stream{}, res, fmt.Errorf("stage outlet flash at %g bara: %w", pressure, err)
		}
		zAvg := 0.5 * (inlet.Z + outlet.Z)
		kappaAvg := 0.5 * (inlet.Kappa + outlet.Kappa)
		next := outletPressureClosedForm(inlet, polytropicEfficiency, polytropicHead, zAvg, kappaAvg)

		res.Iterations = i
		res.RelChange = math.Abs(next-pressure) / pressure
		pressure = next
		if res.RelChange < outletTolerance {
			res.Converged = true
			break
		}
	}

	outlet, err := eng.FlashPH(fluid, pressure, outletEnthalpy)
	if err != nil {
		return 0, thermo.Stream{}, res, fmt.Errorf("stage outlet flash at %g bara: %w", pressure, err)
	}
	return pressure, outlet, res, nil
}

// outletPressureClosedForm inverts the polytropic head relation
//
//	head = z R T1 / (M m) * ((p2/p1)^m - 1),  m = (kappa-1)/(kappa eff)
//
// for p2, using the supplied (averaged) z and kappa.
func outletPressureClosedForm(inlet thermo.Stream, efficiency, head, z, kappa float64) float64 {
	m := (kappa - 1) / (kappa * efficiency)
	rSpecific := thermo.UniversalGasConstant / inlet.MolarMass
	ratio := math.Pow(1+head*m/(z*rSpecific*inlet.Temperature), 1/m)
	return inlet.Pressure * ratio
}
