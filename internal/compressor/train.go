package compressor

import (
	"fmt"
	"log/slog"

	"github.com/enflow/enflow/internal/thermo"
)

// ModelKind is the closed set of compressor train variants. Dispatch over
// kinds is an exhaustive switch, not an open subclass hierarchy.
type ModelKind int

const (
	// SingleSpeed trains run at one fixed shaft speed; the operating point
	// is controlled with anti-surge recirculation alone.
	SingleSpeed ModelKind = iota
	// VariableSpeed trains control discharge pressure with shaft speed,
	// holding minimum stable flow with the anti-surge valve.
	VariableSpeed
)

func (k ModelKind) String() string {
	switch k {
	case SingleSpeed:
		return "single_speed"
	case VariableSpeed:
		return "variable_speed"
	default:
		return "unknown"
	}
}

// Conditions are the per-timestep process inputs a train is evaluated at,
// produced upstream by expression evaluation.
type Conditions struct {
	MassRate        float64 // kg/h through the process (excluding recirculation)
	SuctionPressure float64 // bara ahead of the first stage
}

// Result is the outcome of propagating a train at its current operating
// point. When Outcome is not Feasible the other fields are zero.
type Result struct {
	Outcome        CapacityOutcome
	OutletPressure float64       // bara after the last stage
	OutletStream   thermo.Stream // state after the last stage
	Power          float64       // shaft power, W
}

// Train is a chain of compression stages over one fluid. The operating
// point (speed, recirculation) is mutated only through the setters, and the
// solvers call them strictly sequentially before each propagation; there is
// no concurrent mutation.
type Train struct {
	Kind   ModelKind
	Fluid  thermo.Fluid
	Stages []Stage

	// MinFlowASV makes the train hold minimum stable flow with the
	// anti-surge valve instead of reporting RateTooLow. Variable-speed
	// trains run with it on; the recirculation solver turns it off to see
	// the raw capacity signal.
	MinFlowASV bool

	Log *slog.Logger

	speed         float64
	recirculation float64 // kg/h routed back to the first stage inlet
}

// SetSpeed sets the shaft speed. This is the single mutation point used by
// the speed solver.
func (t *Train) SetSpeed(v float64) { t.speed = v }

// Speed returns the current shaft speed.
func (t *Train) Speed() float64 { return t.speed }

// SetRecirculation sets the anti-surge recirculation mass rate in kg/h.
// This is the single mutation point used by the recirculation solver.
func (t *Train) SetRecirculation(v float64) { t.recirculation = v }

// Recirculation returns the current recirculation rate.
func (t *Train) Recirculation() float64 { return t.recirculation }

// Propagate flashes the inlet and pushes the stream stage by stage through
// the train at the current operating point, accumulating shaft power.
// Capacity violations surface as the Result outcome; errors are reserved
// for structural failures such as a flash outside the property engine's
// range.
func (t *Train) Propagate(eng thermo.Engine, cond Conditions) (Result, error) {
	if len(t.Stages) == 0 {
		return Result{}, fmt.Errorf("train has no stages")
	}
	if cond.MassRate <= 0 {
		return Result{}, fmt.Errorf("non-positive mass rate %g kg/h", cond.MassRate)
	}

	totalMass := cond.MassRate + t.recirculation // kg/h through every stage
	pressure := cond.SuctionPressure
	power := 0.0
	var stream thermo.Stream

	for i, stage := range t.Stages {
		inletPressure := pressure - stage.PressureDropAhead
		if inletPressure <= 0 {
			return Result{}, fmt.Errorf("stage %d: pressure drop %g bar exhausts suction pressure %g bara",
				i+1, stage.PressureDropAhead, pressure)
		}

		inlet, err := eng.FlashPT(t.Fluid, inletPressure, stage.InletTemperature)
		if err != nil {
			return Result{}, fmt.Errorf("stage %d inlet flash: %w", i+1, err)
		}

		// Chart rates are actual volumetric flow at stage inlet conditions.
		actualRate := totalMass / inlet.Density
		head, efficiency, outcome := stage.Chart.At(t.speed, actualRate)
		if outcome == RateTooLow && t.MinFlowASV {
			// The anti-surge valve holds the stage at minimum stable flow;
			// excess head is burned over the valve.
			_, head, efficiency = stage.Chart.MinFlow(t.speed)
			outcome = Feasible
		}
		if outcome != Feasible {
			return Result{Outcome: outcome}, nil
		}

		outletPressure, outlet, iter, err := ComputeOutlet(eng, t.Fluid, efficiency, head, inlet)
		if err != nil {
			return Result{}, fmt.Errorf("stage %d: %w", i+1, err)
		}
		if !iter.Converged {
			t.logger().Warn("stage outlet iteration exhausted, using last estimate",
				"stage", i+1,
				"iterations", iter.Iterations,
				"rel_change", iter.RelChange,
				"pressure_bara", outletPressure)
		}

		// Shaft power: mass flow times head over efficiency.
		power += totalMass / 3600 * head / efficiency
		pressure = outletPressure
		stream = outlet
	}

	return Result{Outcome: Feasible, OutletPressure: pressure, OutletStream: stream, Power: power}, nil
}

func (t *Train) logger() *slog.Logger {
	if t.Log != nil {
		return t.Log
	}
	return slog.Default()
}
