package compressor

import (
	"log/slog"
	"math"

	"github.com/enflow/enflow/internal/solve"
	"github.com/enflow/enflow/internal/thermo"
)

// Default solver tolerances and budgets.
const (
	defaultTolerance  = 1e-4
	defaultIterations = 50
)

// SpeedSolver finds the shaft speed at which a train meets a target
// discharge pressure.
//
// Phases: probe maximum speed (target unreachable -> fail), probe minimum
// speed (bisect up to the lowest feasible speed when the rate exceeds chart
// capacity), then Brent root-finding on outlet pressure between the
// feasible minimum and the maximum.
type SpeedSolver struct {
	Train          *Train
	Engine         thermo.Engine
	TargetPressure float64 // bara
	Search         solve.BinarySearch
	Root           solve.BrentRoot
	Log            *slog.Logger
}

// NewSpeedSolver builds a solver with the default tolerances, bounded by
// the train's charted speed range.
func NewSpeedSolver(train *Train, eng thermo.Engine, targetPressure float64) *SpeedSolver {
	return &SpeedSolver{
		Train:          train,
		Engine:         eng,
		TargetPressure: targetPressure,
		Search:         solve.BinarySearch{Tolerance: defaultTolerance, MaxIterations: defaultIterations},
		Root:           solve.BrentRoot{Tolerance: defaultTolerance, MaxIterations: defaultIterations},
	}
}

// bounds derives the speed domain from the first stage's chart.
func (s *SpeedSolver) bounds() solve.Boundary {
	chart := s.Train.Stages[0].Chart
	return solve.Boundary{Min: chart.MinSpeed(), Max: chart.MaxSpeed()}
}

// evalAt mutates the train's speed through its single setter, then
// propagates.
func (s *SpeedSolver) evalAt(speed float64, cond Conditions) (Result, error) {
	s.Train.SetSpeed(speed)
	return s.Train.Propagate(s.Engine, cond)
}

// Solve runs the state machine for one timestep's conditions. Structural
// process errors and unreachable targets terminate with Success=false; an
// error return is reserved for search-strategy non-convergence, which is
// fatal to the enclosing call.
func (s *SpeedSolver) Solve(cond Conditions) (Solution, error) {
	b := s.bounds()

	// Probe maximum speed. If even flat out the target is not reached (or
	// the evaluation fails structurally), the target is unreachable.
	maxRes, err := s.evalAt(b.Max, cond)
	if err != nil {
		s.logger().Debug("speed solve failed at max speed", "error", err)
		return Solution{Point: OperatingPoint{Speed: b.Max}}, nil
	}
	if maxRes.Outcome != Feasible || maxRes.OutletPressure < s.TargetPressure {
		return Solution{Point: OperatingPoint{
			Speed:          b.Max,
			OutletPressure: maxRes.OutletPressure,
			Power:          maxRes.Power,
		}}, nil
	}

	// Probe minimum speed. A rate above chart capacity down there means the
	// feasible region starts at some higher speed; bisect for its edge.
	minSpeed := b.Min
	minRes, err := s.evalAt(minSpeed, cond)
	if err != nil {
		return Solution{Point: OperatingPoint{Speed: minSpeed}}, nil
	}
	if minRes.Outcome == RateTooHigh {
		minSpeed, err = s.Search.Search(b, func(x float64) (moveRight, accepted bool) {
			r, evalErr := s.evalAt(x, cond)
			feasible := evalErr == nil && r.Outcome == Feasible
			return !feasible, feasible
		})
		if err != nil {
			return Solution{Point: OperatingPoint{Speed: b.Min}}, err
		}
		minRes, err = s.evalAt(minSpeed, cond)
		if err != nil || minRes.Outcome != Feasible {
			return Solution{Point: OperatingPoint{Speed: minSpeed}}, nil
		}
	}

	// Already above target at the lowest feasible speed: target too low.
	if minRes.OutletPressure > s.TargetPressure {
		return Solution{Point: OperatingPoint{
			Speed:          minSpeed,
			OutletPressure: minRes.OutletPressure,
			Power:          minRes.Power,
		}}, nil
	}

	// The target pressure is bracketed; root-find the speed that meets it.
	var evalErr error
	speed, err := s.Root.FindRoot(solve.Boundary{Min: minSpeed, Max: b.Max}, func(x float64) float64 {
		r, e := s.evalAt(x, cond)
		if e != nil || r.Outcome != Feasible {
			evalErr = e
			return math.NaN()
		}
		return r.OutletPressure - s.TargetPressure
	})
	if err != nil {
		return Solution{Point: OperatingPoint{Speed: minSpeed}}, err
	}
	if evalErr != nil {
		s.logger().Debug("speed solve failed inside bracket", "error", evalErr)
		return Solution{Point: OperatingPoint{Speed: speed}}, nil
	}

	final, err := s.evalAt(speed, cond)
	if err != nil || final.Outcome != Feasible {
		return Solution{Point: OperatingPoint{Speed: speed}}, nil
	}
	return Solution{Success: true, Point: OperatingPoint{
		Speed:          speed,
		Recirculation:  s.Train.Recirculation(),
		OutletPressure: final.OutletPressure,
		Power:          final.Power,
	}}, nil
}

func (s *SpeedSolver) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
