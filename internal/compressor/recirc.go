package compressor

import (
	"log/slog"
	"math"

	"github.com/enflow/enflow/internal/solve"
	"github.com/enflow/enflow/internal/thermo"
)

// RecircSolver finds the anti-surge recirculation rate for a train running
// at fixed speed. "Rate too low" (must recirculate to reach minimum stable
// flow) and "rate too high" (total rate exceeds chart capacity) are two
// independent feasibility conditions; each is searched for its own boundary
// before root-finding the rate that meets the target pressure. Without a
// target the minimum feasible recirculation wins: every recirculated
// kilogram is recompressed for nothing.
type RecircSolver struct {
	Train          *Train
	Engine         thermo.Engine
	Bounds         solve.Boundary // recirculation mass rate domain, kg/h
	TargetPressure *float64       // bara, nil when any discharge pressure is acceptable
	Search         solve.BinarySearch
	Root           solve.BrentRoot
	Log            *slog.Logger
}

// NewRecircSolver builds a solver with the default tolerances over
// [0, maxRecirc].
func NewRecircSolver(train *Train, eng thermo.Engine, maxRecirc float64, targetPressure *float64) *RecircSolver {
	return &RecircSolver{
		Train:          train,
		Engine:         eng,
		Bounds:         solve.Boundary{Min: 0, Max: maxRecirc},
		TargetPressure: targetPressure,
		Search:         solve.BinarySearch{Tolerance: defaultTolerance, MaxIterations: defaultIterations},
		Root:           solve.BrentRoot{Tolerance: defaultTolerance, MaxIterations: defaultIterations},
	}
}

// evalAt mutates the recirculation rate through the train's single setter,
// then propagates.
func (s *RecircSolver) evalAt(rate float64, cond Conditions) (Result, error) {
	s.Train.SetRecirculation(rate)
	return s.Train.Propagate(s.Engine, cond)
}

// Solve runs the two-phase bracket-then-root search for one timestep's
// conditions.
func (s *RecircSolver) Solve(cond Conditions) (Solution, error) {
	speed := s.Train.Speed()

	// Lower boundary: least recirculation that clears minimum stable flow.
	low := s.Bounds.Min
	lowRes, err := s.evalAt(low, cond)
	if err != nil {
		s.logger().Debug("recirc solve failed at lower bound", "error", err)
		return Solution{Point: OperatingPoint{Speed: speed, Recirculation: low}}, nil
	}
	switch lowRes.Outcome {
	case RateTooHigh:
		// Already over capacity with the valve shut; recirculating only
		// adds flow.
		return Solution{Point: OperatingPoint{Speed: speed, Recirculation: low}}, nil
	case RateTooLow:
		// Confirm the valve wide open actually clears minimum flow before
		// bisecting for the edge.
		maxRes, maxErr := s.evalAt(s.Bounds.Max, cond)
		if maxErr != nil || maxRes.Outcome == RateTooLow {
			return Solution{Point: OperatingPoint{Speed: speed, Recirculation: s.Bounds.Max}}, nil
		}
		low, err = s.Search.Search(s.Bounds, func(x float64) (moveRight, accepted bool) {
			r, evalErr := s.evalAt(x, cond)
			feasible := evalErr == nil && r.Outcome == Feasible
			// Still under minimum flow: move toward more recirculation.
			return evalErr == nil && r.Outcome == RateTooLow, feasible
		})
		if err != nil {
			return Solution{Point: OperatingPoint{Speed: speed}}, err
		}
		lowRes, err = s.evalAt(low, cond)
		if err != nil || lowRes.Outcome != Feasible {
			return Solution{Point: OperatingPoint{Speed: speed, Recirculation: low}}, nil
		}
	}

	// No target pressure: the minimum feasible recirculation is the answer.
	if s.TargetPressure == nil {
		return Solution{Success: true, Point: OperatingPoint{
			Speed:          speed,
			Recirculation:  low,
			OutletPressure: lowRes.OutletPressure,
			Power:          lowRes.Power,
		}}, nil
	}
	target := *s.TargetPressure

	// Upper boundary: most recirculation the chart capacity admits.
	high := s.Bounds.Max
	highRes, err := s.evalAt(high, cond)
	if err != nil {
		return Solution{Point: OperatingPoint{Speed: speed, Recirculation: high}}, nil
	}
	if highRes.Outcome == RateTooHigh {
		high, err = s.Search.Search(solve.Boundary{Min: low, Max: s.Bounds.Max}, func(x float64) (moveRight, accepted bool) {
			r, evalErr := s.evalAt(x, cond)
			feasible := evalErr == nil && r.Outcome == Feasible
			// Feasible: the capacity edge lies at more recirculation.
			return feasible, feasible
		})
		if err != nil {
			return Solution{Point: OperatingPoint{Speed: speed}}, err
		}
		highRes, err = s.evalAt(high, cond)
		if err != nil || highRes.Outcome != Feasible {
			return Solution{Point: OperatingPoint{Speed: speed, Recirculation: high}}, nil
		}
	}

	// Recirculation lowers discharge pressure, so the reachable band is
	// [p(high), p(low)].
	if target > lowRes.OutletPressure || target < highRes.OutletPressure {
		best := lowRes
		bestRate := low
		if math.Abs(highRes.OutletPressure-target) < math.Abs(lowRes.OutletPressure-target) {
			best, bestRate = highRes, high
		}
		return Solution{Point: OperatingPoint{
			Speed:          speed,
			Recirculation:  bestRate,
			OutletPressure: best.OutletPressure,
			Power:          best.Power,
		}}, nil
	}

	var evalErr error
	rate, err := s.Root.FindRoot(solve.Boundary{Min: low, Max: high}, func(x float64) float64 {
		r, e := s.evalAt(x, cond)
		if e != nil || r.Outcome != Feasible {
			evalErr = e
			return math.NaN()
		}
		return r.OutletPressure - target
	})
	if err != nil {
		return Solution{Point: OperatingPoint{Speed: speed, Recirculation: low}}, err
	}
	if evalErr != nil {
		s.logger().Debug("recirc solve failed inside bracket", "error", evalErr)
		return Solution{Point: OperatingPoint{Speed: speed, Recirculation: rate}}, nil
	}

	final, err := s.evalAt(rate, cond)
	if err != nil || final.Outcome != Feasible {
		return Solution{Point: OperatingPoint{Speed: speed, Recirculation: rate}}, nil
	}
	return Solution{Success: true, Point: OperatingPoint{
		Speed:          speed,
		Recirculation:  rate,
		OutletPressure: final.OutletPressure,
		Power:          final.Power,
	}}, nil
}

func (s *RecircSolver) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
