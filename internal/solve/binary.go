package solve

import "math"

// IndicatorFunc drives a BinarySearch. moveRight steers the bisection
// toward the flip point; accepted marks the midpoint as a valid candidate
// result. All physical state changes happen inside the callback; the
// strategy itself owns no state.
type IndicatorFunc func(x float64) (moveRight, accepted bool)

// BinarySearch bisects a Boundary toward the point where an indicator
// function flips, tracking the last accepted midpoint.
type BinarySearch struct {
	Tolerance     float64 // relative bracket width at convergence
	MaxIterations int
}

// Search runs the bisection. It converges when the relative difference
// between the bracket ends drops below Tolerance and returns the last
// accepted midpoint. A NotConvergedError is returned when the iteration
// budget is exhausted first, or when no midpoint was ever accepted.
func (s BinarySearch) Search(b Boundary, f IndicatorFunc) (float64, error) {
	lo, hi := b.Min, b.Max
	best := math.NaN()

	converged := false
	for i := 0; i < s.MaxIterations; i++ {
		if relDiff(lo, hi) < s.Tolerance {
			converged = true
			break
		}
		mid := 0.5 * (lo + hi)
		moveRight, accepted := f(mid)
		if accepted {
			best = mid
		}
		if moveRight {
			lo = mid
		} else {
			hi = mid
		}
	}
	if !converged && relDiff(lo, hi) >= s.Tolerance {
		return 0, &NotConvergedError{Boundary: b, Tolerance: s.Tolerance, Iterations: s.MaxIterations}
	}
	if math.IsNaN(best) {
		return 0, &NotConvergedError{
			Boundary: b, Tolerance: s.Tolerance, Iterations: s.MaxIterations,
			Reason: "no midpoint accepted by the indicator",
		}
	}
	return best, nil
}

// relDiff is the bracket width relative to its largest endpoint magnitude,
// floored at 1 so that brackets near zero still terminate.
func relDiff(lo, hi float64) float64 {
	scale := math.Max(math.Max(math.Abs(lo), math.Abs(hi)), 1)
	return math.Abs(hi-lo) / scale
}
