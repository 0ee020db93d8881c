package compressor

// CapacityOutcome signals whether an operating point lies inside a chart's
// envelope. It is consumed by the solvers to pick their next search phase;
// it is not an error and must not propagate past this package.
type CapacityOutcome int

const (
	// Feasible means the rate lies inside the chart envelope.
	Feasible CapacityOutcome = iota
	// RateTooLow means the rate is below minimum stable flow; recirculation
	// is required to operate.
	RateTooLow
	// RateTooHigh means the rate exceeds the chart capacity at the current
	// speed.
	RateTooHigh
)

func (o CapacityOutcome) String() string {
	switch o {
	case Feasible:
		return "feasible"
	case RateTooLow:
		return "rate too low"
	case RateTooHigh:
		return "rate too high"
	default:
		return "unknown"
	}
}
