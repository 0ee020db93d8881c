package compressor

import "fmt"

// CurvePoint is one measured point on a speed line.
type CurvePoint struct {
	Rate       float64 // actual volumetric rate, Am3/h
	Head       float64 // polytropic head, J/kg
	Efficiency float64 // polytropic efficiency, fraction (0, 1]
}

// SpeedCurve is the chart line for one shaft speed, points ordered by
// ascending rate.
type SpeedCurve struct {
	Speed  float64 // rpm
	Points []CurvePoint
}

// MinRate returns the lowest (minimum stable flow) rate on the curve.
func (c SpeedCurve) MinRate() float64 { return c.Points[0].Rate }

// MaxRate returns the highest rate on the curve.
func (c SpeedCurve) MaxRate() float64 { return c.Points[len(c.Points)-1].Rate }

// At evaluates head and efficiency at rate by linear interpolation between
// neighbouring points. Rates outside the curve range yield the matching
// capacity outcome with zero head and efficiency.
func (c SpeedCurve) At(rate float64) (head, efficiency float64, outcome CapacityOutcome) {
	if rate < c.MinRate() {
		return 0, 0, RateTooLow
	}
	if rate > c.MaxRate() {
		return 0, 0, RateTooHigh
	}
	for i := 0; i+1 < len(c.Points); i++ {
		p0, p1 := c.Points[i], c.Points[i+1]
		if rate > p1.Rate {
			continue
		}
		f := 0.0
		if p1.Rate > p0.Rate {
			f = (rate - p0.Rate) / (p1.Rate - p0.Rate)
		}
		return lerp(p0.Head, p1.Head, f), lerp(p0.Efficiency, p1.Efficiency, f), Feasible
	}
	// rate == MaxRate
	last := c.Points[len(c.Points)-1]
	return last.Head, last.Efficiency, Feasible
}

// Chart is a compressor performance map: one or more speed curves ordered
// by ascending speed. Charts are validated by the configuration layer
// before they reach the solvers; NewChart re-checks the structural
// invariants because everything downstream depends on them.
type Chart struct {
	curves []SpeedCurve
}

// NewChart validates and builds a chart: at least one curve, two or more
// points per curve, strictly ascending rates within a curve and strictly
// ascending speeds across curves.
func NewChart(curves []SpeedCurve) (Chart, error) {
	if len(curves) == 0 {
		return Chart{}, fmt.Errorf("chart requires at least one speed curve")
	}
	for i, c := range curves {
		if len(c.Points) < 2 {
			return Chart{}, fmt.Errorf("speed curve %g rpm has %d points, want at least 2", c.Speed, len(c.Points))
		}
		for j := 0; j+1 < len(c.Points); j++ {
			if c.Points[j+1].Rate <= c.Points[j].Rate {
				return Chart{}, fmt.Errorf("speed curve %g rpm: rates not strictly ascending at point %d", c.Speed, j+1)
			}
		}
		if i > 0 && curves[i].Speed <= curves[i-1].Speed {
			return Chart{}, fmt.Errorf("chart speeds not strictly ascending at curve %d", i)
		}
	}
	return Chart{curves: append([]SpeedCurve(nil), curves...)}, nil
}

// Curves returns the speed curves in ascending speed order. The slice is
// shared; callers must not modify it.
func (ch Chart) Curves() []SpeedCurve { return ch.curves }

// MinSpeed returns the lowest charted speed.
func (ch Chart) MinSpeed() float64 { return ch.curves[0].Speed }

// MaxSpeed returns the highest charted speed.
func (ch Chart) MaxSpeed() float64 { return ch.curves[len(ch.curves)-1].Speed }

// At evaluates head and efficiency at (speed, rate). Speeds are clamped to
// the charted range (the solvers keep speed inside it; only float overshoot
// from root finding lands outside). Between speed lines the envelope bounds
// and the curve values interpolate linearly in speed.
func (ch Chart) At(speed, rate float64) (head, efficiency float64, outcome CapacityOutcome) {
	if speed <= ch.MinSpeed() {
		return ch.curves[0].At(rate)
	}
	if speed >= ch.MaxSpeed() {
		return ch.curves[len(ch.curves)-1].At(rate)
	}

	hi := 1
	for ch.curves[hi].Speed < speed {
		hi++
	}
	c0, c1 := ch.curves[hi-1], ch.curves[hi]
	f := (speed - c0.Speed) / (c1.Speed - c0.Speed)

	minRate := lerp(c0.MinRate(), c1.MinRate(), f)
	maxRate := lerp(c0.MaxRate(), c1.MaxRate(), f)
	if rate < minRate {
		return 0, 0, RateTooLow
	}
	if rate > maxRate {
		return 0, 0, RateTooHigh
	}

	// Evaluate each neighbouring curve with the rate clamped to its own
	// range, then blend in speed.
	h0, e0, _ := c0.At(clamp(rate, c0.MinRate(), c0.MaxRate()))
	h1, e1, _ := c1.At(clamp(rate, c1.MinRate(), c1.MaxRate()))
	return lerp(h0, h1, f), lerp(e0, e1, f), Feasible
}

// MinFlow returns the envelope minimum rate at speed together with head and
// efficiency at that point. This is the operating point an anti-surge valve
// holds when the process rate falls below minimum stable flow.
func (ch Chart) MinFlow(speed float64) (rate, head, efficiency float64) {
	var c0, c1 SpeedCurve
	var f float64
	switch {
	case speed <= ch.MinSpeed():
		c0, c1, f = ch.curves[0], ch.curves[0], 0
	case speed >= ch.MaxSpeed():
		last := ch.curves[len(ch.curves)-1]
		c0, c1, f = last, last, 0
	default:
		hi := 1
		for ch.curves[hi].Speed < speed {
			hi++
		}
		c0, c1 = ch.curves[hi-1], ch.curves[hi]
		f = (speed - c0.Speed) / (c1.Speed - c0.Speed)
	}
	rate = lerp(c0.MinRate(), c1.MinRate(), f)
	h0, e0, _ := c0.At(c0.MinRate())
	h1, e1, _ := c1.At(c1.MinRate())
	return rate, lerp(h0, h1, f), lerp(e0, e1, f)
}

func lerp(a, b, f float64) float64 { return a + (b-a)*f }

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
