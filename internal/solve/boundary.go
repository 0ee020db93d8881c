package solve

import "fmt"

// Boundary is the closed numeric search domain [Min, Max].
type Boundary struct {
	Min float64
	Max float64
}

// NewBoundary validates min <= max.
func NewBoundary(min, max float64) (Boundary, error) {
	if min > max {
		return Boundary{}, fmt.Errorf("boundary min %g exceeds max %g", min, max)
	}
	return Boundary{Min: min, Max: max}, nil
}

// Width returns Max - Min.
func (b Boundary) Width() float64 { return b.Max - b.Min }

// Contains reports whether x lies inside the closed interval.
func (b Boundary) Contains(x float64) bool { return x >= b.Min && x <= b.Max }

// Clamp limits x to the boundary.
func (b Boundary) Clamp(x float64) float64 {
	if x < b.Min {
		return b.Min
	}
	if x > b.Max {
		return b.Max
	}
	return x
}

func (b Boundary) String() string {
	return fmt.Sprintf("[%g, %g]", b.Min, b.Max)
}
