package solve

import "math"

// BrentRoot finds a root of a continuous scalar function inside a Boundary
// that brackets a sign change, combining bisection, secant steps and
// inverse quadratic interpolation (Brent's method).
type BrentRoot struct {
	Tolerance     float64 // relative tolerance on the root position
	MaxIterations int
}

var machEps = math.Nextafter(1, 2) - 1

// FindRoot returns x* with f(x*) ~= 0. The boundary must bracket a sign
// change; otherwise, and when the iteration budget runs out, a
// NotConvergedError is returned.
func (s BrentRoot) FindRoot(bound Boundary, f func(float64) float64) (float64, error) {
	a, b := bound.Min, bound.Max
	fa, fb := f(a), f(b)
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if (fa > 0) == (fb > 0) {
		return 0, &NotConvergedError{
			Boundary: bound, Tolerance: s.Tolerance, Iterations: 0,
			Reason: "no sign change across the boundary",
		}
	}

	// b is the current best estimate; the root stays bracketed by b and c.
	c, fc := a, fa
	d := b - a
	e := d

	for i := 0; i < s.MaxIterations; i++ {
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol1 := 2*machEps*math.Abs(b) + 0.5*s.Tolerance*math.Max(math.Abs(b), 1)
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// Inverse quadratic interpolation, degrading to a secant step
			// when a and c coincide.
			st := fb / fa
			var p, q float64
			if a == c {
				p = 2 * xm * st
				q = 1 - st
			} else {
				q = fa / fc
				r := fb / fc
				p = st * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (st - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			min1 := 3*xm*q - math.Abs(tol1*q)
			min2 := math.Abs(e * q)
			if 2*p < math.Min(min1, min2) {
				// Interpolation accepted.
				e = d
				d = p / q
			} else {
				// Interpolation would leave the bracket; bisect.
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
	}

	return 0, &NotConvergedError{Boundary: bound, Tolerance: s.Tolerance, Iterations: s.MaxIterations}
}
