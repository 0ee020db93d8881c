package solve

import "fmt"

// NotConvergedError reports that a search strategy exhausted its iteration
// budget (or found no acceptable point) before reaching tolerance. It is
// fatal to the enclosing solver call and carries the search domain for
// diagnostics; it is never retried automatically.
type NotConvergedError struct {
	Boundary   Boundary
	Tolerance  float64
	Iterations int
	Reason     string
}

func (e *NotConvergedError) Error() string {
	msg := fmt.Sprintf("search did not converge within %d iterations over %s (tolerance %g)",
		e.Iterations, e.Boundary, e.Tolerance)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
