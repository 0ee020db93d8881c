// Package solve provides the reusable numerical search primitives the
// operating-point solvers are built from: bisection against a boolean
// indicator (BinarySearch) and bracketed root finding with Brent's method
// (BrentRoot).
//
// Both strategies are pure with respect to their callback: they own no
// state and mutate nothing outside the supplied function. Loops are bounded
// by an explicit iteration budget and terminate with either a converged
// value or a typed NotConvergedError carrying the boundary, tolerance and
// iteration count.
package solve
