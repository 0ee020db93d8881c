// Package engine evaluates a process model over an evaluation horizon.
//
// For every consumer it walks the consumer's temporal model in ascending
// period order, evaluates the period's input expressions against the shared
// time-series variables (vectorized over the whole horizon), subsets the
// resulting arrays to the period, and computes per-timestep energy usage:
// directly from a fuel expression, or by solving a compressor train's
// operating point timestep by timestep.
//
// The engine is single-threaded and synchronous. Evaluation order is
// deterministic: consumers in declaration order, periods ascending,
// timesteps ascending. A failed operating-point search marks the affected
// timestep invalid and the run continues; only structural model errors
// abort a run.
package engine
