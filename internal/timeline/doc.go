// Package timeline models the temporal dimension of an evaluation run.
//
// A Period is a half-open time interval [Start, End). A TemporalModel maps
// non-overlapping, ascending Periods to configuration values, so that every
// instant inside the evaluation horizon resolves to exactly one active
// configuration.
//
// DETERMINISM:
// Iteration order over a TemporalModel is always ascending by period start.
// Models are built once at load time and are read-only afterwards; subsetting
// a time vector to a period returns index bounds into parallel arrays rather
// than copying data.
package timeline
