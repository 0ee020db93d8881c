// Package compressor models compressor trains and finds their operating
// points.
//
// A Chart holds rate/head/efficiency curves per speed line. A Stage couples
// a chart with inlet conditions; ComputeOutlet iterates the stage's
// thermodynamic outlet state to a fixed point. A Train propagates an inlet
// stream through its stages, and the SpeedSolver / RecircSolver search for
// the shaft speed or anti-surge recirculation rate that meets a target
// discharge pressure.
//
// Capacity infeasibility (rate too low or too high for a chart) is a
// control-flow signal expressed as CapacityOutcome, never an error value,
// and never escapes the solvers in this package.
//
// Everything here is single-threaded and synchronous. The solvers mutate
// operating state only through the train's setters, one evaluation at a
// time; thermodynamic properties come exclusively from the injected
// thermo.Engine.
package compressor
