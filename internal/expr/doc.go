// Package expr implements the expression language used to drive process
// inputs (rates, pressures, temperatures) from named time-series variables.
//
// An expression is an infix ASCII string. Arithmetic operators are written
// in braces ({+} {-} {*} {/} {^}) so that bare +-*/ stay available inside
// namespaced identifiers such as SIM1;GAS_PROD. Comparison operators
// (== != < > <= >=) are written bare and bind loosest. Numeric literals
// match [0-9.]+ and # starts a comment running to end of line.
//
// Evaluation is vectorized: every variable is an equal-length []float64 and
// the result has the requested fill length. Two execution strategies exist,
// precedence-tier reduction directly on the token slice (Evaluate) and a
// shunting-yard binary tree (Compile + Node.Eval). Both share one operator
// table, so precedence and associativity cannot drift apart.
//
// Evaluation is pure: no state is read or written outside the arguments.
package expr
