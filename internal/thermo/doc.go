// Package thermo defines the boundary to the thermodynamic property engine.
//
// The process solvers consume this package through two narrow calls,
// FlashPT and FlashPH, and never compute fluid properties themselves. The
// package ships a reference engine (constant-composition, ideal heat
// capacity with a mild compressibility correlation) so runs and tests work
// without an external property server, and a sqlite-backed FlashCache that
// wraps any Engine.
//
// UNITS:
//   - pressure: bara
//   - temperature: K
//   - density: kg/m3
//   - specific enthalpy: J/kg, reference state is the engine's own; callers
//     only difference enthalpies obtained from the same engine
//   - molar mass: kg/mol
//
// Streams are immutable value objects; every flash produces a new one.
package thermo
