// Package cli implements the enflow command line interface.
//
// Commands are thin: they parse flags, wire the configuration loader, the
// evaluation engine and the run store together, and format output. All
// domain behavior lives in the packages they call. Errors carry exit codes
// through ExitError; output honors the global --format flag.
package cli
