// Package modelcfg loads process models from YAML files.
//
// Loading is a three step pipeline: decode the YAML, validate the decoded
// document against the embedded CUE schema, and build the domain model.
// Validation happens before building so that schema violations report the
// offending field path instead of surfacing as build failures deep in the
// domain constructors. Temporal configuration keys, expressions and chart
// geometry get their semantic checks during the build step, where the
// domain types can enforce what a structural schema cannot.
package modelcfg
