// Package results persists evaluation runs and renders reports.
//
// Runs are stored in a SQLite database, one row per run plus one row per
// consumer-timestep usage value, so past runs can be listed and re-rendered
// without re-evaluating the model. Reports are flat views over a run:
// CSV for spreadsheet work, JSON for downstream tooling.
package results
