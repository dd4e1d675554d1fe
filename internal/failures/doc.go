// Package failures defines the error taxonomy shared by the planner, executor
// and CLI.
//
// Errors are tagged with one of the exported sentinel markers via Wrap so
// callers can classify them with errors.Is: fatal errors abort a run before
// any action is planned, file errors are aggregated per file and never halt
// the batch, and naming collisions are warnings that have already been
// resolved.
package failures
