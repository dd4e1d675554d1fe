// Package logging assembles structured slog loggers and formatting helpers used
// across yee.
//
// It owns the console/JSON handlers, centralizes level and output plumbing
// (including the extra trace tier used for per-file classification detail), and
// exposes context-aware helpers so planner and executor code can tag log lines
// with the run ID and stage automatically. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
