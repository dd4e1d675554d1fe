// Package preflight verifies filesystem readiness before a run.
//
// RunAll reports every check so the CLI can render them; Check collapses
// the failures into a single fatal error for the organizer. A run never
// starts planning when the source cannot be read or the destination and
// duplicates roots cannot be created.
package preflight
