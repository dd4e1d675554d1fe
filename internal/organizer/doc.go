// Package organizer runs one end-to-end pass over a source tree.
//
// A run scans the source, builds a plan, writes a sidecar beside every
// original, applies the moves and journals the outcome. Dry runs stop after
// reporting what would move: no sidecars, no directories, no journal rows.
// Every run carries a UUID that is attached to log context, sidecars and the
// journal so the three can be correlated.
package organizer
