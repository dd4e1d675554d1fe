// Package planner turns scanned files into an ordered list of move actions.
//
// Fingerprints are computed in parallel; everything order-sensitive
// (duplicate classification, incremental group and rename counters, collision
// suffixes) then happens sequentially in scan order, so a fixed input always
// yields the same plan regardless of worker count.
package planner
