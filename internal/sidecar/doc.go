// Package sidecar persists the pre-move attributes of every original file.
//
// Each record is a small YAML document written next to the source file as
// "<name>.yee.yaml". Writes go through a temp file and rename so readers never
// observe a partial document, and a rerun simply overwrites the previous
// sidecar. Load and Discover let external tooling (and yee itself) find and
// parse sidecars after the originals have been moved away.
package sidecar
