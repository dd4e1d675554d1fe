// Package main hosts the yee CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration (defaults, then the TOML
// file, then flags), builds the structured logger and hands off to the
// organizer. Rendering lives here; planning and moving live in internal/.
package main
