// Package config loads, normalizes, and validates yee configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// planner, executor and CLI need so paths, naming styles and logging options
// are resolved in one pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical style names, and clear validation errors.
package config
