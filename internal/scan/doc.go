// Package scan walks a source tree and yields the files matching a glob.
//
// Matching is delegated to doublestar: patterns without a slash are matched
// against the base name, patterns with one against the slash-separated path
// relative to the root. Results are sorted by relative path so planning is
// reproducible. Sidecars and any excluded directories (typically the
// destination and duplicates roots when they live inside the source tree)
// are never returned.
package scan
