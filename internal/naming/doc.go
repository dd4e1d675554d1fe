// Package naming derives destination group keys and file names.
//
// Group and rename styles are closed enums dispatched through a single
// function per family. A Grouper memoizes the key it hands out for each
// source sub-directory so a run never assigns two keys to the same
// directory, and a CollisionResolver guarantees that no two planned files
// share a destination path by appending a numeric suffix before the
// extension.
package naming
