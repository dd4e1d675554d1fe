// Package history persists a journal of completed runs in SQLite.
//
// Each run stores its settings and counts plus one row per planned action,
// so `yee history show` can say where a file went long after the sidecar
// beside it was deleted. Dry runs are never journaled.
package history
