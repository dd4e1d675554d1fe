// Package registry remembers the first file seen for every fingerprint in a run.
//
// Classification is a single check-and-insert under a mutex, so callers that
// fingerprint concurrently still get exactly one Original per fingerprint.
// Entries are kept in order of first sight and live only as long as the
// Registry value; nothing is persisted.
package registry
