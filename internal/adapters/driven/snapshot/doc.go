// Package snapshot provides SnapshotFetcher adapters: an HTTP client for a
// served or statically published snapshot, and a local file reader.
package snapshot
