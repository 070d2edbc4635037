package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedEngine indicates an unknown search engine kind.
	ErrUnsupportedEngine = errors.New("unsupported search engine")

	// ErrUnsupportedTarget indicates an unknown publish target or store backend.
	ErrUnsupportedTarget = errors.New("unsupported target")

	// ErrConfigNotFound indicates a required configuration key is unset.
	ErrConfigNotFound = errors.New("configuration not found")

	// Snapshot and index errors.

	// ErrSnapshotFetch indicates the snapshot could not be fetched or parsed.
	// Callers recover by retrying on the next interaction.
	ErrSnapshotFetch = errors.New("snapshot fetch failed")

	// ErrInvalidSnapshot indicates a snapshot or index document that cannot be decoded at all.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrMalformedRecord indicates a snapshot record missing required stored fields.
	// Malformed records are skipped, never fatal to a build.
	ErrMalformedRecord = errors.New("malformed snapshot record")

	// ErrIndexUnavailable is the user-facing form of a failed index load.
	ErrIndexUnavailable = errors.New("search index unavailable")

	// Publishing errors.

	// ErrPublishLocked indicates another publish holds the target lock.
	ErrPublishLocked = errors.New("publish already in progress")

	// ErrRateLimited indicates an API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
