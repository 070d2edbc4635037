package driven

import "github.com/custodia-labs/skilldex/internal/core/domain"

// SearchIndex is a built, immutable index over skill names.
// Implementations are safe for concurrent Search calls. The holder closes
// an index once it has been replaced.
type SearchIndex interface {
	// Search returns ranked results for query, capped at domain.MaxResults.
	// A blank query returns no results.
	Search(query string) []domain.QueryResult

	// Len returns the number of indexed records.
	Len() int

	// Encode serializes the index into a document accepted by IndexBuilder.Load.
	Encode() ([]byte, error)

	// Close releases engine resources. Search must not be called after Close.
	Close() error
}

// IndexBuilder constructs SearchIndex values.
type IndexBuilder interface {
	// Kind identifies the engine.
	Kind() domain.EngineKind

	// Build indexes records. Malformed or duplicate records are skipped.
	// An empty input yields an index that matches nothing.
	Build(records []domain.SnapshotRecord) (SearchIndex, error)

	// Load reconstructs an index from an encoded index document or a raw
	// snapshot JSON array. Returns domain.ErrInvalidSnapshot when data
	// cannot be decoded at all.
	Load(data []byte) (SearchIndex, error)
}
