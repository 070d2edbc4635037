package domain

import (
	"fmt"
	"time"
)

// SnapshotRecord is a Skill carrying its positional id within one snapshot.
// The id is 0-based and only stable inside the snapshot that assigned it.
type SnapshotRecord struct {
	ID int `json:"id"`
	Skill
}

// NewSnapshotRecords assigns positional ids to skills in the given order.
func NewSnapshotRecords(skills []Skill) []SnapshotRecord {
	records := make([]SnapshotRecord, len(skills))
	for i, s := range skills {
		records[i] = SnapshotRecord{ID: i, Skill: s.Clone()}
	}
	return records
}

// PublishedSnapshot is a built snapshot ready to be served or uploaded.
type PublishedSnapshot struct {
	// Version is a unique identifier for this build.
	Version string

	// BuiltAt is when the snapshot was built.
	BuiltAt time.Time

	// Records are the ordered snapshot records.
	Records []SnapshotRecord

	// Body is the JSON array served to clients.
	Body []byte

	// ETag is a strong validator derived from Body.
	ETag string
}

// Len returns the number of records.
func (p *PublishedSnapshot) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Records)
}

// Stale reports whether the snapshot is older than maxAge at now.
func (p *PublishedSnapshot) Stale(now time.Time, maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return now.Sub(p.BuiltAt) >= maxAge
}

// ImportReport summarises a catalog import.
type ImportReport struct {
	// Added counts skills that were not in the catalog before.
	Added int

	// Updated counts skills that replaced an existing entry.
	Updated int

	// Skipped counts malformed or duplicate entries.
	Skipped int
}

// Total returns the number of skills written.
func (r ImportReport) Total() int {
	return r.Added + r.Updated
}

// SnapshotCacheControl is the Cache-Control value for published snapshots.
var SnapshotCacheControl = fmt.Sprintf("public, max-age=%d", int(SnapshotMaxAge.Seconds()))
