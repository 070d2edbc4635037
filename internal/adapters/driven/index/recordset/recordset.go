// Package recordset decodes snapshot payloads into records and applies the
// acceptance rules shared by every index engine: malformed records and
// repeated (source, skillId) pairs are skipped and logged.
package recordset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/logger"
)

// Shape is the top-level JSON form of a payload.
type Shape int

// Payload shapes.
const (
	ShapeUnknown Shape = iota
	ShapeArray
	ShapeObject
)

// Detect reports the JSON shape of data by its first non-space byte.
func Detect(data []byte) Shape {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return ShapeUnknown
	}
	switch trimmed[0] {
	case '[':
		return ShapeArray
	case '{':
		return ShapeObject
	default:
		return ShapeUnknown
	}
}

// wireRecord tolerates missing fields so that one bad record does not fail
// the whole payload.
type wireRecord struct {
	ID           *int     `json:"id"`
	Source       *string  `json:"source"`
	SkillID      *string  `json:"skillId"`
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Installs     *int64   `json:"installs"`
	Technologies []string `json:"technologies"`
}

func (w wireRecord) record(pos int) domain.SnapshotRecord {
	r := domain.SnapshotRecord{ID: pos}
	if w.ID != nil {
		r.ID = *w.ID
	}
	if w.Source != nil {
		r.Source = *w.Source
	}
	if w.SkillID != nil {
		r.SkillID = *w.SkillID
	}
	if w.Name != nil {
		r.Name = *w.Name
	}
	if w.Description != nil {
		r.Description = *w.Description
	}
	if w.Installs != nil {
		r.Installs = *w.Installs
	}
	r.Technologies = w.Technologies
	return r
}

// envelope is the part of an encoded index document every engine understands.
type envelope struct {
	Documents *[]json.RawMessage `json:"documents"`
}

// Decode extracts records from a snapshot array or from the documents of an
// encoded index. Elements that cannot be decoded are skipped and logged.
// Returns domain.ErrInvalidSnapshot if data is not a recognised payload,
// including an object without a documents array.
func Decode(data []byte) ([]domain.SnapshotRecord, error) {
	var elems []json.RawMessage
	switch Detect(data) {
	case ShapeArray:
		if err := json.Unmarshal(data, &elems); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
		}
	case ShapeObject:
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
		}
		if env.Documents == nil {
			return nil, fmt.Errorf("%w: index document has no documents", domain.ErrInvalidSnapshot)
		}
		elems = *env.Documents
	default:
		return nil, fmt.Errorf("%w: expected a JSON array or object", domain.ErrInvalidSnapshot)
	}

	records := make([]domain.SnapshotRecord, 0, len(elems))
	for i, raw := range elems {
		var w wireRecord
		if err := json.Unmarshal(raw, &w); err != nil {
			logger.Warn("skipping snapshot element %d: %v", i, err)
			continue
		}
		records = append(records, w.record(i))
	}
	return records, nil
}

// Sanitize drops malformed records and later duplicates of an accepted
// (source, skillId), preserving order. Accepted records are deep copies.
func Sanitize(records []domain.SnapshotRecord) []domain.SnapshotRecord {
	seen := make(map[domain.SkillKey]struct{}, len(records))
	out := make([]domain.SnapshotRecord, 0, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			logger.Warn("skipping snapshot record %d: %v", r.ID, err)
			continue
		}
		key := r.Key()
		if _, dup := seen[key]; dup {
			logger.Warn("skipping snapshot record %d: duplicate %s", r.ID, key)
			continue
		}
		seen[key] = struct{}{}
		r.Skill = r.Skill.Clone()
		out = append(out, r)
	}
	return out
}

// Less orders records for results with equal scores: more installs first,
// then snapshot position.
func Less(a, b domain.SnapshotRecord) bool {
	if a.Installs != b.Installs {
		return a.Installs > b.Installs
	}
	return a.ID < b.ID
}
