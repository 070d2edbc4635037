package inverted

import (
	"encoding/json"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/custodia-labs/skilldex/internal/adapters/driven/index/recordset"
	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/logger"
)

// Ensure Builder implements the interface.
var _ driven.IndexBuilder = (*Builder)(nil)

// Builder builds native inverted indexes.
type Builder struct{}

// NewBuilder creates a native index builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Kind returns domain.EngineInverted.
func (b *Builder) Kind() domain.EngineKind {
	return domain.EngineInverted
}

// Build tokenizes the name of every accepted record.
func (b *Builder) Build(records []domain.SnapshotRecord) (driven.SearchIndex, error) {
	docs := recordset.Sanitize(records)
	postings := make(map[string]*roaring.Bitmap)

	for id, doc := range docs {
		for _, tok := range uniqueTokens(doc.Name) {
			bm, ok := postings[tok]
			if !ok {
				bm = roaring.New()
				postings[tok] = bm
			}
			bm.Add(uint32(id))
		}
	}

	logger.Debug("inverted: indexed %d of %d records, %d terms", len(docs), len(records), len(postings))
	return newIndex(docs, postings), nil
}

// Load restores an encoded index, or builds one from a raw snapshot array.
func (b *Builder) Load(data []byte) (driven.SearchIndex, error) {
	switch recordset.Detect(data) {
	case recordset.ShapeArray:
		records, err := recordset.Decode(data)
		if err != nil {
			return nil, err
		}
		return b.Build(records)
	case recordset.ShapeObject:
		return b.restore(data)
	default:
		return nil, fmt.Errorf("%w: expected a JSON array or object", domain.ErrInvalidSnapshot)
	}
}

func (b *Builder) restore(data []byte) (driven.SearchIndex, error) {
	var enc encodedIndex
	if err := json.Unmarshal(data, &enc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
	}

	// Documents produced by another engine carry no terms; rebuild them.
	if enc.Engine != string(domain.EngineInverted) {
		records, err := recordset.Decode(data)
		if err != nil {
			return nil, err
		}
		return b.Build(records)
	}
	if enc.Version != encodingVersion {
		return nil, fmt.Errorf("%w: unsupported index version %d", domain.ErrInvalidSnapshot, enc.Version)
	}
	if enc.Documents == nil {
		return nil, fmt.Errorf("%w: index document has no documents", domain.ErrInvalidSnapshot)
	}

	// Term ids are positions, so they only hold if every document is kept.
	docs := recordset.Sanitize(enc.Documents)
	if len(docs) != len(enc.Documents) {
		logger.Warn("inverted: %d of %d encoded records rejected, re-indexing",
			len(enc.Documents)-len(docs), len(enc.Documents))
		return b.Build(docs)
	}

	postings := make(map[string]*roaring.Bitmap, len(enc.Terms))
	for tok, ids := range enc.Terms {
		for _, id := range ids {
			if int(id) >= len(docs) {
				return nil, fmt.Errorf("%w: term %q references document %d of %d",
					domain.ErrInvalidSnapshot, tok, id, len(docs))
			}
		}
		postings[tok] = roaring.BitmapOf(ids...)
	}

	logger.Debug("inverted: restored %d records, %d terms", len(docs), len(postings))
	return newIndex(docs, postings), nil
}
