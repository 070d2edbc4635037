package inverted

import (
	"encoding/json"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/custodia-labs/skilldex/internal/adapters/driven/index/recordset"
	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.SearchIndex = (*Index)(nil)

// Match weights. An exact token always outweighs a prefix or fuzzy match of
// the same query term.
const (
	exactWeight  = 1.0
	prefixWeight = 0.375
	fuzzyWeight  = 0.45
)

// Index is an immutable inverted index over skill names.
type Index struct {
	docs     []domain.SnapshotRecord
	vocab    []string
	postings map[string]*roaring.Bitmap
}

func newIndex(docs []domain.SnapshotRecord, postings map[string]*roaring.Bitmap) *Index {
	vocab := make([]string, 0, len(postings))
	for tok := range postings {
		vocab = append(vocab, tok)
	}
	sort.Strings(vocab)
	for _, bm := range postings {
		bm.RunOptimize()
	}
	return &Index{docs: docs, vocab: vocab, postings: postings}
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	return len(ix.docs)
}

// Search returns results ranked by score, then installs, then snapshot
// position, capped at domain.MaxResults.
func (ix *Index) Search(query string) []domain.QueryResult {
	terms := uniqueTokens(query)
	if len(terms) == 0 || len(ix.docs) == 0 {
		return []domain.QueryResult{}
	}

	scores := make(map[uint32]float64)
	for _, term := range terms {
		best := make(map[uint32]float64)
		for tok, w := range ix.matchTerm(term) {
			it := ix.postings[tok].Iterator()
			for it.HasNext() {
				id := it.Next()
				if w > best[id] {
					best[id] = w
				}
			}
		}
		for id, w := range best {
			scores[id] += w
		}
	}

	type hit struct {
		id    uint32
		score float64
	}
	hits := make([]hit, 0, len(scores))
	for id, s := range scores {
		hits = append(hits, hit{id: id, score: s})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return recordset.Less(ix.docs[hits[i].id], ix.docs[hits[j].id])
	})
	if len(hits) > domain.MaxResults {
		hits = hits[:domain.MaxResults]
	}

	results := make([]domain.QueryResult, len(hits))
	for i, h := range hits {
		results[i] = domain.QueryResult{
			Skill: ix.docs[h.id].Skill.Clone(),
			Score: h.score,
		}
	}
	return results
}

// matchTerm returns every vocabulary token matched by term with its best
// weight.
func (ix *Index) matchTerm(term string) map[string]float64 {
	weights := make(map[string]float64)
	termLen := utf8.RuneCountInString(term)

	start := sort.SearchStrings(ix.vocab, term)
	for i := start; i < len(ix.vocab) && strings.HasPrefix(ix.vocab[i], term); i++ {
		tok := ix.vocab[i]
		if tok == term {
			weights[tok] = exactWeight
			continue
		}
		weights[tok] = prefixWeight * float64(termLen) / float64(utf8.RuneCountInString(tok))
	}

	maxEdits := domain.FuzzyEdits(term)
	if maxEdits == 0 {
		return weights
	}
	termRunes := []rune(term)
	for _, tok := range ix.vocab {
		if tok == term {
			continue
		}
		d := boundedDistance(termRunes, []rune(tok), maxEdits)
		if d > maxEdits {
			continue
		}
		if w := fuzzyWeight / float64(1+d); w > weights[tok] {
			weights[tok] = w
		}
	}
	return weights
}

// encodedIndex is the serialized form of an Index.
type encodedIndex struct {
	Version      int                     `json:"version"`
	Engine       string                  `json:"engine"`
	Fields       []string                `json:"fields"`
	StoredFields []string                `json:"storedFields"`
	Documents    []domain.SnapshotRecord `json:"documents"`
	Terms        map[string][]uint32     `json:"terms"`
}

const encodingVersion = 1

var (
	indexedFields = []string{"name"}
	storedFields  = []string{"source", "skillId", "name", "description", "installs", "technologies"}
)

// Encode serializes the index. Load restores it without re-tokenizing.
func (ix *Index) Encode() ([]byte, error) {
	terms := make(map[string][]uint32, len(ix.postings))
	for tok, bm := range ix.postings {
		terms[tok] = bm.ToArray()
	}
	return json.Marshal(encodedIndex{
		Version:      encodingVersion,
		Engine:       string(domain.EngineInverted),
		Fields:       indexedFields,
		StoredFields: storedFields,
		Documents:    ix.docs,
		Terms:        terms,
	})
}

// Close is a no-op; the index holds only heap memory.
func (ix *Index) Close() error {
	return nil
}
