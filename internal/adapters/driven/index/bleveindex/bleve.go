// Package bleveindex implements the search index on an in-memory bleve index.
//
// Names are split into runs of letters and decimal digits, the same word
// boundaries the inverted engine uses, then lowercased.
// Each query term becomes a disjunction of a boosted term query, a prefix
// query and a fuzzy query. Bleve caps fuzziness at two edits.
package bleveindex

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/analysis/token/lowercase"
	"github.com/blevesearch/bleve/analysis/tokenizer/regexp"
	"github.com/blevesearch/bleve/mapping"
	"github.com/blevesearch/bleve/search/query"

	"github.com/custodia-labs/skilldex/internal/adapters/driven/index/recordset"
	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/logger"
)

// Ensure Builder and Index implement the interfaces.
var (
	_ driven.IndexBuilder = (*Builder)(nil)
	_ driven.SearchIndex  = (*Index)(nil)
)

const (
	analyzerName  = "skillname"
	tokenizerName = "skillname_words"

	// Letters and decimal digits; everything else separates tokens.
	wordPattern = `[\p{L}\p{Nd}]+`
	fieldName    = "name"
	fieldInstall = "installs"

	// bleve rejects fuzziness above two.
	maxFuzziness = 2

	exactBoost  = 4.0
	prefixBoost = 1.5
)

// Builder builds bleve-backed indexes.
type Builder struct{}

// NewBuilder creates a bleve index builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Kind returns domain.EngineBleve.
func (b *Builder) Kind() domain.EngineKind {
	return domain.EngineBleve
}

// Index is a built bleve index plus the stored-field side table.
type Index struct {
	bi   bleve.Index
	docs []domain.SnapshotRecord
}

// indexedDoc is what bleve sees; stored fields stay in the side table.
type indexedDoc struct {
	Name     string  `json:"name"`
	Installs float64 `json:"installs"`
}

func newMapping() (*mapping.IndexMappingImpl, error) {
	m := bleve.NewIndexMapping()
	err := m.AddCustomTokenizer(tokenizerName, map[string]interface{}{
		"type":   regexp.Name,
		"regexp": wordPattern,
	})
	if err != nil {
		return nil, fmt.Errorf("register tokenizer: %w", err)
	}
	err = m.AddCustomAnalyzer(analyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     tokenizerName,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("register analyzer: %w", err)
	}

	name := bleve.NewTextFieldMapping()
	name.Analyzer = analyzerName
	name.Store = false
	name.IncludeInAll = false

	installs := bleve.NewNumericFieldMapping()
	installs.Store = false
	installs.DocValues = true
	installs.IncludeInAll = false

	doc := bleve.NewDocumentMapping()
	doc.Dynamic = false
	doc.AddFieldMappingsAt(fieldName, name)
	doc.AddFieldMappingsAt(fieldInstall, installs)

	m.DefaultMapping = doc
	m.DefaultAnalyzer = analyzerName
	return m, nil
}

// docID pads ids so that sorting by _id follows snapshot position.
func docID(i int) string {
	return fmt.Sprintf("%09d", i)
}

// Build indexes the names of every accepted record.
func (b *Builder) Build(records []domain.SnapshotRecord) (driven.SearchIndex, error) {
	docs := recordset.Sanitize(records)

	m, err := newMapping()
	if err != nil {
		return nil, err
	}
	bi, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, fmt.Errorf("create bleve index: %w", err)
	}

	batch := bi.NewBatch()
	for i, d := range docs {
		if err := batch.Index(docID(i), indexedDoc{Name: d.Name, Installs: float64(d.Installs)}); err != nil {
			_ = bi.Close()
			return nil, fmt.Errorf("bleve batch: %w", err)
		}
	}
	if err := bi.Batch(batch); err != nil {
		_ = bi.Close()
		return nil, fmt.Errorf("bleve error while batch indexing: %w", err)
	}

	logger.Debug("bleve: indexed %d of %d records", len(docs), len(records))
	return &Index{bi: bi, docs: docs}, nil
}

// Load builds an index from a snapshot array or from the documents of an
// encoded index.
func (b *Builder) Load(data []byte) (driven.SearchIndex, error) {
	records, err := recordset.Decode(data)
	if err != nil {
		return nil, err
	}
	return b.Build(records)
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	return len(ix.docs)
}

// Search runs the query against the bleve index.
func (ix *Index) Search(q string) []domain.QueryResult {
	if len(ix.docs) == 0 || domain.IsBlankQuery(q) {
		return []domain.QueryResult{}
	}

	bq := ix.buildQuery(q)
	if bq == nil {
		return []domain.QueryResult{}
	}

	req := bleve.NewSearchRequestOptions(bq, domain.MaxResults, 0, false)
	req.SortBy([]string{"-_score", "-" + fieldInstall, "_id"})

	res, err := ix.bi.Search(req)
	if err != nil {
		logger.Warn("bleve: search %q failed: %v", q, err)
		return []domain.QueryResult{}
	}

	results := make([]domain.QueryResult, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, err := strconv.Atoi(h.ID)
		if err != nil || id < 0 || id >= len(ix.docs) {
			continue
		}
		results = append(results, domain.QueryResult{
			Skill: ix.docs[id].Skill.Clone(),
			Score: h.Score,
		})
	}
	return results
}

func (ix *Index) buildQuery(q string) query.Query {
	analyzer := ix.bi.Mapping().AnalyzerNamed(analyzerName)
	if analyzer == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var perTerm []query.Query
	for _, tok := range analyzer.Analyze([]byte(q)) {
		term := string(tok.Term)
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}

		exact := bleve.NewTermQuery(term)
		exact.SetField(fieldName)
		exact.SetBoost(exactBoost)

		prefix := bleve.NewPrefixQuery(term)
		prefix.SetField(fieldName)
		prefix.SetBoost(prefixBoost)

		alternatives := []query.Query{exact, prefix}
		if edits := min(domain.FuzzyEdits(term), maxFuzziness); edits > 0 {
			fuzzy := bleve.NewFuzzyQuery(term)
			fuzzy.SetField(fieldName)
			fuzzy.SetFuzziness(edits)
			alternatives = append(alternatives, fuzzy)
		}
		perTerm = append(perTerm, bleve.NewDisjunctionQuery(alternatives...))
	}

	if len(perTerm) == 0 {
		return nil
	}
	return bleve.NewDisjunctionQuery(perTerm...)
}

// encodedIndex mirrors the documents envelope understood by every engine.
type encodedIndex struct {
	Version   int                     `json:"version"`
	Engine    string                  `json:"engine"`
	Documents []domain.SnapshotRecord `json:"documents"`
}

// Encode writes the accepted records. Bleve segments are not portable, so
// Load re-indexes them.
func (ix *Index) Encode() ([]byte, error) {
	return json.Marshal(encodedIndex{
		Version:   1,
		Engine:    string(domain.EngineBleve),
		Documents: ix.docs,
	})
}

// Close releases the bleve index.
func (ix *Index) Close() error {
	return ix.bi.Close()
}
