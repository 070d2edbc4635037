package bleveindex

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/skilldex/internal/adapters/driven/index/inverted"
	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
)

func record(id int, skillID, name string, installs int64) domain.SnapshotRecord {
	return domain.SnapshotRecord{ID: id, Skill: domain.Skill{
		Source:       "a/b",
		SkillID:      skillID,
		Name:         name,
		Installs:     installs,
		Technologies: []string{},
	}}
}

func build(t *testing.T, records ...domain.SnapshotRecord) driven.SearchIndex {
	t.Helper()
	idx, err := NewBuilder().Build(records)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestSearch_ExactPrefixAndFuzzy(t *testing.T) {
	idx := build(t, record(0, "x", "React Hooks Guide", 100))

	for _, q := range []string{"react", "reac", "reqct", "React"} {
		t.Run(q, func(t *testing.T) {
			results := idx.Search(q)
			require.Len(t, results, 1)
			assert.Equal(t, "x", results[0].SkillID)
		})
	}
}

func TestSearch_TiesBrokenByInstalls(t *testing.T) {
	idx := build(t,
		record(0, "basics", "Vue Basics", 10),
		record(1, "advanced", "Vue Advanced", 500),
	)

	results := idx.Search("vue")

	require.Len(t, results, 2)
	assert.Equal(t, "Vue Advanced", results[0].Name)
}

func TestSearch_EmptySnapshot(t *testing.T) {
	idx := build(t)
	assert.Empty(t, idx.Search("react"))
}

func TestSearch_BlankQuery(t *testing.T) {
	idx := build(t, record(0, "x", "React", 1))
	assert.Empty(t, idx.Search(""))
	assert.Empty(t, idx.Search("   "))
}

func TestSearch_ExactOutranksFuzzy(t *testing.T) {
	idx := build(t,
		record(0, "reach", "Reach Out", 10_000),
		record(1, "react", "React Tips", 1),
	)

	results := idx.Search("react")

	require.NotEmpty(t, results)
	assert.Equal(t, "react", results[0].SkillID)
}

func TestSearch_CapLaw(t *testing.T) {
	records := make([]domain.SnapshotRecord, 0, 70)
	for i := 0; i < 70; i++ {
		records = append(records, record(i, fmt.Sprintf("s%d", i), fmt.Sprintf("Skill %d", i), int64(i)))
	}
	idx := build(t, records...)

	assert.Len(t, idx.Search("skill"), domain.MaxResults)
}

func TestSearch_StoredFieldsUnmodified(t *testing.T) {
	original := record(0, "pdf", "PDF Toolkit", 42)
	original.Description = "Extract text"
	original.Technologies = []string{"python"}
	idx := build(t, original)

	results := idx.Search("toolkit")

	require.Len(t, results, 1)
	assert.Equal(t, original.Skill, results[0].Skill)
}

func TestBuild_SkipsDuplicates(t *testing.T) {
	idx := build(t,
		record(0, "x", "Helm Charts", 1),
		record(1, "x", "Helm Duplicate", 2),
	)

	assert.Equal(t, 1, idx.Len())
	assert.Len(t, idx.Search("helm"), 1)
}

func TestEncodeLoad_SameResults(t *testing.T) {
	built := build(t,
		record(0, "x", "React Hooks Guide", 100),
		record(1, "y", "Vue Basics", 10),
		record(2, "z", "Vue Advanced", 500),
	)

	data, err := built.Encode()
	require.NoError(t, err)

	loaded, err := NewBuilder().Load(data)
	require.NoError(t, err)
	t.Cleanup(func() { _ = loaded.Close() })

	for _, q := range []string{"react", "vue", "adv"} {
		assert.Equal(t, built.Search(q), loaded.Search(q), q)
	}
}

func TestLoad_AcceptsNativeIndexDocument(t *testing.T) {
	native, err := inverted.NewBuilder().Build([]domain.SnapshotRecord{record(0, "x", "Kotlin Flows", 3)})
	require.NoError(t, err)
	data, err := native.Encode()
	require.NoError(t, err)

	idx, err := NewBuilder().Load(data)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	assert.Len(t, idx.Search("kotlin"), 1)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"garbage", "nope"},
		{"empty object", `{}`},
		{"error body", `{"error":"upstream unavailable"}`},
		{"null documents", `{"version":1,"engine":"bleve","documents":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder().Load([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidSnapshot))
		})
	}
}

func TestSearch_SplitsOnPunctuation(t *testing.T) {
	idx := build(t,
		record(0, "code", "code_review helper", 3),
		record(1, "panic", "don't panic", 2),
		record(2, "node", "node v1.2 tools", 1),
	)

	tests := []struct {
		query string
		want  []string
	}{
		{"review", []string{"code"}},
		{"2", []string{"node"}},
		{"t", []string{"panic", "node"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got []string
			for _, r := range idx.Search(tt.query) {
				got = append(got, r.SkillID)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestBuilder_Kind(t *testing.T) {
	assert.Equal(t, domain.EngineBleve, NewBuilder().Kind())
}

func TestClose_StopsServing(t *testing.T) {
	idx, err := NewBuilder().Build([]domain.SnapshotRecord{record(0, "x", "Kotlin Flows", 3)})
	require.NoError(t, err)
	require.Len(t, idx.Search("kotlin"), 1)

	require.NoError(t, idx.Close())
	assert.Empty(t, idx.Search("kotlin"))
}
