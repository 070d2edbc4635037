package mcp

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/skilldex/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		mockSearch := &mockSearchService{
			results: []domain.QueryResult{{Skill: hooksSkill(), Score: 2.5}},
		}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "react hooks", Limit: 5})

		require.NoError(t, err)
		assert.Equal(t, "react hooks", mockSearch.lastQuery)
		assert.Equal(t, 5, mockSearch.lastOpts.Limit)
		require.Equal(t, 1, output.Count)
		assert.Equal(t, SkillOutput{
			Source:       "acme/skills",
			SkillID:      "react-hooks",
			Name:         "React Hooks Guide",
			Description:  "Custom hooks",
			Installs:     100,
			Technologies: []string{"react"},
			URI:          "skilldex://skills/acme%2Fskills/react-hooks",
		}, output.Results[0])
	})

	t.Run("default limit", func(t *testing.T) {
		results := make([]domain.QueryResult, 20)
		for i := range results {
			results[i] = domain.QueryResult{Skill: domain.Skill{Source: "s", SkillID: fmt.Sprint(i), Name: "n"}}
		}
		mockSearch := &mockSearchService{results: results}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "n"})

		require.NoError(t, err)
		assert.Equal(t, DefaultLimit, mockSearch.lastOpts.Limit)
		assert.Equal(t, DefaultLimit, output.Count)
		assert.Equal(t, []string{}, output.Results[0].Technologies)
	})

	t.Run("blank query has no results", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "  "})

		require.NoError(t, err)
		assert.Zero(t, output.Count)
		assert.NotNil(t, output.Results)
	})

	t.Run("returns error on index failure", func(t *testing.T) {
		mockSearch := &mockSearchService{err: fmt.Errorf("%w: offline", domain.ErrIndexUnavailable)}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "react"})

		assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
	})
}
