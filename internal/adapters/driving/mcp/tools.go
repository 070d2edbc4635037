package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/skilldex/internal/core/domain"
)

// DefaultLimit is the number of results returned when the caller sets none.
const DefaultLimit = 10

// SearchInput is the input schema for the search_skills tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"skill name words to search for; typos are tolerated"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10, max 50)"`
}

// SearchOutput is the output schema for the search_skills tool.
type SearchOutput struct {
	Results []SkillOutput `json:"results"`
	Count   int           `json:"count"`
}

// SkillOutput represents a single matched skill.
type SkillOutput struct {
	Source       string   `json:"source"`
	SkillID      string   `json:"skillId"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Installs     int64    `json:"installs"`
	Technologies []string `json:"technologies"`
	URI          string   `json:"uri"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_skills",
		Description: "Search the skills catalog by name. Results are ranked by relevance, then by installs.",
	}, s.handleSearch)
}

// handleSearch handles the search_skills tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	results, err := s.ports.Search.Search(ctx, input.Query, domain.SearchOptions{Limit: limit})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SkillOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = toSkillOutput(results[i].Skill)
	}

	return nil, output, nil
}

func toSkillOutput(skill domain.Skill) SkillOutput {
	tech := skill.Technologies
	if tech == nil {
		tech = []string{}
	}
	return SkillOutput{
		Source:       skill.Source,
		SkillID:      skill.SkillID,
		Name:         skill.Name,
		Description:  skill.Description,
		Installs:     skill.Installs,
		Technologies: tech,
		URI:          skillURI(skill.Key()),
	}
}
