package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/skilldex/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for skilldex resources.
	uriScheme = "skilldex://"

	snapshotURI  = uriScheme + "snapshot"
	skillsPrefix = uriScheme + "skills/"

	mimeJSON = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         snapshotURI,
		Name:        "snapshot",
		Description: "The current skills snapshot as a JSON array",
		MIMEType:    mimeJSON,
	}, s.handleSnapshotResource)

	// The source segment is percent-encoded since it contains a slash.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: skillsPrefix + "{source}/{skillId}",
		Name:        "skill",
		Description: "A single skill by source and skill ID",
		MIMEType:    mimeJSON,
	}, s.handleSkillResource)
}

// handleSnapshotResource returns the snapshot body.
func (s *Server) handleSnapshotResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Snapshots == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	snap, err := s.ports.Snapshots.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return jsonResult(req.Params.URI, string(snap.Body)), nil
}

// handleSkillResource returns a single skill.
func (s *Server) handleSkillResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	key, ok := parseSkillURI(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	skill, err := s.lookup(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(toSkillOutput(*skill), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling skill: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// lookup finds a skill in the catalog, or in the snapshot when no catalog
// is wired.
func (s *Server) lookup(ctx context.Context, key domain.SkillKey) (*domain.Skill, error) {
	if s.ports.Catalog != nil {
		skill, err := s.ports.Catalog.Get(ctx, key)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("getting skill: %w", err)
		}
		return skill, err
	}

	if s.ports.Snapshots == nil {
		return nil, domain.ErrNotFound
	}
	snap, err := s.ports.Snapshots.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	for i := range snap.Records {
		if snap.Records[i].Key() == key {
			skill := snap.Records[i].Skill.Clone()
			return &skill, nil
		}
	}
	return nil, domain.ErrNotFound
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     text,
		}},
	}
}

// skillURI builds skilldex://skills/{source}/{skillId}.
func skillURI(key domain.SkillKey) string {
	return skillsPrefix + url.PathEscape(key.Source) + "/" + url.PathEscape(key.SkillID)
}

// parseSkillURI extracts the key from a skill URI. The skill ID is the last
// segment; everything before it is the source, escaped or not.
func parseSkillURI(uri string) (domain.SkillKey, bool) {
	rest, ok := strings.CutPrefix(uri, skillsPrefix)
	if !ok {
		return domain.SkillKey{}, false
	}

	i := strings.LastIndex(rest, "/")
	if i <= 0 || i == len(rest)-1 {
		return domain.SkillKey{}, false
	}

	source, err := url.PathUnescape(rest[:i])
	if err != nil {
		return domain.SkillKey{}, false
	}
	skillID, err := url.PathUnescape(rest[i+1:])
	if err != nil {
		return domain.SkillKey{}, false
	}
	return domain.SkillKey{Source: source, SkillID: skillID}, true
}
