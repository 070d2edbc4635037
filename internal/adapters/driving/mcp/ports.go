package mcp

import "github.com/custodia-labs/skilldex/internal/core/ports/driving"

// Ports are the services the MCP server reads from.
type Ports struct {
	// Search answers search_skills. Required.
	Search driving.SearchService

	// Snapshots backs the snapshot resource and skill lookups when Catalog
	// is nil.
	Snapshots driving.SnapshotService

	// Catalog resolves single skills.
	Catalog driving.CatalogService
}

// Validate reports a missing required port.
func (p *Ports) Validate() error {
	if p == nil || p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
