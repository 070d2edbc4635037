// Package mcp provides an MCP (Model Context Protocol) server adapter for skilldex.
// It lets AI assistants search the skills catalog and read individual skills.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
