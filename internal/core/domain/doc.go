// Package domain defines the core business entities for skilldex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Skill: a catalog entry, the unit that is indexed and displayed
//   - SnapshotRecord: a Skill with its positional id inside one snapshot
//   - PublishedSnapshot: a serialized, versioned snapshot ready to serve
//   - QueryResult: a Skill enriched with a match score
//   - SearchView: what the search controller hands to a renderer
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
