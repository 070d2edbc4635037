// Package index selects a search engine implementation by kind.
package index

import (
	"fmt"

	"github.com/custodia-labs/skilldex/internal/adapters/driven/index/bleveindex"
	"github.com/custodia-labs/skilldex/internal/adapters/driven/index/inverted"
	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
)

// NewBuilder returns the index builder for kind. An empty kind selects the
// native inverted index.
func NewBuilder(kind domain.EngineKind) (driven.IndexBuilder, error) {
	switch kind {
	case "", domain.EngineInverted:
		return inverted.NewBuilder(), nil
	case domain.EngineBleve:
		return bleveindex.NewBuilder(), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedEngine, kind)
	}
}
