package driven

import (
	"context"

	"github.com/custodia-labs/skilldex/internal/core/domain"
)

// SkillDiscoverer finds skills published in a remote repository.
type SkillDiscoverer interface {
	// Discover returns every skill found in repo ("owner/name").
	// Discovered skills carry zero installs.
	Discover(ctx context.Context, repo string) ([]domain.Skill, error)
}
