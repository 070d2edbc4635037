package driving

import (
	"context"

	"github.com/custodia-labs/skilldex/internal/core/domain"
)

// CatalogService manages the skills that feed the snapshot.
type CatalogService interface {
	// Import validates and upserts skills.
	Import(ctx context.Context, skills []domain.Skill) (domain.ImportReport, error)

	// ImportRepository discovers and upserts the skills of a repository,
	// preserving install counts of skills already in the catalog.
	ImportRepository(ctx context.Context, repo string) (domain.ImportReport, error)

	// RecordInstall increments a skill's install count.
	RecordInstall(ctx context.Context, key domain.SkillKey) error

	// Remove deletes a skill.
	Remove(ctx context.Context, key domain.SkillKey) error

	// Get returns a single skill.
	Get(ctx context.Context, key domain.SkillKey) (*domain.Skill, error)

	// List returns all skills ordered by key.
	List(ctx context.Context) ([]domain.Skill, error)

	// Count returns the number of skills.
	Count(ctx context.Context) (int, error)
}
