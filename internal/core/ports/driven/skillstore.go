package driven

import (
	"context"

	"github.com/custodia-labs/skilldex/internal/core/domain"
)

// SkillStore persists the catalog of skills.
type SkillStore interface {
	// Save creates or replaces a skill by key.
	Save(ctx context.Context, skill domain.Skill) error

	// SaveBatch saves skills in a single transaction where supported.
	SaveBatch(ctx context.Context, skills []domain.Skill) error

	// Get retrieves a skill by key.
	// Returns domain.ErrNotFound if the skill does not exist.
	Get(ctx context.Context, key domain.SkillKey) (*domain.Skill, error)

	// List returns every skill ordered by source then skill ID.
	List(ctx context.Context) ([]domain.Skill, error)

	// Delete removes a skill. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, key domain.SkillKey) error

	// Count returns the number of skills.
	Count(ctx context.Context) (int, error)

	// AddInstalls adds delta to a skill's install count.
	// Returns domain.ErrNotFound if the skill does not exist.
	AddInstalls(ctx context.Context, key domain.SkillKey, delta int64) error
}

// ChangeNotifier reports out-of-band changes to a SkillStore.
type ChangeNotifier interface {
	// Watch calls onChange after each change until ctx is cancelled.
	Watch(ctx context.Context, onChange func()) error
}
