package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
	"github.com/custodia-labs/skilldex/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService manages the skills behind the snapshot. Every write
// invalidates the cached snapshot.
type CatalogService struct {
	store      driven.SkillStore
	discoverer driven.SkillDiscoverer
	snapshots  driving.SnapshotService
}

// NewCatalogService creates a catalog service.
// The discoverer and snapshots parameters are optional (can be nil).
func NewCatalogService(
	store driven.SkillStore,
	discoverer driven.SkillDiscoverer,
	snapshots driving.SnapshotService,
) *CatalogService {
	return &CatalogService{
		store:      store,
		discoverer: discoverer,
		snapshots:  snapshots,
	}
}

// Import validates and upserts skills. Invalid entries and repeats of a key
// earlier in the same batch are skipped.
func (s *CatalogService) Import(ctx context.Context, skills []domain.Skill) (domain.ImportReport, error) {
	logger.Section("Catalog Import")

	var report domain.ImportReport
	seen := make(map[domain.SkillKey]struct{}, len(skills))
	accepted := make([]domain.Skill, 0, len(skills))

	for _, sk := range skills {
		if err := sk.Validate(); err != nil {
			logger.Warn("import: skipping %s: %v", sk.Key(), err)
			report.Skipped++
			continue
		}
		key := sk.Key()
		if _, dup := seen[key]; dup {
			logger.Warn("import: skipping duplicate %s", key)
			report.Skipped++
			continue
		}
		seen[key] = struct{}{}

		_, err := s.store.Get(ctx, key)
		switch {
		case err == nil:
			report.Updated++
		case errors.Is(err, domain.ErrNotFound):
			report.Added++
		default:
			return report, fmt.Errorf("lookup %s: %w", key, err)
		}
		accepted = append(accepted, sk.Clone())
	}

	if len(accepted) > 0 {
		if err := s.store.SaveBatch(ctx, accepted); err != nil {
			return domain.ImportReport{}, fmt.Errorf("save skills: %w", err)
		}
		s.invalidate()
	}

	logger.Debug("import: added=%d updated=%d skipped=%d", report.Added, report.Updated, report.Skipped)
	return report, nil
}

// ImportRepository discovers the skills published in repo and imports them,
// keeping the install counts already recorded in the catalog.
func (s *CatalogService) ImportRepository(ctx context.Context, repo string) (domain.ImportReport, error) {
	if s.discoverer == nil {
		return domain.ImportReport{}, fmt.Errorf("%w: no repository importer configured", domain.ErrInvalidInput)
	}

	skills, err := s.discoverer.Discover(ctx, repo)
	if err != nil {
		return domain.ImportReport{}, fmt.Errorf("discover %s: %w", repo, err)
	}

	for i := range skills {
		existing, err := s.store.Get(ctx, skills[i].Key())
		if err == nil {
			skills[i].Installs = existing.Installs
		}
	}
	return s.Import(ctx, skills)
}

// RecordInstall increments a skill's install count.
func (s *CatalogService) RecordInstall(ctx context.Context, key domain.SkillKey) error {
	if err := s.store.AddInstalls(ctx, key, 1); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Remove deletes a skill.
func (s *CatalogService) Remove(ctx context.Context, key domain.SkillKey) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Get returns a single skill.
func (s *CatalogService) Get(ctx context.Context, key domain.SkillKey) (*domain.Skill, error) {
	return s.store.Get(ctx, key)
}

// List returns all skills.
func (s *CatalogService) List(ctx context.Context) ([]domain.Skill, error) {
	return s.store.List(ctx)
}

// Count returns the number of skills.
func (s *CatalogService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

func (s *CatalogService) invalidate() {
	if s.snapshots != nil {
		s.snapshots.Invalidate()
	}
}
