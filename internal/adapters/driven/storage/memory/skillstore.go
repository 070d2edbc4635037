package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
)

// Ensure SkillStore implements the interface.
var _ driven.SkillStore = (*SkillStore)(nil)

// SkillStore is an in-memory implementation of driven.SkillStore.
type SkillStore struct {
	mu     sync.RWMutex
	skills map[domain.SkillKey]domain.Skill
}

// NewSkillStore creates a new in-memory skill store seeded with skills.
func NewSkillStore(skills ...domain.Skill) *SkillStore {
	s := &SkillStore{skills: make(map[domain.SkillKey]domain.Skill, len(skills))}
	for _, sk := range skills {
		s.skills[sk.Key()] = sk.Clone()
	}
	return s
}

// Replace swaps the whole catalog for skills.
func (s *SkillStore) Replace(skills []domain.Skill) {
	next := make(map[domain.SkillKey]domain.Skill, len(skills))
	for _, sk := range skills {
		next[sk.Key()] = sk.Clone()
	}
	s.mu.Lock()
	s.skills = next
	s.mu.Unlock()
}

// Save stores or replaces a skill.
func (s *SkillStore) Save(_ context.Context, skill domain.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skills[skill.Key()] = skill.Clone()
	return nil
}

// SaveBatch stores or replaces several skills at once.
func (s *SkillStore) SaveBatch(_ context.Context, skills []domain.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sk := range skills {
		s.skills[sk.Key()] = sk.Clone()
	}
	return nil
}

// Get retrieves a skill by key.
func (s *SkillStore) Get(_ context.Context, key domain.SkillKey) (*domain.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sk, ok := s.skills[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := sk.Clone()
	return &c, nil
}

// List returns all skills ordered by source then skill ID.
func (s *SkillStore) List(_ context.Context) ([]domain.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Skill, 0, len(s.skills))
	for _, sk := range s.skills {
		out = append(out, sk.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].SkillID < out[j].SkillID
	})
	return out, nil
}

// Delete removes a skill.
func (s *SkillStore) Delete(_ context.Context, key domain.SkillKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.skills[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.skills, key)
	return nil
}

// Count returns the number of skills.
func (s *SkillStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.skills), nil
}

// AddInstalls adjusts a skill's install count. The count never drops below zero.
func (s *SkillStore) AddInstalls(_ context.Context, key domain.SkillKey, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sk, ok := s.skills[key]
	if !ok {
		return domain.ErrNotFound
	}
	sk.Installs = max(sk.Installs+delta, 0)
	s.skills[key] = sk
	return nil
}
