package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/skilldex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/logger"
)

var (
	_ driven.SkillStore     = (*Store)(nil)
	_ driven.ChangeNotifier = (*Store)(nil)
)

// DefaultSettle is how long the file must be quiet before a watched change
// is reloaded.
const DefaultSettle = 300 * time.Millisecond

// Store is a SkillStore persisted as a JSON array.
type Store struct {
	path   string
	settle time.Duration

	// writeMu serialises mutations so file writes follow memory order.
	writeMu sync.Mutex
	skills  *memory.SkillStore
}

// Open reads the catalog at path. A missing file is an empty catalog.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: catalog file path is empty", domain.ErrInvalidInput)
	}
	s := &Store{
		path:   path,
		settle: DefaultSettle,
		skills: memory.NewSkillStore(),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the catalog file path.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the catalog file. Invalid entries are skipped.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.skills.Replace(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading catalog: %w", err)
	}

	skills, err := decode(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, s.path, err)
	}
	s.skills.Replace(skills)
	logger.Debug("catalog: loaded %d skills from %s", len(skills), s.path)
	return nil
}

func decode(data []byte) ([]domain.Skill, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	skills := make([]domain.Skill, 0, len(raw))
	for i, msg := range raw {
		var sk domain.Skill
		if err := json.Unmarshal(msg, &sk); err != nil {
			logger.Warn("catalog: skipping entry %d: %v", i, err)
			continue
		}
		if err := sk.Validate(); err != nil {
			logger.Warn("catalog: skipping entry %d: %v", i, err)
			continue
		}
		if sk.Technologies == nil {
			sk.Technologies = []string{}
		}
		skills = append(skills, sk)
	}
	return skills, nil
}

// Save stores or replaces a skill.
func (s *Store) Save(ctx context.Context, skill domain.Skill) error {
	return s.SaveBatch(ctx, []domain.Skill{skill})
}

// SaveBatch stores or replaces several skills and rewrites the file once.
func (s *Store) SaveBatch(ctx context.Context, skills []domain.Skill) error {
	for _, sk := range skills {
		if err := sk.Validate(); err != nil {
			return err
		}
	}
	return s.mutate(ctx, func() error {
		return s.skills.SaveBatch(ctx, skills)
	})
}

// Get retrieves a skill by key.
func (s *Store) Get(ctx context.Context, key domain.SkillKey) (*domain.Skill, error) {
	return s.skills.Get(ctx, key)
}

// List returns every skill ordered by source then skill ID.
func (s *Store) List(ctx context.Context) ([]domain.Skill, error) {
	return s.skills.List(ctx)
}

// Delete removes a skill.
func (s *Store) Delete(ctx context.Context, key domain.SkillKey) error {
	return s.mutate(ctx, func() error {
		return s.skills.Delete(ctx, key)
	})
}

// Count returns the number of skills.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.skills.Count(ctx)
}

// AddInstalls adjusts a skill's install count.
func (s *Store) AddInstalls(ctx context.Context, key domain.SkillKey, delta int64) error {
	return s.mutate(ctx, func() error {
		return s.skills.AddInstalls(ctx, key, delta)
	})
}

func (s *Store) mutate(ctx context.Context, apply func() error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := apply(); err != nil {
		return err
	}
	skills, err := s.skills.List(ctx)
	if err != nil {
		return err
	}
	return s.write(skills)
}

// write replaces the file atomically via a temp file in the same directory.
func (s *Store) write(skills []domain.Skill) error {
	data, err := json.MarshalIndent(skills, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("creating temp catalog: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after rename

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing catalog: %w", err)
	}
	return nil
}

// Watch reloads the catalog whenever the file changes on disk and then calls
// onChange. It blocks until ctx is cancelled. The parent directory is watched
// so editors that replace the file by rename are seen.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Debug("catalog: watching %s", s.path)

	name := filepath.Clean(s.path)
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	reload := func() {
		if ctx.Err() != nil {
			return
		}
		if err := s.Reload(); err != nil {
			logger.Warn("catalog: reload failed: %v", err)
			return
		}
		onChange()
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(s.settle, reload)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("catalog: watcher error: %v", err)
		}
	}
}
