package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
	"github.com/custodia-labs/skilldex/internal/logger"
)

// Ensure SnapshotService implements the interface.
var _ driving.SnapshotService = (*SnapshotService)(nil)

// SnapshotService builds the published snapshot from the catalog and caches
// it until it is older than the max age or invalidated.
type SnapshotService struct {
	store   driven.SkillStore
	builder driven.IndexBuilder
	maxAge  time.Duration
	now     func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	current  *domain.PublishedSnapshot
	indexDoc []byte
	indexFor string
}

// NewSnapshotService creates a snapshot service. The builder produces the
// precomputed index document served alongside the snapshot.
func NewSnapshotService(store driven.SkillStore, builder driven.IndexBuilder) *SnapshotService {
	return &SnapshotService{
		store:   store,
		builder: builder,
		maxAge:  domain.SnapshotMaxAge,
		now:     time.Now,
	}
}

// SetMaxAge overrides how long a built snapshot is reused.
func (s *SnapshotService) SetMaxAge(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxAge = d
}

// Current returns the cached snapshot, rebuilding it when stale.
func (s *SnapshotService) Current(ctx context.Context) (*domain.PublishedSnapshot, error) {
	s.mu.RLock()
	snap, maxAge := s.current, s.maxAge
	s.mu.RUnlock()

	if !snap.Stale(s.now(), maxAge) {
		return snap, nil
	}
	return s.Build(ctx)
}

// Build reads every skill and publishes a new snapshot. Concurrent callers
// share one build, which is not cancelled when the caller that started it
// gives up.
func (s *SnapshotService) Build(ctx context.Context) (*domain.PublishedSnapshot, error) {
	ch := s.group.DoChan("build", func() (any, error) {
		return s.build(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.PublishedSnapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *SnapshotService) build(ctx context.Context) (*domain.PublishedSnapshot, error) {
	logger.Section("Snapshot Build")

	skills, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}

	valid := skills[:0:0]
	for _, sk := range skills {
		if err := sk.Validate(); err != nil {
			logger.Warn("snapshot: skipping %s: %v", sk.Key(), err)
			continue
		}
		valid = append(valid, sk)
	}
	sort.SliceStable(valid, func(i, j int) bool {
		if valid[i].Source != valid[j].Source {
			return valid[i].Source < valid[j].Source
		}
		return valid[i].SkillID < valid[j].SkillID
	})

	records := domain.NewSnapshotRecords(valid)
	body, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	sum := sha256.Sum256(body)

	snap := &domain.PublishedSnapshot{
		Version: uuid.NewString(),
		BuiltAt: s.now().UTC(),
		Records: records,
		Body:    body,
		ETag:    `"` + hex.EncodeToString(sum[:16]) + `"`,
	}

	s.mu.Lock()
	s.current = snap
	s.indexDoc = nil
	s.indexFor = ""
	s.mu.Unlock()

	logger.Debug("snapshot %s: %d records, %d bytes", snap.Version, snap.Len(), len(body))
	return snap, nil
}

// Invalidate drops the cached snapshot and index document.
func (s *SnapshotService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.indexDoc = nil
	s.indexFor = ""
}

// IndexDocument returns the encoded index for the current snapshot.
func (s *SnapshotService) IndexDocument(ctx context.Context) ([]byte, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	doc, forVersion := s.indexDoc, s.indexFor
	s.mu.RUnlock()
	if doc != nil && forVersion == snap.Version {
		return doc, nil
	}

	v, err, _ := s.group.Do("index:"+snap.Version, func() (any, error) {
		idx, err := s.builder.Build(snap.Records)
		if err != nil {
			return nil, fmt.Errorf("build index: %w", err)
		}
		defer closeIndex(idx)
		return idx.Encode()
	})
	if err != nil {
		return nil, err
	}
	doc = v.([]byte)

	s.mu.Lock()
	if s.current != nil && s.current.Version == snap.Version {
		s.indexDoc = doc
		s.indexFor = snap.Version
	}
	s.mu.Unlock()
	return doc, nil
}
