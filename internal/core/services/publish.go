package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
	"github.com/custodia-labs/skilldex/internal/logger"
)

// Ensure PublishService implements the interface.
var _ driving.PublishService = (*PublishService)(nil)

// Object names written by Publish.
const (
	SnapshotObject = "snapshot.json"
	IndexObject    = "index.json"
	ManifestObject = "manifest.json"
)

// Manifest describes a published snapshot.
type Manifest struct {
	Version string    `json:"version"`
	BuiltAt time.Time `json:"builtAt"`
	Records int       `json:"records"`
	ETag    string    `json:"etag"`
}

// PublishService writes the snapshot and its index document as static files.
type PublishService struct {
	snapshots driving.SnapshotService
	publisher driven.BlobPublisher
}

// NewPublishService creates a publish service.
func NewPublishService(snapshots driving.SnapshotService, publisher driven.BlobPublisher) *PublishService {
	return &PublishService{
		snapshots: snapshots,
		publisher: publisher,
	}
}

// Publish builds a fresh snapshot and uploads it. The manifest is written
// last so readers never see a manifest ahead of its data.
func (s *PublishService) Publish(ctx context.Context) (*driving.PublishResult, error) {
	logger.Section("Publish")

	snap, err := s.snapshots.Build(ctx)
	if err != nil {
		return nil, err
	}
	indexDoc, err := s.snapshots.IndexDocument(ctx)
	if err != nil {
		return nil, err
	}
	manifest, err := json.Marshal(Manifest{
		Version: snap.Version,
		BuiltAt: snap.BuiltAt,
		Records: snap.Len(),
		ETag:    snap.ETag,
	})
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}

	meta := driven.ObjectMeta{
		ContentType:  "application/json",
		CacheControl: domain.SnapshotCacheControl,
	}
	objects := []struct {
		name string
		data []byte
	}{
		{SnapshotObject, snap.Body},
		{IndexObject, indexDoc},
		{ManifestObject, manifest},
	}

	result := &driving.PublishResult{
		Location: s.publisher.Location(),
		Snapshot: snap,
	}
	for _, obj := range objects {
		if err := s.publisher.Put(ctx, obj.name, obj.data, meta); err != nil {
			return nil, fmt.Errorf("publish %s: %w", obj.name, err)
		}
		logger.Debug("published %s (%d bytes) to %s", obj.name, len(obj.data), result.Location)
		result.Objects = append(result.Objects, obj.name)
	}
	return result, nil
}
