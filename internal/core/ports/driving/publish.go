package driving

import (
	"context"

	"github.com/custodia-labs/skilldex/internal/core/domain"
)

// PublishResult describes a completed publish.
type PublishResult struct {
	// Location is where the artefacts were written.
	Location string

	// Snapshot is the snapshot that was published.
	Snapshot *domain.PublishedSnapshot

	// Objects lists the object names written.
	Objects []string
}

// PublishService uploads the snapshot and index as static files.
type PublishService interface {
	// Publish writes the current snapshot and its index document.
	Publish(ctx context.Context) (*PublishResult, error)
}
