// Package publish selects a BlobPublisher for the configured target.
package publish

import (
	"context"
	"fmt"

	"github.com/custodia-labs/skilldex/internal/adapters/driven/publish/dir"
	"github.com/custodia-labs/skilldex/internal/adapters/driven/publish/minio"
	"github.com/custodia-labs/skilldex/internal/adapters/driven/publish/s3"
	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
)

// New creates the publisher for settings.Target.
func New(ctx context.Context, settings domain.PublishSettings) (driven.BlobPublisher, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: publish target %q is not configured", domain.ErrConfigNotFound, settings.Target)
	}

	switch settings.Target {
	case domain.PublishDir:
		return dir.New(settings.Dir)
	case domain.PublishS3:
		return s3.New(ctx, s3.Config{
			Bucket:    settings.Bucket,
			Prefix:    settings.Prefix,
			Region:    settings.Region,
			Endpoint:  settings.Endpoint,
			AccessKey: settings.AccessKey,
			SecretKey: settings.SecretKey,
		})
	case domain.PublishMinIO:
		return minio.New(minio.Config{
			Endpoint:  settings.Endpoint,
			Bucket:    settings.Bucket,
			Prefix:    settings.Prefix,
			Region:    settings.Region,
			AccessKey: settings.AccessKey,
			SecretKey: settings.SecretKey,
			Secure:    settings.Secure,
		})
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedTarget, settings.Target)
	}
}
