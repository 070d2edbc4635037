// Package dir publishes snapshot artefacts into a local directory that any
// static file host can serve.
package dir

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/logger"
)

// Ensure Publisher implements the interface.
var _ driven.BlobPublisher = (*Publisher)(nil)

// LockFile is held while an object is being written.
const LockFile = ".skilldex.lock"

// Publisher writes objects as files under a root directory.
type Publisher struct {
	root string
	lock *flock.Flock
}

// New creates a publisher rooted at root, creating the directory if needed.
func New(root string) (*Publisher, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: publish directory is empty", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create publish directory: %w", err)
	}
	return &Publisher{
		root: root,
		lock: flock.New(filepath.Join(root, LockFile)),
	}, nil
}

// Put writes data to root/name through a temp file and rename, so readers
// never see a partial object. Another process holding the lock yields
// domain.ErrPublishLocked. Metadata is not stored; the host serving the
// directory sets headers.
func (p *Publisher) Put(ctx context.Context, name string, data []byte, _ driven.ObjectMeta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := p.path(name)
	if err != nil {
		return err
	}

	locked, err := p.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire publish lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", domain.ErrPublishLocked, p.lock.Path())
	}
	defer func() { _ = p.lock.Unlock() }()

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}

	logger.Debug("published %s (%d bytes)", target, len(data))
	return nil
}

// Location returns the root directory.
func (p *Publisher) Location() string {
	return p.root
}

// path resolves name under root and rejects escapes.
func (p *Publisher) path(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if name == "" || clean == "." || filepath.IsAbs(clean) ||
		clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: object name %q", domain.ErrInvalidInput, name)
	}
	return filepath.Join(p.root, clean), nil
}
