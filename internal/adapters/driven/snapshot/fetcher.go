package snapshot

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
)

// NewFetcher picks a fetcher for location: http(s) URLs go over the network,
// file:// URLs and bare paths are read from disk.
func NewFetcher(location string) (driven.SnapshotFetcher, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: snapshot location is empty", domain.ErrInvalidInput)
	}

	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Bare path, including Windows drive letters.
		return NewFileFetcher(location), nil
	}

	switch u.Scheme {
	case "http", "https":
		return NewHTTPFetcher(HTTPConfig{URL: location}), nil
	case "file":
		return NewFileFetcher(u.Path), nil
	default:
		return nil, fmt.Errorf("%w: unsupported snapshot scheme %q", domain.ErrInvalidInput, u.Scheme)
	}
}
