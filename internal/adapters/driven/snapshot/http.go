package snapshot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/logger"
)

// Ensure HTTPFetcher implements the interface.
var _ driven.SnapshotFetcher = (*HTTPFetcher)(nil)

// MaxSnapshotBytes bounds the size of a fetched snapshot.
const MaxSnapshotBytes = 64 << 20

// HTTPConfig holds configuration for the HTTP snapshot fetcher.
type HTTPConfig struct {
	// URL is the snapshot endpoint or static file URL.
	URL string

	// Timeout bounds each request. Zero leaves it to the transport and ctx.
	Timeout time.Duration

	// UserAgent is sent with each request.
	UserAgent string
}

// HTTPFetcher downloads the snapshot over HTTP. It remembers the last ETag
// and body, so an unchanged snapshot costs a 304.
type HTTPFetcher struct {
	client    *http.Client
	url       string
	userAgent string

	mu   sync.Mutex
	etag string
	body []byte
}

// NewHTTPFetcher creates a new HTTP snapshot fetcher. Responses are
// requested gzip-encoded and decompressed transparently.
func NewHTTPFetcher(cfg HTTPConfig) *HTTPFetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "skilldex"
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: gzhttp.Transport(http.DefaultTransport),
		},
		url:       cfg.URL,
		userAgent: cfg.UserAgent,
	}
}

// Fetch downloads the snapshot body. Every failure wraps
// domain.ErrSnapshotFetch.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrSnapshotFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	f.mu.Lock()
	etag, cached := f.etag, f.body
	f.mu.Unlock()
	if etag != "" && cached != nil {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSnapshotFetch, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && cached != nil:
		logger.Debug("snapshot %s not modified", f.url)
		return cached, nil
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s returned status %d: %s",
			domain.ErrSnapshotFetch, f.url, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxSnapshotBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrSnapshotFetch, err)
	}
	if len(body) > MaxSnapshotBytes {
		return nil, fmt.Errorf("%w: snapshot exceeds %d bytes", domain.ErrSnapshotFetch, MaxSnapshotBytes)
	}

	f.mu.Lock()
	f.etag = resp.Header.Get("ETag")
	f.body = body
	f.mu.Unlock()

	logger.Debug("fetched snapshot %s (%d bytes, version %s)",
		f.url, len(body), resp.Header.Get("X-Snapshot-Version"))
	return body, nil
}

// Source returns the snapshot URL.
func (f *HTTPFetcher) Source() string {
	return f.url
}
