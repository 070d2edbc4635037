package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
	"github.com/custodia-labs/skilldex/internal/logger"
)

// Routes.
const (
	PathSnapshot = "/api/snapshot"
	PathIndex    = "/api/index"
	PathHealth   = "/healthz"
)

// HeaderSnapshotVersion carries the snapshot build version.
const HeaderSnapshotVersion = "X-Snapshot-Version"

// Config holds server options.
type Config struct {
	// Addr is the TCP address to listen on.
	Addr string

	// RateLimit is the sustained requests per second across all clients.
	// Zero disables limiting.
	RateLimit int

	// Burst is the token bucket size.
	Burst int
}

// Server serves snapshots from a SnapshotService.
type Server struct {
	snapshots driving.SnapshotService
	limiter   *rate.Limiter
	addr      string
	handler   http.Handler
}

// NewServer creates a server for snapshots.
func NewServer(snapshots driving.SnapshotService, cfg Config) (*Server, error) {
	if snapshots == nil {
		return nil, fmt.Errorf("%w: snapshot service is required", domain.ErrInvalidInput)
	}
	if cfg.Addr == "" {
		cfg.Addr = domain.DefaultServerAddr
	}

	s := &Server{snapshots: snapshots, addr: cfg.Addr}
	if cfg.RateLimit > 0 {
		burst := max(cfg.Burst, 1)
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	mux := http.NewServeMux()
	mux.Handle("GET "+PathSnapshot, s.limit(http.HandlerFunc(s.handleSnapshot)))
	mux.Handle("GET "+PathIndex, s.limit(http.HandlerFunc(s.handleIndex)))
	mux.HandleFunc("GET "+PathHealth, s.handleHealth)

	s.handler = logRequests(gzhttp.GzipHandler(mux))
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("serving snapshots on http://%s", ln.Addr())
	err := httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// limit rejects requests with 429 once the token bucket is empty.
func (s *Server) limit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, domain.ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}
