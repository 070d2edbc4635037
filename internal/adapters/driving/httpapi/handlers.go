package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/logger"
)

const contentTypeJSON = "application/json"

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshots.Current(r.Context())
	if err != nil {
		logger.Error("snapshot unavailable: %v", err)
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeCached(w, r, snap, snap.ETag, snap.Body)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshots.Current(r.Context())
	if err != nil {
		logger.Error("snapshot unavailable: %v", err)
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	etag := indexETag(snap.ETag)
	if notModified(r, etag) {
		writeValidators(w, snap, etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	doc, err := s.snapshots.IndexDocument(r.Context())
	if err != nil {
		logger.Error("index unavailable: %v", err)
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeCached(w, r, snap, etag, doc)
}

type health struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshots.Current(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, health{Status: "unavailable", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, health{Status: "ok", Records: snap.Len(), Version: snap.Version})
}

// writeCached writes body with caching validators, or 304 when the client
// already holds etag.
func writeCached(w http.ResponseWriter, r *http.Request, snap *domain.PublishedSnapshot, etag string, body []byte) {
	writeValidators(w, snap, etag)
	if notModified(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

func writeValidators(w http.ResponseWriter, snap *domain.PublishedSnapshot, etag string) {
	h := w.Header()
	h.Set("ETag", etag)
	h.Set("Cache-Control", domain.SnapshotCacheControl)
	h.Set("Last-Modified", snap.BuiltAt.UTC().Format(http.TimeFormat))
	h.Set(HeaderSnapshotVersion, snap.Version)
}

// notModified reports whether If-None-Match lists etag or "*".
func notModified(r *http.Request, etag string) bool {
	header := r.Header.Get("If-None-Match")
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

// indexETag derives the index document's validator from the snapshot's.
func indexETag(snapshotETag string) string {
	return strings.TrimSuffix(snapshotETag, `"`) + `-index"`
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
