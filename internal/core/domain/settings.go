package domain

import "time"

const unknownDescription = "Unknown"

// EngineKind selects the query engine implementation.
type EngineKind string

// Available engines.
const (
	// EngineInverted is the native inverted index with roaring postings.
	EngineInverted EngineKind = "inverted"

	// EngineBleve is an in-memory bleve index.
	EngineBleve EngineKind = "bleve"
)

// IsValid returns true if the engine is recognised.
func (e EngineKind) IsValid() bool {
	switch e {
	case EngineInverted, EngineBleve:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (e EngineKind) String() string {
	return string(e)
}

// Description returns a human-readable description of the engine.
func (e EngineKind) Description() string {
	switch e {
	case EngineInverted:
		return "Inverted (native, serializable)"
	case EngineBleve:
		return "Bleve (in-memory)"
	default:
		return unknownDescription
	}
}

// StoreBackend selects where the catalog of skills lives.
type StoreBackend string

// Available store backends.
const (
	// StoreSQLite keeps skills in the local SQLite database.
	StoreSQLite StoreBackend = "sqlite"

	// StoreCatalogFile reads skills from a JSON catalog file.
	StoreCatalogFile StoreBackend = "catalog"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	return b == StoreSQLite || b == StoreCatalogFile
}

// PublishTarget selects where static snapshots are uploaded.
type PublishTarget string

// Available publish targets.
const (
	// PublishDir writes into a local directory served by any static host.
	PublishDir PublishTarget = "dir"

	// PublishS3 uploads to an S3 bucket.
	PublishS3 PublishTarget = "s3"

	// PublishMinIO uploads to a MinIO (or other S3-compatible) endpoint.
	PublishMinIO PublishTarget = "minio"
)

// IsValid returns true if the target is recognised.
func (p PublishTarget) IsValid() bool {
	switch p {
	case PublishDir, PublishS3, PublishMinIO:
		return true
	default:
		return false
	}
}

// Description returns a human-readable description of the target.
func (p PublishTarget) Description() string {
	switch p {
	case PublishDir:
		return "Local directory"
	case PublishS3:
		return "Amazon S3"
	case PublishMinIO:
		return "MinIO (S3-compatible)"
	default:
		return unknownDescription
	}
}

// Debounce bounds for the search input.
const (
	MinDebounce     = 150 * time.Millisecond
	MaxDebounce     = 300 * time.Millisecond
	DefaultDebounce = 200 * time.Millisecond
)

// ClampDebounce keeps a debounce delay within MinDebounce and MaxDebounce.
// Zero selects DefaultDebounce.
func ClampDebounce(d time.Duration) time.Duration {
	switch {
	case d == 0:
		return DefaultDebounce
	case d < MinDebounce:
		return MinDebounce
	case d > MaxDebounce:
		return MaxDebounce
	default:
		return d
	}
}

// SnapshotSettings configures where clients fetch the snapshot from.
type SnapshotSettings struct {
	// URL is an http(s) URL or a local file path.
	URL string
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// Engine is the query engine implementation.
	Engine EngineKind

	// Debounce is the settle delay for interactive input.
	Debounce time.Duration
}

// ServerSettings configures the snapshot HTTP server.
type ServerSettings struct {
	// Listen is the TCP address to bind.
	Listen string

	// RateLimit is the sustained requests per second.
	RateLimit int

	// Burst is the token bucket size.
	Burst int
}

// StoreSettings configures the catalog store.
type StoreSettings struct {
	// Backend selects the store implementation.
	Backend StoreBackend

	// CatalogFile is the JSON catalog path for the catalog backend.
	CatalogFile string
}

// PublishSettings configures static snapshot publishing.
type PublishSettings struct {
	Target    PublishTarget
	Dir       string
	Bucket    string
	Prefix    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Secure    bool
}

// IsConfigured returns true if the target has what it needs to upload.
func (p PublishSettings) IsConfigured() bool {
	switch p.Target {
	case PublishDir:
		return p.Dir != ""
	case PublishS3:
		return p.Bucket != ""
	case PublishMinIO:
		return p.Bucket != "" && p.Endpoint != ""
	default:
		return false
	}
}

// GitHubSettings configures catalog imports from GitHub.
type GitHubSettings struct {
	// Token is a personal access token; empty means unauthenticated.
	Token string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Snapshot SnapshotSettings
	Search   SearchSettings
	Server   ServerSettings
	Store    StoreSettings
	Publish  PublishSettings
	GitHub   GitHubSettings
}

// DefaultServerAddr is where `skilldex serve` listens by default.
const DefaultServerAddr = "127.0.0.1:8787"

// DefaultAppSettings returns settings with sensible defaults.
// Publish.Dir is resolved against the data directory by the settings service.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Snapshot: SnapshotSettings{
			URL: "http://" + DefaultServerAddr + "/api/snapshot",
		},
		Search: SearchSettings{
			Engine:   EngineInverted,
			Debounce: DefaultDebounce,
		},
		Server: ServerSettings{
			Listen:    DefaultServerAddr,
			RateLimit: 20,
			Burst:     40,
		},
		Store: StoreSettings{
			Backend: StoreSQLite,
		},
		Publish: PublishSettings{
			Target: PublishDir,
			Secure: true,
		},
	}
}

// AllEngines returns all available engines.
func AllEngines() []EngineKind {
	return []EngineKind{EngineInverted, EngineBleve}
}

// AllPublishTargets returns all available publish targets.
func AllPublishTargets() []PublishTarget {
	return []PublishTarget{PublishDir, PublishS3, PublishMinIO}
}

// Setting is one key with its effective value, for display.
type Setting struct {
	Key   string
	Value string

	// Secret is true for credentials; Value is masked.
	Secret bool
}

// MaskSecret hides all but the last four characters of a credential.
func MaskSecret(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 4 {
		return "****"
	}
	return "****" + v[len(v)-4:]
}
