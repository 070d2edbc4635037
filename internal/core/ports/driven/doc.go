// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SkillStore: Catalog persistence (SQLite or a JSON catalog file)
//   - IndexBuilder: Builds and reconstructs a SearchIndex (native or bleve)
//   - SnapshotFetcher: Retrieves the published snapshot (HTTP or file)
//   - ConfigStore: Application configuration
//   - SchedulerStore: Scheduler state and run history
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Renderer: Receives search views from the controller. Without it, callers poll View.
//   - BlobPublisher: Static snapshot upload. Without it, the rebuild task only refreshes the cache.
//   - SkillDiscoverer: Repository scanning for imports.
//   - ChangeNotifier: Catalog change events. Without it, the snapshot refreshes on schedule only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
