package driving

import "github.com/custodia-labs/skilldex/internal/core/domain"

// SearchController drives an interactive search surface. It decides when
// the index is fetched and when typed input is queried. Implementations
// never block the caller on I/O.
type SearchController interface {
	// Focus signals interaction with the search input.
	Focus()

	// SetInput records the input value after a keystroke.
	SetInput(value string)

	// HandleKey applies the search hotkey and reports whether it was consumed.
	HandleKey(key string, focus domain.FocusTarget) bool

	// View returns the latest search view.
	View() domain.SearchView

	// Close stops the controller.
	Close() error
}
