// Package tui provides an interactive terminal user interface for skilldex.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Search owns the load and debounce state of the search view.
	Search driving.SearchController

	// Settings manages application settings. Optional; the settings view
	// is disabled without it.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchController
	}
	return nil
}
