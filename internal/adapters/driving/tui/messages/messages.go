// Package messages holds the tea.Msg types passed between the skilldex
// views and the app model.
package messages

import "github.com/custodia-labs/skilldex/internal/core/domain"

// ViewUpdated delivers the controller's latest search view.
type ViewUpdated struct {
	View domain.SearchView
}

// ViewType names a screen of the app.
type ViewType int

const (
	ViewSearch ViewType = iota
	ViewSettings
	ViewHelp
)

var viewNames = [...]string{
	ViewSearch:   "search",
	ViewSettings: "settings",
	ViewHelp:     "help",
}

func (v ViewType) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// ViewChanged asks the app to switch screens.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred is shown in the status bar.
type ErrorOccurred struct {
	Err error
}

type Quit struct{}

// SettingsLoaded answers a settings refresh.
type SettingsLoaded struct {
	Values []domain.Setting
	Err    error
}

// SettingSaved reports the outcome of an edit in the settings view.
type SettingSaved struct {
	Key string
	Err error
}
