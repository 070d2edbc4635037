// Package status provides status bar components for the TUI.
package status

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/skilldex/internal/core/domain"
)

// State represents what the status bar is reporting.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateResults State = "results"
	StateError   State = "error"
)

// Bar displays index status and keybinding hints.
type Bar struct {
	styles       *styles.Styles
	keymap       *keymap.KeyMap
	state        State
	message      string
	resultCount  int
	inputFocused bool
	width        int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateIdle,
		width:  80,
	}
}

// SetView derives the bar state from a search view.
func (s *Bar) SetView(v domain.SearchView) {
	s.resultCount = len(v.Results)
	s.message = ""

	switch {
	case v.Loading || v.State == domain.LoadStateLoading:
		s.state = StateLoading
	case v.Err != nil:
		s.state = StateError
		if !errors.Is(v.Err, domain.ErrIndexUnavailable) {
			s.message = v.Err.Error()
		}
	case v.State == domain.LoadStateUnloaded:
		s.state = StateIdle
	case !domain.IsBlankQuery(v.Committed):
		s.state = StateResults
	default:
		s.state = StateReady
	}
}

// SetInputFocused switches the keybinding hints between input and list mode.
func (s *Bar) SetInputFocused(focused bool) {
	s.inputFocused = focused
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateLoading:
		return s.styles.Warning.Render("Loading index...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render("Search index unavailable: " + s.message)
		}
		return s.styles.Error.Render("Search index unavailable")
	case StateResults:
		if s.resultCount == 1 {
			return s.styles.Normal.Render("1 skill")
		}
		return s.styles.Normal.Render(fmt.Sprintf("%d skills", s.resultCount))
	case StateReady:
		return s.styles.Muted.Render("Ready")
	case StateIdle:
		return s.styles.Muted.Render("Press / to search")
	}
	return ""
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.inputFocused {
		bindings = s.keymap.InputHelp()
	} else {
		bindings = s.keymap.ResultsHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// Message returns the detail shown with an error state.
func (s *Bar) Message() string {
	return s.message
}

// ResultCount returns the current result count.
func (s *Bar) ResultCount() int {
	return s.resultCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}
