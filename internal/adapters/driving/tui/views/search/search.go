// Package search provides the main search view for the TUI.
package search

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
)

// View represents the search view with input, results list, and status bar.
//
// The view never queries anything itself. Keystrokes go to the controller,
// and the controller's published views come back as messages.ViewUpdated.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	controller driving.SearchController

	width      int
	height     int
	ready      bool
	focusInput bool // true = typing in the input, false = navigating results
	current    domain.SearchView
}

// NewView creates a new search view. The result list holds focus initially.
func NewView(s *styles.Styles, km *keymap.KeyMap, controller driving.SearchController) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewSearchInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km),
		controller: controller,
		width:      80,
		height:     24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ViewUpdated:
		v.Apply(msg.View)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// focusTarget reports what holds keyboard focus inside this view.
func (v *View) focusTarget() domain.FocusTarget {
	if v.focusInput {
		return domain.FocusTextEntry
	}
	return domain.FocusList
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	if v.controller != nil && v.controller.HandleKey(key, v.focusTarget()) {
		return v, v.focusSearch()
	}

	if v.focusInput {
		if keymap.Matches(key, v.keymap.Blur) {
			v.blurSearch()
			return v, nil
		}
		var cmd tea.Cmd
		var changed bool
		v.input, cmd, changed = v.input.Update(msg)
		if changed && v.controller != nil {
			v.controller.SetInput(v.input.Value())
		}
		return v, cmd
	}

	switch {
	case keymap.Matches(key, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(key, v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(key, v.keymap.Settings):
		return v, changeView(messages.ViewSettings)
	case keymap.Matches(key, v.keymap.Help):
		return v, changeView(messages.ViewHelp)
	case keymap.Matches(key, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}
	return v, nil
}

func changeView(t messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: t}
	}
}

func (v *View) focusSearch() tea.Cmd {
	v.focusInput = true
	v.statusbar.SetInputFocused(true)
	return v.input.Focus()
}

func (v *View) blurSearch() {
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetInputFocused(false)
}

// Apply renders a controller view.
func (v *View) Apply(sv domain.SearchView) {
	v.current = sv
	v.list.SetResults(sv.Committed, sv.Results)
	v.statusbar.SetView(sv)
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("skilldex"), "", v.input.View(), "")

	if v.current.Loading {
		sections = append(sections, v.styles.Warning.Render("Loading skills..."), "")
	}

	sections = append(sections, v.list.View())

	if detail := v.list.Detail(); detail != "" && !v.focusInput {
		sections = append(sections, "", detail)
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	// Reserve rows for the header, input, detail pane and status bar.
	v.list.SetDimensions(width, height-14)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the live input value.
func (v *View) Query() string {
	return v.input.Value()
}

// Current returns the last controller view applied.
func (v *View) Current() domain.SearchView {
	return v.current
}

// Results returns the current search results.
func (v *View) Results() []domain.QueryResult {
	return v.list.Results()
}

// SelectedResult returns the currently selected result.
func (v *View) SelectedResult() *domain.QueryResult {
	return v.list.SelectedResult()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
