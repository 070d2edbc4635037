// Package input is the query box of the search view.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/styles"
)

// Placeholder is shown while the query is empty.
const Placeholder = "Search skills..."

const (
	maxQueryLen   = 256
	labelWidth    = 14
	minFieldWidth = 20
)

// SearchInput is a single-line query box. It starts blurred so the result
// list owns the keyboard until "/" is pressed.
type SearchInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}
	field := textinput.New()
	field.Prompt = "/ "
	field.Placeholder = Placeholder
	field.CharLimit = maxQueryLen

	in := &SearchInput{textinput: field, styles: s}
	in.SetWidth(labelWidth + 50)
	return in
}

func (s *SearchInput) Init() tea.Cmd { return nil }

// Update passes msg to the field and reports whether the query text
// changed. Cursor movement and blurred keystrokes report false.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd, bool) {
	before := s.textinput.Value()
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd, s.textinput.Value() != before
}

func (s *SearchInput) View() string {
	box := s.styles.InputField
	if s.Focused() {
		box = s.styles.Focused
	}
	//nolint:misspell // lipgloss.Center
	return lipgloss.JoinHorizontal(lipgloss.Center,
		s.styles.Title.Render("Skills "),
		box.Render(s.textinput.View()))
}

func (s *SearchInput) Value() string    { return s.textinput.Value() }
func (s *SearchInput) SetValue(q string) { s.textinput.SetValue(q) }
func (s *SearchInput) Focus() tea.Cmd    { return s.textinput.Focus() }
func (s *SearchInput) Blur()             { s.textinput.Blur() }
func (s *SearchInput) Focused() bool     { return s.textinput.Focused() }
func (s *SearchInput) Width() int        { return s.width }

// SetWidth sizes the box to width columns, leaving room for the label.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	s.textinput.Width = max(width-labelWidth, minFieldWidth)
}
