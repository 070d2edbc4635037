// Package styles holds the colour palette and lipgloss styles shared by the
// skilldex views.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme is a palette. Primary marks focus and selection, Match marks the
// query characters found in a skill name.
type Theme struct {
	Primary, Secondary lipgloss.Color
	Foreground, Muted  lipgloss.Color
	Match              lipgloss.Color
	Warning, Error     lipgloss.Color
	Border, Bar        lipgloss.Color
}

// DefaultTheme is a dark palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    "#7C3AED",
		Secondary:  "#06B6D4",
		Foreground: "#CDD6F4",
		Muted:      "#6C7086",
		Match:      "#FAB387",
		Warning:    "#F9E2AF",
		Error:      "#F38BA8",
		Border:     "#45475A",
		Bar:        "#181825",
	}
}

// Styles are the rendered forms of a Theme.
type Styles struct {
	theme *Theme

	Title, Subtitle lipgloss.Style
	Normal, Muted   lipgloss.Style
	Selected        lipgloss.Style
	Error, Warning  lipgloss.Style
	InputField      lipgloss.Style
	Focused         lipgloss.Style
	StatusBar, Help lipgloss.Style
	Highlight, Tag  lipgloss.Style
}

// NewStyles derives styles from theme, or from DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	return &Styles{
		theme:      theme,
		Title:      fg(theme.Primary).Bold(true),
		Subtitle:   fg(theme.Secondary).Bold(true),
		Normal:     fg(theme.Foreground),
		Muted:      fg(theme.Muted),
		Selected:   fg(theme.Foreground).Background(theme.Primary).Bold(true),
		Error:      fg(theme.Error),
		Warning:    fg(theme.Warning),
		InputField: box,
		Focused:    box.BorderForeground(theme.Primary),
		StatusBar:  fg(theme.Muted).Background(theme.Bar).Padding(0, 1),
		Help:       fg(theme.Muted),
		Highlight:  fg(theme.Match).Bold(true),
		Tag:        fg(theme.Secondary),
	}
}

// DefaultStyles is NewStyles(DefaultTheme()).
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

func (s *Styles) Theme() *Theme {
	return s.theme
}
