// Package settings provides the settings view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
)

// ErrUnavailable is reported when the view has no settings service.
var ErrUnavailable = errors.New("settings service not available")

// View lists every setting and edits one at a time.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	settingsService driving.SettingsService

	values   []domain.Setting
	err      error
	notice   string
	selected int

	editing bool
	editor  textinput.Model

	width  int
	height int
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, km *keymap.KeyMap, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	editor := textinput.New()
	editor.CharLimit = 512

	return &View{
		styles:          s,
		keymap:          km,
		settingsService: settingsService,
		editor:          editor,
		width:           80,
		height:          24,
	}
}

// Init loads the current values.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: ErrUnavailable}
		}
		values, err := svc.Values()
		return messages.SettingsLoaded{Values: values, Err: err}
	}
}

func (v *View) saveSetting(key, value string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingSaved{Key: key, Err: ErrUnavailable}
		}
		return messages.SettingSaved{Key: key, Err: svc.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.values = msg.Values
			if v.selected >= len(v.values) {
				v.selected = 0
			}
		}
		return v, nil

	case messages.SettingSaved:
		if msg.Err != nil {
			v.err = msg.Err
			v.notice = ""
			return v, nil
		}
		v.err = nil
		v.notice = "Saved " + msg.Key
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKeys(msg)
		}
		return v.handleListKeys(msg)
	}

	return v, nil
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	case keymap.Matches(key, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.values)-1 {
			v.selected++
		}
	case keymap.Matches(key, v.keymap.Select):
		if len(v.values) == 0 {
			return v, nil
		}
		return v, v.startEdit(v.values[v.selected])
	}
	return v, nil
}

func (v *View) startEdit(s domain.Setting) tea.Cmd {
	v.editing = true
	v.notice = ""
	v.err = nil
	v.editor.Reset()
	if s.Secret {
		v.editor.EchoMode = textinput.EchoPassword
		v.editor.Placeholder = "new value"
	} else {
		v.editor.EchoMode = textinput.EchoNormal
		v.editor.Placeholder = ""
		v.editor.SetValue(s.Value)
	}
	return v.editor.Focus()
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.editing = false
		v.editor.Blur()
		return v, nil
	case "enter":
		v.editing = false
		v.editor.Blur()
		if v.selected >= len(v.values) {
			return v, nil
		}
		key := v.values[v.selected].Key
		return v, v.saveSetting(key, strings.TrimSpace(v.editor.Value()))
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

// View renders the settings list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	width := 0
	for _, s := range v.values {
		if len(s.Key) > width {
			width = len(s.Key)
		}
	}

	for i, s := range v.values {
		value := s.Value
		if value == "" {
			value = "(unset)"
		}
		line := fmt.Sprintf("%-*s  ", width, s.Key)
		switch {
		case i == v.selected && v.editing:
			b.WriteString(v.styles.Selected.Render("> "+line) + v.editor.View())
		case i == v.selected:
			b.WriteString(v.styles.Selected.Render("> " + line + value))
		default:
			b.WriteString(v.styles.Normal.Render("  "+line) + v.styles.Muted.Render(value))
		}
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString("\n" + v.styles.Error.Render("Error: "+v.err.Error()) + "\n")
	} else if v.notice != "" {
		b.WriteString("\n" + v.styles.Muted.Render(v.notice) + "\n")
	}

	b.WriteString("\n")
	if v.editing {
		b.WriteString(v.styles.Help.Render("[enter] save  [esc] cancel"))
	} else {
		b.WriteString(v.styles.Help.Render(keymap.HelpLine(
			[]key.Binding{v.keymap.Up, v.keymap.Down, v.keymap.Select, v.keymap.Back},
		)))
	}

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.editor.Width = width - 40
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Values returns the loaded settings.
func (v *View) Values() []domain.Setting {
	return v.values
}

// Err returns the last load or save error.
func (v *View) Err() error {
	return v.err
}

// Reset returns the view to the list without an edit in progress.
func (v *View) Reset() {
	v.editing = false
	v.editor.Blur()
	v.notice = ""
	v.err = nil
}
