// Package keymap holds the key bindings of the skilldex TUI.
package keymap

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/custodia-labs/skilldex/internal/core/domain"
)

// KeyMap lists every binding. FocusSearch and Blur move focus between the
// query box and the result list.
type KeyMap struct {
	Quit, Help, Back  key.Binding
	FocusSearch, Blur key.Binding
	Up, Down, Select  key.Binding
	Settings          key.Binding
}

func bind(label, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:        bind("q", "quit", "q", "ctrl+c"),
		Help:        bind("?", "help", "?"),
		Back:        bind("esc", "back", "esc"),
		FocusSearch: bind(domain.SearchHotkey, "search", domain.SearchHotkey),
		Blur:        bind("esc/enter", "results", "esc", "enter", "tab"),
		Up:          bind("↑/k", "up", "up", "k"),
		Down:        bind("↓/j", "down", "down", "j"),
		Select:      bind("enter", "select", "enter"),
		Settings:    bind("s", "settings", "s"),
	}
}

func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FocusSearch, k.Quit, k.Help}
}

// ResultsHelp is shown in the status bar while the result list has focus.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.FocusSearch, k.Up, k.Down, k.Settings, k.Help, k.Quit}
}

// InputHelp is shown while the query box has focus.
func (k *KeyMap) InputHelp() []key.Binding {
	return []key.Binding{k.Blur}
}

func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FocusSearch, k.Blur},
		{k.Up, k.Down, k.Select},
		{k.Settings, k.Back},
		{k.Help, k.Quit},
	}
}

// Matches reports whether keyStr is one of binding's keys.
func Matches(keyStr string, binding key.Binding) bool {
	return slices.Contains(binding.Keys(), keyStr)
}

// HelpLine renders bindings as "[key] desc" separated by two spaces.
func HelpLine(bindings []key.Binding) string {
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = "[" + h.Key + "] " + h.Desc
	}
	return strings.Join(parts, "  ")
}
