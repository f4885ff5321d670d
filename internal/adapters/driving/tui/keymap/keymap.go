// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Select confirms a selection or submits input.
	Select key.Binding

	// Up, Down, Left and Right move the page selection.
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Rotate turns the selected page a quarter turn.
	Rotate key.Binding

	// RotateAll turns every page a quarter turn.
	RotateAll key.Binding

	// ZoomIn and ZoomOut change the preview scale.
	ZoomIn  key.Binding
	ZoomOut key.Binding

	// Export writes the rotated document.
	Export key.Binding

	// Remove discards the loaded document.
	Remove key.Binding

	// Open loads another document.
	Open key.Binding

	// Settings opens the settings view.
	Settings key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next"),
		),
		Rotate: key.NewBinding(
			key.WithKeys("r", " "),
			key.WithHelp("r", "rotate page"),
		),
		RotateAll: key.NewBinding(
			key.WithKeys("R", "a"),
			key.WithHelp("a", "rotate all"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		Export: key.NewBinding(
			key.WithKeys("d", "ctrl+s"),
			key.WithHelp("d", "download"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// PagesHelp returns keybindings for the pages view.
func (k *KeyMap) PagesHelp() []key.Binding {
	return []key.Binding{k.Rotate, k.RotateAll, k.Export, k.Help}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Rotate, k.RotateAll, k.ZoomIn, k.ZoomOut},
		{k.Export, k.Remove, k.Open, k.Settings},
		{k.Select, k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
