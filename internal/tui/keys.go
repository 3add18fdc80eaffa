package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the modal panels. The line editor
// carries its own bindings for the prompt.
type KeyMap struct {
	PickAbort  key.Binding
	InputAbort key.Binding
	Submit     key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PickAbort:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c", "ctrl+d")),
		InputAbort: key.NewBinding(key.WithKeys("esc", "ctrl+c", "ctrl+d")),
		Submit:     key.NewBinding(key.WithKeys("enter")),
	}
}
