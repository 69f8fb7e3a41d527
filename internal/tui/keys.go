package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the study screen bindings. It implements help.KeyMap.
type keyMap struct {
	Reveal  key.Binding
	Knew    key.Binding
	Missed  key.Binding
	Restart key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Reveal: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "reveal"),
		),
		Knew: key.NewBinding(
			key.WithKeys("y", "right", "l"),
			key.WithHelp("y/→", "knew it"),
		),
		Missed: key.NewBinding(
			key.WithKeys("n", "left", "h"),
			key.WithHelp("n/←", "didn't know"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "study again"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reveal, k.Knew, k.Missed, k.Restart, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
