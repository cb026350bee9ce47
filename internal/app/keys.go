package app

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	ToggleFocus key.Binding
	Help        key.Binding
	Halt        key.Binding
	Quit        key.Binding
}

var GlobalKeys = KeyMap{
	ToggleFocus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "toggle focus"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	// Halt works from every page: a running pulse program must be
	// stoppable without first navigating to the Control page.
	Halt: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "halt board"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
