package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle     key.Binding
	Edit       key.Binding
	Apply      key.Binding
	Cancel     key.Binding
	RateUp     key.Binding
	RateDown   key.Binding
	CopiesUp   key.Binding
	CopiesDown key.Binding
	Reset      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space", "s"),
			key.WithHelp("space", "start/stop"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "/"),
			key.WithHelp("e", "edit sentence"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		RateUp: key.NewBinding(
			key.WithKeys("+", "=", "up"),
			key.WithHelp("+/-", "mutation rate"),
		),
		RateDown: key.NewBinding(
			key.WithKeys("-", "_", "down"),
		),
		CopiesUp: key.NewBinding(
			key.WithKeys("]", "right"),
			key.WithHelp("[/]", "copies"),
		),
		CopiesDown: key.NewBinding(
			key.WithKeys("[", "left"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Edit, k.RateUp, k.CopiesUp, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Edit, k.Apply, k.Cancel},
		{k.RateUp, k.CopiesUp, k.Help, k.Quit},
	}
}
