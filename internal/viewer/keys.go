package viewer

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Fit     key.Binding
	Dim     key.Binding
	Hide    key.Binding
	Reload  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_")),
		Up:      key.NewBinding(key.WithKeys("up", "k")),
		Down:    key.NewBinding(key.WithKeys("down", "j")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←↑↓→", "pan")),
		Right:   key.NewBinding(key.WithKeys("right", "l")),
		Fit:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fit")),
		Dim:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dim")),
		Hide:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "show/hide")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rechunk")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Left, k.ZoomIn, k.Fit, k.Dim, k.Hide, k.Reload, k.Quit}
}
