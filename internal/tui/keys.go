package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	NextCalc   key.Binding
	PrevCalc   key.Binding
	NewCalc    key.Binding
	OutOfState key.Binding
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Save       key.Binding
	Presets    key.Binding
	Delete     key.Binding
	Reset      key.Binding
	Cancel     key.Binding
	Confirm    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		NextCalc:   key.NewBinding(key.WithKeys("ctrl+right", "pgdown"), key.WithHelp("pgdn", "next calculator")),
		PrevCalc:   key.NewBinding(key.WithKeys("ctrl+left", "pgup"), key.WithHelp("pgup", "prev calculator")),
		NewCalc:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new calculator")),
		OutOfState: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "out of state")),
		Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save preset")),
		Presets:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "presets")),
		Delete:     key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		Reset:      key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "delete all")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Confirm:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	}
}

func (k keyMap) calculatorHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Select, k.OutOfState, k.NewCalc, k.NextCalc, k.Save, k.Presets, k.Quit}
}

func (k keyMap) presetHelp() []key.Binding {
	return []key.Binding{k.Select, k.Delete, k.Reset, k.Cancel}
}
