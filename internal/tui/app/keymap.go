package app

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding; each screen shows the subset it handles.
type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	New       key.Binding
	Settings  key.Binding
	Continue  key.Binding
	Back      key.Binding

	NextField     key.Binding
	Record        key.Binding
	SetReminder   key.Binding
	ClearReminder key.Binding
	Save          key.Binding
	Delete        key.Binding
	Share         key.Binding
	Confirm       key.Binding

	Theme      key.Binding
	Microphone key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new note"),
	),
	Settings: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "settings"),
	),
	Continue: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "get started"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Record: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "record/play"),
	),
	SetReminder: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "reminder"),
	),
	ClearReminder: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "clear reminder"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	Delete: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "delete"),
	),
	Share: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "share"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "confirm"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	Microphone: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "microphone"),
	),
}

// bindings adapts a fixed list of bindings to help.KeyMap
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding {
	return b
}

func (b bindings) FullHelp() [][]key.Binding {
	return [][]key.Binding{b}
}

func (k keyMap) onboardingHelp() bindings {
	return bindings{k.Continue}
}

func (k keyMap) listHelp() bindings {
	return bindings{k.Up, k.Down, k.Open, k.New, k.Settings, k.Quit}
}

func (k keyMap) editHelp() bindings {
	return bindings{k.NextField, k.Record, k.SetReminder, k.ClearReminder, k.Save, k.Delete, k.Share, k.Back}
}

func (k keyMap) settingsHelp() bindings {
	return bindings{k.Theme, k.Microphone, k.Back}
}
