package tui

import "github.com/charmbracelet/bubbles/key"

type testKeyMap struct {
	Start   key.Binding
	Restart key.Binding
	Finish  key.Binding
	Delete  key.Binding
	Quit    key.Binding
}

func (k testKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Restart, k.Finish, k.Quit}
}

func (k testKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Start, k.Restart, k.Finish, k.Delete, k.Quit}}
}

type resultKeyMap struct {
	Restart key.Binding
	Quit    key.Binding
}

func (k resultKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Restart, k.Quit}
}

func (k resultKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newTestKeyMap() testKeyMap {
	return testKeyMap{
		Start:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start timer")),
		Restart: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "new test")),
		Finish:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "finish")),
		Delete:  key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func newResultKeyMap() resultKeyMap {
	return resultKeyMap{
		Restart: key.NewBinding(key.WithKeys("tab", "enter", "r"), key.WithHelp("tab/enter", "restart")),
		Quit:    key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("q/esc", "quit")),
	}
}
