package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/desertthunder/statsdash/internal/session"
)

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	login   key.Binding
	load    key.Binding
	ack     key.Binding
	save    key.Binding
	section key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		login:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "login")),
		load:    key.NewBinding(key.WithKeys("enter", "r"), key.WithHelp("enter", "load")),
		ack:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "log in again")),
		save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		section: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next list")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// forActions returns the bindings for the legal triggers of a state, followed by quit.
func (k keyMap) forActions(actions []session.Action) []key.Binding {
	bindings := []key.Binding{}
	for _, a := range actions {
		switch a {
		case session.ActionLogin:
			bindings = append(bindings, k.login)
		case session.ActionLoad:
			bindings = append(bindings, k.load)
		case session.ActionAcknowledge:
			bindings = append(bindings, k.ack)
		}
	}
	return append(bindings, k.quit)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.login, k.load, k.ack},
		{k.save, k.section, k.quit},
	}
}
