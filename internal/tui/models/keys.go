// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"github.com/charmbracelet/bubbles/key"
)

// SearchKeyMap defines key bindings for the search screen.
type SearchKeyMap struct {
	Submit      key.Binding
	FocusGrid   key.Binding
	FocusInput  key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Home        key.Binding
	End         key.Binding
	Open        key.Binding
	Filter      key.Binding
	ToggleCore  key.Binding
	ToggleExtra key.Binding
	ToggleMulti key.Binding
	ToggleAUR   key.Binding
	Clear       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultSearchKeyMap returns the default search key bindings.
func DefaultSearchKeyMap() SearchKeyMap {
	return SearchKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		FocusGrid: key.NewBinding(
			key.WithKeys("tab", "down", "esc"),
			key.WithHelp("tab", "results"),
		),
		FocusInput: key.NewBinding(
			key.WithKeys("/", "tab"),
			key.WithHelp("/", "search"),
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
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "repositories"),
		),
		ToggleCore: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "core"),
		),
		ToggleExtra: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "extra"),
		),
		ToggleMulti: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "multilib"),
		),
		ToggleAUR: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "AUR"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filters"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k SearchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.FocusInput, k.Filter, k.Clear, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k SearchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.PageUp, k.PageDown, k.Home, k.End},
		{k.ToggleCore, k.ToggleExtra, k.ToggleMulti, k.ToggleAUR},
		{k.Open, k.FocusInput, k.Filter, k.Clear, k.Quit},
	}
}

// inputHelpKeys is the help shown while the query input has focus.
type inputHelpKeys SearchKeyMap

// ShortHelp implements help.KeyMap.
func (k inputHelpKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.FocusGrid}
}

// FullHelp implements help.KeyMap.
func (k inputHelpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DetailsKeyMap defines key bindings for the details screen.
type DetailsKeyMap struct {
	Install  key.Binding
	Remove   key.Binding
	Back     key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultDetailsKeyMap returns the default details key bindings.
func DefaultDetailsKeyMap() DetailsKeyMap {
	return DetailsKeyMap{
		Install: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "install"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", " "),
			key.WithHelp("pgdn", "page down"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k DetailsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Install, k.Remove, k.Up, k.Down, k.Back}
}

// FullHelp implements help.KeyMap.
func (k DetailsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Install, k.Remove, k.Back},
		{k.Up, k.Down, k.PageUp, k.PageDown},
	}
}
