package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the dashboard.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Dashboard
	Dismiss  key.Binding
	Range5m  key.Binding
	Range1h  key.Binding
	Range6h  key.Binding
	Range24h key.Binding
	ViewLogs key.Binding

	// Logs
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	ToggleFollow key.Binding
	CycleLevel   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to dashboard"),
		),

		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Dismiss banner"),
		),
		Range5m: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Chart 5 min"),
		),
		Range1h: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Chart 1 hour"),
		),
		Range6h: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Chart 6 hours"),
		),
		Range24h: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Chart 24 hours"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Toggle logs"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "Page down"),
		),
		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle follow"),
		),
		CycleLevel: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle level filter"),
		),
	}
}

type rangeBinding struct {
	binding key.Binding
	key     string
}

// rangeBindings pairs range bindings with history range keys, in display
// order.
func (k keyMap) rangeBindings() []rangeBinding {
	return []rangeBinding{
		{k.Range5m, "5m"},
		{k.Range1h, "1h"},
		{k.Range6h, "6h"},
		{k.Range24h, "24h"},
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Dismiss, k.Range5m, k.Range1h, k.Range6h, k.Range24h, k.ViewLogs, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Dashboard
		{k.Dismiss, k.Range5m, k.Range1h, k.Range6h, k.Range24h},
		// Logs
		{k.ViewLogs, k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown, k.ToggleFollow, k.CycleLevel},
		// General
		{k.CycleTheme, k.Escape, k.Help, k.Quit},
	}
}
