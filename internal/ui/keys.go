package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding

	// View switching
	ViewSessions  key.Binding
	ViewSpeakers  key.Binding
	ViewFavorites key.Binding
	ViewLogs      key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Data actions
	ToggleFavorite key.Binding
	Reload         key.Binding
	RefreshCounts  key.Binding

	// Logs actions
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
			key.WithKeys("?", "h"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),

		ViewSessions: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Sessions"),
		),
		ViewSpeakers: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Speakers"),
		),
		ViewFavorites: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Favorites"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Logs"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "Up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "Down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Bottom"),
		),

		ToggleFavorite: key.NewBinding(
			key.WithKeys("f", " "),
			key.WithHelp("f", "Toggle favorite"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload sessions and speakers"),
		),
		RefreshCounts: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Refresh favorite counts"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Toggle follow"),
		),
		CycleLevel: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Cycle log level"),
		),
	}
}

// helpGroups returns the bindings shown in the help overlay.
func (k keyMap) helpGroups() [][]key.Binding {
	return [][]key.Binding{
		{k.ViewSessions, k.ViewSpeakers, k.ViewFavorites, k.ViewLogs, k.Tab, k.ShiftTab},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.ToggleFavorite, k.Reload, k.RefreshCounts},
		{k.ToggleFollow, k.CycleLevel, k.CycleTheme, k.Help, k.Quit},
	}
}
