package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	Retry      key.Binding

	// View switching
	ViewCatalog   key.Binding
	ViewFavorites key.Binding
	ViewLogs      key.Binding
	SignIn        key.Binding
	SignOut       key.Binding

	// Catalog actions
	NextCity       key.Binding
	PrevCity       key.Binding
	CycleSort      key.Binding
	Open           key.Binding
	ToggleFavorite key.Binding

	// Offer actions
	WriteReview key.Binding
	OpenNearby  key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Logs actions
	ToggleFollow key.Binding
	CycleLevel   key.Binding

	// Forms
	NextField   key.Binding
	PrevField   key.Binding
	Submit      key.Binding
	RatingUp    key.Binding
	RatingDown  key.Binding
	SubmitLogin key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
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
			key.WithHelp("esc", "Back"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),

		// View switching
		ViewCatalog: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Catalog"),
		),
		ViewFavorites: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Favorites"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Logs"),
		),
		SignIn: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Sign in"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Sign out"),
		),

		// Catalog actions
		NextCity: key.NewBinding(
			key.WithKeys("tab", "right"),
			key.WithHelp("tab", "Next city"),
		),
		PrevCity: key.NewBinding(
			key.WithKeys("shift+tab", "left"),
			key.WithHelp("shift+tab", "Previous city"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Cycle sort"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open offer"),
		),
		ToggleFavorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Toggle favorite"),
		),

		// Offer actions
		WriteReview: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Write review"),
		),
		OpenNearby: key.NewBinding(
			key.WithKeys("1", "2", "3"),
			key.WithHelp("1-3", "Open nearby offer"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
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
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		// Logs actions
		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),
		CycleLevel: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Cycle minimum level"),
		),

		// Forms
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Post review"),
		),
		RatingUp: key.NewBinding(
			key.WithKeys("+", "right", "l"),
			key.WithHelp("+", "More stars"),
		),
		RatingDown: key.NewBinding(
			key.WithKeys("-", "left", "h"),
			key.WithHelp("-", "Fewer stars"),
		),
		SubmitLogin: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Sign in"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.ViewCatalog, k.ViewFavorites, k.ViewLogs, k.Escape},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.HalfPageDown, k.HalfPageUp},
		// Catalog
		{k.NextCity, k.PrevCity, k.CycleSort, k.Open, k.ToggleFavorite},
		// Offer
		{k.WriteReview, k.OpenNearby},
		// Logs
		{k.ToggleFollow, k.CycleLevel},
		// General
		{k.SignIn, k.SignOut, k.Retry, k.CycleTheme, k.Help, k.Quit},
	}
}
