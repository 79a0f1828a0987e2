package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/hearth/internal/state"
)

// renderHeader renders the status bar: logo, session, city and the catalog
// request status.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	snap := m.snapshot

	parts := []string{bg.Render("hearth", styles.Logo)}

	// Session
	switch snap.Session.Auth {
	case state.AuthAuthenticated:
		email := "signed in"
		if snap.Session.Profile != nil {
			email = snap.Session.Profile.Email
		}
		parts = append(parts, bg.Render("●", styles.SuccessText)+bg.Space()+
			bg.Render(truncate(email, ternary(compact, 18, 32)), styles.Text))
	case state.AuthAnonymous:
		parts = append(parts, bg.Render("○ Guest", styles.MutedText))
	default:
		parts = append(parts, bg.Render("◌ Checking session", styles.WarningText))
	}

	// City and offer count
	parts = append(parts,
		bg.Render("City:", styles.MutedText)+bg.Space()+
			bg.Render(snap.Catalog.City, styles.AccentText)+bg.Space()+
			bg.Render(fmt.Sprintf("(%d)", len(m.offers)), styles.Text))

	if snap.Session.Auth == state.AuthAuthenticated {
		count := len(snap.Favorites.Offers)
		favStyle := ternary(count > 0, styles.FavoriteMark, styles.MutedText)
		parts = append(parts, bg.Render("♥", favStyle)+bg.Space()+bg.Render(fmt.Sprintf("%d", count), styles.Text))
	}

	// Catalog request status badge
	if snap.Catalog.Status != state.StatusSuccess {
		parts = append(parts, styles.StatusStyle(snap.Catalog.Status).Render(strings.ToUpper(snap.Catalog.Status.String())))
	}

	if !compact {
		if ts := m.formatTimestamp(); ts != "" {
			parts = append(parts, bg.Render(ts, styles.MutedText))
		}
	}

	// Transient notice
	if m.notice != "" {
		style := ternary(m.noticeDanger, styles.DangerText, styles.InfoText)
		parts = append(parts, bg.Render("!", style.Bold(true))+bg.Space()+
			bg.Render(truncate(m.notice, ternary(compact, 40, 80)), style))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// formatTimestamp formats the last snapshot time with relative indicator.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() {
		return ""
	}

	timeSince := time.Since(m.lastUpdated)
	timeStr := m.lastUpdated.Format("15:04:05")

	if timeSince < time.Minute {
		timeStr += " (now)"
	} else if timeSince < time.Hour {
		timeStr += fmt.Sprintf(" (%dm ago)", int(timeSince.Minutes()))
	}

	return timeStr
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	signedIn := m.snapshot.Session.Auth == state.AuthAuthenticated

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewOffer:
		commands = []cmd{
			{"f", "Favorite"},
			{"1-3", "Nearby"},
			{"j/k", "Scroll"},
			{"esc", "Back"},
		}
		if signedIn {
			commands = append([]cmd{{"w", "Review"}}, commands...)
		}
	case ViewFavorites:
		commands = []cmd{
			{"enter", "Open"},
			{"f", "Remove"},
			{"j/k", "Navigate"},
			{"c", "Catalog"},
		}
	case ViewLogin:
		commands = []cmd{
			{"enter", "Sign in"},
			{"tab", "Field"},
			{"esc", "Back"},
		}
	case ViewLogs:
		commands = []cmd{
			{"Space", ternary(m.logState.follow, "Pause", "Follow")},
			{"L", "Level"},
			{"r", "Reload"},
			{"c", "Catalog"},
		}
	default: // ViewCatalog
		commands = []cmd{
			{"tab", "City"},
			{"s", m.sortMode.Label()},
			{"enter", "Open"},
			{"f", "Favorite"},
			{"v", "Saved"},
		}
	}

	if m.currentView != ViewLogin {
		commands = append(commands, ternary(signedIn, cmd{"X", "Sign out"}, cmd{"a", "Sign in"}))
		commands = append(commands, cmd{"?", "More"})
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
