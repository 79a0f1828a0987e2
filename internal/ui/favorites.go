package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/hearth/internal/rental"
	"github.com/five82/hearth/internal/state"
)

// loadFavorites refreshes the favorites list for a signed-in user. It is a
// no-op for guests and while a fetch is already running.
func (m *Model) loadFavorites() tea.Cmd {
	if m.snapshot.Session.Auth != state.AuthAuthenticated ||
		m.snapshot.Favorites.Status == state.StatusLoading {
		return nil
	}
	call := m.store.Favorites.FetchFavorites(m.ctx)
	m.refreshSnapshot()
	return awaitFetch("favorites", call)
}

// toggleFavorite flips the favorite flag of offer as currently displayed.
func (m Model) toggleFavorite(offer rental.Offer) (tea.Model, tea.Cmd) {
	want := !m.store.FavoriteFlag(offer)
	call := m.store.ToggleFavorite(m.ctx, offer.ID, want)
	m.refreshSnapshot()
	return m, await(call, func(r state.ToggleResult) tea.Msg {
		return toggleDoneMsg{offerID: offer.ID, result: r}
	})
}

func (m Model) handleToggleDone(msg toggleDoneMsg) (tea.Model, tea.Cmd) {
	err := msg.result.Err
	switch {
	case err == nil:
		m.setNotice(ternary(msg.result.Offer.IsFavorite, "Saved to favorites", "Removed from favorites"), false)
	case errors.Is(err, state.RejectUnauthorized):
		m.openLogin("Sign in to save favorites")
	case errors.Is(err, context.Canceled):
	default:
		m.setNotice(err.Error(), true)
	}
	m.refreshSnapshot()
	return m, nil
}

// handleFavoritesKey processes keyboard input for the favorites view.
func (m Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Retry):
		return m, m.loadFavorites()

	case key.Matches(msg, m.keys.Open):
		if offer, ok := m.selectedFavorite(); ok {
			return m, m.openOffer(offer.ID, ViewFavorites)
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleFavorite):
		if offer, ok := m.selectedFavorite(); ok {
			return m.toggleFavorite(offer)
		}
		return m, nil
	}

	if row, ok := m.moveSelection(msg, m.favSelected, countOffers(m.favGroups)); ok {
		m.favSelected = row
	}
	return m, nil
}

func (m Model) selectedFavorite() (rental.Offer, bool) {
	i := m.favSelected
	for _, g := range m.favGroups {
		if i < len(g.Offers) {
			return g.Offers[i], true
		}
		i -= len(g.Offers)
	}
	return rental.Offer{}, false
}

func countOffers(groups []state.CityGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Offers)
	}
	return n
}

// renderFavorites renders the saved offers grouped by city.
func (m Model) renderFavorites() string {
	snap := m.snapshot.Favorites
	styles := m.theme.Styles()
	boxHeight := m.contentHeight()
	width := m.width - 2
	rows := boxHeight - 2
	total := countOffers(m.favGroups)

	status := m.renderFavoritesStatus(total)

	var content string
	switch {
	case m.snapshot.Session.Auth == state.AuthUnknown:
		content = "\n  " + m.spinner.View() + styles.MutedText.Render(" Checking your session...")
	case m.snapshot.Session.Auth != state.AuthAuthenticated:
		content = "\n  " + styles.Text.Bold(true).Render("Sign in to see your saved places") + "\n\n  " +
			styles.MutedText.Render("Press a to sign in")
	case total == 0 && snap.Status == state.StatusLoading:
		content = "\n  " + m.spinner.View() + styles.MutedText.Render(" Loading favorites...")
	case total == 0 && snap.Status == state.StatusError:
		content = "\n  " + styles.DangerText.Render(snap.Err) + "\n\n  " +
			styles.MutedText.Render("Press r to retry")
	case total == 0:
		content = "\n  " + styles.Text.Bold(true).Render("Nothing yet saved.") + "\n\n  " +
			styles.MutedText.Render("Save properties to narrow down search or plan your future trips.")
	default:
		var lines []string
		selectedLine := 0
		i := 0
		for _, g := range m.favGroups {
			lines = append(lines, " "+styles.AccentText.Bold(true).Render(g.City))
			for _, o := range g.Offers {
				if i == m.favSelected {
					selectedLine = len(lines)
				}
				lines = append(lines, m.offerLine(o, width, i == m.favSelected, m.theme.FocusBg))
				i++
			}
		}
		start := max(selectedLine-rows+1, 0)
		content = strings.Join(lines[start:], "\n")
	}

	return status + "\n" + m.renderTitledBox("Saved listing", content, m.width, boxHeight, true)
}

func (m Model) renderFavoritesStatus(total int) string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	parts := []string{bg.Render(plural(total, "saved place"), styles.MutedText)}
	if n := len(m.favGroups); n > 0 {
		parts = append(parts, bg.Render(ternary(n == 1, "1 city", fmt.Sprintf("%d cities", n)), styles.MutedText))
	}
	return bg.FillLine(bg.Space()+bg.Join(parts, " · "), m.width)
}
