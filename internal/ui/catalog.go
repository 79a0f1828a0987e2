package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/hearth/internal/rental"
	"github.com/five82/hearth/internal/state"
)

// handleCatalogKey processes keyboard input for the catalog view.
func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextCity):
		m.shiftCity(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevCity):
		m.shiftCity(-1)
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		m.sortMode = m.sortMode.Next()
		m.selectedRow = 0
		m.savePrefs()
		m.refreshSnapshot()
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		return m, m.fetchOffers()

	case key.Matches(msg, m.keys.Open):
		if offer, ok := m.selectedOffer(); ok {
			return m, m.openOffer(offer.ID, ViewCatalog)
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleFavorite):
		if offer, ok := m.selectedOffer(); ok {
			return m.toggleFavorite(offer)
		}
		return m, nil
	}

	if row, ok := m.moveSelection(msg, m.selectedRow, len(m.offers)); ok {
		m.selectedRow = row
		m.updateMapPoints()
	}
	return m, nil
}

// moveSelection applies a navigation key to a list cursor. It reports false
// for keys that are not navigation.
func (m Model) moveSelection(msg tea.KeyMsg, current, count int) (int, bool) {
	page := max(m.contentHeight()-2, 1)
	switch {
	case key.Matches(msg, m.keys.Down):
		current++
	case key.Matches(msg, m.keys.Up):
		current--
	case key.Matches(msg, m.keys.Top):
		current = 0
	case key.Matches(msg, m.keys.Bottom):
		current = count - 1
	case key.Matches(msg, m.keys.PageDown):
		current += page
	case key.Matches(msg, m.keys.PageUp):
		current -= page
	case key.Matches(msg, m.keys.HalfPageDown):
		current += page / 2
	case key.Matches(msg, m.keys.HalfPageUp):
		current -= page / 2
	default:
		return current, false
	}
	return clampIndex(current, count), true
}

// shiftCity moves the city selection by delta, wrapping around.
func (m *Model) shiftCity(delta int) {
	cities := m.store.Catalog.Cities()
	if len(cities) == 0 {
		return
	}
	current := 0
	for i, c := range cities {
		if c == m.store.Catalog.City() {
			current = i
			break
		}
	}
	next := (current + delta + len(cities)) % len(cities)
	m.store.Catalog.SetCity(cities[next])
	m.selectedRow = 0
	m.savePrefs()
	m.refreshSnapshot()
}

func (m *Model) fetchOffers() tea.Cmd {
	call := m.store.Catalog.FetchOffers(m.ctx)
	m.refreshSnapshot()
	return awaitFetch("offers", call)
}

func (m Model) selectedOffer() (rental.Offer, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.offers) {
		return rental.Offer{}, false
	}
	return m.offers[m.selectedRow], true
}

func (m *Model) updateMapPoints() {
	activeID := ""
	if offer, ok := m.selectedOffer(); ok {
		activeID = offer.ID
	}
	m.points = state.MapPoints(m.offers, activeID)
}

// renderCatalog renders the city tabs, the offer list and the map pane.
func (m Model) renderCatalog() string {
	boxHeight := m.contentHeight()
	snap := m.snapshot.Catalog

	listWidth := m.width
	showMap := m.width >= LayoutCompactWidth
	if showMap {
		listWidth = m.width - MapPaneWidth
	}

	title := fmt.Sprintf("%s to stay in %s · %s", plural(len(m.offers), "place"), snap.City, m.sortMode.Label())
	content := m.renderOfferList(listWidth-2, boxHeight-2)
	box := m.renderTitledBox(title, content, listWidth, boxHeight, true)
	if showMap {
		mapBox := m.renderTitledBox("Map", m.renderMapPoints(MapPaneWidth-2), MapPaneWidth, boxHeight, false)
		box = lipgloss.JoinHorizontal(lipgloss.Top, box, mapBox)
	}
	return m.renderCityTabs() + "\n" + box
}

func (m Model) renderCityTabs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	current := m.snapshot.Catalog.City

	tabs := make([]string, 0, len(state.DefaultCities))
	for _, city := range m.store.Catalog.Cities() {
		if city == current {
			tabs = append(tabs, styles.Selected.Bold(true).Padding(0, 1).Render(city))
			continue
		}
		tabs = append(tabs, bg.Render(" "+city+" ", styles.MutedText))
	}
	return bg.FillLine(bg.Space()+strings.Join(tabs, bg.Space()), m.width)
}

// renderOfferList renders the visible window of the catalog list.
func (m Model) renderOfferList(width, rows int) string {
	snap := m.snapshot.Catalog
	styles := m.theme.Styles()

	if len(m.offers) == 0 {
		switch snap.Status {
		case state.StatusIdle, state.StatusLoading:
			return "\n  " + m.spinner.View() + styles.MutedText.Render(" Loading offers...")
		case state.StatusError:
			return "\n  " + styles.DangerText.Render(snap.Err) + "\n\n  " +
				styles.MutedText.Render("Press r to retry")
		default:
			return "\n  " + styles.Text.Bold(true).Render("No places to stay available") + "\n\n  " +
				styles.MutedText.Render("We could not find any property available at the moment in "+snap.City)
		}
	}

	lines := make([]string, 0, rows)
	start := max(m.selectedRow-rows+1, 0)
	for i := start; i < len(m.offers) && len(lines) < rows; i++ {
		lines = append(lines, m.offerLine(m.offers[i], width, i == m.selectedRow, m.theme.FocusBg))
	}
	if snap.Status == state.StatusError && len(lines) < rows {
		lines = append(lines, " "+styles.DangerText.Render(snap.Err))
	}
	return strings.Join(lines, "\n")
}

// offerLine renders one offer as a list row.
func (m Model) offerLine(o rental.Offer, width int, selected bool, bgColor string) string {
	if selected {
		bgColor = m.theme.SelectionBg
	}
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	// A toggle in flight shows the tentative flag followed by a marker.
	flag := m.store.FavoriteFlag(o)
	fav := bg.Render(ternary(flag, "♥", "♡"), ternary(flag, styles.FavoriteMark, styles.FaintText))
	if m.store.IsToggling(o.ID) {
		fav += bg.Render("…", styles.WarningText)
	} else {
		fav += bg.Space()
	}

	parts := []string{
		bg.Render(ternary(selected, "▸", " "), styles.AccentText),
		fav,
		bg.Render(padRight(formatPrice(o.Price), 5), styles.Text.Bold(true)),
		bg.Render(stars(o.Rating), styles.WarningText),
		bg.Render(truncate(o.Title, max(width-32, 10)), styles.Text),
	}
	if o.IsPremium {
		parts = append(parts, styles.Premium.Render("Premium"))
	}
	if m.width >= LayoutWideWidth {
		parts = append(parts, bg.Render(titleCase(o.Type), styles.MutedText))
	}
	return bg.FillLine(bg.Join(parts, " "), width)
}

// renderMapPoints lists the de-duplicated map pins of the current city.
func (m Model) renderMapPoints(width int) string {
	styles := m.theme.Styles()
	if len(m.offers) == 0 {
		return styles.FaintText.Render(" No pins")
	}

	center := m.offers[0].City.Location
	lines := []string{
		styles.MutedText.Render(fmt.Sprintf(" Center %.4f, %.4f z%d", center.Latitude, center.Longitude, center.Zoom)),
		"",
	}
	for _, p := range m.points {
		marker := styles.FaintText.Render("●")
		if p.Active {
			marker = styles.AccentText.Bold(true).Render("◉")
		}
		line := fmt.Sprintf(" %s %.5f, %.5f", marker, p.Location.Latitude, p.Location.Longitude)
		if n := len(p.OfferIDs); n > 1 {
			line += styles.WarningText.Render(fmt.Sprintf(" ×%d", n))
		}
		lines = append(lines, ansi.Truncate(line, width, "…"))
	}
	return strings.Join(lines, "\n")
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐. Focused boxes use the focus colors. Content
// lines are cut to the inner width and padded or cut to the box height.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(bg.bg)
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = ansi.Truncate(contentLines[i], innerWidth, "")
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}
