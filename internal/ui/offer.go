package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/hearth/internal/state"
)

// openOffer switches to the offer view and starts loading the offer, its
// nearby offers and its reviews.
func (m *Model) openOffer(id string, from View) tea.Cmd {
	if m.currentView != ViewOffer {
		m.offerFrom = from
	}
	m.currentView = ViewOffer
	m.offerViewport.GotoTop()
	call := m.store.OpenOffer(m.ctx, id)
	m.refreshSnapshot()
	return awaitFetch("offer "+id, call)
}

// leaveOffer drops the offer stores when the offer view is left.
func (m *Model) leaveOffer() {
	if m.currentView != ViewOffer {
		return
	}
	m.modal = nil
	m.store.CloseOffer()
	m.refreshSnapshot()
}

// handleOfferKey processes keyboard input for the offer view.
func (m Model) handleOfferKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.snapshot.Offer

	switch {
	case key.Matches(msg, m.keys.Retry):
		if snap.ID != "" {
			return m, m.openOffer(snap.ID, m.offerFrom)
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleFavorite):
		if snap.Offer != nil {
			return m.toggleFavorite(*snap.Offer)
		}
		return m, nil

	case key.Matches(msg, m.keys.WriteReview):
		return m.openReviewForm()

	case key.Matches(msg, m.keys.OpenNearby):
		i, err := strconv.Atoi(msg.String())
		if err != nil || i < 1 || i > len(m.nearby) {
			return m, nil
		}
		return m, m.openOffer(m.nearby[i-1].ID, m.offerFrom)

	case key.Matches(msg, m.keys.Down):
		m.offerViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.offerViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Top):
		m.offerViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.offerViewport.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.offerViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.offerViewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.offerViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.offerViewport.PageUp()
	}
	return m, nil
}

func (m *Model) initOfferViewport() {
	m.offerViewport = viewport.New(max(m.width-4, 0), max(m.contentHeight()-2, 0))
}

// updateOfferViewport re-renders the offer details into the viewport.
func (m *Model) updateOfferViewport() {
	if !m.ready {
		return
	}
	m.offerViewport.Width = max(m.width-4, 0)
	m.offerViewport.Height = max(m.contentHeight()-2, 0)
	m.offerViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.offerViewport.SetContent(m.renderOfferContent(m.offerViewport.Width))
}

// renderOffer renders the offer view.
func (m Model) renderOffer() string {
	snap := m.snapshot.Offer
	styles := m.theme.Styles()

	title := "Offer"
	if snap.Offer != nil {
		title = snap.Offer.Title
	}

	var content string
	switch {
	case snap.Status == state.StatusNotFound:
		content = "\n  " + styles.WarningText.Bold(true).Render("404. Offer not found") + "\n\n  " +
			styles.MutedText.Render("Press esc to go back to the catalog")
	case snap.Offer == nil && snap.Status == state.StatusError:
		content = "\n  " + styles.DangerText.Render(snap.Err) + "\n\n  " +
			styles.MutedText.Render("Press r to retry")
	case snap.Offer == nil:
		content = "\n  " + m.spinner.View() + styles.MutedText.Render(" Loading offer...")
	default:
		content = m.offerViewport.View()
	}

	status := m.renderOfferStatus()
	return status + "\n" + m.renderTitledBox(title, content, m.width, m.contentHeight(), true)
}

func (m Model) renderOfferStatus() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	snap := m.snapshot

	parts := []string{bg.Render("Offer #"+snap.Offer.ID, styles.MutedText)}
	if snap.Offer.Offer != nil {
		parts = append(parts, bg.Render(snap.Offer.Offer.City.Name, styles.AccentText))
	}
	if snap.Reviews.SubmitStatus == state.StatusSuccess {
		parts = append(parts, bg.Render("Review posted", styles.SuccessText))
	}
	return bg.FillLine(bg.Space()+bg.Join(parts, "  "), m.width)
}

// renderOfferContent builds the scrollable offer details.
func (m Model) renderOfferContent(width int) string {
	snap := m.snapshot
	offer := snap.Offer.Offer
	if offer == nil {
		return ""
	}
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	var b strings.Builder

	line := func(s string) {
		b.WriteString(bg.FillLine(s, width))
		b.WriteString("\n")
	}
	heading := func(s string) {
		line("")
		line(bg.Render(s, styles.AccentText.Bold(true)))
	}

	// Summary
	headline := []string{bg.Render(offer.Title, styles.Text.Bold(true))}
	if offer.IsPremium {
		headline = append([]string{styles.Premium.Render("Premium")}, headline...)
	}
	line(bg.Join(headline, " "))

	flag := m.store.FavoriteFlag(*offer)
	var fav string
	switch pending := m.store.IsToggling(offer.ID); {
	case pending && flag:
		fav = bg.Render("♥ Saving to favorites…", styles.WarningText)
	case pending:
		fav = bg.Render("♡ Removing from favorites…", styles.WarningText)
	case flag:
		fav = bg.Render("♥ In favorites (f)", styles.FavoriteMark)
	default:
		fav = bg.Render("♡ Add to favorites (f)", styles.MutedText)
	}
	line(bg.Render(stars(offer.Rating), styles.WarningText) + bg.Space() +
		bg.Render(fmt.Sprintf("%.1f", offer.Rating), styles.Text) + bg.Spaces(3) + fav)

	line(bg.Join([]string{
		bg.Render(titleCase(offer.Type), styles.Text),
		bg.Render(plural(offer.Bedrooms, "Bedroom"), styles.Text),
		bg.Render(fmt.Sprintf("Max %s", plural(offer.MaxAdults, "adult")), styles.Text),
	}, " · "))
	line(bg.Render(formatPrice(offer.Price), styles.Text.Bold(true)) + bg.Render(" night", styles.MutedText))

	if len(offer.Goods) > 0 {
		heading("What's inside")
		line(bg.Render(strings.Join(offer.Goods, " · "), styles.Text))
	}

	heading("Meet the host")
	host := bg.Render(offer.Host.Name, styles.Text)
	if offer.Host.IsPro {
		host += bg.Space() + bg.Render("Pro", styles.InfoText)
	}
	line(host)
	for _, para := range wrapText(offer.Description, width) {
		line(bg.Render(para, styles.MutedText))
	}

	// Reviews
	heading(fmt.Sprintf("Reviews · %d", len(snap.Reviews.Reviews)))
	switch {
	case snap.Reviews.Status == state.StatusError:
		line(bg.Render(snap.Reviews.Err, styles.DangerText))
	case snap.Reviews.Status == state.StatusLoading && len(m.recent) == 0:
		line(m.spinner.View() + bg.Render(" Loading reviews...", styles.MutedText))
	case len(m.recent) == 0:
		line(bg.Render("No reviews yet", styles.FaintText))
	}
	for _, r := range m.recent {
		date := r.Date
		if t := r.ParsedDate(); !t.IsZero() {
			date = t.Format("January 2006")
		}
		line(bg.Render(r.User.Name, styles.Text.Bold(true)) + bg.Space() +
			bg.Render(stars(float64(r.Rating)), styles.WarningText) + bg.Space() +
			bg.Render(date, styles.FaintText))
		for _, para := range wrapText(r.Comment, width-2) {
			line(bg.Spaces(2) + bg.Render(para, styles.Text))
		}
	}
	if snap.Session.Auth == state.AuthAuthenticated {
		line("")
		line(bg.Render("Press w to write a review", styles.MutedText))
	}

	// Nearby
	heading("Other places in the neighbourhood")
	switch {
	case snap.Nearby.Status == state.StatusError:
		line(bg.Render(snap.Nearby.Err, styles.DangerText))
	case snap.Nearby.Status == state.StatusLoading && len(m.nearby) == 0:
		line(m.spinner.View() + bg.Render(" Loading nearby offers...", styles.MutedText))
	case len(m.nearby) == 0:
		line(bg.Render("Nothing nearby", styles.FaintText))
	}
	for i, o := range m.nearby {
		line(bg.Render(strconv.Itoa(i+1), styles.AccentText) + m.offerLine(o, width-1, false, m.theme.FocusBg))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// wrapText wraps text on word boundaries to width.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || width <= 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if lipgloss.Width(current)+1+lipgloss.Width(w) > width {
			lines = append(lines, current)
			current = w
			continue
		}
		current += " " + w
	}
	return append(lines, current)
}
