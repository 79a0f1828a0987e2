package ui

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/hearth/internal/rental"
	"github.com/five82/hearth/internal/state"
)

const reviewFormWidth = 64

type reviewField int

const (
	fieldRating reviewField = iota
	fieldComment
)

var ratingTitles = [MaxRating + 1]string{"", "terribly", "badly", "not bad", "good", "perfect"}

// reviewForm is the modal for posting a review of one offer.
type reviewForm struct {
	offerID string
	title   string
	rating  int
	comment textarea.Model
	focus   reviewField

	// Mirrors of the reviews store, refreshed on every snapshot.
	status state.RequestStatus
	err    string
}

func newReviewForm(offer rental.Offer, width int) *reviewForm {
	ta := textarea.New()
	ta.Placeholder = "Tell how was your stay, what you like and what can be improved"
	ta.CharLimit = ReviewMaxLength
	ta.ShowLineNumbers = false
	ta.SetWidth(min(reviewFormWidth, max(width-8, 20)) - 6)
	ta.SetHeight(5)

	return &reviewForm{offerID: offer.ID, title: offer.Title, comment: ta}
}

func (f *reviewForm) setFocus(field reviewField) {
	f.focus = field
	if field == fieldComment {
		f.comment.Focus()
		return
	}
	f.comment.Blur()
}

// valid reports whether the backend would accept the draft.
func (f *reviewForm) valid() bool {
	n := utf8.RuneCountInString(strings.TrimSpace(f.comment.Value()))
	return f.rating >= 1 && f.rating <= MaxRating && n >= ReviewMinLength && n <= ReviewMaxLength
}

func (f *reviewForm) draft() rental.ReviewDraft {
	return rental.ReviewDraft{
		OfferID: f.offerID,
		Comment: strings.TrimSpace(f.comment.Value()),
		Rating:  f.rating,
	}
}

func (f *reviewForm) sync(snap state.ReviewsSnapshot) {
	f.status = snap.SubmitStatus
	f.err = snap.SubmitErr
}

// Update implements Modal.
func (f *reviewForm) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		f.comment, cmd = f.comment.Update(msg)
		return f, cmd, false
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		return f, nil, true

	case key.Matches(keyMsg, keys.Submit):
		if f.status == state.StatusLoading || !f.valid() {
			return f, nil, false
		}
		return f, emit(reviewSubmitMsg{draft: f.draft()}), false

	case key.Matches(keyMsg, keys.NextField), key.Matches(keyMsg, keys.PrevField):
		f.setFocus(ternary(f.focus == fieldRating, fieldComment, fieldRating))
		return f, nil, false
	}

	if f.status == state.StatusLoading {
		return f, nil, false
	}

	if f.focus == fieldRating {
		before := f.rating
		switch s := keyMsg.String(); {
		case len(s) == 1 && s[0] >= '1' && s[0] <= '0'+MaxRating:
			f.rating = int(s[0] - '0')
		case key.Matches(keyMsg, keys.RatingUp):
			f.rating = min(f.rating+1, MaxRating)
		case key.Matches(keyMsg, keys.RatingDown):
			f.rating = max(f.rating-1, 1)
		}
		if f.rating != before {
			return f, emit(reviewEditedMsg{}), false
		}
		return f, nil, false
	}

	before := f.comment.Value()
	var cmd tea.Cmd
	f.comment, cmd = f.comment.Update(msg)
	if f.comment.Value() != before {
		cmd = tea.Batch(cmd, emit(reviewEditedMsg{}))
	}
	return f, cmd, false
}

// View implements Modal.
func (f *reviewForm) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Your review"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(truncate(f.title, reviewFormWidth-8)))
	b.WriteString("\n\n")

	ratingLabel := styles.MutedText.Render("Rating")
	if f.focus == fieldRating {
		ratingLabel = styles.AccentText.Bold(true).Render("Rating")
	}
	b.WriteString(ratingLabel + "  " + styles.WarningText.Render(stars(float64(f.rating))))
	if f.rating > 0 {
		b.WriteString("  " + styles.FaintText.Render(ratingTitles[f.rating]))
	}
	b.WriteString("\n\n")
	b.WriteString(f.comment.View())
	b.WriteString("\n")

	n := utf8.RuneCountInString(strings.TrimSpace(f.comment.Value()))
	counter := fmt.Sprintf("%d/%d", n, ReviewMaxLength)
	if n < ReviewMinLength {
		counter += fmt.Sprintf(" (at least %d)", ReviewMinLength)
	}
	b.WriteString(styles.FaintText.Render(counter))
	b.WriteString("\n\n")

	switch {
	case f.status == state.StatusLoading:
		b.WriteString(styles.MutedText.Render("Posting..."))
	case f.err != "":
		b.WriteString(styles.DangerText.Render(f.err))
	case f.valid():
		b.WriteString(styles.SuccessText.Render("ctrl+s to post"))
	default:
		b.WriteString(styles.FaintText.Render("Pick a rating and describe your stay in at least 50 characters"))
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(min(reviewFormWidth, max(width-4, 20))).
		Render(b.String())

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// openReviewForm opens the review modal for the current offer. Guests are
// sent to the sign-in view instead.
func (m Model) openReviewForm() (tea.Model, tea.Cmd) {
	offer := m.snapshot.Offer.Offer
	if offer == nil {
		return m, nil
	}
	switch m.snapshot.Session.Auth {
	case state.AuthUnknown:
		m.setNotice("Checking your session. Try again in a moment.", false)
		return m, nil
	case state.AuthAnonymous:
		m.openLogin("Sign in to write a review")
		return m, nil
	}
	m.store.Reviews.DropSubmissionStatus()
	m.refreshSnapshot()
	form := newReviewForm(*offer, m.width)
	form.sync(m.snapshot.Reviews)
	m.modal = form
	return m, nil
}

func (m Model) submitReview(draft rental.ReviewDraft) (tea.Model, tea.Cmd) {
	call := m.store.Reviews.SubmitReview(m.ctx, draft)
	m.refreshSnapshot()
	return m, await(call, func(err error) tea.Msg { return submitDoneMsg{err: err} })
}

func (m Model) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	m.refreshSnapshot()
	switch {
	case msg.err == nil:
		m.modal = nil
		m.setNotice("Review posted", false)
	case errors.Is(msg.err, state.RejectUnauthorized):
		m.openLogin("Your session expired. Sign in to post the review")
	}
	// Other failures stay on the form through the reviews snapshot.
	return m, nil
}
