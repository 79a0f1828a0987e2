package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/hearth/internal/rental"
	"github.com/five82/hearth/internal/state"
)

const loginWidth = 44

type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
)

// loginForm holds the two sign-in inputs.
type loginForm struct {
	email    textinput.Model
	password textinput.Model
	focus    loginField
	reason   string // why the user was sent here, shown above the form
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 100
	email.Prompt = ""

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 100
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	f := loginForm{email: email, password: password}
	f.focusField(fieldEmail)
	return f
}

func (f *loginForm) focusField(field loginField) {
	f.focus = field
	if field == fieldEmail {
		f.email.Focus()
		f.password.Blur()
		return
	}
	f.password.Focus()
	f.email.Blur()
}

func (f *loginForm) resize(width int) {
	w := min(loginWidth, max(width-8, 10)) - 4
	f.email.Width = w
	f.password.Width = w
}

func (f loginForm) credentials() rental.Credentials {
	return rental.Credentials{
		Email:    strings.TrimSpace(f.email.Value()),
		Password: f.password.Value(),
	}
}

// update forwards msg to the focused input.
func (f loginForm) update(msg tea.Msg) (loginForm, tea.Cmd) {
	var cmd tea.Cmd
	if f.focus == fieldEmail {
		f.email, cmd = f.email.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return f, cmd
}

// openLogin shows the sign-in view, remembering where to go back to.
func (m *Model) openLogin(reason string) {
	if m.currentView != ViewLogin {
		m.returnView = m.currentView
	}
	m.modal = nil
	m.currentView = ViewLogin
	m.login.reason = reason
	m.login.focusField(fieldEmail)
}

// handleLoginKey processes keyboard input for the sign-in view.
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = m.returnView
		m.login.password.SetValue("")
		return m, nil

	case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.PrevField):
		m.login.focusField(ternary(m.login.focus == fieldEmail, fieldPassword, fieldEmail))
		return m, nil

	case key.Matches(msg, m.keys.SubmitLogin):
		if m.login.focus == fieldEmail {
			m.login.focusField(fieldPassword)
			return m, nil
		}
		if m.snapshot.Session.Status == state.StatusLoading {
			return m, nil
		}
		call := m.store.Session.Login(m.ctx, m.login.credentials())
		m.refreshSnapshot()
		return m, await(call, func(err error) tea.Msg { return loginDoneMsg{err: err} })
	}

	var cmd tea.Cmd
	m.login, cmd = m.login.update(msg)
	return m, cmd
}

func (m Model) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	m.refreshSnapshot()
	switch {
	case msg.err == nil:
	case errors.Is(msg.err, context.Canceled):
		return m, nil
	default:
		// The session snapshot carries the message for the form.
		m.login.password.SetValue("")
		return m, nil
	}

	m.login = newLoginForm()
	m.login.resize(m.width)
	if profile := m.snapshot.Session.Profile; profile != nil {
		m.setNotice("Signed in as "+profile.Email, false)
	}
	m.currentView = m.returnView
	if m.currentView == ViewLogin {
		m.currentView = ViewCatalog
	}

	// Favorite flags depend on who is asking.
	cmds := []tea.Cmd{m.loadFavorites(), m.fetchOffers()}
	if m.currentView == ViewOffer && m.snapshot.Offer.ID != "" {
		cmds = append(cmds, m.openOffer(m.snapshot.Offer.ID, m.offerFrom))
	}
	return m, tea.Batch(cmds...)
}

// logout signs out and reloads the catalog without favorite flags.
func (m Model) logout() (tea.Model, tea.Cmd) {
	if m.snapshot.Session.Auth != state.AuthAuthenticated {
		return m, nil
	}
	call := m.store.Logout(m.ctx)
	m.refreshSnapshot()
	return m, await(call, func(state.AuthStatus) tea.Msg { return logoutDoneMsg{} })
}

func (m Model) handleLogoutDone() (tea.Model, tea.Cmd) {
	m.setNotice("Signed out", false)
	m.refreshSnapshot()
	cmds := []tea.Cmd{m.fetchOffers()}
	if m.currentView == ViewOffer && m.snapshot.Offer.ID != "" {
		cmds = append(cmds, m.openOffer(m.snapshot.Offer.ID, m.offerFrom))
	}
	return m, tea.Batch(cmds...)
}

// renderLogin renders the sign-in form centred in the content area.
func (m Model) renderLogin() string {
	styles := m.theme.Styles()
	snap := m.snapshot.Session

	label := func(text string, field loginField) string {
		if m.login.focus == field {
			return styles.AccentText.Bold(true).Render(text)
		}
		return styles.MutedText.Render(text)
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Sign in"))
	b.WriteString("\n\n")
	if m.login.reason != "" {
		b.WriteString(styles.WarningText.Render(m.login.reason))
		b.WriteString("\n\n")
	}
	b.WriteString(label("E-mail", fieldEmail))
	b.WriteString("\n")
	b.WriteString(m.login.email.View())
	b.WriteString("\n\n")
	b.WriteString(label("Password", fieldPassword))
	b.WriteString("\n")
	b.WriteString(m.login.password.View())
	b.WriteString("\n\n")

	switch {
	case snap.Status == state.StatusLoading:
		b.WriteString(m.spinner.View() + styles.MutedText.Render(" Signing in..."))
	case snap.Err != "":
		b.WriteString(styles.DangerText.Render(snap.Err))
	default:
		b.WriteString(styles.FaintText.Render("enter: sign in · tab: switch field · esc: back"))
	}

	form := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2).
		Width(min(loginWidth, max(m.width-4, 10))).
		Render(b.String())

	return "\n" + lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, form)
}
