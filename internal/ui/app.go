package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/hearth/internal/config"
	"github.com/five82/hearth/internal/prefs"
	"github.com/five82/hearth/internal/rental"
	"github.com/five82/hearth/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewCatalog View = iota
	ViewOffer
	ViewFavorites
	ViewLogin
	ViewLogs
)

func (v View) String() string {
	switch v {
	case ViewOffer:
		return "offer"
	case ViewFavorites:
		return "favorites"
	case ViewLogin:
		return "login"
	case ViewLogs:
		return "logs"
	default:
		return "catalog"
	}
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Config    *config.Config
	Logger    *slog.Logger
	Prefs     prefs.Prefs
	PrefsPath string
	Tick      time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	config    *config.Config
	logger    *slog.Logger
	keys      keyMap
	prefsPath string
	tick      time.Duration

	// UI state
	theme       Theme
	currentView View
	returnView  View // where a finished sign-in goes back to
	offerFrom   View // where esc leaves the offer view to
	width       int
	height      int
	ready       bool
	spinner     spinner.Model

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Catalog state
	sortMode    state.SortMode
	offers      []rental.Offer
	points      []state.MapPoint
	selectedRow int

	// Favorites state
	favGroups   []state.CityGroup
	favSelected int

	// Offer state
	offerViewport viewport.Model
	nearby        []rental.Offer
	recent        []rental.Review

	// Login form
	login loginForm

	// Log state
	logViewport viewport.Model
	logState    logState

	// Review form and other dialogs
	modal Modal

	// Help overlay
	showHelp bool

	// Transient header message
	notice       string
	noticeDanger bool
	noticeAt     time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick == 0 {
		tick = DefaultUIInterval
	}

	themeName := opts.Prefs.Theme
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		config:      opts.Config,
		logger:      logger.With("component", "ui"),
		keys:        DefaultKeyMap(),
		prefsPath:   prefsPath,
		tick:        tick,
		theme:       GetTheme(themeName),
		currentView: ViewCatalog,
		spinner:     spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		sortMode:    state.ParseSortMode(opts.Prefs.Sort),
		login:       newLoginForm(),
	}
	m.initLogState()
	m.refreshSnapshot()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.tick),
		m.spinner.Tick,
		fetchSnapshotCmd(m.store),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initOfferViewport()
			m.initLogViewport()
		}
		m.ready = true
		m.login.resize(m.width)
		m.updateOfferViewport()
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetchDoneMsg:
		if msg.outcome == state.Failed {
			m.logger.Debug("fetch failed", "what", msg.what)
		}
		return m, fetchSnapshotCmd(m.store)

	case toggleDoneMsg:
		return m.handleToggleDone(msg)

	case loginDoneMsg:
		return m.handleLoginDone(msg)

	case logoutDoneMsg:
		return m.handleLogoutDone()

	case reviewSubmitMsg:
		return m.submitReview(msg.draft)

	case reviewEditedMsg:
		m.store.Reviews.DropSubmissionStatus()
		m.refreshSnapshot()
		return m, nil

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}
	if m.currentView == ViewLogin {
		var cmd tea.Cmd
		m.login, cmd = m.login.update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Text entry owns the keyboard
	if m.modal != nil {
		return m.updateModal(msg)
	}
	if m.currentView == ViewLogin {
		return m.handleLoginKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateOfferViewport()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.ViewCatalog):
		m.leaveOffer()
		m.currentView = ViewCatalog
		return m, nil

	case key.Matches(msg, m.keys.ViewFavorites):
		m.leaveOffer()
		m.currentView = ViewFavorites
		return m, m.loadFavorites()

	case key.Matches(msg, m.keys.ViewLogs):
		m.leaveOffer()
		m.currentView = ViewLogs
		return m, m.refreshLogs(true)

	case key.Matches(msg, m.keys.SignIn):
		if m.snapshot.Session.Auth == state.AuthAuthenticated {
			m.setNotice("Already signed in", false)
			return m, nil
		}
		m.openLogin("")
		return m, nil

	case key.Matches(msg, m.keys.SignOut):
		return m.logout()

	case key.Matches(msg, m.keys.Escape):
		if m.currentView == ViewOffer {
			m.leaveOffer()
			m.currentView = m.offerFrom
			return m, nil
		}
		m.currentView = ViewCatalog
		return m, nil
	}

	switch m.currentView {
	case ViewCatalog:
		return m.handleCatalogKey(msg)
	case ViewOffer:
		return m.handleOfferKey(msg)
	case ViewFavorites:
		return m.handleFavoritesKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}

	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{fetchSnapshotCmd(m.store)}

	if m.notice != "" && time.Since(m.noticeAt) > NoticeTTL {
		m.notice = ""
	}

	if m.currentView == ViewLogs && m.logState.follow {
		if cmd := m.refreshLogs(false); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, tickCmd(m.tick))
	return m, tea.Batch(cmds...)
}

// refreshSnapshot reads the stores synchronously. Operations call it right
// after starting a request so the loading state renders on the next frame.
func (m *Model) refreshSnapshot() {
	if m.store == nil {
		return
	}
	m.applySnapshot(m.store.Snapshot())
}

// applySnapshot stores a snapshot and recomputes everything derived from it.
func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.lastUpdated = time.Now()
	if m.store == nil {
		return
	}

	m.offers = m.store.Catalog.SortedOffers(m.sortMode)
	m.selectedRow = clampIndex(m.selectedRow, len(m.offers))
	activeID := ""
	if offer, ok := m.selectedOffer(); ok {
		activeID = offer.ID
	}
	m.points = state.MapPoints(m.offers, activeID)

	m.favGroups = m.store.Favorites.Grouped()
	m.favSelected = clampIndex(m.favSelected, countOffers(m.favGroups))

	m.nearby = m.store.Nearby.ToRender()
	m.recent = m.store.Reviews.Recent()
	m.updateOfferViewport()

	if form, ok := m.modal.(*reviewForm); ok {
		form.sync(snap.Reviews)
	}
}

func (m *Model) setNotice(text string, danger bool) {
	m.notice = text
	m.noticeDanger = danger
	m.noticeAt = time.Now()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" || m.store == nil {
		return
	}
	p := prefs.Prefs{
		Theme: m.theme.Name,
		City:  m.store.Catalog.City(),
		Sort:  m.sortMode.String(),
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "error", err)
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	// Main content
	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewCatalog:
		return m.renderCatalog()
	case ViewOffer:
		return m.renderOffer()
	case ViewFavorites:
		return m.renderFavorites()
	case ViewLogin:
		return m.renderLogin()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

func (m Model) contentHeight() int {
	return max(m.height-chromeHeight, minBoxHeight)
}

func clampIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(i, 0), n-1)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
