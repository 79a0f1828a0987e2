package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/hearth/internal/logtail"
)

// logState holds all log-related state.
type logState struct {
	entries     []logtail.Entry
	minLevel    logtail.Level
	follow      bool
	lastRefresh time.Time
	err         error
}

type logLinesMsg struct {
	lines []string
	err   error
}

var logLevelCycle = []logtail.Level{
	logtail.LevelUnknown,
	logtail.LevelDebug,
	logtail.LevelInfo,
	logtail.LevelWarn,
	logtail.LevelError,
}

// initLogState initializes the log state.
func (m *Model) initLogState() {
	m.logState = logState{follow: true}
}

// initLogViewport initializes the log viewport.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(max(m.width-4, 0), max(m.contentHeight()-2, 0))
	m.logViewport.Style = lipgloss.NewStyle()
}

// updateLogViewport updates the log viewport with current content.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}

	m.logViewport.Width = max(m.width-4, 0)
	m.logViewport.Height = max(m.contentHeight()-2, 0)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	m.logViewport.SetContent(m.renderLogContent())

	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// refreshLogs reads the log file again. Reads are rate limited unless force
// is set.
func (m *Model) refreshLogs(force bool) tea.Cmd {
	if m.config == nil || m.config.LogPath == "" {
		return nil
	}
	if !force && time.Since(m.logState.lastRefresh) < LogRefreshInterval {
		return nil
	}
	m.logState.lastRefresh = time.Now()
	path := m.config.LogPath
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogReadLimit)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.err = msg.err
	if msg.err != nil {
		m.updateLogViewport()
		return
	}
	entries := make([]logtail.Entry, 0, len(msg.lines))
	for _, line := range msg.lines {
		entries = append(entries, logtail.Parse(line))
	}
	m.logState.entries = entries
	m.updateLogViewport()
}

// handleLogsKey processes keyboard input for logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.CycleLevel):
		m.logState.minLevel = nextLevel(m.logState.minLevel)
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		return m, m.refreshLogs(true)

	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
		m.logState.follow = false
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
		m.logState.follow = false
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.PageDown()
		m.logState.follow = false
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.PageUp()
		m.logState.follow = false
	}

	return m, nil
}

func nextLevel(current logtail.Level) logtail.Level {
	for i, l := range logLevelCycle {
		if l == current {
			return logLevelCycle[(i+1)%len(logLevelCycle)]
		}
	}
	return logtail.LevelUnknown
}

func levelLabel(l logtail.Level) string {
	switch l {
	case logtail.LevelDebug:
		return "DBG"
	case logtail.LevelInfo:
		return "INF"
	case logtail.LevelWarn:
		return "WRN"
	case logtail.LevelError:
		return "ERR"
	default:
		return "ALL"
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	path := ""
	if m.config != nil {
		path = truncateMiddle(m.config.LogPath, max(m.width-30, 10))
	}
	follow := ternary(m.logState.follow, "following", "paused")
	status := bg.FillLine(bg.Space()+bg.Join([]string{
		bg.Render(path, styles.MutedText),
		bg.Render("level ≥ "+levelLabel(m.logState.minLevel), styles.AccentText),
		bg.Render(follow, styles.FaintText),
	}, "  "), m.width)

	title := fmt.Sprintf("Logs · %d lines", len(logtail.Filter(m.logState.entries, m.logState.minLevel)))
	return status + "\n" + m.renderTitledBox(title, m.logViewport.View(), m.width, m.contentHeight(), true)
}

// renderLogContent renders the filtered entries, one per line.
func (m Model) renderLogContent() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	if m.logState.err != nil {
		return bg.Render("Failed to read log: "+m.logState.err.Error(), styles.DangerText)
	}
	entries := logtail.Filter(m.logState.entries, m.logState.minLevel)
	if len(entries) == 0 {
		return bg.Render("No log lines yet", styles.FaintText)
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Level == logtail.LevelUnknown {
			lines = append(lines, bg.Render(e.Message, styles.MutedText))
			continue
		}
		parts := []string{
			bg.Render(e.Time, styles.FaintText),
			bg.Render(levelLabel(e.Level), m.levelStyle(e.Level, styles)),
		}
		if e.Component != "" {
			parts = append(parts, bg.Render("["+e.Component+"]", styles.AccentText))
		}
		parts = append(parts, bg.Render(e.Message, styles.Text))
		if e.Attrs != "" {
			parts = append(parts, bg.Render(e.Attrs, styles.MutedText))
		}
		lines = append(lines, strings.Join(parts, bg.Space()))
	}
	return strings.Join(lines, "\n")
}

func (m Model) levelStyle(l logtail.Level, styles Styles) lipgloss.Style {
	switch l {
	case logtail.LevelDebug:
		return styles.FaintText
	case logtail.LevelWarn:
		return styles.WarningText
	case logtail.LevelError:
		return styles.DangerText
	default:
		return styles.InfoText
	}
}
