package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/hearth/internal/rental"
	"github.com/five82/hearth/internal/state"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// fetchDoneMsg reports a finished store fetch. The store already holds the
// result; the model only needs a fresh snapshot.
type fetchDoneMsg struct {
	what    string
	outcome state.Outcome
}

type toggleDoneMsg struct {
	offerID string
	result  state.ToggleResult
}

type loginDoneMsg struct {
	err error
}

type logoutDoneMsg struct{}

type submitDoneMsg struct {
	err error
}

// reviewSubmitMsg and reviewEditedMsg are sent by the review form.
type reviewSubmitMsg struct {
	draft rental.ReviewDraft
}

type reviewEditedMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// await runs a store call off the UI goroutine and wraps its result.
func await[T any](call state.Call[T], wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return wrap(call())
	}
}

func awaitFetch(what string, call state.Call[state.Outcome]) tea.Cmd {
	return await(call, func(o state.Outcome) tea.Msg {
		return fetchDoneMsg{what: what, outcome: o}
	})
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
