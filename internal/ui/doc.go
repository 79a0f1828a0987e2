// Package ui provides the terminal interface for hearth.
//
// The UI is a Bubble Tea program. It never talks to the rental API itself:
// every request goes through state.Store, which owns loading status, error
// messages and cancellation. The model only keeps what it derives for
// rendering (sorted offers, map pins, grouped favorites).
//
// # Request Flow
//
// A user action starts a store operation inside Update. The operation applies
// its loading transition immediately and returns a state.Call; the model
// refreshes its snapshot so the spinner shows on the next frame, and hands
// the Call to a tea.Cmd:
//
//	call := m.store.Catalog.FetchOffers(m.ctx)
//	m.refreshSnapshot()
//	return m, awaitFetch("offers", call)
//
// When the Call finishes the resulting message triggers another snapshot.
// A periodic tick also re-reads the snapshot so background work (the
// catalog refresher, bootstrap) shows up without user input.
//
// # Views
//
//   - Catalog: city tabs, the sorted offer list and the map pins
//   - Offer: details, reviews and up to three nearby offers
//   - Saved: favorites grouped by city
//   - Sign in: e-mail and password form
//   - Logs: the application log, filterable by level
//
// The review form is a Modal drawn over the offer view.
//
// # Authorization
//
// Toggling a favorite or writing a review as a guest opens the sign-in view.
// A successful sign-in returns to where the user was and reloads everything
// that depends on who is asking.
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context: ctx,
//		Store:   store,
//		Config:  &cfg,
//		Logger:  logger,
//		Prefs:   userPrefs,
//	})
package ui
