// Package state holds the client-side state of hearth.
//
// # Overview
//
// Six stores each own one slice of state:
//
//	Session     authorization status and the signed-in user
//	Catalog     every listed offer plus the selected city
//	Detail      the offer open in the detail view
//	Nearby      alternatives suggested for the open offer
//	Reviews     the open offer's reviews and the review form status
//	Favorites   the user's favorited offers
//
// Store aggregates them and owns the operations that span stores:
// ToggleFavorite, OpenOffer, CloseOffer and Logout.
//
// # Operations
//
// Every asynchronous operation is split in two. Calling it applies the
// loading transition under the store's lock and returns a Call; running the
// Call performs the request and applies its result:
//
//	call := store.Catalog.FetchOffers(ctx) // status is now loading
//	go func() {
//		if call() == state.Done {
//			// offers are in the store
//		}
//	}()
//
// The UI runs Calls inside tea.Cmd functions, so a render never observes a
// request in flight without a loading status.
//
// # Cancellation
//
// Each fetch tracks the request it started most recently. Starting a new
// fetch cancels the previous one, and Drop/Clear methods cancel whatever is
// in flight. A superseded request reports Cancelled and leaves the store
// untouched. A request cancelled through its own context restores the
// status it replaced. Cancelled never reaches the error branch.
//
// # Errors
//
// Failures are converted to Rejection values at the store boundary. Fetch
// errors land in the snapshot's Err field; Login, SubmitReview and
// ToggleFavorite also return the Rejection. RejectUnauthorized asks the
// caller to show the login screen.
//
// # Favorite toggles
//
// Toggle results fan out to Catalog, Detail, Nearby and Favorites, all from
// the same server-confirmed offer. While a toggle runs, FavoriteFlag reports
// the tentative flag; the tentative entry is removed once the request ends,
// whatever its outcome.
//
// # Concurrency
//
// Each store guards its fields with its own sync.RWMutex. Snapshots are
// copies and may be read from any goroutine. No lock is held during I/O.
package state
