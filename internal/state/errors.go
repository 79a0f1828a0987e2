package state

import (
	"errors"
	"strings"

	"github.com/five82/hearth/internal/rental"
)

// Rejection is the user-facing failure value of a store operation. Stores
// never hand raw transport errors to the view layer.
type Rejection string

func (r Rejection) Error() string { return string(r) }

// RejectUnauthorized tells the caller to send the user to the login
// screen instead of showing an inline error.
const RejectUnauthorized Rejection = "UNAUTHORIZED"

const (
	msgUnreachable   = "Server is unreachable. Please try again later."
	msgSignIn        = "Unable to sign in. Please try again."
	msgComment       = "Failed to post comment. Please try again."
	msgFavorite      = "Failed to update favorites. Please try again."
	msgOffers        = "Failed to load offers."
	msgOffer         = "Failed to load the offer."
	msgNearby        = "Failed to load nearby offers."
	msgReviews       = "Failed to load reviews."
	msgFavorites     = "Failed to load favorites."
	msgTogglePending = "Favorite update already in progress."
	msgSubmitPending = "Your review is still being posted."
	msgSessionCheck  = "Checking your session. Try again in a moment."
)

// errorMapping describes how one operation turns a backend failure into a
// Rejection.
type errorMapping struct {
	unauthorized bool   // 401 maps to RejectUnauthorized
	detailSep    string // join validation details with this; "" ignores details
	fallback     string
}

var (
	loginErrors    = errorMapping{detailSep: "\n", fallback: msgSignIn}
	commentErrors  = errorMapping{unauthorized: true, detailSep: ". ", fallback: msgComment}
	favoriteErrors = errorMapping{unauthorized: true, fallback: msgFavorite}
)

func fetchErrors(fallback string) errorMapping {
	return errorMapping{fallback: fallback}
}

func (m errorMapping) reject(err error) Rejection {
	var apiErr *rental.APIError
	if errors.As(err, &apiErr) {
		if m.unauthorized && rental.IsUnauthorized(err) {
			return RejectUnauthorized
		}
		if m.detailSep != "" {
			if msgs := apiErr.Body.DetailMessages(); len(msgs) > 0 {
				return Rejection(strings.Join(msgs, m.detailSep))
			}
		}
		if msg := strings.TrimSpace(apiErr.Body.Message); msg != "" {
			return Rejection(msg)
		}
		return Rejection(m.fallback)
	}
	if rental.IsUnreachable(err) {
		return Rejection(msgUnreachable)
	}
	return Rejection(m.fallback)
}
