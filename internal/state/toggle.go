package state

import (
	"context"
	"errors"

	"github.com/five82/hearth/internal/rental"
)

// favoriteReactor is a store that mirrors favorite flags from a confirmed
// toggle.
type favoriteReactor interface {
	applyFavorite(offer rental.Offer)
}

// ToggleResult is the outcome of ToggleFavorite. On success Offer carries
// the server-confirmed favorite flag; otherwise Err is a Rejection or
// context.Canceled.
type ToggleResult struct {
	Offer rental.Offer
	Err   error
}

// reactors is every store holding a copy of an offer's favorite flag.
func (s *Store) reactors() []favoriteReactor {
	return []favoriteReactor{s.Catalog, s.Offer, s.Nearby, s.Favorites}
}

// ToggleFavorite asks the backend to set offerID's favorite flag to
// favorite. An anonymous session is refused with RejectUnauthorized without
// a request. While the session is still unknown, and for a second toggle of
// an offer whose toggle is in flight, a plain Rejection is returned instead.
// Offers may toggle concurrently.
//
// While the request runs FavoriteFlag reports the tentative flag. On
// success every reactor store applies the confirmed offer and the tentative
// flag is discarded; on any failure it is discarded and nothing else
// changes.
func (s *Store) ToggleFavorite(ctx context.Context, offerID string, favorite bool) Call[ToggleResult] {
	switch s.Session.Auth() {
	case AuthUnknown:
		return resolved(ToggleResult{Err: Rejection(msgSessionCheck)})
	case AuthAnonymous:
		return resolved(ToggleResult{Err: RejectUnauthorized})
	}

	s.mu.Lock()
	if _, busy := s.pending[offerID]; busy {
		s.mu.Unlock()
		return resolved(ToggleResult{Err: Rejection(msgTogglePending)})
	}
	s.pending[offerID] = favorite
	s.mu.Unlock()

	return func() ToggleResult {
		defer s.settleToggle(offerID)

		offer, err := s.api.SetFavorite(ctx, offerID, favorite)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return ToggleResult{Err: context.Canceled}
			}
			s.logger.Warn("toggle favorite failed", "id", offerID, "error", err)
			return ToggleResult{Err: favoriteErrors.reject(err)}
		}

		for _, r := range s.reactors() {
			r.applyFavorite(offer)
		}
		s.logger.Info("favorite updated", "id", offerID, "favorite", offer.IsFavorite)
		return ToggleResult{Offer: offer}
	}
}

func (s *Store) settleToggle(offerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, offerID)
}

// FavoriteFlag reports the flag to display for offer: the tentative value
// while a toggle of it is in flight, its own flag otherwise.
func (s *Store) FavoriteFlag(offer rental.Offer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if flag, ok := s.pending[offer.ID]; ok {
		return flag
	}
	return offer.IsFavorite
}

// IsToggling reports whether a toggle of offerID is in flight.
func (s *Store) IsToggling(offerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[offerID]
	return ok
}
