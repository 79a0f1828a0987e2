package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/five82/hearth/internal/rental"
)

// FavoritesSnapshot is a copy of the favorites state.
type FavoritesSnapshot struct {
	Status RequestStatus
	Err    string
	Offers []rental.Offer
}

// Favorites holds the signed-in user's favorited offers.
type Favorites struct {
	api    rental.API
	logger *slog.Logger

	mu     sync.RWMutex
	req    slot
	offers []rental.Offer
}

func NewFavorites(api rental.API, logger *slog.Logger) *Favorites {
	return &Favorites{api: api, logger: componentLogger(logger, "favorites")}
}

// FetchFavorites loads the favorites list.
func (f *Favorites) FetchFavorites(ctx context.Context) Call[Outcome] {
	f.mu.Lock()
	ctx, gen := f.req.begin(ctx)
	f.mu.Unlock()

	return func() Outcome {
		offers, err := f.api.FetchFavorites(ctx)

		f.mu.Lock()
		defer f.mu.Unlock()
		outcome := f.req.settle(gen, err)
		switch outcome {
		case Done:
			f.offers = cloneOffers(offers)
			f.logger.Debug("favorites loaded", "count", len(offers))
		case Failed:
			f.req.fail(StatusError, string(fetchErrors(msgFavorites).reject(err)))
			f.logger.Warn("fetch favorites failed", "error", err)
		}
		return outcome
	}
}

// ClearFavorites empties the store and cancels any fetch in flight.
func (f *Favorites) ClearFavorites() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.req.reset()
	f.offers = nil
}

func (f *Favorites) Snapshot() FavoritesSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return FavoritesSnapshot{Status: f.req.status, Err: f.req.err, Offers: cloneOffers(f.offers)}
}

// Grouped returns the favorites grouped by city.
func (f *Favorites) Grouped() []CityGroup {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return GroupByCity(f.offers)
}

// applyFavorite adds a newly favorited offer at the end of the list, or
// updates it in place when already held, and removes an unfavorited one.
func (f *Favorites) applyFavorite(offer rental.Offer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !offer.IsFavorite {
		kept := f.offers[:0]
		for _, o := range f.offers {
			if o.ID != offer.ID {
				kept = append(kept, o)
			}
		}
		f.offers = kept
		return
	}
	for i := range f.offers {
		if f.offers[i].ID == offer.ID {
			f.offers[i] = offer
			return
		}
	}
	f.offers = append(f.offers, offer)
}
