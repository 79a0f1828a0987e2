package state

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/five82/hearth/internal/rental"
)

// Snapshot is a copy of every store, taken one store at a time.
type Snapshot struct {
	Session   SessionSnapshot
	Catalog   CatalogSnapshot
	Offer     OfferSnapshot
	Nearby    NearbySnapshot
	Reviews   ReviewsSnapshot
	Favorites FavoritesSnapshot
}

// Store owns the six stores and the operations that span several of them.
type Store struct {
	Session   *Session
	Catalog   *Catalog
	Offer     *Detail
	Nearby    *Nearby
	Reviews   *Reviews
	Favorites *Favorites

	api    rental.API
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]bool // offer id -> tentative favorite flag
}

// New builds the state container. tokens receives the token of a
// successful login and is cleared on logout or a failed session check.
func New(api rental.API, tokens TokenStore, logger *slog.Logger) *Store {
	return &Store{
		Session:   NewSession(api, tokens, logger),
		Catalog:   NewCatalog(api, logger),
		Offer:     NewDetail(api, logger),
		Nearby:    NewNearby(api, logger),
		Reviews:   NewReviews(api, logger),
		Favorites: NewFavorites(api, logger),
		api:       api,
		logger:    componentLogger(logger, "store"),
		pending:   make(map[string]bool),
	}
}

// Snapshot returns a copy of every store.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Session:   s.Session.Snapshot(),
		Catalog:   s.Catalog.Snapshot(),
		Offer:     s.Offer.Snapshot(),
		Nearby:    s.Nearby.Snapshot(),
		Reviews:   s.Reviews.Snapshot(),
		Favorites: s.Favorites.Snapshot(),
	}
}

// OpenOffer starts loading offer id, its nearby offers and its reviews. The
// three requests run concurrently; the call reports the offer's outcome.
func (s *Store) OpenOffer(ctx context.Context, id string) Call[Outcome] {
	calls := []Call[Outcome]{
		s.Offer.FetchOffer(ctx, id),
		s.Nearby.FetchNearby(ctx, id),
		s.Reviews.FetchReviews(ctx, id),
	}
	return func() Outcome {
		outcomes := make([]Outcome, len(calls))
		var g errgroup.Group
		for i, call := range calls {
			g.Go(func() error {
				outcomes[i] = call()
				return nil
			})
		}
		_ = g.Wait()
		s.logger.Debug("offer opened", "id", id, "offer", outcomes[0], "nearby", outcomes[1], "reviews", outcomes[2])
		return outcomes[0]
	}
}

// CloseOffer drops the offer, nearby and reviews stores.
func (s *Store) CloseOffer() {
	s.Offer.DropOffer()
	s.Nearby.DropNearby()
	s.Reviews.DropReviews()
}

// Logout ends the session and clears the favorites once the backend has
// answered.
func (s *Store) Logout(ctx context.Context) Call[AuthStatus] {
	call := s.Session.Logout(ctx)
	return func() AuthStatus {
		status := call()
		s.Favorites.ClearFavorites()
		return status
	}
}
