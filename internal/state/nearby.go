package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/five82/hearth/internal/rental"
)

// NearbySnapshot is a copy of the near-offers state.
type NearbySnapshot struct {
	Status RequestStatus
	Err    string
	Offers []rental.Offer
}

// Nearby holds the alternatives suggested for the open offer.
type Nearby struct {
	api    rental.API
	logger *slog.Logger

	mu     sync.RWMutex
	req    slot
	offers []rental.Offer
}

func NewNearby(api rental.API, logger *slog.Logger) *Nearby {
	return &Nearby{api: api, logger: componentLogger(logger, "nearby")}
}

// FetchNearby loads the offers near id.
func (n *Nearby) FetchNearby(ctx context.Context, id string) Call[Outcome] {
	n.mu.Lock()
	ctx, gen := n.req.begin(ctx)
	n.mu.Unlock()

	return func() Outcome {
		offers, err := n.api.FetchNearby(ctx, id)

		n.mu.Lock()
		defer n.mu.Unlock()
		outcome := n.req.settle(gen, err)
		switch outcome {
		case Done:
			n.offers = cloneOffers(offers)
		case Failed:
			n.req.fail(StatusError, string(fetchErrors(msgNearby).reject(err)))
			n.logger.Warn("fetch nearby failed", "id", id, "error", err)
		}
		return outcome
	}
}

// DropNearby forgets the held offers and cancels any fetch in flight.
func (n *Nearby) DropNearby() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.req.reset()
	n.offers = nil
}

func (n *Nearby) Snapshot() NearbySnapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return NearbySnapshot{Status: n.req.status, Err: n.req.err, Offers: cloneOffers(n.offers)}
}

// ToRender returns the first three nearby offers in backend order.
func (n *Nearby) ToRender() []rental.Offer {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return FirstNearby(n.offers)
}

func (n *Nearby) applyFavorite(offer rental.Offer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	replaceFavorite(n.offers, offer)
}
