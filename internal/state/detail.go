package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/five82/hearth/internal/rental"
)

// OfferSnapshot is a copy of the single-offer state. Offer is nil until a
// fetch succeeds.
type OfferSnapshot struct {
	Status RequestStatus
	Err    string
	ID     string // last requested id
	Offer  *rental.Offer
}

// Detail holds the offer currently open in the detail view.
type Detail struct {
	api    rental.API
	logger *slog.Logger

	mu    sync.RWMutex
	req   slot
	id    string
	offer *rental.Offer
}

// NewDetail creates an empty single-offer store.
func NewDetail(api rental.API, logger *slog.Logger) *Detail {
	return &Detail{api: api, logger: componentLogger(logger, "offer")}
}

// FetchOffer loads offer id. A 404 moves the store to StatusNotFound rather
// than StatusError.
func (d *Detail) FetchOffer(ctx context.Context, id string) Call[Outcome] {
	d.mu.Lock()
	ctx, gen := d.req.begin(ctx)
	d.id = id
	d.mu.Unlock()

	return func() Outcome {
		offer, err := d.api.FetchOffer(ctx, id)

		d.mu.Lock()
		defer d.mu.Unlock()
		outcome := d.req.settle(gen, err)
		switch outcome {
		case Done:
			d.offer = &offer
		case Failed:
			d.offer = nil
			if rental.IsNotFound(err) {
				d.req.fail(StatusNotFound, "")
				d.logger.Info("offer not found", "id", id)
				break
			}
			d.req.fail(StatusError, string(fetchErrors(msgOffer).reject(err)))
			d.logger.Warn("fetch offer failed", "id", id, "error", err)
		}
		return outcome
	}
}

// DropOffer forgets the held offer and cancels any fetch in flight.
func (d *Detail) DropOffer() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.req.reset()
	d.id = ""
	d.offer = nil
}

// Snapshot returns a copy of the single-offer state.
func (d *Detail) Snapshot() OfferSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	snap := OfferSnapshot{Status: d.req.status, Err: d.req.err, ID: d.id}
	if d.offer != nil {
		o := *d.offer
		snap.Offer = &o
	}
	return snap
}

func (d *Detail) applyFavorite(offer rental.Offer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.offer != nil && d.offer.ID == offer.ID {
		d.offer.IsFavorite = offer.IsFavorite
	}
}
