package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/five82/hearth/internal/rental"
)

// DefaultCities is the city menu shown before any offers load.
var DefaultCities = []string{"Paris", "Cologne", "Brussels", "Amsterdam", "Hamburg", "Dusseldorf"}

// DefaultCity is the initial catalog selection.
const DefaultCity = "Paris"

// CatalogSnapshot is a copy of the catalog state.
type CatalogSnapshot struct {
	Status RequestStatus
	Err    string
	City   string
	Offers []rental.Offer
}

type sortKey struct {
	version uint64
	city    string
	mode    SortMode
}

// Catalog holds every offer the backend lists plus the selected city.
type Catalog struct {
	api    rental.API
	logger *slog.Logger

	mu      sync.RWMutex
	req     slot
	offers  []rental.Offer
	city    string
	version uint64 // bumped whenever offers change

	sorted memo[sortKey, []rental.Offer]
}

// NewCatalog creates an empty catalog with DefaultCity selected.
func NewCatalog(api rental.API, logger *slog.Logger) *Catalog {
	return &Catalog{api: api, logger: componentLogger(logger, "catalog"), city: DefaultCity}
}

// FetchOffers loads the full offer list. Starting a fetch cancels any fetch
// still in flight; the superseded one reports Cancelled and changes nothing.
func (c *Catalog) FetchOffers(ctx context.Context) Call[Outcome] {
	c.mu.Lock()
	ctx, gen := c.req.begin(ctx)
	c.mu.Unlock()

	return func() Outcome {
		offers, err := c.api.FetchOffers(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		outcome := c.req.settle(gen, err)
		switch outcome {
		case Done:
			c.offers = cloneOffers(offers)
			c.version++
			c.logger.Debug("offers loaded", "count", len(offers))
		case Failed:
			c.req.fail(StatusError, string(fetchErrors(msgOffers).reject(err)))
			c.logger.Warn("fetch offers failed", "error", err)
		case Cancelled:
			c.logger.Debug("fetch offers cancelled")
		}
		return outcome
	}
}

// SetCity changes the selected city. Offers are not refetched.
func (c *Catalog) SetCity(city string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.city = city
}

// City returns the selected city.
func (c *Catalog) City() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.city
}

// Snapshot returns a copy of the catalog state.
func (c *Catalog) Snapshot() CatalogSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CatalogSnapshot{
		Status: c.req.status,
		Err:    c.req.err,
		City:   c.city,
		Offers: cloneOffers(c.offers),
	}
}

// SortedOffers returns the selected city's offers ordered by mode. The result
// is cached until the offers, the city or the mode change and must not be
// modified.
func (c *Catalog) SortedOffers(mode SortMode) []rental.Offer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := sortKey{version: c.version, city: c.city, mode: mode}
	return c.sorted.get(key, func() []rental.Offer {
		return SortOffers(FilterByCity(c.offers, c.city), mode)
	})
}

// Cities lists the cities present in the loaded offers in first-seen order,
// or DefaultCities when nothing is loaded.
func (c *Catalog) Cities() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.offers) == 0 {
		return append([]string(nil), DefaultCities...)
	}
	seen := make(map[string]bool)
	var out []string
	for _, o := range c.offers {
		if !seen[o.City.Name] {
			seen[o.City.Name] = true
			out = append(out, o.City.Name)
		}
	}
	return out
}

func (c *Catalog) applyFavorite(offer rental.Offer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if replaceFavorite(c.offers, offer) {
		c.version++
	}
}
