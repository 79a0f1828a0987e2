package state

import (
	"sort"
	"strings"
	"sync"

	"github.com/mmcloughlin/geohash"

	"github.com/five82/hearth/internal/rental"
)

// SortMode orders the catalog view.
type SortMode int

const (
	SortPopular SortMode = iota // input order
	SortPriceAsc
	SortPriceDesc
	SortRatingDesc
)

// SortModes lists every mode in menu order.
var SortModes = []SortMode{SortPopular, SortPriceAsc, SortPriceDesc, SortRatingDesc}

// Label is the menu text for the mode.
func (m SortMode) Label() string {
	switch m {
	case SortPriceAsc:
		return "Price: low to high"
	case SortPriceDesc:
		return "Price: high to low"
	case SortRatingDesc:
		return "Top rated first"
	default:
		return "Popular"
	}
}

func (m SortMode) String() string {
	switch m {
	case SortPriceAsc:
		return "price-asc"
	case SortPriceDesc:
		return "price-desc"
	case SortRatingDesc:
		return "rating-desc"
	default:
		return "popular"
	}
}

// ParseSortMode maps the String form back to a mode, defaulting to
// SortPopular.
func ParseSortMode(value string) SortMode {
	for _, m := range SortModes {
		if strings.EqualFold(strings.TrimSpace(value), m.String()) {
			return m
		}
	}
	return SortPopular
}

// Next returns the following mode in menu order.
func (m SortMode) Next() SortMode {
	for i, mode := range SortModes {
		if mode == m {
			return SortModes[(i+1)%len(SortModes)]
		}
	}
	return SortPopular
}

const (
	nearbyLimit       = 3
	recentReviews     = 10
	mapPointPrecision = 9
)

// FilterByCity returns the offers located in city, in input order.
func FilterByCity(offers []rental.Offer, city string) []rental.Offer {
	out := make([]rental.Offer, 0, len(offers))
	for _, o := range offers {
		if o.City.Name == city {
			out = append(out, o)
		}
	}
	return out
}

// SortOffers returns a sorted copy of offers. The sort is stable, so ties
// keep their relative input order and SortPopular is the identity.
func SortOffers(offers []rental.Offer, mode SortMode) []rental.Offer {
	out := cloneOffers(offers)
	switch mode {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRatingDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out
}

// CityGroup is one city's slice of the favorites list.
type CityGroup struct {
	City   string
	Offers []rental.Offer
}

// GroupByCity groups favorited offers by city name. Groups appear in the
// order their city is first seen and offers keep their input order inside
// each group. Offers not flagged favorite are skipped.
func GroupByCity(offers []rental.Offer) []CityGroup {
	var groups []CityGroup
	index := make(map[string]int)
	for _, o := range offers {
		if !o.IsFavorite {
			continue
		}
		i, ok := index[o.City.Name]
		if !ok {
			i = len(groups)
			index[o.City.Name] = i
			groups = append(groups, CityGroup{City: o.City.Name})
		}
		groups[i].Offers = append(groups[i].Offers, o)
	}
	return groups
}

// FirstNearby truncates the nearby list to what the detail view renders.
func FirstNearby(offers []rental.Offer) []rental.Offer {
	if len(offers) > nearbyLimit {
		offers = offers[:nearbyLimit]
	}
	return cloneOffers(offers)
}

// RecentReviews returns at most ten reviews, newest first. Reviews with
// equal timestamps keep their input order.
func RecentReviews(reviews []rental.Review) []rental.Review {
	out := append([]rental.Review(nil), reviews...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ParsedDate().After(out[j].ParsedDate())
	})
	if len(out) > recentReviews {
		out = out[:recentReviews]
	}
	return out
}

// MapPoint is one pin on the city map. Offers sharing a geohash cell
// collapse into a single point.
type MapPoint struct {
	Location rental.Location
	OfferIDs []string
	Active   bool
}

// MapPoints de-duplicates offer locations by geohash cell, in first-seen
// order. A point is active when any of its offers is activeID.
func MapPoints(offers []rental.Offer, activeID string) []MapPoint {
	var points []MapPoint
	index := make(map[string]int)
	for _, o := range offers {
		cell := geohash.EncodeWithPrecision(o.Location.Latitude, o.Location.Longitude, mapPointPrecision)
		i, ok := index[cell]
		if !ok {
			i = len(points)
			index[cell] = i
			points = append(points, MapPoint{Location: o.Location})
		}
		points[i].OfferIDs = append(points[i].OfferIDs, o.ID)
		if activeID != "" && o.ID == activeID {
			points[i].Active = true
		}
	}
	return points
}

// memo caches the last computed value for a comparable key.
type memo[K comparable, V any] struct {
	mu  sync.Mutex
	key K
	val V
	ok  bool
}

func (m *memo[K, V]) get(key K, compute func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ok && m.key == key {
		return m.val
	}
	m.val = compute()
	m.key = key
	m.ok = true
	return m.val
}

func cloneOffers(in []rental.Offer) []rental.Offer {
	if len(in) == 0 {
		return nil
	}
	out := make([]rental.Offer, len(in))
	copy(out, in)
	return out
}

func cloneReviews(in []rental.Review) []rental.Review {
	if len(in) == 0 {
		return nil
	}
	out := make([]rental.Review, len(in))
	copy(out, in)
	return out
}

func replaceFavorite(offers []rental.Offer, updated rental.Offer) bool {
	for i := range offers {
		if offers[i].ID == updated.ID {
			offers[i].IsFavorite = updated.IsFavorite
			return true
		}
	}
	return false
}
