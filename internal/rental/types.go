package rental

import (
	"strings"
	"time"
)

// Location is a geo-coordinate with the map zoom level the backend suggests.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      int     `json:"zoom"`
}

// City mirrors the city block embedded in every offer.
type City struct {
	Name     string   `json:"name"`
	Location Location `json:"location"`
}

// Host describes the person renting out an offer.
type Host struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	IsPro     bool   `json:"isPro"`
}

// Offer mirrors the payload returned by /offers and friends. The list
// endpoints omit the detail-only fields (description, goods, host, images).
type Offer struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Price       int      `json:"price"`
	Rating      float64  `json:"rating"`
	IsPremium   bool     `json:"isPremium"`
	IsFavorite  bool     `json:"isFavorite"`
	Bedrooms    int      `json:"bedrooms"`
	MaxAdults   int      `json:"maxAdults"`
	PreviewURL  string   `json:"previewImage"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
	Goods       []string `json:"goods"`
	Host        Host     `json:"host"`
	City        City     `json:"city"`
	Location    Location `json:"location"`
}

// ReviewUser is the author block of a review.
type ReviewUser struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	IsPro     bool   `json:"isPro"`
}

// Review mirrors /comments/{id} entries.
type Review struct {
	ID      string     `json:"id"`
	Date    string     `json:"date"`
	User    ReviewUser `json:"user"`
	Comment string     `json:"comment"`
	Rating  int        `json:"rating"`
}

// ParsedDate returns the review timestamp as time.Time, or the zero value
// when the backend sent something unparseable.
func (r Review) ParsedDate() time.Time {
	return parseTime(r.Date)
}

// UserProfile is returned by both GET and POST /login.
type UserProfile struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	IsPro     bool   `json:"isPro"`
	Email     string `json:"email"`
	Token     string `json:"token"`
}

// Credentials is the POST /login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ReviewDraft is a review waiting to be posted for OfferID.
type ReviewDraft struct {
	OfferID string `json:"-"`
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

// ErrorDetail is a single field-level validation failure.
type ErrorDetail struct {
	Property string   `json:"property"`
	Value    any      `json:"value"`
	Messages []string `json:"messages"`
}

// ErrorBody covers both error shapes the backend produces: a bare
// {message} and the validation form with errorType and details.
type ErrorBody struct {
	ErrorType string        `json:"errorType"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details"`
}

// DetailMessages flattens every message of every detail, in order.
func (b ErrorBody) DetailMessages() []string {
	var out []string
	for _, d := range b.Details {
		for _, msg := range d.Messages {
			if msg = strings.TrimSpace(msg); msg != "" {
				out = append(out, msg)
			}
		}
	}
	return out
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
