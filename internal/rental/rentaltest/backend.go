// Package rentaltest is an in-memory stand-in for the rental REST API.
// It backs the package tests and the hearth-fake development server.
package rentaltest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/five82/hearth/internal/rental"
)

const (
	minCommentLength = 50
	maxCommentLength = 300
)

// Seed is the initial data a Backend serves.
type Seed struct {
	Offers  []rental.Offer
	Reviews map[string][]rental.Review
}

type failure struct {
	status int
	body   rental.ErrorBody
}

type hold struct {
	entered chan struct{}
	release chan struct{}
}

// Backend serves the rental API from memory. The zero value is not usable;
// construct with New.
type Backend struct {
	mu        sync.Mutex
	offers    []rental.Offer
	reviews   map[string][]rental.Review
	sessions  map[string]string          // token -> email
	favorites map[string]map[string]bool // email -> offer id set
	failures  map[string]failure
	holds     map[string][]*hold
	hits      map[string]int
	clock     func() time.Time
	router    chi.Router
}

// New builds a Backend serving seed.
func New(seed Seed) *Backend {
	b := &Backend{
		offers:    cloneOffers(seed.Offers),
		reviews:   make(map[string][]rental.Review, len(seed.Reviews)),
		sessions:  make(map[string]string),
		favorites: make(map[string]map[string]bool),
		failures:  make(map[string]failure),
		holds:     make(map[string][]*hold),
		hits:      make(map[string]int),
		clock:     time.Now,
	}
	for id, list := range seed.Reviews {
		b.reviews[id] = append([]rental.Review(nil), list...)
	}
	b.router = b.routes()
	return b
}

// Handler returns the HTTP handler for the API.
func (b *Backend) Handler() http.Handler {
	return b.router
}

func (b *Backend) routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/offers", b.intercept(b.listOffers))
	r.Get("/offers/{id}", b.intercept(b.getOffer))
	r.Get("/offers/{id}/nearby", b.intercept(b.listNearby))
	r.Get("/comments/{id}", b.intercept(b.listComments))
	r.Post("/comments/{id}", b.intercept(b.postComment))
	r.Get("/favorite", b.intercept(b.listFavorites))
	r.Post("/favorite/{id}/{status}", b.intercept(b.setFavorite))
	r.Get("/login", b.intercept(b.checkLogin))
	r.Post("/login", b.intercept(b.login))
	r.Delete("/logout", b.intercept(b.logout))
	return r
}

// Fail makes every request matching method and the chi route pattern
// (for example "/offers/{id}") answer with status and body until
// ClearFailures is called.
func (b *Backend) Fail(method, pattern string, status int, body rental.ErrorBody) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[routeKey(method, pattern)] = failure{status: status, body: body}
}

// ClearFailures removes every failure installed with Fail.
func (b *Backend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = make(map[string]failure)
}

// HoldNext parks the next request matching method and pattern. The entered
// channel closes once that request arrives; release lets it proceed. A
// held request also gives up when its client goes away.
func (b *Backend) HoldNext(method, pattern string) (entered <-chan struct{}, release func()) {
	h := &hold{entered: make(chan struct{}), release: make(chan struct{})}
	b.mu.Lock()
	key := routeKey(method, pattern)
	b.holds[key] = append(b.holds[key], h)
	b.mu.Unlock()
	var once sync.Once
	return h.entered, func() { once.Do(func() { close(h.release) }) }
}

// Hits reports how many requests reached method and pattern.
func (b *Backend) Hits(method, pattern string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[routeKey(method, pattern)]
}

// SetClock overrides the time source used to stamp new reviews.
func (b *Backend) SetClock(clock func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clock = clock
}

// IssueToken creates a session for email without going through /login.
func (b *Backend) IssueToken(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	token := uuid.NewString()
	b.sessions[token] = email
	return token
}

func (b *Backend) intercept(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := routeKey(r.Method, chi.RouteContext(r.Context()).RoutePattern())

		b.mu.Lock()
		b.hits[key]++
		var h *hold
		if queue := b.holds[key]; len(queue) > 0 {
			h = queue[0]
			b.holds[key] = queue[1:]
		}
		fail, failing := b.failures[key]
		b.mu.Unlock()

		if h != nil {
			close(h.entered)
			select {
			case <-h.release:
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			writeJSON(w, fail.status, fail.body)
			return
		}
		next(w, r)
	}
}

func (b *Backend) listOffers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	email := b.sessions[r.Header.Get(rental.TokenHeader)]
	out := make([]rental.Offer, 0, len(b.offers))
	for _, o := range b.offers {
		out = append(out, b.withFavorite(o, email))
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getOffer(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	offer, ok := b.findOffer(chi.URLParam(r, "id"))
	if !ok {
		writeNotFound(w, chi.URLParam(r, "id"))
		return
	}
	email := b.sessions[r.Header.Get(rental.TokenHeader)]
	writeJSON(w, http.StatusOK, b.withFavorite(offer, email))
}

func (b *Backend) listNearby(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := chi.URLParam(r, "id")
	offer, ok := b.findOffer(id)
	if !ok {
		writeNotFound(w, id)
		return
	}
	email := b.sessions[r.Header.Get(rental.TokenHeader)]
	out := []rental.Offer{}
	for _, o := range b.offers {
		if o.ID != id && o.City.Name == offer.City.Name {
			out = append(out, b.withFavorite(o, email))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) listComments(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := b.findOffer(id); !ok {
		writeNotFound(w, id)
		return
	}
	out := append([]rental.Review{}, b.reviews[id]...)
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) postComment(w http.ResponseWriter, r *http.Request) {
	var draft rental.ReviewDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, rental.ErrorBody{ErrorType: "COMMON_ERROR", Message: "Malformed request body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	email, ok := b.sessions[r.Header.Get(rental.TokenHeader)]
	if !ok {
		writeUnauthorized(w)
		return
	}
	id := chi.URLParam(r, "id")
	if _, ok := b.findOffer(id); !ok {
		writeNotFound(w, id)
		return
	}

	var details []rental.ErrorDetail
	if n := len([]rune(strings.TrimSpace(draft.Comment))); n < minCommentLength || n > maxCommentLength {
		details = append(details, rental.ErrorDetail{
			Property: "comment",
			Value:    draft.Comment,
			Messages: []string{fmt.Sprintf("comment length must be between %d and %d characters", minCommentLength, maxCommentLength)},
		})
	}
	if draft.Rating < 1 || draft.Rating > 5 {
		details = append(details, rental.ErrorDetail{
			Property: "rating",
			Value:    draft.Rating,
			Messages: []string{"rating must be between 1 and 5"},
		})
	}
	if len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, rental.ErrorBody{
			ErrorType: "VALIDATION_ERROR",
			Message:   "Validation error: /comments/" + id,
			Details:   details,
		})
		return
	}

	review := rental.Review{
		ID:      uuid.NewString(),
		Date:    b.clock().UTC().Format(time.RFC3339),
		User:    rental.ReviewUser{Name: nameFromEmail(email)},
		Comment: strings.TrimSpace(draft.Comment),
		Rating:  draft.Rating,
	}
	b.reviews[id] = append(b.reviews[id], review)
	writeJSON(w, http.StatusCreated, review)
}

func (b *Backend) listFavorites(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	email, ok := b.sessions[r.Header.Get(rental.TokenHeader)]
	if !ok {
		writeUnauthorized(w)
		return
	}
	out := []rental.Offer{}
	for _, o := range b.offers {
		if b.favorites[email][o.ID] {
			out = append(out, b.withFavorite(o, email))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) setFavorite(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	email, ok := b.sessions[r.Header.Get(rental.TokenHeader)]
	if !ok {
		writeUnauthorized(w)
		return
	}
	id := chi.URLParam(r, "id")
	offer, ok := b.findOffer(id)
	if !ok {
		writeNotFound(w, id)
		return
	}
	switch chi.URLParam(r, "status") {
	case "1":
		if b.favorites[email] == nil {
			b.favorites[email] = make(map[string]bool)
		}
		b.favorites[email][id] = true
	case "0":
		delete(b.favorites[email], id)
	default:
		writeJSON(w, http.StatusBadRequest, rental.ErrorBody{ErrorType: "COMMON_ERROR", Message: "Status must be 0 or 1"})
		return
	}
	writeJSON(w, http.StatusOK, b.withFavorite(offer, email))
}

func (b *Backend) checkLogin(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	token := r.Header.Get(rental.TokenHeader)
	email, ok := b.sessions[token]
	if !ok {
		writeUnauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, profileFor(email, token))
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds rental.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, rental.ErrorBody{ErrorType: "COMMON_ERROR", Message: "Malformed request body"})
		return
	}

	var details []rental.ErrorDetail
	email := strings.TrimSpace(creds.Email)
	if !strings.Contains(email, "@") {
		details = append(details, rental.ErrorDetail{Property: "email", Value: creds.Email, Messages: []string{"email must be an email"}})
	}
	if !validPassword(creds.Password) {
		details = append(details, rental.ErrorDetail{Property: "password", Value: creds.Password, Messages: []string{"password must contain at least one letter and one digit"}})
	}
	if len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, rental.ErrorBody{
			ErrorType: "VALIDATION_ERROR",
			Message:   "Validation error: /login",
			Details:   details,
		})
		return
	}

	b.mu.Lock()
	token := uuid.NewString()
	b.sessions[token] = email
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, profileFor(email, token))
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	delete(b.sessions, r.Header.Get(rental.TokenHeader))
	b.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) findOffer(id string) (rental.Offer, bool) {
	for _, o := range b.offers {
		if o.ID == id {
			return o, true
		}
	}
	return rental.Offer{}, false
}

func (b *Backend) withFavorite(o rental.Offer, email string) rental.Offer {
	o.IsFavorite = email != "" && b.favorites[email][o.ID]
	return o
}

func profileFor(email, token string) rental.UserProfile {
	return rental.UserProfile{
		Name:      nameFromEmail(email),
		AvatarURL: "https://example.invalid/avatar/" + nameFromEmail(email) + ".jpg",
		Email:     email,
		Token:     token,
	}
}

func nameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	if name == "" {
		return "guest"
	}
	return name
}

func validPassword(pw string) bool {
	var letter, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

func routeKey(method, pattern string) string {
	return strings.ToUpper(method) + " " + pattern
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeNotFound(w http.ResponseWriter, id string) {
	writeJSON(w, http.StatusNotFound, rental.ErrorBody{ErrorType: "COMMON_ERROR", Message: fmt.Sprintf("Offer with id %s not found.", id)})
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, rental.ErrorBody{ErrorType: "COMMON_ERROR", Message: "You are not logged in or you do not have permission to this page."})
}

func cloneOffers(in []rental.Offer) []rental.Offer {
	if len(in) == 0 {
		return nil
	}
	out := make([]rental.Offer, len(in))
	copy(out, in)
	return out
}
