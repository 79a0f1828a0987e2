package state

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/five82/hearth/internal/rental"
	"github.com/five82/hearth/internal/rental/rentaltest"
	"github.com/five82/hearth/internal/token"
)

const (
	favoriteRoute = "/favorite/{id}/{status}"
	longComment   = "Quiet street, spotless kitchen and a host who answered every question within minutes."
)

type fixture struct {
	backend *rentaltest.Backend
	tokens  *token.Memory
	store   *Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := rentaltest.New(rentaltest.DefaultSeed())
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	tokens := &token.Memory{}
	client, err := rental.NewClient(server.URL, rental.WithTokens(tokens))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return &fixture{backend: backend, tokens: tokens, store: New(client, tokens, nil)}
}

func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	_ = f.tokens.Save(f.backend.IssueToken("anna@example.com"))
	if got := f.store.Session.CheckSession(context.Background())(); got != AuthAuthenticated {
		t.Fatalf("CheckSession = %v, want authenticated", got)
	}
}

func findOffer(offers []rental.Offer, id string) (rental.Offer, bool) {
	for _, o := range offers {
		if o.ID == id {
			return o, true
		}
	}
	return rental.Offer{}, false
}

// run invokes call on its own goroutine and returns a channel for the result.
func run[T any](call Call[T]) <-chan T {
	done := make(chan T, 1)
	go func() { done <- call() }()
	return done
}

func wait[T any](t *testing.T, done <-chan T) T {
	t.Helper()
	select {
	case v := <-done:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for call")
	}
	var zero T
	return zero
}

func TestSession_StartsUnknownAndCheckWithoutTokenIsAnonymous(t *testing.T) {
	f := newFixture(t)
	if got := f.store.Session.Auth(); got != AuthUnknown {
		t.Fatalf("initial auth = %v, want unknown", got)
	}

	_ = f.tokens.Save("stale-token")
	if got := f.store.Session.CheckSession(context.Background())(); got != AuthAnonymous {
		t.Fatalf("CheckSession = %v, want anonymous", got)
	}
	snap := f.store.Session.Snapshot()
	if snap.Profile != nil {
		t.Fatalf("profile = %#v, want nil", snap.Profile)
	}
	if f.tokens.Get() != "" {
		t.Fatalf("stale token should be dropped, got %q", f.tokens.Get())
	}
}

func TestSession_CheckRestoresProfile(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	snap := f.store.Session.Snapshot()
	if snap.Profile == nil || snap.Profile.Email != "anna@example.com" {
		t.Fatalf("profile = %#v, want anna@example.com", snap.Profile)
	}
	if snap.Status != StatusSuccess {
		t.Fatalf("status = %v, want success", snap.Status)
	}
}

func TestSession_LoginStoresToken(t *testing.T) {
	f := newFixture(t)
	call := f.store.Session.Login(context.Background(), rental.Credentials{Email: "a@b.com", Password: "x1"})
	if got := f.store.Session.Snapshot().Status; got != StatusLoading {
		t.Fatalf("status before call = %v, want loading", got)
	}
	if err := call(); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	snap := f.store.Session.Snapshot()
	if snap.Auth != AuthAuthenticated || snap.Profile == nil || snap.Profile.Email != "a@b.com" {
		t.Fatalf("session = %#v, want authenticated a@b.com", snap)
	}
	if f.tokens.Get() == "" || f.tokens.Get() != snap.Profile.Token {
		t.Fatalf("stored token = %q, want %q", f.tokens.Get(), snap.Profile.Token)
	}
}

func TestSession_LoginErrorMapping(t *testing.T) {
	tests := []struct {
		name  string
		creds rental.Credentials
		fail  *rental.ErrorBody
		want  string
	}{
		{
			name:  "single detail",
			creds: rental.Credentials{Email: "a@b.com", Password: "x1"},
			fail:  &rental.ErrorBody{ErrorType: "VALIDATION_ERROR", Details: []rental.ErrorDetail{{Messages: []string{"too short"}}}},
			want:  "too short",
		},
		{
			name:  "details joined by newline",
			creds: rental.Credentials{Email: "nobody", Password: "letters"},
			want:  "email must be an email\npassword must contain at least one letter and one digit",
		},
		{
			name:  "message",
			creds: rental.Credentials{Email: "a@b.com", Password: "x1"},
			fail:  &rental.ErrorBody{Message: "Account locked"},
			want:  "Account locked",
		},
		{
			name:  "fallback",
			creds: rental.Credentials{Email: "a@b.com", Password: "x1"},
			fail:  &rental.ErrorBody{},
			want:  "Unable to sign in. Please try again.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.fail != nil {
				f.backend.Fail(http.MethodPost, "/login", http.StatusBadRequest, *tt.fail)
			}

			err := f.store.Session.Login(context.Background(), tt.creds)()
			if err == nil || err.Error() != tt.want {
				t.Fatalf("Login error = %v, want %q", err, tt.want)
			}
			snap := f.store.Session.Snapshot()
			if snap.Auth != AuthAnonymous {
				t.Fatalf("auth = %v, want anonymous", snap.Auth)
			}
			if snap.Status != StatusError || snap.Err != tt.want {
				t.Fatalf("snapshot = %v %q, want error %q", snap.Status, snap.Err, tt.want)
			}
			if f.tokens.Get() != "" {
				t.Fatalf("no token should be stored, got %q", f.tokens.Get())
			}
		})
	}
}

func TestSession_UnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := rental.NewClient(url)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	s := New(client, &token.Memory{}, nil)

	err = s.Session.Login(context.Background(), rental.Credentials{Email: "a@b.com", Password: "x1"})()
	if err == nil || err.Error() != msgUnreachable {
		t.Fatalf("Login error = %v, want %q", err, msgUnreachable)
	}

	s.Catalog.FetchOffers(context.Background())()
	if snap := s.Catalog.Snapshot(); snap.Status != StatusError || snap.Err != msgUnreachable {
		t.Fatalf("catalog = %v %q, want unreachable error", snap.Status, snap.Err)
	}
}

func TestStore_LogoutAlwaysSignsOut(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.store.Favorites.applyFavorite(rental.Offer{ID: "1", IsFavorite: true})
	f.backend.Fail(http.MethodDelete, "/logout", http.StatusInternalServerError, rental.ErrorBody{Message: "boom"})

	if got := f.store.Logout(context.Background())(); got != AuthAnonymous {
		t.Fatalf("Logout = %v, want anonymous", got)
	}
	snap := f.store.Snapshot()
	if snap.Session.Profile != nil || snap.Session.Err != "" {
		t.Fatalf("session = %#v, want cleared", snap.Session)
	}
	if len(snap.Favorites.Offers) != 0 {
		t.Fatalf("favorites = %v, want cleared", ids(snap.Favorites.Offers))
	}
	if f.tokens.Get() != "" {
		t.Fatalf("token = %q, want dropped", f.tokens.Get())
	}
	if f.backend.Hits(http.MethodDelete, "/logout") != 1 {
		t.Fatal("logout request should still be sent")
	}
}

func TestCatalog_FetchAndSelectCity(t *testing.T) {
	f := newFixture(t)
	c := f.store.Catalog

	call := c.FetchOffers(context.Background())
	if got := c.Snapshot().Status; got != StatusLoading {
		t.Fatalf("status before call = %v, want loading", got)
	}
	if got := call(); got != Done {
		t.Fatalf("FetchOffers = %v, want done", got)
	}
	if snap := c.Snapshot(); snap.Status != StatusSuccess || len(snap.Offers) != 24 {
		t.Fatalf("catalog = %v with %d offers", snap.Status, len(snap.Offers))
	}

	if got := ids(c.SortedOffers(SortPopular)); !reflect.DeepEqual(got, []string{"1", "2", "3", "4"}) {
		t.Fatalf("Paris offers = %v", got)
	}
	c.SetCity("Hamburg")
	if got := ids(c.SortedOffers(SortPopular)); !reflect.DeepEqual(got, []string{"17", "18", "19", "20"}) {
		t.Fatalf("Hamburg offers = %v", got)
	}
	if f.backend.Hits(http.MethodGet, "/offers") != 1 {
		t.Fatal("SetCity must not refetch")
	}
	if got := c.Cities(); len(got) != 6 || got[0] != "Paris" {
		t.Fatalf("Cities = %v", got)
	}
}

func TestCatalog_SortedOffersIsMemoized(t *testing.T) {
	f := newFixture(t)
	c := f.store.Catalog
	c.FetchOffers(context.Background())()

	first := c.SortedOffers(SortPriceAsc)
	second := c.SortedOffers(SortPriceAsc)
	if &first[0] != &second[0] {
		t.Fatal("SortedOffers should reuse the cached slice")
	}
	for i := 1; i < len(first); i++ {
		if first[i-1].Price > first[i].Price {
			t.Fatalf("not sorted by price: %v", first)
		}
	}

	c.SetCity("Cologne")
	third := c.SortedOffers(SortPriceAsc)
	if third[0].City.Name != "Cologne" {
		t.Fatalf("city change should recompute, got %s", third[0].City.Name)
	}
}

func TestCatalog_SupersededFetchDoesNotClobber(t *testing.T) {
	f := newFixture(t)
	c := f.store.Catalog
	entered, release := f.backend.HoldNext(http.MethodGet, "/offers")
	defer release()

	first := run(c.FetchOffers(context.Background()))
	<-entered

	if got := c.FetchOffers(context.Background())(); got != Done {
		t.Fatalf("second FetchOffers = %v, want done", got)
	}
	release()

	if got := wait(t, first); got != Cancelled {
		t.Fatalf("first FetchOffers = %v, want cancelled", got)
	}
	snap := c.Snapshot()
	if snap.Status != StatusSuccess || snap.Err != "" || len(snap.Offers) != 24 {
		t.Fatalf("catalog = %v %q with %d offers, want success", snap.Status, snap.Err, len(snap.Offers))
	}
}

func TestCatalog_CancelledFetchRestoresStatus(t *testing.T) {
	f := newFixture(t)
	c := f.store.Catalog
	entered, release := f.backend.HoldNext(http.MethodGet, "/offers")
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	done := run(c.FetchOffers(ctx))
	<-entered
	cancel()

	if got := wait(t, done); got != Cancelled {
		t.Fatalf("FetchOffers = %v, want cancelled", got)
	}
	if snap := c.Snapshot(); snap.Status != StatusIdle || snap.Err != "" {
		t.Fatalf("catalog = %v %q, want idle", snap.Status, snap.Err)
	}
}

func TestCatalog_FailureKeepsMessage(t *testing.T) {
	f := newFixture(t)
	f.backend.Fail(http.MethodGet, "/offers", http.StatusServiceUnavailable, rental.ErrorBody{Message: "Maintenance"})
	if got := f.store.Catalog.FetchOffers(context.Background())(); got != Failed {
		t.Fatalf("FetchOffers = %v, want failed", got)
	}
	if snap := f.store.Catalog.Snapshot(); snap.Status != StatusError || snap.Err != "Maintenance" {
		t.Fatalf("catalog = %v %q", snap.Status, snap.Err)
	}

	f.backend.Fail(http.MethodGet, "/offers", http.StatusInternalServerError, rental.ErrorBody{})
	f.store.Catalog.FetchOffers(context.Background())()
	if snap := f.store.Catalog.Snapshot(); snap.Err != msgOffers {
		t.Fatalf("err = %q, want fallback", snap.Err)
	}
}

func TestDetail_NotFoundIsDistinct(t *testing.T) {
	f := newFixture(t)
	if got := f.store.Offer.FetchOffer(context.Background(), "999")(); got != Failed {
		t.Fatalf("FetchOffer = %v, want failed", got)
	}
	snap := f.store.Offer.Snapshot()
	if snap.Status != StatusNotFound {
		t.Fatalf("status = %v, want not-found", snap.Status)
	}
	if snap.Offer != nil || snap.Err != "" {
		t.Fatalf("snapshot = %#v, want no offer and no error", snap)
	}

	f.backend.Fail(http.MethodGet, "/offers/{id}", http.StatusInternalServerError, rental.ErrorBody{})
	f.store.Offer.FetchOffer(context.Background(), "1")()
	if snap := f.store.Offer.Snapshot(); snap.Status != StatusError || snap.Err != msgOffer {
		t.Fatalf("snapshot = %v %q, want generic error", snap.Status, snap.Err)
	}
}

func TestStore_OpenAndCloseOffer(t *testing.T) {
	f := newFixture(t)
	if got := f.store.OpenOffer(context.Background(), "1")(); got != Done {
		t.Fatalf("OpenOffer = %v, want done", got)
	}

	snap := f.store.Snapshot()
	if snap.Offer.Offer == nil || snap.Offer.Offer.ID != "1" {
		t.Fatalf("offer = %#v, want id 1", snap.Offer.Offer)
	}
	if got := ids(f.store.Nearby.ToRender()); !reflect.DeepEqual(got, []string{"2", "3", "4"}) {
		t.Fatalf("nearby = %v", got)
	}
	if snap.Reviews.Status != StatusSuccess || len(snap.Reviews.Reviews) != 2 {
		t.Fatalf("reviews = %v with %d", snap.Reviews.Status, len(snap.Reviews.Reviews))
	}

	f.store.CloseOffer()
	snap = f.store.Snapshot()
	if snap.Offer.Status != StatusIdle || snap.Offer.Offer != nil {
		t.Fatalf("offer not dropped: %#v", snap.Offer)
	}
	if snap.Nearby.Status != StatusIdle || len(snap.Nearby.Offers) != 0 {
		t.Fatalf("nearby not dropped: %#v", snap.Nearby)
	}
	if snap.Reviews.Status != StatusIdle || len(snap.Reviews.Reviews) != 0 || snap.Reviews.OfferID != "" {
		t.Fatalf("reviews not dropped: %#v", snap.Reviews)
	}
}

func TestDetail_DropCancelsInFlightFetch(t *testing.T) {
	f := newFixture(t)
	entered, release := f.backend.HoldNext(http.MethodGet, "/offers/{id}")
	defer release()

	done := run(f.store.Offer.FetchOffer(context.Background(), "1"))
	<-entered
	f.store.Offer.DropOffer()

	if got := wait(t, done); got != Cancelled {
		t.Fatalf("FetchOffer = %v, want cancelled", got)
	}
	if snap := f.store.Offer.Snapshot(); snap.Status != StatusIdle || snap.Offer != nil {
		t.Fatalf("dropped store changed: %#v", snap)
	}
}

func TestReviews_SubmitAppendsLast(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.backend.SetClock(func() time.Time { return time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC) })
	f.store.OpenOffer(context.Background(), "1")()
	before := f.store.Reviews.Snapshot().Reviews

	call := f.store.Reviews.SubmitReview(context.Background(), rental.ReviewDraft{OfferID: "1", Comment: longComment, Rating: 5})
	snap := f.store.Reviews.Snapshot()
	if snap.SubmitStatus != StatusLoading || snap.Status != StatusSuccess {
		t.Fatalf("during submit: submit=%v fetch=%v", snap.SubmitStatus, snap.Status)
	}
	if err := call(); err != nil {
		t.Fatalf("SubmitReview returned error: %v", err)
	}

	snap = f.store.Reviews.Snapshot()
	if len(snap.Reviews) != len(before)+1 {
		t.Fatalf("reviews = %d, want %d", len(snap.Reviews), len(before)+1)
	}
	last := snap.Reviews[len(snap.Reviews)-1]
	if last.Comment != longComment || last.Rating != 5 {
		t.Fatalf("last review = %#v", last)
	}
	if snap.SubmitStatus != StatusSuccess || snap.SubmitErr != "" {
		t.Fatalf("submit = %v %q, want success", snap.SubmitStatus, snap.SubmitErr)
	}
	if f.backend.Hits(http.MethodGet, "/comments/{id}") != 1 {
		t.Fatal("submit must not refetch reviews")
	}

	f.store.Reviews.DropSubmissionStatus()
	if snap := f.store.Reviews.Snapshot(); snap.SubmitStatus != StatusIdle || len(snap.Reviews) != len(before)+1 {
		t.Fatalf("DropSubmissionStatus should reset only the form: %#v", snap)
	}
}

func TestReviews_SubmitErrorMapping(t *testing.T) {
	f := newFixture(t)
	f.store.OpenOffer(context.Background(), "1")()

	err := f.store.Reviews.SubmitReview(context.Background(), rental.ReviewDraft{OfferID: "1", Comment: longComment, Rating: 5})()
	if !errors.Is(err, RejectUnauthorized) {
		t.Fatalf("anonymous submit = %v, want unauthorized", err)
	}
	if err.Error() != "UNAUTHORIZED" {
		t.Fatalf("sentinel = %q", err.Error())
	}

	f.signIn(t)
	err = f.store.Reviews.SubmitReview(context.Background(), rental.ReviewDraft{OfferID: "1", Comment: "Too short", Rating: 9})()
	want := "comment length must be between 50 and 300 characters. rating must be between 1 and 5"
	if err == nil || err.Error() != want {
		t.Fatalf("validation error = %v, want %q", err, want)
	}
	snap := f.store.Reviews.Snapshot()
	if snap.SubmitStatus != StatusError || snap.SubmitErr != want {
		t.Fatalf("submit = %v %q", snap.SubmitStatus, snap.SubmitErr)
	}
	if snap.Status != StatusSuccess || len(snap.Reviews) != 2 {
		t.Fatalf("list disturbed by failed submit: %v %d", snap.Status, len(snap.Reviews))
	}

	f.store.Reviews.DropSubmissionStatus()
	if snap := f.store.Reviews.Snapshot(); snap.SubmitStatus != StatusIdle || snap.SubmitErr != "" {
		t.Fatalf("submit = %v %q, want reset", snap.SubmitStatus, snap.SubmitErr)
	}
}

func TestReviews_OneSubmissionAtATime(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.store.OpenOffer(context.Background(), "1")()
	entered, release := f.backend.HoldNext(http.MethodPost, "/comments/{id}")
	defer release()

	draft := rental.ReviewDraft{OfferID: "1", Comment: longComment, Rating: 4}
	done := run(f.store.Reviews.SubmitReview(context.Background(), draft))
	<-entered

	if err := f.store.Reviews.SubmitReview(context.Background(), draft)(); err == nil || err.Error() != msgSubmitPending {
		t.Fatalf("second submit = %v, want pending rejection", err)
	}
	release()
	if err := wait(t, done); err != nil {
		t.Fatalf("first submit = %v", err)
	}
	if got := len(f.store.Reviews.Snapshot().Reviews); got != 3 {
		t.Fatalf("reviews = %d, want 3", got)
	}
}

func TestToggle_AnonymousIsRejectedWithoutRequest(t *testing.T) {
	f := newFixture(t)
	f.store.Session.CheckSession(context.Background())()
	res := f.store.ToggleFavorite(context.Background(), "1", true)()
	if res.Err != RejectUnauthorized {
		t.Fatalf("Err = %v, want unauthorized", res.Err)
	}
	if f.backend.Hits(http.MethodPost, favoriteRoute) != 0 {
		t.Fatal("no request should be sent while anonymous")
	}
}

func TestToggle_UnknownSessionIsNotTreatedAsGuest(t *testing.T) {
	f := newFixture(t)
	_ = f.tokens.Save(f.backend.IssueToken("anna@example.com"))

	res := f.store.ToggleFavorite(context.Background(), "1", true)()
	if res.Err == nil || errors.Is(res.Err, RejectUnauthorized) {
		t.Fatalf("Err = %v, want a session check rejection", res.Err)
	}
	if res.Err.Error() != msgSessionCheck {
		t.Fatalf("Err = %q, want %q", res.Err, msgSessionCheck)
	}
	if f.store.IsToggling("1") {
		t.Fatal("rejected toggle left a pending overlay")
	}
	if f.backend.Hits(http.MethodPost, favoriteRoute) != 0 {
		t.Fatal("no request should be sent while the session is unknown")
	}
}

func TestToggle_UnauthorizedMutatesNothing(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()
	f.store.Catalog.FetchOffers(ctx)()
	f.store.OpenOffer(ctx, "1")()
	f.store.Favorites.FetchFavorites(ctx)()
	before := f.store.Snapshot()

	f.backend.Fail(http.MethodPost, favoriteRoute, http.StatusUnauthorized, rental.ErrorBody{Message: "expired"})
	res := f.store.ToggleFavorite(ctx, "1", true)()
	if res.Err == nil || res.Err.Error() != "UNAUTHORIZED" {
		t.Fatalf("Err = %v, want UNAUTHORIZED", res.Err)
	}
	if after := f.store.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatalf("stores changed after rejected toggle:\nbefore %#v\nafter  %#v", before, after)
	}
	if f.store.IsToggling("1") {
		t.Fatal("pending entry should be dropped")
	}
}

func TestToggle_FansOutConfirmedOffer(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()
	f.store.Catalog.FetchOffers(ctx)()
	f.store.OpenOffer(ctx, "2")()
	f.store.Favorites.FetchFavorites(ctx)()

	res := f.store.ToggleFavorite(ctx, "1", true)()
	if res.Err != nil || !res.Offer.IsFavorite {
		t.Fatalf("toggle = %#v", res)
	}

	snap := f.store.Snapshot()
	if o, _ := findOffer(snap.Catalog.Offers, "1"); !o.IsFavorite {
		t.Fatal("catalog copy not updated")
	}
	if o, _ := findOffer(snap.Nearby.Offers, "1"); !o.IsFavorite {
		t.Fatal("nearby copy not updated")
	}
	if snap.Offer.Offer.IsFavorite {
		t.Fatal("detail offer 2 must not change")
	}
	if got := ids(snap.Favorites.Offers); !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("favorites = %v", got)
	}

	f.store.ToggleFavorite(ctx, "2", true)()
	if !f.store.Offer.Snapshot().Offer.IsFavorite {
		t.Fatal("detail offer 2 should now be favorite")
	}
	if got := ids(f.store.Favorites.Snapshot().Offers); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Fatalf("favorites = %v", got)
	}
}

func TestToggle_RemovalIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()
	f.store.ToggleFavorite(ctx, "5", true)()
	f.store.ToggleFavorite(ctx, "5", true)()
	if got := ids(f.store.Favorites.Snapshot().Offers); !reflect.DeepEqual(got, []string{"5"}) {
		t.Fatalf("favorites after double add = %v", got)
	}

	f.store.ToggleFavorite(ctx, "5", false)()
	f.store.ToggleFavorite(ctx, "5", false)()
	if got := f.store.Favorites.Snapshot().Offers; len(got) != 0 {
		t.Fatalf("favorites after removal = %v", ids(got))
	}

	f.store.Favorites.FetchFavorites(ctx)()
	if _, ok := findOffer(f.store.Favorites.Snapshot().Offers, "5"); ok {
		t.Fatal("refetched favorites still contain removed offer")
	}
}

func TestToggle_PerOfferGuardAndOverlay(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx := context.Background()
	f.store.Catalog.FetchOffers(ctx)()
	entered, release := f.backend.HoldNext(http.MethodPost, favoriteRoute)
	defer release()

	done := run(f.store.ToggleFavorite(ctx, "1", true))
	<-entered

	o1, _ := findOffer(f.store.Catalog.Snapshot().Offers, "1")
	if o1.IsFavorite {
		t.Fatal("catalog must wait for the confirmed offer")
	}
	if !f.store.FavoriteFlag(o1) || !f.store.IsToggling("1") {
		t.Fatal("tentative flag should be visible while toggling")
	}

	second := f.store.ToggleFavorite(ctx, "1", false)()
	if second.Err == nil || second.Err.Error() != msgTogglePending {
		t.Fatalf("second toggle = %v, want pending rejection", second.Err)
	}
	other := f.store.ToggleFavorite(ctx, "2", true)()
	if other.Err != nil {
		t.Fatalf("toggling another offer = %v", other.Err)
	}

	release()
	if res := wait(t, done); res.Err != nil {
		t.Fatalf("first toggle = %v", res.Err)
	}
	if f.store.IsToggling("1") {
		t.Fatal("pending entry should be dropped after success")
	}
	o1, _ = findOffer(f.store.Catalog.Snapshot().Offers, "1")
	if !o1.IsFavorite || !f.store.FavoriteFlag(o1) {
		t.Fatal("confirmed flag not applied")
	}
}

func TestToggle_CancelledRevertsOverlay(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	entered, release := f.backend.HoldNext(http.MethodPost, favoriteRoute)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	done := run(f.store.ToggleFavorite(ctx, "3", true))
	<-entered
	if !f.store.FavoriteFlag(rental.Offer{ID: "3"}) {
		t.Fatal("tentative flag missing")
	}
	cancel()

	res := wait(t, done)
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("Err = %v, want context.Canceled", res.Err)
	}
	if f.store.FavoriteFlag(rental.Offer{ID: "3"}) {
		t.Fatal("tentative flag should be reverted")
	}
	if len(f.store.Favorites.Snapshot().Offers) != 0 {
		t.Fatal("favorites changed by cancelled toggle")
	}
}

func TestToggle_ServerMessage(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.backend.Fail(http.MethodPost, favoriteRoute, http.StatusInternalServerError, rental.ErrorBody{Message: "Try later"})
	if res := f.store.ToggleFavorite(context.Background(), "1", true)(); res.Err == nil || res.Err.Error() != "Try later" {
		t.Fatalf("Err = %v, want server message", res.Err)
	}
	f.backend.Fail(http.MethodPost, favoriteRoute, http.StatusInternalServerError, rental.ErrorBody{})
	res := f.store.ToggleFavorite(context.Background(), "1", true)()
	if res.Err == nil || !strings.HasPrefix(res.Err.Error(), "Failed to update favorites") {
		t.Fatalf("Err = %v, want fallback", res.Err)
	}
}
