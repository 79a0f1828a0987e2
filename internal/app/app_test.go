package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/five82/hearth/internal/rental"
	"github.com/five82/hearth/internal/rental/rentaltest"
	"github.com/five82/hearth/internal/state"
	"github.com/five82/hearth/internal/token"
)

func newTestStore(t *testing.T) (*rentaltest.Backend, *state.Store) {
	backend, store, _ := newTestStoreWithTokens(t)
	return backend, store
}

func newTestStoreWithTokens(t *testing.T) (*rentaltest.Backend, *state.Store, *token.Memory) {
	t.Helper()
	backend := rentaltest.New(rentaltest.DefaultSeed())
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	tokens := &token.Memory{}
	client, err := rental.NewClient(server.URL, rental.WithTokens(tokens))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return backend, state.New(client, tokens, nil), tokens
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within 2s")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBootstrap_AnonymousLoadsCatalogOnly(t *testing.T) {
	backend, store := newTestStore(t)

	wait := startBootstrap(context.Background(), store)

	snap := store.Snapshot()
	if snap.Session.Status != state.StatusLoading || snap.Catalog.Status != state.StatusLoading {
		t.Fatalf("before wait: session %v, catalog %v, want both loading", snap.Session.Status, snap.Catalog.Status)
	}

	if err := wait(); err != nil {
		t.Fatalf("bootstrap returned error: %v", err)
	}

	snap = store.Snapshot()
	if snap.Session.Auth != state.AuthAnonymous {
		t.Fatalf("auth = %v, want anonymous", snap.Session.Auth)
	}
	if snap.Catalog.Status != state.StatusSuccess || len(snap.Catalog.Offers) != 24 {
		t.Fatalf("catalog = %v with %d offers, want success with 24", snap.Catalog.Status, len(snap.Catalog.Offers))
	}
	if hits := backend.Hits(http.MethodGet, "/favorite"); hits != 0 {
		t.Fatalf("GET /favorite hits = %d, want 0 for an anonymous user", hits)
	}
}

func TestBootstrap_SignedInLoadsFavorites(t *testing.T) {
	backend, store, tokens := newTestStoreWithTokens(t)
	_ = tokens.Save(backend.IssueToken("anna@example.com"))

	if err := startBootstrap(context.Background(), store)(); err != nil {
		t.Fatalf("bootstrap returned error: %v", err)
	}

	snap := store.Snapshot()
	if snap.Session.Auth != state.AuthAuthenticated {
		t.Fatalf("auth = %v, want authenticated", snap.Session.Auth)
	}
	if snap.Favorites.Status != state.StatusSuccess {
		t.Fatalf("favorites status = %v, want success", snap.Favorites.Status)
	}
	if hits := backend.Hits(http.MethodGet, "/favorite"); hits != 1 {
		t.Fatalf("GET /favorite hits = %d, want 1", hits)
	}
}

func TestBootstrap_ExpiredTokenIsDropped(t *testing.T) {
	_, store, tokens := newTestStoreWithTokens(t)
	_ = tokens.Save("stale-token")

	if err := startBootstrap(context.Background(), store)(); err != nil {
		t.Fatalf("bootstrap returned error: %v", err)
	}

	if got := store.Session.Auth(); got != state.AuthAnonymous {
		t.Fatalf("auth = %v, want anonymous", got)
	}
	if got := tokens.Get(); got != "" {
		t.Fatalf("token = %q, want it dropped", got)
	}
}
