package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/five82/hearth/internal/rental"
)

// TokenStore persists the bearer token returned by a successful login.
type TokenStore interface {
	Save(token string) error
	Drop() error
}

// SessionSnapshot is a copy of the session state.
type SessionSnapshot struct {
	Auth    AuthStatus
	Profile *rental.UserProfile
	Status  RequestStatus
	Err     string
}

// Session holds the authorization status and the signed-in user.
type Session struct {
	api    rental.API
	tokens TokenStore
	logger *slog.Logger

	mu      sync.RWMutex
	auth    AuthStatus
	profile *rental.UserProfile
	req     slot
}

// NewSession creates a session store in the AuthUnknown state.
func NewSession(api rental.API, tokens TokenStore, logger *slog.Logger) *Session {
	return &Session{api: api, tokens: tokens, logger: componentLogger(logger, "session")}
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := SessionSnapshot{Auth: s.auth, Status: s.req.status, Err: s.req.err}
	if s.profile != nil {
		p := *s.profile
		snap.Profile = &p
	}
	return snap
}

// Auth returns the current authorization status.
func (s *Session) Auth() AuthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth
}

// CheckSession validates the stored token. Any failure leaves the session
// anonymous and deletes the stored token; the call reports the resulting
// status and never fails.
func (s *Session) CheckSession(ctx context.Context) Call[AuthStatus] {
	s.mu.Lock()
	ctx, gen := s.req.begin(ctx)
	s.mu.Unlock()

	return func() AuthStatus {
		profile, err := s.api.CheckLogin(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		switch s.req.settle(gen, err) {
		case Done:
			s.auth = AuthAuthenticated
			s.profile = &profile
			s.logger.Info("session restored", "email", profile.Email)
		case Failed:
			s.req.fail(StatusError, "")
			s.signOut()
			s.logger.Debug("no valid session", "error", err)
		}
		return s.auth
	}
}

// Login authenticates with creds and stores the returned token. On failure
// the session becomes anonymous and the returned Rejection is also kept in
// the snapshot for display.
func (s *Session) Login(ctx context.Context, creds rental.Credentials) Call[error] {
	s.mu.Lock()
	ctx, gen := s.req.begin(ctx)
	s.mu.Unlock()

	return func() error {
		profile, err := s.api.Login(ctx, creds)

		s.mu.Lock()
		defer s.mu.Unlock()
		switch s.req.settle(gen, err) {
		case Cancelled:
			return context.Canceled
		case Failed:
			msg := loginErrors.reject(err)
			s.req.fail(StatusError, string(msg))
			s.auth = AuthAnonymous
			s.profile = nil
			s.logger.Warn("login failed", "error", err)
			return msg
		}

		if err := s.tokens.Save(profile.Token); err != nil {
			s.req.fail(StatusError, msgSignIn)
			s.auth = AuthAnonymous
			s.profile = nil
			s.logger.Error("store token", "error", err)
			return Rejection(msgSignIn)
		}
		s.auth = AuthAuthenticated
		s.profile = &profile
		s.logger.Info("signed in", "email", profile.Email)
		return nil
	}
}

// Logout ends the session on the backend, best effort. Whatever the
// backend answers, the stored token is deleted and the session becomes
// anonymous.
func (s *Session) Logout(ctx context.Context) Call[AuthStatus] {
	s.mu.Lock()
	ctx, gen := s.req.begin(ctx)
	s.mu.Unlock()

	return func() AuthStatus {
		err := s.api.Logout(ctx)
		if err != nil {
			s.logger.Warn("logout request failed", "error", err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.req.req.current(gen) {
			s.req.req.finish()
			s.req.status = StatusIdle
			s.req.err = ""
		}
		s.signOut()
		return s.auth
	}
}

// signOut clears the user and the stored token. Callers hold s.mu.
func (s *Session) signOut() {
	s.auth = AuthAnonymous
	s.profile = nil
	if err := s.tokens.Drop(); err != nil {
		s.logger.Warn("drop token", "error", err)
	}
}

func componentLogger(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return logger.With("component", name)
}
