package rental

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// API is the subset of backend calls the state layer depends on.
// It is implemented by *Client and can be faked in tests.
type API interface {
	FetchOffers(ctx context.Context) ([]Offer, error)
	FetchOffer(ctx context.Context, id string) (Offer, error)
	FetchNearby(ctx context.Context, id string) ([]Offer, error)
	FetchReviews(ctx context.Context, offerID string) ([]Review, error)
	PostReview(ctx context.Context, draft ReviewDraft) (Review, error)
	FetchFavorites(ctx context.Context) ([]Offer, error)
	SetFavorite(ctx context.Context, offerID string, favorite bool) (Offer, error)
	CheckLogin(ctx context.Context) (UserProfile, error)
	Login(ctx context.Context, creds Credentials) (UserProfile, error)
	Logout(ctx context.Context) error
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// TokenSource yields the bearer token to attach to outgoing requests.
// An empty string means no token is stored.
type TokenSource interface {
	Get() string
}

// Client talks to the rental REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tokens    TokenSource
	logger    *slog.Logger
}

const (
	defaultBaseURL   = "http://127.0.0.1:8090"
	defaultUserAgent = "hearth/0.1"
	defaultTimeout   = 5 * time.Second

	// TokenHeader carries the bearer token on authenticated requests.
	TokenHeader     = "X-Token"
	requestIDHeader = "X-Request-ID"
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the fixed per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithTokens attaches the token source consulted on every request.
func WithTokens(src TokenSource) Option {
	return func(c *Client) { c.tokens = src }
}

// WithLogger routes request logging to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "rental")
	return c, nil
}

// FetchOffers lists every offer the backend knows about.
func (c *Client) FetchOffers(ctx context.Context) ([]Offer, error) {
	var payload []Offer
	if err := c.do(ctx, http.MethodGet, "/offers", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchOffer retrieves the full record for a single offer.
func (c *Client) FetchOffer(ctx context.Context, id string) (Offer, error) {
	var payload Offer
	if err := c.do(ctx, http.MethodGet, "/offers/"+id, nil, &payload); err != nil {
		return Offer{}, err
	}
	return payload, nil
}

// FetchNearby retrieves the offers suggested as alternatives to id.
func (c *Client) FetchNearby(ctx context.Context, id string) ([]Offer, error) {
	var payload []Offer
	if err := c.do(ctx, http.MethodGet, "/offers/"+id+"/nearby", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchReviews retrieves the reviews posted for offerID.
func (c *Client) FetchReviews(ctx context.Context, offerID string) ([]Review, error) {
	var payload []Review
	if err := c.do(ctx, http.MethodGet, "/comments/"+offerID, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// PostReview submits a review and returns the stored record.
func (c *Client) PostReview(ctx context.Context, draft ReviewDraft) (Review, error) {
	if strings.TrimSpace(draft.OfferID) == "" {
		return Review{}, fmt.Errorf("offer id required")
	}
	var payload Review
	if err := c.do(ctx, http.MethodPost, "/comments/"+draft.OfferID, draft, &payload); err != nil {
		return Review{}, err
	}
	return payload, nil
}

// FetchFavorites lists the current user's favorite offers.
func (c *Client) FetchFavorites(ctx context.Context) ([]Offer, error) {
	var payload []Offer
	if err := c.do(ctx, http.MethodGet, "/favorite", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SetFavorite marks or unmarks offerID and returns the updated offer.
func (c *Client) SetFavorite(ctx context.Context, offerID string, favorite bool) (Offer, error) {
	flag := "0"
	if favorite {
		flag = "1"
	}
	var payload Offer
	if err := c.do(ctx, http.MethodPost, "/favorite/"+offerID+"/"+flag, nil, &payload); err != nil {
		return Offer{}, err
	}
	return payload, nil
}

// CheckLogin validates the stored token and returns its profile.
func (c *Client) CheckLogin(ctx context.Context) (UserProfile, error) {
	var payload UserProfile
	if err := c.do(ctx, http.MethodGet, "/login", nil, &payload); err != nil {
		return UserProfile{}, err
	}
	return payload, nil
}

// Login authenticates and returns the profile including a fresh token.
func (c *Client) Login(ctx context.Context, creds Credentials) (UserProfile, error) {
	var payload UserProfile
	if err := c.do(ctx, http.MethodPost, "/login", creds, &payload); err != nil {
		return UserProfile{}, err
	}
	return payload, nil
}

// Logout ends the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/logout", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	// Relative reference keeps any path prefix of the base URL.
	rel := &url.URL{Path: strings.TrimPrefix(path, "/")}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := strings.TrimSpace(c.tokens.Get()); token != "" {
			req.Header.Set(TokenHeader, token)
		}
	}

	log := c.logger.With("method", method, "path", path, "request_id", requestID)
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("request failed", "error", err)
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	log.Debug("request done", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &apiErr.Body)
		}
		return apiErr
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
