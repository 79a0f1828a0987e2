// Package rental provides an HTTP client for the rental listings REST API.
//
// # Overview
//
// This package defines the client used by the state layer to talk to the
// backend, together with the transport types that mirror its JSON schema:
// offers, reviews, user profiles and the two error body shapes.
//
// # Architecture
//
//   - client.go: Client, request options and the API interface
//   - types.go: data structures mirroring the API schema
//   - errors.go: APIError and status helpers
//
// # Client Usage
//
//	client, err := rental.NewClient(cfg.APIURL,
//		rental.WithTimeout(cfg.RequestTimeout),
//		rental.WithTokens(tokens),
//		rental.WithLogger(logger),
//	)
//	if err != nil {
//		return fmt.Errorf("init rental client: %w", err)
//	}
//
//	offers, err := client.FetchOffers(ctx)
//
// # API Endpoints
//
//   - GET /offers, GET /offers/{id}, GET /offers/{id}/nearby
//   - GET /comments/{id}, POST /comments/{id}
//   - GET /favorite, POST /favorite/{id}/{0|1}
//   - GET /login, POST /login, DELETE /logout
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation
//   - Set Accept: application/json and a User-Agent
//   - Carry a fresh X-Request-ID so backend logs can be correlated
//   - Carry X-Token when the TokenSource has a token, and nothing otherwise
//   - Have a fixed timeout (5 seconds unless WithTimeout says otherwise)
//
// # Error Handling
//
// Responses with status >= 400 become *APIError with the decoded body.
// Transport failures (refused connection, timeout) are wrapped as
// "execute request: ..." and keep context.Canceled detectable through
// errors.Is, which the state layer relies on to tell cancellation apart
// from failure.
//
// The client never translates errors into user-facing text; that mapping is
// store specific and lives in the state package.
//
// # Thread Safety
//
// The Client is safe for concurrent use. The TokenSource is read on every
// request, so a login or logout takes effect on the next call.
package rental
