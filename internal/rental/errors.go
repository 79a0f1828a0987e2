package rental

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// APIError is returned for any response with status >= 400. Body holds
// whatever error payload the backend sent, possibly empty.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   ErrorBody
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Status)
	if m := strings.TrimSpace(e.Body.Message); m != "" {
		msg += ": " + m
	}
	return msg
}

// StatusOf reports the HTTP status carried by err, or 0 when err did not
// come from a backend response.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// IsUnreachable reports whether err is a transport failure: no response was
// received (refused connection, DNS failure, timeout). Caller cancellation
// is not counted.
func IsUnreachable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
