package gitlab

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches any 404 response
	ErrNotFound = errors.New("not found")

	// ErrProjectNotFound is returned by GetProject for a 404
	ErrProjectNotFound = errors.New("project not found")

	// ErrUnauthorized matches 401 and 403 responses
	ErrUnauthorized = errors.New("unauthorized: check the access token and its project permissions")

	// ErrUnexpectedResponse matches every other non-2xx response
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// APIError carries the status of a failed GitLab API call
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitLab API %s %s returned %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Unwrap maps the status code to one of the sentinel errors so callers can
// use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return ErrUnexpectedResponse
	}
}
