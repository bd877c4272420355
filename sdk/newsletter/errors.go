package newsletter

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by the SDK.
var (
	// ErrRejected is returned when the service refused the submitted values.
	ErrRejected = errors.New("newsletter: subscription rejected")

	// ErrRateLimited is returned when too many subscriptions came from this client.
	ErrRateLimited = errors.New("newsletter: too many requests")
)

// APIError represents an unexpected response from the newsletter service.
type APIError struct {
	StatusCode int
	RequestID  string
	TraceID    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("newsletter: API error %d (request %s)", e.StatusCode, e.RequestID)
}

func parseAPIError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusBadRequest:
		return ErrRejected
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("X-Request-ID"),
		TraceID:    resp.Header.Get("X-Trace-Id"),
	}
}

// IsAPIError checks whether err is an APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
