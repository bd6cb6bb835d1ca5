package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
	// EditWindowExpired is the server's distinguished signal that an update
	// was rejected because the record's edit window has closed.
	EditWindowExpired bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Unwrap maps statuses onto the package sentinels so callers can use
// errors.Is(err, ErrUnauthorized) or errors.Is(err, ErrUnavailable).
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return nil
	}
}

// MessageOf returns the server-supplied message of err, or fallback when err
// carries none.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsEditWindowExpired reports whether err is the server's edit-window
// rejection.
func IsEditWindowExpired(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.EditWindowExpired
}
