package gocardless

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrCredentialsMissing is returned when no API key pair is configured.
// Every provider call fails with it until credentials are set.
var ErrCredentialsMissing = errors.New("gocardless: API credentials not configured")

// APIError is a non-2xx response from the aggregator.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gocardless: status %d: %s", e.Status, e.Body)
}

// IsAuthFailure reports whether err is the provider rejecting the key pair
// or the bearer token.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}
