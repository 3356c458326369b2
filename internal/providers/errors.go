package providers

import (
	"errors"
	"fmt"
)

type rateLimitError struct {
	message string
}

func (e *rateLimitError) Error() string {
	return "rate limited: " + e.message
}

type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

// APIError is a non-success response that is neither an auth nor a rate-limit
// failure.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Body)
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

// IsRateLimitError reports whether the model API rejected the call for quota
// reasons. Such calls are not retried.
func IsRateLimitError(err error) bool {
	var re *rateLimitError
	return errors.As(err, &re)
}
