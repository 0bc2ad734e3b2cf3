package youtube

import "errors"

var (
	// ErrMissingAPIKey is returned when no API key is configured
	ErrMissingAPIKey = errors.New("youtube api key is not configured")

	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnauthorized is returned when the API key is rejected
	ErrUnauthorized = errors.New("unauthorized: invalid API key")

	// ErrQuotaExceeded is returned when the daily quota is used up
	ErrQuotaExceeded = errors.New("youtube quota exceeded")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")

	// ErrUpstream is returned for any other non-200 answer
	ErrUpstream = errors.New("youtube api error")
)
