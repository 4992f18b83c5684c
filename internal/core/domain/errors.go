package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates a configuration value is out of range.
	ErrInvalidConfig = errors.New("invalid configuration")

	// Authentication Errors.

	// ErrAuthRequired indicates a request needs an authenticated session.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the OAuth code or token was rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrUnauthorized indicates admin credentials are missing or wrong.
	ErrUnauthorized = errors.New("unauthorized")

	// Remote API Errors.

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformedPayload indicates a remote response could not be used.
	ErrMalformedPayload = errors.New("malformed payload")
)
