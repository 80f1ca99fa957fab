package domain

import "errors"

// Sentinel errors for cross-service error classification.
// The AWS layer wraps these so callers can handle error categories
// uniformly without importing SDK error types.
//
//	return fmt.Errorf("failed to describe instances: %w", domain.ErrUnauthorized)
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the service throttled the request.
	ErrRateLimited = errors.New("rate limited")
)
