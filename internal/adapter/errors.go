package adapter

import "errors"

// Errors mapped from upstream HTTP status codes.
var (
	ErrBadRequest          = errors.New("upstream rejected request")
	ErrUnauthorized        = errors.New("upstream credentials rejected")
	ErrForbidden           = errors.New("upstream access forbidden")
	ErrNotFound            = errors.New("upstream resource not found")
	ErrConflict            = errors.New("upstream conflict")
	ErrRateLimited         = errors.New("upstream rate limit exceeded")
	ErrBadGateway          = errors.New("upstream bad gateway")
	ErrInternalServerError = errors.New("upstream internal error")
)

// Domain errors of the adapters.
var (
	// ErrPredictionFailed is returned when a prediction ends as failed or
	// canceled.
	ErrPredictionFailed = errors.New("prediction failed")

	// ErrNotConfigured is returned when a provider is called without
	// credentials.
	ErrNotConfigured = errors.New("provider is not configured")

	// ErrInvalidResponse is returned for 2xx responses missing required
	// fields.
	ErrInvalidResponse = errors.New("invalid upstream response")
)
