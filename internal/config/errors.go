package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAuthConfigs indicates a missing JWT secret, a non-positive
	// token duration or broken password hashing parameters.
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
	// ErrInvalidStorageConfigs indicates an empty database DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidCookieConfigs indicates an empty cookie name or an unsupported
	// SameSite mode.
	ErrInvalidCookieConfigs = errors.New("invalid cookie configuration")
	// ErrInvalidServerConfigs indicates a missing listen address or timeout.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidPointsConfigs indicates a negative signup bonus.
	ErrInvalidPointsConfigs = errors.New("invalid points configuration")
)
