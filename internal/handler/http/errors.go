// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors raised by the transport layer itself. Callers can match
// against them with [errors.Is].
var (
	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrInvalidPathParam is returned when a numeric path parameter such as
	// {userID} cannot be parsed.
	ErrInvalidPathParam = errors.New("invalid path parameter")

	// ErrInvalidQueryParam is returned for unparsable query parameters.
	ErrInvalidQueryParam = errors.New("invalid query parameter")

	// ErrNoSessionUser is returned by handlers mounted behind requireAuth
	// when the request context carries no user.
	ErrNoSessionUser = errors.New("no session user in request context")

	// ErrInvalidOAuthState is returned by the OAuth callback when the state
	// query parameter does not match the state cookie.
	ErrInvalidOAuthState = errors.New("oauth state mismatch")
)
