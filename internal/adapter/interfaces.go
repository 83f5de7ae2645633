// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the outbound integrations of the image studio:
// Replicate for image generation, Google for OAuth login and Stripe for
// checkout sessions.
//
// All adapters talk HTTP through resty. Non-2xx responses are mapped by
// mapHTTPError to the sentinel values in errors.go so callers can use
// [errors.Is] (e.g. [ErrUnauthorized] for 401, [ErrRateLimited] for 429).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-pixel-studio/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// ImageGenerator runs a model prediction and waits for its terminal state.
type ImageGenerator interface {
	// Predict starts a prediction for tool with input and returns it once it
	// has succeeded. Failed or canceled predictions return
	// [ErrPredictionFailed].
	Predict(ctx context.Context, tool models.Tool, input map[string]any) (models.Prediction, error)
}

// OAuthProvider implements the authorization-code flow of Google sign-in.
type OAuthProvider interface {
	// AuthCodeURL returns the consent page URL carrying state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for tokens and returns the
	// profile of the signed-in account.
	Exchange(ctx context.Context, code string) (models.GoogleProfile, error)
}

// PaymentProvider opens hosted checkout pages.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, order models.CheckoutOrder) (models.CheckoutSession, error)
}
