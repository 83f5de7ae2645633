package adapter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-pixel-studio/internal/config"
	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
	"github.com/MKhiriev/go-pixel-studio/models"
)

const stripeTimeout = 15 * time.Second

type stripeAdapter struct {
	client    *utils.HTTPClient
	secretKey string
	logger    *logger.Logger
}

// NewStripeAdapter constructs a [PaymentProvider] creating Stripe Checkout
// sessions in payment mode.
func NewStripeAdapter(cfg config.Stripe, log *logger.Logger) PaymentProvider {
	return &stripeAdapter{
		client:    utils.NewHTTPClient(strings.TrimRight(cfg.BaseURL, "/"), stripeTimeout),
		secretKey: cfg.SecretKey,
		logger:    log,
	}
}

// CreateCheckoutSession implements [PaymentProvider]. The user id travels as
// client_reference_id and in metadata so the webhook can credit the right
// account.
func (s *stripeAdapter) CreateCheckoutSession(ctx context.Context, order models.CheckoutOrder) (models.CheckoutSession, error) {
	log := logger.FromContext(ctx)

	if s.secretKey == "" {
		return models.CheckoutSession{}, fmt.Errorf("stripe: %w", ErrNotConfigured)
	}

	userID := strconv.FormatInt(order.UserID, 10)
	form := map[string]string{
		"mode":                                          "payment",
		"success_url":                                   order.ReturnURL,
		"cancel_url":                                    order.CancelURL,
		"client_reference_id":                           userID,
		"line_items[0][quantity]":                       "1",
		"line_items[0][price_data][currency]":           order.Package.Currency,
		"line_items[0][price_data][unit_amount]":        strconv.FormatInt(order.Package.AmountCents, 10),
		"line_items[0][price_data][product_data][name]": order.Package.Title,
		"metadata[user_id]":                             userID,
		"metadata[package_id]":                          order.Package.ID,
		"metadata[points]":                              strconv.FormatInt(order.Package.Points, 10),
	}
	if order.Email != "" {
		form["customer_email"] = order.Email
	}

	var session struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetBasicAuth(s.secretKey, "").
		SetFormData(form).
		SetResult(&session).
		Post("/v1/checkout/sessions")
	if err != nil {
		log.Err(err).Str("func", "*stripeAdapter.CreateCheckoutSession").Msg("checkout request failed")
		return models.CheckoutSession{}, fmt.Errorf("stripe checkout request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Err(err).Str("func", "*stripeAdapter.CreateCheckoutSession").Int64("user_id", order.UserID).Msg("checkout rejected")
		return models.CheckoutSession{}, err
	}
	if session.ID == "" || session.URL == "" {
		return models.CheckoutSession{}, fmt.Errorf("%w: checkout session without id or url", ErrInvalidResponse)
	}

	return models.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}
