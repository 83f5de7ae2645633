package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-pixel-studio/internal/adapter"
	"github.com/MKhiriev/go-pixel-studio/internal/config"
	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
	"github.com/MKhiriev/go-pixel-studio/models"
)

const (
	// Stripe rejects webhook timestamps older than this by default.
	webhookTolerance = 5 * time.Minute

	eventCheckoutCompleted = "checkout.session.completed"
	paymentStatusPaid      = "paid"
)

// DefaultPointsPackages are the bundles offered on the pricing page.
var DefaultPointsPackages = []models.PointsPackage{
	{ID: "starter", Title: "Starter: 50 points", Points: 50, AmountCents: 499, Currency: "usd"},
	{ID: "creator", Title: "Creator: 150 points", Points: 150, AmountCents: 1299, Currency: "usd"},
	{ID: "studio", Title: "Studio: 500 points", Points: 500, AmountCents: 3999, Currency: "usd"},
}

type paymentService struct {
	packages      []models.PointsPackage
	provider      adapter.PaymentProvider
	points        PointsService
	webhookSecret string
	successURL    string
	cancelURL     string
	now           func() time.Time

	logger *logger.Logger
}

func NewPaymentService(
	packages []models.PointsPackage,
	provider adapter.PaymentProvider,
	points PointsService,
	cfg config.Stripe,
	logger *logger.Logger,
) PaymentService {
	return &paymentService{
		packages:      packages,
		provider:      provider,
		points:        points,
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		now:           time.Now,
		logger:        logger,
	}
}

func (p *paymentService) Packages() []models.PointsPackage {
	return slices.Clone(p.packages)
}

func (p *paymentService) CreateCheckout(ctx context.Context, user models.User, packageID string) (models.CheckoutSession, error) {
	pkg, ok := p.findPackage(packageID)
	if !ok {
		return models.CheckoutSession{}, fmt.Errorf("%w: %q", ErrUnknownPackage, packageID)
	}

	session, err := p.provider.CreateCheckoutSession(ctx, models.CheckoutOrder{
		UserID:    user.UserID,
		Email:     user.Email,
		Package:   pkg,
		ReturnURL: p.successURL,
		CancelURL: p.cancelURL,
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", user.UserID).Str("package_id", pkg.ID).Msg("checkout session creation failed")
		return models.CheckoutSession{}, fmt.Errorf("%w: %w", ErrProviderFailed, err)
	}

	return session, nil
}

// HandleWebhook implements [PaymentService]. Events other than a paid
// checkout.session.completed are acknowledged and ignored.
func (p *paymentService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	log := logger.FromContext(ctx)

	if err := p.verifySignature(payload, signatureHeader); err != nil {
		log.Warn().Err(err).Msg("webhook signature rejected")
		return err
	}

	var event models.StripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidWebhookEvent, err)
	}
	if event.Type != eventCheckoutCompleted {
		log.Debug().Str("event_type", event.Type).Msg("webhook event ignored")
		return nil
	}

	session := event.Data.Object
	if session.PaymentStatus != paymentStatusPaid {
		log.Info().Str("session_id", session.ID).Str("payment_status", session.PaymentStatus).Msg("unpaid checkout ignored")
		return nil
	}

	userRef := session.ClientReferenceID
	if userRef == "" {
		userRef = session.Metadata["user_id"]
	}
	userID, err := strconv.ParseInt(userRef, 10, 64)
	if err != nil || userID <= 0 || session.ID == "" {
		return fmt.Errorf("%w: checkout session %q without user reference", ErrInvalidWebhookEvent, session.ID)
	}

	pkg, ok := p.findPackage(session.Metadata["package_id"])
	if !ok {
		return fmt.Errorf("%w: %w: %q", ErrInvalidWebhookEvent, ErrUnknownPackage, session.Metadata["package_id"])
	}

	result, err := p.points.Credit(ctx, userID, pkg.Points, session.ID)
	if err != nil {
		return err
	}

	log.Info().
		Int64("user_id", userID).
		Str("session_id", session.ID).
		Bool("applied", result.Applied).
		Int64("balance", result.Balance).
		Msg("checkout processed")
	return nil
}

// verifySignature checks a Stripe-Signature header of the form
// "t=<unix>,v1=<hex>[,v1=<hex>...]" against HMAC-SHA256("<t>.<payload>").
func (p *paymentService) verifySignature(payload []byte, header string) error {
	if p.webhookSecret == "" {
		return fmt.Errorf("%w: webhook secret is not configured", ErrInvalidSignature)
	}

	var (
		timestamp  string
		signatures []string
	)
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return fmt.Errorf("%w: malformed header", ErrInvalidSignature)
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
	}
	if age := p.now().Sub(time.Unix(unix, 0)); age > webhookTolerance || age < -webhookTolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	expected := utils.HashString(timestamp+"."+string(payload), p.webhookSecret)
	for _, signature := range signatures {
		if utils.EqualHex(expected, signature) {
			return nil
		}
	}
	return fmt.Errorf("%w: no matching signature", ErrInvalidSignature)
}

func (p *paymentService) findPackage(id string) (models.PointsPackage, bool) {
	idx := slices.IndexFunc(p.packages, func(pkg models.PointsPackage) bool { return pkg.ID == id })
	if idx < 0 {
		return models.PointsPackage{}, false
	}
	return p.packages[idx], true
}
