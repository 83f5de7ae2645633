package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
	"github.com/MKhiriev/go-pixel-studio/models"
)

const (
	stripeSignatureHeader = "Stripe-Signature"

	// Stripe events stay well below this.
	maxWebhookBytes = 64 << 10
)

func (h *Handler) listPackages(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, map[string][]models.PointsPackage{"packages": h.services.PaymentService.Packages()}, http.StatusOK)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var request models.CheckoutRequest
	if err := decodeJSON(r, &request); err != nil {
		writeServiceError(w, r, err)
		return
	}

	session, err := h.services.PaymentService.CreateCheckout(r.Context(), user, request.PackageID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().
		Int64("user_id", user.UserID).
		Str("session_id", session.ID).
		Str("package_id", request.PackageID).
		Msg("checkout session created")
	_, _ = utils.WriteJSON(w, session, http.StatusOK)
}

// paymentWebhook receives Stripe events. The raw body is needed as is for
// the signature check, so it is read before any decoding.
func (h *Handler) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	if err = h.services.PaymentService.HandleWebhook(r.Context(), payload, r.Header.Get(stripeSignatureHeader)); err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, map[string]bool{"received": true}, http.StatusOK)
}
