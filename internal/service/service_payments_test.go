package service

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/MKhiriev/go-pixel-studio/internal/adapter"
	"github.com/MKhiriev/go-pixel-studio/internal/config"
	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/mock"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
	"github.com/MKhiriev/go-pixel-studio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const webhookSecret = "whsec_test"

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestPaymentSvc(t *testing.T) (*paymentService, *mock.MockPaymentProvider, *mock.MockPointsService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	provider := mock.NewMockPaymentProvider(ctrl)
	points := mock.NewMockPointsService(ctrl)

	cfg := config.Stripe{WebhookSecret: webhookSecret, SuccessURL: "http://app/ok", CancelURL: "http://app/cancel"}
	svc := NewPaymentService(DefaultPointsPackages, provider, points, cfg, logger.Nop()).(*paymentService)
	svc.now = func() time.Time { return fixedNow }
	return svc, provider, points
}

func signPayload(payload string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	return fmt.Sprintf("t=%s,v1=%s", ts, utils.HashString(ts+"."+payload, webhookSecret))
}

const completedEvent = `{
	"id": "evt_1",
	"type": "checkout.session.completed",
	"data": {"object": {
		"id": "cs_test_1",
		"payment_status": "paid",
		"client_reference_id": "7",
		"metadata": {"user_id": "7", "package_id": "creator", "points": "150"}
	}}
}`

func TestPaymentService_CreateCheckout(t *testing.T) {
	svc, provider, _ := newTestPaymentSvc(t)
	user := models.User{UserID: 7, Email: "alice@example.com"}

	provider.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, order models.CheckoutOrder) (models.CheckoutSession, error) {
			assert.Equal(t, int64(7), order.UserID)
			assert.Equal(t, "creator", order.Package.ID)
			assert.Equal(t, "http://app/ok", order.ReturnURL)
			return models.CheckoutSession{ID: "cs_1", URL: "https://checkout"}, nil
		},
	)

	got, err := svc.CreateCheckout(context.Background(), user, "creator")

	require.NoError(t, err)
	assert.Equal(t, "cs_1", got.ID)
}

func TestPaymentService_CreateCheckout_Errors(t *testing.T) {
	svc, provider, _ := newTestPaymentSvc(t)

	_, err := svc.CreateCheckout(context.Background(), models.User{UserID: 7}, "gold")
	assert.ErrorIs(t, err, ErrUnknownPackage)

	provider.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).Return(models.CheckoutSession{}, adapter.ErrUnauthorized)
	_, err = svc.CreateCheckout(context.Background(), models.User{UserID: 7}, "starter")
	assert.ErrorIs(t, err, ErrProviderFailed)
}

func TestPaymentService_HandleWebhook_CreditsOncePerSession(t *testing.T) {
	svc, _, points := newTestPaymentSvc(t)
	header := signPayload(completedEvent, fixedNow)

	gomock.InOrder(
		points.EXPECT().Credit(gomock.Any(), int64(7), int64(150), "cs_test_1").Return(models.CreditResult{Balance: 155, Applied: true}, nil),
		points.EXPECT().Credit(gomock.Any(), int64(7), int64(150), "cs_test_1").Return(models.CreditResult{Balance: 155, Applied: false}, nil),
	)

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(completedEvent), header))
	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(completedEvent), header))
}

func TestPaymentService_HandleWebhook_Signature(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "empty header", header: ""},
		{name: "no v1", header: "t=" + strconv.FormatInt(fixedNow.Unix(), 10)},
		{name: "wrong secret", header: fmt.Sprintf("t=%d,v1=%s", fixedNow.Unix(), utils.HashString("x", "other"))},
		{name: "stale timestamp", header: signPayload(completedEvent, fixedNow.Add(-6*time.Minute))},
		{name: "future timestamp", header: signPayload(completedEvent, fixedNow.Add(6*time.Minute))},
		{name: "tampered payload", header: signPayload(completedEvent+" ", fixedNow)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestPaymentSvc(t)

			err := svc.HandleWebhook(context.Background(), []byte(completedEvent), tt.header)

			assert.ErrorIs(t, err, ErrInvalidSignature)
		})
	}
}

func TestPaymentService_HandleWebhook_AcceptsAnyMatchingV1(t *testing.T) {
	svc, _, points := newTestPaymentSvc(t)
	header := signPayload(completedEvent, fixedNow) + ",v1=deadbeef,v0=ignored"

	points.EXPECT().Credit(gomock.Any(), int64(7), int64(150), "cs_test_1").Return(models.CreditResult{Applied: true}, nil)

	assert.NoError(t, svc.HandleWebhook(context.Background(), []byte(completedEvent), header))
}

func TestPaymentService_HandleWebhook_IgnoredEvents(t *testing.T) {
	payloads := []string{
		`{"id":"evt_2","type":"payment_intent.created","data":{"object":{}}}`,
		`{"id":"evt_3","type":"checkout.session.completed","data":{"object":{"id":"cs_2","payment_status":"unpaid","client_reference_id":"7"}}}`,
	}

	for _, payload := range payloads {
		svc, _, _ := newTestPaymentSvc(t)
		assert.NoError(t, svc.HandleWebhook(context.Background(), []byte(payload), signPayload(payload, fixedNow)))
	}
}

func TestPaymentService_HandleWebhook_InvalidEvents(t *testing.T) {
	payloads := []string{
		`not json`,
		`{"type":"checkout.session.completed","data":{"object":{"id":"cs_3","payment_status":"paid"}}}`,
		`{"type":"checkout.session.completed","data":{"object":{"id":"cs_4","payment_status":"paid","client_reference_id":"7","metadata":{"package_id":"gold"}}}}`,
	}

	for _, payload := range payloads {
		svc, _, _ := newTestPaymentSvc(t)
		err := svc.HandleWebhook(context.Background(), []byte(payload), signPayload(payload, fixedNow))
		assert.ErrorIs(t, err, ErrInvalidWebhookEvent, payload)
	}
}

func TestPaymentService_Packages_ReturnsCopy(t *testing.T) {
	svc, _, _ := newTestPaymentSvc(t)

	pkgs := svc.Packages()
	pkgs[0].Points = 0

	assert.Equal(t, DefaultPointsPackages[0].Points, svc.Packages()[0].Points)
}
