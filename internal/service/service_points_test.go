package service

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/metrics"
	"github.com/MKhiriev/go-pixel-studio/internal/mock"
	"github.com/MKhiriev/go-pixel-studio/internal/store"
	"github.com/MKhiriev/go-pixel-studio/internal/validators"
	"github.com/MKhiriev/go-pixel-studio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestPointsSvc(t *testing.T, ctrl *gomock.Controller) (PointsService, *mock.MockPointsLedger, *mock.MockToolUsageRepository) {
	t.Helper()
	ledger := mock.NewMockPointsLedger(ctrl)
	usages := mock.NewMockToolUsageRepository(ctrl)
	return NewPointsService(ledger, usages, validators.NewRequestValidator(), metrics.New(), logger.Nop()), ledger, usages
}

func TestPointsService_RequirePoints(t *testing.T) {
	svc, _, _ := newTestPointsSvc(t, gomock.NewController(t))
	user := models.User{UserID: 1, Points: 5}

	assert.NoError(t, svc.RequirePoints(user, 5))
	assert.NoError(t, svc.RequirePoints(user, 0))
	assert.ErrorIs(t, svc.RequirePoints(user, 6), ErrInsufficientPoints)
}

// 5 points, consume 3 leaves 2; consuming 3 again is rejected and the balance
// stays at 2.
func TestPointsService_Consume_Scenario(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, ledger, _ := newTestPointsSvc(t, ctrl)
	ctx := context.Background()
	debit := models.Debit{UserID: 1, Amount: 3, Reason: models.ReasonConsume, Reference: "ai-edit"}

	gomock.InOrder(
		ledger.EXPECT().TryDebit(ctx, debit).Return(int64(2), nil),
		ledger.EXPECT().TryDebit(ctx, debit).Return(int64(2), store.ErrInsufficientPoints),
	)

	balance, err := svc.Consume(ctx, 1, models.ConsumeRequest{Points: 3, Type: "ai-edit"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), balance)

	balance, err = svc.Consume(ctx, 1, models.ConsumeRequest{Points: 3, Type: "ai-edit"})
	require.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Equal(t, int64(2), balance)
}

func TestPointsService_Consume_InvalidPoints(t *testing.T) {
	svc, _, _ := newTestPointsSvc(t, gomock.NewController(t))

	_, err := svc.Consume(context.Background(), 1, models.ConsumeRequest{Points: -1})

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestPointsService_Debit_UnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, ledger, _ := newTestPointsSvc(t, ctrl)

	ledger.EXPECT().TryDebit(gomock.Any(), gomock.Any()).Return(int64(0), store.ErrNoUserWasFound)

	_, err := svc.Debit(context.Background(), models.Debit{UserID: 99, Amount: 1})

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPointsService_Credit_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, ledger, _ := newTestPointsSvc(t, ctrl)
	ctx := context.Background()
	credit := models.Credit{UserID: 1, Amount: 50, Reason: models.ReasonPurchase, Reference: "cs_1"}

	gomock.InOrder(
		ledger.EXPECT().Credit(ctx, credit).Return(models.CreditResult{Balance: 52, Applied: true}, nil),
		ledger.EXPECT().Credit(ctx, credit).Return(models.CreditResult{Balance: 52, Applied: false}, nil),
	)

	first, err := svc.Credit(ctx, 1, 50, "cs_1")
	require.NoError(t, err)
	assert.True(t, first.Applied)

	second, err := svc.Credit(ctx, 1, 50, "cs_1")
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Equal(t, first.Balance, second.Balance)
}

func TestPointsService_History_ClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, usages := newTestPointsSvc(t, ctrl)

	usages.EXPECT().ListToolUsages(gomock.Any(), models.HistoryFilter{UserID: 1, Limit: defaultHistoryLimit}).Return(nil, nil)
	usages.EXPECT().ListToolUsages(gomock.Any(), models.HistoryFilter{UserID: 1, Limit: maxHistoryLimit}).
		Return([]models.ToolUsage{{ID: 1}}, nil)

	_, err := svc.History(context.Background(), models.HistoryFilter{UserID: 1})
	require.NoError(t, err)

	got, err := svc.History(context.Background(), models.HistoryFilter{UserID: 1, Limit: 10_000})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPointsService_Transactions_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, ledger, _ := newTestPointsSvc(t, ctrl)

	ledger.EXPECT().Transactions(gomock.Any(), int64(1), uint64(defaultHistoryLimit)).Return(nil, store.ErrExecutingQuery)

	_, err := svc.Transactions(context.Background(), 1, 0)

	assert.ErrorIs(t, err, store.ErrExecutingQuery)
}
