package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-pixel-studio/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists accounts and their subscription state.
type UserRepository interface {
	// CreateUser inserts user with an initial balance of signupBonus and
	// records the bonus in the ledger.
	CreateUser(ctx context.Context, user models.User, signupBonus int64) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByGoogleID(ctx context.Context, googleID string) (models.User, error)
	LinkGoogleAccount(ctx context.Context, userID int64, googleID string) (models.User, error)
	ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	SetSubscription(ctx context.Context, userID int64, subscription models.Subscription) (models.User, error)
	// ExpireSubscriptions moves every paid plan that ended before now back
	// to the free plan and reports how many accounts were changed.
	ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error)
}

// PointsLedger is the only writer of users.points.
type PointsLedger interface {
	// TryDebit subtracts debit.Amount if and only if the balance covers it.
	// On ErrInsufficientPoints the returned balance is the unchanged current
	// one.
	TryDebit(ctx context.Context, debit models.Debit) (int64, error)

	// Credit adds credit.Amount. A non-empty Reference makes the credit
	// idempotent: replays return Applied=false and the current balance.
	Credit(ctx context.Context, credit models.Credit) (models.CreditResult, error)

	Balance(ctx context.Context, userID int64) (int64, error)
	Transactions(ctx context.Context, userID int64, limit uint64) ([]models.PointsTransaction, error)
}

// ToolUsageRepository keeps the history of generations.
type ToolUsageRepository interface {
	SaveToolUsage(ctx context.Context, usage models.ToolUsage) (models.ToolUsage, error)
	ListToolUsages(ctx context.Context, filter models.HistoryFilter) ([]models.ToolUsage, error)
}
