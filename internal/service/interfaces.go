package service

import (
	"context"

	"github.com/MKhiriev/go-pixel-studio/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

type AuthService interface {
	RegisterUser(ctx context.Context, request models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, credentials models.Credentials) (models.User, error)
	LoginWithGoogle(ctx context.Context, code string) (models.User, error)
	GoogleAuthURL(state string) string
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
}

// SessionService turns a session token into the current user record.
type SessionService interface {
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)

	// Resolve verifies tokenString and loads the user it names, including the
	// current points balance. It never writes.
	Resolve(ctx context.Context, tokenString string) (models.User, error)
}

type PointsService interface {
	// RequirePoints is a pre-check only. Metered paths still commit through
	// Debit.
	RequirePoints(user models.User, cost int64) error

	Consume(ctx context.Context, userID int64, request models.ConsumeRequest) (int64, error)
	Debit(ctx context.Context, debit models.Debit) (int64, error)
	Credit(ctx context.Context, userID, amount int64, reference string) (models.CreditResult, error)
	Grant(ctx context.Context, credit models.Credit) (models.CreditResult, error)

	History(ctx context.Context, filter models.HistoryFilter) ([]models.ToolUsage, error)
	Transactions(ctx context.Context, userID int64, limit uint64) ([]models.PointsTransaction, error)
}

type ToolService interface {
	Tools() []models.Tool
	Generate(ctx context.Context, user models.User, toolType string, input map[string]any) (models.GenerationResult, error)
}

type PaymentService interface {
	Packages() []models.PointsPackage
	CreateCheckout(ctx context.Context, user models.User, packageID string) (models.CheckoutSession, error)

	// HandleWebhook verifies a Stripe event and credits the purchased points
	// at most once per checkout session.
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error
}

type AdminService interface {
	IsAdmin(userID int64) bool
	ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	AdjustPoints(ctx context.Context, userID int64, request models.AdjustPointsRequest) (int64, error)
	SetSubscription(ctx context.Context, userID int64, subscription models.Subscription) (models.User, error)

	// ExpireSubscriptions downgrades every paid plan whose end date has
	// passed to the free plan.
	ExpireSubscriptions(ctx context.Context) (int64, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}
