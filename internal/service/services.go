package service

import (
	"github.com/MKhiriev/go-pixel-studio/internal/adapter"
	"github.com/MKhiriev/go-pixel-studio/internal/config"
	"github.com/MKhiriev/go-pixel-studio/internal/crypto"
	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/metrics"
	"github.com/MKhiriev/go-pixel-studio/internal/store"
	"github.com/MKhiriev/go-pixel-studio/internal/validators"
	"github.com/MKhiriev/go-pixel-studio/models"
)

type Services struct {
	AuthService    AuthService
	SessionService SessionService
	PointsService  PointsService
	ToolService    ToolService
	PaymentService PaymentService
	AdminService   AdminService
	AppInfoService AppInfoService
}

// Adapters are the outbound providers the services depend on.
type Adapters struct {
	ImageGenerator  adapter.ImageGenerator
	OAuthProvider   adapter.OAuthProvider
	PaymentProvider adapter.PaymentProvider
}

func NewAdapters(cfg config.Adapter, logger *logger.Logger) Adapters {
	return Adapters{
		ImageGenerator:  adapter.NewReplicateAdapter(cfg.Replicate, logger),
		OAuthProvider:   adapter.NewGoogleOAuthAdapter(cfg.Google, logger),
		PaymentProvider: adapter.NewStripeAdapter(cfg.Stripe, logger),
	}
}

func NewServices(
	storages *store.Storages,
	adapters Adapters,
	cfg config.StructuredConfig,
	build models.AppBuildInfo,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) (*Services, error) {
	validator := validators.NewRequestValidator()
	hasher := crypto.NewPasswordHasher(cfg.Auth.ArgonTime, cfg.Auth.ArgonMemory, cfg.Auth.ArgonThreads)

	appInfo, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, err
	}

	points := NewPointsService(storages.PointsLedger, storages.ToolUsageRepository, validator, metrics, logger)

	return &Services{
		AuthService:    NewAuthService(storages.UserRepository, hasher, adapters.OAuthProvider, validator, cfg, logger),
		SessionService: NewSessionService(storages.UserRepository, cfg.Auth, logger),
		PointsService:  points,
		ToolService:    NewToolService(DefaultToolCatalog, adapters.ImageGenerator, points, storages.ToolUsageRepository, validator, metrics, logger),
		PaymentService: NewPaymentService(DefaultPointsPackages, adapters.PaymentProvider, points, cfg.Adapter.Stripe, logger),
		AdminService:   NewAdminService(storages.UserRepository, points, validator, cfg.Auth, logger),
		AppInfoService: appInfo,
	}, nil
}
