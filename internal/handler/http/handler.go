package http

import (
	"github.com/MKhiriev/go-pixel-studio/internal/config"
	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/metrics"
	"github.com/MKhiriev/go-pixel-studio/internal/service"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
)

type Handler struct {
	services *service.Services

	cookie         utils.CookieSettings
	allowedOrigins []string
	authRateLimit  int
	postLoginURL   string

	metrics *metrics.Metrics
	ids     *utils.UUIDGenerator

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, metrics *metrics.Metrics, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		cookie:         utils.NewCookieSettings(cfg.Cookie, cfg.Auth.TokenDuration),
		allowedOrigins: cfg.Server.AllowedOrigins,
		authRateLimit:  cfg.Server.AuthRateLimit,
		postLoginURL:   cfg.Adapter.Google.PostLoginURL,
		metrics:        metrics,
		ids:            utils.NewUUIDGenerator(),
		logger:         logger,
	}
}
