package handler

import (
	"github.com/MKhiriev/go-pixel-studio/internal/config"
	"github.com/MKhiriev/go-pixel-studio/internal/handler/http"
	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/metrics"
	"github.com/MKhiriev/go-pixel-studio/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.StructuredConfig, metrics *metrics.Metrics, logger *logger.Logger) *Handlers {
	logger.Info().Msg("creating new handlers...")

	return &Handlers{
		HTTP: http.NewHandler(services, cfg, metrics, logger),
	}
}
