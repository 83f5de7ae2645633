package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

const compressionLevel = 5

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withMetrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", traceIDHeader},
		ExposedHeaders:   []string{traceIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.Compress(compressionLevel, "application/json"))

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/healthz", h.healthz)
		r.Get("/api/version", h.getServerVersion)
		r.Post("/api/auth/logout", h.logout)
		r.Post("/api/payments/webhook", h.paymentWebhook)

		if h.metrics != nil {
			r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
		}
	})

	// credential endpoints are rate limited per client IP
	router.Group(func(r chi.Router) {
		if h.authRateLimit > 0 {
			r.Use(httprate.LimitByIP(h.authRateLimit, time.Minute))
		}
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Get("/api/auth/google", h.googleLogin)
		r.Get("/api/auth/google/callback", h.googleCallback)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.requireAuth)

		r.Get("/api/user/profile", h.profile)

		r.Post("/api/points/consume", h.consumePoints)
		r.Get("/api/points/history", h.pointsHistory)
		r.Get("/api/points/transactions", h.pointsTransactions)

		r.Get("/api/tools", h.listTools)
		r.With(h.requirePoints).Post("/api/tools/{toolType}", h.generate)

		r.Get("/api/payments/packages", h.listPackages)
		r.Post("/api/payments/checkout", h.checkout)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Use(h.requireAdmin)

		r.Get("/api/admin/users", h.listUsers)
		r.Post("/api/admin/users/{userID}/points", h.adjustPoints)
		r.Put("/api/admin/users/{userID}/subscription", h.setSubscription)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
