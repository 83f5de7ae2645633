package http

import (
	"net/http"

	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/service"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
	"github.com/MKhiriev/go-pixel-studio/models"
)

// requireAuth resolves the session of the request and stores the user in
// the request context under [utils.WithUser].
//
// The token is read from the session cookie. Non-browser clients may send
// it as "Authorization: Bearer <token>" instead. Requests without a token,
// with an expired, tampered or malformed token, or whose user no longer
// exists are answered with 401 and never reach next.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := h.tokenFromRequest(r)
		if err != nil {
			log.Debug().Err(err).Msg("request without session token")
			writeServiceError(w, r, service.ErrUnauthorized)
			return
		}

		user, err := h.services.SessionService.Resolve(r.Context(), tokenString)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUser(r.Context(), user)))
	})
}

func (h *Handler) tokenFromRequest(r *http.Request) (string, error) {
	if token, err := utils.ReadTokenCookie(r, h.cookie); err == nil {
		return token, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", utils.ErrNoTokenCookie
	}
	return utils.ParseBearerToken(authHeader)
}

// requireAdmin must be mounted after requireAuth. Users missing from the
// admin allow-list get 403.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := sessionUser(w, r)
		if !ok {
			return
		}

		if !h.services.AdminService.IsAdmin(user.UserID) {
			logger.FromRequest(r).Warn().Int64("user_id", user.UserID).Msg("non-admin user on admin route")
			writeServiceError(w, r, service.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requirePoints rejects a metered tool request with 402 when the balance
// loaded with the session is already below the tool cost. It is a fast
// pre-check only: the debit after generation is conditional and decides.
func (h *Handler) requirePoints(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := sessionUser(w, r)
		if !ok {
			return
		}

		tool, found := h.findTool(toolTypeParam(r))
		if !found {
			// unknown tools are reported by the service
			next.ServeHTTP(w, r)
			return
		}

		if err := h.services.PointsService.RequirePoints(user, tool.Cost); err != nil {
			logger.FromRequest(r).Debug().
				Int64("user_id", user.UserID).
				Str("tool_type", tool.Type).
				Int64("points", user.Points).
				Int64("cost", tool.Cost).
				Msg("not enough points for tool")
			writeServiceError(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) findTool(toolType string) (models.Tool, bool) {
	for _, tool := range h.services.ToolService.Tools() {
		if tool.Type == toolType {
			return tool, true
		}
	}
	return models.Tool{}, false
}

// sessionUser returns the user stored by requireAuth.
func sessionUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		writeServiceError(w, r, ErrNoSessionUser)
		return models.User{}, false
	}
	return user, true
}
