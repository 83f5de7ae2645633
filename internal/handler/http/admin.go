package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
	"github.com/MKhiriev/go-pixel-studio/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.UserFilter{
		Email:            query.Get("email"),
		SubscriptionType: query.Get("subscription"),
	}

	var err error
	if filter.Limit, err = uintParam(query.Get("limit")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if filter.Offset, err = uintParam(query.Get("offset")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	users, err := h.services.AdminService.ListUsers(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.UserListResponse{Users: users, Length: len(users)}, http.StatusOK)
}

func (h *Handler) adjustPoints(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var request models.AdjustPointsRequest
	if err = decodeJSON(r, &request); err != nil {
		writeServiceError(w, r, err)
		return
	}

	balance, err := h.services.AdminService.AdjustPoints(r.Context(), userID, request)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	admin, _ := utils.GetUserIDFromContext(r.Context())
	logger.FromRequest(r).Info().
		Int64("admin_id", admin).
		Int64("user_id", userID).
		Int64("amount", request.Amount).
		Str("reason", request.Reason).
		Msg("points adjusted")
	_, _ = utils.WriteJSON(w, models.ConsumeResponse{Success: true, RemainingPoints: balance}, http.StatusOK)
}

func (h *Handler) setSubscription(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var subscription models.Subscription
	if err = decodeJSON(r, &subscription); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.services.AdminService.SetSubscription(r.Context(), userID, subscription)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.ProfileResponse{User: user}, http.StatusOK)
}

func userIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: userID %q", ErrInvalidPathParam, raw)
	}
	return id, nil
}
