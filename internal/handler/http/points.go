package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/service"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
	"github.com/MKhiriev/go-pixel-studio/models"
)

func (h *Handler) consumePoints(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var request models.ConsumeRequest
	if err := decodeJSON(r, &request); err != nil {
		writeServiceError(w, r, err)
		return
	}

	remaining, err := h.services.PointsService.Consume(ctx, user.UserID, request)
	if err != nil {
		// consume reports a short balance as a bad request, not 402
		if errors.Is(err, service.ErrInsufficientPoints) {
			writeAPIError(w, r, err, apiError{http.StatusBadRequest, CodeInsufficientPoints})
			return
		}
		writeServiceError(w, r, err)
		return
	}

	log.Debug().Int64("user_id", user.UserID).Int64("remaining", remaining).Msg("points consumed")
	_, _ = utils.WriteJSON(w, models.ConsumeResponse{Success: true, RemainingPoints: remaining}, http.StatusOK)
}

func (h *Handler) pointsHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := models.HistoryFilter{
		UserID:   user.UserID,
		ToolType: query.Get("toolType"),
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
	if since := query.Get("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			writeServiceError(w, r, fmt.Errorf("%w: since: %w", ErrInvalidQueryParam, err))
			return
		}
		filter.Since = &t
	}

	usages, err := h.services.PointsService.History(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.HistoryResponse{Usages: usages, Length: len(usages)}, http.StatusOK)
}

func (h *Handler) pointsTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	limit, err := uintParam(r.URL.Query().Get("limit"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	transactions, err := h.services.PointsService.Transactions(r.Context(), user.UserID, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.TransactionsResponse{Transactions: transactions, Length: len(transactions)}, http.StatusOK)
}

// uintParam parses an optional non-negative query parameter. Empty means 0.
func uintParam(raw string) (uint64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidQueryParam, err)
	}
	return v, nil
}
