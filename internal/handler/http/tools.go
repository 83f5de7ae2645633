package http

import (
	"net/http"

	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
	"github.com/MKhiriev/go-pixel-studio/models"
	"github.com/go-chi/chi/v5"
)

func toolTypeParam(r *http.Request) string {
	return chi.URLParam(r, "toolType")
}

func (h *Handler) listTools(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, map[string][]models.Tool{"tools": h.services.ToolService.Tools()}, http.StatusOK)
}

// generate runs a metered tool. The points are debited only after the model
// returned a result.
func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var request models.GenerateRequest
	if err := decodeJSON(r, &request); err != nil {
		writeServiceError(w, r, err)
		return
	}

	toolType := toolTypeParam(r)
	result, err := h.services.ToolService.Generate(ctx, user, toolType, request.Input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info().
		Int64("user_id", user.UserID).
		Str("tool_type", toolType).
		Str("prediction_id", result.PredictionID).
		Int64("remaining", result.RemainingPoints).
		Msg("generation completed")
	_, _ = utils.WriteJSON(w, result, http.StatusOK)
}
