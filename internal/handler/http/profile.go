package http

import (
	"net/http"

	"github.com/MKhiriev/go-pixel-studio/internal/utils"
	"github.com/MKhiriev/go-pixel-studio/models"
)

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	_, _ = utils.WriteJSON(w, models.ProfileResponse{User: user}, http.StatusOK)
}
