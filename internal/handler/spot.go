package handler

import (
	"net/http"

	"spotlapse/internal/httputil"
	"spotlapse/internal/model"
	"spotlapse/internal/transport/http/middleware"
)

type SpotHandler struct {
	spotService SpotService
}

func NewSpotHandler(spotService SpotService) *SpotHandler {
	return &SpotHandler{
		spotService: spotService,
	}
}

// Create handles POST /spots
func (h *SpotHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSpotRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	spot, err := h.spotService.CreateSpot(r.Context(), middleware.CallerFromContext(r.Context()), &req)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, spot)
}

// ListMine handles GET /me/spots
func (h *SpotHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	spots, err := h.spotService.ListMySpots(r.Context(), middleware.CallerFromContext(r.Context()))
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"spots": spots,
	})
}
