package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"spotlapse/internal/httputil"
	"spotlapse/internal/model"
	"spotlapse/internal/transport/http/middleware"
)

type ProfileHandler struct {
	profileService ProfileService
}

func NewProfileHandler(profileService ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// Create handles POST /profiles
// Registers the caller's profile after sign-up.
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateProfileRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	profile, err := h.profileService.CreateProfile(r.Context(), middleware.CallerFromContext(r.Context()), &req)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, profile)
}

// Me handles GET /me
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	view, err := h.profileService.GetMe(r.Context(), middleware.CallerFromContext(r.Context()))
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, view)
}

// UpdateMe handles PATCH /me
func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateProfileRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), middleware.CallerFromContext(r.Context()), &req)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// GetProfile handles GET /users/{user}
// The path segment is a username here.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "user")

	view, err := h.profileService.GetProfile(r.Context(), middleware.CallerFromContext(r.Context()), username)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, view)
}
