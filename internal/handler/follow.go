package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"spotlapse/internal/httputil"
	"spotlapse/internal/model"
	"spotlapse/internal/transport/http/middleware"
)

// FollowHandler serves the follow graph. The {user} path segment is a profile id.
type FollowHandler struct {
	followService FollowService
}

func NewFollowHandler(followService FollowService) *FollowHandler {
	return &FollowHandler{
		followService: followService,
	}
}

func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	if err := h.followService.Follow(r.Context(), caller, chi.URLParam(r, "user")); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully followed user",
	})
}

func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	if err := h.followService.Unfollow(r.Context(), caller, chi.URLParam(r, "user")); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully unfollowed user",
	})
}

func (h *FollowHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.followService.GetFollowers)
}

func (h *FollowHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.followService.GetFollowing)
}

type followLister func(ctx context.Context, viewer model.Caller, userID string, cursor *time.Time, limit int) (*model.FollowListResponse, error)

func (h *FollowHandler) list(w http.ResponseWriter, r *http.Request, lister followLister) {
	cursor, err := parseTimeCursor(r)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	result, err := lister(r.Context(), middleware.CallerFromContext(r.Context()), chi.URLParam(r, "user"), cursor, limit)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
