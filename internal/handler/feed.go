package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"spotlapse/internal/httputil"
	"spotlapse/internal/model"
	"spotlapse/internal/service"
)

type FeedHandler struct {
	feedService FeedService
}

func NewFeedHandler(feedService FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

// ListCaptures handles GET /captures
// Returns one page of the global capture feed.
//
// Query params:
//   - period: optional, all | week | month (default all)
//   - cursor: optional, opaque next_cursor from the previous page
//   - limit: optional, captures per page (default 20, max 100)
func (h *FeedHandler) ListCaptures(w http.ResponseWriter, r *http.Request) {
	period, err := service.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}

	feed, err := h.feedService.ListCaptures(r.Context(), model.FeedFilter{
		Period: period,
		Cursor: cursor,
		Limit:  limit,
	})
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, feed)
}

// GetCapture handles GET /captures/{id}
func (h *FeedHandler) GetCapture(w http.ResponseWriter, r *http.Request) {
	view, found, err := h.feedService.GetCapture(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	if !found {
		httputil.WriteNotFound(w, "Capture not found")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, view)
}

// ListUserCaptures handles GET /users/{user}/captures
// The path segment is a username. Returns thumbnails, newest first.
func (h *FeedHandler) ListUserCaptures(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	thumbnails, err := h.feedService.ListUserCaptures(r.Context(), chi.URLParam(r, "user"), limit)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"captures": thumbnails,
	})
}
