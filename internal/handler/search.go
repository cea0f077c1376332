package handler

import (
	"net/http"

	"spotlapse/internal/httputil"
)

type SearchHandler struct {
	searchService SearchService
}

func NewSearchHandler(searchService SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// Search handles GET /search?q=
// Returns users, spots and posts matching q, at most 10 of each.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.searchService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
