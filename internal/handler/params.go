package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"spotlapse/internal/model"
)

// parseLimit reads ?limit=. Missing means 0, letting the service apply its default.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", model.ErrValidation)
	}
	return limit, nil
}

// parseTimeCursor reads an RFC3339 ?cursor= used by follow lists.
func parseTimeCursor(r *http.Request) (*time.Time, error) {
	raw := r.URL.Query().Get("cursor")
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, model.ErrInvalidCursor
	}
	return &parsed, nil
}
