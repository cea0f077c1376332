package worker

import (
	"context"
	"fmt"
	"time"

	"spotlapse/internal/cache"
	"spotlapse/internal/logging"
	"spotlapse/internal/metrics"
	"spotlapse/internal/model"
	"spotlapse/internal/queue"
)

// StatsProvider computes a user's counts from the row store.
type StatsProvider interface {
	GetStats(ctx context.Context, userID string) (*model.ProfileStats, error)
}

// Handler refreshes the stats cache for the users an event touched.
// Services invalidate synchronously on write; the handler repopulates the
// entries so the next profile read is a cache hit.
type Handler struct {
	statsCache    cache.StatsCache
	statsProvider StatsProvider
}

func NewHandler(statsCache cache.StatsCache, statsProvider StatsProvider) *Handler {
	return &Handler{
		statsCache:    statsCache,
		statsProvider: statsProvider,
	}
}

// HandleEvent routes an event by type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.Event) error {
	startTime := time.Now()

	users := event.AffectedUsers()
	if users == nil {
		metrics.RecordWorkerEvent(event.Type, metrics.OutcomeError)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	var failed int
	var lastErr error
	for _, userID := range users {
		if userID == "" {
			continue
		}
		if err := h.refreshStats(ctx, userID); err != nil {
			failed++
			lastErr = err
			logging.Warn().Err(err).Str("type", event.Type).Str("user_id", userID).Msg("Stats refresh failed")
		}
	}

	if lastErr != nil {
		metrics.RecordWorkerEvent(event.Type, metrics.OutcomeError)
		return fmt.Errorf("refresh stats for %d of %d users: %w", failed, len(users), lastErr)
	}

	metrics.RecordWorkerEvent(event.Type, metrics.OutcomeSuccess)
	logging.Debug().Str("type", event.Type).Strs("users", users).Dur("duration", time.Since(startTime)).
		Msg("HandleEvent ok")
	return nil
}

func (h *Handler) refreshStats(ctx context.Context, userID string) error {
	stats, err := h.statsProvider.GetStats(ctx, userID)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}
	return h.statsCache.Set(ctx, userID, stats)
}
