package service

import (
	"context"

	"github.com/google/uuid"

	"spotlapse/internal/cache"
	"spotlapse/internal/logging"
	"spotlapse/internal/queue"
)

// canonicalID returns id in the lowercase hyphenated form PostgreSQL stores.
// ok is false for anything uuid.Parse rejects.
func canonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// invalidateStats drops cached counts after a committed write. The write has
// already succeeded, so a cache failure is logged and not returned.
func invalidateStats(ctx context.Context, statsCache cache.StatsCache, userIDs ...string) {
	if statsCache == nil {
		return
	}
	if err := statsCache.Invalidate(ctx, userIDs...); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Strs("user_ids", userIDs).Msg("Stats cache invalidation failed")
	}
}

// publishEvent sends event to the activity stream after commit. Publishing is
// best effort for the same reason as invalidateStats.
func publishEvent(ctx context.Context, publisher queue.Publisher, event queue.Event) {
	if publisher == nil {
		return
	}
	msgID, err := publisher.Publish(ctx, queue.StreamActivity, event)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("type", event.Type).Msg("Failed to publish event")
		return
	}
	logging.Ctx(ctx).Debug().Str("type", event.Type).Str("msg_id", msgID).Msg("Published event")
}
