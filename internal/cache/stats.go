package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"spotlapse/internal/logging"
	"spotlapse/internal/model"
)

const (
	// StatsCachePrefix is the key prefix for per-user stats hashes
	StatsCachePrefix = "stats:user:"

	// DefaultStatsTTL bounds how long a stale entry can survive a missed invalidation
	DefaultStatsTTL = 5 * time.Minute
)

const (
	fieldCaptures  = "captures"
	fieldFollowers = "followers"
	fieldFollowing = "following"
)

// StatsCache stores the derived capture/follower/following counts per user.
type StatsCache interface {
	// Get returns (stats, found, error). found=false on a cache miss.
	Get(ctx context.Context, userID string) (*model.ProfileStats, bool, error)

	// Set writes all three counts and refreshes the TTL in one pipeline.
	Set(ctx context.Context, userID string, stats *model.ProfileStats) error

	// Invalidate drops the entries of every given user.
	Invalidate(ctx context.Context, userIDs ...string) error
}

// RedisStatsCache implements StatsCache using one Redis hash per user.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a StatsCache backed by Redis. A non-positive ttl
// falls back to DefaultStatsTTL.
func NewStatsCache(client *redis.Client, ttl time.Duration) StatsCache {
	if ttl <= 0 {
		ttl = DefaultStatsTTL
	}
	return &RedisStatsCache{client: client, ttl: ttl}
}

func statsKey(userID string) string {
	return StatsCachePrefix + userID
}

func (c *RedisStatsCache) Get(ctx context.Context, userID string) (*model.ProfileStats, bool, error) {
	values, err := c.client.HGetAll(ctx, statsKey(userID)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("hgetall stats: %w", err)
	}
	if len(values) == 0 {
		return nil, false, nil
	}

	stats := &model.ProfileStats{}
	for field, dst := range map[string]*int{
		fieldCaptures:  &stats.CaptureCount,
		fieldFollowers: &stats.FollowerCount,
		fieldFollowing: &stats.FollowingCount,
	} {
		raw, ok := values[field]
		if !ok {
			// Partially written hash: treat as a miss.
			return nil, false, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, false, fmt.Errorf("parse stats field %s: %w", field, err)
		}
		*dst = n
	}
	return stats, true, nil
}

// Set uses a pipeline: HSET + EXPIRE.
func (c *RedisStatsCache) Set(ctx context.Context, userID string, stats *model.ProfileStats) error {
	key := statsKey(userID)

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key,
		fieldCaptures, stats.CaptureCount,
		fieldFollowers, stats.FollowerCount,
		fieldFollowing, stats.FollowingCount,
	)
	pipe.Expire(ctx, key, c.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Msg("Stats cache set failed")
		return fmt.Errorf("set stats pipeline: %w", err)
	}
	return nil
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = statsKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("del stats: %w", err)
	}
	return nil
}
