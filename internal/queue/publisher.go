package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"spotlapse/internal/logging"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the specified stream.
	// Returns the message ID assigned by Redis.
	Publish(ctx context.Context, stream string, event Event) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
	maxLen int64
}

// DefaultStreamMaxLen approximately caps the stream length on every XADD.
const DefaultStreamMaxLen = 100000

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client) Publisher {
	return &RedisPublisher{client: client, maxLen: DefaultStreamMaxLen}
}

// Publish adds an event to the stream using XADD with an auto-generated ID.
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event Event) (string, error) {
	startTime := time.Now()
	log := logging.With().Str("component", "publisher").Str("stream", stream).Str("type", event.Type).Logger()

	values, err := event.ToMap()
	if err != nil {
		log.Error().Err(err).Msg("Publish failed")
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: values,
	}).Result()
	if err != nil {
		log.Error().Err(err).Msg("Publish failed")
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	log.Debug().Str("msg_id", messageID).Dur("duration", time.Since(startTime)).Msg("Publish ok")
	return messageID, nil
}
