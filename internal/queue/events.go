package queue

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Event types for the activity stream
const (
	EventCaptureCreated = "capture_created"
	EventUserFollowed   = "user_followed"
	EventUserUnfollowed = "user_unfollowed"
)

// Stream names
const (
	StreamActivity = "stream:activity"
)

// Consumer group name for stats workers
const (
	ConsumerGroupStats = "stats_workers"
)

// Event is a domain change published after a successful write.
type Event struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix seconds

	// CaptureCreated
	CaptureID string `json:"capture_id,omitempty"`
	SpotID    string `json:"spot_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`

	// UserFollowed, UserUnfollowed
	FollowerID  string `json:"follower_id,omitempty"`
	FollowingID string `json:"following_id,omitempty"`
}

func NewCaptureCreatedEvent(captureID, spotID, userID string) Event {
	return Event{
		Type:      EventCaptureCreated,
		Timestamp: time.Now().Unix(),
		CaptureID: captureID,
		SpotID:    spotID,
		UserID:    userID,
	}
}

func NewUserFollowedEvent(followerID, followingID string) Event {
	return Event{
		Type:        EventUserFollowed,
		Timestamp:   time.Now().Unix(),
		FollowerID:  followerID,
		FollowingID: followingID,
	}
}

func NewUserUnfollowedEvent(followerID, followingID string) Event {
	return Event{
		Type:        EventUserUnfollowed,
		Timestamp:   time.Now().Unix(),
		FollowerID:  followerID,
		FollowingID: followingID,
	}
}

// AffectedUsers returns the users whose stats changed because of the event.
func (e Event) AffectedUsers() []string {
	switch e.Type {
	case EventCaptureCreated:
		return []string{e.UserID}
	case EventUserFollowed, EventUserUnfollowed:
		return []string{e.FollowerID, e.FollowingID}
	default:
		return nil
	}
}

// ToMap converts the event to XADD field-value pairs. The payload is stored
// as JSON in the "data" field.
func (e Event) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseEvent parses an Event from Redis stream message values.
func ParseEvent(values map[string]interface{}) (Event, error) {
	data, ok := values["data"].(string)
	if !ok {
		return Event{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
