package model

import (
	"time"
)

// Follow is a directed edge: FollowerID follows FollowingID.
type Follow struct {
	FollowerID  string    `db:"follower_id" json:"follower_id"`
	FollowingID string    `db:"following_id" json:"following_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type FollowListResponse struct {
	Users      []ProfileSummary `json:"users"`
	NextCursor *string          `json:"next_cursor,omitempty"`
	HasMore    bool             `json:"has_more"`
}
