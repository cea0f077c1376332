package model

import (
	"time"
)

// Profile represents a user's public profile. Its ID is the auth subject.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	AvatarURL *string   `db:"avatar_url" json:"avatar_url"`
	Bio       *string   `db:"bio" json:"bio"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ProfileSummary is the public subset embedded in captures, follow lists and search results.
type ProfileSummary struct {
	ID          string  `db:"id" json:"id"`
	Username    string  `db:"username" json:"username"`
	AvatarURL   *string `db:"avatar_url" json:"avatar_url"`
	Bio         *string `db:"bio" json:"bio,omitempty"`
	IsFollowing bool    `db:"-" json:"is_following"`
}

// ProfileStats holds the derived per-user counts. Never stored in the row store.
type ProfileStats struct {
	CaptureCount   int `db:"capture_count" json:"capture_count"`
	FollowerCount  int `db:"follower_count" json:"follower_count"`
	FollowingCount int `db:"following_count" json:"following_count"`
}

// ProfileView is the aggregate rendered on a profile page.
type ProfileView struct {
	Profile
	ProfileStats
	RegisteredLocation *string            `json:"registered_location"`
	RecentCaptures     []CaptureThumbnail `json:"recent_captures"`
	IsFollowing        bool               `json:"is_following"`
	IsOwnProfile       bool               `json:"is_own_profile"`
}

// CreateProfileRequest is the sign-up payload.
type CreateProfileRequest struct {
	Username  string  `json:"username" validate:"required,username"`
	Bio       *string `json:"bio" validate:"omitempty,max=160"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

// UpdateProfileRequest is the profile-edit payload.
type UpdateProfileRequest struct {
	Username  string  `json:"username" validate:"required,username"`
	Bio       *string `json:"bio" validate:"omitempty,max=160"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

// Profile constraints
const (
	UsernameMinLength    = 3
	UsernameMaxLength    = 20
	MaxBioLength         = 160
	ProfileRecentCapture = 6
)
