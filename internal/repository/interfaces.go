package repository

import (
	"context"
	"time"

	"spotlapse/internal/model"
)

type ProfileRepository interface {
	// Create inserts a profile. Returns model.ErrProfileExists when the id is
	// already registered and model.ErrUsernameTaken on a username collision.
	Create(ctx context.Context, p *model.Profile) error
	// Update rewrites username, bio and avatar of an existing profile.
	Update(ctx context.Context, p *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetByUsername(ctx context.Context, username string) (*model.Profile, error)
	Exists(ctx context.Context, id string) (bool, error)
	// GetStats computes capture, follower and following counts from the row store.
	GetStats(ctx context.Context, id string) (*model.ProfileStats, error)
	Search(ctx context.Context, query string, limit int) ([]model.ProfileSummary, error)
}

type SpotRepository interface {
	Create(ctx context.Context, s *model.Spot) error
	GetByID(ctx context.Context, id string) (*model.Spot, error)
	ListByUser(ctx context.Context, userID string) ([]model.Spot, error)
	// GetOldestByUser returns nil without error when the user owns no spot.
	GetOldestByUser(ctx context.Context, userID string) (*model.Spot, error)
	Search(ctx context.Context, query string, limit int) ([]model.SearchSpot, error)
}

// CaptureCursor is a keyset position in the feed ordering
// (created_at DESC, seq ASC).
type CaptureCursor struct {
	CreatedAt time.Time
	Seq       int64
}

type CaptureRepository interface {
	Create(ctx context.Context, c *model.Capture) error
	GetView(ctx context.Context, id string) (*model.CaptureView, error)
	// ListFeed returns up to limit captures created at or after since (when
	// set) and strictly after the cursor position (when set).
	ListFeed(ctx context.Context, since *time.Time, after *CaptureCursor, limit int) ([]model.CaptureView, error)
	ListThumbnailsByUser(ctx context.Context, userID string, limit int) ([]model.CaptureThumbnail, error)
	Search(ctx context.Context, query string, limit int) ([]model.SearchPost, error)
}

type FollowRepository interface {
	// Create inserts the edge and reports whether a new row was written.
	Create(ctx context.Context, followerID, followingID string) (bool, error)
	// Delete removes the edge and reports whether a row was removed.
	Delete(ctx context.Context, followerID, followingID string) (bool, error)
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	GetFollowers(ctx context.Context, userID string, cursor *time.Time, limit int) ([]model.ProfileSummary, *time.Time, error)
	GetFollowing(ctx context.Context, userID string, cursor *time.Time, limit int) ([]model.ProfileSummary, *time.Time, error)
	CheckFollows(ctx context.Context, followerID string, followingIDs []string) (map[string]bool, error)
}
