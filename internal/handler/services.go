package handler

import (
	"context"
	"time"

	"spotlapse/internal/model"
)

// Handlers depend on these narrow views of the services so they can be
// exercised with httptest and hand-written fakes.

type ProfileService interface {
	CreateProfile(ctx context.Context, caller model.Caller, req *model.CreateProfileRequest) (*model.Profile, error)
	UpdateProfile(ctx context.Context, caller model.Caller, req *model.UpdateProfileRequest) (*model.Profile, error)
	GetProfile(ctx context.Context, viewer model.Caller, username string) (*model.ProfileView, error)
	GetMe(ctx context.Context, caller model.Caller) (*model.ProfileView, error)
}

type FollowService interface {
	Follow(ctx context.Context, caller model.Caller, targetID string) error
	Unfollow(ctx context.Context, caller model.Caller, targetID string) error
	GetFollowers(ctx context.Context, viewer model.Caller, userID string, cursor *time.Time, limit int) (*model.FollowListResponse, error)
	GetFollowing(ctx context.Context, viewer model.Caller, userID string, cursor *time.Time, limit int) (*model.FollowListResponse, error)
}

type CaptureService interface {
	CreateCapture(ctx context.Context, caller model.Caller, in model.CreateCaptureInput) (*model.CreateCaptureResult, error)
}

type FeedService interface {
	ListCaptures(ctx context.Context, filter model.FeedFilter) (*model.FeedResponse, error)
	GetCapture(ctx context.Context, id string) (*model.CaptureView, bool, error)
	ListUserCaptures(ctx context.Context, username string, limit int) ([]model.CaptureThumbnail, error)
}

type SpotService interface {
	CreateSpot(ctx context.Context, caller model.Caller, req *model.CreateSpotRequest) (*model.Spot, error)
	ListMySpots(ctx context.Context, caller model.Caller) ([]model.Spot, error)
}

type SearchService interface {
	Search(ctx context.Context, query string) (*model.SearchResult, error)
}
