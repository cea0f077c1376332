package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"spotlapse/internal/model"
)

func TestCreateProfile_Success(t *testing.T) {
	// ARRANGE
	var saved *model.Profile
	profiles := &mockProfileRepository{
		createFn: func(ctx context.Context, p *model.Profile) error {
			p.CreatedAt = time.Now()
			saved = p
			return nil
		},
	}
	svc := NewProfileService(profiles, &mockSpotRepository{}, &mockCaptureRepository{}, newMemFollowRepository(), nil)

	// ACT
	profile, err := svc.CreateProfile(context.Background(), model.Caller{UserID: aliceID}, &model.CreateProfileRequest{
		Username: " alice_01 ",
		Bio:      ptr("   "),
	})

	// ASSERT
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if profile.ID != aliceID {
		t.Errorf("profile id = %s, want caller id", profile.ID)
	}
	if profile.Username != "alice_01" {
		t.Errorf("username = %q", profile.Username)
	}
	if profile.Bio != nil {
		t.Errorf("blank bio must be stored as NULL, got %q", *profile.Bio)
	}
	if saved != profile {
		t.Error("expected the created profile to be persisted")
	}
}

func TestCreateProfile_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		caller   model.Caller
		req      model.CreateProfileRequest
		createFn func(ctx context.Context, p *model.Profile) error
		want     error
	}{
		{"anonymous", model.Anonymous, model.CreateProfileRequest{Username: "alice"}, nil, model.ErrUnauthenticated},
		{"short username", model.Caller{UserID: aliceID}, model.CreateProfileRequest{Username: "al"}, nil, model.ErrValidation},
		{"bad characters", model.Caller{UserID: aliceID}, model.CreateProfileRequest{Username: "al ice"}, nil, model.ErrValidation},
		{"bad avatar", model.Caller{UserID: aliceID}, model.CreateProfileRequest{Username: "alice", AvatarURL: ptr("not a url")}, nil, model.ErrValidation},
		{"username taken", model.Caller{UserID: aliceID}, model.CreateProfileRequest{Username: "alice"},
			func(ctx context.Context, p *model.Profile) error { return model.ErrUsernameTaken }, model.ErrConflict},
		{"already registered", model.Caller{UserID: aliceID}, model.CreateProfileRequest{Username: "alice"},
			func(ctx context.Context, p *model.Profile) error { return model.ErrProfileExists }, model.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := &mockProfileRepository{createFn: tt.createFn}
			svc := NewProfileService(profiles, &mockSpotRepository{}, &mockCaptureRepository{}, newMemFollowRepository(), nil)

			_, err := svc.CreateProfile(context.Background(), tt.caller, &tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUpdateProfile_TrimsAndClears(t *testing.T) {
	var updated *model.Profile
	profiles := &mockProfileRepository{
		updateFn: func(ctx context.Context, p *model.Profile) error {
			updated = p
			return nil
		},
	}
	svc := NewProfileService(profiles, &mockSpotRepository{}, &mockCaptureRepository{}, newMemFollowRepository(), nil)

	_, err := svc.UpdateProfile(context.Background(), model.Caller{UserID: aliceID}, &model.UpdateProfileRequest{
		Username:  "alice",
		Bio:       ptr("  shooting the same bridge every day  "),
		AvatarURL: ptr(""),
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.ID != aliceID {
		t.Errorf("update must target the caller, got %s", updated.ID)
	}
	if updated.Bio == nil || *updated.Bio != "shooting the same bridge every day" {
		t.Errorf("bio = %v", updated.Bio)
	}
	if updated.AvatarURL != nil {
		t.Errorf("blank avatar must be cleared, got %q", *updated.AvatarURL)
	}
}

func TestGetProfile_Aggregate(t *testing.T) {
	// ARRANGE
	profiles := &mockProfileRepository{
		getByUsernameFn: func(ctx context.Context, username string) (*model.Profile, error) {
			return &model.Profile{ID: bobID, Username: username}, nil
		},
		getStatsFn: func(ctx context.Context, id string) (*model.ProfileStats, error) {
			return &model.ProfileStats{CaptureCount: 9, FollowerCount: 1, FollowingCount: 0}, nil
		},
	}
	spots := &mockSpotRepository{
		getOldestFn: func(ctx context.Context, userID string) (*model.Spot, error) {
			return &model.Spot{Name: "Kamo river"}, nil
		},
	}
	var thumbLimit int
	captures := &mockCaptureRepository{
		listThumbnailsFn: func(ctx context.Context, userID string, limit int) ([]model.CaptureThumbnail, error) {
			thumbLimit = limit
			return []model.CaptureThumbnail{{ID: "c1"}}, nil
		},
	}
	graph := newMemFollowRepository()
	graph.Create(context.Background(), aliceID, bobID)
	statsCache := newMockStatsCache()
	svc := NewProfileService(profiles, spots, captures, graph, statsCache)

	// ACT
	view, err := svc.GetProfile(context.Background(), model.Caller{UserID: aliceID}, "bob")

	// ASSERT
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if view.CaptureCount != 9 || view.FollowerCount != 1 {
		t.Errorf("stats = %+v", view.ProfileStats)
	}
	if view.RegisteredLocation == nil || *view.RegisteredLocation != "Kamo river" {
		t.Errorf("registered location = %v", view.RegisteredLocation)
	}
	if thumbLimit != model.ProfileRecentCapture {
		t.Errorf("recent captures limit = %d, want %d", thumbLimit, model.ProfileRecentCapture)
	}
	if !view.IsFollowing || view.IsOwnProfile {
		t.Errorf("is_following=%v is_own_profile=%v", view.IsFollowing, view.IsOwnProfile)
	}

	// Second read is served from the cache.
	if _, err := svc.GetProfile(context.Background(), model.Caller{UserID: aliceID}, "bob"); err != nil {
		t.Fatalf("second GetProfile: %v", err)
	}
	if profiles.getStatsCalls != 1 {
		t.Errorf("expected 1 stats query, got %d", profiles.getStatsCalls)
	}
}

func TestGetMe_OwnProfile(t *testing.T) {
	profiles := &mockProfileRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.Profile, error) {
			return &model.Profile{ID: id, Username: "alice"}, nil
		},
	}
	svc := NewProfileService(profiles, &mockSpotRepository{}, &mockCaptureRepository{}, newMemFollowRepository(), nil)

	view, err := svc.GetMe(context.Background(), model.Caller{UserID: aliceID})
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if !view.IsOwnProfile || view.IsFollowing {
		t.Errorf("is_own_profile=%v is_following=%v", view.IsOwnProfile, view.IsFollowing)
	}
	if view.RegisteredLocation != nil {
		t.Errorf("user without spots has no registered location, got %v", *view.RegisteredLocation)
	}

	if _, err := svc.GetMe(context.Background(), model.Anonymous); !errors.Is(err, model.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	svc := NewProfileService(&mockProfileRepository{}, &mockSpotRepository{}, &mockCaptureRepository{}, newMemFollowRepository(), nil)

	if _, err := svc.GetProfile(context.Background(), model.Anonymous, "ghost"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}
