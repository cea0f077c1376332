package service

import (
	"context"
	"strings"

	"spotlapse/internal/cache"
	"spotlapse/internal/logging"
	"spotlapse/internal/model"
	"spotlapse/internal/repository"
	"spotlapse/internal/validation"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	spotRepo    repository.SpotRepository
	captureRepo repository.CaptureRepository
	followRepo  repository.FollowRepository
	statsCache  cache.StatsCache
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	spotRepo repository.SpotRepository,
	captureRepo repository.CaptureRepository,
	followRepo repository.FollowRepository,
	statsCache cache.StatsCache,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		spotRepo:    spotRepo,
		captureRepo: captureRepo,
		followRepo:  followRepo,
		statsCache:  statsCache,
	}
}

// CreateProfile registers the caller's profile at sign-up.
func (s *ProfileService) CreateProfile(ctx context.Context, caller model.Caller, req *model.CreateProfileRequest) (*model.Profile, error) {
	if !caller.IsAuthenticated() {
		return nil, model.ErrUnauthenticated
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Bio = trimOptional(req.Bio)
	req.AvatarURL = trimOptional(req.AvatarURL)
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	profile := &model.Profile{
		ID:        caller.UserID,
		Username:  req.Username,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("user_id", profile.ID).Str("username", profile.Username).Msg("Profile created")
	return profile, nil
}

// UpdateProfile rewrites the caller's username, bio and avatar. Blank bio or
// avatar clears the field.
func (s *ProfileService) UpdateProfile(ctx context.Context, caller model.Caller, req *model.UpdateProfileRequest) (*model.Profile, error) {
	if !caller.IsAuthenticated() {
		return nil, model.ErrUnauthenticated
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Bio = trimOptional(req.Bio)
	req.AvatarURL = trimOptional(req.AvatarURL)
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	profile := &model.Profile{
		ID:        caller.UserID,
		Username:  req.Username,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile builds the profile page for username as seen by viewer.
func (s *ProfileService) GetProfile(ctx context.Context, viewer model.Caller, username string) (*model.ProfileView, error) {
	profile, err := s.profileRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, viewer, profile)
}

// GetMe builds the caller's own profile page.
func (s *ProfileService) GetMe(ctx context.Context, caller model.Caller) (*model.ProfileView, error) {
	if !caller.IsAuthenticated() {
		return nil, model.ErrUnauthenticated
	}
	profile, err := s.profileRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, caller, profile)
}

// GetStats reads the counts through the cache. Cache errors fall back to the
// row store.
func (s *ProfileService) GetStats(ctx context.Context, userID string) (*model.ProfileStats, error) {
	if s.statsCache != nil {
		stats, found, err := s.statsCache.Get(ctx, userID)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("Stats cache read failed")
		} else if found {
			return stats, nil
		}
	}

	stats, err := s.profileRepo.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.statsCache != nil {
		if err := s.statsCache.Set(ctx, userID, stats); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("Stats cache write failed")
		}
	}
	return stats, nil
}

func (s *ProfileService) buildView(ctx context.Context, viewer model.Caller, profile *model.Profile) (*model.ProfileView, error) {
	stats, err := s.GetStats(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	oldest, err := s.spotRepo.GetOldestByUser(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	recent, err := s.captureRepo.ListThumbnailsByUser(ctx, profile.ID, model.ProfileRecentCapture)
	if err != nil {
		return nil, err
	}

	view := &model.ProfileView{
		Profile:        *profile,
		ProfileStats:   *stats,
		RecentCaptures: recent,
		IsOwnProfile:   viewer.UserID == profile.ID,
	}
	if oldest != nil {
		view.RegisteredLocation = &oldest.Name
	}

	if viewer.IsAuthenticated() && !view.IsOwnProfile {
		following, err := s.followRepo.Exists(ctx, viewer.UserID, profile.ID)
		if err != nil {
			return nil, err
		}
		view.IsFollowing = following
	}
	return view, nil
}

// trimOptional trims s and maps blank to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
