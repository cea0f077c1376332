package service

import (
	"context"
	"time"

	"spotlapse/internal/cache"
	"spotlapse/internal/logging"
	"spotlapse/internal/metrics"
	"spotlapse/internal/model"
	"spotlapse/internal/queue"
	"spotlapse/internal/repository"
)

// Follow list paging defaults
const (
	DefaultFollowListLimit = 20
	MaxFollowListLimit     = 100
)

type FollowService struct {
	followRepo  repository.FollowRepository
	profileRepo repository.ProfileRepository
	statsCache  cache.StatsCache
	publisher   queue.Publisher
}

func NewFollowService(
	followRepo repository.FollowRepository,
	profileRepo repository.ProfileRepository,
	statsCache cache.StatsCache,
	publisher queue.Publisher,
) *FollowService {
	return &FollowService{
		followRepo:  followRepo,
		profileRepo: profileRepo,
		statsCache:  statsCache,
		publisher:   publisher,
	}
}

// Follow creates the edge caller -> targetID. Following someone already
// followed succeeds without change.
func (s *FollowService) Follow(ctx context.Context, caller model.Caller, targetID string) error {
	if !caller.IsAuthenticated() {
		return model.ErrUnauthenticated
	}
	targetID, ok := canonicalID(targetID)
	if !ok {
		return model.ErrProfileNotFound
	}
	if caller.UserID == targetID {
		metrics.RecordFollowOperation("follow", metrics.OutcomeError)
		return model.ErrSelfFollowRejected
	}

	exists, err := s.profileRepo.Exists(ctx, targetID)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrProfileNotFound
	}

	inserted, err := s.followRepo.Create(ctx, caller.UserID, targetID)
	if err != nil {
		metrics.RecordFollowOperation("follow", metrics.OutcomeError)
		return err
	}
	if !inserted {
		metrics.RecordFollowOperation("follow", metrics.OutcomeNoop)
		return nil
	}

	metrics.RecordFollowOperation("follow", metrics.OutcomeCreated)
	invalidateStats(ctx, s.statsCache, caller.UserID, targetID)
	publishEvent(ctx, s.publisher, queue.NewUserFollowedEvent(caller.UserID, targetID))

	logging.Ctx(ctx).Info().Str("follower_id", caller.UserID).Str("following_id", targetID).Msg("User followed")
	return nil
}

// Unfollow removes the edge caller -> targetID. Removing a missing edge
// succeeds without change.
func (s *FollowService) Unfollow(ctx context.Context, caller model.Caller, targetID string) error {
	if !caller.IsAuthenticated() {
		return model.ErrUnauthenticated
	}
	targetID, ok := canonicalID(targetID)
	if !ok {
		metrics.RecordFollowOperation("unfollow", metrics.OutcomeNoop)
		return nil
	}

	deleted, err := s.followRepo.Delete(ctx, caller.UserID, targetID)
	if err != nil {
		metrics.RecordFollowOperation("unfollow", metrics.OutcomeError)
		return err
	}
	if !deleted {
		metrics.RecordFollowOperation("unfollow", metrics.OutcomeNoop)
		return nil
	}

	metrics.RecordFollowOperation("unfollow", metrics.OutcomeDeleted)
	invalidateStats(ctx, s.statsCache, caller.UserID, targetID)
	publishEvent(ctx, s.publisher, queue.NewUserUnfollowedEvent(caller.UserID, targetID))

	logging.Ctx(ctx).Info().Str("follower_id", caller.UserID).Str("following_id", targetID).Msg("User unfollowed")
	return nil
}

// IsFollowing reports whether viewerID follows targetID.
func (s *FollowService) IsFollowing(ctx context.Context, viewerID, targetID string) (bool, error) {
	targetID, ok := canonicalID(targetID)
	if viewerID == "" || viewerID == targetID || !ok {
		return false, nil
	}
	return s.followRepo.Exists(ctx, viewerID, targetID)
}

// GetFollowers lists the profiles following userID, newest edge first. When
// the viewer is authenticated each entry carries the viewer's follow status.
func (s *FollowService) GetFollowers(ctx context.Context, viewer model.Caller, userID string, cursor *time.Time, limit int) (*model.FollowListResponse, error) {
	return s.listEdges(ctx, viewer, userID, cursor, limit, s.followRepo.GetFollowers)
}

// GetFollowing lists the profiles userID follows. See GetFollowers.
func (s *FollowService) GetFollowing(ctx context.Context, viewer model.Caller, userID string, cursor *time.Time, limit int) (*model.FollowListResponse, error) {
	return s.listEdges(ctx, viewer, userID, cursor, limit, s.followRepo.GetFollowing)
}

type edgeLister func(ctx context.Context, userID string, cursor *time.Time, limit int) ([]model.ProfileSummary, *time.Time, error)

func (s *FollowService) listEdges(ctx context.Context, viewer model.Caller, userID string, cursor *time.Time, limit int, list edgeLister) (*model.FollowListResponse, error) {
	userID, ok := canonicalID(userID)
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	exists, err := s.profileRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrProfileNotFound
	}

	users, nextCursor, err := list(ctx, userID, cursor, clampLimit(limit, DefaultFollowListLimit, MaxFollowListLimit))
	if err != nil {
		return nil, err
	}

	if viewer.IsAuthenticated() {
		users = s.enrichWithFollowStatus(ctx, viewer.UserID, users)
	}

	var nextCursorStr *string
	if nextCursor != nil {
		str := nextCursor.UTC().Format(time.RFC3339Nano)
		nextCursorStr = &str
	}

	return &model.FollowListResponse{
		Users:      users,
		NextCursor: nextCursorStr,
		HasMore:    nextCursor != nil,
	}, nil
}

// enrichWithFollowStatus does one batch lookup for the whole page. On failure
// the page is returned with is_following=false.
func (s *FollowService) enrichWithFollowStatus(ctx context.Context, viewerID string, users []model.ProfileSummary) []model.ProfileSummary {
	if len(users) == 0 {
		return users
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	followMap, err := s.followRepo.CheckFollows(ctx, viewerID, ids)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Follow status lookup failed")
		return users
	}

	for i := range users {
		users[i].IsFollowing = followMap[users[i].ID]
	}
	return users
}
