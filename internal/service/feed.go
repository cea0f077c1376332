package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"spotlapse/internal/model"
	"spotlapse/internal/repository"
)

// Feed paging defaults
const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
)

// Period windows are fixed elapsed durations, not calendar boundaries.
var periodWindows = map[model.FeedPeriod]time.Duration{
	model.PeriodWeek:  7 * 24 * time.Hour,
	model.PeriodMonth: 30 * 24 * time.Hour,
}

// FeedService assembles the read side for captures.
type FeedService struct {
	captureRepo repository.CaptureRepository
	profileRepo repository.ProfileRepository
	now         func() time.Time
}

func NewFeedService(captureRepo repository.CaptureRepository, profileRepo repository.ProfileRepository) *FeedService {
	return &FeedService{
		captureRepo: captureRepo,
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// ParsePeriod maps the query value to a FeedPeriod. Empty means all.
func ParsePeriod(raw string) (model.FeedPeriod, error) {
	switch p := model.FeedPeriod(strings.ToLower(strings.TrimSpace(raw))); p {
	case "", model.PeriodAll:
		return model.PeriodAll, nil
	case model.PeriodWeek, model.PeriodMonth:
		return p, nil
	default:
		return "", model.ErrInvalidPeriod
	}
}

// ListCaptures returns one page of the global feed, newest first. Captures
// with equal timestamps keep insertion order.
func (s *FeedService) ListCaptures(ctx context.Context, filter model.FeedFilter) (*model.FeedResponse, error) {
	var since *time.Time
	switch filter.Period {
	case "", model.PeriodAll:
	case model.PeriodWeek, model.PeriodMonth:
		cutoff := s.now().Add(-periodWindows[filter.Period])
		since = &cutoff
	default:
		return nil, model.ErrInvalidPeriod
	}

	var after *repository.CaptureCursor
	if filter.Cursor != nil && *filter.Cursor != "" {
		c, err := decodeFeedCursor(*filter.Cursor)
		if err != nil {
			return nil, err
		}
		after = c
	}

	limit := clampLimit(filter.Limit, DefaultFeedLimit, MaxFeedLimit)

	// Fetch one extra row to learn whether another page exists.
	views, err := s.captureRepo.ListFeed(ctx, since, after, limit+1)
	if err != nil {
		return nil, err
	}

	resp := &model.FeedResponse{Captures: views}
	if len(views) > limit {
		resp.Captures = views[:limit]
		last := resp.Captures[limit-1]
		next := encodeFeedCursor(last.CreatedAt, last.Seq)
		resp.NextCursor = &next
		resp.HasMore = true
	}
	return resp, nil
}

// GetCapture returns found=false for an unknown id instead of an error.
func (s *FeedService) GetCapture(ctx context.Context, id string) (*model.CaptureView, bool, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, false, nil
	}
	view, err := s.captureRepo.GetView(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrCaptureNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return view, true, nil
}

// ListUserCaptures returns the newest captures of the profile named username.
func (s *FeedService) ListUserCaptures(ctx context.Context, username string, limit int) ([]model.CaptureThumbnail, error) {
	profile, err := s.profileRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.captureRepo.ListThumbnailsByUser(ctx, profile.ID, clampLimit(limit, DefaultFeedLimit, MaxFeedLimit))
}

// encodeFeedCursor produces "<created_at unix nano>:<seq>".
func encodeFeedCursor(createdAt time.Time, seq int64) string {
	return strconv.FormatInt(createdAt.UnixNano(), 10) + ":" + strconv.FormatInt(seq, 10)
}

func decodeFeedCursor(raw string) (*repository.CaptureCursor, error) {
	nanosStr, seqStr, ok := strings.Cut(raw, ":")
	if !ok {
		return nil, model.ErrInvalidCursor
	}
	nanos, err := strconv.ParseInt(nanosStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidCursor, err)
	}
	seq, err := strconv.ParseInt(seqStr, 10, 64)
	if err != nil || seq < 0 {
		return nil, model.ErrInvalidCursor
	}
	return &repository.CaptureCursor{CreatedAt: time.Unix(0, nanos).UTC(), Seq: seq}, nil
}

func clampLimit(limit, fallback, maxLimit int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
