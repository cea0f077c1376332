package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"spotlapse/internal/metrics"
	"spotlapse/internal/model"
	"spotlapse/internal/repository"
)

// SearchService runs three independent substring searches.
type SearchService struct {
	profileRepo repository.ProfileRepository
	spotRepo    repository.SpotRepository
	captureRepo repository.CaptureRepository
}

func NewSearchService(
	profileRepo repository.ProfileRepository,
	spotRepo repository.SpotRepository,
	captureRepo repository.CaptureRepository,
) *SearchService {
	return &SearchService{
		profileRepo: profileRepo,
		spotRepo:    spotRepo,
		captureRepo: captureRepo,
	}
}

// Search matches profiles by username or bio, spots by name and captures by
// caption. A blank query returns three empty lists without touching storage.
// Any failing leg fails the whole search.
func (s *SearchService) Search(ctx context.Context, query string) (*model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.EmptySearchResult(), nil
	}

	start := time.Now()
	defer func() { metrics.ObserveSearch(time.Since(start)) }()

	result := model.EmptySearchResult()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		users, err := s.profileRepo.Search(gctx, query, model.SearchCategoryLimit)
		if err != nil {
			return fmt.Errorf("%w: search profiles: %w", model.ErrUpstream, err)
		}
		result.Users = users
		return nil
	})
	g.Go(func() error {
		spots, err := s.spotRepo.Search(gctx, query, model.SearchCategoryLimit)
		if err != nil {
			return fmt.Errorf("%w: search spots: %w", model.ErrUpstream, err)
		}
		result.Spots = spots
		return nil
	})
	g.Go(func() error {
		posts, err := s.captureRepo.Search(gctx, query, model.SearchCategoryLimit)
		if err != nil {
			return fmt.Errorf("%w: search captures: %w", model.ErrUpstream, err)
		}
		result.Posts = posts
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
