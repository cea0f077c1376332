package service

import (
	"context"
	"errors"
	"testing"

	"spotlapse/internal/model"
)

func TestSearch_BlankQueryTouchesNoStorage(t *testing.T) {
	profiles := &mockProfileRepository{}
	spots := &mockSpotRepository{}
	captures := &mockCaptureRepository{}
	svc := NewSearchService(profiles, spots, captures)

	for _, q := range []string{"", "   ", "\t\n"} {
		result, err := svc.Search(context.Background(), q)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if result.Users == nil || result.Spots == nil || result.Posts == nil {
			t.Error("empty result lists must be non-nil")
		}
		if len(result.Users)+len(result.Spots)+len(result.Posts) != 0 {
			t.Errorf("Search(%q) returned results", q)
		}
	}

	if profiles.searchCalls+spots.searchCalls+captures.searchCalls != 0 {
		t.Error("blank query must not reach storage")
	}
}

func TestSearch_RunsAllLegsWithLimit(t *testing.T) {
	// Each leg runs in its own goroutine and writes only its own variables.
	var profileQuery, spotQuery, postQuery string
	var profileLimit, spotLimit, postLimit int

	profiles := &mockProfileRepository{
		searchFn: func(ctx context.Context, query string, limit int) ([]model.ProfileSummary, error) {
			profileQuery, profileLimit = query, limit
			return []model.ProfileSummary{{ID: aliceID, Username: "tokyo_walker"}}, nil
		},
	}
	spots := &mockSpotRepository{
		searchFn: func(ctx context.Context, query string, limit int) ([]model.SearchSpot, error) {
			spotQuery, spotLimit = query, limit
			return []model.SearchSpot{{Spot: model.Spot{ID: spotID1, Name: "Tokyo Tower"}}}, nil
		},
	}
	captures := &mockCaptureRepository{
		searchFn: func(ctx context.Context, query string, limit int) ([]model.SearchPost, error) {
			postQuery, postLimit = query, limit
			return []model.SearchPost{{ID: "c1", Caption: ptr("Tokyo at dusk")}}, nil
		},
	}
	svc := NewSearchService(profiles, spots, captures)

	result, err := svc.Search(context.Background(), "  Tokyo ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Users) != 1 || len(result.Spots) != 1 || len(result.Posts) != 1 {
		t.Errorf("unexpected result sizes: %d/%d/%d", len(result.Users), len(result.Spots), len(result.Posts))
	}
	for _, q := range []string{profileQuery, spotQuery, postQuery} {
		if q != "Tokyo" {
			t.Errorf("leg received query %q, want trimmed %q", q, "Tokyo")
		}
	}
	for _, l := range []int{profileLimit, spotLimit, postLimit} {
		if l != model.SearchCategoryLimit {
			t.Errorf("leg limit = %d, want %d", l, model.SearchCategoryLimit)
		}
	}
}

func TestSearch_LegFailureIsUpstream(t *testing.T) {
	dbErr := errors.New("statement timeout")
	spots := &mockSpotRepository{
		searchFn: func(ctx context.Context, query string, limit int) ([]model.SearchSpot, error) {
			return nil, dbErr
		},
	}
	svc := NewSearchService(&mockProfileRepository{}, spots, &mockCaptureRepository{})

	result, err := svc.Search(context.Background(), "tokyo")

	if result != nil {
		t.Error("expected no partial result")
	}
	if !errors.Is(err, model.ErrUpstream) {
		t.Errorf("expected Upstream, got %v", err)
	}
	if !errors.Is(err, dbErr) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
}
