package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"spotlapse/internal/geo"
	"spotlapse/internal/model"
	"spotlapse/internal/repository"
)

// Spot resolution paths, also used as metric labels.
const (
	ResolutionExisting    = "existing"
	ResolutionPinned      = "pinned"
	ResolutionPlaceholder = "placeholder"
)

const (
	spotNamePrefix        = "Capture point "
	pinnedSpotLayout      = "2006/01/02 15:04"
	placeholderSpotLayout = "2006/01/02"
)

// SpotPlan is the outcome of validating a capture's spot reference before any
// write happens. Exactly one of existingSpot, pinnedSpot or placeholderSpot.
type SpotPlan interface {
	Resolution() string
	isSpotPlan()
}

type existingSpot struct {
	spot *model.Spot
}

type pinnedSpot struct {
	lat, lng float64
}

type placeholderSpot struct{}

func (existingSpot) Resolution() string    { return ResolutionExisting }
func (pinnedSpot) Resolution() string      { return ResolutionPinned }
func (placeholderSpot) Resolution() string { return ResolutionPlaceholder }

func (existingSpot) isSpotPlan()    {}
func (pinnedSpot) isSpotPlan()      {}
func (placeholderSpot) isSpotPlan() {}

// SpotResolver decides which spot a capture attaches to.
type SpotResolver struct {
	spotRepo repository.SpotRepository
	location *time.Location
	now      func() time.Time
}

// NewSpotResolver names ad-hoc spots in the given time zone (UTC when nil).
func NewSpotResolver(spotRepo repository.SpotRepository, location *time.Location) *SpotResolver {
	if location == nil {
		location = time.UTC
	}
	return &SpotResolver{
		spotRepo: spotRepo,
		location: location,
		now:      time.Now,
	}
}

// Plan validates the request. A provided spot id must name a spot owned by the
// caller; it never silently falls back to an ad-hoc spot.
func (r *SpotResolver) Plan(ctx context.Context, caller model.Caller, spotID *string, loc geo.Location) (SpotPlan, error) {
	if spotID != nil {
		id, ok := canonicalID(*spotID)
		if !ok {
			return nil, model.ErrSpotNotFound
		}
		spot, err := r.spotRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if spot.UserID != caller.UserID {
			return nil, model.ErrSpotOwnership
		}
		return existingSpot{spot: spot}, nil
	}

	switch l := loc.(type) {
	case geo.Known:
		return pinnedSpot{lat: l.Lat, lng: l.Lng}, nil
	default:
		return placeholderSpot{}, nil
	}
}

// Commit returns the spot for a plan, inserting a new ad-hoc spot whose
// reference image is mediaURL when the plan calls for one.
func (r *SpotResolver) Commit(ctx context.Context, caller model.Caller, plan SpotPlan, mediaURL string) (*model.Spot, error) {
	switch p := plan.(type) {
	case existingSpot:
		return p.spot, nil
	case pinnedSpot:
		name := spotNamePrefix + r.now().In(r.location).Format(pinnedSpotLayout)
		return r.createAdHoc(ctx, caller, name, p.lat, p.lng, mediaURL)
	case placeholderSpot:
		name := spotNamePrefix + r.now().In(r.location).Format(placeholderSpotLayout)
		return r.createAdHoc(ctx, caller, name, geo.FallbackLat, geo.FallbackLng, mediaURL)
	default:
		return nil, fmt.Errorf("unknown spot plan %T", plan)
	}
}

func (r *SpotResolver) createAdHoc(ctx context.Context, caller model.Caller, name string, lat, lng float64, mediaURL string) (*model.Spot, error) {
	spot := &model.Spot{
		ID:                uuid.NewString(),
		UserID:            caller.UserID,
		Name:              name,
		Lat:               &lat,
		Lng:               &lng,
		ReferenceImageURL: &mediaURL,
	}
	if err := r.spotRepo.Create(ctx, spot); err != nil {
		return nil, err
	}
	return spot, nil
}

// isPlanRejection reports whether a Plan error is a client error rather than
// a storage failure.
func isPlanRejection(err error) bool {
	return errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrConflict)
}
