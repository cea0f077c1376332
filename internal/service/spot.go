package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"spotlapse/internal/geo"
	"spotlapse/internal/logging"
	"spotlapse/internal/model"
	"spotlapse/internal/repository"
	"spotlapse/internal/validation"
)

// SpotService handles explicit spot registration. Unlike capture ingestion,
// coordinates here are user-entered and rejected when invalid.
type SpotService struct {
	spotRepo repository.SpotRepository
}

func NewSpotService(spotRepo repository.SpotRepository) *SpotService {
	return &SpotService{spotRepo: spotRepo}
}

func (s *SpotService) CreateSpot(ctx context.Context, caller model.Caller, req *model.CreateSpotRequest) (*model.Spot, error) {
	if !caller.IsAuthenticated() {
		return nil, model.ErrUnauthenticated
	}

	req.Name = strings.TrimSpace(req.Name)
	req.ReferenceImageURL = trimOptional(req.ReferenceImageURL)
	if req.Name == "" {
		return nil, model.ErrSpotName
	}
	if _, ok := geo.Resolve(req.Lat, req.Lng).(geo.Known); !ok {
		return nil, model.ErrSpotLocation
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	spot := &model.Spot{
		ID:                uuid.NewString(),
		UserID:            caller.UserID,
		Name:              req.Name,
		Lat:               req.Lat,
		Lng:               req.Lng,
		ReferenceImageURL: req.ReferenceImageURL,
	}
	if err := s.spotRepo.Create(ctx, spot); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("spot_id", spot.ID).Msg("Spot created")
	return spot, nil
}

// ListMySpots returns the caller's spots, newest first.
func (s *SpotService) ListMySpots(ctx context.Context, caller model.Caller) ([]model.Spot, error) {
	if !caller.IsAuthenticated() {
		return nil, model.ErrUnauthenticated
	}
	return s.spotRepo.ListByUser(ctx, caller.UserID)
}
