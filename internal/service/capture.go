package service

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"spotlapse/internal/cache"
	"spotlapse/internal/geo"
	"spotlapse/internal/logging"
	"spotlapse/internal/metrics"
	"spotlapse/internal/model"
	"spotlapse/internal/queue"
	"spotlapse/internal/repository"
)

// CaptureService is the single write path for captures.
type CaptureService struct {
	captureRepo repository.CaptureRepository
	resolver    *SpotResolver
	media       MediaStore
	statsCache  cache.StatsCache
	publisher   queue.Publisher
	now         func() time.Time
}

// NewCaptureService wires the ingestion pipeline. statsCache and publisher may
// be nil when Redis is not configured.
func NewCaptureService(
	captureRepo repository.CaptureRepository,
	resolver *SpotResolver,
	media MediaStore,
	statsCache cache.StatsCache,
	publisher queue.Publisher,
) *CaptureService {
	return &CaptureService{
		captureRepo: captureRepo,
		resolver:    resolver,
		media:       media,
		statsCache:  statsCache,
		publisher:   publisher,
		now:         time.Now,
	}
}

// CreateCapture validates the upload, resolves the spot, stores the image and
// inserts the capture.
//
// Spot ownership and existence are checked before the upload, so a rejected
// spot id performs no writes. After the upload there is no rollback: a failed
// capture insert can leave an uploaded object and an ad-hoc spot behind.
func (s *CaptureService) CreateCapture(ctx context.Context, caller model.Caller, in model.CreateCaptureInput) (*model.CreateCaptureResult, error) {
	if !caller.IsAuthenticated() {
		return nil, model.ErrUnauthenticated
	}
	if len(in.Image) == 0 {
		return nil, model.ErrMissingMedia
	}
	if len(in.Image) > model.MaxCaptureSize {
		return nil, model.ErrFileTooLarge
	}

	caption, err := normalizeCaption(in.Caption)
	if err != nil {
		return nil, err
	}

	var spotID *string
	if in.SpotID != nil && strings.TrimSpace(*in.SpotID) != "" {
		trimmed := strings.TrimSpace(*in.SpotID)
		spotID = &trimmed
	}

	plan, err := s.resolver.Plan(ctx, caller, spotID, geo.Resolve(in.Lat, in.Lng))
	if err != nil {
		if isPlanRejection(err) {
			return nil, err
		}
		return nil, s.fail(ctx, model.StepResolveSpot, err)
	}

	contentType := detectContentType(in.ContentType, in.Image)
	key := buildCaptureKey(caller.UserID, in.Filename, contentType, s.now())

	upload, err := s.media.Upload(ctx, key, in.Image, contentType)
	if err != nil {
		return nil, s.fail(ctx, model.StepUploadMedia, err)
	}

	spot, err := s.resolver.Commit(ctx, caller, plan, upload.URL)
	if err != nil {
		return nil, s.fail(ctx, model.StepCreateSpot, err)
	}

	capture := &model.Capture{
		ID:        uuid.NewString(),
		UserID:    caller.UserID,
		SpotID:    spot.ID,
		MediaURL:  upload.URL,
		MediaType: model.MediaTypePhoto,
		Caption:   caption,
	}
	if err := s.captureRepo.Create(ctx, capture); err != nil {
		return nil, s.fail(ctx, model.StepInsertCapture, err)
	}

	metrics.RecordCaptureCreated(plan.Resolution())
	invalidateStats(ctx, s.statsCache, caller.UserID)
	publishEvent(ctx, s.publisher, queue.NewCaptureCreatedEvent(capture.ID, spot.ID, caller.UserID))

	logging.Ctx(ctx).Info().
		Str("capture_id", capture.ID).
		Str("spot_id", spot.ID).
		Str("resolution", plan.Resolution()).
		Msg("Capture created")

	return &model.CreateCaptureResult{CaptureID: capture.ID, SpotID: spot.ID}, nil
}

func (s *CaptureService) fail(ctx context.Context, step string, err error) error {
	metrics.RecordCaptureFailure(step)
	logging.Ctx(ctx).Error().Err(err).Str("step", step).Msg("Capture creation failed")
	return &model.CaptureCreationError{Step: step, Err: err}
}

// normalizeCaption trims the caption and maps empty to nil.
func normalizeCaption(caption *string) (*string, error) {
	if caption == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*caption)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > model.MaxCaptionLength {
		return nil, model.ErrCaptionTooLong
	}
	return &trimmed, nil
}

// detectContentType trusts a declared image type and sniffs anything else.
func detectContentType(declared string, data []byte) string {
	if _, ok := model.ExtensionForContentType(declared); ok {
		return declared
	}
	return http.DetectContentType(data[:min(len(data), 512)])
}

// buildCaptureKey returns "captures/<userID>/<unixNano>-<8 hex>.<ext>". The
// random suffix keeps two uploads in the same nanosecond apart.
func buildCaptureKey(userID, filename, contentType string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s/%s/%d-%s.%s", model.CaptureFolder, userID, now.UnixNano(), suffix, captureExtension(filename, contentType))
}

func captureExtension(filename, contentType string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext != "" && len(ext) <= 5 && isAlphanumeric(ext) {
		return ext
	}
	if ext, ok := model.ExtensionForContentType(contentType); ok {
		return ext
	}
	return model.DefaultCaptureExt
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
