package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gobreaker "github.com/sony/gobreaker/v2"

	"spotlapse/internal/config"
	"spotlapse/internal/logging"
	"spotlapse/internal/metrics"
	"spotlapse/internal/model"
)

// MediaStore persists capture images and returns their public location.
type MediaStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (*model.UploadResult, error)
}

// MediaService uploads media to Cloudflare R2 through the S3 API.
type MediaService struct {
	s3Client  *s3.Client
	bucket    string
	publicURL string
	breaker   *gobreaker.CircuitBreaker[*model.UploadResult]
}

// NewMediaService constructs an S3-compatible client for Cloudflare R2.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" || cfg.R2PublicURL == "" {
		return nil, fmt.Errorf("missing Cloudflare R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &MediaService{
		s3Client:  s3Client,
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
		breaker:   newUploadBreaker(),
	}, nil
}

// newUploadBreaker opens after 5 consecutive failed uploads and probes again
// after 30 seconds.
func newUploadBreaker() *gobreaker.CircuitBreaker[*model.UploadResult] {
	return gobreaker.NewCircuitBreaker[*model.UploadResult](gobreaker.Settings{
		Name:        "object-storage",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: uploadSucceeded,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Circuit breaker state change")
			metrics.UploadBreakerState.Set(breakerStateValue(to))
		},
	})
}

// uploadSucceeded does not count a caller that went away against the store.
func uploadSucceeded(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Upload stores body under key and returns its public URL.
func (s *MediaService) Upload(ctx context.Context, key string, body []byte, contentType string) (*model.UploadResult, error) {
	return s.breaker.Execute(func() (*model.UploadResult, error) {
		_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(s.bucket),
			Key:          aws.String(key),
			Body:         bytes.NewReader(body),
			ContentType:  aws.String(contentType),
			CacheControl: aws.String(model.CaptureCacheControl),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upload object to R2: %w", err)
		}
		return &model.UploadResult{URL: fmt.Sprintf("%s/%s", s.publicURL, key), Key: key}, nil
	})
}
