package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"

	"spotlapse/internal/model"
)

func TestUploadBreaker_IgnoresCanceledUploads(t *testing.T) {
	breaker := newUploadBreaker()
	canceled := fmt.Errorf("failed to upload object to R2: %w", context.Canceled)

	for i := 0; i < 10; i++ {
		breaker.Execute(func() (*model.UploadResult, error) { return nil, canceled })
	}

	if breaker.State() != gobreaker.StateClosed {
		t.Errorf("state = %s, want closed", breaker.State())
	}
}

func TestUploadBreaker_OpensOnStoreFailures(t *testing.T) {
	breaker := newUploadBreaker()
	storeErr := errors.New("503 service unavailable")

	for i := 0; i < 5; i++ {
		breaker.Execute(func() (*model.UploadResult, error) { return nil, storeErr })
	}

	if breaker.State() != gobreaker.StateOpen {
		t.Errorf("state = %s, want open", breaker.State())
	}
	_, err := breaker.Execute(func() (*model.UploadResult, error) { return &model.UploadResult{}, nil })
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
}
