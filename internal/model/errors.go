package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error wraps exactly one of these so the HTTP layer
// can classify it with errors.Is without knowing the specific failure.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUpstream        = errors.New("upstream failure")
)

// Profile errors
var (
	ErrProfileNotFound = fmt.Errorf("%w: profile not found", ErrNotFound)
	ErrProfileExists   = fmt.Errorf("%w: profile already exists", ErrConflict)
	ErrUsernameTaken   = fmt.Errorf("%w: username already taken", ErrConflict)
)

// Spot errors
var (
	ErrSpotNotFound  = fmt.Errorf("%w: spot not found", ErrNotFound)
	ErrSpotOwnership = fmt.Errorf("%w: spot belongs to another user", ErrConflict)
	ErrSpotName      = fmt.Errorf("%w: spot name is required", ErrValidation)
	ErrSpotLocation  = fmt.Errorf("%w: spot coordinates out of range", ErrValidation)
)

// Capture errors
var (
	ErrMissingMedia          = fmt.Errorf("%w: image is required", ErrValidation)
	ErrFileTooLarge          = fmt.Errorf("%w: file too large", ErrValidation)
	ErrCaptionTooLong        = fmt.Errorf("%w: caption too long", ErrValidation)
	ErrCaptureNotFound       = fmt.Errorf("%w: capture not found", ErrNotFound)
	ErrCaptureCreationFailed = fmt.Errorf("%w: capture creation failed", ErrUpstream)
	ErrInvalidPeriod         = fmt.Errorf("%w: period must be all, week or month", ErrValidation)
	ErrInvalidCursor         = fmt.Errorf("%w: invalid cursor", ErrValidation)
)

// Follow errors
var (
	ErrSelfFollowRejected = fmt.Errorf("%w: cannot follow yourself", ErrValidation)
)

// CaptureCreationError reports which ingestion step failed. It matches
// ErrCaptureCreationFailed (and therefore ErrUpstream) and unwraps to the
// underlying storage or database error.
type CaptureCreationError struct {
	Step string
	Err  error
}

// Capture ingestion steps, in execution order.
const (
	StepResolveSpot   = "resolve_spot"
	StepUploadMedia   = "upload_media"
	StepCreateSpot    = "create_spot"
	StepInsertCapture = "insert_capture"
)

func (e *CaptureCreationError) Error() string {
	return fmt.Sprintf("capture creation failed at %s: %v", e.Step, e.Err)
}

func (e *CaptureCreationError) Unwrap() error {
	return e.Err
}

func (e *CaptureCreationError) Is(target error) bool {
	return target == ErrCaptureCreationFailed || target == ErrUpstream
}
