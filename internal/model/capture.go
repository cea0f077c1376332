package model

import (
	"time"
)

// Media types
const (
	MediaTypePhoto = "photo"
	MediaTypeVideo = "video"
)

// Capture is one photo posted against a spot by the spot's owner.
type Capture struct {
	ID        string    `db:"id" json:"id"`
	Seq       int64     `db:"seq" json:"-"`
	UserID    string    `db:"user_id" json:"user_id"`
	SpotID    string    `db:"spot_id" json:"spot_id"`
	MediaURL  string    `db:"media_url" json:"media_url"`
	MediaType string    `db:"media_type" json:"media_type"`
	Caption   *string   `db:"caption" json:"caption"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CaptureView joins a capture with its owner and spot summaries.
type CaptureView struct {
	Capture
	Profile ProfileSummary `db:"profile" json:"profile"`
	Spot    SpotSummary    `db:"spot" json:"spot"`
}

// CaptureThumbnail is a lightweight representation for profile grids.
type CaptureThumbnail struct {
	ID        string    `db:"id" json:"id"`
	MediaURL  string    `db:"media_url" json:"media_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateCaptureInput is the ingestion payload after the HTTP layer has read the upload.
type CreateCaptureInput struct {
	Image       []byte
	Filename    string
	ContentType string
	SpotID      *string
	Lat         *float64
	Lng         *float64
	Caption     *string
}

// CreateCaptureResult carries the generated ids.
type CreateCaptureResult struct {
	CaptureID string `json:"capture_id"`
	SpotID    string `json:"spot_id"`
}

// FeedPeriod filters the feed by elapsed time since capture.
type FeedPeriod string

const (
	PeriodAll   FeedPeriod = "all"
	PeriodWeek  FeedPeriod = "week"
	PeriodMonth FeedPeriod = "month"
)

// FeedFilter selects a page of the global capture feed.
type FeedFilter struct {
	Period FeedPeriod
	Cursor *string
	Limit  int
}

// FeedResponse is the paginated feed response.
type FeedResponse struct {
	Captures   []CaptureView `json:"captures"`
	NextCursor *string       `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}

// Capture constraints
const (
	MaxCaptionLength = 2200
	CaptureFolder    = "captures"
	MaxCaptureSize   = 10 * 1024 * 1024 // 10MB
)
