package model

import (
	"time"
)

// Spot is a named, geolocated place a user repeatedly photographs.
// Lat and Lng are either both set or both nil.
type Spot struct {
	ID                string    `db:"id" json:"id"`
	UserID            string    `db:"user_id" json:"user_id"`
	Name              string    `db:"name" json:"name"`
	Lat               *float64  `db:"lat" json:"lat"`
	Lng               *float64  `db:"lng" json:"lng"`
	ReferenceImageURL *string   `db:"reference_image_url" json:"reference_image_url"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// SpotSummary is the public subset of a spot joined into capture views.
type SpotSummary struct {
	ID   string   `db:"id" json:"id"`
	Name string   `db:"name" json:"name"`
	Lat  *float64 `db:"lat" json:"lat"`
	Lng  *float64 `db:"lng" json:"lng"`
}

// CreateSpotRequest registers a spot explicitly.
type CreateSpotRequest struct {
	Name              string   `json:"name" validate:"required,max=100"`
	Lat               *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lng               *float64 `json:"lng" validate:"required,min=-180,max=180"`
	ReferenceImageURL *string  `json:"reference_image_url" validate:"omitempty,url"`
}

const (
	// MaxSpotNameLength bounds explicit and synthesized spot names.
	MaxSpotNameLength = 100
)
