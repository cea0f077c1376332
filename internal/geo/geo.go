// Package geo normalizes client-supplied coordinates into a canonical location.
//
// Resolution is soft-fail: coordinates that are missing, non-numeric, non-finite
// or out of range become Unknown instead of an error, so a capture is never
// rejected because of bad geolocation data.
package geo

import (
	"math"
	"strconv"
	"strings"
)

// Fallback coordinates used for spots created without any location (Tokyo Station).
const (
	FallbackLat = 35.6812
	FallbackLng = 139.7671
)

// Location is either Known or Unknown.
type Location interface {
	isLocation()
}

// Known is a validated coordinate pair.
type Known struct {
	Lat float64
	Lng float64
}

// Unknown means no usable location was supplied.
type Unknown struct{}

func (Known) isLocation()   {}
func (Unknown) isLocation() {}

// Resolve validates an optional coordinate pair. Both values must be present.
func Resolve(lat, lng *float64) Location {
	if lat == nil || lng == nil {
		return Unknown{}
	}
	if !ValidLat(*lat) || !ValidLng(*lng) {
		return Unknown{}
	}
	return Known{Lat: *lat, Lng: *lng}
}

// ValidLat reports whether v is a finite latitude in [-90, 90].
func ValidLat(v float64) bool {
	return !math.IsNaN(v) && v >= -90 && v <= 90
}

// ValidLng reports whether v is a finite longitude in [-180, 180].
func ValidLng(v float64) bool {
	return !math.IsNaN(v) && v >= -180 && v <= 180
}

// ParseCoordinates converts raw form values. A value that is empty or does
// not parse as a float is returned as nil; range checks are left to Resolve.
func ParseCoordinates(latStr, lngStr string) (lat, lng *float64) {
	return parseFloat(latStr), parseFloat(lngStr)
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
