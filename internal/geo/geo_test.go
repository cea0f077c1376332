package geo

import (
	"math"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestResolve_ValidCoordinatesAreKnown(t *testing.T) {
	cases := []struct{ lat, lng float64 }{
		{0, 0},
		{35.0, 139.0},
		{-90, -180},
		{90, 180},
		{-33.8688, 151.2093},
	}

	for _, c := range cases {
		loc := Resolve(ptr(c.lat), ptr(c.lng))
		known, ok := loc.(Known)
		if !ok {
			t.Fatalf("Resolve(%v, %v) = %T, want Known", c.lat, c.lng, loc)
		}
		if known.Lat != c.lat || known.Lng != c.lng {
			t.Errorf("Resolve(%v, %v) = %+v, want unchanged", c.lat, c.lng, known)
		}
	}
}

func TestResolve_InvalidCoordinatesAreUnknown(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng *float64
	}{
		{"both missing", nil, nil},
		{"lat missing", nil, ptr(10)},
		{"lng missing", ptr(10), nil},
		{"lat too high", ptr(90.0001), ptr(0)},
		{"lat too low", ptr(-91), ptr(0)},
		{"lng too high", ptr(0), ptr(180.5)},
		{"lng too low", ptr(0), ptr(-181)},
		{"lat NaN", ptr(math.NaN()), ptr(0)},
		{"lng +Inf", ptr(0), ptr(math.Inf(1))},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, ok := Resolve(c.lat, c.lng).(Unknown); !ok {
				t.Errorf("expected Unknown")
			}
		})
	}
}

func TestParseCoordinates(t *testing.T) {
	lat, lng := ParseCoordinates(" 35.5 ", "139.25")
	if lat == nil || *lat != 35.5 || lng == nil || *lng != 139.25 {
		t.Fatalf("ParseCoordinates = %v, %v", lat, lng)
	}

	lat, lng = ParseCoordinates("", "abc")
	if lat != nil || lng != nil {
		t.Errorf("expected nil for empty and non-numeric input, got %v, %v", lat, lng)
	}

	// Parsed but out of range still flows through Resolve as Unknown.
	lat, lng = ParseCoordinates("123", "0")
	if _, ok := Resolve(lat, lng).(Unknown); !ok {
		t.Error("expected Unknown for out-of-range parsed value")
	}
}
