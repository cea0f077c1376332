package repository

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"Tokyo", "%Tokyo%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`back\slash`, `%back\\slash%`},
		{"", "%%"},
	}

	for _, tt := range tests {
		if got := containsPattern(tt.query); got != tt.want {
			t.Errorf("containsPattern(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestPgErrorCode(t *testing.T) {
	err := fmt.Errorf("insert failed: %w", &pq.Error{Code: pgUniqueViolation, Constraint: "profiles_username_key"})

	code, constraint := pgErrorCode(err)
	if code != pgUniqueViolation {
		t.Errorf("expected code %s, got %s", pgUniqueViolation, code)
	}
	if constraint != "profiles_username_key" {
		t.Errorf("expected constraint profiles_username_key, got %s", constraint)
	}

	if code, _ := pgErrorCode(fmt.Errorf("plain")); code != "" {
		t.Errorf("expected empty code for non-pq error, got %s", code)
	}
}
