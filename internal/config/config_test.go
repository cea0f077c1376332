package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SPOT_NAME_TIMEZONE", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("STATS_CACHE_TTL_SECONDS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.SpotNameLocation == nil || cfg.SpotNameLocation.String() != "Asia/Tokyo" {
		t.Errorf("SpotNameLocation = %v, want Asia/Tokyo", cfg.SpotNameLocation)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("WorkerCount = %d, want default 2 for invalid input", cfg.WorkerCount)
	}
	if cfg.StatsCacheTTL != 5*time.Minute {
		t.Errorf("StatsCacheTTL = %v", cfg.StatsCacheTTL)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SPOT_NAME_TIMEZONE", "Not/AZone")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("CAPTURE_RATE_LIMIT_PER_MIN", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.SpotNameLocation != time.UTC {
		t.Errorf("invalid timezone should fall back to UTC, got %v", cfg.SpotNameLocation)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CaptureRateLimitPerMin != 5 {
		t.Errorf("CaptureRateLimitPerMin = %d", cfg.CaptureRateLimitPerMin)
	}
}
