package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // spot names need IANA zones on minimal images

	"github.com/joho/godotenv"

	"spotlapse/internal/logging"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string

	JWTSecret string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string

	// RedisURL is optional. When empty the stats cache, event stream and
	// worker pool are disabled.
	RedisURL string

	LogLevel  string
	LogFormat string

	// SpotNameLocation is the time zone used to name ad-hoc spots.
	SpotNameLocation *time.Location

	CORSAllowedOrigins     []string
	CaptureRateLimitPerMin int
	WorkerCount            int
	StatsCacheTTL          time.Duration
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		logging.Info().Msg("No .env file found or error loading it, relying on environment variables")
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "require"
	}

	tzName := os.Getenv("SPOT_NAME_TIMEZONE")
	if tzName == "" {
		tzName = "Asia/Tokyo"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		logging.Warn().Err(err).Str("timezone", tzName).Msg("Unknown SPOT_NAME_TIMEZONE, falling back to UTC")
		loc = time.UTC
	}

	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  sslMode,

		ServerPort: serverPort,

		JWTSecret: os.Getenv("JWT_SECRET"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),

		RedisURL: os.Getenv("REDIS_URL"),

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", "json"),

		SpotNameLocation: loc,

		CORSAllowedOrigins:     origins,
		CaptureRateLimitPerMin: positiveInt("CAPTURE_RATE_LIMIT_PER_MIN", 30),
		WorkerCount:            positiveInt("WORKER_COUNT", 2),
		StatsCacheTTL:          time.Duration(positiveInt("STATS_CACHE_TTL_SECONDS", 300)) * time.Second,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func positiveInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
