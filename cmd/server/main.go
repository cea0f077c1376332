package main

import (
	"os"

	"spotlapse/internal/config"
	"spotlapse/internal/logging"
	"spotlapse/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load config")
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if cfg.JWTSecret == "" {
		logging.Error().Msg("JWT_SECRET must be set")
		os.Exit(1)
	}

	if err := http.Run(cfg); err != nil {
		logging.Error().Err(err).Msg("Server failed")
		os.Exit(1)
	}
	logging.Info().Msg("Server stopped")
}
