package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	RiotAPIKey string
	DBPath     string
	ServerPort string
	LogLevel   string

	// DefaultPlatform is the single documented fallback used when a request
	// does not carry a region. Any other platform must be passed explicitly.
	DefaultPlatform string

	// RateLimit is the sustained upstream request budget per second.
	RateLimit int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		RiotAPIKey:      getEnv("RIOT_API_KEY", ""),
		DBPath:          getEnv("DB_PATH", "riot.db"),
		ServerPort:      getEnv("SERVER_PORT", "3000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DefaultPlatform: getEnv("DEFAULT_PLATFORM", "br1"),
		RateLimit:       getEnvInt("RIOT_RATE_LIMIT", 20),
	}

	if cfg.RiotAPIKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY is required")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("default_platform", cfg.DefaultPlatform).
		Int("rate_limit", cfg.RateLimit).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
