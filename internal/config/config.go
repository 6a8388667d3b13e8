package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	LogLevel    string
	Environment string
	CORSOrigins string

	YouTubeAPIKey      string
	YouTubeAPIEndpoint string
	YouTubeRPS         float64
	YouTubeMaxRetries  int
	SearchLimit        int
	MaxUploads         int

	DefaultScope          string
	AutoSelectThreshold   float64
	SnapshotRetention     time.Duration
	SnapshotPruneInterval time.Duration
}

var ErrMissingAPIKey = errors.New("YOUTUBE_API_KEY is required")

// Load reads configuration from the environment. A .env file in the working
// directory, if present, fills in variables that are not already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		YouTubeAPIKey:      getEnv("YOUTUBE_API_KEY", ""),
		YouTubeAPIEndpoint: getEnv("YOUTUBE_API_ENDPOINT", ""),
		YouTubeRPS:         getEnvFloat("YOUTUBE_RPS", 5),
		YouTubeMaxRetries:  getEnvInt("YOUTUBE_MAX_RETRIES", 3),
		SearchLimit:        getEnvInt("SEARCH_LIMIT", 5),
		MaxUploads:         getEnvInt("MAX_UPLOADS", 0),

		DefaultScope:          getEnv("DEFAULT_SCOPE", "90d"),
		AutoSelectThreshold:   getEnvFloat("AUTO_SELECT_THRESHOLD", 0.85),
		SnapshotRetention:     getEnvDuration("SNAPSHOT_RETENTION", 720*time.Hour),
		SnapshotPruneInterval: getEnvDuration("SNAPSHOT_PRUNE_INTERVAL", time.Hour),
	}
}

// Validate reports configuration the server cannot run without.
func (c *Config) Validate() error {
	if c.YouTubeAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
