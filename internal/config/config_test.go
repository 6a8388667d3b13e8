package config

import (
	"errors"
	"testing"
	"time"
)

var configKeys = []string{
	"PORT", "DATABASE_URL", "REDIS_URL", "LOG_LEVEL", "ENVIRONMENT", "CORS_ORIGINS",
	"YOUTUBE_API_KEY", "YOUTUBE_API_ENDPOINT", "YOUTUBE_RPS", "YOUTUBE_MAX_RETRIES",
	"SEARCH_LIMIT", "MAX_UPLOADS", "DEFAULT_SCOPE", "AUTO_SELECT_THRESHOLD",
	"SNAPSHOT_RETENTION", "SNAPSHOT_PRUNE_INTERVAL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.CORSOrigins != "http://localhost:3000" {
		t.Errorf("CORSOrigins = %q", cfg.CORSOrigins)
	}
	if cfg.YouTubeRPS != 5 || cfg.YouTubeMaxRetries != 3 || cfg.SearchLimit != 5 || cfg.MaxUploads != 0 {
		t.Errorf("youtube defaults = %v/%d/%d/%d", cfg.YouTubeRPS, cfg.YouTubeMaxRetries, cfg.SearchLimit, cfg.MaxUploads)
	}
	if cfg.DefaultScope != "90d" || cfg.AutoSelectThreshold != 0.85 {
		t.Errorf("analysis defaults = %q/%v", cfg.DefaultScope, cfg.AutoSelectThreshold)
	}
	if cfg.SnapshotRetention != 720*time.Hour || cfg.SnapshotPruneInterval != time.Hour {
		t.Errorf("snapshot defaults = %v/%v", cfg.SnapshotRetention, cfg.SnapshotPruneInterval)
	}
	if cfg.DatabaseURL != "" || cfg.RedisURL != "" {
		t.Error("optional stores should default to disabled")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("YOUTUBE_RPS", "2.5")
	t.Setenv("MAX_UPLOADS", "500")
	t.Setenv("AUTO_SELECT_THRESHOLD", "0.9")
	t.Setenv("SNAPSHOT_RETENTION", "48h")
	t.Setenv("SEARCH_LIMIT", "not-a-number")

	cfg := Load()
	if cfg.Port != "9090" || cfg.YouTubeRPS != 2.5 || cfg.MaxUploads != 500 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.AutoSelectThreshold != 0.9 || cfg.SnapshotRetention != 48*time.Hour {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.SearchLimit != 5 {
		t.Errorf("SearchLimit = %d, want fallback 5", cfg.SearchLimit)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Validate() = %v, want ErrMissingAPIKey", err)
	}
	cfg.YouTubeAPIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}
