package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"UNLOCK_MIN_SCORE", "SCORING_MODE", "CATALOG_DRIVER", "CATALOG_BASE_URL", "REPORT_PROGRESS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.UnlockMinScore != 4 {
		t.Errorf("UnlockMinScore = %d, want 4", cfg.UnlockMinScore)
	}
	if cfg.ScoringMode != "count" {
		t.Errorf("ScoringMode = %q, want count", cfg.ScoringMode)
	}
	if cfg.CatalogDriver != CatalogDriverHTTP {
		t.Errorf("CatalogDriver = %q, want %q", cfg.CatalogDriver, CatalogDriverHTTP)
	}
	if cfg.CatalogBaseURL != "http://localhost/codeadapt-backend/api" {
		t.Errorf("CatalogBaseURL = %q", cfg.CatalogBaseURL)
	}
	if !cfg.ReportProgress {
		t.Error("ReportProgress should default to true")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("UNLOCK_MIN_SCORE", "7")
	t.Setenv("SCORING_MODE", "POINTS")
	t.Setenv("CATALOG_BASE_URL", "https://api.example.com/v1/")
	t.Setenv("CATALOG_CACHE_TTL_SECONDS", "30")
	t.Setenv("REPORT_PROGRESS", "false")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	if cfg.UnlockMinScore != 7 {
		t.Errorf("UnlockMinScore = %d, want 7", cfg.UnlockMinScore)
	}
	if cfg.ScoringMode != "points" {
		t.Errorf("ScoringMode = %q, want points", cfg.ScoringMode)
	}
	if cfg.CatalogBaseURL != "https://api.example.com/v1" {
		t.Errorf("CatalogBaseURL = %q, want trailing slash trimmed", cfg.CatalogBaseURL)
	}
	if cfg.CatalogCacheTTL != 30*time.Second {
		t.Errorf("CatalogCacheTTL = %v, want 30s", cfg.CatalogCacheTTL)
	}
	if cfg.ReportProgress {
		t.Error("ReportProgress should be false")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestGetEnvInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("MAX_DB_CONNS", "lots")
	if got := getEnvInt("MAX_DB_CONNS", 8); got != 8 {
		t.Errorf("getEnvInt() = %d, want fallback 8", got)
	}
}

func TestCacheKey_TopicProgressKey(t *testing.T) {
	tests := []struct {
		name                   string
		learner, course, topic int
		want                   string
	}{
		{"basic", 9, 1, 3, "learner:9:topicProgress_1_3"},
		{"same topic other course", 9, 2, 3, "learner:9:topicProgress_2_3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CacheKey.TopicProgressKey(tt.learner, tt.course, tt.topic); got != tt.want {
				t.Errorf("TopicProgressKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
