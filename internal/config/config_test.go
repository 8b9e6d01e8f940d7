package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_URL", "API_KEY", "FIXTURES_FILE", "SETTLED_STATUS",
		"SERVER_READ_TIMEOUT", "CONSOLIDATION_CONCURRENCY", "SERVER_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTP.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeout != 10*time.Second {
		t.Errorf("expected default read timeout, got %s", cfg.HTTP.ReadTimeout)
	}
	if cfg.Engine.SettledStatus != "CANCELADO" {
		t.Errorf("expected CANCELADO settled status, got %s", cfg.Engine.SettledStatus)
	}
	if cfg.Engine.ConsolidationConcurrency != 4 {
		t.Errorf("expected concurrency 4, got %d", cfg.Engine.ConsolidationConcurrency)
	}
	if cfg.Auth.APIKey != "" {
		t.Errorf("expected auth disabled by default")
	}
	if len(cfg.HTTP.AllowedOrigins) != 0 {
		t.Errorf("expected no allowed origins, got %v", cfg.HTTP.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9002")
	t.Setenv("API_KEY", " secret ")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("CONSOLIDATION_CONCURRENCY", "8")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://localhost:9002, ,http://localhost:3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTP.Port != "9002" {
		t.Errorf("expected port 9002, got %s", cfg.HTTP.Port)
	}
	if cfg.Auth.APIKey != "secret" {
		t.Errorf("expected trimmed api key, got %q", cfg.Auth.APIKey)
	}
	if cfg.HTTP.ReadTimeout != 3*time.Second {
		t.Errorf("expected 3s read timeout, got %s", cfg.HTTP.ReadTimeout)
	}
	if cfg.Engine.ConsolidationConcurrency != 8 {
		t.Errorf("expected concurrency 8, got %d", cfg.Engine.ConsolidationConcurrency)
	}
	if len(cfg.HTTP.AllowedOrigins) != 2 {
		t.Errorf("expected 2 allowed origins, got %v", cfg.HTTP.AllowedOrigins)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad duration", "SERVER_WRITE_TIMEOUT", "soon"},
		{"bad int", "DATABASE_MAX_OPEN_CONNS", "many"},
		{"non-positive concurrency", "CONSOLIDATION_CONCURRENCY", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
