package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("POLL_INTERVAL_MS", "")
	t.Setenv("POLL_TIMEOUT_SECONDS", "")
	t.Setenv("ACTIVE_DOWNLOADS_BASE_URL", "")
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected port: %s", cfg.Port)
	}
	if cfg.PollInterval() != 2*time.Second {
		t.Fatalf("unexpected poll interval: %v", cfg.PollInterval())
	}
	if cfg.PollTimeout() != 0 {
		t.Fatalf("expected no poll timeout by default, got %v", cfg.PollTimeout())
	}
	if got := cfg.PollBaseURL(); got != "http://127.0.0.1:8080" {
		t.Fatalf("unexpected poll base url: %s", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("POLL_INTERVAL_MS", "500")
	t.Setenv("ACTIVE_DOWNLOADS_BASE_URL", "http://downloader:8000/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example,")
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PollInterval() != 500*time.Millisecond {
		t.Fatalf("unexpected poll interval: %v", cfg.PollInterval())
	}
	if got := cfg.PollBaseURL(); got != "http://downloader:8000" {
		t.Fatalf("unexpected poll base url: %s", got)
	}
	origins := cfg.AllowedOrigins()
	if len(origins) != 2 || origins[0] != "http://a.example" || origins[1] != "http://b.example" {
		t.Fatalf("unexpected origins: %#v", origins)
	}
}

func TestValidateRejectsNonPositiveInterval(t *testing.T) {
	cfg := &Config{PollIntervalMillis: 0}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for zero interval")
	}
	if !strings.Contains(err.Error(), "POLL_INTERVAL_MS") {
		t.Fatalf("expected error to mention POLL_INTERVAL_MS, got: %v", err)
	}
}

func TestValidateRejectsNegativeTimeout(t *testing.T) {
	cfg := &Config{PollIntervalMillis: 2000, PollTimeoutSeconds: -1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestValidateReleaseRequiresRedis(t *testing.T) {
	cfg := &Config{GinMode: "release", PollIntervalMillis: 2000}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing REDIS_URL in release mode")
	}
}

func TestJobTTLFallsBackToDefault(t *testing.T) {
	cfg := &Config{JobExpireMinutes: 0}
	if cfg.JobTTL() != time.Hour {
		t.Fatalf("unexpected ttl: %v", cfg.JobTTL())
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
