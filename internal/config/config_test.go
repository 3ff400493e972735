package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
http:
  addr: ":9090"
limits:
  swap_create_per_min: 7
  browse_page_size: 24
announcements:
  retention: 720h
auth:
  jwt_access_ttl: 5m
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Limits.SwapCreatePerMinute != 7 {
		t.Fatalf("unexpected swap_create_per_min: %d", cfg.Limits.SwapCreatePerMinute)
	}
	if cfg.Limits.BrowsePageSize != 24 {
		t.Fatalf("unexpected browse_page_size: %d", cfg.Limits.BrowsePageSize)
	}
	if cfg.Announcements.Retention.String() != "720h0m0s" {
		t.Fatalf("unexpected announcements retention: %s", cfg.Announcements.Retention)
	}
	if cfg.Auth.JWTAccessTTL.String() != "5m0s" {
		t.Fatalf("unexpected jwt access ttl: %s", cfg.Auth.JWTAccessTTL)
	}

	if cfg.Limits.SwapCreatePer10Sec != 5 {
		t.Fatalf("swap_create_per_10sec default should stay 5, got %d", cfg.Limits.SwapCreatePer10Sec)
	}
	if cfg.Announcements.Channel != "announcements:changed" {
		t.Fatalf("announcements channel default should stay, got %s", cfg.Announcements.Channel)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %s", cfg.HTTP.Addr)
	}
}

func TestEnvOverridesWinOverYAML(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("SWAP_CREATE_PER_MIN", "3")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("env addr override lost: %s", cfg.HTTP.Addr)
	}
	if cfg.Limits.SwapCreatePerMinute != 3 {
		t.Fatalf("env limit override lost: %d", cfg.Limits.SwapCreatePerMinute)
	}
	if cfg.Auth.JWTSecret != "test-secret" {
		t.Fatalf("env jwt secret override lost")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "HTTP_ADDR", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL", "POSTGRES_DSN", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_USE_SSL",
		"JWT_SECRET", "JWT_ACCESS_TTL", "REFRESH_TTL", "ADMIN_TOTP_SECRET",
		"SWAP_CREATE_PER_MIN", "SWAP_CREATE_PER_10SEC", "WORKER_INTERVAL", "ANNOUNCEMENTS_RETENTION",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
