package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Addr:               ":8080",
		DatabaseURL:        "postgres://localhost:5432/staffhub",
		JWTSecret:          "test-secret",
		DataEncryptionKey:  "0123456789abcdef0123456789abcdef",
		Environment:        "development",
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 60,
		SessionTTL:         24 * time.Hour,
		SessionCookieName:  "staffhub_session",
	}
}

func TestValidateAcceptsSaneConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = "   "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestValidateProductionRequiresSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "production"
	cfg.JWTSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT secret in production")
	}

	cfg = validConfig()
	cfg.Environment = "production"
	cfg.DataEncryptionKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing encryption key in production")
	}
}

func TestValidateRejectsTinyBodyLimit(t *testing.T) {
	cfg := validConfig()
	cfg.MaxBodyBytes = 512
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for body limit below 1KB")
	}
}

func TestValidateRejectsNonPositiveRateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimitPerMinute = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero rate limit")
	}
}

func TestValidateRejectsShortSessionTTL(t *testing.T) {
	cfg := validConfig()
	cfg.SessionTTL = 30 * time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for sub-minute session TTL")
	}
}

func TestValidateSeedRequiresPassword(t *testing.T) {
	cfg := validConfig()
	cfg.RunSeed = true
	cfg.SeedAdminPassword = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when seeding without an admin password")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ADDR", "")
	t.Setenv("SESSION_COOKIE_NAME", "")
	t.Setenv("SESSION_TTL", "")

	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected default addr %q", cfg.Addr)
	}
	if cfg.SessionCookieName != "staffhub_session" {
		t.Fatalf("unexpected default cookie name %q", cfg.SessionCookieName)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("unexpected default session TTL %s", cfg.SessionTTL)
	}
}
