package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NEWSDESK_JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected addr: %q", cfg.Addr)
	}
	if cfg.DBPath != "newsdesk.db" {
		t.Fatalf("unexpected db path: %q", cfg.DBPath)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Fatalf("unexpected token ttl: %v", cfg.TokenTTL)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Fatalf("unexpected model: %q", cfg.Gemini.Model)
	}
	if cfg.RateLimits.LoginPerMinute != 10 || cfg.RateLimits.WritePerMinute != 30 {
		t.Fatalf("unexpected rate limits: %+v", cfg.RateLimits)
	}
}

func TestLoadPortFallback(t *testing.T) {
	t.Setenv("NEWSDESK_JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("unexpected addr: %q", cfg.Addr)
	}

	t.Setenv("NEWSDESK_ADDR", "127.0.0.1:7000")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:7000" {
		t.Fatalf("explicit addr should win over PORT, got %q", cfg.Addr)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("NEWSDESK_JWT_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error without secret")
	}
	if !strings.Contains(err.Error(), "NEWSDESK_JWT_SECRET") {
		t.Fatalf("error should name the missing variable: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NEWSDESK_JWT_SECRET", "test-secret")
	t.Setenv("NEWSDESK_TOKEN_TTL", "30m")
	t.Setenv("NEWSDESK_RL_LOGIN_PER_MIN", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("unexpected ttl: %v", cfg.TokenTTL)
	}
	if cfg.RateLimits.LoginPerMinute != 3 {
		t.Fatalf("unexpected login limit: %d", cfg.RateLimits.LoginPerMinute)
	}
}
