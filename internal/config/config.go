package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr       string
	DBPath     string
	UploadDir  string
	JWTSecret  string
	TokenTTL   time.Duration
	LogLevel   string
	Gemini     Gemini
	RateLimits RateLimits
	Version    string
	Commit     string
	BuildTime  string
}

type Gemini struct {
	Endpoint string
	Model    string
	APIKey   string
}

type RateLimits struct {
	LoginPerMinute int
	WritePerMinute int
}

// Load reads configuration from the environment. The JWT secret has no
// default: a process without one must not start, because every token it
// minted would be forgeable.
func Load() (Config, error) {
	addr := envString("NEWSDESK_ADDR", "")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}
	cfg := Config{
		Addr:      addr,
		DBPath:    envString("NEWSDESK_DB", "newsdesk.db"),
		UploadDir: envString("NEWSDESK_UPLOAD_DIR", "uploads"),
		JWTSecret: os.Getenv("NEWSDESK_JWT_SECRET"),
		TokenTTL:  envDuration("NEWSDESK_TOKEN_TTL", 7*24*time.Hour),
		LogLevel:  envString("NEWSDESK_LOG_LEVEL", "info"),
		Gemini: Gemini{
			Endpoint: envString("GEMINI_ENDPOINT", ""),
			Model:    envString("GEMINI_MODEL", "gemini-2.0-flash"),
			APIKey:   os.Getenv("GEMINI_API_KEY"),
		},
		RateLimits: RateLimits{
			LoginPerMinute: envInt("NEWSDESK_RL_LOGIN_PER_MIN", 10),
			WritePerMinute: envInt("NEWSDESK_RL_WRITE_PER_MIN", 30),
		},
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("NEWSDESK_JWT_SECRET must be set")
	}

	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
