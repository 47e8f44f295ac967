package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"flight-assistant/internal/logger"
)

const (
	DefaultBackendURL = "http://localhost:4000"

	OrderingSequenced = "sequenced"
	OrderingSnapshot  = "snapshot"
)

type Config struct {
	Port          string
	AllowedOrigin string
	LogLevel      string
	// Flight-search backend
	BackendURL     string
	BackendTimeout time.Duration
	// Bot texts (greeting, error, flight summary)
	MessagesFile string
	// How overlapping submissions in one session are reconciled
	Ordering string
	// Idle sessions older than this are dropped from memory
	SessionTTL time.Duration
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:           getEnvDefault("PORT", "8080"),
		AllowedOrigin:  getEnvDefault("ALLOWED_ORIGIN", "*"),
		LogLevel:       getEnvDefault("LOG_LEVEL", "info"),
		BackendURL:     strings.TrimRight(getEnvDefault("BACKEND_URL", DefaultBackendURL), "/"),
		BackendTimeout: getEnvDurationDefault("BACKEND_TIMEOUT", 30*time.Second),
		MessagesFile:   getEnvDefault("MESSAGES_FILE", "./prompts/messages.yaml"),
		Ordering:       strings.ToLower(getEnvDefault("ORDERING", OrderingSequenced)),
		SessionTTL:     getEnvDurationDefault("SESSION_TTL", 2*time.Hour),
	}
	if cfg.BackendURL == "" {
		logger.Log.Warnf("warning: BACKEND_URL is empty; falling back to %s", DefaultBackendURL)
		cfg.BackendURL = DefaultBackendURL
	}
	switch cfg.Ordering {
	case OrderingSequenced, OrderingSnapshot:
	default:
		logger.Log.Warnf("warning: unknown ORDERING %q; using %s", cfg.Ordering, OrderingSequenced)
		cfg.Ordering = OrderingSequenced
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
		logger.Log.Warnf("warning: invalid duration for %s: %q", key, v)
	}
	return def
}
