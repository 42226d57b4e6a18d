package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer    string // Issuer claim for access tokens (default: tasklight-auth)
	JWTSecret string // HMAC secret for access token signing (default: dev-secret; set in prod)

	AccessTTL        time.Duration // Access token lifetime (default: 5m)
	MaxRefreshTokens int           // Per-user cap on live refresh tokens (default: 5)
	LoginWindow      time.Duration // Fixed window for login failure counting (default: 1m)
	LoginMaxFailures int           // Failures tolerated per window (default: 5)

	StoreDriver  string // Store driver (memory, sqlite) (default: memory)
	DatabaseFile string // Path to SQLite database file (default: ./tasklight.db)
	PepperFile   string // Path to the password hashing pepper file (default: ./pepper)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	// A .env next to the binary is convenient in dev; absence is fine.
	_ = godotenv.Load()

	return Config{
		Issuer:    getEnvOrDefault("AUTH_ISSUER", "tasklight-auth"),
		JWTSecret: getEnvOrDefault("AUTH_JWT_SECRET", "dev-secret"),

		AccessTTL:        getEnvDurationOrDefault("AUTH_ACCESS_TTL", 5*time.Minute),
		MaxRefreshTokens: getEnvIntOrDefault("AUTH_MAX_REFRESH_TOKENS", 5),
		LoginWindow:      getEnvDurationOrDefault("AUTH_LOGIN_WINDOW", time.Minute),
		LoginMaxFailures: getEnvIntOrDefault("AUTH_LOGIN_MAX_FAILURES", 5),

		StoreDriver:  getEnvOrDefault("AUTH_STORE_DRIVER", "memory"),
		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "tasklight.db"),
		PepperFile:   getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers read as seconds.
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}
