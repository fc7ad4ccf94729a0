package config

import (
	"os"
	"strconv"
	"time"
)

// Storage backends
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	TablePrefix string
	// Storage
	DatabaseDriver string // "postgres" or "sqlite"
	DatabaseURL    string
	SQLiteDir      string
	// Auth
	JWKSURL   string // asymmetric tokens (RS256/ES256) verified against a JWKS endpoint
	JWTSecret string // HS256 shared secret, used when no JWKS URL is configured
	DevUserID string // dev-only: requests without a token act as this owner
	// Change notifications
	RedisURL     string // optional; fans change notices out across instances
	SSEKeepAlive time.Duration
	// Logging
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    env,
		CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:    getTablePrefix(env),
		DatabaseDriver: getEnv("DATABASE_DRIVER", DriverSQLite),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SQLiteDir:      getEnv("SQLITE_DIR", "./data"),
		JWKSURL:        getEnv("JWKS_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		DevUserID:      getDevUserID(env),
		RedisURL:       getEnv("REDIS_URL", ""),
		SSEKeepAlive:   getDuration("SSE_KEEPALIVE", 10*time.Second),
		LogDir:         getEnv("LOG_DIR", ""),
		LogMaxFiles:    getInt("LOG_MAX_FILES", 10),
	}
}

// getDevUserID only honors DEV_USER_ID outside production
func getDevUserID(env string) string {
	if env == "prod" {
		return ""
	}
	return getEnv("DEV_USER_ID", "")
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
