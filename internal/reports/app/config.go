package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	SessionSecret string // Required: HS256 secret for session tokens (min 32 bytes)
	Issuer        string // Optional: issuer claim for session tokens (default: ngo-reports)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./reports.db)
	PepperFile          string        // Optional: path to file containing pepper for password hashing
	BootstrapPassword   string        // Optional: initial password for the seeded admin (default: admin123)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		SessionSecret: os.Getenv("REPORTS_SESSION_SECRET"),
		Issuer:        getEnvOrDefault("REPORTS_ISSUER", "ngo-reports"),
		DatabaseFile:  getEnvOrDefault("REPORTS_DATABASE_FILE", "reports.db"),
		PepperFile:    os.Getenv("REPORTS_PEPPER_FILE"), // Optional: unset disables the pepper
		BootstrapPassword: getEnvOrDefault(
			"REPORTS_BOOTSTRAP_PASSWORD",
			"admin123",
		), // Meant to be changed after first login
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

	return defaultValue
}
