package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Env      string
	LogLevel string

	// Backend REST API
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Session/identity
	SessionToken  string
	SessionSecret string
	UserEmail     string

	// Booking
	DepositRate float64
	Currency    string

	// Stub backend (cmd/stubserver)
	Port string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL:  strings.TrimRight(getEnv("BARBERBOOK_API_BASE_URL", "http://localhost:8080"), "/"),
		HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", 15*time.Second),

		SessionToken:  getEnv("SESSION_TOKEN", ""),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		UserEmail:     getEnv("USER_EMAIL", ""),

		DepositRate: getEnvAsFloat("DEPOSIT_RATE", 0.30),
		Currency:    getEnv("CURRENCY", "USD"),

		Port: getEnv("PORT", "8080"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
