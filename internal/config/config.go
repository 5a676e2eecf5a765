package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL          string
	RedisURL             string
	BaseURL              string // Public base URL used to build short URLs
	Port                 string
	LogLevel             string
	CodeLength           int           // Length of generated short codes
	CodeMaxAttempts      int           // Bounded retry budget for code generation
	SweepInterval        time.Duration // How often the expiration sweeper runs
	RateLimitWindow      time.Duration // Sliding window size for the API limiter
	RateLimitMax         int           // Requests per window for API endpoints
	RateLimitRedirectMax int           // Requests per window for redirects (more lenient)
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisURL:             getEnv("REDIS_URL", ""),
		BaseURL:              getEnv("BASE_URL", "http://localhost:8080"),
		Port:                 getEnv("PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		CodeLength:           getEnvInt("CODE_LENGTH", 6),
		CodeMaxAttempts:      getEnvInt("CODE_MAX_ATTEMPTS", 5),
		SweepInterval:        getEnvDuration("SWEEP_INTERVAL", time.Hour),
		RateLimitWindow:      getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitMax:         getEnvInt("RATE_LIMIT_MAX", 60),
		RateLimitRedirectMax: getEnvInt("RATE_LIMIT_REDIRECT_MAX", 300),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
