package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Gateway authentication. Chat gateways exchange their client secret
	// for a JWT; the secret is stored bcrypt-hashed.
	JWTSecret               string
	GatewayClientID         string
	GatewayClientSecretHash string

	// Vision API configuration
	VisionAPIKey    string
	VisionAPIURL    string
	VisionModel     string
	VisionMaxTokens int

	// Photo storage
	S3Bucket string
}

// LoadConfig creates a new Config instance from environment variables.
// In development a .env file is merged in first, matching how the service
// is run locally.
func LoadConfig() (*Config, error) {
	if GetEnvironment() == Development {
		// A missing .env is fine; real env vars still apply.
		_ = godotenv.Load()
	}

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "macrosnap"),
		DBPassword: readSecretEnv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "macrosnap"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: readSecretEnv("REDIS_PASSWORD"),
		RedisURL:      os.Getenv("REDIS_URL"),

		JWTSecret:               readSecretEnv("JWT_SECRET"),
		GatewayClientID:         getEnv("GATEWAY_CLIENT_ID", "telegram-gateway"),
		GatewayClientSecretHash: readSecretEnv("GATEWAY_CLIENT_SECRET_HASH"),

		VisionAPIKey: readSecretEnv("OPENAI_API_KEY"),
		VisionAPIURL: getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		VisionModel:  getEnv("OPENAI_MODEL", "gpt-4o"),

		S3Bucket: getEnv("S3_BUCKET_NAME", "macrosnap-meal-photos"),
	}

	cfg.VisionMaxTokens = 500
	if v := os.Getenv("MAX_TOKENS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_TOKENS value %q: %w", v, err)
		}
		cfg.VisionMaxTokens = parsed
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// getEnv returns the environment variable value or a default
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// readSecretEnv reads KEY, falling back to the file named by KEY_FILE.
// The file form is how Docker secrets are mounted in production.
func readSecretEnv(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if path := os.Getenv(key + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return ""
}
