package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	APIBaseURL     string
	APIToken       string
	APIRatePerSec  float64
	APIPort        string
	DBPath         string
	AudioDir       string
	LogLevel       slog.Level
	LogFormat      string
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or a parent directory, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Walk up a few levels so commands run from subdirectories still find the project .env
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:9000"),
		APIToken:   getEnv("API_TOKEN", ""),
		APIPort:    getEnv("API_PORT", "9000"),
		DBPath:     getEnv("DB_PATH", "./data/recordream.db"),
		AudioDir:   getEnv("AUDIO_DIR", "./data/audio"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
	}

	rate, err := strconv.ParseFloat(getEnv("API_RATE_PER_SEC", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("API_RATE_PER_SEC must be a number: %w", err)
	}
	if rate < 0 {
		return nil, fmt.Errorf("API_RATE_PER_SEC must not be negative")
	}
	cfg.APIRatePerSec = rate

	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be a duration: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be greater than 0")
	}
	cfg.RequestTimeout = timeout

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	for _, dir := range []string{filepath.Dir(cfg.DBPath), cfg.AudioDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
