package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	OllamaBaseURL  string
	ModelName      string
	Temperature    float64
	HistoryWindow  int
	APIPort        string
	AllowedOrigins []string
	LogLevel       slog.Level
	LogFormat      string
	// DBPath is the transcript database; empty disables transcript logging.
	DBPath string

	GenerateTimeout time.Duration
	HealthTimeout   time.Duration
	ListTimeout     time.Duration
	PullTimeout     time.Duration
	MockDelay       time.Duration
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the parsed values.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		OllamaBaseURL:  getEnv("OLLAMA_API_URL", "http://localhost:11434/api"),
		ModelName:      getEnv("LLAMA_MODEL", "llama3.2"),
		APIPort:        getEnv("API_PORT", "8000"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "text")),
		DBPath:         "./data/negotiations.db",
	}
	// An explicitly empty DB_PATH turns transcripts off.
	if value, ok := os.LookupEnv("DB_PATH"); ok {
		cfg.DBPath = strings.TrimSpace(value)
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}

	cfg.Temperature, err = strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.7"), 64)
	if err != nil {
		return nil, fmt.Errorf("LLM_TEMPERATURE must be a valid number: %w", err)
	}
	if cfg.Temperature < 0 {
		return nil, fmt.Errorf("LLM_TEMPERATURE must not be negative")
	}

	cfg.HistoryWindow, err = strconv.Atoi(getEnv("HISTORY_WINDOW", "10"))
	if err != nil {
		return nil, fmt.Errorf("HISTORY_WINDOW must be a valid integer: %w", err)
	}
	if cfg.HistoryWindow <= 0 {
		return nil, fmt.Errorf("HISTORY_WINDOW must be greater than 0")
	}

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"GENERATE_TIMEOUT", "30s", &cfg.GenerateTimeout},
		{"HEALTH_TIMEOUT", "2s", &cfg.HealthTimeout},
		{"LIST_TIMEOUT", "5s", &cfg.ListTimeout},
		{"PULL_TIMEOUT", "60s", &cfg.PullTimeout},
		{"MOCK_DELAY", "1s", &cfg.MockDelay},
	}
	for _, d := range durations {
		value, err := time.ParseDuration(getEnv(d.key, d.fallback))
		if err != nil {
			return nil, fmt.Errorf("%s must be a valid duration: %w", d.key, err)
		}
		if value < 0 {
			return nil, fmt.Errorf("%s must not be negative", d.key)
		}
		*d.dst = value
	}

	// Create the database directory if transcripts are enabled
	if cfg.DBPath != "" {
		dataDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
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

// splitList splits a comma separated value, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
