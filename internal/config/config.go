package config

import (
	"os"
	"strconv"
	"time"

	"healthdash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig `validate:"required"`
	Narrator  NarratorConfig `validate:"required"`
	Server    ServerConfig   `validate:"required"`
	Narrative NarrativeConfig
	Data      DataConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string `validate:"required"`
}

// NarratorConfig holds the text-generation service settings. The timeout is a
// hard ceiling on the generation call; the request must never hang.
type NarratorConfig struct {
	BaseURL       string
	Model         string
	Temperature   float64
	TopP          float64
	RepeatPenalty float64
	MaxTokens     int
	Seed          int64
	Timeout       time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string `validate:"required"`
}

// NarrativeConfig holds the quality-gate thresholds for generated prose.
// These are tunable constants, not behavior switches.
type NarrativeConfig struct {
	MinLength     int
	MarkerWordMax int
	MaxFailures   int
}

// DataConfig holds paths to the static lookup tables loaded once at startup.
type DataConfig struct {
	BlockedDistrictsFile string
	GraphScalesFile      string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	config.Narrator = loadNarratorConfig()
	config.Server = loadServerConfig()
	config.Narrative = loadNarrativeConfig()
	config.Data = loadDataConfig()

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{URL: url}, nil
}

func loadNarratorConfig() NarratorConfig {
	return NarratorConfig{
		BaseURL:       getEnvOrDefault("NARRATOR_URL", "http://localhost:11434"),
		Model:         getEnvOrDefault("NARRATOR_MODEL", "gemma3:270m"),
		Temperature:   getEnvFloatOrDefault("NARRATOR_TEMPERATURE", 0.5),
		TopP:          getEnvFloatOrDefault("NARRATOR_TOP_P", 0.9),
		RepeatPenalty: getEnvFloatOrDefault("NARRATOR_REPEAT_PENALTY", 1.1),
		MaxTokens:     getEnvIntOrDefault("NARRATOR_MAX_TOKENS", 500),
		Seed:          int64(getEnvIntOrDefault("NARRATOR_SEED", 0)),
		// Model latency on small hosts runs to minutes; bounded, never infinite.
		Timeout: getEnvDurationOrDefault("NARRATOR_TIMEOUT", 300*time.Second),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port: getEnvOrDefault("PORT", "8000"),
	}
}

func loadNarrativeConfig() NarrativeConfig {
	return NarrativeConfig{
		MinLength:     getEnvIntOrDefault("SUMMARY_MIN_LENGTH", 120),
		MarkerWordMax: getEnvIntOrDefault("SUMMARY_MARKER_WORD_MAX", 6),
		MaxFailures:   getEnvIntOrDefault("SUMMARY_MAX_FAILURES", 2),
	}
}

func loadDataConfig() DataConfig {
	return DataConfig{
		BlockedDistrictsFile: getEnvOrDefault("BLOCKED_DISTRICTS_FILE", "cluster_district_ids.json"),
		GraphScalesFile:      getEnvOrDefault("GRAPH_SCALES_FILE", "graph_scales.json"),
	}
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("database URL is required")
	}
	if config.Narrator.BaseURL == "" {
		return errors.ConfigInvalid("narrator base URL is required")
	}
	if config.Narrator.Timeout <= 0 {
		return errors.ConfigInvalid("narrator timeout must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
