package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Storage settings
	DatabaseURL string

	// Gemini settings
	GoogleAPIKey        string
	ClassifyInterval    time.Duration // minimum gap between classifier calls (shared, process-wide)
	ClassifyMaxAttempts int
	ClassifyBaseDelay   time.Duration

	// Collector settings
	SourcesConfigPath string // optional YAML override for topics/sources
	DaysBackDefault   int
	SourcePause       time.Duration // politeness pause between sources
	RequestTimeout    time.Duration

	// Pipeline settings
	CommitBatchSize int

	// HTTP settings
	HTTPPort string

	// App settings
	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		ClassifyInterval:    6 * time.Second,
		ClassifyMaxAttempts: 3,
		ClassifyBaseDelay:   10 * time.Second,
		DaysBackDefault:     7,
		SourcePause:         1 * time.Second,
		RequestTimeout:      15 * time.Second,
		CommitBatchSize:     5,
		HTTPPort:            "8000",
	}

	// Load from environment
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	cfg.SourcesConfigPath = os.Getenv("SOURCES_CONFIG_PATH")

	if port := os.Getenv("HTTP_PORT"); port != "" {
		cfg.HTTPPort = port
	}

	if v := os.Getenv("CLASSIFY_INTERVAL_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.ClassifyInterval = time.Duration(val) * time.Second
		}
	}
	if v := os.Getenv("DAYS_BACK_DEFAULT"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.DaysBackDefault = val
		}
	}
	if v := os.Getenv("COMMIT_BATCH_SIZE"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.CommitBatchSize = val
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required")
	}
	return nil
}
