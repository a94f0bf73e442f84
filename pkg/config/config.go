// Package config provides configuration management for the converter.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Datev DatevConfig
	Debug bool
}

// DatevConfig represents the DATEV output configuration.
type DatevConfig struct {
	// OutputDir is the directory the generated batch files are written to.
	OutputDir string
	// SKRNumber selects the chart of accounts declared in batch headers.
	SKRNumber string
	// Currency is the ISO currency code declared in batch headers.
	Currency string
	// AuthorInitials are stamped into each batch header.
	AuthorInitials string
	// HistoryDBPath is the SQLite file recording generated batches.
	HistoryDBPath string
	// PresetsFile is an optional YAML file with conversion presets.
	PresetsFile string
}

// Load loads configuration from environment variables.
// It automatically loads a .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	config := &Config{
		Datev: DatevConfig{
			OutputDir:      os.Getenv("DATEV_OUTPUT_DIR"),
			SKRNumber:      getEnvOrDefault("DATEV_SKR_NUMBER", "04"),
			Currency:       getEnvOrDefault("DATEV_CURRENCY", "EUR"),
			AuthorInitials: os.Getenv("DATEV_AUTHOR_INITIALS"),
			HistoryDBPath:  getEnvOrDefault("DATEV_HISTORY_DB", ".gnucash-datev/history.db"),
			PresetsFile:    os.Getenv("DATEV_PRESETS_FILE"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
