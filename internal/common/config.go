package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	OCR      OCRConfig
	Pipeline PipelineConfig
	Export   ExportConfig
}

// DatabaseConfig holds run-store configuration. An empty DSN disables
// persistence.
type DatabaseConfig struct {
	DSN string
}

// OCRConfig holds OCR-related configuration.
type OCRConfig struct {
	Language string
	DPI      int
}

// PipelineConfig holds the extraction heuristics. The thresholds are
// historical constants kept configurable on purpose: nothing says they
// should not scale with currency or document size.
type PipelineConfig struct {
	MinCharThreshold int           // digital text below this falls through to OCR
	MaxLineMerge     int           // merge window bound for the tokenizer
	PriceTolerance   float64       // absolute mismatch tolerance
	Workers          int           // concurrent documents in a batch
	DocumentTimeout  time.Duration // per-document processing cap
}

// ExportConfig holds output defaults for the batch command.
type ExportConfig struct {
	OutputDir string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN: getEnv("DB_URL", ""),
		},
		OCR: OCRConfig{
			Language: getEnv("OCR_LANG", "eng"),
			DPI:      getEnvAsInt("OCR_DPI", 300),
		},
		Pipeline: PipelineConfig{
			MinCharThreshold: getEnvAsInt("MIN_CHAR_THRESHOLD", 100),
			MaxLineMerge:     getEnvAsInt("MAX_LINE_MERGE", 6),
			PriceTolerance:   getEnvAsFloat64("PRICE_TOLERANCE", 0.01),
			Workers:          getEnvAsInt("WORKERS", 4),
			DocumentTimeout:  getEnvAsDuration("DOCUMENT_TIMEOUT", 3*time.Minute),
		},
		Export: ExportConfig{
			OutputDir: getEnv("OUTPUT_DIR", "outputs"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration.
func (c *Config) Validate() error {
	if c.Pipeline.MinCharThreshold < 0 {
		return NewAppError("CONFIG_ERROR", "MIN_CHAR_THRESHOLD must be >= 0", ErrInvalidInput)
	}
	if c.Pipeline.MaxLineMerge < 1 {
		return NewAppError("CONFIG_ERROR", "MAX_LINE_MERGE must be >= 1", ErrInvalidInput)
	}
	if c.Pipeline.PriceTolerance < 0 {
		return NewAppError("CONFIG_ERROR", "PRICE_TOLERANCE must be >= 0", ErrInvalidInput)
	}
	if c.Export.OutputDir == "" {
		return NewAppError("CONFIG_ERROR", "OUTPUT_DIR is required", ErrInvalidInput)
	}
	return nil
}
