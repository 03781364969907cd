package config

import (
	"os"
	"strconv"

	"github.com/a7med3yad/DataProject/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server       ServerConfig
	Upload       UploadConfig
	Segmentation SegmentationConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// UploadConfig holds dataset upload limits
type UploadConfig struct {
	MaxFileBytes int64
}

// SegmentationConfig holds k-means tuning knobs
type SegmentationConfig struct {
	Restarts      int
	MaxIterations int
	Seed          int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("SERVER_PORT", "8080"),
		},
		Upload: UploadConfig{
			MaxFileBytes: getEnvInt64OrDefault("UPLOAD_MAX_BYTES", 50*1024*1024),
		},
		Segmentation: SegmentationConfig{
			Restarts:      getEnvIntOrDefault("KMEANS_RESTARTS", 10),
			MaxIterations: getEnvIntOrDefault("KMEANS_MAX_ITERATIONS", 100),
			Seed:          getEnvInt64OrDefault("KMEANS_SEED", 42),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("SERVER_PORT must not be empty")
	}
	if config.Upload.MaxFileBytes <= 0 {
		return errors.ConfigInvalid("UPLOAD_MAX_BYTES must be positive")
	}
	if config.Segmentation.Restarts < 1 {
		return errors.ConfigInvalid("KMEANS_RESTARTS must be at least 1")
	}
	if config.Segmentation.MaxIterations < 1 {
		return errors.ConfigInvalid("KMEANS_MAX_ITERATIONS must be at least 1")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
