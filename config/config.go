// Package config provides configuration for the mock LLM server.
package config

import (
	"os"
	"strconv"
)

// Config holds the mock server configuration.
type Config struct {
	// Server settings
	Host     string
	HTTPPort int

	// Trajectory to replay. Empty means serve default responses only.
	TrajectoryPath string

	// Replay log database. Empty disables served-response recording.
	DatabaseURL string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Host:           getEnv("HOST", "127.0.0.1"),
		HTTPPort:       getEnvInt("HTTP_PORT", 8765),
		TrajectoryPath: getEnv("TRAJECTORY_PATH", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
