// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Sheet   SheetConfig
	Roster  RosterConfig
	Storage StorageConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// SheetConfig sizes the fixed editing pool.
type SheetConfig struct {
	Rows int
}

// RosterConfig points at the padrón file maintained by the administrative
// staff. RefreshCron, when set, reloads the file on a cron schedule.
type RosterConfig struct {
	Path        string
	RefreshCron string
}

// StorageConfig locates the export archive directory.
type StorageConfig struct {
	ExportPath string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first; variables already set win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Sheet: SheetConfig{
			Rows: getEnvAsInt("SHEET_ROWS", 30),
		},
		Roster: RosterConfig{
			Path:        getEnv("ROSTER_PATH", ""),
			RefreshCron: getEnv("ROSTER_REFRESH_CRON", ""),
		},
		Storage: StorageConfig{
			ExportPath: getEnv("EXPORT_PATH", "./exports"),
		},
	}

	if cfg.Sheet.Rows <= 0 {
		return nil, errors.New("SHEET_ROWS must be positive")
	}
	if cfg.Roster.RefreshCron != "" && cfg.Roster.Path == "" {
		return nil, errors.New("ROSTER_REFRESH_CRON requires ROSTER_PATH")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
