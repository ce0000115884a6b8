// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Snapshot store backends
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the nodeflow server
type Config struct {
	Server   ServerConfig
	Snapshot SnapshotConfig
}

type ServerConfig struct {
	Addr           string
	RequestTimeout time.Duration
}

type SnapshotConfig struct {
	Backend     string // memory, sqlite, postgres
	SQLitePath  string
	PostgresDSN string
	MaxMemoryMB int64
	TTL         time.Duration
}

// Load reads configuration from environment variables, consulting a .env
// file when present.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Addr:           getEnvWithDefault("NODEFLOW_ADDR", ":8080"),
			RequestTimeout: getEnvAsDuration("NODEFLOW_REQUEST_TIMEOUT", 30*time.Second),
		},
		Snapshot: SnapshotConfig{
			Backend:     getEnvWithDefault("NODEFLOW_SNAPSHOT_BACKEND", BackendMemory),
			SQLitePath:  getEnvWithDefault("NODEFLOW_SQLITE_PATH", "nodeflow.db"),
			PostgresDSN: getEnvWithDefault("NODEFLOW_POSTGRES_DSN", ""),
			MaxMemoryMB: int64(getEnvAsInt("NODEFLOW_SNAPSHOT_MAX_MEMORY_MB", 256)),
			TTL:         getEnvAsDuration("NODEFLOW_SNAPSHOT_TTL", 24*time.Hour),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Snapshot.Backend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if c.Snapshot.PostgresDSN == "" {
			return fmt.Errorf("NODEFLOW_POSTGRES_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown snapshot backend %q", c.Snapshot.Backend)
	}
	return nil
}

func getEnvWithDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
