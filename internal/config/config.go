// Package config loads process configuration from the environment.
//
// Loads from .env file (godotenv), maps to Config struct via go-simpler/env struct tags,
// expands ~ in the data directory and validates the storage backend.
package config

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"go-simpler.org/env"
)

// Storage backends for the blob store.
const (
	BackendSQLite = "sqlite"
	BackendDisk   = "disk"
	BackendMemory = "memory"
)

type Config struct {
	DataDir   string `env:"FOCUSLOCK_DATA_DIR" default:"~/.config/focuslock"`
	Backend   string `env:"FOCUSLOCK_BACKEND" default:"sqlite"`
	LogLevel  string `env:"FOCUSLOCK_LOG_LEVEL" default:"info"`
	LogFormat string `env:"FOCUSLOCK_LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	dir, err := homedir.Expand(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("expand FOCUSLOCK_DATA_DIR: %w", err)
	}
	cfg.DataDir = filepath.Clean(dir)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Backend {
	case BackendSQLite, BackendDisk, BackendMemory:
	default:
		return fmt.Errorf("FOCUSLOCK_BACKEND must be one of sqlite, disk, memory; got %q", cfg.Backend)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("FOCUSLOCK_LOG_FORMAT must be text or json; got %q", cfg.LogFormat)
	}
	if cfg.DataDir == "" || cfg.DataDir == "." {
		return fmt.Errorf("FOCUSLOCK_DATA_DIR is required")
	}
	return nil
}

// BlobDir is where the disk backend keeps one file per key.
func (c *Config) BlobDir() string {
	return filepath.Join(c.DataDir, "blobs")
}

// LogPath is the log file used while the TUI owns the terminal.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "focuslock.log")
}
