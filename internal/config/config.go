// ABOUTME: Daybook configuration: data directory and log mode.
// ABOUTME: Reads the JSON config file, then applies .env and environment overrides.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/harperreed/daybook/internal/storage"
)

// Environment variables that override the config file.
const (
	EnvDataDir = "DAYBOOK_DATA_DIR"
	EnvLogMode = "DAYBOOK_LOG_MODE"
)

// Config stores daybook configuration.
type Config struct {
	// DataDir is the directory holding daybook.db.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/daybook.
	DataDir string `json:"data_dir,omitempty"`

	// LogMode selects the logger: "dev" (default), "debug" or "prod".
	LogMode string `json:"log_mode,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogMode returns the configured log mode, defaulting to "dev".
func (c *Config) GetLogMode() string {
	if c.LogMode == "" {
		return "dev"
	}
	return c.LogMode
}

// DBPath returns the database file inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "daybook.db")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite database. A non-empty dbPath overrides the
// configured location.
func (c *Config) OpenStorage(dbPath string) (*storage.DB, error) {
	if dbPath == "" {
		dbPath = c.DBPath()
	}
	db, err := storage.Open(ExpandPath(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "daybook", "config.json")
}

// LoadEnv loads variables from a .env file in the working directory.
// Variables already set in the environment win. A missing file is ignored.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadFile reads the config file without environment overrides, for editing
// and saving back.
func LoadFile() (*Config, error) {
	return loadFile(GetConfigPath())
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvLogMode); v != "" {
		c.LogMode = v
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
