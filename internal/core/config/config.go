// Package config handles configuration loading and validation for ticked.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/ticked/internal/core/styles"
	"github.com/hay-kot/ticked/internal/core/validate"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Backends lists every supported storage backend.
var Backends = []string{BackendSQLite, BackendFile, BackendMemory}

// DefaultFileName is the JSON document used by the file backend when
// storage.path is unset.
const DefaultFileName = "todos.json"

// Config holds the application configuration.
type Config struct {
	List          string              `yaml:"list"`
	Storage       StorageConfig       `yaml:"storage"`
	Database      DatabaseConfig      `yaml:"database"`
	Notifications NotificationsConfig `yaml:"notifications"`
	TUI           TUIConfig           `yaml:"tui"`
	DataDir       string              `yaml:"-"` // set by caller, not from config file
}

// StorageConfig selects where the task list lives.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"` // file backend only
}

// DatabaseConfig tunes the SQLite connection pool.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// NotificationsConfig controls toasts and their history.
type NotificationsConfig struct {
	Persist  *bool         `yaml:"persist"`
	ToastTTL time.Duration `yaml:"toast_ttl"`
}

// TUIConfig holds terminal UI preferences.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	persist := true
	return Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
		Notifications: NotificationsConfig{
			Persist:  &persist,
			ToastTTL: 5 * time.Second,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
	}
}

// Load reads configuration from configPath and sets the data directory.
// A missing or empty path yields defaults.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.Notifications.Persist == nil {
		c.Notifications.Persist = defaults.Notifications.Persist
	}
	if c.Notifications.ToastTTL == 0 {
		c.Notifications.ToastTTL = defaults.Notifications.ToastTTL
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	switch c.Storage.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("storage.backend %q must be one of %v", c.Storage.Backend, Backends)
	}

	if err := validate.ListName(c.List); err != nil {
		return fmt.Errorf("list: %w", err)
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}
	if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns must be between 0 and max_open_conns")
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout cannot be negative")
	}

	if c.Notifications.ToastTTL < 0 {
		return fmt.Errorf("notifications.toast_ttl cannot be negative")
	}

	if !styles.IsTheme(c.TUI.Theme) {
		return fmt.Errorf("tui.theme %q must be one of %v", c.TUI.Theme, styles.ThemeNames())
	}

	return nil
}

// StoragePath returns the JSON document used by the file backend.
func (c *Config) StoragePath() string {
	if c.Storage.Path == "" {
		return filepath.Join(c.DataDir, DefaultFileName)
	}
	if filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(c.DataDir, c.Storage.Path)
}

// PersistNotifications reports whether notification history is recorded.
func (c *Config) PersistNotifications() bool {
	return c.Notifications.Persist == nil || *c.Notifications.Persist
}
