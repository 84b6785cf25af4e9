package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep runs Validate and then checks the filesystem: the config
// file, the data directory and the file backend path. An empty configPath
// skips the config file check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		c.validateStoragePath(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Storage.Path != "" && c.Storage.Backend != BackendFile {
		warnings = append(warnings, ValidationWarning{
			Category: "Storage",
			Item:     "storage.path",
			Message:  fmt.Sprintf("ignored by the %s backend", c.Storage.Backend),
		})
	}

	if !c.PersistNotifications() {
		return warnings
	}
	if c.Storage.Backend != BackendSQLite {
		warnings = append(warnings, ValidationWarning{
			Category: "Notifications",
			Item:     "notifications.persist",
			Message:  "history is only recorded by the sqlite backend",
		})
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func (c *Config) validateStoragePath() error {
	if c.Storage.Backend != BackendFile {
		return nil
	}

	var errs criterio.FieldErrorsBuilder
	path := c.StoragePath()

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		if err := isDirectoryOrNotExist(filepath.Dir(path)); err != nil {
			errs = errs.Append("storage.path", fmt.Errorf("parent directory: %w", err))
		}
	case err != nil:
		errs = errs.Append("storage.path", fmt.Errorf("cannot access: %w", err))
	case info.IsDir():
		errs = errs.Append("storage.path", fmt.Errorf("%s is a directory, not a file", path))
	}

	return errs.ToError()
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
