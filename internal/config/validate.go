package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"yee/internal/naming"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOrganize(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		return errors.New("paths.source_dir must be set")
	}
	if strings.TrimSpace(c.Paths.DestinationDir) == "" {
		return errors.New("paths.destination_dir must be set")
	}
	if filepath.Clean(c.Paths.SourceDir) == filepath.Clean(c.Paths.DestinationDir) {
		return errors.New("paths.destination_dir must differ from paths.source_dir")
	}
	if filepath.Clean(c.DuplicatesRoot()) == filepath.Clean(c.Paths.DestinationDir) {
		return errors.New("paths.duplicates_dir must differ from paths.destination_dir")
	}
	if c.History.Enabled && strings.TrimSpace(c.Paths.HistoryPath) == "" {
		return errors.New("paths.history_path must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateOrganize() error {
	if !doublestar.ValidatePattern(c.Organize.QueryPattern) {
		return fmt.Errorf("organize.query_pattern: invalid glob %q", c.Organize.QueryPattern)
	}
	if _, err := naming.ParseRenameStyle(c.Organize.RenameStyle); err != nil {
		return fmt.Errorf("organize.rename_style: %w", err)
	}
	if _, err := naming.ParseGroupStyle(c.Organize.GroupStyle); err != nil {
		return fmt.Errorf("organize.group_style: %w", err)
	}
	if c.Organize.HashLength < minHashLength || c.Organize.HashLength > maxHashLength {
		return fmt.Errorf("organize.hash_length must be between %d and %d", minHashLength, maxHashLength)
	}
	if c.Organize.CounterWidth < minCounterWidth || c.Organize.CounterWidth > maxCounterWidth {
		return fmt.Errorf("organize.counter_width must be between %d and %d", minCounterWidth, maxCounterWidth)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
