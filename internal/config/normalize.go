package config

import (
	"fmt"
	"strings"
)

// Normalize expands paths and canonicalizes enum-like values. It is safe to
// call again after flag overrides are applied.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOrganize()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		c.Paths.SourceDir = defaultSourceDir
	}
	if c.Paths.SourceDir, err = ExpandPath(strings.TrimSpace(c.Paths.SourceDir)); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DestinationDir) == "" {
		c.Paths.DestinationDir = defaultDestinationDir
	}
	if c.Paths.DestinationDir, err = ExpandPath(strings.TrimSpace(c.Paths.DestinationDir)); err != nil {
		return fmt.Errorf("paths.destination_dir: %w", err)
	}
	if c.Paths.DuplicatesDir, err = ExpandPath(strings.TrimSpace(c.Paths.DuplicatesDir)); err != nil {
		return fmt.Errorf("paths.duplicates_dir: %w", err)
	}
	if c.Paths.LogDir, err = ExpandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryPath) == "" {
		c.Paths.HistoryPath = defaultHistoryPath
	}
	if c.Paths.HistoryPath, err = ExpandPath(strings.TrimSpace(c.Paths.HistoryPath)); err != nil {
		return fmt.Errorf("paths.history_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeOrganize() {
	c.Organize.QueryPattern = strings.TrimSpace(c.Organize.QueryPattern)
	if c.Organize.QueryPattern == "" {
		c.Organize.QueryPattern = defaultQueryPattern
	}
	c.Organize.RenameStyle = strings.ToLower(strings.TrimSpace(c.Organize.RenameStyle))
	if c.Organize.RenameStyle == "" {
		c.Organize.RenameStyle = defaultRenameStyle
	}
	c.Organize.GroupStyle = strings.ToLower(strings.TrimSpace(c.Organize.GroupStyle))
	if c.Organize.GroupStyle == "" {
		c.Organize.GroupStyle = defaultGroupStyle
	}
	if c.Organize.HashLength == 0 {
		c.Organize.HashLength = defaultHashLength
	}
	if c.Organize.CounterWidth == 0 {
		c.Organize.CounterWidth = defaultCounterWidth
	}
	if c.Organize.Workers < 0 {
		c.Organize.Workers = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
