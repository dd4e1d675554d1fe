package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"yee/internal/naming"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the source, destination and bookkeeping locations.
type Paths struct {
	SourceDir      string `toml:"source_dir"`
	DestinationDir string `toml:"destination_dir"`
	DuplicatesDir  string `toml:"duplicates_dir"`
	LogDir         string `toml:"log_dir"`
	HistoryPath    string `toml:"history_path"`
}

// Organize contains the planning knobs: which files match and how they are
// grouped, renamed and classified.
type Organize struct {
	QueryPattern    string `toml:"query_pattern"`
	DryRun          bool   `toml:"dry_run"`
	TrackDuplicates bool   `toml:"track_duplicates"`
	RenameStyle     string `toml:"rename_style"`
	GroupStyle      string `toml:"group_style"`
	HashLength      int    `toml:"hash_length"`
	CounterWidth    int    `toml:"counter_width"`
	Workers         int    `toml:"workers"`
}

// History controls the SQLite run journal.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for yee.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Organize Organize `toml:"organize"`
	History  History  `toml:"history"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/yee/config.toml")
}

// Load reads the configuration at path, or searches the default locations
// when path is empty. A missing file is not an error: defaults are used and
// the reported exists flag is false. The returned config is normalized and
// validated.
func Load(path string) (*Config, string, bool, error) {
	located, exists, err := locate(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		if err := decodeFile(located, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, located, exists, nil
}

// decodeFile strictly decodes TOML: unknown keys are reported rather than
// silently ignored so typos in option names surface.
func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// locate resolves an explicit path, or falls back to the user config and then
// ./yee.toml. When nothing exists the user config path is reported.
func locate(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		exists, err := isFile(expanded)
		return expanded, exists, err
	}

	userPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(ProjectConfigName)
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, projectPath} {
		if ok, _ := isFile(candidate); ok {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat config: %w", err)
	}
	return !info.IsDir(), nil
}

// DuplicatesRoot returns the directory duplicates are routed into.
func (c *Config) DuplicatesRoot() string {
	if dir := strings.TrimSpace(c.Paths.DuplicatesDir); dir != "" {
		return dir
	}
	return filepath.Join(c.Paths.DestinationDir, DuplicatesDirName)
}

// Workers returns the fingerprint worker count, resolving 0 to the CPU count.
func (c *Config) Workers() int {
	if c.Organize.Workers > 0 {
		return c.Organize.Workers
	}
	return runtime.NumCPU()
}

// RenameStyle returns the parsed rename style. Validate guarantees it parses.
func (c *Config) RenameStyle() naming.RenameStyle {
	style, err := naming.ParseRenameStyle(c.Organize.RenameStyle)
	if err != nil {
		return naming.RenameShortHash
	}
	return style
}

// GroupStyle returns the parsed group style. Validate guarantees it parses.
func (c *Config) GroupStyle() naming.GroupStyle {
	style, err := naming.ParseGroupStyle(c.Organize.GroupStyle)
	if err != nil {
		return naming.GroupShortHash
	}
	return style
}

// ExpandPath resolves a leading "~" to the home directory and returns a
// cleaned absolute path. Empty input stays empty.
func ExpandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, strings.TrimPrefix(value[1:], "/"))
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", value, err)
	}
	return abs, nil
}

// CreateSample writes the commented sample configuration to path, creating
// parent directories as needed.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
