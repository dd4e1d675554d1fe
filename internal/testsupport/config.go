package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"yee/internal/config"
)

// ConfigOption adjusts the generated test configuration before it is
// normalized.
type ConfigOption func(*config.Config)

// NewConfig returns a validated config rooted in a fresh temp directory:
// base/src (created), base/out and base/state/history.db (left for the code
// under test to create). Fingerprinting uses two workers.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SourceDir = filepath.Join(base, "src")
	cfg.Paths.DestinationDir = filepath.Join(base, "out")
	cfg.Paths.HistoryPath = filepath.Join(base, "state", "history.db")
	cfg.Organize.Workers = 2
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := os.MkdirAll(cfg.Paths.SourceDir, 0o755); err != nil {
		t.Fatalf("create source dir: %v", err)
	}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return &cfg
}

// WithPattern sets the query pattern.
func WithPattern(pattern string) ConfigOption {
	return func(c *config.Config) {
		c.Organize.QueryPattern = pattern
	}
}

// WithStyles sets the rename and group style names.
func WithStyles(rename, group string) ConfigOption {
	return func(c *config.Config) {
		c.Organize.RenameStyle = rename
		c.Organize.GroupStyle = group
	}
}

// WithDryRun toggles dry-run mode.
func WithDryRun(dryRun bool) ConfigOption {
	return func(c *config.Config) {
		c.Organize.DryRun = dryRun
	}
}

// WithTrackDuplicates toggles duplicate tracking.
func WithTrackDuplicates(track bool) ConfigOption {
	return func(c *config.Config) {
		c.Organize.TrackDuplicates = track
	}
}

// WithNestedDestination places the destination root inside the source tree,
// matching the default "." / "./out" layout.
func WithNestedDestination() ConfigOption {
	return func(c *config.Config) {
		c.Paths.DestinationDir = filepath.Join(c.Paths.SourceDir, "out")
	}
}
