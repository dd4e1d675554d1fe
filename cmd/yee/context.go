package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"yee/internal/config"
	"yee/internal/failures"
	"yee/internal/history"
	"yee/internal/logging"
	"yee/internal/organizer"
)

// overrideFlags holds persistent flag values. Only flags the user actually
// set are applied on top of the loaded configuration.
type overrideFlags struct {
	source          string
	destination     string
	pattern         string
	dryRun          bool
	trackDuplicates bool
	renameStyle     string
	groupStyle      string
	workers         int
	logLevel        string
	logFormat       string
}

type commandContext struct {
	configFlag *string
	flags      *overrideFlags

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, flags *overrideFlags) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		flags:      flags,
	}
}

func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = failures.Wrap(failures.ErrConfiguration, "", "load config", resolved, err)
			return
		}
		if err := c.applyOverrides(cmd, cfg); err != nil {
			c.configErr = failures.Wrap(failures.ErrConfiguration, "", "apply flags", "", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) applyOverrides(cmd *cobra.Command, cfg *config.Config) error {
	if c.flags == nil || cmd == nil {
		return nil
	}
	changed := func(name string) bool {
		flag := cmd.Flags().Lookup(name)
		return flag != nil && flag.Changed
	}

	f := c.flags
	if changed("source") {
		cfg.Paths.SourceDir = f.source
	}
	if changed("destination") {
		cfg.Paths.DestinationDir = f.destination
	}
	if changed("pattern") {
		cfg.Organize.QueryPattern = f.pattern
	}
	if changed("dry-run") {
		cfg.Organize.DryRun = f.dryRun
	}
	if changed("track-duplicates") {
		cfg.Organize.TrackDuplicates = f.trackDuplicates
	}
	if changed("rename-style") {
		cfg.Organize.RenameStyle = f.renameStyle
	}
	if changed("group-style") {
		cfg.Organize.GroupStyle = f.groupStyle
	}
	if changed("workers") {
		if f.workers < 0 {
			return fmt.Errorf("--workers must not be negative")
		}
		cfg.Organize.Workers = f.workers
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if changed("log-format") {
		format := strings.ToLower(strings.TrimSpace(f.logFormat))
		if format != "console" && format != "json" {
			return fmt.Errorf("--log-format: unsupported value %q", f.logFormat)
		}
		cfg.Logging.Format = format
	}

	if err := cfg.Normalize(); err != nil {
		return err
	}
	return cfg.Validate()
}

func (c *commandContext) ensureLogger(cmd *cobra.Command) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig(cmd)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// newOrganizer builds an organizer, opening the history journal for real runs
// when it is enabled. The returned cleanup closes the journal.
func (c *commandContext) newOrganizer(cmd *cobra.Command, withJournal bool) (*organizer.Organizer, func(), error) {
	cfg, err := c.ensureConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger(cmd)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	if !withJournal || !cfg.History.Enabled || cfg.Organize.DryRun {
		return organizer.New(cfg, logger, nil), cleanup, nil
	}

	store, err := history.Open(cfg.Paths.HistoryPath)
	if err != nil {
		logging.WarnWithContext(logger, "history journal unavailable", "history_open_failed",
			logging.String("path", cfg.Paths.HistoryPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check history_path or set history.enabled = false"),
			logging.String(logging.FieldImpact, "run not recorded in history"),
		)
		return organizer.New(cfg, logger, nil), cleanup, nil
	}
	logger.Debug("history journal opened", logging.String("path", store.Path()))
	return organizer.New(cfg, logger, store), func() { _ = store.Close() }, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
