package preflight

import (
	"errors"
	"strings"

	"yee/internal/config"
	"yee/internal/failures"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check that applies to cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckReadableDirectory("Source directory", cfg.Paths.SourceDir),
		CheckCreatableDirectory("Destination directory", cfg.Paths.DestinationDir),
	}
	if cfg.Organize.TrackDuplicates {
		results = append(results, CheckCreatableDirectory("Duplicates directory", cfg.DuplicatesRoot()))
	}
	if cfg.History.Enabled {
		results = append(results, CheckCreatableFile("History journal", cfg.Paths.HistoryPath))
	}
	return results
}

// Check runs every check and returns a fatal error naming the failures.
func Check(cfg *config.Config) error {
	if cfg == nil {
		return failures.Wrap(failures.ErrConfiguration, failures.StagePreflight, "check", "config is nil", nil)
	}
	var failed []string
	for _, result := range RunAll(cfg) {
		if !result.Passed {
			failed = append(failed, result.Name+": "+result.Detail)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return failures.Wrap(failures.ErrFatal, failures.StagePreflight, "check", strings.Join(failed, "; "), errors.New("preflight failed"))
}
