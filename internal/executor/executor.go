// Package executor applies planned moves to the filesystem.
package executor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"yee/internal/failures"
	"yee/internal/fileutil"
	"yee/internal/logging"
	"yee/internal/planner"
)

// Status is the outcome of a single action.
type Status string

const (
	StatusMoved     Status = "moved"
	StatusWouldMove Status = "would-move"
	StatusFailed    Status = "failed"
)

// Result pairs an action with its outcome.
type Result struct {
	Action planner.Action
	Status Status
	Err    error
}

// Report summarizes an execution.
type Report struct {
	DryRun    bool
	Moved     int
	WouldMove int
	Failed    int
	Results   []Result
	Failures  []failures.FileFailure
}

func (r *Report) record(action planner.Action, status Status, err error) {
	r.Results = append(r.Results, Result{Action: action, Status: status, Err: err})
	switch status {
	case StatusMoved:
		r.Moved++
	case StatusWouldMove:
		r.WouldMove++
	case StatusFailed:
		r.Failed++
		r.Failures = append(r.Failures, failures.FileFailure{Path: action.Source, Stage: failures.StageMove, Err: err})
	}
}

// Executor performs moves sequentially.
type Executor struct {
	logger *slog.Logger
}

// New constructs an Executor.
func New(logger *slog.Logger) *Executor {
	return &Executor{logger: logging.NewComponentLogger(logger, "executor")}
}

// Execute applies actions in order. File-level failures are recorded and do
// not stop the run. After cancellation the remaining actions are reported as
// failed with the context error.
func (e *Executor) Execute(ctx context.Context, actions []planner.Action, dryRun bool) Report {
	ctx = logging.WithStage(ctx, failures.StageMove)
	logger := logging.WithContext(ctx, e.logger)

	report := Report{DryRun: dryRun, Results: make([]Result, 0, len(actions))}
	for _, action := range actions {
		if err := ctx.Err(); err != nil {
			report.record(action, StatusFailed, err)
			continue
		}

		if dryRun {
			logger.Info("would move",
				logging.String("source", action.Source),
				logging.String("destination", action.Destination),
				logging.String("kind", action.Kind.String()),
			)
			report.record(action, StatusWouldMove, nil)
			continue
		}

		if err := e.move(action); err != nil {
			logging.WarnWithContext(logger, "move failed", "move_failed",
				logging.String("source", action.Source),
				logging.String("destination", action.Destination),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check destination permissions and free space"),
			)
			report.record(action, StatusFailed, err)
			continue
		}
		logger.Debug("moved",
			logging.String("source", action.Source),
			logging.String("destination", action.Destination),
		)
		report.record(action, StatusMoved, nil)
	}

	logger.Info("execution finished",
		logging.Bool("dry_run", dryRun),
		logging.Int("moved", report.Moved),
		logging.Int("would_move", report.WouldMove),
		logging.Int("failed", report.Failed),
	)
	return report
}

func (e *Executor) move(action planner.Action) error {
	dir := filepath.Dir(action.Destination)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return failures.Wrap(failures.ErrFile, failures.StageMove, "create directory", dir, err)
	}
	if err := fileutil.MoveFile(action.Source, action.Destination); err != nil {
		if errors.Is(err, fileutil.ErrDestinationExists) {
			return failures.Wrap(failures.ErrFile, failures.StageMove, "refuse overwrite", action.Destination, err)
		}
		return failures.Wrap(failures.ErrFile, failures.StageMove, "move", action.Source, err)
	}
	return nil
}
