package organizer

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"yee/internal/config"
	"yee/internal/executor"
	"yee/internal/failures"
	"yee/internal/history"
	"yee/internal/logging"
	"yee/internal/naming"
	"yee/internal/planner"
	"yee/internal/preflight"
	"yee/internal/scan"
	"yee/internal/sidecar"
)

// Journal records completed runs.
type Journal interface {
	RecordRun(ctx context.Context, run history.Run) error
}

// Summary describes the outcome of Plan or Run.
type Summary struct {
	RunID      string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Plan       *planner.Plan
	Report     executor.Report
	Sidecars   int
	Originals  int
	Duplicates int
	Failures   []failures.FileFailure
}

// Organizer wires scanning, planning, sidecars, execution and the journal.
type Organizer struct {
	cfg      *config.Config
	base     *slog.Logger
	logger   *slog.Logger
	journal  Journal
	sidecars *sidecar.Writer
	executor *executor.Executor
	now      func() time.Time
	newRunID func() string
}

// New constructs an Organizer. journal may be nil to disable journaling.
func New(cfg *config.Config, logger *slog.Logger, journal Journal) *Organizer {
	return &Organizer{
		cfg:      cfg,
		base:     logger,
		logger:   logging.NewComponentLogger(logger, "organizer"),
		journal:  journal,
		sidecars: sidecar.NewWriter(logger),
		executor: executor.New(logger),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

// Plan scans and plans without touching the filesystem.
func (o *Organizer) Plan(ctx context.Context) (Summary, error) {
	summary, ctx, err := o.prepare(ctx)
	if err != nil {
		return summary, err
	}
	summary.DryRun = true
	summary.Failures = append(summary.Failures, summary.Plan.Failures...)
	summary.FinishedAt = o.now()
	logging.WithContext(ctx, o.logger).Info("plan ready",
		logging.Int("actions", len(summary.Plan.Actions)),
		logging.Int("failures", len(summary.Failures)),
	)
	return summary, nil
}

// Run executes a full pass. Only fatal errors are returned; per-file problems
// are collected in Summary.Failures.
func (o *Organizer) Run(ctx context.Context) (Summary, error) {
	summary, ctx, err := o.prepare(ctx)
	if err != nil {
		return summary, err
	}
	logger := logging.WithContext(ctx, o.logger)
	dryRun := o.cfg.Organize.DryRun
	summary.DryRun = dryRun
	summary.Failures = append(summary.Failures, summary.Plan.Failures...)

	actions := summary.Plan.Actions
	skipped := map[int]error{}
	if !dryRun {
		actions, skipped = o.writeSidecars(ctx, summary.Plan)
		summary.Sidecars = summary.Plan.Originals() - len(skipped)
		for _, action := range summary.Plan.Actions {
			if err, ok := skipped[action.Seq]; ok {
				summary.Failures = append(summary.Failures, failures.FileFailure{
					Path:  action.Source,
					Stage: failures.StageMetadata,
					Err:   err,
				})
			}
		}
	}

	summary.Report = o.executor.Execute(ctx, actions, dryRun)
	summary.Failures = append(summary.Failures, summary.Report.Failures...)
	summary.FinishedAt = o.now()

	if !dryRun && o.journal != nil {
		if err := o.journal.RecordRun(ctx, o.journalEntry(summary, skipped)); err != nil {
			logging.WarnWithContext(logger, "history journal write failed", "history_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check history_path is writable"),
				logging.String(logging.FieldImpact, "run not recorded in history"),
			)
		}
	}

	logger.Info("run finished",
		logging.Bool("dry_run", dryRun),
		logging.Int("originals", summary.Originals),
		logging.Int("duplicates", summary.Duplicates),
		logging.Int("moved", summary.Report.Moved),
		logging.Int("would_move", summary.Report.WouldMove),
		logging.Int("failed", len(summary.Failures)),
		logging.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	return summary, nil
}

func (o *Organizer) prepare(ctx context.Context) (Summary, context.Context, error) {
	summary := Summary{RunID: o.newRunID(), StartedAt: o.now()}
	ctx = logging.WithRunID(ctx, summary.RunID)

	if o.cfg == nil {
		return summary, ctx, failures.Wrap(failures.ErrConfiguration, failures.StagePreflight, "load config", "config is nil", nil)
	}
	if err := preflight.Check(o.cfg); err != nil {
		return summary, ctx, err
	}

	logger := logging.WithContext(ctx, o.logger)
	logger.Info("run starting",
		logging.String("source", o.cfg.Paths.SourceDir),
		logging.String("destination", o.cfg.Paths.DestinationDir),
		logging.String("pattern", o.cfg.Organize.QueryPattern),
		logging.String("rename_style", o.cfg.RenameStyle().String()),
		logging.String("group_style", o.cfg.GroupStyle().String()),
		logging.Bool("dry_run", o.cfg.Organize.DryRun),
		logging.Bool("track_duplicates", o.cfg.Organize.TrackDuplicates),
	)

	scanner := scan.New(scan.Options{
		Exclude: []string{o.cfg.Paths.DestinationDir, o.cfg.DuplicatesRoot()},
		Logger:  o.base,
	})
	files, err := scanner.Scan(logging.WithStage(ctx, failures.StageScan), o.cfg.Paths.SourceDir, o.cfg.Organize.QueryPattern)
	if err != nil {
		return summary, ctx, err
	}

	p := planner.New(planner.Options{
		RenameStyle: o.cfg.RenameStyle(),
		GroupStyle:  o.cfg.GroupStyle(),
		Naming: naming.Options{
			HashLength:   o.cfg.Organize.HashLength,
			CounterWidth: o.cfg.Organize.CounterWidth,
		},
		TrackDuplicates: o.cfg.Organize.TrackDuplicates,
		DestinationRoot: o.cfg.Paths.DestinationDir,
		DuplicatesRoot:  o.cfg.DuplicatesRoot(),
		Workers:         o.cfg.Workers(),
		RunID:           summary.RunID,
	}, o.base)
	plan, err := p.Build(ctx, files)
	if err != nil {
		return summary, ctx, failures.Wrap(failures.ErrFatal, failures.StagePlan, "build plan", "", err)
	}
	summary.Plan = plan
	summary.Originals = plan.Originals()
	summary.Duplicates = plan.Duplicates()
	return summary, ctx, nil
}

// writeSidecars writes one record per original and returns the actions that
// may proceed. Originals whose sidecar could not be written are held back.
func (o *Organizer) writeSidecars(ctx context.Context, plan *planner.Plan) ([]planner.Action, map[int]error) {
	ctx = logging.WithStage(ctx, failures.StageMetadata)
	logger := logging.WithContext(ctx, o.logger)

	skipped := map[int]error{}
	actions := make([]planner.Action, 0, len(plan.Actions))
	for _, action := range plan.Actions {
		if action.IsDuplicate() {
			actions = append(actions, action)
			continue
		}
		if _, err := o.sidecars.Write(ctx, planner.RecordFor(plan.RunID, action)); err != nil {
			logging.WarnWithContext(logger, "sidecar write failed", "sidecar_write_failed",
				logging.String("path", action.Source),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the source directory is writable"),
				logging.String(logging.FieldImpact, "file left in place"),
			)
			skipped[action.Seq] = err
			continue
		}
		actions = append(actions, action)
	}
	return actions, skipped
}

func (o *Organizer) journalEntry(summary Summary, skipped map[int]error) history.Run {
	results := make(map[int]executor.Result, len(summary.Report.Results))
	for _, result := range summary.Report.Results {
		results[result.Action.Seq] = result
	}

	run := history.Run{
		ID:              summary.RunID,
		StartedAt:       summary.StartedAt,
		FinishedAt:      summary.FinishedAt,
		SourceDir:       o.cfg.Paths.SourceDir,
		DestinationDir:  o.cfg.Paths.DestinationDir,
		DuplicatesDir:   o.cfg.DuplicatesRoot(),
		QueryPattern:    o.cfg.Organize.QueryPattern,
		RenameStyle:     o.cfg.RenameStyle().String(),
		GroupStyle:      o.cfg.GroupStyle().String(),
		TrackDuplicates: o.cfg.Organize.TrackDuplicates,
		Originals:       summary.Originals,
		Duplicates:      summary.Duplicates,
		Moved:           summary.Report.Moved,
		Failed:          len(summary.Failures),
		Actions:         make([]history.Action, 0, len(summary.Plan.Actions)),
	}
	for _, action := range summary.Plan.Actions {
		entry := history.Action{
			Seq:         action.Seq,
			Source:      action.Source,
			Destination: action.Destination,
			Kind:        action.Kind.String(),
			Group:       action.Group.String(),
			Fingerprint: action.Fingerprint.Hex(),
			DuplicateOf: action.DuplicateOf,
		}
		if err, ok := skipped[action.Seq]; ok {
			entry.Status = string(executor.StatusFailed)
			entry.Error = err.Error()
		} else if result, ok := results[action.Seq]; ok {
			entry.Status = string(result.Status)
			if result.Err != nil {
				entry.Error = result.Err.Error()
			}
		}
		run.Actions = append(run.Actions, entry)
	}
	return run
}
