package planner

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"yee/internal/failures"
	"yee/internal/fingerprint"
	"yee/internal/logging"
	"yee/internal/naming"
	"yee/internal/registry"
	"yee/internal/scan"
	"yee/internal/sidecar"
)

// Options controls how a plan is built.
type Options struct {
	RenameStyle     naming.RenameStyle
	GroupStyle      naming.GroupStyle
	Naming          naming.Options
	TrackDuplicates bool
	DestinationRoot string
	DuplicatesRoot  string
	Workers         int
	RunID           string
}

// Action is one planned move.
type Action struct {
	Seq         int
	Source      string
	Destination string
	Kind        registry.Kind
	Group       naming.GroupKey
	Name        string
	Fingerprint fingerprint.Fingerprint
	// DuplicateOf is the source path of the original; empty for originals.
	DuplicateOf string
	Size        int64
	ModTime     time.Time
}

// IsDuplicate reports whether the action routes a duplicate.
func (a Action) IsDuplicate() bool { return a.Kind == registry.Duplicate }

// Plan is the ordered outcome of Build.
type Plan struct {
	RunID    string
	Actions  []Action
	Failures []failures.FileFailure
}

// Originals counts original actions.
func (p *Plan) Originals() int {
	n := 0
	for _, a := range p.Actions {
		if !a.IsDuplicate() {
			n++
		}
	}
	return n
}

// Duplicates counts duplicate actions.
func (p *Plan) Duplicates() int {
	return len(p.Actions) - p.Originals()
}

// RecordFor builds the sidecar record describing action.
func RecordFor(runID string, a Action) sidecar.Record {
	return sidecar.Record{
		Version:         sidecar.Version,
		RunID:           runID,
		OriginalPath:    a.Source,
		SizeBytes:       a.Size,
		ModifiedAt:      a.ModTime,
		Fingerprint:     a.Fingerprint.Hex(),
		Algorithm:       fingerprint.Algorithm,
		Group:           a.Group.String(),
		DestinationName: filepath.Base(a.Destination),
		DestinationPath: a.Destination,
	}
}

// Planner builds plans. A Planner carries no state between Build calls; the
// registry, grouper, rename counter and collision resolver are created per
// build.
type Planner struct {
	opts   Options
	logger *slog.Logger
}

// New constructs a Planner.
func New(opts Options, logger *slog.Logger) *Planner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Planner{opts: opts, logger: logging.NewComponentLogger(logger, "planner")}
}

type hashResult struct {
	fp  fingerprint.Fingerprint
	err error
}

// Build fingerprints, classifies, groups and names files. files must already
// be in scan order. Per-file fingerprint failures are recorded in
// Plan.Failures; only context cancellation aborts the build.
func (p *Planner) Build(ctx context.Context, files []scan.File) (*Plan, error) {
	results, err := p.fingerprintAll(logging.WithStage(ctx, failures.StageFingerprint), files)
	if err != nil {
		return nil, err
	}

	ctx = logging.WithStage(ctx, failures.StagePlan)
	logger := logging.WithContext(ctx, p.logger)

	reg := registry.New()
	grouper := naming.NewGrouper(p.opts.GroupStyle, p.opts.Naming)
	resolver := naming.NewCollisionResolver()
	groupOf := make(map[string]naming.GroupKey)

	plan := &Plan{RunID: p.opts.RunID, Actions: make([]Action, 0, len(files))}
	counter := 0

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := results[i]
		if res.err != nil {
			plan.Failures = append(plan.Failures, failures.FileFailure{
				Path:  file.Path,
				Stage: failures.StageFingerprint,
				Err:   failures.Wrap(failures.ErrFile, failures.StageFingerprint, "hash", file.Path, res.err),
			})
			logging.WarnWithContext(logger, "fingerprint failed", "fingerprint_failed",
				logging.String("path", file.Path),
				logging.Error(res.err),
				logging.String(logging.FieldErrorHint, "check the file is readable"),
			)
			continue
		}

		class := registry.Classification{Kind: registry.Original, OriginalPath: file.Path}
		if p.opts.TrackDuplicates {
			class = reg.Classify(res.fp, file.Path)
		}

		var group naming.GroupKey
		root := p.opts.DestinationRoot
		if class.Kind == registry.Duplicate {
			group = groupOf[class.OriginalPath]
			root = p.opts.DuplicatesRoot
		} else {
			group = grouper.GroupFor(file.Subdir)
			groupOf[file.Path] = group
		}

		counter++
		name := naming.Rename(p.opts.RenameStyle, file.Name, res.fp, counter, p.opts.Naming)
		requested := filepath.Join(root, group.String(), name)
		destination, collided := resolver.Resolve(file.Path, requested)
		if collided {
			logging.WarnWithContext(logger, "destination name collision resolved", "naming_collision",
				logging.String("path", file.Path),
				logging.String("requested", requested),
				logging.String("resolved", destination),
				logging.Error(failures.Wrap(failures.ErrNamingCollision, failures.StagePlan, "rename", requested, nil)),
				logging.String(logging.FieldErrorHint, "pick a rename style that keeps names distinct"),
				logging.String(logging.FieldImpact, "file renamed with numeric suffix"),
			)
		}

		action := Action{
			Seq:         len(plan.Actions) + 1,
			Source:      file.Path,
			Destination: destination,
			Kind:        class.Kind,
			Group:       group,
			Name:        filepath.Base(destination),
			Fingerprint: res.fp,
			Size:        file.Size,
			ModTime:     file.ModTime,
		}
		if class.Kind == registry.Duplicate {
			action.DuplicateOf = class.OriginalPath
		}
		plan.Actions = append(plan.Actions, action)

		logging.Trace(ctx, logger, "file classified",
			logging.String("path", file.RelPath),
			logging.String("kind", class.Kind.String()),
			logging.String("fingerprint", res.fp.Short(12)),
			logging.String("group", group.String()),
			logging.String("destination", destination),
		)
	}

	logger.Info("plan built",
		logging.Int("actions", len(plan.Actions)),
		logging.Int("originals", plan.Originals()),
		logging.Int("duplicates", plan.Duplicates()),
		logging.Int("failures", len(plan.Failures)),
		logging.Int("groups", len(grouper.Assigned())),
		logging.Int("distinct_fingerprints", reg.Len()),
		logging.Int("destinations", resolver.Claimed()),
	)
	return plan, nil
}

func (p *Planner) fingerprintAll(ctx context.Context, files []scan.File) ([]hashResult, error) {
	results := make([]hashResult, len(files))
	if len(files) == 0 {
		return results, nil
	}

	workers := min(p.opts.Workers, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				fp, err := fingerprint.File(files[idx].Path)
				results[idx] = hashResult{fp: fp, err: err}
			}
		}()
	}

	started := time.Now()
	var cancelled error
dispatch:
	for i := range files {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	logging.WithContext(ctx, p.logger).Debug("fingerprinting complete",
		logging.Int("files", len(files)),
		logging.Int("workers", workers),
		logging.Duration("elapsed", time.Since(started)),
	)
	return results, nil
}
