package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"yee/internal/config"
	"yee/internal/failures"
	"yee/internal/organizer"
	"yee/internal/planner"
)

func renderPlan(cfg *config.Config, plan *planner.Plan) string {
	if plan == nil || len(plan.Actions) == 0 {
		return "No matching files.\n"
	}
	rows := make([][]string, 0, len(plan.Actions))
	for _, action := range plan.Actions {
		rows = append(rows, []string{
			strconv.Itoa(action.Seq),
			action.Kind.String(),
			relativeTo(cfg.Paths.SourceDir, action.Source),
			humanize.Bytes(uint64(max(action.Size, 0))),
			action.Group.String(),
			relativeTo(filepath.Dir(cfg.Paths.DestinationDir), action.Destination),
		})
	}
	return renderTable(
		[]string{"#", "Kind", "Source", "Size", "Group", "Destination"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	) + "\n"
}

func renderPlanSummary(summary organizer.Summary, colorize bool) string {
	lines := []string{
		renderStatusLine("Run", statusInfo, summary.RunID, colorize),
		renderStatusLine("Originals", statusInfo, strconv.Itoa(summary.Originals), colorize),
		renderStatusLine("Duplicates", statusInfo, strconv.Itoa(summary.Duplicates), colorize),
		renderStatusLine("Planned size", statusInfo, humanize.Bytes(plannedBytes(summary.Plan)), colorize),
	}
	lines = append(lines, renderFailureLines(summary.Failures, colorize)...)
	return strings.Join(lines, "\n")
}

func renderRunSummary(summary organizer.Summary, colorize bool) string {
	lines := renderSectionHeader("Run summary", colorize)
	lines = append(lines,
		renderStatusLine("Run", statusInfo, summary.RunID, colorize),
		renderStatusLine("Dry run", statusInfo, yesNo(summary.DryRun), colorize),
		renderStatusLine("Originals", statusInfo, strconv.Itoa(summary.Originals), colorize),
		renderStatusLine("Duplicates", statusInfo, strconv.Itoa(summary.Duplicates), colorize),
	)
	if summary.DryRun {
		lines = append(lines, renderStatusLine("Would move", statusInfo, strconv.Itoa(summary.Report.WouldMove), colorize))
	} else {
		lines = append(lines,
			renderStatusLine("Moved", statusOK, strconv.Itoa(summary.Report.Moved), colorize),
			renderStatusLine("Sidecars", statusOK, strconv.Itoa(summary.Sidecars), colorize),
		)
	}
	lines = append(lines, renderFailureLines(summary.Failures, colorize)...)
	return strings.Join(lines, "\n")
}

func renderFailureLines(list []failures.FileFailure, colorize bool) []string {
	if len(list) == 0 {
		return []string{renderStatusLine("Failed", statusOK, "0", colorize)}
	}
	lines := []string{renderStatusLine("Failed", statusError, strconv.Itoa(len(list)), colorize)}
	for _, failure := range list {
		lines = append(lines, fmt.Sprintf("%s  - %s [%s]: %s", statusIndent, failure.Path, failure.Stage, failure.Reason()))
	}
	return lines
}

func plannedBytes(plan *planner.Plan) uint64 {
	if plan == nil {
		return 0
	}
	var total uint64
	for _, action := range plan.Actions {
		if action.Size > 0 {
			total += uint64(action.Size)
		}
	}
	return total
}

func relativeTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
