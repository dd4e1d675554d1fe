package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"yee/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, ctx, func(store *history.Store) error {
				runs, err := store.Runs(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded.")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.ID,
						run.StartedAt.Local().Format(time.DateTime),
						run.Duration().Round(time.Millisecond).String(),
						strconv.Itoa(run.Originals),
						strconv.Itoa(run.Duplicates),
						strconv.Itoa(run.Moved),
						strconv.Itoa(run.Failed),
						run.SourceDir,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Run", "Started", "Took", "Originals", "Duplicates", "Moved", "Failed", "Source"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 = all)")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the actions of one journaled run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, ctx, func(store *history.Store) error {
				run, err := store.Run(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				lines := renderSectionHeader("Run "+run.ID, colorize)
				lines = append(lines,
					renderStatusLine("Started", statusInfo, run.StartedAt.Local().Format(time.DateTime), colorize),
					renderStatusLine("Source", statusInfo, run.SourceDir, colorize),
					renderStatusLine("Destination", statusInfo, run.DestinationDir, colorize),
					renderStatusLine("Pattern", statusInfo, run.QueryPattern, colorize),
					renderStatusLine("Styles", statusInfo, fmt.Sprintf("rename=%s group=%s", run.RenameStyle, run.GroupStyle), colorize),
					renderStatusLine("Moved", statusOK, strconv.Itoa(run.Moved), colorize),
				)
				failedKind := statusOK
				if run.Failed > 0 {
					failedKind = statusError
				}
				lines = append(lines, renderStatusLine("Failed", failedKind, strconv.Itoa(run.Failed), colorize))
				fmt.Fprintln(out, strings.Join(lines, "\n"))

				rows := make([][]string, 0, len(run.Actions))
				for _, action := range run.Actions {
					status := action.Status
					if action.Error != "" {
						status += ": " + action.Error
					}
					rows = append(rows, []string{
						strconv.Itoa(action.Seq),
						action.Kind,
						relativeTo(run.SourceDir, action.Source),
						action.Destination,
						status,
					})
				}
				if len(rows) > 0 {
					fmt.Fprintln(out, renderTable(
						[]string{"#", "Kind", "Source", "Destination", "Status"},
						rows,
						[]columnAlignment{alignRight},
					))
				}
				return nil
			})
		},
	}
}

func withHistory(cmd *cobra.Command, ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig(cmd)
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.Paths.HistoryPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}
