package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Print the plan without moving anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, ctx)
		},
	}
}

func newMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "move",
		Aliases: []string{"all"},
		Short:   "Plan, write sidecars and move files",
		Long: "Plan the run, write a sidecar beside every original, then move originals into\n" +
			"their groups and duplicates into the duplicates area. With --dry-run nothing\n" +
			"is written and every action is reported as would-move.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMove(cmd, ctx)
		},
	}
}

func runScan(cmd *cobra.Command, ctx *commandContext) error {
	org, cleanup, err := ctx.newOrganizer(cmd, false)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := org.Plan(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderPlan(ctx.config, summary.Plan))
	fmt.Fprintln(out, renderPlanSummary(summary, shouldColorize(out)))
	return nil
}

func runMove(cmd *cobra.Command, ctx *commandContext) error {
	org, cleanup, err := ctx.newOrganizer(cmd, true)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := org.Run(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if summary.DryRun {
		fmt.Fprint(out, renderPlan(ctx.config, summary.Plan))
	}
	fmt.Fprintln(out, renderRunSummary(summary, shouldColorize(out)))
	return nil
}
