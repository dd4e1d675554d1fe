package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"yee/internal/config"
	"yee/internal/sidecar"
)

func newSidecarsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sidecars [dir]",
		Short: "List sidecar records found under a directory",
		Long:  "Walk dir (default: the configured source directory) and print every sidecar\nrecord, showing where each original was moved.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			root := cfg.Paths.SourceDir
			if len(args) == 1 {
				if root, err = config.ExpandPath(strings.TrimSpace(args[0])); err != nil {
					return fmt.Errorf("resolve directory: %w", err)
				}
			}

			found, err := sidecar.Discover(cmd.Context(), root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(found) == 0 {
				fmt.Fprintf(out, "No sidecars under %s\n", root)
				return nil
			}

			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(found))
			var broken []string
			for _, f := range found {
				if f.Err != nil {
					broken = append(broken, renderStatusLine(relativeTo(root, f.Path), statusWarn, f.Err.Error(), colorize))
					continue
				}
				rows = append(rows, []string{
					relativeTo(root, f.Record.OriginalPath),
					f.Record.Group,
					f.Record.DestinationPath,
					shortFingerprint(f.Record.Fingerprint),
					f.Record.RunID,
				})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Original", "Group", "Destination", "Fingerprint", "Run"},
					rows,
					nil,
				))
			}
			for _, line := range broken {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func shortFingerprint(hex string) string {
	if len(hex) > 12 {
		return hex[:12]
	}
	return hex
}
