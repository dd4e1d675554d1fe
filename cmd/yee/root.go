package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var flags overrideFlags
	var configFlag string

	ctx := newCommandContext(&configFlag, &flags)

	rootCmd := &cobra.Command{
		Use:   "yee",
		Short: "Organize files into hashed groups with duplicate tracking",
		Long: "yee scans a source tree, fingerprints every matching file, routes byte-identical\n" +
			"copies to a duplicates area and moves the rest into per-directory groups.\n" +
			"Without a subcommand it prints the plan (same as `yee scan`).",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, ctx)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	pf.StringVarP(&flags.source, "source", "s", "", "Source directory to organize")
	pf.StringVarP(&flags.destination, "destination", "d", "", "Destination root for organized files")
	pf.StringVarP(&flags.pattern, "pattern", "p", "", "Glob selecting files (matched against the base name, or the relative path when it contains '/')")
	pf.BoolVar(&flags.dryRun, "dry-run", false, "Plan and report without touching the filesystem")
	pf.BoolVar(&flags.trackDuplicates, "track-duplicates", true, "Route byte-identical copies to the duplicates area")
	pf.StringVar(&flags.renameStyle, "rename-style", "", "Rename style: none, lowercase, incremental, short-hash, combined")
	pf.StringVar(&flags.groupStyle, "group-style", "", "Group style: short-hash, incremental")
	pf.IntVar(&flags.workers, "workers", 0, "Parallel fingerprint workers (0 = all CPUs)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format: console, json")

	rootCmd.AddCommand(newScanCommand(ctx))
	rootCmd.AddCommand(newMoveCommand(ctx))
	rootCmd.AddCommand(newSidecarsCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
