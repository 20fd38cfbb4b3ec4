package main

import (
	"context"

	"github.com/aretw0/pathsampling/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <config.yaml>",
	Short: "Run a path sampling simulation",
	Long: `Compiles the move scheme and runs it for the configured number of steps.
Progress goes to stdout, logs to stderr. With --redis-url every step is
journaled and the run holds a lock so two processes cannot drive it at once.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := cli.RunOptions{
			ConfigPath: args[0],
			Stdout:     cmd.OutOrStdout(),
			Stderr:     cmd.ErrOrStderr(),
		}
		opts.Steps, _ = flags.GetInt("steps")
		opts.Seed, _ = flags.GetUint64("seed")
		opts.SeedSet = flags.Changed("seed")
		opts.RunID, _ = flags.GetString("run-id")
		opts.Fresh, _ = flags.GetBool("fresh")
		opts.Every, _ = flags.GetInt("every")
		opts.Quiet, _ = flags.GetBool("quiet")
		opts.Trace, _ = flags.GetBool("trace")
		opts.RedisURL, _ = flags.GetString("redis-url")
		opts.HTTPAddr, _ = flags.GetString("http-addr")
		opts.Linger, _ = flags.GetBool("linger")
		opts.LockTTL, _ = flags.GetDuration("lock-ttl")
		opts.Debug, _ = flags.GetBool("debug")
		opts.LogLevel, _ = flags.GetString("log-level")
		opts.JSONLogs, _ = flags.GetBool("json-logs")

		sc := cli.NewSignalContext(context.Background())
		defer sc.Cancel()
		return cli.Execute(sc, opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("steps", "n", 0, "Number of steps (overrides the config)")
	runCmd.Flags().Uint64("seed", 0, "Random seed (overrides the config)")
	runCmd.Flags().String("run-id", "", "Run identifier used by the journal and the lock")
	runCmd.Flags().Bool("fresh", false, "Delete the journal of --run-id before starting")
	runCmd.Flags().Int("every", 1, "Print a progress line every N steps")
	runCmd.Flags().BoolP("quiet", "q", false, "Only print the final report")
	runCmd.Flags().Bool("trace", false, "Export step spans to stderr")
	runCmd.Flags().String("redis-url", "", "Journal steps to redis (redis://host:port/db)")
	runCmd.Flags().String("http-addr", "", "Serve the monitoring API on this address")
	runCmd.Flags().Bool("linger", false, "Keep the monitoring API up after the run until interrupted")
	runCmd.Flags().Duration("lock-ttl", 0, "Run lock expiry (default 1m)")
}
