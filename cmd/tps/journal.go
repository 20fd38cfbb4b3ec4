package main

import (
	"github.com/aretw0/pathsampling/internal/cli"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal [run-id]",
	Short: "Inspect journaled runs",
	Long: `Without arguments lists the runs stored in redis. With a run id prints its
steps, or deletes them with --delete.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.JournalOptions{Stdout: cmd.OutOrStdout()}
		if len(args) > 0 {
			opts.RunID = args[0]
		}
		opts.RedisURL, _ = cmd.Flags().GetString("redis-url")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Delete, _ = cmd.Flags().GetBool("delete")
		return cli.Journal(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().String("redis-url", "", "Redis holding the journal (redis://host:port/db)")
	journalCmd.Flags().Bool("json", false, "Print steps as JSON")
	journalCmd.Flags().Bool("delete", false, "Delete the run instead of printing it")
}
