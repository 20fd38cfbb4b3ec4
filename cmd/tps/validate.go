package main

import (
	"fmt"

	"github.com/aretw0/pathsampling/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <config.yaml>",
	Short: "Check a move scheme without running it",
	Long:  `Validates the document against the schema and compiles the mover tree, including the initial sample set.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := cli.Validate(args[0])
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Scheme is valid: %d replicas, root mover %s.\n",
			prog.Initial.Len(), prog.Root.Name())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
