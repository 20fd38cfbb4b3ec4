package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/pathsampling"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tps",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tps version %s\n", strings.TrimSpace(pathsampling.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
