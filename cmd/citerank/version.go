package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citerank/internal/registry"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of citerank",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "citerank %s (registry %s)\n", version, registry.DefaultVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
