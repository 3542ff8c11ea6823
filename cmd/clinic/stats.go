// ABOUTME: CLI command for patient statistics.
// ABOUTME: Prints total, average age, and age distribution.
package main

import (
	"github.com/harperreed/clinic/internal/display"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show patient statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		display.Statistics(cmd.OutOrStdout(), store.Statistics())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
