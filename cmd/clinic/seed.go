// ABOUTME: CLI command for loading sample patients.
// ABOUTME: Existing IDs are skipped, so seeding twice is harmless.
package main

import (
	"fmt"

	"github.com/harperreed/clinic/internal/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add sample patients",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		result, err := seed.Seed(store)
		added := make(map[string]bool, len(result.Added))
		for _, id := range result.Added {
			added[id] = true
		}

		samples := seed.Patients()
		for _, p := range samples {
			if added[p.ID] {
				green.Fprintf(out, "✓ Added patient: %s\n", p.Name)
			} else {
				yellow.Fprintf(out, "✗ Skipped patient: %s (already exists)\n", p.Name)
			}
		}
		fmt.Fprintf(out, "\nAdded %d new patients out of %d total.\n", len(result.Added), len(samples))

		if err != nil {
			return fmt.Errorf("sample patients added but not saved: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
