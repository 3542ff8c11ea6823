// ABOUTME: CLI command for searching patients.
// ABOUTME: Matches name and email case-insensitively and phone verbatim.
package main

import (
	"fmt"
	"strings"

	"github.com/harperreed/clinic/internal/display"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Aliases: []string{"find"},
	Short:   "Search patients by name, phone, or email",
	Long: `Search patients. A patient matches when the query appears in the name or
email (ignoring case) or in the phone number.

Examples:
  clinic search smith
  clinic search 555-0101
  clinic search "@example.com"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		out := cmd.OutOrStdout()

		results := store.Search(query)
		if len(results) == 0 {
			fmt.Fprintf(out, "No patients found matching '%s'.\n", query)
			return nil
		}

		fmt.Fprintf(out, "Found %d patient(s):\n\n", len(results))
		display.Table(out, results, display.Options{Reveal: reveal})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
