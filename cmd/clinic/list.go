// ABOUTME: CLI command for listing patients.
// ABOUTME: Prints a table in registration order.
package main

import (
	"fmt"

	"github.com/harperreed/clinic/internal/display"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List all patients",
	Long: `List all patients in the order they were registered.

OUTPUT FORMAT:

  ID  NAME  AGE  PHONE

  Phone numbers are masked unless --reveal is given. Use 'clinic show <id>'
  for the full record.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		patients := store.List()
		if len(patients) == 0 {
			fmt.Fprintln(out, "No patients found.")
			return nil
		}

		display.Table(out, patients, display.Options{Reveal: reveal})
		fmt.Fprintln(out, faint.Sprintf("%d patients", len(patients)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
