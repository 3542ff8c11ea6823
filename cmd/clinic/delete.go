// ABOUTME: CLI command for deleting patients.
// ABOUTME: Asks for confirmation unless --yes is given.
package main

import (
	"fmt"

	"github.com/harperreed/clinic/internal/storage"
	"github.com/spf13/cobra"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a patient",
	Long: `Delete a patient by ID.

CAUTION:

  This permanently removes the record from the snapshot. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		out := cmd.OutOrStdout()

		p, ok := store.Get(id)
		if !ok {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
		}

		if !deleteYes {
			yes, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete patient %s (%s)?", p.Name, id))
			if err != nil {
				return err
			}
			if !yes {
				fmt.Fprintln(out, "Deletion canceled.")
				return nil
			}
		}

		found, err := store.Delete(id)
		if !found {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
		}
		if err != nil {
			return notSaved("deleted", id, err)
		}

		yellow.Fprintf(out, "✗ Deleted patient %s\n", p.Name)
		fmt.Fprintf(out, "  %s\n", faint.Sprint(id))
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}
