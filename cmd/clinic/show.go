// ABOUTME: CLI command for viewing one patient.
// ABOUTME: Masks sensitive fields unless --reveal is set.
package main

import (
	"fmt"

	"github.com/harperreed/clinic/internal/display"
	"github.com/harperreed/clinic/internal/storage"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Aliases: []string{"get"},
	Short:   "Show patient details",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ok := store.Get(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, args[0])
		}

		display.Details(cmd.OutOrStdout(), p, display.Options{Reveal: reveal})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
