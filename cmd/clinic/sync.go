// ABOUTME: CLI commands for Charm-based sync.
// ABOUTME: Supports sync now, link, unlink, and status.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/harperreed/clinic/internal/storage"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync patient data across devices",
	Long: `Sync patient data across devices using Charm Cloud.

Sync requires the charm backend. Set it in ~/.config/clinic/config.json:

  {"backend": "charm"}

or with CLINIC_BACKEND=charm. Data is E2E encrypted with your SSH key and
syncs automatically after every change. Running 'clinic sync' pulls remote
changes now.

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show backend, location, and patient count`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := store.Sync()
		if errors.Is(err, storage.ErrSyncUnsupported) {
			return fmt.Errorf("%w: %s (set backend to charm)", err, store.Location())
		}
		if err != nil {
			return err
		}

		green.Fprintf(cmd.OutOrStdout(), "✓ Synced %d patients\n", store.Count())
		return nil
	},
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm("link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		out := cmd.OutOrStdout()
		green.Fprintln(out, "\n✓ Device linked to Charm")
		if err := store.Sync(); err == nil {
			green.Fprintln(out, "✓ Initial sync complete")
		} else if !errors.Is(err, storage.ErrSyncUnsupported) {
			yellow.Fprintf(out, "⚠ Initial sync failed: %v\n", err)
		}
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm("unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}

		green.Fprintln(cmd.OutOrStdout(), "✓ Device unlinked from Charm")
		fmt.Fprintln(cmd.OutOrStdout(), "Your local patient data is preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Location: %s\n", store.Location())
		fmt.Fprintf(out, "Patients: %d\n", store.Count())

		if store.CanSync() {
			green.Fprintln(out, "✓ Sync enabled")
		} else {
			yellow.Fprintln(out, "✗ Sync disabled (local backend)")
		}
		return nil
	},
}

func runCharm(arg string) error {
	charmCmd := exec.Command("charm", arg)
	charmCmd.Stdin = os.Stdin
	charmCmd.Stdout = os.Stdout
	charmCmd.Stderr = os.Stderr
	return charmCmd.Run()
}

func init() {
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	rootCmd.AddCommand(syncCmd)
}
