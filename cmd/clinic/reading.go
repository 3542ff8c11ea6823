// ABOUTME: CLI commands for clinical readings recorded against patients.
// ABOUTME: Supports add, list, update, and delete subcommands.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/clinic/internal/display"
	"github.com/harperreed/clinic/internal/models"
	"github.com/harperreed/clinic/internal/storage"
	"github.com/spf13/cobra"
)

var (
	readingAt        string
	readingID        string
	readingComponent string
	readingValue     string
	readingYes       bool
)

var readingCmd = &cobra.Command{
	Use:     "reading",
	Aliases: []string{"readings", "rd"},
	Short:   "Manage clinical readings",
	Long: `Record clinical readings such as blood pressure, heart rate, or lab
values against a patient.

A reading is a component name, a value, and the time it was measured. Values
are free text, so "120/80" and "72" are both fine.

WORKFLOW:

  1. Record a reading:   clinic reading add P001 heart_rate 72
  2. See all readings:   clinic reading list P001
  3. Track one value:    clinic reading list P001 --component heart_rate

COMMANDS:

  add      Record a reading for a patient
  list     List a patient's readings
  update   Change a reading
  delete   Remove a reading`,
}

var readingAddCmd = &cobra.Command{
	Use:   "add <patient-id> <component> <value>",
	Short: "Record a reading",
	Long: `Record a reading for a patient. The measured time defaults to now.

Examples:
  clinic reading add P001 heart_rate 72
  clinic reading add P001 blood_pressure 120/80 --at "2024-12-14 07:00"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		patientID := args[0]

		r := models.NewReading(strings.TrimSpace(args[1]), strings.TrimSpace(args[2])).
			WithID(strings.TrimSpace(readingID))
		if readingAt != "" {
			t, err := parseTime(readingAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", readingAt)
			}
			r.WithMeasuredAt(t)
		}

		added, err := store.AddReading(patientID, r)
		if !added {
			if err != nil {
				return err
			}
			return fmt.Errorf("%w: %s", storage.ErrNotFound, patientID)
		}
		if err != nil {
			return notSaved("added", r.ID, err)
		}

		out := cmd.OutOrStdout()
		green.Fprintf(out, "✓ Added %s for %s\n", r.Component, patientID)
		fmt.Fprintf(out, "  %s %s\n", faint.Sprint(r.ID), r.Value)
		return nil
	},
}

var readingListCmd = &cobra.Command{
	Use:     "list <patient-id>",
	Aliases: []string{"ls"},
	Short:   "List a patient's readings",
	Long: `List a patient's readings in the order they were recorded.

With --component, only readings of that component are shown, newest first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patientID := args[0]
		out := cmd.OutOrStdout()

		readings, ok := store.Readings(patientID, readingComponent)
		if !ok {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, patientID)
		}
		if len(readings) == 0 {
			fmt.Fprintln(out, "No readings found.")
			return nil
		}

		display.Readings(out, readings)
		fmt.Fprintln(out, faint.Sprintf("%d readings", len(readings)))
		return nil
	},
}

var readingUpdateCmd = &cobra.Command{
	Use:   "update <reading-id>",
	Short: "Change a reading",
	Long: `Change selected fields of a reading. Fields you don't pass are left unchanged.

Examples:
  clinic reading update R-1a2b3c4d --value 74
  clinic reading update R-1a2b3c4d --at "2024-12-14 07:30"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		u, err := buildReadingUpdate(cmd)
		if err != nil {
			return err
		}

		found, err := store.UpdateReading(id, u)
		if !found {
			if err != nil {
				return err
			}
			return fmt.Errorf("%w: %s", storage.ErrReadingNotFound, id)
		}
		if err != nil {
			return notSaved("updated", id, err)
		}

		green.Fprintf(cmd.OutOrStdout(), "✓ Updated reading %s\n", id)
		return nil
	},
}

var readingDeleteCmd = &cobra.Command{
	Use:     "delete <reading-id>",
	Aliases: []string{"del", "rm"},
	Short:   "Remove a reading",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		out := cmd.OutOrStdout()

		r, ok := store.GetReading(id)
		if !ok {
			return fmt.Errorf("%w: %s", storage.ErrReadingNotFound, id)
		}

		if !readingYes {
			prompt := fmt.Sprintf("Delete %s reading %s for %s?", r.Component, id, r.PatientID)
			yes, err := confirm(cmd.InOrStdin(), out, prompt)
			if err != nil {
				return err
			}
			if !yes {
				fmt.Fprintln(out, "Deletion canceled.")
				return nil
			}
		}

		found, err := store.DeleteReading(id)
		if !found {
			return fmt.Errorf("%w: %s", storage.ErrReadingNotFound, id)
		}
		if err != nil {
			return notSaved("deleted", id, err)
		}

		yellow.Fprintf(out, "✗ Deleted reading %s\n", id)
		return nil
	},
}

// buildReadingUpdate collects the flags that were set into a ReadingUpdate.
func buildReadingUpdate(cmd *cobra.Command) (models.ReadingUpdate, error) {
	var u models.ReadingUpdate
	flags := cmd.Flags()

	if flags.Changed("component") {
		v := strings.TrimSpace(readingComponent)
		u.Component = &v
	}
	if flags.Changed("value") {
		v := strings.TrimSpace(readingValue)
		u.Value = &v
	}
	if flags.Changed("at") {
		t, err := parseTime(readingAt)
		if err != nil {
			return u, fmt.Errorf("invalid timestamp: %s", readingAt)
		}
		u.MeasuredAt = &t
	}

	if u.IsEmpty() {
		return u, fmt.Errorf("nothing to update: pass at least one of --component, --value, --at")
	}
	return u, nil
}

func registerReadingUpdateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&readingComponent, "component", "", "new component name")
	cmd.Flags().StringVar(&readingValue, "value", "", "new value")
	cmd.Flags().StringVar(&readingAt, "at", "", "new measured time (YYYY-MM-DD HH:MM)")
}

// parseTime accepts the common ways to type a timestamp, in local time.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return storage.ParseTimestamp(s)
}

func init() {
	readingAddCmd.Flags().StringVar(&readingAt, "at", "", "measured time (YYYY-MM-DD HH:MM), default now")
	readingAddCmd.Flags().StringVar(&readingID, "id", "", "reading ID (generated when omitted)")

	readingListCmd.Flags().StringVarP(&readingComponent, "component", "c", "", "only show this component, newest first")

	registerReadingUpdateFlags(readingUpdateCmd)

	readingDeleteCmd.Flags().BoolVarP(&readingYes, "yes", "y", false, "skip confirmation prompt")

	readingCmd.AddCommand(readingAddCmd)
	readingCmd.AddCommand(readingListCmd)
	readingCmd.AddCommand(readingUpdateCmd)
	readingCmd.AddCommand(readingDeleteCmd)
	rootCmd.AddCommand(readingCmd)
}
