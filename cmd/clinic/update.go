// ABOUTME: CLI command for updating patients.
// ABOUTME: Only flags given on the command line are applied.
package main

import (
	"fmt"
	"strings"

	"github.com/harperreed/clinic/internal/models"
	"github.com/harperreed/clinic/internal/storage"
	"github.com/spf13/cobra"
)

var (
	updateName    string
	updateAge     int
	updatePhone   string
	updateEmail   string
	updateAddress string
	updateNotes   string
)

var updateCmd = &cobra.Command{
	Use:     "update <id>",
	Aliases: []string{"edit"},
	Short:   "Update patient fields",
	Long: `Update selected fields of a patient. Fields you don't pass are left
unchanged, and empty values are ignored. The ID and creation time never change.

Examples:
  clinic update P001 --age 36
  clinic update P001 --phone +1-555-0999 --email new@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		u, err := buildUpdate(cmd)
		if err != nil {
			return err
		}

		found, err := store.Update(id, u)
		if !found {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
		}
		if err != nil {
			return notSaved("updated", id, err)
		}

		green.Fprintf(cmd.OutOrStdout(), "✓ Updated patient %s\n", id)
		return nil
	},
}

// buildUpdate collects the flags that were set into a PatientUpdate.
func buildUpdate(cmd *cobra.Command) (models.PatientUpdate, error) {
	var u models.PatientUpdate
	flags := cmd.Flags()

	str := func(name, value string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v := strings.TrimSpace(value)
		return &v
	}

	u.Name = str("name", updateName)
	u.Phone = str("phone", updatePhone)
	u.Email = str("email", updateEmail)
	u.Address = str("address", updateAddress)
	u.Notes = str("notes", updateNotes)
	if flags.Changed("age") {
		if err := models.ValidateAge(updateAge); err != nil {
			return u, err
		}
		age := updateAge
		u.Age = &age
	}

	if u.IsEmpty() {
		return u, fmt.Errorf("nothing to update: pass at least one of --name, --age, --phone, --email, --address, --notes")
	}
	return u, nil
}

func registerUpdateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&updateName, "name", "", "new full name")
	cmd.Flags().IntVar(&updateAge, "age", 0, "new age in years (0-150)")
	cmd.Flags().StringVar(&updatePhone, "phone", "", "new phone number")
	cmd.Flags().StringVar(&updateEmail, "email", "", "new email address")
	cmd.Flags().StringVar(&updateAddress, "address", "", "new postal address")
	cmd.Flags().StringVar(&updateNotes, "notes", "", "new medical history")
}

func init() {
	registerUpdateFlags(updateCmd)
	rootCmd.AddCommand(updateCmd)
}
