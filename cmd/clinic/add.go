// ABOUTME: CLI command for registering patients.
// ABOUTME: Generates an ID when --id is omitted and validates input.
package main

import (
	"fmt"
	"strings"

	"github.com/harperreed/clinic/internal/models"
	"github.com/harperreed/clinic/internal/storage"
	"github.com/spf13/cobra"
)

var (
	addID      string
	addName    string
	addAge     int
	addPhone   string
	addEmail   string
	addAddress string
	addNotes   string
)

var addCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"a"},
	Short:   "Register a new patient",
	Long: `Register a new patient. Name, age, and phone are required.

Age must be between 0 and 150. When --id is omitted an ID like P-1a2b3c4d
is generated. Adding an ID that already exists is an error.

Examples:
  clinic add --id P009 --name "Ada Byron" --age 36 --phone +1-555-0199
  clinic add --name "Alan Turing" --age 41 --phone +1-555-0112 \
             --email alan@example.com --notes "Penicillin allergy"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.TrimSpace(addID)
		if id == "" {
			id = models.NewPatientID()
		}

		p := models.NewPatient(id, strings.TrimSpace(addName), addAge, strings.TrimSpace(addPhone)).
			WithEmail(strings.TrimSpace(addEmail)).
			WithAddress(strings.TrimSpace(addAddress)).
			WithNotes(strings.TrimSpace(addNotes))
		if err := p.Validate(); err != nil {
			return err
		}

		added, err := store.Add(p)
		if !added {
			if err != nil {
				return err
			}
			return fmt.Errorf("%w: %s", storage.ErrDuplicateID, id)
		}
		if err != nil {
			return notSaved("added", id, err)
		}

		out := cmd.OutOrStdout()
		green.Fprintf(out, "✓ Added patient %s\n", p.Name)
		fmt.Fprintf(out, "  %s\n", faint.Sprint(id))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addID, "id", "", "patient ID (generated when omitted)")
	addCmd.Flags().StringVar(&addName, "name", "", "full name")
	addCmd.Flags().IntVar(&addAge, "age", 0, "age in years (0-150)")
	addCmd.Flags().StringVar(&addPhone, "phone", "", "phone number")
	addCmd.Flags().StringVar(&addEmail, "email", "", "email address")
	addCmd.Flags().StringVar(&addAddress, "address", "", "postal address")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "medical history")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("age")
	_ = addCmd.MarkFlagRequired("phone")
	rootCmd.AddCommand(addCmd)
}
