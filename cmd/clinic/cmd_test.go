// ABOUTME: Tests for CLI commands run in-process against a temp store.
// ABOUTME: Covers add, show, list, update, delete, search, stats, seed, export, and import.
package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/clinic/internal/models"
	"github.com/harperreed/clinic/internal/storage"
	"github.com/spf13/cobra"
)

// setupTestStore points the package store at a fresh snapshot file.
func setupTestStore(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clinic_data.json")
	store = storage.New(path)
	reveal = false
	t.Cleanup(func() { store = nil })
	return path
}

func runCmd(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.RunE(cmd, args)
	return buf.String(), err
}

func resetAddFlags() {
	addID, addName, addPhone, addEmail, addAddress, addNotes = "", "", "", "", "", ""
	addAge = 0
}

func addTestPatient(t *testing.T, id, name string, age int, phone string) {
	t.Helper()
	if ok, err := store.Add(models.NewPatient(id, name, age, phone)); !ok || err != nil {
		t.Fatalf("failed to add %s: ok=%v err=%v", id, ok, err)
	}
}

func TestAddCmd(t *testing.T) {
	path := setupTestStore(t)
	t.Cleanup(resetAddFlags)

	addID, addName, addAge, addPhone = "P001", "John Smith", 35, "+1-555-0101"
	addEmail = "john@example.com"

	out, err := runCmd(t, addCmd, "")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out, "Added patient John Smith") {
		t.Errorf("unexpected output: %s", out)
	}

	reopened, err := storage.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	p, ok := reopened.Get("P001")
	if !ok {
		t.Fatal("patient not persisted")
	}
	if p.Email == nil || *p.Email != "john@example.com" {
		t.Errorf("email mismatch: got %v", p.Email)
	}
}

func TestAddCmdGeneratesID(t *testing.T) {
	setupTestStore(t)
	t.Cleanup(resetAddFlags)

	addName, addAge, addPhone = "Jane Doe", 28, "+1-555-0102"

	if _, err := runCmd(t, addCmd, ""); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	list := store.List()
	if len(list) != 1 || !strings.HasPrefix(list[0].ID, "P-") {
		t.Errorf("expected one patient with generated ID, got %v", list)
	}
}

func TestAddCmdErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func()
		check func(error) bool
	}{
		{
			name:  "age too high",
			setup: func() { addID, addName, addAge, addPhone = "P001", "A", 151, "+1" },
			check: func(err error) bool {
				var ve *models.ValidationError
				return errors.As(err, &ve) && ve.Field == "age"
			},
		},
		{
			name:  "negative age",
			setup: func() { addID, addName, addAge, addPhone = "P001", "A", -1, "+1" },
			check: func(err error) bool {
				var ve *models.ValidationError
				return errors.As(err, &ve)
			},
		},
		{
			name:  "blank name",
			setup: func() { addID, addName, addAge, addPhone = "P001", "   ", 30, "+1" },
			check: func(err error) bool {
				var ve *models.ValidationError
				return errors.As(err, &ve) && ve.Field == "name"
			},
		},
		{
			name:  "duplicate",
			setup: func() { addID, addName, addAge, addPhone = "DUP", "A", 30, "+1" },
			check: func(err error) bool { return errors.Is(err, storage.ErrDuplicateID) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestStore(t)
			t.Cleanup(resetAddFlags)
			addTestPatient(t, "DUP", "Existing", 40, "+1-555-0000")

			tt.setup()
			_, err := runCmd(t, addCmd, "")
			if err == nil || !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestShowCmd(t *testing.T) {
	setupTestStore(t)
	p := models.NewPatient("P001", "John Smith", 35, "+1-555-0101").WithNotes("Hypertension")
	if _, err := store.Add(p); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	out, err := runCmd(t, showCmd, "", "P001")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if strings.Contains(out, "Hypertension") || strings.Contains(out, "+1-555-0101") {
		t.Errorf("show leaked sensitive data:\n%s", out)
	}
	if !strings.Contains(out, "[MEDICAL HISTORY ON FILE]") {
		t.Errorf("expected history placeholder:\n%s", out)
	}

	reveal = true
	out, err = runCmd(t, showCmd, "", "P001")
	if err != nil {
		t.Fatalf("show --reveal failed: %v", err)
	}
	if !strings.Contains(out, "Hypertension") {
		t.Errorf("expected revealed history:\n%s", out)
	}
}

func TestShowCmdNotFound(t *testing.T) {
	setupTestStore(t)

	_, err := runCmd(t, showCmd, "", "NOPE")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListCmd(t *testing.T) {
	setupTestStore(t)

	out, err := runCmd(t, listCmd, "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "No patients found.") {
		t.Errorf("expected empty message, got: %s", out)
	}

	addTestPatient(t, "P002", "Zed", 20, "+1-555-0002")
	addTestPatient(t, "P001", "Amy", 30, "+1-555-0001")

	out, err = runCmd(t, listCmd, "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if strings.Index(out, "P002") > strings.Index(out, "P001") {
		t.Errorf("expected insertion order:\n%s", out)
	}
	if !strings.Contains(out, "2 patients") {
		t.Errorf("expected count line:\n%s", out)
	}
}

func TestUpdateCmd(t *testing.T) {
	setupTestStore(t)
	addTestPatient(t, "P001", "John Smith", 35, "+1-555-0101")
	before, _ := store.Get("P001")

	cmd := &cobra.Command{Use: "update", RunE: updateCmd.RunE}
	registerUpdateFlags(cmd)
	if err := cmd.Flags().Set("age", "36"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	if _, err := runCmd(t, cmd, "", "P001"); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	after, _ := store.Get("P001")
	if after.Age != 36 {
		t.Errorf("Age = %d, want 36", after.Age)
	}
	if after.Name != before.Name || after.Phone != before.Phone {
		t.Errorf("unset fields changed: %+v", after)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Error("UpdatedAt did not advance")
	}
}

func TestUpdateCmdErrors(t *testing.T) {
	tests := []struct {
		name  string
		flags map[string]string
		id    string
		want  string
	}{
		{"no flags", nil, "P001", "nothing to update"},
		{"bad age", map[string]string{"age": "200"}, "P001", "age"},
		{"not found", map[string]string{"name": "X"}, "P999", "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestStore(t)
			addTestPatient(t, "P001", "John Smith", 35, "+1-555-0101")

			cmd := &cobra.Command{Use: "update", RunE: updateCmd.RunE}
			registerUpdateFlags(cmd)
			for k, v := range tt.flags {
				if err := cmd.Flags().Set(k, v); err != nil {
					t.Fatalf("set flag %s: %v", k, err)
				}
			}

			_, err := runCmd(t, cmd, "", tt.id)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDeleteCmd(t *testing.T) {
	setupTestStore(t)
	addTestPatient(t, "P001", "John Smith", 35, "+1-555-0101")
	deleteYes = false

	out, err := runCmd(t, deleteCmd, "n\n", "P001")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out, "canceled") || store.Count() != 1 {
		t.Errorf("expected cancellation, count=%d out=%s", store.Count(), out)
	}

	out, err = runCmd(t, deleteCmd, "y\n", "P001")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out, "Deleted patient John Smith") || store.Count() != 0 {
		t.Errorf("expected deletion, count=%d out=%s", store.Count(), out)
	}

	_, err = runCmd(t, deleteCmd, "y\n", "P001")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteCmdSkipConfirm(t *testing.T) {
	setupTestStore(t)
	addTestPatient(t, "P001", "John Smith", 35, "+1-555-0101")
	deleteYes = true
	t.Cleanup(func() { deleteYes = false })

	if _, err := runCmd(t, deleteCmd, "", "P001"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if store.Count() != 0 {
		t.Error("expected patient deleted without prompt")
	}
}

func TestSearchCmd(t *testing.T) {
	setupTestStore(t)
	addTestPatient(t, "P001", "John Smith", 35, "+1-555-0101")
	addTestPatient(t, "P002", "Jane Doe", 28, "+1-555-0102")

	out, err := runCmd(t, searchCmd, "", "SMITH")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.Contains(out, "Found 1 patient(s)") || !strings.Contains(out, "P001") {
		t.Errorf("unexpected search output:\n%s", out)
	}

	out, err = runCmd(t, searchCmd, "", "nobody")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.Contains(out, "No patients found matching 'nobody'.") {
		t.Errorf("unexpected empty search output:\n%s", out)
	}
}

func TestStatsCmd(t *testing.T) {
	setupTestStore(t)
	for i, age := range []int{20, 30, 40, 60} {
		addTestPatient(t, string(rune('A'+i)), "Patient", age, "+1-555-0100")
	}

	out, err := runCmd(t, statsCmd, "")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	for _, want := range []string{"Total Patients: 4", "Average Age: 37.5 years", "36-55: 2 patients", "56+: 1 patients"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestSeedCmd(t *testing.T) {
	setupTestStore(t)
	addTestPatient(t, "P001", "John Smith", 35, "+1-555-0101")

	out, err := runCmd(t, seedCmd, "")
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if !strings.Contains(out, "Added 7 new patients out of 8 total.") {
		t.Errorf("unexpected seed summary:\n%s", out)
	}
	if !strings.Contains(out, "Skipped patient: John Smith") {
		t.Errorf("expected P001 skipped:\n%s", out)
	}
	if store.Count() != 8 {
		t.Errorf("count = %d, want 8", store.Count())
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			setupTestStore(t)
			addTestPatient(t, "P001", "John Smith", 35, "+1-555-0101")
			addTestPatient(t, "P002", "Jane Doe", 28, "+1-555-0102")

			file := filepath.Join(t.TempDir(), "backup."+format)
			exportOutput = file
			t.Cleanup(func() { exportOutput = "" })

			if _, err := runCmd(t, exportCmd, "", format); err != nil {
				t.Fatalf("export failed: %v", err)
			}

			setupTestStore(t)
			addTestPatient(t, "P002", "Already Here", 50, "+1-555-0999")

			out, err := runCmd(t, importCmd, "", file)
			if err != nil {
				t.Fatalf("import failed: %v", err)
			}
			if !strings.Contains(out, "Imported 1 patients") || !strings.Contains(out, "Skipped 1 existing: P002") {
				t.Errorf("unexpected import output:\n%s", out)
			}
			if p, _ := store.Get("P002"); p.Name != "Already Here" {
				t.Errorf("existing patient overwritten: %+v", p)
			}
		})
	}
}

func TestExportMarkdown(t *testing.T) {
	setupTestStore(t)
	addTestPatient(t, "P001", "John Smith", 35, "+1-555-0101")

	out, err := runCmd(t, exportCmd, "", "markdown")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, "| P001 | John Smith | 35 |") {
		t.Errorf("unexpected markdown:\n%s", out)
	}
	if strings.Contains(out, "+1-555-0101") {
		t.Errorf("markdown leaked phone:\n%s", out)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	setupTestStore(t)

	if _, err := runCmd(t, exportCmd, "", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestImportMalformed(t *testing.T) {
	setupTestStore(t)
	file := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(file, []byte(`{"patients": [{"name": "no id"}]}`), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := runCmd(t, importCmd, "", file); err == nil {
		t.Error("expected import error")
	}
	if store.Count() != 0 {
		t.Errorf("malformed import added %d patients", store.Count())
	}
}

func TestCodecFor(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"a.json", "json"},
		{"a.yaml", "yaml"},
		{"a.YML", "yaml"},
		{"noext", "json"},
	}
	for _, tt := range tests {
		if got := codecFor(tt.file).Name(); got != tt.want {
			t.Errorf("codecFor(%q) = %q, want %q", tt.file, got, tt.want)
		}
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := confirm(strings.NewReader(tt.input), &out, "Proceed?")
		if err != nil {
			t.Errorf("confirm(%q) error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "clinic" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "clinic")
	}
	for _, name := range []string{"data", "verbose", "reveal"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent --%s flag", name)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"add", "show", "list", "update", "delete", "search", "stats", "seed", "export", "import", "mcp", "sync", "reading", "install-skill"}

	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, name := range want {
		if !names[name] {
			t.Errorf("Expected command %q to be registered", name)
		}
	}
}

func TestCommandAliases(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		alias string
	}{
		{addCmd, "a"},
		{showCmd, "get"},
		{listCmd, "ls"},
		{deleteCmd, "rm"},
		{readingCmd, "readings"},
		{readingDeleteCmd, "rm"},
	}
	for _, tt := range tests {
		found := false
		for _, alias := range tt.cmd.Aliases {
			if alias == tt.alias {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected alias %q for %s", tt.alias, tt.cmd.Name())
		}
	}
}

func TestSyncCmdLocalBackend(t *testing.T) {
	setupTestStore(t)

	_, err := runCmd(t, syncCmd, "")
	if !errors.Is(err, storage.ErrSyncUnsupported) {
		t.Errorf("expected ErrSyncUnsupported, got %v", err)
	}

	out, err := runCmd(t, syncStatusCmd, "")
	if err != nil {
		t.Fatalf("sync status failed: %v", err)
	}
	if !strings.Contains(out, "Sync disabled") || !strings.Contains(out, "Patients: 0") {
		t.Errorf("unexpected status output:\n%s", out)
	}
}
