// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Calls tool and resource handlers directly against a temp store.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/clinic/internal/models"
	"github.com/harperreed/clinic/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupTestServer creates a server over an empty store in a temp directory.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	store := storage.New(filepath.Join(t.TempDir(), "clinic_data.json"))
	t.Cleanup(func() { _ = store.Close() })

	server, err := NewServer(store)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func seedPatient(t *testing.T, s *Server, id, name string, age int, phone, email string) {
	t.Helper()
	p := models.NewPatient(id, name, age, phone).WithEmail(email)
	if ok, err := s.store.Add(p); !ok || err != nil {
		t.Fatalf("failed to seed %s: ok=%v err=%v", id, ok, err)
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestNewServer(t *testing.T) {
	server := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.store == nil {
		t.Error("Expected non-nil store")
	}
}

func TestHandleAddPatient(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     addPatientInput
		wantErr   bool
		errSubstr string
	}{
		{
			name:  "with explicit ID",
			input: addPatientInput{ID: "P001", Name: "John Smith", Age: 35, Phone: "+1-555-0101"},
		},
		{
			name:  "generated ID with optional fields",
			input: addPatientInput{Name: "Sarah Johnson", Age: 28, Phone: "+1-555-0102", Email: "s@example.com", MedicalHistory: "Asthma"},
		},
		{
			name:      "duplicate ID",
			input:     addPatientInput{ID: "P001", Name: "Other", Age: 40, Phone: "+1-555-0199"},
			wantErr:   true,
			errSubstr: "already exists",
		},
		{
			name:      "age out of range",
			input:     addPatientInput{ID: "P003", Name: "Old", Age: 151, Phone: "+1-555-0103"},
			wantErr:   true,
			errSubstr: "age",
		},
		{
			name:      "missing name",
			input:     addPatientInput{ID: "P004", Age: 20, Phone: "+1-555-0104"},
			wantErr:   true,
			errSubstr: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleAddPatient(ctx, &mcp.CallToolRequest{}, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q does not contain %q", err.Error(), tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if output.ID == "" {
				t.Error("Expected non-empty ID")
			}
			if _, ok := server.store.Get(output.ID); !ok {
				t.Errorf("patient %s not stored", output.ID)
			}
		})
	}

	if got := server.store.Count(); got != 2 {
		t.Errorf("store count = %d, want 2", got)
	}
}

func TestHandleGetPatient(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	seedPatient(t, server, "P001", "John Smith", 35, "+1-555-0101", "john@example.com")

	_, view, err := server.handleGetPatient(ctx, &mcp.CallToolRequest{}, getPatientInput{ID: "P001"})
	if err != nil {
		t.Fatalf("handleGetPatient failed: %v", err)
	}
	if view.Name != "John Smith" || view.Age != 35 {
		t.Errorf("unexpected view: %+v", view)
	}
	if view.Phone == "+1-555-0101" {
		t.Error("expected masked phone by default")
	}
	if view.Address != "Not provided" {
		t.Errorf("Address = %q, want Not provided", view.Address)
	}

	_, view, err = server.handleGetPatient(ctx, &mcp.CallToolRequest{}, getPatientInput{ID: "P001", Reveal: true})
	if err != nil {
		t.Fatalf("handleGetPatient reveal failed: %v", err)
	}
	if view.Phone != "+1-555-0101" || view.Email != "john@example.com" {
		t.Errorf("expected revealed contact details, got %+v", view)
	}
}

func TestHandleGetPatientNotFound(t *testing.T) {
	server := setupTestServer(t)

	_, _, err := server.handleGetPatient(context.Background(), &mcp.CallToolRequest{}, getPatientInput{ID: "NOPE"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHandleListPatients(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleListPatients(ctx, &mcp.CallToolRequest{}, listPatientsInput{})
	if err != nil {
		t.Fatalf("handleListPatients failed: %v", err)
	}
	if out.Count != 0 || out.Patients == nil {
		t.Errorf("expected empty non-nil list, got %+v", out)
	}

	seedPatient(t, server, "P002", "B", 20, "+1-555-0002", "")
	seedPatient(t, server, "P001", "A", 30, "+1-555-0001", "")

	_, out, err = server.handleListPatients(ctx, &mcp.CallToolRequest{}, listPatientsInput{})
	if err != nil {
		t.Fatalf("handleListPatients failed: %v", err)
	}
	if out.Count != 2 || out.Patients[0].ID != "P002" || out.Patients[1].ID != "P001" {
		t.Errorf("expected insertion order [P002 P001], got %+v", out.Patients)
	}
}

func TestHandleUpdatePatient(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	seedPatient(t, server, "P001", "John Smith", 35, "+1-555-0101", "")

	_, _, err := server.handleUpdatePatient(ctx, &mcp.CallToolRequest{}, updatePatientInput{ID: "P001", Age: intPtr(36)})
	if err != nil {
		t.Fatalf("handleUpdatePatient failed: %v", err)
	}

	p, _ := server.store.Get("P001")
	if p.Age != 36 {
		t.Errorf("Age = %d, want 36", p.Age)
	}
	if p.Name != "John Smith" {
		t.Errorf("Name changed unexpectedly: %q", p.Name)
	}
}

func TestHandleUpdatePatientErrors(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	seedPatient(t, server, "P001", "John Smith", 35, "+1-555-0101", "")

	tests := []struct {
		name      string
		input     updatePatientInput
		errSubstr string
	}{
		{"no fields", updatePatientInput{ID: "P001"}, "no fields"},
		{"bad age", updatePatientInput{ID: "P001", Age: intPtr(-1)}, "age"},
		{"not found", updatePatientInput{ID: "P999", Name: strPtr("X")}, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := server.handleUpdatePatient(ctx, &mcp.CallToolRequest{}, tt.input)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errSubstr) {
				t.Errorf("Error %q does not contain %q", err.Error(), tt.errSubstr)
			}
		})
	}
}

func TestHandleDeletePatient(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	seedPatient(t, server, "P001", "John Smith", 35, "+1-555-0101", "")

	if _, _, err := server.handleDeletePatient(ctx, &mcp.CallToolRequest{}, patientIDInput{ID: "P001"}); err != nil {
		t.Fatalf("handleDeletePatient failed: %v", err)
	}
	if server.store.Count() != 0 {
		t.Error("expected patient to be deleted")
	}

	_, _, err := server.handleDeletePatient(ctx, &mcp.CallToolRequest{}, patientIDInput{ID: "P001"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestHandleSearchPatients(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	seedPatient(t, server, "P001", "John Smith", 35, "+1-555-0101", "john@example.com")
	seedPatient(t, server, "P002", "Jane Doe", 28, "+1-555-0102", "jane@example.com")

	tests := []struct {
		query string
		want  int
	}{
		{"john", 1},
		{"Doe", 1},
		{"0102", 1},
		{"example.com", 2},
		{"nobody", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			_, out, err := server.handleSearchPatients(ctx, &mcp.CallToolRequest{}, searchPatientsInput{Query: tt.query})
			if err != nil {
				t.Fatalf("handleSearchPatients failed: %v", err)
			}
			if out.Count != tt.want {
				t.Errorf("search %q: got %d results, want %d", tt.query, out.Count, tt.want)
			}
		})
	}
}

func TestHandleGetStatistics(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	for i, age := range []int{20, 30, 40, 60} {
		seedPatient(t, server, string(rune('A'+i)), "Patient", age, "+1-555-0100", "")
	}

	_, stats, err := server.handleGetStatistics(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("handleGetStatistics failed: %v", err)
	}
	if stats.TotalPatients != 4 || stats.AverageAge != 37.5 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.AgeDistribution["36-55"] != 2 {
		t.Errorf("36-55 bucket = %d, want 2", stats.AgeDistribution["36-55"])
	}
}

func TestHandlePatientsResource(t *testing.T) {
	server := setupTestServer(t)
	seedPatient(t, server, "P001", "John Smith", 35, "+1-555-0101", "john@example.com")

	result, err := server.handlePatientsResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handlePatientsResource failed: %v", err)
	}
	if len(result.Contents) != 1 || result.Contents[0].URI != patientsURI {
		t.Fatalf("unexpected contents: %+v", result.Contents)
	}

	text := result.Contents[0].Text
	if strings.Contains(text, "john@example.com") {
		t.Error("resource leaked unmasked email")
	}

	var out patientListOutput
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("resource is not valid JSON: %v", err)
	}
	if out.Count != 1 || out.Patients[0].ID != "P001" {
		t.Errorf("unexpected resource payload: %+v", out)
	}
}

func TestHandleStatisticsResourceEmpty(t *testing.T) {
	server := setupTestServer(t)

	result, err := server.handleStatisticsResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleStatisticsResource failed: %v", err)
	}

	var stats storage.Statistics
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &stats); err != nil {
		t.Fatalf("resource is not valid JSON: %v", err)
	}
	if stats.TotalPatients != 0 || len(stats.AgeDistribution) != 4 {
		t.Errorf("unexpected empty stats: %+v", stats)
	}
}
