// ABOUTME: MCP tool implementations for patient records.
// ABOUTME: Provides add, get, list, update, delete, search, and statistics tools.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/clinic/internal/display"
	"github.com/harperreed/clinic/internal/models"
	"github.com/harperreed/clinic/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_patient",
		Description: "Register a new patient record",
	}, s.handleAddPatient)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_patient",
		Description: "Get one patient by ID",
	}, s.handleGetPatient)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_patients",
		Description: "List all patients in registration order",
	}, s.handleListPatients)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_patient",
		Description: "Update selected fields of a patient; omitted fields are left unchanged",
	}, s.handleUpdatePatient)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_patient",
		Description: "Delete a patient by ID",
	}, s.handleDeletePatient)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "search_patients",
		Description: "Find patients whose name, phone, or email contains the query",
	}, s.handleSearchPatients)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_statistics",
		Description: "Get patient count, average age, and age distribution",
	}, s.handleGetStatistics)

	s.registerReadingTools()
}

// Tool input/output types

type addPatientInput struct {
	ID             string `json:"patient_id,omitempty" jsonschema:"patient ID; generated when omitted"`
	Name           string `json:"name" jsonschema:"full name"`
	Age            int    `json:"age" jsonschema:"age in years (0-150)"`
	Phone          string `json:"phone_number" jsonschema:"phone number"`
	Email          string `json:"email,omitempty" jsonschema:"email address"`
	Address        string `json:"address,omitempty" jsonschema:"postal address"`
	MedicalHistory string `json:"medical_history,omitempty" jsonschema:"medical history notes"`
}

type patientIDInput struct {
	ID string `json:"patient_id" jsonschema:"the patient ID"`
}

type getPatientInput struct {
	ID     string `json:"patient_id" jsonschema:"the patient ID"`
	Reveal bool   `json:"reveal,omitempty" jsonschema:"show contact details, address, and history unmasked"`
}

type listPatientsInput struct {
	Reveal bool `json:"reveal,omitempty" jsonschema:"show phone and email unmasked"`
}

type updatePatientInput struct {
	ID             string  `json:"patient_id" jsonschema:"the patient ID"`
	Name           *string `json:"name,omitempty" jsonschema:"new full name"`
	Age            *int    `json:"age,omitempty" jsonschema:"new age in years (0-150)"`
	Phone          *string `json:"phone_number,omitempty" jsonschema:"new phone number"`
	Email          *string `json:"email,omitempty" jsonschema:"new email address"`
	Address        *string `json:"address,omitempty" jsonschema:"new postal address"`
	MedicalHistory *string `json:"medical_history,omitempty" jsonschema:"new medical history notes"`
}

type searchPatientsInput struct {
	Query  string `json:"query" jsonschema:"text to match against name, phone, and email"`
	Reveal bool   `json:"reveal,omitempty" jsonschema:"show phone and email unmasked"`
}

type emptyInput struct{}

type patientView struct {
	ID             string `json:"patient_id"`
	Name           string `json:"name"`
	Age            int    `json:"age"`
	Phone          string `json:"phone_number"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	MedicalHistory string `json:"medical_history"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type patientListOutput struct {
	Count    int           `json:"count"`
	Patients []patientView `json:"patients"`
}

type simpleOutput struct {
	ID      string `json:"patient_id"`
	Message string `json:"message"`
}

func viewOf(p *models.Patient, opts display.Options) patientView {
	return patientView{
		ID:             p.ID,
		Name:           p.Name,
		Age:            p.Age,
		Phone:          opts.Contact(p.Phone),
		Email:          opts.OptionalContact(p.Email),
		Address:        opts.Address(p.Address),
		MedicalHistory: opts.History(p.Notes),
		CreatedAt:      storage.FormatTimestamp(p.CreatedAt),
		UpdatedAt:      storage.FormatTimestamp(p.UpdatedAt),
	}
}

func listOf(patients []*models.Patient, opts display.Options) patientListOutput {
	out := patientListOutput{Count: len(patients), Patients: make([]patientView, 0, len(patients))}
	for _, p := range patients {
		out.Patients = append(out.Patients, viewOf(p, opts))
	}
	return out
}

// Tool handlers

func (s *Server) handleAddPatient(ctx context.Context, req *mcp.CallToolRequest, input addPatientInput) (*mcp.CallToolResult, simpleOutput, error) {
	id := input.ID
	if id == "" {
		id = models.NewPatientID()
	}

	p := models.NewPatient(id, input.Name, input.Age, input.Phone).
		WithEmail(input.Email).
		WithAddress(input.Address).
		WithNotes(input.MedicalHistory)
	if err := p.Validate(); err != nil {
		return nil, simpleOutput{}, err
	}

	added, err := s.store.Add(p)
	if !added {
		return nil, simpleOutput{}, fmt.Errorf("%w: %s", storage.ErrDuplicateID, id)
	}
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("patient %s added but not saved: %w", id, err)
	}

	return nil, simpleOutput{
		ID:      id,
		Message: fmt.Sprintf("Added patient %s (ID: %s)", p.Name, id),
	}, nil
}

func (s *Server) handleGetPatient(ctx context.Context, req *mcp.CallToolRequest, input getPatientInput) (*mcp.CallToolResult, patientView, error) {
	p, ok := s.store.Get(input.ID)
	if !ok {
		return nil, patientView{}, fmt.Errorf("%w: %s", storage.ErrNotFound, input.ID)
	}
	return nil, viewOf(p, display.Options{Reveal: input.Reveal}), nil
}

func (s *Server) handleListPatients(ctx context.Context, req *mcp.CallToolRequest, input listPatientsInput) (*mcp.CallToolResult, patientListOutput, error) {
	return nil, listOf(s.store.List(), display.Options{Reveal: input.Reveal}), nil
}

func (s *Server) handleUpdatePatient(ctx context.Context, req *mcp.CallToolRequest, input updatePatientInput) (*mcp.CallToolResult, simpleOutput, error) {
	u := models.PatientUpdate{
		Name:    input.Name,
		Age:     input.Age,
		Phone:   input.Phone,
		Email:   input.Email,
		Address: input.Address,
		Notes:   input.MedicalHistory,
	}
	if u.IsEmpty() {
		return nil, simpleOutput{}, fmt.Errorf("no fields to update")
	}
	if u.Age != nil {
		if err := models.ValidateAge(*u.Age); err != nil {
			return nil, simpleOutput{}, err
		}
	}

	found, err := s.store.Update(input.ID, u)
	if !found {
		return nil, simpleOutput{}, fmt.Errorf("%w: %s", storage.ErrNotFound, input.ID)
	}
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("patient %s updated but not saved: %w", input.ID, err)
	}

	return nil, simpleOutput{
		ID:      input.ID,
		Message: fmt.Sprintf("Updated patient %s", input.ID),
	}, nil
}

func (s *Server) handleDeletePatient(ctx context.Context, req *mcp.CallToolRequest, input patientIDInput) (*mcp.CallToolResult, simpleOutput, error) {
	found, err := s.store.Delete(input.ID)
	if !found {
		return nil, simpleOutput{}, fmt.Errorf("%w: %s", storage.ErrNotFound, input.ID)
	}
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("patient %s deleted but not saved: %w", input.ID, err)
	}

	return nil, simpleOutput{
		ID:      input.ID,
		Message: fmt.Sprintf("Deleted patient %s", input.ID),
	}, nil
}

func (s *Server) handleSearchPatients(ctx context.Context, req *mcp.CallToolRequest, input searchPatientsInput) (*mcp.CallToolResult, patientListOutput, error) {
	return nil, listOf(s.store.Search(input.Query), display.Options{Reveal: input.Reveal}), nil
}

func (s *Server) handleGetStatistics(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, storage.Statistics, error) {
	return nil, s.store.Statistics(), nil
}
