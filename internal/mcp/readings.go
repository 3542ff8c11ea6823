// ABOUTME: MCP tools for clinical readings recorded against patients.
// ABOUTME: Provides add, list, update, and delete reading tools.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/clinic/internal/models"
	"github.com/harperreed/clinic/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerReadingTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_reading",
		Description: "Record a clinical reading (component name and value) for a patient; measured time defaults to now",
	}, s.handleAddReading)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_readings",
		Description: "List a patient's readings; with component_name, only that component newest first",
	}, s.handleListReadings)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_reading",
		Description: "Update selected fields of a reading; omitted fields are left unchanged",
	}, s.handleUpdateReading)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_reading",
		Description: "Delete a reading by ID",
	}, s.handleDeleteReading)
}

type addReadingInput struct {
	PatientID  string `json:"patient_id" jsonschema:"the patient ID"`
	Component  string `json:"component_name" jsonschema:"what was measured, e.g. heart_rate or blood_pressure"`
	Value      string `json:"component_value" jsonschema:"the measured value as text, e.g. 72 or 120/80"`
	MeasuredAt string `json:"measured_at,omitempty" jsonschema:"ISO 8601 time of measurement; defaults to now"`
}

type listReadingsInput struct {
	PatientID string `json:"patient_id" jsonschema:"the patient ID"`
	Component string `json:"component_name,omitempty" jsonschema:"only list readings of this component, newest first"`
}

type updateReadingInput struct {
	ID         string  `json:"reading_id" jsonschema:"the reading ID"`
	Component  *string `json:"component_name,omitempty" jsonschema:"new component name"`
	Value      *string `json:"component_value,omitempty" jsonschema:"new value"`
	MeasuredAt *string `json:"measured_at,omitempty" jsonschema:"new ISO 8601 time of measurement"`
}

type readingIDInput struct {
	ID string `json:"reading_id" jsonschema:"the reading ID"`
}

type readingView struct {
	ID         string `json:"reading_id"`
	PatientID  string `json:"patient_id"`
	Component  string `json:"component_name"`
	Value      string `json:"component_value"`
	MeasuredAt string `json:"measured_at"`
}

type readingListOutput struct {
	PatientID string        `json:"patient_id"`
	Count     int           `json:"count"`
	Readings  []readingView `json:"readings"`
}

type readingOutput struct {
	ID      string `json:"reading_id"`
	Message string `json:"message"`
}

func readingViewOf(r *models.Reading) readingView {
	return readingView{
		ID:         r.ID,
		PatientID:  r.PatientID,
		Component:  r.Component,
		Value:      r.Value,
		MeasuredAt: storage.FormatTimestamp(r.MeasuredAt),
	}
}

func parseMeasuredAt(s string) (time.Time, error) {
	t, err := storage.ParseTimestamp(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid measured_at: %w", err)
	}
	return t, nil
}

func (s *Server) handleAddReading(ctx context.Context, req *mcp.CallToolRequest, input addReadingInput) (*mcp.CallToolResult, readingOutput, error) {
	r := models.NewReading(input.Component, input.Value)
	if input.MeasuredAt != "" {
		t, err := parseMeasuredAt(input.MeasuredAt)
		if err != nil {
			return nil, readingOutput{}, err
		}
		r.WithMeasuredAt(t)
	}

	added, err := s.store.AddReading(input.PatientID, r)
	if !added {
		if err != nil {
			return nil, readingOutput{}, err
		}
		return nil, readingOutput{}, fmt.Errorf("%w: %s", storage.ErrNotFound, input.PatientID)
	}
	if err != nil {
		return nil, readingOutput{}, fmt.Errorf("reading %s added but not saved: %w", r.ID, err)
	}

	return nil, readingOutput{
		ID:      r.ID,
		Message: fmt.Sprintf("Added %s reading for patient %s (ID: %s)", r.Component, input.PatientID, r.ID),
	}, nil
}

func (s *Server) handleListReadings(ctx context.Context, req *mcp.CallToolRequest, input listReadingsInput) (*mcp.CallToolResult, readingListOutput, error) {
	readings, ok := s.store.Readings(input.PatientID, input.Component)
	if !ok {
		return nil, readingListOutput{}, fmt.Errorf("%w: %s", storage.ErrNotFound, input.PatientID)
	}

	out := readingListOutput{
		PatientID: input.PatientID,
		Count:     len(readings),
		Readings:  make([]readingView, 0, len(readings)),
	}
	for _, r := range readings {
		out.Readings = append(out.Readings, readingViewOf(r))
	}
	return nil, out, nil
}

func (s *Server) handleUpdateReading(ctx context.Context, req *mcp.CallToolRequest, input updateReadingInput) (*mcp.CallToolResult, readingOutput, error) {
	u := models.ReadingUpdate{Component: input.Component, Value: input.Value}
	if input.MeasuredAt != nil && *input.MeasuredAt != "" {
		t, err := parseMeasuredAt(*input.MeasuredAt)
		if err != nil {
			return nil, readingOutput{}, err
		}
		u.MeasuredAt = &t
	}
	if u.IsEmpty() {
		return nil, readingOutput{}, fmt.Errorf("no fields to update")
	}

	found, err := s.store.UpdateReading(input.ID, u)
	if !found {
		if err != nil {
			return nil, readingOutput{}, err
		}
		return nil, readingOutput{}, fmt.Errorf("%w: %s", storage.ErrReadingNotFound, input.ID)
	}
	if err != nil {
		return nil, readingOutput{}, fmt.Errorf("reading %s updated but not saved: %w", input.ID, err)
	}

	return nil, readingOutput{
		ID:      input.ID,
		Message: fmt.Sprintf("Updated reading %s", input.ID),
	}, nil
}

func (s *Server) handleDeleteReading(ctx context.Context, req *mcp.CallToolRequest, input readingIDInput) (*mcp.CallToolResult, readingOutput, error) {
	found, err := s.store.DeleteReading(input.ID)
	if !found {
		return nil, readingOutput{}, fmt.Errorf("%w: %s", storage.ErrReadingNotFound, input.ID)
	}
	if err != nil {
		return nil, readingOutput{}, fmt.Errorf("reading %s deleted but not saved: %w", input.ID, err)
	}

	return nil, readingOutput{
		ID:      input.ID,
		Message: fmt.Sprintf("Deleted reading %s", input.ID),
	}, nil
}
