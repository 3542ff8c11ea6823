// ABOUTME: MCP resource implementations for patient records.
// ABOUTME: Provides clinic://patients and clinic://statistics resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/clinic/internal/display"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	patientsURI   = "clinic://patients"
	statisticsURI = "clinic://statistics"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         patientsURI,
		Name:        "Patients",
		Description: "All patients with contact details masked",
		MIMEType:    "application/json",
	}, s.handlePatientsResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         statisticsURI,
		Name:        "Patient Statistics",
		Description: "Patient count, average age, and age distribution",
		MIMEType:    "application/json",
	}, s.handleStatisticsResource)
}

// Resource handlers

func (s *Server) handlePatientsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(patientsURI, listOf(s.store.List(), display.Options{}))
}

func (s *Server) handleStatisticsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(statisticsURI, s.store.Statistics())
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
