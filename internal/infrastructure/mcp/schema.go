package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/felixgeelhaar/mcp-go"
)

// SchemaVersion is the current MCP tool schema version (semver).
const SchemaVersion = "1.0.0"

// SchemaURI is the resource describing the tool schema.
const SchemaURI = "velocity://schema"

// ToolNames lists every registered tool in registration order.
var ToolNames = []string{
	"velocity_team",
	"velocity_developer",
	"velocity_insights",
	"velocity_kpi",
	"velocity_eta_risk",
	"velocity_sprint",
}

type schemaResponse struct {
	SchemaVersion string   `json:"schema_version"`
	ServerVersion string   `json:"server_version"`
	Tools         []string `json:"tools"`
}

func (s *Server) schema() ([]byte, error) {
	return json.Marshal(schemaResponse{
		SchemaVersion: SchemaVersion,
		ServerVersion: Version,
		Tools:         ToolNames,
	})
}

func (s *Server) registerSchemaResource() {
	s.mcpServer.Resource(SchemaURI).
		Name(SchemaURI).
		Description("MCP tool schema version and tool list").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			data, err := s.schema()
			if err != nil {
				return nil, err
			}
			return &mcplib.ResourceContent{
				URI:      SchemaURI,
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})
}
