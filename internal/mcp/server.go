package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("HealthDesk", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("HealthDesk patient data server. Query patient health records, derived risk assessments, insights, specialist recommendations, and medical documents. Patients are addressed by UUID; use list_patients to discover them."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListPatients, Handler: h.listPatients},
		server.ServerTool{Tool: toolGetPatientSnapshot, Handler: h.getPatientSnapshot},
		server.ServerTool{Tool: toolGetRiskAssessment, Handler: h.getRiskAssessment},
		server.ServerTool{Tool: toolGetInsights, Handler: h.getInsights},
		server.ServerTool{Tool: toolGetRecommendations, Handler: h.getRecommendations},
		server.ServerTool{Tool: toolGetMedicalRecords, Handler: h.getMedicalRecords},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRoster, Handler: h.roster},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRoster = mcp.NewResource(
	"healthdesk://roster",
	"Patient Roster",
	mcp.WithResourceDescription("All onboarded patients with their derived risk level, conditions, and current symptoms"),
	mcp.WithMIMEType("application/json"),
)
