package mcp

import (
	"context"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/healthdesk/internal/insight"
	"github.com/claude/healthdesk/internal/storage"
)

// --- Tool definitions ---

var toolListPatients = mcp.NewTool("list_patients",
	mcp.WithDescription("List all onboarded patients with their derived risk level. Returns identity, key triage fields, and the overall risk level (good/watch/action) for each patient."),
)

var toolGetPatientSnapshot = mcp.NewTool("get_patient_snapshot",
	mcp.WithDescription("Get a patient's normalized health snapshot: demographics, vitals, lifestyle, and history fields after type coercion. Absent fields are omitted."),
	mcp.WithString("patient_id", mcp.Required(), mcp.Description("Patient UUID")),
)

var toolGetRiskAssessment = mcp.NewTool("get_risk_assessment",
	mcp.WithDescription("Get a patient's risk assessment: overall level (good/watch/action), summary sentence, BMI, and the list of triggered risk reasons."),
	mcp.WithString("patient_id", mcp.Required(), mcp.Description("Patient UUID")),
)

var toolGetInsights = mcp.NewTool("get_insights",
	mcp.WithDescription("Get a patient's health insight cards. Each card has a title, detail, suggested action, and severity (low/medium/high). The overall status card is always first."),
	mcp.WithString("patient_id", mcp.Required(), mcp.Description("Patient UUID")),
)

var toolGetRecommendations = mcp.NewTool("get_recommendations",
	mcp.WithDescription("Get a patient's specialist referral recommendations (cardiology, pulmonology, endocrinology, behavioral health) with urgency levels. At most four, one per specialty."),
	mcp.WithString("patient_id", mcp.Required(), mcp.Description("Patient UUID")),
)

var toolGetMedicalRecords = mcp.NewTool("get_medical_records",
	mcp.WithDescription("List a patient's medical records (lab results, prescriptions, imaging, visit notes), newest first."),
	mcp.WithString("patient_id", mcp.Required(), mcp.Description("Patient UUID")),
)

// patientID extracts and parses the required patient_id argument.
func patientID(req mcp.CallToolRequest) (uuid.UUID, *mcp.CallToolResult) {
	raw, err := req.RequireString("patient_id")
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError("patient_id parameter is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError("patient_id must be a valid UUID")
	}
	return id, nil
}

// loadSnapshot fetches a patient's profile and normalizes its record.
func (h *handlers) loadSnapshot(ctx context.Context, id uuid.UUID) (insight.Snapshot, error) {
	profile, err := h.ds.GetProfile(ctx, id)
	if err != nil {
		return insight.Snapshot{}, err
	}
	return insight.Normalize(profile.OnboardingData), nil
}

// --- Tool handlers ---

// rosterPatient is one entry in the list_patients / roster output.
type rosterPatient struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Email           string        `json:"email,omitempty"`
	Conditions      string        `json:"conditions,omitempty"`
	CurrentSymptoms string        `json:"current_symptoms,omitempty"`
	RiskLevel       insight.Level `json:"risk_level"`
}

func buildRoster(profiles []storage.Profile) []rosterPatient {
	out := make([]rosterPatient, 0, len(profiles))
	for _, p := range profiles {
		snap := insight.Normalize(p.OnboardingData)
		name := p.FullName
		if name == "" {
			name = p.Email
		}
		out = append(out, rosterPatient{
			ID:              p.ID.String(),
			Name:            name,
			Email:           p.Email,
			Conditions:      snap.Conditions,
			CurrentSymptoms: snap.SymptomsCurrent,
			RiskLevel:       insight.Summarize(snap).Level,
		})
	}
	return out
}

func (h *handlers) listPatients(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profiles, err := h.ds.ListCompletedProfiles(ctx)
	if err != nil {
		h.log.Error("mcp list_patients", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(buildRoster(profiles))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPatientSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := patientID(req)
	if errResult != nil {
		return errResult, nil
	}

	snap, err := h.loadSnapshot(ctx, id)
	if err != nil {
		h.log.Error("mcp get_patient_snapshot", "patient", id, "error", err)
		return mcp.NewToolResultError("patient lookup failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(snap)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRiskAssessment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := patientID(req)
	if errResult != nil {
		return errResult, nil
	}

	snap, err := h.loadSnapshot(ctx, id)
	if err != nil {
		h.log.Error("mcp get_risk_assessment", "patient", id, "error", err)
		return mcp.NewToolResultError("patient lookup failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(insight.Summarize(snap))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getInsights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := patientID(req)
	if errResult != nil {
		return errResult, nil
	}

	snap, err := h.loadSnapshot(ctx, id)
	if err != nil {
		h.log.Error("mcp get_insights", "patient", id, "error", err)
		return mcp.NewToolResultError("patient lookup failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(insight.BuildInsights(snap))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecommendations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := patientID(req)
	if errResult != nil {
		return errResult, nil
	}

	snap, err := h.loadSnapshot(ctx, id)
	if err != nil {
		h.log.Error("mcp get_recommendations", "patient", id, "error", err)
		return mcp.NewToolResultError("patient lookup failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(insight.BuildRecommendations(snap))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMedicalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := patientID(req)
	if errResult != nil {
		return errResult, nil
	}

	records, err := h.ds.ListMedicalRecords(ctx, id)
	if err != nil {
		h.log.Error("mcp get_medical_records", "patient", id, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
