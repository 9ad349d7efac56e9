package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/healthdesk/internal/insight"
	"github.com/claude/healthdesk/internal/storage"
)

// fakeSource is an in-memory DataSource for handler tests.
type fakeSource struct {
	profiles map[uuid.UUID]*storage.Profile
	records  map[uuid.UUID][]storage.MedicalRecord
}

func (f *fakeSource) GetProfile(_ context.Context, id uuid.UUID) (*storage.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, errors.New("profile not found")
	}
	return p, nil
}

func (f *fakeSource) ListCompletedProfiles(_ context.Context) ([]storage.Profile, error) {
	out := make([]storage.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeSource) ListMedicalRecords(_ context.Context, id uuid.UUID) ([]storage.MedicalRecord, error) {
	return f.records[id], nil
}

func testHandlers(f *fakeSource) *handlers {
	return &handlers{
		ds:  f,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// resultText extracts the text payload from a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

// TestPatientIDValidation verifies tools reject missing and malformed
// patient_id arguments without touching the data source.
func TestPatientIDValidation(t *testing.T) {
	h := testHandlers(&fakeSource{})

	cases := []struct {
		name string
		args map[string]any
	}{
		{"missing", map[string]any{}},
		{"not a uuid", map[string]any{"patient_id": "abc"}},
	}
	for _, tc := range cases {
		result, err := h.getRiskAssessment(context.Background(), callRequest(tc.args))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !result.IsError {
			t.Errorf("%s: expected error result", tc.name)
		}
	}
}

// TestGetRiskAssessment verifies the tool normalizes the stored record and
// returns the derived assessment.
func TestGetRiskAssessment(t *testing.T) {
	id := uuid.New()
	f := &fakeSource{profiles: map[uuid.UUID]*storage.Profile{
		id: {
			ID:       id,
			FullName: "Test Patient",
			OnboardingData: insight.RawRecord{
				"height":         "170",
				"weight":         95,
				"sleep_hours":    5,
				"stress_level":   "high",
				"smoking_status": "regular",
			},
		},
	}}
	h := testHandlers(f)

	result, err := h.getRiskAssessment(context.Background(), callRequest(map[string]any{"patient_id": id.String()}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	var a insight.Assessment
	if err := json.Unmarshal([]byte(resultText(t, result)), &a); err != nil {
		t.Fatalf("decode assessment: %v", err)
	}
	if a.Level != insight.LevelAction {
		t.Errorf("level = %q, want action", a.Level)
	}
	if a.BMI == nil || *a.BMI != 32.9 {
		t.Errorf("bmi = %v, want 32.9", a.BMI)
	}
}

// TestGetPatientSnapshotUnknown verifies a lookup failure surfaces as a tool
// error result, not a protocol error.
func TestGetPatientSnapshotUnknown(t *testing.T) {
	h := testHandlers(&fakeSource{profiles: map[uuid.UUID]*storage.Profile{}})

	result, err := h.getPatientSnapshot(context.Background(), callRequest(map[string]any{"patient_id": uuid.New().String()}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for unknown patient")
	}
}

// TestListPatients verifies roster entries carry the derived risk level and
// fall back to the email when the name is blank.
func TestListPatients(t *testing.T) {
	id := uuid.New()
	f := &fakeSource{profiles: map[uuid.UUID]*storage.Profile{
		id: {
			ID:             id,
			Email:          "pat@example.com",
			OnboardingData: insight.RawRecord{"smoking_status": "regular", "stress_level": "high", "sleep_hours": 5},
		},
	}}
	h := testHandlers(f)

	result, err := h.listPatients(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var roster []rosterPatient
	if err := json.Unmarshal([]byte(resultText(t, result)), &roster); err != nil {
		t.Fatalf("decode roster: %v", err)
	}
	if len(roster) != 1 {
		t.Fatalf("roster size = %d, want 1", len(roster))
	}
	if roster[0].Name != "pat@example.com" {
		t.Errorf("name = %q, want email fallback", roster[0].Name)
	}
	if roster[0].RiskLevel != insight.LevelAction {
		t.Errorf("risk level = %q, want action", roster[0].RiskLevel)
	}
}

// TestGetMedicalRecords verifies records pass through from the data source.
func TestGetMedicalRecords(t *testing.T) {
	id := uuid.New()
	f := &fakeSource{
		profiles: map[uuid.UUID]*storage.Profile{id: {ID: id}},
		records: map[uuid.UUID][]storage.MedicalRecord{
			id: {{Title: "CBC panel", Category: "lab_reports"}},
		},
	}
	h := testHandlers(f)

	result, err := h.getMedicalRecords(context.Background(), callRequest(map[string]any{"patient_id": id.String()}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var records []storage.MedicalRecord
	if err := json.Unmarshal([]byte(resultText(t, result)), &records); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(records) != 1 || records[0].Title != "CBC panel" {
		t.Errorf("records = %v, want one CBC panel entry", records)
	}
}
