package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/healthdesk/internal/insight"
	"github.com/claude/healthdesk/internal/storage"
)

// allowedRecordKeys is the set of onboarding-record fields accepted from
// clients. Anything else in the payload is dropped before storage.
var allowedRecordKeys = map[string]bool{
	"full_name": true, "age": true, "sex": true,
	"height": true, "weight": true,
	"blood_type": true, "allergies": true, "conditions": true, "medications": true,
	"medical_history": true, "past_reports": true, "prescriptions": true,
	"symptoms_current": true, "symptoms_past": true,
	"location": true,
	"smoking_status": true, "alcohol_consumption": true, "exercise_frequency": true,
	"diet_type": true, "sleep_hours": true, "stress_level": true,
	"family_history": true, "health_goals": true,
	"emergency_contact_name": true, "emergency_contact_phone": true,
	"blood_pressure": true, "heart_rate": true, "temperature_c": true, "spo2": true,
}

// doctorEditableKeys is the narrower field set a doctor may overwrite,
// plus free-form doctor notes.
var doctorEditableKeys = map[string]bool{
	"blood_pressure": true, "heart_rate": true, "temperature_c": true, "spo2": true,
	"height": true, "weight": true, "symptoms_current": true, "symptoms_past": true,
	"conditions": true, "medications": true, "allergies": true, "medical_history": true,
	"doctor_notes": true,
}

func filterRecord(raw insight.RawRecord, allowed map[string]bool) insight.RawRecord {
	out := insight.RawRecord{}
	for k, v := range raw {
		if allowed[k] {
			out[k] = v
		}
	}
	return out
}

// profilePayload is the full dashboard view of one patient: the stored
// profile plus everything the insight engine derives from its record.
// Derived data is computed on every read and never persisted.
type profilePayload struct {
	Profile         *storage.Profile         `json:"profile"`
	Snapshot        insight.Snapshot         `json:"snapshot"`
	Assessment      insight.Assessment       `json:"assessment"`
	Insights        []insight.Insight        `json:"insights"`
	Recommendations []insight.Recommendation `json:"recommendations"`
}

func derivePayload(p *storage.Profile) profilePayload {
	snap := insight.Normalize(p.OnboardingData)
	return profilePayload{
		Profile:         p,
		Snapshot:        snap,
		Assessment:      insight.Summarize(snap),
		Insights:        insight.BuildInsights(snap),
		Recommendations: insight.BuildRecommendations(snap),
	}
}

type onboardingRequest struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	var raw insight.RawRecord
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	// Identity travels in the same payload as the record; pull it out
	// before filtering.
	var req onboardingRequest
	if v, ok := raw["id"].(string); ok {
		if id, err := uuid.Parse(v); err == nil {
			req.ID = id
		}
	}
	if v, ok := raw["email"].(string); ok {
		req.Email = v
	}
	if req.ID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id must be a valid UUID"})
		return
	}

	fullName, _ := raw["full_name"].(string)
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "full_name is required"})
		return
	}

	record := filterRecord(raw, allowedRecordKeys)
	record["full_name"] = fullName

	profile, err := s.db.UpsertProfile(r.Context(), req.ID, req.Email, fullName, record)
	if err != nil {
		s.log.Error("onboarding upsert failed", "profile", req.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, derivePayload(profile))
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	profile, err := s.db.GetProfile(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, derivePayload(profile))
}

func (s *Server) handleGetInsights(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	profile, err := s.db.GetProfile(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}

	snap := insight.Normalize(profile.OnboardingData)
	writeJSON(w, http.StatusOK, map[string]any{
		"assessment":      insight.Summarize(snap),
		"insights":        insight.BuildInsights(snap),
		"recommendations": insight.BuildRecommendations(snap),
	})
}

func (s *Server) handlePatchRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	var raw insight.RawRecord
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	fields := filterRecord(raw, allowedRecordKeys)
	if len(fields) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no recognized record fields in payload"})
		return
	}

	profile, err := s.db.MergeOnboardingData(r.Context(), id, fields)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, derivePayload(profile))
}

// handleSetHealthSummary stores the externally generated narrative summary
// for a profile. The summary text is opaque to this service.
func (s *Server) handleSetHealthSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	var req struct {
		Summary string `json:"summary"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Summary) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "summary is required"})
		return
	}

	if err := s.db.SetHealthSummary(r.Context(), id, req.Summary); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// profileID parses the {id} URL parameter, writing a 400 on failure.
func profileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid profile ID"})
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
