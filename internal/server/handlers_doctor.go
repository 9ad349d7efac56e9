package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/healthdesk/internal/insight"
)

// rosterEntry is one row in the doctor's patient list: identity plus the
// fields a doctor triages by, including the derived risk level.
type rosterEntry struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	Age             *float64      `json:"age,omitempty"`
	Sex             string        `json:"sex,omitempty"`
	Conditions      string        `json:"conditions,omitempty"`
	CurrentSymptoms string        `json:"current_symptoms,omitempty"`
	RiskLevel       insight.Level `json:"risk_level"`
	AssignedAt      string        `json:"assigned_at"`
}

func (s *Server) handleDoctorPatients(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.db.ListCompletedProfiles(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	patients := make([]rosterEntry, 0, len(profiles))
	for _, p := range profiles {
		snap := insight.Normalize(p.OnboardingData)
		name := p.FullName
		if name == "" {
			name = p.Email
		}
		patients = append(patients, rosterEntry{
			ID:              p.ID.String(),
			Name:            name,
			Email:           p.Email,
			Age:             snap.Age,
			Sex:             snap.Sex,
			Conditions:      snap.Conditions,
			CurrentSymptoms: snap.SymptomsCurrent,
			RiskLevel:       insight.Summarize(snap).Level,
			AssignedAt:      p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"patients": patients})
}

func (s *Server) handleDoctorPatientDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	profile, err := s.db.GetProfile(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "patient not found"})
		return
	}
	records, err := s.db.ListMedicalRecords(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	payload := derivePayload(profile)
	writeJSON(w, http.StatusOK, map[string]any{
		"profile":         payload.Profile,
		"snapshot":        payload.Snapshot,
		"assessment":      payload.Assessment,
		"insights":        payload.Insights,
		"recommendations": payload.Recommendations,
		"records":         records,
	})
}

func (s *Server) handleDoctorUpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	var raw insight.RawRecord
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	fields := filterRecord(raw, doctorEditableKeys)
	if len(fields) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no editable fields in payload"})
		return
	}

	profile, err := s.db.MergeOnboardingData(r.Context(), id, fields)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "patient not found"})
		return
	}
	writeJSON(w, http.StatusOK, derivePayload(profile))
}
