package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/healthdesk/internal/storage"
)

type createAppointmentRequest struct {
	HospitalName    string `json:"hospital_name"`
	HospitalAddress string `json:"hospital_address"`
	HospitalPhone   string `json:"hospital_phone"`
	ScheduledDate   string `json:"scheduled_date"` // YYYY-MM-DD
	ScheduledTime   string `json:"scheduled_time"`
	DoctorName      string `json:"doctor_name"`
	Department      string `json:"department"`
	Purpose         string `json:"purpose"`
	Notes           string `json:"notes"`
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.HospitalName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "hospital_name is required"})
		return
	}

	a := storage.Appointment{
		ProfileID:       id,
		HospitalName:    req.HospitalName,
		HospitalAddress: req.HospitalAddress,
		HospitalPhone:   req.HospitalPhone,
		ScheduledTime:   req.ScheduledTime,
		DoctorName:      req.DoctorName,
		Department:      req.Department,
		Purpose:         req.Purpose,
		Notes:           req.Notes,
	}
	if req.ScheduledDate != "" {
		d, err := time.Parse("2006-01-02", req.ScheduledDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scheduled_date must be YYYY-MM-DD"})
			return
		}
		a.ScheduledDate = &d
	}

	out, err := s.db.CreateAppointment(r.Context(), a)
	if err != nil {
		s.log.Error("appointment create failed", "profile", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	appts, err := s.db.ListAppointments(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

func (s *Server) handleGetAppointment(w http.ResponseWriter, r *http.Request) {
	apptID, ok := appointmentID(w, r)
	if !ok {
		return
	}
	appt, err := s.db.GetAppointment(r.Context(), apptID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "appointment not found"})
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (s *Server) handleCancelAppointment(w http.ResponseWriter, r *http.Request) {
	apptID, ok := appointmentID(w, r)
	if !ok {
		return
	}
	appt, err := s.db.CancelAppointment(r.Context(), apptID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "appointment not found"})
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func appointmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "apptID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid appointment ID"})
		return uuid.Nil, false
	}
	return id, true
}
