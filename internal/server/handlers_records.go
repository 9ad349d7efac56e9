package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/healthdesk/internal/storage"
)

type createRecordRequest struct {
	Category       string          `json:"category"`
	Title          string          `json:"title"`
	Summary        string          `json:"summary"`
	Details        json.RawMessage `json:"details"`
	Doctor         string          `json:"doctor"`
	Facility       string          `json:"facility"`
	RecordDate     string          `json:"record_date"` // YYYY-MM-DD
	Status         string          `json:"status"`
	SourceFilename string          `json:"source_filename"`
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	rec := storage.MedicalRecord{
		ProfileID:      id,
		Category:       req.Category,
		Title:          req.Title,
		Summary:        req.Summary,
		Details:        req.Details,
		Doctor:         req.Doctor,
		Facility:       req.Facility,
		Status:         req.Status,
		SourceFilename: req.SourceFilename,
	}
	if req.RecordDate != "" {
		d, err := time.Parse("2006-01-02", req.RecordDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "record_date must be YYYY-MM-DD"})
			return
		}
		rec.RecordDate = &d
	}

	out, err := s.db.InsertMedicalRecord(r.Context(), rec)
	if err != nil {
		s.log.Error("record insert failed", "profile", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	records, err := s.db.ListMedicalRecords(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	recordID, err := uuid.Parse(chi.URLParam(r, "recordID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid record ID"})
		return
	}
	if err := s.db.DeleteMedicalRecord(r.Context(), recordID); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "record not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
