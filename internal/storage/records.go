package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is a stored document-derived record (lab report,
// prescription, imaging summary, ...) attached to a profile.
type MedicalRecord struct {
	ID             uuid.UUID       `json:"id"`
	ProfileID      uuid.UUID       `json:"profile_id"`
	Category       string          `json:"category"`
	Title          string          `json:"title"`
	Summary        string          `json:"summary"`
	Details        json.RawMessage `json:"details,omitempty"`
	Doctor         string          `json:"doctor"`
	Facility       string          `json:"facility"`
	RecordDate     *time.Time      `json:"record_date,omitempty"`
	Status         string          `json:"status"`
	SourceFilename string          `json:"source_filename"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Categories and statuses accepted for medical records. Anything else is
// stored under the fallback values rather than rejected.
const (
	RecordCategoryOther = "other"
	RecordStatusNormal  = "normal"
)

var recordCategories = map[string]bool{
	"lab_reports": true, "prescriptions": true, "diagnoses": true,
	"vitals": true, "imaging": true, "other": true,
}

var recordStatuses = map[string]bool{
	"normal": true, "attention": true, "critical": true,
}

// NormalizeRecordMeta maps unknown categories and statuses to their
// fallback values.
func NormalizeRecordMeta(category, status string) (string, string) {
	if !recordCategories[category] {
		category = RecordCategoryOther
	}
	if !recordStatuses[status] {
		status = RecordStatusNormal
	}
	return category, status
}

// InsertMedicalRecord stores a new record and returns it with its
// generated ID and timestamps.
func (db *DB) InsertMedicalRecord(ctx context.Context, rec MedicalRecord) (*MedicalRecord, error) {
	rec.Category, rec.Status = NormalizeRecordMeta(rec.Category, rec.Status)
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Details == nil {
		rec.Details = json.RawMessage(`{}`)
	}

	row := db.Pool.QueryRow(ctx, `
		INSERT INTO medical_records
			(id, profile_id, category, title, summary, details, doctor, facility, record_date, status, source_filename)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, profile_id, category, title, summary, details, doctor, facility, record_date, status, source_filename, created_at`,
		rec.ID, rec.ProfileID, rec.Category, rec.Title, rec.Summary, rec.Details,
		rec.Doctor, rec.Facility, rec.RecordDate, rec.Status, rec.SourceFilename)

	out, err := scanMedicalRecord(row)
	if err != nil {
		return nil, fmt.Errorf("inserting medical record: %w", err)
	}
	return out, nil
}

// ListMedicalRecords returns a profile's records, most recent first
// (record date, then creation time).
func (db *DB) ListMedicalRecords(ctx context.Context, profileID uuid.UUID) ([]MedicalRecord, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, profile_id, category, title, summary, details, doctor, facility, record_date, status, source_filename, created_at
		FROM medical_records
		WHERE profile_id = $1
		ORDER BY record_date DESC NULLS LAST, created_at DESC`, profileID)
	if err != nil {
		return nil, fmt.Errorf("listing medical records: %w", err)
	}
	defer rows.Close()

	var out []MedicalRecord
	for rows.Next() {
		rec, err := scanMedicalRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// DeleteMedicalRecord removes a record by ID.
func (db *DB) DeleteMedicalRecord(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM medical_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting medical record %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("medical record %s not found", id)
	}
	return nil
}

func scanMedicalRecord(row rowScanner) (*MedicalRecord, error) {
	var rec MedicalRecord
	if err := row.Scan(&rec.ID, &rec.ProfileID, &rec.Category, &rec.Title, &rec.Summary,
		&rec.Details, &rec.Doctor, &rec.Facility, &rec.RecordDate, &rec.Status,
		&rec.SourceFilename, &rec.CreatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}
