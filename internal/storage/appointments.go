package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Appointment is a hospital booking request made from the dashboard. The
// actual call to the hospital happens in an external service; this layer
// only tracks the request and its status.
type Appointment struct {
	ID              uuid.UUID  `json:"id"`
	ProfileID       uuid.UUID  `json:"profile_id"`
	HospitalName    string     `json:"hospital_name"`
	HospitalAddress string     `json:"hospital_address"`
	HospitalPhone   string     `json:"hospital_phone"`
	ScheduledDate   *time.Time `json:"scheduled_date,omitempty"`
	ScheduledTime   string     `json:"scheduled_time,omitempty"`
	DoctorName      string     `json:"doctor_name"`
	Department      string     `json:"department"`
	Purpose         string     `json:"purpose"`
	Notes           string     `json:"notes"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Appointment statuses.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentFailed    = "failed"
	AppointmentCancelled = "cancelled"
)

// CreateAppointment stores a new pending appointment request.
func (db *DB) CreateAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	row := db.Pool.QueryRow(ctx, `
		INSERT INTO appointments
			(id, profile_id, hospital_name, hospital_address, hospital_phone,
			 scheduled_date, scheduled_time, doctor_name, department, purpose, notes, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, profile_id, hospital_name, hospital_address, hospital_phone,
		          scheduled_date, scheduled_time, doctor_name, department, purpose, notes, status,
		          created_at, updated_at`,
		a.ID, a.ProfileID, a.HospitalName, a.HospitalAddress, a.HospitalPhone,
		a.ScheduledDate, a.ScheduledTime, a.DoctorName, a.Department, a.Purpose, a.Notes,
		AppointmentPending)
	out, err := scanAppointment(row)
	if err != nil {
		return nil, fmt.Errorf("creating appointment: %w", err)
	}
	return out, nil
}

// ListAppointments returns a profile's appointments, newest first.
func (db *DB) ListAppointments(ctx context.Context, profileID uuid.UUID) ([]Appointment, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, profile_id, hospital_name, hospital_address, hospital_phone,
		       scheduled_date, scheduled_time, doctor_name, department, purpose, notes, status,
		       created_at, updated_at
		FROM appointments
		WHERE profile_id = $1
		ORDER BY created_at DESC`, profileID)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// GetAppointment fetches an appointment by ID.
func (db *DB) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, profile_id, hospital_name, hospital_address, hospital_phone,
		       scheduled_date, scheduled_time, doctor_name, department, purpose, notes, status,
		       created_at, updated_at
		FROM appointments WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if err != nil {
		return nil, fmt.Errorf("fetching appointment %s: %w", id, err)
	}
	return a, nil
}

// CancelAppointment marks an appointment cancelled. Already-cancelled
// appointments stay cancelled; this is idempotent.
func (db *DB) CancelAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := db.Pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, profile_id, hospital_name, hospital_address, hospital_phone,
		          scheduled_date, scheduled_time, doctor_name, department, purpose, notes, status,
		          created_at, updated_at`,
		id, AppointmentCancelled)
	a, err := scanAppointment(row)
	if err != nil {
		return nil, fmt.Errorf("cancelling appointment %s: %w", id, err)
	}
	return a, nil
}

func scanAppointment(row rowScanner) (*Appointment, error) {
	var a Appointment
	if err := row.Scan(&a.ID, &a.ProfileID, &a.HospitalName, &a.HospitalAddress, &a.HospitalPhone,
		&a.ScheduledDate, &a.ScheduledTime, &a.DoctorName, &a.Department, &a.Purpose, &a.Notes,
		&a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
