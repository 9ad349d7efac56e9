package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/claude/healthdesk/internal/insight"
)

// Profile is a patient profile row. The onboarding record is stored as the
// raw JSON document the intake flow produced; normalization happens on
// read, never at rest.
type Profile struct {
	ID                  uuid.UUID         `json:"id"`
	Email               string            `json:"email"`
	FullName            string            `json:"full_name"`
	OnboardingCompleted bool              `json:"onboarding_completed"`
	OnboardingData      insight.RawRecord `json:"onboarding_data"`
	HealthSummary       string            `json:"health_summary"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// UpsertProfile creates or replaces a profile's onboarding record and
// marks onboarding complete.
func (db *DB) UpsertProfile(ctx context.Context, id uuid.UUID, email, fullName string, record insight.RawRecord) (*Profile, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encoding onboarding record: %w", err)
	}

	row := db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (id, email, full_name, onboarding_completed, onboarding_data)
		VALUES ($1, $2, $3, TRUE, $4)
		ON CONFLICT (id) DO UPDATE
			SET email = COALESCE(NULLIF($2, ''), profiles.email),
			    full_name = $3,
			    onboarding_completed = TRUE,
			    onboarding_data = $4,
			    updated_at = NOW()
		RETURNING id, email, full_name, onboarding_completed, onboarding_data, health_summary, created_at, updated_at`,
		id, email, fullName, data)
	return scanProfile(row)
}

// GetProfile fetches a profile by ID.
func (db *DB) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, email, full_name, onboarding_completed, onboarding_data, health_summary, created_at, updated_at
		FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("fetching profile %s: %w", id, err)
	}
	return p, nil
}

// ListCompletedProfiles returns all profiles that finished onboarding,
// newest first. Backs the doctor roster.
func (db *DB) ListCompletedProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, email, full_name, onboarding_completed, onboarding_data, health_summary, created_at, updated_at
		FROM profiles
		WHERE onboarding_completed
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// MergeOnboardingData overlays the given fields onto a profile's stored
// onboarding record and returns the updated profile. Used by the doctor
// edit path and by document extraction, both of which send partial
// records.
func (db *DB) MergeOnboardingData(ctx context.Context, id uuid.UUID, fields insight.RawRecord) (*Profile, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encoding record fields: %w", err)
	}

	row := db.Pool.QueryRow(ctx, `
		UPDATE profiles
		SET onboarding_data = onboarding_data || $2::jsonb, updated_at = NOW()
		WHERE id = $1
		RETURNING id, email, full_name, onboarding_completed, onboarding_data, health_summary, created_at, updated_at`,
		id, data)
	p, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("merging record for %s: %w", id, err)
	}
	return p, nil
}

// SetHealthSummary replaces a profile's stored health summary text.
func (db *DB) SetHealthSummary(ctx context.Context, id uuid.UUID, summary string) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE profiles SET health_summary = $2, updated_at = NOW() WHERE id = $1`,
		id, summary)
	if err != nil {
		return fmt.Errorf("updating health summary for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile %s not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	var p Profile
	var data []byte
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.OnboardingCompleted, &data,
		&p.HealthSummary, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &p.OnboardingData); err != nil {
			return nil, fmt.Errorf("decoding onboarding record: %w", err)
		}
	}
	if p.OnboardingData == nil {
		p.OnboardingData = insight.RawRecord{}
	}
	return &p, nil
}
