package mcp

import (
	"context"

	"github.com/google/uuid"

	"github.com/claude/healthdesk/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via the doctor REST API) satisfy this interface.
type DataSource interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error)
	ListCompletedProfiles(ctx context.Context) ([]storage.Profile, error)
	ListMedicalRecords(ctx context.Context, profileID uuid.UUID) ([]storage.MedicalRecord, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
