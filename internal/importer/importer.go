package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/claude/healthdesk/internal/insight"
	"github.com/claude/healthdesk/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed   int
	FilesSkipped     int
	FilesErrored     int
	ProfilesUpserted int
	RecordsInserted  int

	RejectedFiles []string
}

// store is the subset of the storage layer the importer writes through.
type store interface {
	UpsertProfile(ctx context.Context, id uuid.UUID, email, fullName string, record insight.RawRecord) (*storage.Profile, error)
	InsertMedicalRecord(ctx context.Context, rec storage.MedicalRecord) (*storage.MedicalRecord, error)
}

// Importer reads patient export files from a directory and upserts them
// into the database, tracking processed files in a local state DB.
type Importer struct {
	db     store
	state  *StateDB
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer. state may be nil, in which case every file is
// processed on every run.
func New(db *storage.DB, state *StateDB, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, state: state, log: log, dryRun: dryRun}
}

// exportFile is one patient export: identity, the raw onboarding record,
// and optionally the patient's medical records.
type exportFile struct {
	ID             string                `json:"id"`
	Email          string                `json:"email"`
	Record         insight.RawRecord     `json:"record"`
	MedicalRecords []exportMedicalRecord `json:"medical_records"`
}

type exportMedicalRecord struct {
	Category   string          `json:"category"`
	Title      string          `json:"title"`
	Summary    string          `json:"summary"`
	Details    json.RawMessage `json:"details"`
	Doctor     string          `json:"doctor"`
	Facility   string          `json:"facility"`
	RecordDate string          `json:"record_date"` // YYYY-MM-DD
	Status     string          `json:"status"`
}

// parsedExport is a validated export file ready for storage.
type parsedExport struct {
	ID       uuid.UUID
	Email    string
	FullName string
	Record   insight.RawRecord
	Records  []exportMedicalRecord
}

// parseExport decodes and validates one export file. The full name must
// survive normalization; exports without one are rejected.
func parseExport(data []byte) (*parsedExport, error) {
	var ef exportFile
	if err := json.Unmarshal(data, &ef); err != nil {
		return nil, fmt.Errorf("parsing export: %w", err)
	}

	id, err := uuid.Parse(ef.ID)
	if err != nil {
		return nil, fmt.Errorf("export has invalid id %q", ef.ID)
	}

	snap := insight.Normalize(ef.Record)
	if snap.FullName == "" {
		return nil, fmt.Errorf("export %s has no usable full_name", ef.ID)
	}

	return &parsedExport{
		ID:       id,
		Email:    ef.Email,
		FullName: snap.FullName,
		Record:   ef.Record,
		Records:  ef.MedicalRecords,
	}, nil
}

// Import processes all .json export files under dir.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return &imp.stats, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(files)

	for _, f := range files {
		if err := imp.importFile(ctx, f); err != nil {
			imp.log.Warn("import failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			imp.stats.RejectedFiles = append(imp.stats.RejectedFiles, filepath.Base(f))
		}
	}

	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	rel := filepath.Base(path)
	var hash string
	if imp.state != nil {
		hash, err = HashFile(path)
		if err != nil {
			return fmt.Errorf("hashing %s: %w", path, err)
		}
		done, err := imp.state.IsImported(rel, info.Size(), hash)
		if err != nil {
			return fmt.Errorf("checking state for %s: %w", path, err)
		}
		if done {
			imp.stats.FilesSkipped++
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	export, err := parseExport(data)
	if err != nil {
		return err
	}

	if imp.dryRun {
		imp.log.Info("would import", "file", rel, "patient", export.ID, "records", len(export.Records))
		imp.stats.FilesProcessed++
		return nil
	}

	if _, err := imp.db.UpsertProfile(ctx, export.ID, export.Email, export.FullName, export.Record); err != nil {
		return fmt.Errorf("upserting profile %s: %w", export.ID, err)
	}
	imp.stats.ProfilesUpserted++

	for _, mr := range export.Records {
		rec := storage.MedicalRecord{
			ProfileID:      export.ID,
			Category:       mr.Category,
			Title:          mr.Title,
			Summary:        mr.Summary,
			Details:        mr.Details,
			Doctor:         mr.Doctor,
			Facility:       mr.Facility,
			Status:         mr.Status,
			SourceFilename: rel,
		}
		if mr.RecordDate != "" {
			d, err := time.Parse("2006-01-02", mr.RecordDate)
			if err != nil {
				imp.log.Warn("record has bad date, storing without one", "file", rel, "date", mr.RecordDate)
			} else {
				rec.RecordDate = &d
			}
		}
		if _, err := imp.db.InsertMedicalRecord(ctx, rec); err != nil {
			return fmt.Errorf("inserting record %q for %s: %w", mr.Title, export.ID, err)
		}
		imp.stats.RecordsInserted++
	}

	if imp.state != nil {
		if err := imp.state.MarkImported(rel, info.Size(), hash); err != nil {
			return fmt.Errorf("marking %s imported: %w", path, err)
		}
	}

	imp.stats.FilesProcessed++
	imp.log.Info("imported", "file", rel, "patient", export.ID, "records", len(export.Records))
	return nil
}
