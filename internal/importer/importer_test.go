package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/claude/healthdesk/internal/insight"
	"github.com/claude/healthdesk/internal/storage"
)

// fakeStore records upserts and inserts in memory.
type fakeStore struct {
	profiles []insight.RawRecord
	records  []storage.MedicalRecord
}

func (f *fakeStore) UpsertProfile(_ context.Context, id uuid.UUID, email, fullName string, record insight.RawRecord) (*storage.Profile, error) {
	f.profiles = append(f.profiles, record)
	return &storage.Profile{ID: id, Email: email, FullName: fullName, OnboardingData: record}, nil
}

func (f *fakeStore) InsertMedicalRecord(_ context.Context, rec storage.MedicalRecord) (*storage.MedicalRecord, error) {
	f.records = append(f.records, rec)
	return &rec, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestParseExport covers validation: valid exports pass, exports with bad
// IDs or missing names are rejected, and numeric names coerce to strings.
func TestParseExport(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "valid",
			raw:  `{"id":"5ae37ba0-22ae-4f2f-b1a1-5ad8b0f1d3e2","email":"a@b.c","record":{"full_name":"Jo Smith","height":"170"}}`,
		},
		{
			name:    "bad id",
			raw:     `{"id":"nope","record":{"full_name":"Jo"}}`,
			wantErr: true,
		},
		{
			name:    "missing full_name",
			raw:     `{"id":"5ae37ba0-22ae-4f2f-b1a1-5ad8b0f1d3e2","record":{"height":"170"}}`,
			wantErr: true,
		},
		{
			name:    "whitespace full_name",
			raw:     `{"id":"5ae37ba0-22ae-4f2f-b1a1-5ad8b0f1d3e2","record":{"full_name":"   "}}`,
			wantErr: true,
		},
		{
			name: "numeric full_name coerces",
			raw:  `{"id":"5ae37ba0-22ae-4f2f-b1a1-5ad8b0f1d3e2","record":{"full_name":42}}`,
		},
		{
			name:    "not json",
			raw:     `{`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseExport([]byte(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.FullName == "" {
				t.Error("parsed export has empty full name")
			}
		})
	}
}

// TestImportDirectory verifies a directory walk: good files upsert, bad
// files are counted as errors, and medical records come along.
func TestImportDirectory(t *testing.T) {
	dir := t.TempDir()
	good := `{
		"id": "5ae37ba0-22ae-4f2f-b1a1-5ad8b0f1d3e2",
		"email": "jo@example.com",
		"record": {"full_name": "Jo Smith", "height": "170", "weight": 95},
		"medical_records": [
			{"category": "lab_reports", "title": "CBC panel", "record_date": "2026-01-15"}
		]
	}`
	if err := os.WriteFile(filepath.Join(dir, "jo.json"), []byte(good), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"id":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	f := &fakeStore{}
	imp := &Importer{db: f, log: discardLogger()}

	stats, err := imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.FilesProcessed != 1 || stats.FilesErrored != 1 {
		t.Errorf("processed=%d errored=%d, want 1/1", stats.FilesProcessed, stats.FilesErrored)
	}
	if stats.ProfilesUpserted != 1 {
		t.Errorf("profiles upserted = %d, want 1", stats.ProfilesUpserted)
	}
	if len(f.records) != 1 {
		t.Fatalf("records inserted = %d, want 1", len(f.records))
	}
	if f.records[0].RecordDate == nil {
		t.Error("record date was not parsed")
	}
	if f.records[0].SourceFilename != "jo.json" {
		t.Errorf("source filename = %q, want jo.json", f.records[0].SourceFilename)
	}
}

// TestImportDryRun verifies dry runs touch neither the store nor the state DB.
func TestImportDryRun(t *testing.T) {
	dir := t.TempDir()
	good := `{"id":"5ae37ba0-22ae-4f2f-b1a1-5ad8b0f1d3e2","record":{"full_name":"Jo"}}`
	if err := os.WriteFile(filepath.Join(dir, "jo.json"), []byte(good), 0o644); err != nil {
		t.Fatal(err)
	}

	f := &fakeStore{}
	imp := &Importer{db: f, log: discardLogger(), dryRun: true}

	stats, err := imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.FilesProcessed != 1 {
		t.Errorf("processed = %d, want 1", stats.FilesProcessed)
	}
	if len(f.profiles) != 0 {
		t.Errorf("dry run wrote %d profiles", len(f.profiles))
	}
}

// TestStateDBRoundTrip verifies the skip-on-rerun bookkeeping.
func TestStateDBRoundTrip(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("open state db: %v", err)
	}
	defer state.Close()

	done, err := state.IsImported("a.json", 10, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("fresh state db claims file imported")
	}

	if err := state.MarkImported("a.json", 10, "abc"); err != nil {
		t.Fatal(err)
	}

	done, err = state.IsImported("a.json", 10, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("marked file not reported as imported")
	}

	// A changed hash means re-import.
	done, err = state.IsImported("a.json", 10, "different")
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("changed hash should not count as imported")
	}
}

// TestImportSkipsSeenFiles verifies the second run over the same directory
// skips files recorded in the state DB.
func TestImportSkipsSeenFiles(t *testing.T) {
	dir := t.TempDir()
	good := `{"id":"5ae37ba0-22ae-4f2f-b1a1-5ad8b0f1d3e2","record":{"full_name":"Jo"}}`
	if err := os.WriteFile(filepath.Join(dir, "jo.json"), []byte(good), 0o644); err != nil {
		t.Fatal(err)
	}

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	f := &fakeStore{}
	first := &Importer{db: f, state: state, log: discardLogger()}
	if _, err := first.Import(context.Background(), dir); err != nil {
		t.Fatal(err)
	}

	second := &Importer{db: f, state: state, log: discardLogger()}
	stats, err := second.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSkipped != 1 || stats.FilesProcessed != 0 {
		t.Errorf("skipped=%d processed=%d, want 1/0", stats.FilesSkipped, stats.FilesProcessed)
	}
	if len(f.profiles) != 1 {
		t.Errorf("profiles upserted across runs = %d, want 1", len(f.profiles))
	}
}

// TestHashFile verifies hashing is stable and content-sensitive.
func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "f.json")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	h1, err := HashFile(p)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Error("hash not stable")
	}

	if err := os.WriteFile(p, []byte("hello!"), 0o644); err != nil {
		t.Fatal(err)
	}
	h3, err := HashFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if h3 == h1 {
		t.Error("hash did not change with content")
	}
}
