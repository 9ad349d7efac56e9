package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/healthdesk/internal/storage"
)

// HTTPClient implements DataSource by calling the HealthDesk doctor REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but patient
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL     string
	apiKey      string
	doctorToken string
	httpClient  *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL with the
// given credentials.
func NewHTTPClient(baseURL, apiKey, doctorToken string) *HTTPClient {
	return &HTTPClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		doctorToken: doctorToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Authorization", "Doctor "+c.doctorToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

// patientDetail mirrors the doctor patient-detail response shape.
type patientDetail struct {
	Profile *storage.Profile        `json:"profile"`
	Records []storage.MedicalRecord `json:"records"`
}

func (c *HTTPClient) patientDetail(ctx context.Context, id uuid.UUID) (*patientDetail, error) {
	body, err := c.get(ctx, "/api/v1/doctor/patients/"+id.String())
	if err != nil {
		return nil, err
	}

	var detail patientDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("httpclient: decode patient detail: %w", err)
	}
	if detail.Profile == nil {
		return nil, fmt.Errorf("httpclient: patient detail missing profile")
	}
	return &detail, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	detail, err := c.patientDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail.Profile, nil
}

func (c *HTTPClient) ListMedicalRecords(ctx context.Context, profileID uuid.UUID) ([]storage.MedicalRecord, error) {
	detail, err := c.patientDetail(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return detail.Records, nil
}

func (c *HTTPClient) ListCompletedProfiles(ctx context.Context) ([]storage.Profile, error) {
	body, err := c.get(ctx, "/api/v1/doctor/patients")
	if err != nil {
		return nil, err
	}

	var roster struct {
		Patients []struct {
			ID string `json:"id"`
		} `json:"patients"`
	}
	if err := json.Unmarshal(body, &roster); err != nil {
		return nil, fmt.Errorf("httpclient: decode roster: %w", err)
	}

	// The roster endpoint returns triage summaries, not full records, so
	// each patient needs a detail fetch. Rosters are small.
	profiles := make([]storage.Profile, 0, len(roster.Patients))
	for _, p := range roster.Patients {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return nil, fmt.Errorf("httpclient: roster entry has bad ID %q", p.ID)
		}
		detail, err := c.patientDetail(ctx, id)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *detail.Profile)
	}
	return profiles, nil
}
