package persist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements every persist interface over in-process maps.
// It is the default store for tests and for single-process runs that
// don't need to survive a restart.
type MemoryStore struct {
	mu sync.Mutex

	sites       map[string]Site
	runs        map[string]Run
	embeddings  map[string]StoredEmbedding // keyed by siteID+"/"+contentHash
	configs     map[string]CalibrationConfigRow
	activeConfigID string
	experiments map[string]CalibrationExperiment
	samples     []CalibrationSampleRow
	driftAlerts map[string]DriftAlertRow
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sites:       map[string]Site{},
		runs:        map[string]Run{},
		embeddings:  map[string]StoredEmbedding{},
		configs:     map[string]CalibrationConfigRow{},
		experiments: map[string]CalibrationExperiment{},
		driftAlerts: map[string]DriftAlertRow{},
	}
}

func (m *MemoryStore) CreateSite(ctx context.Context, site Site) (Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if site.ID == "" {
		site.ID = uuid.NewString()
	}
	m.sites[site.ID] = site
	return site, nil
}

func (m *MemoryStore) GetSite(ctx context.Context, id string) (Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	site, ok := m.sites[id]
	if !ok {
		return Site{}, fmt.Errorf("persist: site %q not found", id)
	}
	return site, nil
}

func (m *MemoryStore) ListSitesByUser(ctx context.Context, userID string) ([]Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Site
	for _, s := range m.sites {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryStore) CreateRun(ctx context.Context, run Run) (Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	run.CreatedAt, run.UpdatedAt = now, now
	if run.Status == "" {
		run.Status = RunStatusQueued
	}
	m.runs[run.ID] = run
	return run, nil
}

func (m *MemoryStore) UpdateRunStatus(ctx context.Context, runID string, status RunStatus, completedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("persist: run %q not found", runID)
	}
	run.Status = status
	run.UpdatedAt = time.Now().UTC()
	run.CompletedAt = completedAt
	m.runs[runID] = run
	return nil
}

func (m *MemoryStore) GetRun(ctx context.Context, id string) (Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return Run{}, fmt.Errorf("persist: run %q not found", id)
	}
	return run, nil
}

func (m *MemoryStore) ListRunsForSite(ctx context.Context, siteID string) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Run
	for _, r := range m.runs {
		if r.SiteID == siteID {
			out = append(out, r)
		}
	}
	return out, nil
}

func embeddingKey(siteID, contentHash string) string {
	return siteID + "/" + contentHash
}

func (m *MemoryStore) UpsertEmbedding(ctx context.Context, e StoredEmbedding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m.embeddings[embeddingKey(e.SiteID, e.ContentHash)] = e
	return nil
}

func (m *MemoryStore) ListEmbeddingsForSite(ctx context.Context, siteID string) ([]StoredEmbedding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []StoredEmbedding
	for _, e := range m.embeddings {
		if e.SiteID == siteID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MemoryStore) SaveConfig(ctx context.Context, cfg CalibrationConfigRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	m.configs[cfg.ID] = cfg
	if cfg.Status == "active" {
		m.activeConfigID = cfg.ID
	}
	return nil
}

func (m *MemoryStore) ActiveConfig(ctx context.Context) (CalibrationConfigRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, ok := m.configs[m.activeConfigID]
	if !ok {
		return CalibrationConfigRow{}, fmt.Errorf("persist: no active calibration config")
	}
	return cfg, nil
}

func (m *MemoryStore) SaveExperiment(ctx context.Context, exp CalibrationExperiment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if exp.ID == "" {
		exp.ID = uuid.NewString()
	}
	m.experiments[exp.ID] = exp
	return nil
}

// AppendSample never overwrites a prior entry: every call grows the
// slice, matching the append-only invariant on calibration_samples.
func (m *MemoryStore) AppendSample(ctx context.Context, sample CalibrationSampleRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sample.ID == "" {
		sample.ID = uuid.NewString()
	}
	if sample.RecordedAt.IsZero() {
		sample.RecordedAt = time.Now().UTC()
	}
	m.samples = append(m.samples, sample)
	return nil
}

func (m *MemoryStore) SamplesSince(ctx context.Context, cutoff time.Time) ([]CalibrationSampleRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []CalibrationSampleRow
	for _, s := range m.samples {
		if !s.RecordedAt.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryStore) SaveDriftAlert(ctx context.Context, alert DriftAlertRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	m.driftAlerts[alert.ID] = alert
	return nil
}

func (m *MemoryStore) ListDriftAlerts(ctx context.Context, status string) ([]DriftAlertRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []DriftAlertRow
	for _, a := range m.driftAlerts {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}
