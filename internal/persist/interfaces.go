package persist

import (
	"context"
	"time"
)

// SiteStore owns the sites table.
type SiteStore interface {
	CreateSite(ctx context.Context, site Site) (Site, error)
	GetSite(ctx context.Context, id string) (Site, error)
	ListSitesByUser(ctx context.Context, userID string) ([]Site, error)
}

// RunStore owns the runs table.
type RunStore interface {
	CreateRun(ctx context.Context, run Run) (Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status RunStatus, completedAt *time.Time) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRunsForSite(ctx context.Context, siteID string) ([]Run, error)
}

// EmbeddingStore owns the embeddings table; upsert is keyed on
// (content_hash, site_id) per the spec's uniqueness constraint.
type EmbeddingStore interface {
	UpsertEmbedding(ctx context.Context, e StoredEmbedding) error
	ListEmbeddingsForSite(ctx context.Context, siteID string) ([]StoredEmbedding, error)
}

// CalibrationStore owns calibration_configs, calibration_experiments,
// calibration_samples (append-only) and calibration_drift_alerts.
type CalibrationStore interface {
	SaveConfig(ctx context.Context, cfg CalibrationConfigRow) error
	ActiveConfig(ctx context.Context) (CalibrationConfigRow, error)
	SaveExperiment(ctx context.Context, exp CalibrationExperiment) error
	AppendSample(ctx context.Context, sample CalibrationSampleRow) error
	SamplesSince(ctx context.Context, cutoff time.Time) ([]CalibrationSampleRow, error)
	SaveDriftAlert(ctx context.Context, alert DriftAlertRow) error
	ListDriftAlerts(ctx context.Context, status string) ([]DriftAlertRow, error)
}
