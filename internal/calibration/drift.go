package calibration

import (
	"fmt"
	"time"
)

type DriftAlertStatus string

const (
	DriftAlertOpen         DriftAlertStatus = "open"
	DriftAlertAcknowledged DriftAlertStatus = "acknowledged"
	DriftAlertResolved     DriftAlertStatus = "resolved"
)

// DriftAlert is one calibration_drift_alerts row.
type DriftAlert struct {
	ID          string
	Status      DriftAlertStatus
	Metric      string // "accuracy" | "optimism" | "pessimism"
	Magnitude   float64
	SampleCount int
	OpenedAt    time.Time
	Action      string
}

// Acknowledge and Resolve are the only legal transitions. Acknowledge
// requires an open alert; Resolve requires one not already resolved. Both
// record the action taken.
func (a DriftAlert) Acknowledge(action string) (DriftAlert, error) {
	if a.Status != DriftAlertOpen {
		return a, fmt.Errorf("calibration: cannot acknowledge alert in status %q", a.Status)
	}
	a.Status = DriftAlertAcknowledged
	a.Action = action
	return a, nil
}

func (a DriftAlert) Resolve(action string) (DriftAlert, error) {
	if a.Status == DriftAlertResolved {
		return a, fmt.Errorf("calibration: alert already resolved")
	}
	a.Status = DriftAlertResolved
	a.Action = action
	return a, nil
}

// DriftConfig bounds detection sensitivity.
type DriftConfig struct {
	RollingWindow      time.Duration // default 30 days
	MinSampleCount     int
	MaxAccuracyDrift   float64
	MaxOptimismDrift   float64
	MaxPessimismDrift  float64
}

func DefaultDriftConfig() DriftConfig {
	return DriftConfig{
		RollingWindow:     30 * 24 * time.Hour,
		MinSampleCount:    30,
		MaxAccuracyDrift:  0.1,
		MaxOptimismDrift:  0.1,
		MaxPessimismDrift: 0.1,
	}
}

// bias returns mean(predicted - ground_truth) over samples with ground
// truth recorded; positive means the model is optimistic, negative
// pessimistic.
func bias(samples []Sample) (float64, int) {
	var sum float64
	var n int
	for _, s := range samples {
		if s.GroundTruth == nil {
			continue
		}
		sum += s.PredictedScore - *s.GroundTruth
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

// DetectDrift compares a baseline window's bias to a recent window's and
// flags an open alert when the drift in either direction exceeds the
// configured magnitude with enough samples in both windows to be
// meaningful.
func DetectDrift(baseline, recent []Sample, cfg DriftConfig) *DriftAlert {
	baseBias, baseN := bias(baseline)
	recentBias, recentN := bias(recent)
	if baseN < cfg.MinSampleCount || recentN < cfg.MinSampleCount {
		return nil
	}

	delta := recentBias - baseBias
	switch {
	case delta > cfg.MaxOptimismDrift:
		return &DriftAlert{Status: DriftAlertOpen, Metric: "optimism", Magnitude: delta, SampleCount: recentN}
	case delta < -cfg.MaxPessimismDrift:
		return &DriftAlert{Status: DriftAlertOpen, Metric: "pessimism", Magnitude: -delta, SampleCount: recentN}
	}

	if accDelta := absDrift(baseBias) - absDrift(recentBias); accDelta < -cfg.MaxAccuracyDrift {
		return &DriftAlert{Status: DriftAlertOpen, Metric: "accuracy", Magnitude: -accDelta, SampleCount: recentN}
	}
	return nil
}

func absDrift(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
