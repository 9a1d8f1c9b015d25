/*
Package calibration holds the active scoring configuration, assigns
sites to experiment arms, logs samples for later analysis, and detects
when live accuracy drifts from the baseline the weights were tuned
against. Nothing in this package auto-activates a new configuration:
weight optimization only ever proposes a draft for a human to review.
*/
package calibration

import "time"

// PillarWeights mirrors the six (or seven) pillar weights a
// CalibrationConfig assigns; Sum() must equal 100 within epsilon.
type PillarWeights struct {
	Technical         float64
	Structure         float64
	Schema            float64
	Authority         float64
	Retrieval         float64
	Coverage          float64
	EntityRecognition float64 // 0 when the seventh pillar is disabled
}

func (w PillarWeights) Sum() float64 {
	return w.Technical + w.Structure + w.Schema + w.Authority + w.Retrieval + w.Coverage + w.EntityRecognition
}

// SimulationThresholds mirrors simulate.Thresholds so a config can be
// validated and stored without this package importing internal/simulate.
type SimulationThresholds struct {
	FullyAnswerable     float64
	PartiallyAnswerable float64
}

// SubWeights mirrors internal/pillar's TechnicalSubWeights; duplicated
// here (rather than imported) because calibration configs are persisted
// independently of any one pillar's Go type.
type SubWeights struct {
	Robots          float64
	TTFB            float64
	LlmsTxt         float64
	JSAccessibility float64
	HTTPS           float64
}

func (w SubWeights) Sum() float64 {
	return w.Robots + w.TTFB + w.LlmsTxt + w.JSAccessibility + w.HTTPS
}

// ScoringWeights mirrors internal/simulate's ScoringWeights (relevance,
// signal, confidence); must sum to 1.0.
type ScoringWeights struct {
	Relevance  float64
	Signal     float64
	Confidence float64
}

func (w ScoringWeights) Sum() float64 {
	return w.Relevance + w.Signal + w.Confidence
}

type ConfigStatus string

const (
	ConfigStatusDraft    ConfigStatus = "draft"
	ConfigStatusActive   ConfigStatus = "active"
	ConfigStatusArchived ConfigStatus = "archived"
)

// Config is one calibration_configs row: the weights, thresholds and
// sub-weights a run scores against.
type Config struct {
	ID             string
	Weights        PillarWeights
	Thresholds     SimulationThresholds
	SubWeights     SubWeights
	ScoringWeights ScoringWeights
	Status         ConfigStatus
	CreatedAt      time.Time
}

// Sample is one calibration_samples row: an append-only record joining a
// predicted score to its later-observed ground truth via QuestionID.
type Sample struct {
	SiteID     string
	RunID      string
	QuestionID string
	// PillarRawScores holds the raw [0,100] score per pillar name this
	// run produced, so the weight optimizer can recompute a total under
	// a candidate weight vector without re-running the pipeline.
	PillarRawScores map[string]float64
	PredictedScore  float64
	GroundTruth     *float64 // nil until ground truth is collected
	RecordedAt      time.Time
}
