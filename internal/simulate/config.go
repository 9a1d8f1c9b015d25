package simulate

import "fmt"

// ScoringWeights combine the three per-question sub-scores into one
// combined score in [0,1]. Must sum to 1.0.
type ScoringWeights struct {
	Relevance  float64
	Signal     float64
	Confidence float64
}

func (w ScoringWeights) Sum() float64 {
	return w.Relevance + w.Signal + w.Confidence
}

// Thresholds gates answerability classification on the combined score.
type Thresholds struct {
	FullyAnswerable     float64
	PartiallyAnswerable float64
}

func (t Thresholds) Validate() error {
	if t.FullyAnswerable <= t.PartiallyAnswerable {
		return fmt.Errorf("simulate: fully_answerable threshold (%v) must exceed partially_answerable (%v)", t.FullyAnswerable, t.PartiallyAnswerable)
	}
	if t.FullyAnswerable < 0 || t.FullyAnswerable > 1 || t.PartiallyAnswerable < 0 || t.PartiallyAnswerable > 1 {
		return fmt.Errorf("simulate: thresholds must be in [0,1]")
	}
	return nil
}

// Config is the active scoring configuration a calibration experiment
// arm can swap out between runs.
type Config struct {
	TopK                  int
	Weights               ScoringWeights
	Thresholds            Thresholds
	SignalMatchThreshold  float64 // fraction of expected_signals required to count as "matched"
	CoverageFloor         float64 // minimum retrieval score to count a question "covered"
	WorkerCount           int
}

func DefaultConfig() Config {
	return Config{
		TopK: 5,
		Weights: ScoringWeights{
			Relevance:  0.5,
			Signal:     0.35,
			Confidence: 0.15,
		},
		Thresholds: Thresholds{
			FullyAnswerable:     0.7,
			PartiallyAnswerable: 0.3,
		},
		SignalMatchThreshold: 0.5,
		CoverageFloor:        0.3,
		WorkerCount:          4,
	}
}
