package calibration

import "fmt"

// weightSumEpsilon is the tolerance applied to the "weights sum to 100"
// invariant the persistence writer is required to enforce.
const weightSumEpsilon = 0.01

func (c Config) Validate() error {
	if sum := c.Weights.Sum(); abs(sum-100) > weightSumEpsilon {
		return fmt.Errorf("calibration: pillar weights sum to %.4f, want 100±%.4f", sum, weightSumEpsilon)
	}
	if c.Thresholds.FullyAnswerable <= c.Thresholds.PartiallyAnswerable {
		return fmt.Errorf("calibration: fully_answerable threshold (%v) must exceed partially_answerable (%v)", c.Thresholds.FullyAnswerable, c.Thresholds.PartiallyAnswerable)
	}
	if sum := c.SubWeights.Sum(); abs(sum-100) > weightSumEpsilon {
		return fmt.Errorf("calibration: technical sub-weights sum to %.4f, want 100±%.4f", sum, weightSumEpsilon)
	}
	if sum := c.ScoringWeights.Sum(); abs(sum-1.0) > weightSumEpsilon {
		return fmt.Errorf("calibration: simulation scoring weights sum to %.4f, want 1.0±%.4f", sum, weightSumEpsilon)
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
