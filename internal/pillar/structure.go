package pillar

import (
	"fmt"

	"github.com/findable-ai/findable-score/internal/analyze"
)

// Structure wraps the composite Structure analyzer output, which already
// blends headings/answer-first/AI-answer-block/readability/FAQ/links/
// formats sub-scores, into a pillar-level Score.
func Structure(structureOut analyze.Output, weight float64) Score {
	return Score{
		Name:         "structure",
		RawScore:     structureOut.RawScore,
		Weight:       weight,
		PointsEarned: structureOut.RawScore / 100 * weight,
		MaxPoints:    weight,
		Level:        structureOut.Level,
		Evaluated:    true,
		Explanation:  fmt.Sprintf("content structure and answer-first quality (raw=%.1f)", structureOut.RawScore),
		Components:   []Component{newComponent(structureOut, weight, "composite structure analyzer")},
	}
}
