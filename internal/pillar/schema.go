package pillar

import (
	"fmt"

	"github.com/findable-ai/findable-score/internal/analyze"
)

// Schema wraps the Schema analyzer output into a pillar-level Score.
func Schema(schemaOut analyze.Output, weight float64) Score {
	return Score{
		Name:         "schema",
		RawScore:     schemaOut.RawScore,
		Weight:       weight,
		PointsEarned: schemaOut.RawScore / 100 * weight,
		MaxPoints:    weight,
		Level:        schemaOut.Level,
		Evaluated:    true,
		Explanation:  fmt.Sprintf("structured-data richness (raw=%.1f)", schemaOut.RawScore),
		Components:   []Component{newComponent(schemaOut, weight, "schema.org type presence and validity")},
	}
}
