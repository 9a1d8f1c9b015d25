package pillar

import (
	"fmt"

	"github.com/findable-ai/findable-score/internal/analyze"
)

// Authority wraps the Authority analyzer output into a pillar-level Score.
func Authority(authorityOut analyze.Output, weight float64) Score {
	return Score{
		Name:         "authority",
		RawScore:     authorityOut.RawScore,
		Weight:       weight,
		PointsEarned: authorityOut.RawScore / 100 * weight,
		MaxPoints:    weight,
		Level:        authorityOut.Level,
		Evaluated:    true,
		Explanation:  fmt.Sprintf("author and citation authority signals (raw=%.1f)", authorityOut.RawScore),
		Components:   []Component{newComponent(authorityOut, weight, "author attribution, credentials and citations")},
	}
}

// NotEvaluated builds an unevaluated placeholder Score for any pillar the
// caller chose to skip (per SPEC §7, Completed_partial semantics).
func NotEvaluated(name string) Score {
	return notEvaluated(name)
}
