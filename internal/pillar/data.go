/*
Package pillar combines page-level analyzer outputs into the four pillars
computed per page: Technical, Structure, Schema, Authority. Retrieval and
Coverage are computed separately by internal/simulate, since they depend on
the per-site retrieval index rather than any single page's analyzers.
*/
package pillar

import "github.com/findable-ai/findable-score/internal/analyze"

// Component is the common per-analyzer record a PillarScore is built from,
// per the "tagged variant + common base record" design used across
// analyzers: name, raw score, weight, weighted contribution, level,
// explanation and any structured details worth surfacing in a report.
type Component struct {
	Name          string
	RawScore      float64
	Weight        float64
	WeightedScore float64
	Level         analyze.Level
	Explanation   string
	Details       map[string]any
	Issues        []string
}

func newComponent(out analyze.Output, weight float64, explanation string) Component {
	return Component{
		Name:          out.Name,
		RawScore:      out.RawScore,
		Weight:        weight,
		WeightedScore: out.RawScore / 100 * weight,
		Level:         out.Level,
		Explanation:   explanation,
		Details:       out.Details,
		Issues:        out.Issues,
	}
}

// Score is a PillarScore: one of the six (or seven) weighted axes making up
// the final FindableScore.
type Score struct {
	Name          string
	RawScore      float64
	Weight        float64
	PointsEarned  float64
	MaxPoints     float64
	Level         analyze.Level
	Evaluated     bool
	Explanation   string
	Components    []Component
	CriticalIssues []string
}

func notEvaluated(name string) Score {
	return Score{Name: name, Evaluated: false}
}
