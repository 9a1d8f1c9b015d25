/*
Package score composes the per-pillar scores (four page-level pillars
from internal/pillar plus Retrieval/Coverage from internal/simulate)
into the final FindableScore: a weighted total, a letter grade, and a
textual trace of how the total was derived.
*/
package score

import "github.com/findable-ai/findable-score/internal/pillar"

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// FindableScore is the run's final output.
type FindableScore struct {
	TotalScore          float64
	Grade               Grade
	Pillars             []pillar.Score
	PillarsEvaluated     []string
	PillarsNotEvaluated  []string
	IsPartial            bool
	MaxEvaluatedPoints   float64
	EvaluatedScorePct    float64
	CriticalIssues       []string
	Fixes                []string
}
