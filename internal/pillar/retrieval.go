package pillar

import (
	"fmt"

	"github.com/findable-ai/findable-score/internal/analyze"
	"github.com/findable-ai/findable-score/internal/simulate"
)

// Retrieval wraps the simulation runner's overall_score (mean combined
// answerability score across the question bank) into a pillar-level
// Score. Unlike the page-level pillars, it has no sub-components: the
// question results themselves are the supporting detail.
func Retrieval(result simulate.Result, weight float64) Score {
	raw := result.OverallScore
	return Score{
		Name:         "retrieval",
		RawScore:     raw,
		Weight:       weight,
		PointsEarned: raw / 100 * weight,
		MaxPoints:    weight,
		Level:        analyze.LevelFromScore(raw),
		Evaluated:    true,
		Explanation: fmt.Sprintf(
			"%d/%d questions fully answered, %d partially, %d unanswered (raw=%.1f)",
			result.QuestionsAnswered, len(result.QuestionResults), result.QuestionsPartial, result.QuestionsUnanswered, raw,
		),
	}
}

// Coverage wraps the simulation runner's coverage_score (fraction of
// questions with at least one retrieved chunk above the floor) into a
// pillar-level Score.
func Coverage(result simulate.Result, weight float64) Score {
	raw := result.CoverageScore
	return Score{
		Name:         "coverage",
		RawScore:     raw,
		Weight:       weight,
		PointsEarned: raw / 100 * weight,
		MaxPoints:    weight,
		Level:        analyze.LevelFromScore(raw),
		Evaluated:    true,
		Explanation:  fmt.Sprintf("retrieval corpus covers %.0f%% of the question bank above the relevance floor", raw),
	}
}
