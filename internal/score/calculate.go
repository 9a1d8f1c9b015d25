package score

import (
	"fmt"
	"strings"

	"github.com/findable-ai/findable-score/internal/pillar"
)

// canonicalOrder is the fixed declared order show_the_math and the
// pillars_evaluated/pillars_not_evaluated lists follow, independent of
// the order pillar scores were passed in.
var canonicalOrder = []string{
	"technical", "structure", "schema", "authority", "retrieval", "coverage", "entity_recognition",
}

// Calculate combines evaluated pillar scores into a FindableScore.
// Pillars not evaluated (Score.Evaluated == false) are excluded from
// total_score and reported separately; when any pillar is skipped,
// max_evaluated_points and evaluated_score_pct are also populated so a
// partial run's percentage is still interpretable.
func Calculate(pillars []pillar.Score) FindableScore {
	byName := map[string]pillar.Score{}
	for _, p := range pillars {
		byName[p.Name] = p
	}

	var total, maxEvaluated float64
	var evaluated, notEvaluated []string
	var criticalIssues []string
	anyNotEvaluated := false

	for _, name := range canonicalOrder {
		p, ok := byName[name]
		if !ok {
			continue
		}
		if !p.Evaluated {
			notEvaluated = append(notEvaluated, name)
			anyNotEvaluated = true
			continue
		}
		evaluated = append(evaluated, name)
		total += p.PointsEarned
		maxEvaluated += p.MaxPoints
		criticalIssues = append(criticalIssues, p.CriticalIssues...)
	}

	fs := FindableScore{
		TotalScore:          total,
		Grade:                gradeFor(total),
		Pillars:              orderedPillars(pillars),
		PillarsEvaluated:     evaluated,
		PillarsNotEvaluated:  notEvaluated,
		IsPartial:            anyNotEvaluated,
		CriticalIssues:       criticalIssues,
		Fixes:                fixesFor(criticalIssues),
	}

	if anyNotEvaluated && maxEvaluated > 0 {
		fs.MaxEvaluatedPoints = maxEvaluated
		fs.EvaluatedScorePct = total / maxEvaluated * 100
	}

	return fs
}

func orderedPillars(pillars []pillar.Score) []pillar.Score {
	byName := map[string]pillar.Score{}
	for _, p := range pillars {
		byName[p.Name] = p
	}
	var out []pillar.Score
	for _, name := range canonicalOrder {
		if p, ok := byName[name]; ok {
			out = append(out, p)
		}
	}
	return out
}

func gradeFor(total float64) Grade {
	switch {
	case total >= 90:
		return GradeA
	case total >= 80:
		return GradeB
	case total >= 70:
		return GradeC
	case total >= 60:
		return GradeD
	default:
		return GradeF
	}
}

// remediation maps a recognizable critical-issue substring to a short,
// actionable fix. Issues not matching any entry still surface as a
// generic fix rather than being silently dropped.
var remediation = []struct {
	contains string
	fix      string
}{
	{"empty JS shell", "Server-render (or statically pre-render) the main content so it's present without executing JavaScript."},
	{"robots", "Allow AI and search crawlers to fetch the pages they need in robots.txt."},
	{"llms.txt", "Publish an llms.txt file pointing AI crawlers at your key documentation."},
}

func fixesFor(criticalIssues []string) []string {
	var fixes []string
	seen := map[string]bool{}
	for _, issue := range criticalIssues {
		fix := fmt.Sprintf("Address: %s", issue)
		for _, r := range remediation {
			if strings.Contains(issue, r.contains) {
				fix = r.fix
				break
			}
		}
		if !seen[fix] {
			fixes = append(fixes, fix)
			seen[fix] = true
		}
	}
	return fixes
}
