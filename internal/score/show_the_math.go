package score

import (
	"fmt"
	"strings"
)

// ShowTheMath renders the required textual trace of how TotalScore was
// derived: one line per evaluated pillar, in the fixed declared order,
// naming its raw score, weight and weighted contribution, followed by
// the total and grade. Pillars skipped (not evaluated) are listed
// separately so a partial run's trace still accounts for every pillar
// name.
func (fs FindableScore) ShowTheMath() string {
	var b strings.Builder
	for _, p := range fs.Pillars {
		if !p.Evaluated {
			continue
		}
		fmt.Fprintf(&b, "%-12s raw=%6.2f weight=%5.2f points=%6.2f\n", p.Name, p.RawScore, p.Weight, p.PointsEarned)
	}
	if len(fs.PillarsNotEvaluated) > 0 {
		fmt.Fprintf(&b, "not evaluated: %s\n", strings.Join(fs.PillarsNotEvaluated, ", "))
	}
	if fs.IsPartial {
		fmt.Fprintf(&b, "total=%.2f / max_evaluated=%.2f (%.2f%%)\n", fs.TotalScore, fs.MaxEvaluatedPoints, fs.EvaluatedScorePct)
	} else {
		fmt.Fprintf(&b, "total=%.2f\n", fs.TotalScore)
	}
	fmt.Fprintf(&b, "grade=%s\n", fs.Grade)
	return b.String()
}
