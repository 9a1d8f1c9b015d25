package pillar

import (
	"fmt"

	"github.com/findable-ai/findable-score/internal/analyze"
)

// TechnicalSubWeights are the sub-weights composing the Technical pillar;
// they must sum to 100.
type TechnicalSubWeights struct {
	Robots          float64
	TTFB            float64
	LlmsTxt         float64
	JSAccessibility float64
	HTTPS           float64
}

func DefaultTechnicalSubWeights() TechnicalSubWeights {
	return TechnicalSubWeights{
		Robots:          35,
		TTFB:            30,
		LlmsTxt:         15,
		JSAccessibility: 10,
		HTTPS:           10,
	}
}

func (w TechnicalSubWeights) Sum() float64 {
	return w.Robots + w.TTFB + w.LlmsTxt + w.JSAccessibility + w.HTTPS
}

// Technical combines robots-AI access, TTFB, llms.txt, JS-accessibility and
// HTTPS presence. Its level is progress-based except that an empty JS
// shell always forces "limited" regardless of every other component.
func Technical(robotsOut, ttfbOut, llmsOut, jsOut analyze.Output, isHTTPS bool, weight float64, subWeights TechnicalSubWeights) Score {
	httpsScore := 0.0
	if isHTTPS {
		httpsScore = 100
	}

	components := []Component{
		newComponent(robotsOut, subWeights.Robots, "robots.txt access for search and AI crawlers"),
		newComponent(ttfbOut, subWeights.TTFB, "server response latency"),
		newComponent(llmsOut, subWeights.LlmsTxt, "llms.txt presence and quality"),
		newComponent(jsOut, subWeights.JSAccessibility, "content availability without JavaScript execution"),
		{
			Name: "https", RawScore: httpsScore, Weight: subWeights.HTTPS,
			WeightedScore: httpsScore / 100 * subWeights.HTTPS,
			Level:         analyze.LevelFromScore(httpsScore),
			Explanation:   "transport security",
			Details:       map[string]any{"is_https": isHTTPS},
		},
	}

	raw := 0.0
	for _, c := range components {
		raw += c.WeightedScore
	}
	raw = raw / subWeights.Sum() * 100

	var criticalIssues []string
	isEmptyShell, _ := jsOut.Details["is_empty_shell"].(bool)
	for _, c := range components {
		criticalIssues = append(criticalIssues, c.Issues...)
	}

	level := analyze.LevelFromScore(raw)
	if isEmptyShell {
		level = analyze.LevelLimited
		criticalIssues = append(criticalIssues, "empty JS shell: server-side rendering required")
	}
	if robotsOut.Level == analyze.LevelCritical && level == analyze.LevelFull {
		level = analyze.LevelPartial
	}

	return Score{
		Name:           "technical",
		RawScore:       raw,
		Weight:         weight,
		PointsEarned:   raw / 100 * weight,
		MaxPoints:      weight,
		Level:          level,
		Evaluated:      true,
		Explanation:    fmt.Sprintf("technical readiness across robots access, latency, llms.txt and JS accessibility (raw=%.1f)", raw),
		Components:     components,
		CriticalIssues: criticalIssues,
	}
}
