package analyze

import "time"

const (
	ttfbExcellentMs = 200
	ttfbGoodMs      = 500
	ttfbAcceptableMs = 1000
	ttfbPoorMs      = 1500
	ttfbCriticalMs  = 2000
)

// TTFB scores a single time-to-first-byte measurement on a piecewise
// linear scale between the named thresholds.
func TTFB(d time.Duration) Output {
	ms := float64(d.Milliseconds())

	var score float64
	var band string
	switch {
	case ms < ttfbExcellentMs:
		score = 100
		band = "excellent"
	case ms < ttfbGoodMs:
		score = lerp(ms, ttfbExcellentMs, ttfbGoodMs, 100, 85)
		band = "good"
	case ms < ttfbAcceptableMs:
		score = lerp(ms, ttfbGoodMs, ttfbAcceptableMs, 85, 60)
		band = "acceptable"
	case ms < ttfbPoorMs:
		score = lerp(ms, ttfbAcceptableMs, ttfbPoorMs, 60, 30)
		band = "poor"
	case ms < ttfbCriticalMs:
		score = lerp(ms, ttfbPoorMs, ttfbCriticalMs, 30, 10)
		band = "critical"
	default:
		score = 0
		band = "critical"
	}

	var issues []string
	if band == "poor" || band == "critical" {
		issues = append(issues, "time-to-first-byte exceeds acceptable threshold")
	}

	out := newOutput("ttfb", score, levelFromScore(score))
	out.Issues = issues
	out.Details["ttfb_ms"] = ms
	out.Details["band"] = band
	return out
}

func lerp(x, x0, x1, y0, y1 float64) float64 {
	if x1 == x0 {
		return y0
	}
	t := (x - x0) / (x1 - x0)
	return y0 + t*(y1-y0)
}
