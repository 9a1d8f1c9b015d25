package analyze

import (
	"fmt"
	"strings"

	"github.com/findable-ai/findable-score/internal/clean"
)

var faqWords = []string{"faq", "frequently asked", "how to", "how do i", "what is", "why", "when should"}

// Heading enforces exactly one h1, flags skipped levels, duplicates, empty
// and overlong headings, and detects FAQ/how-to phrasing.
func Heading(h clean.Headings) Output {
	score := 100.0
	var issues []string

	switch len(h.H1) {
	case 0:
		score -= 30
		issues = append(issues, "missing h1")
	case 1:
		// exactly one, no penalty
	default:
		score -= 20
		issues = append(issues, fmt.Sprintf("multiple h1 elements (%d)", len(h.H1)))
	}

	levels := [][]string{h.H1, h.H2, h.H3, h.H4, h.H5, h.H6}
	present := make([]bool, len(levels))
	for i, l := range levels {
		present[i] = len(l) > 0
	}
	skipped := false
	seenFirst := false
	for i, p := range present {
		if p {
			seenFirst = true
			continue
		}
		if seenFirst {
			for j := i + 1; j < len(present); j++ {
				if present[j] {
					skipped = true
				}
			}
		}
	}
	if skipped {
		score -= 15
		issues = append(issues, "skipped heading level")
	}

	dupCount, emptyCount, overlongCount, faqCount := 0, 0, 0, 0
	all := append([]string{}, h.H1...)
	all = append(all, h.H2...)
	all = append(all, h.H3...)
	all = append(all, h.H4...)
	all = append(all, h.H5...)
	all = append(all, h.H6...)
	seen := map[string]int{}
	for _, text := range all {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			emptyCount++
			continue
		}
		lower := strings.ToLower(trimmed)
		seen[lower]++
		if seen[lower] > 1 {
			dupCount++
		}
		if len(trimmed) > 70 {
			overlongCount++
		}
		for _, w := range faqWords {
			if strings.Contains(lower, w) {
				faqCount++
				break
			}
		}
	}
	if dupCount > 0 {
		score -= float64(dupCount) * 5
		issues = append(issues, fmt.Sprintf("%d duplicate heading text(s)", dupCount))
	}
	if emptyCount > 0 {
		score -= float64(emptyCount) * 5
		issues = append(issues, fmt.Sprintf("%d empty heading(s)", emptyCount))
	}
	if overlongCount > 0 {
		score -= float64(overlongCount) * 3
		issues = append(issues, fmt.Sprintf("%d overlong heading(s)", overlongCount))
	}

	out := newOutput("heading", score, levelFromScore(score))
	out.Issues = issues
	out.Details["h1_count"] = len(h.H1)
	out.Details["total_headings"] = len(all)
	out.Details["faq_like_headings"] = faqCount
	out.Details["skipped_level"] = skipped
	return out
}
