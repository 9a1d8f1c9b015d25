package analyze

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const emptyShellContentThreshold = 100

var frameworkMarkers = map[string][]string{
	"React":   {"data-reactroot", "__next", "_app", "react-dom"},
	"Next.js": {"__next", "/_next/"},
	"Vue":     {"data-v-", "__vue__", "vuejs"},
	"Nuxt":    {"__nuxt", "__NUXT__"},
	"Angular": {"ng-version", "ng-app", "_nghost"},
	"Svelte":  {"svelte-"},
}

var spaStateGlobals = []string{"__INITIAL_STATE__", "window.__APP_STATE__", "__APOLLO_STATE__"}

// JSDetection measures whether a page's meaningful content depends on
// client-side JavaScript execution. An "empty shell" (main content under
// emptyShellContentThreshold characters) is always blocking severity
// regardless of which framework, if any, is detected.
func JSDetection(mainContent string, rawHTML string, doc *goquery.Document) Output {
	contentLen := len(strings.TrimSpace(mainContent))
	isEmptyShell := contentLen < emptyShellContentThreshold

	framework := ""
	for name, markers := range frameworkMarkers {
		for _, m := range markers {
			if strings.Contains(rawHTML, m) {
				framework = name
				break
			}
		}
		if framework != "" {
			break
		}
	}
	if framework == "" {
		for _, g := range spaStateGlobals {
			if strings.Contains(rawHTML, g) {
				framework = "generic-spa"
				break
			}
		}
	}

	scriptCount := 0
	if doc != nil {
		scriptCount = doc.Find("script[src]").Length()
	}

	score := 100.0
	var issues []string
	severity := LevelGood

	if isEmptyShell {
		score = 0
		severity = LevelCritical
		issues = append(issues, "main content is an empty shell without JavaScript execution")
	} else {
		if framework != "" {
			score -= 20
		}
		if scriptCount > 5 {
			score -= 10
		}
		if contentLen < 300 {
			score -= 20
			issues = append(issues, "thin content may indicate partial client-side rendering")
		}
		if score < 50 {
			severity = LevelCritical
		} else if score < 80 {
			severity = LevelWarning
		}
	}

	out := newOutput("js_detection", score, levelFromScore(score))
	out.Issues = issues
	out.Details["framework_detected"] = framework
	out.Details["is_empty_shell"] = isEmptyShell
	out.Details["main_content_length"] = contentLen
	out.Details["severity"] = string(severity)
	if isEmptyShell {
		out.Details["severity"] = "blocking"
	}
	out.Details["likely_js_dependent"] = score < 50
	return out
}

// NeedsRendering is a convenience threshold check a pillar can use instead
// of re-deriving it from Output.Details.
func NeedsRendering(out Output, threshold float64) bool {
	return out.RawScore < threshold
}
