package analyze

import (
	"net/url"
	"time"

	"github.com/findable-ai/findable-score/internal/robots"
)

var searchIndexedBots = []string{"Googlebot", "Bingbot"}
var directCrawlBots = []string{"GPTBot", "ClaudeBot", "PerplexityBot", "Google-Extended"}

const (
	searchIndexedWeight = 0.60
	directCrawlWeight   = 0.40
)

// RobotsAI scores access for two pipelines against the same parsed
// robots.txt: search-indexed bots (Googlebot, Bingbot) and direct-crawl AI
// bots (GPTBot, ClaudeBot, PerplexityBot, Google-Extended). Blocking any
// search-indexed bot is critical; blocking only direct-crawl bots is a
// warning.
func RobotsAI(response robots.RobotsResponse, fetchedAt time.Time, target url.URL) Output {
	searchScore, searchBlocked := pipelineScore(response, fetchedAt, target, searchIndexedBots)
	directScore, directBlocked := pipelineScore(response, fetchedAt, target, directCrawlBots)

	composite := searchScore*searchIndexedWeight + directScore*directCrawlWeight

	var issues []string
	var level Level
	switch {
	case len(searchBlocked) > 0:
		level = LevelCritical
		issues = append(issues, "search-indexed bot blocked by robots.txt")
	case len(directBlocked) > 0:
		level = LevelWarning
		issues = append(issues, "direct-crawl AI bot blocked by robots.txt")
	default:
		level = LevelGood
	}

	out := newOutput("robots_ai", composite, level)
	out.Issues = issues
	out.Details["search_indexed_score"] = searchScore
	out.Details["direct_crawl_score"] = directScore
	out.Details["critical_blocked"] = searchBlocked
	out.Details["warning_blocked"] = directBlocked
	return out
}

func pipelineScore(response robots.RobotsResponse, fetchedAt time.Time, target url.URL, bots []string) (float64, []string) {
	allowedCount := 0
	var blocked []string
	for _, bot := range bots {
		rules := robots.MapResponseToRuleSet(response, bot, fetchedAt)
		decision := robots.IsAllowed(rules, target)
		if decision.Allowed {
			allowedCount++
		} else {
			blocked = append(blocked, bot)
		}
	}
	if len(bots) == 0 {
		return 100, blocked
	}
	return float64(allowedCount) / float64(len(bots)) * 100, blocked
}
