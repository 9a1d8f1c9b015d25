package analyze

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/findable-ai/findable-score/internal/clean"
)

var authoritativeHostPattern = regexp.MustCompile(`(?i)\.gov|\.edu|wikipedia\.org|ncbi\.nlm\.nih\.gov`)

// Authority scores author attribution, credentials, citation density, and
// visible publication/modification dates.
func Authority(meta clean.PageMetadata, doc *goquery.Document) Output {
	score := 0.0
	var issues []string

	hasAuthor := meta.Author != ""
	if hasAuthor {
		score += 25
	} else {
		issues = append(issues, "missing author attribution")
	}

	hasCredentials := false
	if doc != nil {
		doc.Find(`[rel="author"], .author-bio, .credentials`).Each(func(_ int, _ *goquery.Selection) {
			hasCredentials = true
		})
	}
	if hasCredentials {
		score += 15
	}

	totalCitations, authoritativeCitations := 0, 0
	if doc != nil {
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			if !strings.HasPrefix(href, "http") {
				return
			}
			totalCitations++
			if authoritativeHostPattern.MatchString(href) {
				authoritativeCitations++
			}
		})
	}
	if totalCitations > 0 {
		score += 15
	}
	if authoritativeCitations > 0 {
		score += 15
	}

	hasOriginalData := false
	if doc != nil {
		doc.Find("table, [data-source], figure").Each(func(_ int, _ *goquery.Selection) {
			hasOriginalData = true
		})
	}
	if hasOriginalData {
		score += 10
	}

	hasDates := meta.PublishedDate != nil || meta.ModifiedDate != nil
	if hasDates {
		score += 20
	} else {
		issues = append(issues, "no visible publication or modification date")
	}

	out := newOutput("authority", score, levelFromScore(score))
	out.Issues = issues
	out.Details["has_author"] = hasAuthor
	out.Details["has_credentials"] = hasCredentials
	out.Details["total_citations"] = totalCitations
	out.Details["authoritative_citations"] = authoritativeCitations
	out.Details["has_original_data"] = hasOriginalData
	out.Details["has_dates"] = hasDates
	return out
}
