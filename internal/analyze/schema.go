package analyze

import "github.com/findable-ai/findable-score/internal/clean"

var commonSchemaTypes = map[string]bool{
	"Organization": true, "Article": true, "FAQPage": true, "Product": true,
	"BreadcrumbList": true, "WebSite": true, "WebPage": true, "HowTo": true,
	"SoftwareApplication": true, "Person": true,
}

// Schema scores presence and validity of common schema.org types extracted
// during cleaning, with a bonus for FAQPage.
func Schema(meta clean.PageMetadata) Output {
	if len(meta.SchemaTypes) == 0 {
		out := newOutput("schema", 0, LevelLimited)
		out.Issues = []string{"no structured data found"}
		return out
	}

	recognized, unrecognized := 0, 0
	hasFAQ := false
	for _, t := range meta.SchemaTypes {
		if commonSchemaTypes[t] {
			recognized++
		} else {
			unrecognized++
		}
		if t == "FAQPage" {
			hasFAQ = true
		}
	}

	score := 40.0 + float64(recognized)*15
	if hasFAQ {
		score += 20
	}
	var issues []string
	if unrecognized > 0 {
		issues = append(issues, "unrecognized schema type(s) present")
	}

	out := newOutput("schema", score, levelFromScore(score))
	out.Issues = issues
	out.Details["types_found"] = meta.SchemaTypes
	out.Details["recognized_count"] = recognized
	out.Details["has_faq_page"] = hasFAQ
	return out
}
