package analyze

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var genericAnchorText = map[string]bool{
	"click here": true, "read more": true, "here": true, "link": true,
	"more": true, "learn more": true, "this page": true,
}

// LinkParam bounds the optimal internal-link count per page.
type LinkParam struct {
	OptimalMin int
	OptimalMax int
}

func NewLinkParam(optimalMin, optimalMax int) LinkParam {
	return LinkParam{OptimalMin: optimalMin, OptimalMax: optimalMax}
}

func DefaultLinkParam() LinkParam {
	return NewLinkParam(3, 100)
}

// Link counts internal/external links, classifies them navigation vs
// content by ancestor membership in nav/header/footer, and flags generic
// or empty anchors.
func Link(doc *goquery.Document, param LinkParam) Output {
	var internalCount, externalCount, navCount, contentCount, genericCount, emptyCount int

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
			strings.HasPrefix(href, "javascript:") {
			return
		}

		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			externalCount++
		} else {
			internalCount++
		}

		if isInsideChrome(s) {
			navCount++
		} else {
			contentCount++
		}

		text := strings.ToLower(strings.TrimSpace(s.Text()))
		if text == "" {
			emptyCount++
		} else if genericAnchorText[text] {
			genericCount++
		}
	})

	score := 100.0
	var issues []string
	if contentCount < param.OptimalMin {
		score -= 20
		issues = append(issues, fmt.Sprintf("too few content links (%d < %d)", contentCount, param.OptimalMin))
	}
	if contentCount > param.OptimalMax {
		score -= 10
		issues = append(issues, fmt.Sprintf("too many content links (%d > %d)", contentCount, param.OptimalMax))
	}
	if genericCount > 0 {
		score -= float64(genericCount) * 3
		issues = append(issues, fmt.Sprintf("%d generic anchor text(s)", genericCount))
	}
	if emptyCount > 0 {
		score -= float64(emptyCount) * 3
		issues = append(issues, fmt.Sprintf("%d empty anchor(s)", emptyCount))
	}

	out := newOutput("link", score, levelFromScore(score))
	out.Issues = issues
	out.Details["internal_links"] = internalCount
	out.Details["external_links"] = externalCount
	out.Details["navigation_links"] = navCount
	out.Details["content_links"] = contentCount
	out.Details["generic_anchor_count"] = genericCount
	out.Details["empty_anchor_count"] = emptyCount
	return out
}

func isInsideChrome(s *goquery.Selection) bool {
	for _, ancestor := range []string{"nav", "header", "footer"} {
		if s.ParentsFiltered(ancestor).Length() > 0 {
			return true
		}
	}
	return false
}
