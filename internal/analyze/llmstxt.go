package analyze

import (
	"regexp"
	"strings"
)

var llmsLinkLineRe = regexp.MustCompile(`^- \[([^\]]+)\]\(([^)]+)\)(?::\s*(.*))?$`)

// LlmsTxtLink is one `- [text](url): desc` entry under a section.
type LlmsTxtLink struct {
	Text string
	URL  string
	Desc string
}

// LlmsTxtDoc is the parsed structure of a /llms.txt file: `# title`,
// `> description`, and `## section` blocks each containing link entries.
type LlmsTxtDoc struct {
	Title       string
	Description string
	Sections    map[string][]LlmsTxtLink
}

// ParseLlmsTxt parses the Markdown-ish llms.txt convention. Unrecognized
// lines are ignored rather than treated as a parse error.
func ParseLlmsTxt(content string) LlmsTxtDoc {
	doc := LlmsTxtDoc{Sections: map[string][]LlmsTxtLink{}}
	currentSection := ""

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "# "):
			if doc.Title == "" {
				doc.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			}
		case strings.HasPrefix(trimmed, "> "):
			if doc.Description == "" {
				doc.Description = strings.TrimSpace(strings.TrimPrefix(trimmed, "> "))
			}
		case strings.HasPrefix(trimmed, "## "):
			currentSection = strings.TrimSpace(strings.TrimPrefix(trimmed, "## "))
			if _, ok := doc.Sections[currentSection]; !ok {
				doc.Sections[currentSection] = nil
			}
		case strings.HasPrefix(trimmed, "- ["):
			m := llmsLinkLineRe.FindStringSubmatch(trimmed)
			if m == nil || currentSection == "" {
				continue
			}
			doc.Sections[currentSection] = append(doc.Sections[currentSection], LlmsTxtLink{
				Text: m[1], URL: m[2], Desc: m[3],
			})
		}
	}
	return doc
}

// LlmsTxt scores the presence and quality of a site's /llms.txt file.
// found=false scores 0 with no issue: a missing llms.txt is a boundary
// condition, not an error.
func LlmsTxt(content string, found bool) Output {
	if !found {
		out := newOutput("llms_txt", 0, LevelLimited)
		out.Details["found"] = false
		return out
	}

	doc := ParseLlmsTxt(content)
	score := 30.0
	var issues []string

	if doc.Title == "" {
		issues = append(issues, "llms.txt missing title")
	} else {
		score += 20
	}
	if doc.Description == "" {
		issues = append(issues, "llms.txt missing description")
	} else {
		score += 20
	}

	totalLinks := 0
	for _, links := range doc.Sections {
		totalLinks += len(links)
	}
	if len(doc.Sections) > 0 {
		score += 15
	}
	if totalLinks > 0 {
		score += 15
	}

	out := newOutput("llms_txt", score, levelFromScore(score))
	out.Issues = issues
	out.Details["found"] = true
	out.Details["title"] = doc.Title
	out.Details["section_count"] = len(doc.Sections)
	out.Details["link_count"] = totalLinks
	return out
}
