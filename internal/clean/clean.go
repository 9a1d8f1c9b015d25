/*
Responsibilities
- Parse HTML and isolate main content from chrome
- Extract descriptive page metadata (title, OG, Twitter, JSON-LD, microdata)
- Compute full-text and main-content word counts

Removal Rules
- Strip <script>, <style>, <nav>, <header>, <footer> before text extraction
- Main content is the first of <main>, <article>, #content, [role=main],
  else body minus nav/footer/header/script/style

This stage feeds the page analyzers; it never scores anything itself.
*/
package clean

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/findable-ai/findable-score/internal/metadata"
	"github.com/findable-ai/findable-score/pkg/failure"
)

var chromeSelectors = []string{"script", "style", "nav", "header", "footer"}

var mainContentSelectors = []string{"main", "article", "#content", "[role=main]"}

type Cleaner struct {
	metadataSink metadata.MetadataSink
}

func NewCleaner(metadataSink metadata.MetadataSink) Cleaner {
	return Cleaner{metadataSink: metadataSink}
}

// Clean parses htmlBytes, isolates main content and extracts PageMetadata.
func (c *Cleaner) Clean(pageURL string, htmlBytes []byte, depth int, fetchedAt time.Time) (CleanedPage, failure.ClassifiedError) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(htmlBytes)))
	if err != nil {
		cleanErr := &CleanError{Message: err.Error(), Cause: ErrCauseParseFailed}
		c.metadataSink.RecordError(time.Now(), "clean", "Cleaner.Clean",
			mapCleanErrorToMetadataCause(cleanErr.Cause), cleanErr.Error(), nil)
		return CleanedPage{}, cleanErr
	}

	pageMetadata := extractMetadata(doc)

	fullText := normalizeWhitespace(doc.Find("body").Text())

	mainSel := findMainContentSelection(doc)
	doc.Find(strings.Join(chromeSelectors, ",")).Remove()
	mainContent := normalizeWhitespace(mainSel.Text())
	if mainContent == "" {
		mainContent = normalizeWhitespace(doc.Find("body").Text())
	}

	blocks := extractBlocks(mainSel)

	title := pageMetadata.Title
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	return NewCleanedPage(pageURL, title, mainContent, fullText, pageMetadata, blocks, depth, fetchedAt, len(htmlBytes)), nil
}

// extractBlocks walks every heading/paragraph/list-item/table/pre element
// inside sel in document order, tagging each with the heading chain active
// at that point in the document.
func extractBlocks(sel *goquery.Selection) []Block {
	var blocks []Block
	var stack []string // index i holds the active heading text at level i+1

	headingLevel := func(tag string) int {
		switch tag {
		case "h1":
			return 1
		case "h2":
			return 2
		case "h3":
			return 3
		case "h4":
			return 4
		case "h5":
			return 5
		case "h6":
			return 6
		}
		return 0
	}

	sel.Find("h1,h2,h3,h4,h5,h6,p,li,table,pre").Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		text := normalizeWhitespace(s.Text())
		if text == "" {
			return
		}

		if lvl := headingLevel(tag); lvl > 0 {
			if lvl > len(stack) {
				for len(stack) < lvl-1 {
					stack = append(stack, "")
				}
				stack = append(stack, text)
			} else {
				stack = stack[:lvl-1]
				stack = append(stack, text)
			}
			blocks = append(blocks, Block{
				Type: BlockHeading, Text: text, HeadingLevel: lvl,
				HeadingContext: append([]string{}, stack...),
			})
			return
		}

		blockType := BlockText
		switch tag {
		case "li":
			blockType = BlockListItem
		case "table":
			blockType = BlockTable
		case "pre":
			blockType = BlockCode
		}
		blocks = append(blocks, Block{
			Type: blockType, Text: text,
			HeadingContext: append([]string{}, stack...),
		})
	})

	return blocks
}

// findMainContentSelection returns the first matching semantic container,
// falling back to <body> with chrome elements still attached (the caller
// strips chrome globally before re-reading text).
func findMainContentSelection(doc *goquery.Document) *goquery.Selection {
	for _, sel := range mainContentSelectors {
		node := doc.Find(sel).First()
		if node.Length() > 0 {
			return node
		}
	}
	return doc.Find("body")
}

func normalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func countWords(s string) int {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	return len(strings.Fields(s))
}

func extractMetadata(doc *goquery.Document) PageMetadata {
	pm := PageMetadata{}

	pm.Title = strings.TrimSpace(doc.Find("title").First().Text())
	pm.Description = metaContent(doc, "description")
	pm.Author = metaContent(doc, "author")
	pm.Language, _ = doc.Find("html").Attr("lang")
	if kw := metaContent(doc, "keywords"); kw != "" {
		for _, k := range strings.Split(kw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				pm.Keywords = append(pm.Keywords, k)
			}
		}
	}
	pm.CanonicalURL, _ = doc.Find(`link[rel="canonical"]`).Attr("href")
	pm.Favicon, _ = doc.Find(`link[rel="icon"], link[rel="shortcut icon"]`).First().Attr("href")

	pm.OpenGraph = OpenGraphTags{
		Title:       ogContent(doc, "og:title"),
		Description: ogContent(doc, "og:description"),
		Image:       ogContent(doc, "og:image"),
		Type:        ogContent(doc, "og:type"),
		SiteName:    ogContent(doc, "og:site_name"),
	}
	pm.TwitterCard = TwitterCardTags{
		Card:        ogContent(doc, "twitter:card"),
		Title:       ogContent(doc, "twitter:title"),
		Description: ogContent(doc, "twitter:description"),
		Image:       ogContent(doc, "twitter:image"),
	}

	pm.Headings = extractHeadings(doc)
	pm.InternalLinks, pm.ExternalLinks = countLinks(doc)
	pm.ImageCount = doc.Find("img").Length()
	pm.SchemaTypes = extractSchemaTypes(doc)
	pm.WordCount = countWords(normalizeWhitespace(doc.Find("body").Text()))

	return pm
}

func metaContent(doc *goquery.Document, name string) string {
	val, _ := doc.Find(`meta[name="` + name + `"]`).Attr("content")
	return strings.TrimSpace(val)
}

func ogContent(doc *goquery.Document, property string) string {
	val, _ := doc.Find(`meta[property="` + property + `"]`).Attr("content")
	if val == "" {
		val, _ = doc.Find(`meta[name="` + property + `"]`).Attr("content")
	}
	return strings.TrimSpace(val)
}

func extractHeadings(doc *goquery.Document) Headings {
	var h Headings
	doc.Find("h1").Each(func(_ int, s *goquery.Selection) { h.H1 = append(h.H1, strings.TrimSpace(s.Text())) })
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) { h.H2 = append(h.H2, strings.TrimSpace(s.Text())) })
	doc.Find("h3").Each(func(_ int, s *goquery.Selection) { h.H3 = append(h.H3, strings.TrimSpace(s.Text())) })
	doc.Find("h4").Each(func(_ int, s *goquery.Selection) { h.H4 = append(h.H4, strings.TrimSpace(s.Text())) })
	doc.Find("h5").Each(func(_ int, s *goquery.Selection) { h.H5 = append(h.H5, strings.TrimSpace(s.Text())) })
	doc.Find("h6").Each(func(_ int, s *goquery.Selection) { h.H6 = append(h.H6, strings.TrimSpace(s.Text())) })
	return h
}

func countLinks(doc *goquery.Document) (internal int, external int) {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "javascript:") {
			return
		}
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			external++
			return
		}
		internal++
	})
	return internal, external
}

// extractSchemaTypes walks every JSON-LD block, following @graph arrays,
// and every microdata itemtype attribute, returning unique schema.org type
// names.
func extractSchemaTypes(doc *goquery.Document) []string {
	seen := map[string]bool{}
	var types []string
	add := func(t string) {
		t = lastPathSegment(t)
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		types = append(types, t)
	}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return
		}
		walkJSONLD(payload, add)
	})

	doc.Find("[itemtype]").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("itemtype"); ok {
			add(v)
		}
	})

	return types
}

func walkJSONLD(node any, add func(string)) {
	switch v := node.(type) {
	case map[string]any:
		if t, ok := v["@type"]; ok {
			switch tt := t.(type) {
			case string:
				add(tt)
			case []any:
				for _, e := range tt {
					if s, ok := e.(string); ok {
						add(s)
					}
				}
			}
		}
		if graph, ok := v["@graph"]; ok {
			walkJSONLD(graph, add)
		}
	case []any:
		for _, e := range v {
			walkJSONLD(e, add)
		}
	}
}

func lastPathSegment(s string) string {
	s = strings.TrimSuffix(s, "/")
	if i := strings.LastIndexAny(s, "/#"); i >= 0 {
		return s[i+1:]
	}
	return s
}
