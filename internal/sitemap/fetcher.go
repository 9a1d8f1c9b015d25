package sitemap

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/findable-ai/findable-score/internal/metadata"
)

/*
Parser

Responsibilities:
- Fetch sitemap URLs (optionally gzip-compressed) over HTTP
- Recurse into <sitemapindex> documents up to MaxSitemaps total fetches
- Extract <url> entries from <urlset> documents, capped at MaxURLs
- Never abort a crawl on a malformed sitemap: errors are collected and
  reported, not raised

This mirrors robots.RobotsFetcher's shape: a thin HTTP+XML layer that
returns a structured Result, leaving ordering/seeding decisions to the
scheduler.
*/

// Parser fetches and parses sitemap.xml / sitemap-index.xml documents.
type Parser struct {
	httpClient *http.Client
	userAgent  string
	sink       metadata.MetadataSink
}

// NewParser builds a Parser with a 30s-timeout client, matching
// robots.NewRobotsFetcher's default.
func NewParser(sink metadata.MetadataSink, userAgent string) *Parser {
	return &Parser{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  userAgent,
		sink:       sink,
	}
}

// NewParserWithClient injects a custom HTTP client, for tests.
func NewParserWithClient(sink metadata.MetadataSink, userAgent string, client *http.Client) *Parser {
	return &Parser{httpClient: client, userAgent: userAgent, sink: sink}
}

// FetchAndParse fetches each of seedURLs (up to MaxSitemaps total documents,
// counting nested sitemaps discovered via a sitemapindex) and returns the
// combined, deduplicated, priority-sorted Result.
func (p *Parser) FetchAndParse(ctx context.Context, seedURLs []string) Result {
	var allURLs []URL
	var errs []string
	seenLoc := make(map[string]bool)
	sitemapsParsed := 0

	queue := append([]string{}, seedURLs...)
	for len(queue) > 0 && sitemapsParsed < MaxSitemaps {
		next := queue[0]
		queue = queue[1:]

		urls, nested, err := p.fetchOne(ctx, next)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", next, err))
			continue
		}
		sitemapsParsed++

		for _, u := range urls {
			if seenLoc[u.loc] {
				continue
			}
			seenLoc[u.loc] = true
			allURLs = append(allURLs, u)
		}
		if len(allURLs) >= MaxURLs {
			allURLs = allURLs[:MaxURLs]
			break
		}

		remaining := MaxSitemaps - sitemapsParsed
		if remaining > 0 && len(nested) > 0 {
			if len(nested) > remaining {
				nested = nested[:remaining]
			}
			queue = append(queue, nested...)
		}
	}

	sort.SliceStable(allURLs, func(i, j int) bool {
		return priorityOf(allURLs[i]) > priorityOf(allURLs[j])
	})

	return newResult(allURLs, sitemapsParsed, errs)
}

func priorityOf(u URL) float64 {
	if u.priority == 0 {
		return defaultPriority
	}
	return u.priority
}

func (p *Parser) fetchOne(ctx context.Context, sitemapURL string) ([]URL, []string, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if p.sink != nil {
		p.sink.RecordFetch(sitemapURL, resp.StatusCode, time.Since(start), resp.Header.Get("Content-Type"), 0, 0)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	const maxSize = 10 * 1024 * 1024
	content, err := io.ReadAll(io.LimitReader(resp.Body, maxSize))
	if err != nil {
		return nil, nil, err
	}

	if strings.HasSuffix(sitemapURL, ".gz") || resp.Header.Get("Content-Encoding") == "gzip" {
		if decompressed, derr := gunzip(content); derr == nil {
			content = decompressed
		}
	}

	return parseSitemapXML(content)
}

func gunzip(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func parseSitemapXML(content []byte) ([]URL, []string, error) {
	var doc sitemapXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, nil, fmt.Errorf("invalid sitemap XML: %w", err)
	}

	nested := make([]string, 0, len(doc.XMLNSitemaps))
	for _, s := range doc.XMLNSitemaps {
		loc := strings.TrimSpace(s.Loc)
		if loc != "" {
			nested = append(nested, loc)
		}
	}

	urls := make([]URL, 0, len(doc.URLs))
	for _, u := range doc.URLs {
		loc := strings.TrimSpace(u.Loc)
		if loc == "" {
			continue
		}
		var priority float64
		if p := strings.TrimSpace(u.Priority); p != "" {
			if parsed, perr := strconv.ParseFloat(p, 64); perr == nil {
				priority = parsed
			}
		}
		urls = append(urls, newURL(loc, strings.TrimSpace(u.LastMod), strings.TrimSpace(u.ChangeFreq), priority))
	}

	return urls, nested, nil
}
