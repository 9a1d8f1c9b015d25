package audit

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/findable-ai/findable-score/internal/config"
	"github.com/findable-ai/findable-score/internal/fetcher"
	"github.com/findable-ai/findable-score/internal/frontier"
	"github.com/findable-ai/findable-score/internal/metadata"
	"github.com/findable-ai/findable-score/internal/robots"
	"github.com/findable-ai/findable-score/internal/sitemap"
	"github.com/findable-ai/findable-score/pkg/retry"
	"github.com/findable-ai/findable-score/pkg/timeutil"
	"github.com/findable-ai/findable-score/pkg/urlutil"
)

/*
Crawler is the BFS crawl stage (C3): a single admission choke point
feeding a per-depth FIFO frontier, dequeued in a loop that counts every
robots or fetch failure and continues with the next URL. It emits an
in-memory CrawlResult of CrawlPage value objects rather than writing
markdown files to storage.
*/
type Crawler struct {
	robot     robots.Robot
	fetcher   fetcher.Fetcher
	sitemap   *sitemap.Parser
	sink      metadata.MetadataSink
	cfg       CrawlConfig
}

// NewCrawler builds a Crawler with a fresh per-crawl robots cache and
// HTML fetcher, both reporting through sink.
func NewCrawler(sink metadata.MetadataSink, cfg CrawlConfig) *Crawler {
	robot := robots.NewCachedRobot(sink)
	robot.Init(cfg.UserAgent)

	htmlFetcher := fetcher.NewHtmlFetcher(sink)

	return &Crawler{
		robot:   &robot,
		fetcher: &htmlFetcher,
		sitemap: sitemap.NewParser(sink, cfg.UserAgent),
		sink:    sink,
		cfg:     cfg,
	}
}

// Crawl runs a BFS crawl of startURL's domain to completion, bounded by
// cfg.MaxPages/MaxDepth, and returns the assembled CrawlResult.
func (c *Crawler) Crawl(ctx context.Context, startURL string) (CrawlResult, error) {
	start, err := url.Parse(startURL)
	if err != nil {
		return CrawlResult{}, err
	}

	startedAt := time.Now()
	result := CrawlResult{
		Domain:          start.Hostname(),
		StartURL:        startURL,
		StartedAt:       startedAt,
		RobotsRespected: c.cfg.RespectRobots,
	}

	front := frontier.NewCrawlFrontier()
	frontierCfg, ferr := config.WithDefault([]url.URL{*start}).
		WithMaxDepth(c.cfg.MaxDepth).
		WithMaxPages(c.cfg.MaxPages).
		Build()
	if ferr != nil {
		return CrawlResult{}, ferr
	}
	front.Init(frontierCfg)

	retryParam := retry.NewRetryParam(0, 0, 1, 1, timeutil.NewBackoffParam(0, 1, 0))

	c.submit(&front, *start, frontier.SourceSeed, 0, &result)

	for _, p := range c.cfg.PriorityPaths {
		candidate := *start
		candidate.Path = p
		candidate.RawQuery = ""
		candidate.Fragment = ""
		c.submit(&front, candidate, frontier.SourceSeed, 0, &result)
	}

	sitemapCap := 100
	if twiceMaxPages := 2 * c.cfg.MaxPages; twiceMaxPages < sitemapCap {
		sitemapCap = twiceMaxPages
	}
	sitemapResult := c.sitemap.FetchAndParse(ctx, []string{
		start.Scheme + "://" + start.Host + "/sitemap.xml",
	})
	for i, u := range sitemapResult.URLs() {
		if i >= sitemapCap {
			break
		}
		parsed, perr := url.Parse(u.Loc())
		if perr != nil {
			continue
		}
		c.submit(&front, *parsed, frontier.SourceSeed, 0, &result)
	}

	for len(result.Pages) < c.cfg.MaxPages {
		token, ok := front.Dequeue()
		if !ok {
			break
		}

		if err := ctx.Err(); err != nil {
			break
		}

		target := token.URL()
		depth := token.Depth()
		if depth > result.MaxDepthReached {
			result.MaxDepthReached = depth
		}

		if c.cfg.RespectRobots {
			decision, derr := c.robot.Decide(target)
			if derr != nil {
				result.URLsFailed++
				continue
			}
			if !decision.Allowed {
				result.URLsSkipped++
				continue
			}
		}

		fetchParam := fetcher.NewFetchParam(target, c.cfg.UserAgent)
		fetchStart := time.Now()
		fetchResult, ferr := c.fetcher.Fetch(ctx, depth, fetchParam, retryParam)
		if ferr != nil {
			result.URLsFailed++
			continue
		}
		elapsedMs := time.Since(fetchStart).Milliseconds()

		html := string(fetchResult.Body())
		links := discoverLinks(html, target)

		page := CrawlPage{
			URL:         target,
			FinalURL:    fetchResult.URL(),
			Title:       extractTitle(html),
			HTML:        html,
			ContentType: fetchResult.Headers()["Content-Type"],
			StatusCode:  fetchResult.Code(),
			Depth:       depth,
			FetchTimeMs: elapsedMs,
			FetchedAt:   fetchResult.FetchedAt(),
			LinksFound:  len(links),
			Surface:     classifySurface(target),
		}
		result.Pages = append(result.Pages, page)
		result.URLsCrawled++
		if page.Surface == SurfaceDocs {
			result.DocsPagesCrawled++
			result.DocsSurfaceDetected = true
		} else {
			result.MarketingPagesCrawled++
		}

		if depth >= c.cfg.MaxDepth {
			continue
		}
		for _, link := range links {
			if !c.cfg.FollowExternalLinks && !urlutil.SameRegisteredDomain(link.Hostname(), start.Hostname()) {
				continue
			}
			c.submit(&front, link, frontier.SourceCrawl, depth+1, &result)
		}
	}

	result.CompletedAt = time.Now()
	result.DurationSeconds = result.CompletedAt.Sub(startedAt).Seconds()
	return result, nil
}

func (c *Crawler) submit(front *frontier.Frontier, target url.URL, source frontier.SourceContext, depth int, result *CrawlResult) {
	if urlutil.ShouldSkip(target) {
		return
	}
	canonical := urlutil.Canonicalize(target)
	meta := frontier.NewDiscoveryMetadata(depth, nil)
	candidate := frontier.NewCrawlAdmissionCandidate(canonical, source, meta)
	front.Submit(candidate)
	result.URLsDiscovered++
}

func extractTitle(html string) string {
	lower := strings.ToLower(html)
	start := strings.Index(lower, "<title>")
	if start == -1 {
		return ""
	}
	start += len("<title>")
	end := strings.Index(lower[start:], "</title>")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(html[start : start+end])
}

// discoverLinks extracts and normalizes every href on a page against its
// final URL, dropping non-crawlable schemes, mirroring the spec's "drop
// javascript:/mailto:/tel:/#..., normalize each against the page's final
// URL" rule without pulling in a DOM parser at this layer.
func discoverLinks(html string, base url.URL) []url.URL {
	var links []url.URL
	lower := strings.ToLower(html)
	idx := 0
	for {
		pos := strings.Index(lower[idx:], "href=")
		if pos == -1 {
			break
		}
		pos += idx + len("href=")
		idx = pos
		if pos >= len(html) {
			break
		}
		quote := html[pos]
		if quote != '"' && quote != '\'' {
			continue
		}
		end := strings.IndexByte(html[pos+1:], quote)
		if end == -1 {
			break
		}
		raw := html[pos+1 : pos+1+end]
		idx = pos + 1 + end

		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		lowerRaw := strings.ToLower(raw)
		if strings.HasPrefix(lowerRaw, "javascript:") || strings.HasPrefix(lowerRaw, "mailto:") || strings.HasPrefix(lowerRaw, "tel:") {
			continue
		}

		resolved, err := base.Parse(raw)
		if err != nil {
			continue
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			continue
		}
		links = append(links, *resolved)
	}
	return links
}
