/*
Package audit is the run orchestrator: it wires the crawler (C3) and every
downstream stage (clean, analyze, pillar, chunk, embed, retrieve, question,
simulate, score, calibration) into one `Run`, producing in-memory value
objects instead of files on disk.
*/
package audit

import (
	"net/url"
	"time"
)

// Surface is the editorial classification of a crawled page.
type Surface string

const (
	SurfaceDocs      Surface = "docs"
	SurfaceMarketing Surface = "marketing"
)

// CrawlPage is one page gathered by the BFS crawler.
type CrawlPage struct {
	URL         url.URL
	FinalURL    url.URL
	Title       string
	HTML        string
	ContentType string
	StatusCode  int
	Depth       int
	FetchTimeMs int64
	FetchedAt   time.Time
	LinksFound  int
	Surface     Surface
}

// CrawlResult is the full output of one BFS crawl of a domain.
type CrawlResult struct {
	Domain               string
	StartURL             string
	Pages                []CrawlPage
	URLsDiscovered        int
	URLsCrawled           int
	URLsSkipped           int
	URLsFailed            int
	StartedAt             time.Time
	CompletedAt           time.Time
	DurationSeconds       float64
	RobotsRespected       bool
	MaxDepthReached       int
	DocsPagesCrawled      int
	MarketingPagesCrawled int
	DocsSurfaceDetected   bool
}

// CrawlConfig is the crawl stage's recognized configuration, per the
// spec's external-interfaces table. Field names mirror the configuration
// keys verbatim; Go callers start from DefaultCrawlConfig for the
// documented defaults.
type CrawlConfig struct {
	MaxPages             int
	MaxDepth             int
	Timeout              time.Duration
	UserAgent            string
	RespectRobots        bool
	FollowExternalLinks  bool
	Concurrency          int
	MinDelay             time.Duration
	PriorityPaths        []string
}

// DefaultCrawlConfig matches the spec's documented crawl defaults.
func DefaultCrawlConfig() CrawlConfig {
	return CrawlConfig{
		MaxPages:            250,
		MaxDepth:            3,
		Timeout:             30 * time.Second,
		UserAgent:           "FindableScoreBot/1.0 (+https://findable.ai/bot)",
		RespectRobots:       true,
		FollowExternalLinks: false,
		Concurrency:         5,
		MinDelay:            500 * time.Millisecond,
		PriorityPaths:       defaultPriorityPaths(),
	}
}

func defaultPriorityPaths() []string {
	return []string{
		"/about", "/pricing", "/docs", "/faq", "/documentation", "/guide",
		"/guides", "/tutorial", "/tutorials", "/api", "/api-reference",
		"/reference", "/sdk", "/manual", "/getting-started", "/quickstart",
		"/how-to", "/blog", "/product", "/products", "/features", "/contact",
	}
}

// PipelineConfig governs which pillars the run evaluates and the
// analysis-stage crawl budget, distinct from CrawlConfig's broader
// discovery budget (the spec draws these as two separate config blocks).
type PipelineConfig struct {
	MaxPages             int
	MaxDepth             int
	CacheTTLHours        int
	RunTechnical         bool
	RunStructure         bool
	RunSchema            bool
	RunAuthority         bool
	RunSimulation        bool
	ConcurrentExtractions int
}

// DefaultPipelineConfig matches the spec's documented pipeline defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MaxPages:              50,
		MaxDepth:              2,
		CacheTTLHours:         24,
		RunTechnical:          true,
		RunStructure:          true,
		RunSchema:             true,
		RunAuthority:          true,
		RunSimulation:         true,
		ConcurrentExtractions: 5,
	}
}
