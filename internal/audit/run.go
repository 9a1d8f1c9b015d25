package audit

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/findable-ai/findable-score/internal/analyze"
	"github.com/findable-ai/findable-score/internal/calibration"
	"github.com/findable-ai/findable-score/internal/chunk"
	"github.com/findable-ai/findable-score/internal/clean"
	"github.com/findable-ai/findable-score/internal/crawlcache"
	"github.com/findable-ai/findable-score/internal/embed"
	"github.com/findable-ai/findable-score/internal/metadata"
	"github.com/findable-ai/findable-score/internal/persist"
	"github.com/findable-ai/findable-score/internal/pillar"
	"github.com/findable-ai/findable-score/internal/question"
	"github.com/findable-ai/findable-score/internal/retrieve"
	"github.com/findable-ai/findable-score/internal/robots"
	"github.com/findable-ai/findable-score/internal/robots/cache"
	"github.com/findable-ai/findable-score/internal/score"
	"github.com/findable-ai/findable-score/internal/simulate"
)

// Runner wires C3 through C14 into one audit: crawl, clean every page,
// run the page-level analyzers, compose pillar scores, build the
// retrieval index, simulate the question bank, and calculate the final
// FindableScore. A Runner is built once per process and reused across
// sites; it carries no per-run state.
type Runner struct {
	sink       metadata.MetadataSink
	store      persist.CalibrationStore
	crawlCache *crawlcache.Cache[CrawlResult]
	httpClient *http.Client
}

func NewRunner(sink metadata.MetadataSink, store persist.CalibrationStore) *Runner {
	return &Runner{
		sink:       sink,
		store:      store,
		crawlCache: crawlcache.New[CrawlResult](crawlcache.DefaultTTL),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Outcome is the full result of one audit run, bundling what a caller
// needs to persist (FindableScore, the simulation it was built from, the
// crawl stats behind it) without forcing them back through the runner.
type Outcome struct {
	Domain    string
	Crawl     CrawlResult
	Score     score.FindableScore
	Sim       simulate.Result
	Arm       calibration.Arm
	CompanyName string
}

// Run executes one full audit of startURL under cfg, scoring against
// the given calibration config (already resolved to whichever arm the
// site was assigned to). useCache controls whether a fresh cached crawl
// for the domain may be reused instead of recrawling.
func (r *Runner) Run(ctx context.Context, startURL string, crawlCfg CrawlConfig, calCfg calibration.Config, useCache, forceRefresh bool) (Outcome, error) {
	start, err := url.Parse(startURL)
	if err != nil {
		return Outcome{}, err
	}
	domain := start.Hostname()

	crawlFn := func() (CrawlResult, error) {
		crawler := NewCrawler(r.sink, crawlCfg)
		return crawler.Crawl(ctx, startURL)
	}

	var crawlResult CrawlResult
	if useCache {
		crawlResult, err = r.crawlCache.GetOrCrawl(domain, forceRefresh, crawlFn)
	} else {
		crawlResult, err = crawlFn()
	}
	if err != nil {
		return Outcome{}, err
	}

	cleaner := clean.NewCleaner(r.sink)
	type pageAnalysis struct {
		cleaned    clean.CleanedPage
		heading    analyze.Output
		link       analyze.Output
		structure  analyze.Output
		schema     analyze.Output
		authority  analyze.Output
		paragraph  analyze.Output
		js         analyze.Output
		ttfb       analyze.Output
		linkInfo   analyze.PageLinkInfo
	}

	var analyses []pageAnalysis
	for _, page := range crawlResult.Pages {
		cleaned, cerr := cleaner.Clean(page.URL.String(), []byte(page.HTML), page.Depth, page.FetchedAt)
		if cerr != nil {
			continue
		}
		doc, derr := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
		if derr != nil {
			continue
		}

		headingOut := analyze.Heading(cleaned.Metadata().Headings)
		linkOut := analyze.Link(doc, analyze.DefaultLinkParam())
		structureOut := analyze.Structure(cleaned, doc, headingOut, linkOut, analyze.DefaultStructureParam())
		schemaOut := analyze.Schema(cleaned.Metadata())
		authorityOut := analyze.Authority(cleaned.Metadata(), doc)
		paragraphOut := analyze.Paragraph(cleaned.MainContent())
		jsOut := analyze.JSDetection(cleaned.MainContent(), page.HTML, doc)
		ttfbOut := analyze.TTFB(time.Duration(page.FetchTimeMs) * time.Millisecond)

		var internalTargets []string
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			resolved, perr := page.FinalURL.Parse(href)
			if perr != nil {
				return
			}
			if resolved.Hostname() == start.Hostname() {
				internalTargets = append(internalTargets, resolved.String())
			}
		})

		analyses = append(analyses, pageAnalysis{
			cleaned:   cleaned,
			heading:   headingOut,
			link:      linkOut,
			structure: structureOut,
			schema:    schemaOut,
			authority: authorityOut,
			paragraph: paragraphOut,
			js:        jsOut,
			ttfb:      ttfbOut,
			linkInfo: analyze.PageLinkInfo{
				URL:                 page.URL.String(),
				InternalLinkTargets: internalTargets,
				WordCount:           cleaned.WordCount(),
			},
		})
	}

	var structureOuts, schemaOuts, authorityOuts, jsOuts, ttfbOuts []analyze.Output
	var linkInfos []analyze.PageLinkInfo
	for _, a := range analyses {
		structureOuts = append(structureOuts, a.structure)
		schemaOuts = append(schemaOuts, a.schema)
		authorityOuts = append(authorityOuts, a.authority)
		jsOuts = append(jsOuts, a.js)
		ttfbOuts = append(ttfbOuts, a.ttfb)
		linkInfos = append(linkInfos, a.linkInfo)
	}
	analyze.TopicCluster(linkInfos)

	llmsOut := r.fetchLlmsTxt(ctx, start)
	robotsOut := r.fetchRobotsAI(ctx, start)

	pillars := []pillar.Score{
		pillar.Technical(robotsOut, averageOutput("ttfb", ttfbOuts), llmsOut, averageOutput("js_detection", jsOuts), start.Scheme == "https", calCfg.Weights.Technical, pillar.TechnicalSubWeights{
			Robots:          calCfg.SubWeights.Robots,
			TTFB:            calCfg.SubWeights.TTFB,
			LlmsTxt:         calCfg.SubWeights.LlmsTxt,
			JSAccessibility: calCfg.SubWeights.JSAccessibility,
			HTTPS:           calCfg.SubWeights.HTTPS,
		}),
		pillar.Structure(averageOutput("structure", structureOuts), calCfg.Weights.Structure),
		pillar.Schema(averageOutput("schema", schemaOuts), calCfg.Weights.Schema),
		pillar.Authority(averageOutput("authority", authorityOuts), calCfg.Weights.Authority),
	}

	embedder := embed.NewEmbedder(embed.DefaultHashingModel())
	index := retrieve.NewIndex(domain, embedder)
	chunker := chunk.NewChunker(chunk.DefaultParam())

	var headings []string
	var schemaTypes []string
	for _, a := range analyses {
		for _, h := range a.cleaned.Metadata().Headings.H1 {
			headings = append(headings, h)
		}
		schemaTypes = append(schemaTypes, a.cleaned.Metadata().SchemaTypes...)
		for _, ch := range chunker.Chunk(a.cleaned.URL(), a.cleaned.Blocks()) {
			vec, eerr := embedder.Embed(ch.Content())
			if eerr != nil {
				continue
			}
			index.Upsert(retrieve.Doc{
				DocID:          ch.ChunkID(),
				SiteID:         domain,
				ContentHash:    embed.ContentHash(ch.Content()),
				Content:        ch.Content(),
				Embedding:      vec,
				HeadingContext: ch.HeadingContext(),
				SourceURL:      a.cleaned.URL(),
				PageTitle:      a.cleaned.Title(),
				PositionRatio:  ch.PositionRatio(),
			})
		}
	}
	index.Build()

	companyName := domain
	siteCtx := question.SiteContext{
		CompanyName: companyName,
		Domain:      domain,
		SchemaTypes: schemaTypes,
		Headings:    headings,
	}
	questions := question.Generate(siteCtx)

	simRunner := simulate.NewRunner(newRetrieverAdapter(index), simulate.Config{
		TopK:                 5,
		Weights:              simulate.ScoringWeights(calCfg.ScoringWeights),
		Thresholds:           simulate.Thresholds(calCfg.Thresholds),
		SignalMatchThreshold: 0.5,
		CoverageFloor:        0.3,
		WorkerCount:          4,
	})
	simResult, simErr := simRunner.Run(ctx, questions)
	if simErr != nil {
		return Outcome{}, simErr
	}

	pillars = append(pillars, pillar.Retrieval(simResult, calCfg.Weights.Retrieval), pillar.Coverage(simResult, calCfg.Weights.Coverage))

	finalScore := score.Calculate(pillars)
	arm := calibration.AssignArm(domain, 0.5)

	return Outcome{
		Domain:      domain,
		Crawl:       crawlResult,
		Score:       finalScore,
		Sim:         simResult,
		Arm:         arm,
		CompanyName: companyName,
	}, nil
}

// averageOutput merges same-named per-page analyzer outputs into one
// site-level Output: mean raw score, union of issues, level re-derived
// from the averaged score.
func averageOutput(name string, outs []analyze.Output) analyze.Output {
	if len(outs) == 0 {
		return analyze.Output{Name: name, Level: analyze.LevelLimited, Details: map[string]any{}}
	}
	var sum float64
	var issues []string
	for _, o := range outs {
		sum += o.RawScore
		issues = append(issues, o.Issues...)
	}
	avg := sum / float64(len(outs))
	return analyze.Output{
		Name:     name,
		RawScore: avg,
		Level:    analyze.LevelFromScore(avg),
		Issues:   issues,
		Details:  map[string]any{"pages_analyzed": len(outs)},
	}
}

func (r *Runner) fetchLlmsTxt(ctx context.Context, start *url.URL) analyze.Output {
	target := *start
	target.Path = "/llms.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return analyze.LlmsTxt("", false)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		return analyze.LlmsTxt("", false)
	}
	defer resp.Body.Close()
	body := make([]byte, 0, 64*1024)
	buf := make([]byte, 4096)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			body = append(body, buf[:n]...)
		}
		if rerr != nil {
			break
		}
		if len(body) > 256*1024 {
			break
		}
	}
	return analyze.LlmsTxt(string(body), true)
}

func (r *Runner) fetchRobotsAI(ctx context.Context, start *url.URL) analyze.Output {
	fetcher := robots.NewRobotsFetcherWithClient(r.sink, "FindableScoreBot/1.0", r.httpClient, cache.NewMemoryCache())
	scheme := start.Scheme
	if scheme == "" {
		scheme = "https"
	}
	result, rerr := fetcher.Fetch(ctx, scheme, start.Host)
	if rerr != nil {
		return analyze.RobotsAI(robots.RobotsResponse{}, time.Now(), *start)
	}
	return analyze.RobotsAI(result.Response, result.FetchedAt, *start)
}
