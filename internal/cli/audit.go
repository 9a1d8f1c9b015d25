package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/findable-ai/findable-score/internal/audit"
	"github.com/findable-ai/findable-score/internal/calibration"
	"github.com/findable-ai/findable-score/internal/metadata"
	"github.com/findable-ai/findable-score/internal/persist"
	"github.com/findable-ai/findable-score/internal/pillar"
	"github.com/spf13/cobra"
)

var (
	auditSeedURL      string
	auditMaxPages     int
	auditMaxDepth     int
	auditNoRobots     bool
	auditForceRefresh bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Score a documentation site for LLM findability.",
	Long: `audit crawls a site's documentation surface, evaluates it across the
technical, structure, schema, authority, retrieval and coverage pillars, and
prints the resulting findability score and grade.`,
	Run: func(cmd *cobra.Command, args []string) {
		if auditSeedURL == "" {
			fmt.Fprintln(os.Stderr, "Error: --url is required")
			cmd.Usage()
			os.Exit(1)
		}

		crawlCfg := audit.DefaultCrawlConfig()
		if auditMaxPages > 0 {
			crawlCfg.MaxPages = auditMaxPages
		}
		if auditMaxDepth > 0 {
			crawlCfg.MaxDepth = auditMaxDepth
		}
		if auditNoRobots {
			crawlCfg.RespectRobots = false
		}

		calCfg := defaultCalibrationConfig()

		sink := metadata.NewRecorder(fmt.Sprintf("audit-%d", time.Now().UnixNano()))
		store := persist.NewMemoryStore()
		runner := audit.NewRunner(sink, store)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		outcome, err := runner.Run(ctx, auditSeedURL, crawlCfg, calCfg, true, auditForceRefresh)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		fmt.Printf("Domain: %s\n", outcome.Domain)
		fmt.Printf("Pages crawled: %d (docs=%d marketing=%d)\n",
			outcome.Crawl.URLsCrawled, outcome.Crawl.DocsPagesCrawled, outcome.Crawl.MarketingPagesCrawled)
		fmt.Printf("Calibration arm: %s\n", outcome.Arm)
		fmt.Printf("Findable Score: %.1f (%s)\n", outcome.Score.TotalScore, outcome.Score.Grade)
		for _, p := range outcome.Score.Pillars {
			fmt.Printf("  %-12s %6.1f / %-6.1f weight=%.1f\n", p.Name, p.PointsEarned, p.MaxPoints, p.Weight)
		}
		if len(outcome.Score.CriticalIssues) > 0 {
			fmt.Println("Critical issues:")
			for _, issue := range outcome.Score.CriticalIssues {
				fmt.Printf("  - %s\n", issue)
			}
		}
	},
}

// defaultCalibrationConfig mirrors simulate.DefaultConfig's weights and
// pillar.DefaultTechnicalSubWeights, used when no active calibration.Config
// has been persisted yet for this installation.
func defaultCalibrationConfig() calibration.Config {
	subWeights := pillar.DefaultTechnicalSubWeights()
	return calibration.Config{
		ID: "default",
		Weights: calibration.PillarWeights{
			Technical: 20,
			Structure: 15,
			Schema:    15,
			Authority: 15,
			Retrieval: 25,
			Coverage:  10,
		},
		Thresholds: calibration.SimulationThresholds{
			FullyAnswerable:     0.7,
			PartiallyAnswerable: 0.3,
		},
		SubWeights: calibration.SubWeights{
			Robots:          subWeights.Robots,
			TTFB:            subWeights.TTFB,
			LlmsTxt:         subWeights.LlmsTxt,
			JSAccessibility: subWeights.JSAccessibility,
			HTTPS:           subWeights.HTTPS,
		},
		ScoringWeights: calibration.ScoringWeights{
			Relevance:  0.5,
			Signal:     0.35,
			Confidence: 0.15,
		},
		Status:    calibration.ConfigStatusActive,
		CreatedAt: time.Now(),
	}
}

func init() {
	auditCmd.Flags().StringVar(&auditSeedURL, "url", "", "site URL to audit")
	auditCmd.Flags().IntVar(&auditMaxPages, "max-pages", 0, "override crawl max pages (0 = default)")
	auditCmd.Flags().IntVar(&auditMaxDepth, "max-depth", 0, "override crawl max depth (0 = default)")
	auditCmd.Flags().BoolVar(&auditNoRobots, "ignore-robots", false, "do not gate crawling on robots.txt")
	auditCmd.Flags().BoolVar(&auditForceRefresh, "force-refresh", false, "bypass the crawl cache for this domain")
	rootCmd.AddCommand(auditCmd)
}
