package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/credible/internal/pipeline"
)

var (
	outJSON        string
	outMD          string
	articleTimeout time.Duration
	userAgent      string
	noCache        bool
	fetchMode      string
)

// articleCmd represents the article command
var articleCmd = &cobra.Command{
	Use:   "article <url>",
	Short: "Fact-check every claim in a news article",
	Long: `Article fetches the page, extracts the checkable claims, adjudicates each
one against gathered evidence and reports a composite verdict.

Example:
  credible article https://www.thehindu.com/news/national/some-story.ece
  credible article https://example.com/story --json report.json --md report.md
  credible article https://example.com/story --fetch direct`,
	Args: cobra.ExactArgs(1),
	RunE: runArticle,
}

func init() {
	rootCmd.AddCommand(articleCmd)

	articleCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	articleCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	articleCmd.Flags().DurationVar(&articleTimeout, "timeout", 0, "overall timeout (default: pipeline.article_timeout)")

	articleCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent for direct fetches")
	articleCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable page cache (force fresh fetch)")
	articleCmd.Flags().StringVar(&fetchMode, "fetch", "", "fetch mode: auto, scraper, direct")
}

func runArticle(cmd *cobra.Command, args []string) error {
	url := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if articleTimeout > 0 {
		cfg.Pipeline.ArticleTimeout = articleTimeout
	}
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	if fetchMode != "" {
		cfg.Fetch.Mode = fetchMode
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", url)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", cfg.Pipeline.ArticleTimeout)
		fmt.Fprintf(os.Stderr, "Fetch:   %s\n", cfg.Fetch.Mode)
		fmt.Fprintf(os.Stderr, "Cache:   %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	ctx := context.Background()
	p, err := pipeline.NewFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	report, err := p.CheckArticle(ctx, url)
	if err != nil {
		return fmt.Errorf("article check failed: %w", err)
	}

	renderer := p.Renderer()
	renderer.RenderSummary(os.Stdout, report)

	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outJSON)
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outMD)
	}
	return nil
}
