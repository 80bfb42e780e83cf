package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/credible/internal/credibility"
	"github.com/ppiankov/credible/internal/logging"
	"github.com/ppiankov/credible/internal/model"
	"github.com/ppiankov/credible/internal/util"
	"github.com/ppiankov/credible/internal/worker"
)

// Options tunes the gateway
type Options struct {
	AllowList       []string
	MaxResults      int
	KeepResults     int
	MaxExcerptChars int
	Timeout         time.Duration
	Limiter         *worker.Limiter                  // Optional, keyed per provider
	Classifier      *credibility.AuthorityClassifier // Optional, tags Evidence.Authority
	Logger          *logrus.Entry
}

// Gateway is the evidence search entry point. Provider failures never escape:
// the worst case is an empty EvidenceSet.
type Gateway struct {
	primary  Provider
	fallback Provider
	opts     Options
	log      *logrus.Entry
}

// NewGateway creates a gateway. Either provider may be nil.
func NewGateway(primary, fallback Provider, opts Options) *Gateway {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 5
	}
	if opts.KeepResults <= 0 {
		opts.KeepResults = 3
	}
	if opts.MaxExcerptChars <= 0 {
		opts.MaxExcerptChars = 2000
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Gateway{
		primary:  primary,
		fallback: fallback,
		opts:     opts,
		log:      logging.OrDefault(opts.Logger, "search"),
	}
}

// NewProvider builds a provider by name. A name without credentials
// returns (nil, nil) so the gateway can run without it.
func NewProvider(name string, cfg *model.Config, client *http.Client) (Provider, error) {
	switch strings.ToLower(name) {
	case "tavily":
		if cfg.Search.TavilyAPIKey == "" {
			return nil, nil
		}
		return NewTavilyProvider(cfg.Search.TavilyAPIKey, cfg.Search.TavilyBaseURL, client)
	case "serper":
		if cfg.Search.SerperAPIKey == "" {
			return nil, nil
		}
		return NewSerperProvider(cfg.Search.SerperAPIKey, cfg.Search.SerperBaseURL, client)
	case "duckduckgo", "ddg":
		return NewDuckDuckGoProvider(cfg.Search.DuckDuckGoBaseURL, cfg.HTTP.UserAgent, client), nil
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown search provider: %s (supported: tavily, serper, duckduckgo)", name)
	}
}

// NewGatewayFromConfig wires providers, limiter and classifier from configuration
func NewGatewayFromConfig(cfg *model.Config, classifier *credibility.AuthorityClassifier, limiter *worker.Limiter) (*Gateway, error) {
	client := util.NewHTTPClient(util.ClientOptions{
		Timeout:    cfg.Search.Timeout,
		HTTPProxy:  cfg.HTTP.HTTPProxy,
		HTTPSProxy: cfg.HTTP.HTTPSProxy,
		NoProxy:    cfg.HTTP.NoProxy,
	})

	primary, err := NewProvider(cfg.Search.Primary, cfg, client)
	if err != nil {
		return nil, fmt.Errorf("primary search provider: %w", err)
	}
	fallback, err := NewProvider(cfg.Search.Fallback, cfg, client)
	if err != nil {
		return nil, fmt.Errorf("fallback search provider: %w", err)
	}

	log := logging.For("search")
	if primary == nil && cfg.Search.Primary != "" {
		log.WithField("provider", cfg.Search.Primary).Warn("primary search provider has no API key, using fallback only")
	}
	if primary == nil && fallback == nil {
		log.Warn("no search provider configured, adjudication will run without evidence")
	}

	return NewGateway(primary, fallback, Options{
		AllowList:       cfg.Search.AllowList,
		MaxResults:      cfg.Search.MaxResults,
		KeepResults:     cfg.Search.KeepResults,
		MaxExcerptChars: cfg.Search.MaxExcerptChars,
		Timeout:         cfg.Search.Timeout,
		Limiter:         limiter,
		Classifier:      classifier,
		Logger:          log,
	}), nil
}

// AllowList returns the authority domains the primary search is restricted to
func (g *Gateway) AllowList() []string {
	return append([]string(nil), g.opts.AllowList...)
}

// Available reports whether any provider is configured
func (g *Gateway) Available() bool {
	return g.primary != nil || g.fallback != nil
}

// Search returns evidence for query. The primary provider is restricted to
// the allow-list and filtered to article URLs; the fallback runs when the
// primary is missing, errors or yields nothing usable.
func (g *Gateway) Search(ctx context.Context, query string) model.EvidenceSet {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.EvidenceSet{}
	}

	if g.primary != nil {
		results, err := g.run(ctx, g.primary, Query{
			Text:           query,
			IncludeDomains: g.opts.AllowList,
			MaxResults:     g.opts.MaxResults,
		})
		if err != nil {
			g.log.WithError(err).WithField("provider", g.primary.Name()).Warn("primary search failed, falling back")
		} else if set := g.collect(g.primary.Name(), results, true); !set.Empty() {
			return set
		} else {
			g.log.WithField("provider", g.primary.Name()).Debug("primary search returned no usable results, falling back")
		}
	}

	if g.fallback != nil {
		results, err := g.run(ctx, g.fallback, Query{Text: query, MaxResults: g.opts.MaxResults})
		if err != nil {
			g.log.WithError(err).WithField("provider", g.fallback.Name()).Warn("fallback search failed")
			return model.EvidenceSet{}
		}
		return g.collect(g.fallback.Name(), results, false)
	}

	return model.EvidenceSet{}
}

// Blob returns the rendered evidence text for query, "" when nothing was found
func (g *Gateway) Blob(ctx context.Context, query string) string {
	return g.Search(ctx, query).Blob()
}

func (g *Gateway) run(ctx context.Context, p Provider, q Query) ([]Result, error) {
	if g.opts.Limiter != nil {
		if err := g.opts.Limiter.Wait(ctx, "search://"+p.Name()); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	return p.Search(ctx, q)
}

// collect converts raw hits into evidence. Primary results are filtered to
// allow-listed article URLs and cut to KeepResults; fallback results keep up
// to MaxResults.
func (g *Gateway) collect(provider string, results []Result, primary bool) model.EvidenceSet {
	limit := g.opts.MaxResults
	if primary {
		limit = g.opts.KeepResults
	}

	seen := make(map[string]bool, len(results))
	items := make([]model.Evidence, 0, limit)
	for _, r := range results {
		if len(items) >= limit {
			break
		}
		u := strings.TrimSpace(r.URL)
		content := strings.TrimSpace(r.Content)
		if u == "" || content == "" || seen[u] {
			continue
		}
		if primary && (!IsArticleURL(u) || !InAllowList(u, g.opts.AllowList)) {
			continue
		}
		seen[u] = true
		items = append(items, model.Evidence{
			SourceURL: u,
			Title:     strings.TrimSpace(r.Title),
			Excerpt:   truncateRunes(content, g.opts.MaxExcerptChars),
		})
	}

	if len(items) == 0 {
		return model.EvidenceSet{}
	}

	set := model.EvidenceSet{Provider: provider, Items: items}
	if g.opts.Classifier != nil {
		g.opts.Classifier.Tag(&set)
	}
	return set
}

func truncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
