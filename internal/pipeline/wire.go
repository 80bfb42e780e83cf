package pipeline

import (
	"context"
	"fmt"

	"github.com/ppiankov/credible/internal/adjudicate"
	"github.com/ppiankov/credible/internal/cache"
	"github.com/ppiankov/credible/internal/credibility"
	"github.com/ppiankov/credible/internal/extract"
	"github.com/ppiankov/credible/internal/factcheck"
	"github.com/ppiankov/credible/internal/fetch"
	"github.com/ppiankov/credible/internal/llm"
	"github.com/ppiankov/credible/internal/logging"
	"github.com/ppiankov/credible/internal/model"
	"github.com/ppiankov/credible/internal/search"
	"github.com/ppiankov/credible/internal/worker"
)

// NewFromConfig builds the production pipeline. Components whose credentials
// are missing are left disabled and logged; only malformed configuration
// returns an error.
func NewFromConfig(ctx context.Context, cfg *model.Config) (*Pipeline, error) {
	log := logging.For("pipeline")

	var provider llm.Provider
	p, err := llm.NewProvider(llm.ConfigFromModel(cfg))
	switch {
	case err != nil:
		log.WithError(err).Warn("LLM provider unavailable, adjudication disabled")
	case p == nil:
		log.Warn("no LLM provider configured, adjudication disabled")
	default:
		provider = p
	}

	registry, err := credibility.NewDefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("load credibility table: %w", err)
	}
	classifier := credibility.NewAuthorityClassifier(&cfg.Authority, cfg.Search.AllowList, registry)
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	gateway, err := search.NewGatewayFromConfig(cfg, classifier, limiter)
	if err != nil {
		return nil, err
	}

	pageCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.WithError(err).Warn("page cache unavailable, fetching without cache")
		pageCache = nil
	}

	// The default extraction model is a Groq model; other providers use llm.model
	extractCfg := cfg.Extract
	if cfg.LLM.Provider != "groq" && extractCfg.Model == model.DefaultConfig().Extract.Model {
		extractCfg.Model = ""
	}

	components := Components{
		Fetcher:     fetch.NewFromConfig(cfg, pageCache),
		Extractor:   extract.NewClaimExtractor(provider, extractCfg, logging.For("extract")),
		Adjudicator: adjudicate.NewAdjudicator(gateway, provider, cfg.Adjudicate, gateway.AllowList(), logging.For("adjudicate")),
		Registry:    registry,
	}

	lookup, err := factcheck.NewClient(ctx, cfg.FactCheck, logging.For("factcheck"))
	if err != nil {
		log.WithError(err).Warn("tier-1 lookup unavailable")
	} else if lookup != nil {
		components.Lookup = lookup
	}

	return New(cfg, components), nil
}
