package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/credible/internal/credibility"
	"github.com/ppiankov/credible/internal/extract"
	"github.com/ppiankov/credible/internal/fetch"
	"github.com/ppiankov/credible/internal/logging"
	"github.com/ppiankov/credible/internal/model"
	"github.com/ppiankov/credible/internal/score"
	"github.com/ppiankov/credible/internal/worker"
)

// ContentFetcher retrieves article bodies. fetch.Fetcher implements it.
type ContentFetcher interface {
	Fetch(ctx context.Context, rawURL string) fetch.Result
}

// ClaimExtractor finds claims in article text. extract.ClaimExtractor implements it.
type ClaimExtractor interface {
	Extract(ctx context.Context, text string) []model.Claim
	Available() bool
}

// ClaimAdjudicator produces a verdict per claim. adjudicate.Adjudicator implements it.
type ClaimAdjudicator interface {
	Adjudicate(ctx context.Context, claim model.Claim, prior string) model.Verdict
	Available() bool
}

// PriorLookup finds pre-existing verdicts. factcheck.Client implements it.
type PriorLookup interface {
	Lookup(ctx context.Context, claim string) (*model.PriorVerdict, error)
}

// Components are the collaborators of a Pipeline. Lookup is optional; a nil
// Registry loads the built-in credibility table.
type Components struct {
	Fetcher     ContentFetcher
	Extractor   ClaimExtractor
	Adjudicator ClaimAdjudicator
	Lookup      PriorLookup
	Registry    *credibility.Registry
}

// Pipeline orchestrates single-claim and full-article checks
type Pipeline struct {
	fetcher     ContentFetcher
	extractor   ClaimExtractor
	adjudicator ClaimAdjudicator
	lookup      PriorLookup
	registry    *credibility.Registry
	renderer    *Renderer
	config      *model.Config
	log         *logrus.Entry
}

// New creates a pipeline from explicit components
func New(cfg *model.Config, c Components) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	log := logging.For("pipeline")

	registry := c.Registry
	if registry == nil {
		var err error
		if registry, err = credibility.NewDefaultRegistry(); err != nil {
			log.WithError(err).Error("failed to load credibility table")
		}
	}

	return &Pipeline{
		fetcher:     c.Fetcher,
		extractor:   c.Extractor,
		adjudicator: c.Adjudicator,
		lookup:      c.Lookup,
		registry:    registry,
		renderer:    NewRenderer(),
		config:      cfg,
		log:         log,
	}
}

// AdjudicatorAvailable reports whether claims can be adjudicated
func (p *Pipeline) AdjudicatorAvailable() bool {
	return p.adjudicator != nil && p.adjudicator.Available()
}

// ExtractorAvailable reports whether article claims can be extracted
func (p *Pipeline) ExtractorAvailable() bool {
	return p.extractor != nil && p.extractor.Available()
}

// Renderer returns the report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Context strings handed to the adjudicator after the Tier-1 lookup
const (
	priorFoundFormat = "The static database search found a pre-existing verdict: VERDICT: %s by SOURCE: %s."
	priorNotFound    = "No pre-existing verdict was found. Rely exclusively on live, prioritized search evidence."
)

// CheckClaim verifies one claim: Tier-1 lookup first, then live adjudication
// with whatever context the lookup produced.
func (p *Pipeline) CheckClaim(ctx context.Context, text string) (*model.ClaimCheck, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}
	if !p.AdjudicatorAvailable() {
		return nil, ErrAdjudicatorUnavailable
	}

	claim := model.Claim{Text: text}
	check := &model.ClaimCheck{Claim: claim, TierUsed: model.TierAgentic}
	prior := priorNotFound

	if p.lookup != nil {
		found, err := p.lookup.Lookup(ctx, text)
		if err != nil {
			p.log.WithError(err).Warn("tier-1 lookup failed, continuing with live search")
		}
		if found != nil {
			check.PriorVerdict = found
			check.TierUsed = model.TierHybrid
			prior = fmt.Sprintf(priorFoundFormat, found.Rating, found.Publisher)
		}
	}

	check.Verdict = p.adjudicator.Adjudicate(ctx, claim, prior)
	if err := ctx.Err(); err != nil {
		return nil, deadlineError(err)
	}

	p.log.WithFields(logrus.Fields{
		"verdict": check.Verdict.Label,
		"tier":    check.TierUsed,
	}).Info("claim checked")

	return check, nil
}

// CheckArticle fetches an article, extracts its claims, adjudicates each one
// and composes the document-level verdict.
func (p *Pipeline) CheckArticle(ctx context.Context, rawURL string) (*model.ArticleReport, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrEmptyInput
	}
	if !p.AdjudicatorAvailable() {
		return nil, ErrAdjudicatorUnavailable
	}
	if p.fetcher == nil {
		return nil, &FetchError{URL: rawURL, Status: "no content fetcher configured"}
	}

	if timeout := p.config.Pipeline.ArticleTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	log := p.log.WithField("url", rawURL)

	// 1. Fetch
	page := p.fetcher.Fetch(ctx, rawURL)
	if err := ctx.Err(); err != nil {
		return nil, deadlineError(err)
	}
	if !page.OK() {
		return nil, &FetchError{URL: rawURL, Status: page.Status}
	}
	text := extract.VisibleText(page.Content)
	if text == "" {
		return nil, &FetchError{URL: rawURL, Status: "page has no readable text"}
	}
	log.WithField("chars", len(text)).Debug("content fetched")

	// 2. Extract
	var claims []model.Claim
	if p.extractor != nil {
		claims = p.extractor.Extract(ctx, text)
	}
	if err := ctx.Err(); err != nil {
		return nil, deadlineError(err)
	}
	if len(claims) == 0 {
		return nil, ErrNoClaims
	}

	// 3. Adjudicate
	verdicts := p.adjudicateAll(ctx, claims)
	if err := ctx.Err(); err != nil {
		return nil, deadlineError(err)
	}

	// 4. Compose
	composite := score.Compose(verdicts)
	log.WithFields(logrus.Fields{
		"claims":    composite.ClaimCount,
		"composite": composite.CompositeLabel,
	}).Info("article checked")

	return &model.ArticleReport{
		URL:         rawURL,
		CheckedAt:   time.Now().UTC(),
		FetchStatus: page.Status,
		ContentSize: len(text),
		Composite:   composite,
	}, nil
}

// CheckCredibility tags each link with its publisher credibility
func (p *Pipeline) CheckCredibility(links []credibility.Link) ([]credibility.Assessment, error) {
	if p.registry == nil {
		return nil, errors.New("credibility registry not loaded")
	}
	return p.registry.LookupAll(links), nil
}

// adjudicateAll runs every claim without prior context, keeping extraction order
func (p *Pipeline) adjudicateAll(ctx context.Context, claims []model.Claim) []model.ClaimVerdict {
	workers := p.config.Pipeline.ClaimWorkers
	if workers <= 1 || len(claims) == 1 {
		verdicts := make([]model.ClaimVerdict, 0, len(claims))
		for _, c := range claims {
			if ctx.Err() != nil {
				break
			}
			verdicts = append(verdicts, model.ClaimVerdict{Claim: c, Verdict: p.adjudicator.Adjudicate(ctx, c, "")})
		}
		return verdicts
	}

	if workers > len(claims) {
		workers = len(claims)
	}
	pool := worker.NewPool(ctx, workers)
	pool.Start()
	for _, c := range claims {
		if !pool.Submit(&claimJob{claim: c, adjudicator: p.adjudicator}) {
			pool.Shutdown()
			break
		}
	}
	results := pool.Wait()

	verdicts := make([]model.ClaimVerdict, len(claims))
	for i, c := range claims {
		verdicts[i] = model.ClaimVerdict{Claim: c}
		var r worker.Result
		if i < len(results) {
			r = results[i]
		}
		switch res := r.(type) {
		case *claimResult:
			verdicts[i].Verdict = res.verdict
		case *worker.PanicResult:
			p.log.WithField("claim", c.Text).Error(res.GetError())
			verdicts[i].Verdict = model.ErrorVerdict("Analysis failed: internal error.")
		default:
			verdicts[i].Verdict = model.ErrorVerdict("Adjudication did not run.")
		}
	}
	return verdicts
}

type claimJob struct {
	claim       model.Claim
	adjudicator ClaimAdjudicator
}

func (j *claimJob) Execute(ctx context.Context) worker.Result {
	return &claimResult{verdict: j.adjudicator.Adjudicate(ctx, j.claim, "")}
}

type claimResult struct {
	verdict model.Verdict
}

func (r *claimResult) GetError() error { return nil }

func deadlineError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrDeadlineExceeded, err)
	}
	return err
}
