// Package adjudicate produces a verdict for one claim from searched evidence.
package adjudicate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/credible/internal/llm"
	"github.com/ppiankov/credible/internal/logging"
	"github.com/ppiankov/credible/internal/model"
	"github.com/ppiankov/credible/internal/util"
)

// Searcher returns evidence for a query. search.Gateway implements it.
type Searcher interface {
	Search(ctx context.Context, query string) model.EvidenceSet
}

// Adjudicator checks one claim against live evidence
type Adjudicator struct {
	searcher    Searcher
	provider    llm.Provider
	model       string
	maxEvidence int
	trusted     []string
	policy      util.RetryPolicy
	log         *logrus.Entry
}

// NewAdjudicator creates an adjudicator. A nil provider leaves it unavailable;
// a nil searcher runs every claim without evidence.
func NewAdjudicator(searcher Searcher, provider llm.Provider, cfg model.AdjudicateConfig, trusted []string, log *logrus.Entry) *Adjudicator {
	maxEvidence := cfg.MaxEvidenceChars
	if maxEvidence <= 0 {
		maxEvidence = 6000
	}
	attempts := cfg.ModelAttempts
	if attempts <= 0 {
		attempts = 2
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}

	return &Adjudicator{
		searcher:    searcher,
		provider:    provider,
		model:       cfg.Model,
		maxEvidence: maxEvidence,
		trusted:     trusted,
		policy: util.RetryPolicy{
			Attempts: attempts,
			Backoff:  backoff,
			Retryable: func(err error) bool {
				return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
			},
		},
		log: logging.OrDefault(log, "adjudicate"),
	}
}

// Available reports whether a model provider is configured
func (a *Adjudicator) Available() bool {
	return a != nil && a.provider != nil
}

// Adjudicate returns a verdict for claim. prior is optional context from an
// earlier lookup. The result always carries a closed-set label.
func (a *Adjudicator) Adjudicate(ctx context.Context, claim model.Claim, prior string) model.Verdict {
	if !a.Available() {
		return model.ErrorVerdict("Backend offline.")
	}

	log := a.log.WithField("claim", truncate(claim.Text, 80))

	evidence := a.gather(ctx, claim.Text)
	blob := truncate(rankedEvidence(evidence), a.maxEvidence)

	req := llm.GenerateRequest{
		System:      systemPrompt(a.trusted),
		Prompt:      BuildPrompt(claim.Text, blob, prior),
		Model:       a.model,
		Temperature: 0,
		JSON:        true,
	}

	resp, err := util.Retry(ctx, a.policy, func(ctx context.Context, attempt int) (*llm.GenerateResponse, error) {
		resp, err := a.provider.Generate(ctx, req)
		if err != nil {
			log.WithError(err).WithField("attempt", attempt).Warn("adjudication call failed")
		}
		return resp, err
	})
	if err != nil {
		log.WithError(err).Error("adjudication failed")
		return model.ErrorVerdict(fmt.Sprintf("Analysis failed: %v", err))
	}

	result := ParseVerdict(resp.Text)
	if result.Kind != ResultOK {
		log.WithError(result.Err).WithField("kind", result.Kind).Warn("model output rejected")
		return result.Resolve()
	}

	verdict := result.Verdict
	if leaks := citationLeaks(verdict.Citations, evidence); len(leaks) > 0 {
		verdict.Warnings = leaks
		log.WithField("leaks", len(leaks)).Debug("citations outside evidence")
	}

	log.WithFields(logrus.Fields{
		"verdict":    verdict.Label,
		"confidence": verdict.Confidence,
		"evidence":   len(evidence.Items),
	}).Info("claim adjudicated")

	return verdict
}

// gather runs the search and, when it comes back empty, one broadened retry
func (a *Adjudicator) gather(ctx context.Context, claim string) model.EvidenceSet {
	if a.searcher == nil {
		return model.EvidenceSet{}
	}

	evidence := a.searcher.Search(ctx, claim)
	if !evidence.Empty() {
		return evidence
	}

	a.log.Debug("evidence empty, retrying with fact-check query")
	return a.searcher.Search(ctx, fmt.Sprintf("fact check %s official data", claim))
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
