// Package extract turns article text into verifiable factual claims.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/credible/internal/llm"
	"github.com/ppiankov/credible/internal/logging"
	"github.com/ppiankov/credible/internal/model"
	"github.com/ppiankov/credible/internal/util"
)

const systemPrompt = "You are an expert data extraction agent. " +
	"Extract 3-5 distinct, verifiable factual claims from the text. " +
	"Copy each claim verbatim as one sentence. Ignore opinions. Return JSON only."

const promptTemplate = `TEXT TO ANALYZE:
%s

OUTPUT FORMAT (JSON):
{
  "claims": [
    {"claim_text": "Exact quote 1", "context": "Context 1"},
    {"claim_text": "Exact quote 2", "context": "Context 2"}
  ]
}`

// ErrInvalidClaims is returned by ParseClaims when the output does not match the claim schema
var ErrInvalidClaims = errors.New("invalid claim list")

// ClaimExtractor asks a model for the factual claims in a text
type ClaimExtractor struct {
	provider    llm.Provider
	model       string
	maxInput    int
	temperature float64
	policy      util.RetryPolicy
	log         *logrus.Entry
}

// NewClaimExtractor creates a claim extractor. A nil provider leaves it unavailable.
func NewClaimExtractor(provider llm.Provider, cfg model.ExtractConfig, log *logrus.Entry) *ClaimExtractor {
	maxInput := cfg.MaxInputChars
	if maxInput <= 0 {
		maxInput = 15000
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 3
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 2 * time.Second
	}

	return &ClaimExtractor{
		provider:    provider,
		model:       cfg.Model,
		maxInput:    maxInput,
		temperature: cfg.Temperature,
		policy: util.RetryPolicy{
			Attempts: attempts,
			Backoff:  backoff,
		},
		log: logging.OrDefault(log, "extract"),
	}
}

// Available reports whether a model provider is configured
func (e *ClaimExtractor) Available() bool {
	return e != nil && e.provider != nil
}

// Extract returns the claims found in text, in the order the model listed
// them. Any failure after the last attempt yields an empty slice.
func (e *ClaimExtractor) Extract(ctx context.Context, text string) []model.Claim {
	if !e.Available() {
		return []model.Claim{}
	}

	text = strings.TrimSpace(truncateRunes(text, e.maxInput))
	if text == "" {
		return []model.Claim{}
	}

	req := llm.GenerateRequest{
		System:      systemPrompt,
		Prompt:      fmt.Sprintf(promptTemplate, text),
		Model:       e.model,
		Temperature: e.temperature,
		JSON:        true,
	}

	claims, err := util.Retry(ctx, e.policy, func(ctx context.Context, attempt int) ([]model.Claim, error) {
		resp, err := e.provider.Generate(ctx, req)
		if err != nil {
			e.log.WithError(err).WithField("attempt", attempt).Warn("extraction call failed")
			return nil, err
		}
		claims, err := ParseClaims(resp.Text)
		if err != nil {
			e.log.WithError(err).WithField("attempt", attempt).Warn("extraction output rejected")
			return nil, err
		}
		return claims, nil
	})
	if err != nil {
		e.log.WithError(err).Error("claim extraction failed")
		return []model.Claim{}
	}

	e.log.WithField("claims", len(claims)).Info("claims extracted")
	return claims
}

type claimList struct {
	Claims *[]struct {
		ClaimText string `json:"claim_text"`
		Context   string `json:"context"`
	} `json:"claims"`
}

// ParseClaims decodes model output into claims. Markdown fences and prose
// around the JSON object are tolerated. A missing claims array or an entry
// with empty claim_text is a schema error.
func ParseClaims(raw string) ([]model.Claim, error) {
	var list claimList
	if err := llm.DecodeJSON(raw, &list); err != nil {
		return nil, err
	}
	if list.Claims == nil {
		return nil, fmt.Errorf("%w: missing claims array", ErrInvalidClaims)
	}

	claims := make([]model.Claim, 0, len(*list.Claims))
	for i, c := range *list.Claims {
		claimText := strings.TrimSpace(c.ClaimText)
		if claimText == "" {
			return nil, fmt.Errorf("%w: claim %d has empty claim_text", ErrInvalidClaims, i)
		}
		claims = append(claims, model.Claim{
			Text:    claimText,
			Context: strings.TrimSpace(c.Context),
		})
	}
	return claims, nil
}
