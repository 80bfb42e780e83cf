// Package factcheck looks up pre-existing verdicts in the Google Fact Check Tools database.
package factcheck

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	factchecktools "google.golang.org/api/factchecktools/v1alpha1"
	"google.golang.org/api/option"

	"github.com/ppiankov/credible/internal/logging"
	"github.com/ppiankov/credible/internal/model"
)

const (
	defaultRating    = "VERIFIED"
	defaultPublisher = "Legacy Fact Check API"
)

// Client queries claims:search
type Client struct {
	service      *factchecktools.Service
	languageCode string
	timeout      time.Duration
	log          *logrus.Entry
}

// NewClient creates a lookup client. It returns (nil, nil) when the lookup
// is disabled or no API key is configured.
func NewClient(ctx context.Context, cfg model.FactCheckConfig, log *logrus.Entry) (*Client, error) {
	log = logging.OrDefault(log, "factcheck")
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.APIKey == "" {
		log.Warn("GOOGLE_FACT_CHECK_API_KEY not set, Tier-1 lookup disabled")
		return nil, nil
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimSuffix(cfg.BaseURL, "/")+"/"))
	}

	service, err := factchecktools.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create fact check service: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	lang := cfg.LanguageCode
	if lang == "" {
		lang = "en-IN"
	}

	return &Client{service: service, languageCode: lang, timeout: timeout, log: log}, nil
}

// Lookup returns the first review of the first matching claim, or nil when
// nothing matched. Errors are reported but callers treat them as "not found".
func (c *Client) Lookup(ctx context.Context, claim string) (*model.PriorVerdict, error) {
	if c == nil {
		return nil, nil
	}
	claim = strings.TrimSpace(claim)
	if claim == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.service.Claims.Search().
		Query(claim).
		LanguageCode(c.languageCode).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("claims search: %w", err)
	}

	if len(resp.Claims) == 0 || resp.Claims[0] == nil || len(resp.Claims[0].ClaimReview) == 0 {
		return nil, nil
	}

	review := resp.Claims[0].ClaimReview[0]
	if review == nil {
		return nil, nil
	}

	prior := &model.PriorVerdict{
		Rating:    strings.TrimSpace(review.TextualRating),
		Publisher: defaultPublisher,
		URL:       review.Url,
	}
	if prior.Rating == "" {
		prior.Rating = defaultRating
	}
	if review.Publisher != nil && strings.TrimSpace(review.Publisher.Name) != "" {
		prior.Publisher = strings.TrimSpace(review.Publisher.Name)
	}

	c.log.WithFields(logrus.Fields{
		"rating":    prior.Rating,
		"publisher": prior.Publisher,
	}).Debug("pre-existing verdict found")

	return prior, nil
}
