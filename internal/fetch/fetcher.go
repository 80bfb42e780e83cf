// Package fetch retrieves article bodies through a scraping service or directly.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/credible/internal/cache"
	"github.com/ppiankov/credible/internal/logging"
	"github.com/ppiankov/credible/internal/model"
	"github.com/ppiankov/credible/internal/util"
)

// Fetch modes
const (
	ModeAuto    = "auto"
	ModeScraper = "scraper"
	ModeDirect  = "direct"
)

const (
	StatusSuccess       = "Success"
	StatusRobotsBlocked = "Blocked by robots.txt"
)

// Result is the outcome of one fetch. Content is empty when the fetch failed;
// Status then carries a human-readable reason.
type Result struct {
	Content    string
	Status     string
	StatusCode int
	FinalURL   string
	Cached     bool
}

// OK reports whether content was retrieved
func (r Result) OK() bool {
	return r.Content != ""
}

// Options configures a Fetcher
type Options struct {
	Mode           string
	ScraperAPIKey  string
	ScraperBaseURL string
	Render         bool
	ScraperTimeout time.Duration

	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
	MaxRetries   int
	Backoff      time.Duration

	// Client is used for both modes; nil builds a default client with a 3-redirect limit
	Client *http.Client

	// Robots is consulted before direct fetches when set
	Robots *util.RobotsChecker

	Cache    cache.Cache
	CacheTTL time.Duration

	Logger *logrus.Entry
}

// Fetcher retrieves page content
type Fetcher struct {
	mode    string
	scraper *scraperClient
	direct  *directClient
	cache   cache.Cache
	ttl     time.Duration
	log     *logrus.Entry
}

// New creates a Fetcher
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.ScraperTimeout <= 0 {
		opts.ScraperTimeout = 60 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 5_000_000
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if opts.Client == nil {
		opts.Client = util.NewHTTPClient(util.ClientOptions{MaxRedirects: 3})
	}

	f := &Fetcher{
		mode:  resolveMode(opts.Mode, opts.ScraperAPIKey),
		cache: opts.Cache,
		ttl:   opts.CacheTTL,
		log:   logging.OrDefault(opts.Logger, "fetch"),
	}

	f.direct = &directClient{
		client:    opts.Client,
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBodyBytes,
		timeout:   opts.Timeout,
		robots:    opts.Robots,
		policy: util.RetryPolicy{
			Attempts:   opts.MaxRetries,
			Backoff:    opts.Backoff,
			Multiplier: 2,
			Retryable:  isRetryable,
		},
	}

	if opts.ScraperAPIKey != "" {
		base := opts.ScraperBaseURL
		if base == "" {
			base = "https://api.scraperapi.com/"
		}
		f.scraper = &scraperClient{
			client:   opts.Client,
			apiKey:   opts.ScraperAPIKey,
			baseURL:  base,
			render:   opts.Render,
			timeout:  opts.ScraperTimeout,
			maxBytes: opts.MaxBodyBytes,
		}
	}

	return f
}

// NewFromConfig wires a Fetcher from the runtime configuration
func NewFromConfig(cfg *model.Config, pageCache cache.Cache) *Fetcher {
	client := util.NewHTTPClient(util.ClientOptions{
		InsecureTLS:  cfg.HTTP.InsecureTLS,
		HTTPProxy:    cfg.HTTP.HTTPProxy,
		HTTPSProxy:   cfg.HTTP.HTTPSProxy,
		NoProxy:      cfg.HTTP.NoProxy,
		MaxRedirects: 3,
	})

	var robots *util.RobotsChecker
	if cfg.HTTP.RespectRobots {
		robots = util.NewRobotsChecker(client, cfg.HTTP.UserAgent, time.Hour)
	}

	f := New(Options{
		Mode:           cfg.Fetch.Mode,
		ScraperAPIKey:  cfg.Fetch.ScraperAPIKey,
		ScraperBaseURL: cfg.Fetch.ScraperBaseURL,
		Render:         cfg.Fetch.Render,
		ScraperTimeout: cfg.Fetch.ScraperTimeout,
		Timeout:        cfg.HTTP.Timeout,
		UserAgent:      cfg.HTTP.UserAgent,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		MaxRetries:     cfg.Fetch.MaxRetries,
		Client:         client,
		Robots:         robots,
		Cache:          pageCache,
		CacheTTL:       cfg.Cache.TTL,
	})

	if f.mode == ModeScraper && f.scraper == nil {
		f.log.Warn("SCRAPING_API_KEY not set, scraper fetches will fail")
	}
	return f
}

// Mode returns the effective fetch mode
func (f *Fetcher) Mode() string {
	return f.mode
}

// Fetch retrieves the body of rawURL. It never returns an error: failures are
// reported through Result.Status.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) Result {
	key := cache.Key("page", f.mode+" "+rawURL)
	if f.cache != nil {
		if data, ok := f.cache.Get(key); ok {
			f.log.WithField("url", rawURL).Debug("page cache hit")
			return Result{Content: string(data), Status: StatusSuccess, FinalURL: rawURL, Cached: true}
		}
	}

	var result Result
	switch f.mode {
	case ModeScraper:
		if f.scraper == nil {
			return Result{Status: "Error: Scraping API key is not configured."}
		}
		result = f.scraper.fetch(ctx, rawURL)
	default:
		result = f.direct.fetch(ctx, rawURL)
	}

	entry := f.log.WithFields(logrus.Fields{"url": rawURL, "mode": f.mode, "status": result.Status})
	if !result.OK() {
		entry.Warn("fetch failed")
		return result
	}
	entry.WithField("chars", len(result.Content)).Debug("fetched")

	if f.cache != nil {
		if err := f.cache.Set(key, []byte(result.Content), f.ttl); err != nil {
			f.log.WithError(err).Debug("page cache write failed")
		}
	}
	return result
}

func resolveMode(mode, scraperKey string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeScraper:
		return ModeScraper
	case ModeDirect:
		return ModeDirect
	default:
		if scraperKey != "" {
			return ModeScraper
		}
		return ModeDirect
	}
}

// statusError is an unexpected HTTP status from the origin or scraper
type statusError struct {
	Code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, http.StatusText(e.Code))
}

func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !errors.Is(err, errRobotsBlocked)
}

// failureStatus renders err as a fetch status message
func failureStatus(err error, timeout time.Duration) (string, int) {
	var se *statusError
	switch {
	case errors.As(err, &se):
		return fmt.Sprintf("HTTP Error %d: Blocked by anti-bot. Check URL/Key.", se.Code), se.Code
	case errors.Is(err, errRobotsBlocked):
		return StatusRobotsBlocked, 0
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("Request Error: timed out after %s", timeout), 0
	default:
		return fmt.Sprintf("Request Error: %v", err), 0
	}
}
