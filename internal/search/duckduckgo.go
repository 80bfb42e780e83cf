package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultDuckDuckGoBaseURL is the JavaScript-free DuckDuckGo endpoint
const DefaultDuckDuckGoBaseURL = "https://html.duckduckgo.com/html/"

// DuckDuckGoProvider scrapes DuckDuckGo's HTML results page. It needs no key.
type DuckDuckGoProvider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewDuckDuckGoProvider creates a DuckDuckGo provider
func NewDuckDuckGoProvider(baseURL, userAgent string, client *http.Client) *DuckDuckGoProvider {
	if baseURL == "" {
		baseURL = DefaultDuckDuckGoBaseURL
	}
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (compatible; Credible/0.4)"
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &DuckDuckGoProvider{baseURL: baseURL, userAgent: userAgent, httpClient: client}
}

// Name returns the provider name
func (p *DuckDuckGoProvider) Name() string {
	return "duckduckgo"
}

// Search fetches and parses one results page. Ads are skipped.
func (p *DuckDuckGoProvider) Search(ctx context.Context, q Query) ([]Result, error) {
	endpoint, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	params := endpoint.Query()
	params.Set("q", q.Text)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(p.Name(), resp)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	var results []Result
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		link := s.Find(".result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}
		target := resolveRedirect(href)
		if target == "" {
			return true
		}
		results = append(results, Result{
			Title:   strings.TrimSpace(link.Text()),
			URL:     target,
			Content: strings.TrimSpace(s.Find(".result__snippet").Text()),
		})
		return q.MaxResults <= 0 || len(results) < q.MaxResults
	})

	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links
func resolveRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return parsed.String()
}
