package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultSerperBaseURL is Serper's Google search API
const DefaultSerperBaseURL = "https://google.serper.dev"

// SerperProvider searches Google through Serper. Domain restriction is
// expressed as site: operators in the query text.
type SerperProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

type serperResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type serperResponse struct {
	Organic []serperResult `json:"organic"`
	News    []serperResult `json:"news"`
}

// NewSerperProvider creates a Serper provider
func NewSerperProvider(apiKey, baseURL string, client *http.Client) (*SerperProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Serper API key is required")
	}
	if baseURL == "" {
		baseURL = DefaultSerperBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &SerperProvider{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: client,
	}, nil
}

// Name returns the provider name
func (p *SerperProvider) Name() string {
	return "serper"
}

// Search returns organic results followed by news results
func (p *SerperProvider) Search(ctx context.Context, q Query) ([]Result, error) {
	body, err := json.Marshal(serperRequest{Q: serperQuery(q), Num: q.MaxResults})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(p.Name(), resp)
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Organic)+len(parsed.News))
	for _, r := range append(parsed.Organic, parsed.News...) {
		results = append(results, Result{Title: r.Title, URL: r.Link, Content: r.Snippet})
	}
	return results, nil
}

// serperQuery appends "(site:a OR site:b)" when the query carries domains
func serperQuery(q Query) string {
	sites := make([]string, 0, len(q.IncludeDomains))
	for _, d := range q.IncludeDomains {
		if d = strings.TrimSpace(d); d != "" {
			sites = append(sites, "site:"+d)
		}
	}
	if len(sites) == 0 {
		return q.Text
	}
	return q.Text + " (" + strings.Join(sites, " OR ") + ")"
}
