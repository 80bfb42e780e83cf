package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// scraperClient fetches rendered pages through ScraperAPI
type scraperClient struct {
	client   *http.Client
	apiKey   string
	baseURL  string
	render   bool
	timeout  time.Duration
	maxBytes int64
}

func (s *scraperClient) fetch(ctx context.Context, rawURL string) Result {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	endpoint, err := url.Parse(s.baseURL)
	if err != nil {
		return Result{Status: fmt.Sprintf("Request Error: invalid scraper base URL: %v", err)}
	}
	q := endpoint.Query()
	q.Set("api_key", s.apiKey)
	q.Set("url", rawURL)
	if s.render {
		q.Set("render", "true")
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return Result{Status: fmt.Sprintf("Request Error: %v", err)}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		status, _ := failureStatus(err, s.timeout)
		return Result{Status: status}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		status, code := failureStatus(&statusError{Code: resp.StatusCode}, s.timeout)
		return Result{Status: status, StatusCode: code}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		status, _ := failureStatus(fmt.Errorf("read body: %w", err), s.timeout)
		return Result{Status: status, StatusCode: resp.StatusCode}
	}
	if len(body) == 0 {
		return Result{Status: "Request Error: empty response body", StatusCode: resp.StatusCode}
	}

	return Result{Content: string(body), Status: StatusSuccess, StatusCode: resp.StatusCode, FinalURL: rawURL}
}
