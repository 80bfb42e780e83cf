package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/credible/internal/util"
)

var errRobotsBlocked = errors.New("blocked by robots.txt")

type directClient struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	timeout   time.Duration
	robots    *util.RobotsChecker
	policy    util.RetryPolicy
}

type page struct {
	body     string
	finalURL string
}

func (d *directClient) fetch(ctx context.Context, rawURL string) Result {
	if d.robots != nil {
		allowed, err := d.robots.Allowed(ctx, rawURL)
		if err != nil {
			return Result{Status: fmt.Sprintf("Request Error: %v", err)}
		}
		if !allowed {
			return Result{Status: StatusRobotsBlocked}
		}
	}

	p, err := util.Retry(ctx, d.policy, func(ctx context.Context, attempt int) (page, error) {
		return d.get(ctx, rawURL)
	})
	if err != nil {
		status, code := failureStatus(err, d.timeout)
		return Result{Status: status, StatusCode: code}
	}

	if p.body == "" {
		return Result{Status: "Request Error: empty response body", StatusCode: http.StatusOK}
	}
	return Result{Content: p.body, Status: StatusSuccess, StatusCode: http.StatusOK, FinalURL: p.finalURL}
}

func (d *directClient) get(ctx context.Context, rawURL string) (page, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return page{}, fmt.Errorf("create request: %w", err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-IN,en;q=0.9")

	resp, err := d.client.Do(req)
	if err != nil {
		return page{}, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return page{}, &statusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes))
	if err != nil {
		return page{}, fmt.Errorf("read body: %w", err)
	}

	return page{body: string(body), finalURL: resp.Request.URL.String()}, nil
}
