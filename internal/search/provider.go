// Package search gathers web evidence for a claim through a primary
// provider restricted to authority domains, with an unrestricted fallback.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Query is one provider request
type Query struct {
	Text           string
	IncludeDomains []string // Empty means unrestricted
	MaxResults     int
}

// Result is one raw provider hit
type Result struct {
	Title   string
	URL     string
	Content string
	Score   float64
}

// Provider is a web search backend
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]Result, error)
}

// APIError is a non-2xx provider response
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

func readAPIError(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &APIError{
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
