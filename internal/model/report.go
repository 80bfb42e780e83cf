package model

import (
	"net/url"
	"strings"
	"time"
)

// CompositeResult is the document-level aggregate across all claims of an article
type CompositeResult struct {
	ClaimCount     int            `json:"total_claims_analyzed"`
	Tally          map[Label]int  `json:"claims_breakdown"` // All five labels present, default 0
	CompositeLabel string         `json:"composite_verdict"`
	PerClaim       []ClaimVerdict `json:"per_claim"` // Extraction order
}

// ArticleReport represents the complete full-article check
type ArticleReport struct {
	URL         string          `json:"url"`
	CheckedAt   time.Time       `json:"checked_at"`
	FetchStatus string          `json:"fetch_status"`
	ContentSize int             `json:"content_chars"`
	Composite   CompositeResult `json:"composite"`
}

// Subject returns a short human-readable name for the report
func (r *ArticleReport) Subject() string {
	return SubjectFromURL(r.URL)
}

// SubjectFromURL extracts a human-readable subject from the URL
func SubjectFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]

	// De-slugify
	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")

	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}

	return last
}
