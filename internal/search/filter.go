package search

import (
	"net/url"
	"strings"
)

var socialHosts = []string{
	"facebook.com", "twitter.com", "x.com", "instagram.com", "youtube.com",
	"youtu.be", "linkedin.com", "tiktok.com", "t.me", "whatsapp.com",
	"reddit.com", "pinterest.com", "threads.net",
}

var listingSegments = map[string]bool{
	"tag": true, "tags": true, "category": true, "categories": true,
	"topic": true, "topics": true, "author": true, "authors": true,
	"search": true, "page": true, "sitemap": true, "archive": true,
	"archives": true, "label": true,
}

// minSingleSegment is the shortest lone path segment treated as an article slug
const minSingleSegment = 15

// IsArticleURL reports whether rawURL looks like an individual article
// rather than a homepage, listing page or social media link.
func IsArticleURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	for _, social := range socialHosts {
		if host == social || strings.HasSuffix(host, "."+social) {
			return false
		}
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return false
	}
	if parsed.Query().Has("s") || parsed.Query().Has("q") {
		return false
	}

	segments := strings.Split(path, "/")
	for _, seg := range segments {
		seg = strings.ToLower(seg)
		if listingSegments[seg] || strings.HasPrefix(seg, "sitemap") {
			return false
		}
	}

	if len(segments) == 1 && len(segments[0]) < minSingleSegment {
		return false
	}
	return true
}

// InAllowList reports whether rawURL's host is an allow-list domain or a
// subdomain of one. An empty allow-list admits everything.
func InAllowList(rawURL string, allowList []string) bool {
	if len(allowList) == 0 {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.TrimSuffix(strings.ToLower(parsed.Hostname()), ".")
	if host == "" {
		return false
	}
	for _, entry := range allowList {
		entry = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(entry)), "www.")
		if entry == "" {
			continue
		}
		if host == entry || strings.HasSuffix(host, "."+entry) {
			return true
		}
	}
	return false
}
