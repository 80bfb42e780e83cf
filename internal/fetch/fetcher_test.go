package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/credible/internal/cache"
	"github.com/ppiankov/credible/internal/util"
)

func directOptions() Options {
	return Options{
		Mode:       ModeDirect,
		Timeout:    5 * time.Second,
		UserAgent:  "test-agent",
		MaxRetries: 3,
		Backoff:    time.Millisecond,
	}
}

func TestFetch_Direct_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("Expected test-agent, got %q", ua)
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body>OK</body></html>")
	}))
	defer server.Close()

	result := New(directOptions()).Fetch(context.Background(), server.URL)
	if !result.OK() {
		t.Fatalf("Expected success, got status %q", result.Status)
	}
	if result.Content != "<html><body>OK</body></html>" {
		t.Errorf("Unexpected content: %s", result.Content)
	}
	if result.Status != StatusSuccess {
		t.Errorf("Expected %q, got %q", StatusSuccess, result.Status)
	}
}

func TestFetch_Direct_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	result := New(directOptions()).Fetch(context.Background(), server.URL)
	if !result.OK() {
		t.Fatalf("Expected success after retries, got %q", result.Status)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetch_Direct_PermanentFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	result := New(directOptions()).Fetch(context.Background(), server.URL)
	if result.OK() {
		t.Fatal("Expected failure for 403")
	}
	if result.Status != "HTTP Error 403: Blocked by anti-bot. Check URL/Key." {
		t.Errorf("Unexpected status: %q", result.Status)
	}
	if result.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status code 403, got %d", result.StatusCode)
	}
	// 403 is not retryable
	if attempts.Load() != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts.Load())
	}
}

func TestFetch_Direct_RateLimitedRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	result := New(directOptions()).Fetch(context.Background(), server.URL)
	if result.OK() {
		t.Fatal("Expected failure for 429")
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
	if !strings.HasPrefix(result.Status, "HTTP Error 429") {
		t.Errorf("Unexpected status: %q", result.Status)
	}
}

func TestFetch_Direct_SizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, strings.Repeat("x", 1000))
	}))
	defer server.Close()

	opts := directOptions()
	opts.MaxBodyBytes = 100
	result := New(opts).Fetch(context.Background(), server.URL)
	if len(result.Content) != 100 {
		t.Errorf("Expected body truncated to 100 bytes, got %d", len(result.Content))
	}
}

func TestFetch_Direct_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	opts := directOptions()
	opts.Timeout = 50 * time.Millisecond
	opts.MaxRetries = 1
	result := New(opts).Fetch(context.Background(), server.URL)
	if result.OK() {
		t.Fatal("Expected timeout failure")
	}
	if !strings.HasPrefix(result.Status, "Request Error:") {
		t.Errorf("Unexpected status: %q", result.Status)
	}
}

func TestFetch_Direct_RobotsBlocked(t *testing.T) {
	var articleHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
			return
		}
		articleHits.Add(1)
		_, _ = fmt.Fprint(w, "<html>secret</html>")
	}))
	defer server.Close()

	opts := directOptions()
	opts.Robots = util.NewRobotsChecker(server.Client(), "test-agent", time.Minute)
	f := New(opts)

	result := f.Fetch(context.Background(), server.URL+"/private/page")
	if result.Status != StatusRobotsBlocked {
		t.Errorf("Expected %q, got %q", StatusRobotsBlocked, result.Status)
	}
	if articleHits.Load() != 0 {
		t.Errorf("Expected no article request, got %d", articleHits.Load())
	}

	if result := f.Fetch(context.Background(), server.URL+"/public/page"); !result.OK() {
		t.Errorf("Expected public page to be fetched, got %q", result.Status)
	}
}

func TestFetch_Scraper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("api_key") != "scrape-key" {
			t.Errorf("Expected api_key param, got %q", q.Get("api_key"))
		}
		if q.Get("url") != "https://news.example.in/story" {
			t.Errorf("Expected target url param, got %q", q.Get("url"))
		}
		if q.Get("render") != "true" {
			t.Errorf("Expected render=true, got %q", q.Get("render"))
		}
		_, _ = fmt.Fprint(w, "<html>rendered</html>")
	}))
	defer server.Close()

	f := New(Options{
		ScraperAPIKey:  "scrape-key",
		ScraperBaseURL: server.URL + "/",
		Render:         true,
	})
	if f.Mode() != ModeScraper {
		t.Fatalf("Expected auto mode to pick scraper with a key, got %s", f.Mode())
	}

	result := f.Fetch(context.Background(), "https://news.example.in/story")
	if !result.OK() || result.Content != "<html>rendered</html>" {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestFetch_Scraper_AntiBot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	f := New(Options{Mode: ModeScraper, ScraperAPIKey: "k", ScraperBaseURL: server.URL})
	result := f.Fetch(context.Background(), "https://news.example.in/story")
	if result.Status != "HTTP Error 400: Blocked by anti-bot. Check URL/Key." {
		t.Errorf("Unexpected status: %q", result.Status)
	}
}

func TestFetch_Scraper_MissingKey(t *testing.T) {
	f := New(Options{Mode: ModeScraper})
	result := f.Fetch(context.Background(), "https://news.example.in/story")
	if result.OK() {
		t.Fatal("Expected failure without scraper key")
	}
}

func TestFetch_CacheHit(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = fmt.Fprint(w, "<html>cached</html>")
	}))
	defer server.Close()

	opts := directOptions()
	opts.Cache = cache.NewMemoryCache(time.Minute, time.Minute)
	opts.CacheTTL = time.Minute
	f := New(opts)

	first := f.Fetch(context.Background(), server.URL)
	second := f.Fetch(context.Background(), server.URL)
	if !first.OK() || !second.OK() {
		t.Fatalf("Expected both fetches to succeed: %q / %q", first.Status, second.Status)
	}
	if !second.Cached {
		t.Error("Expected second fetch to be served from cache")
	}
	if hits.Load() != 1 {
		t.Errorf("Expected 1 origin request, got %d", hits.Load())
	}
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		mode, key, want string
	}{
		{"auto", "k", ModeScraper},
		{"auto", "", ModeDirect},
		{"", "k", ModeScraper},
		{"direct", "k", ModeDirect},
		{"SCRAPER", "", ModeScraper},
	}
	for _, tt := range tests {
		if got := resolveMode(tt.mode, tt.key); got != tt.want {
			t.Errorf("resolveMode(%q, %q) = %q, want %q", tt.mode, tt.key, got, tt.want)
		}
	}
}
