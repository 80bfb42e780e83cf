package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ppiankov/credible/internal/credibility"
	"github.com/ppiankov/credible/internal/model"
	"github.com/ppiankov/credible/internal/worker"
)

// stubProvider records queries and returns canned results
type stubProvider struct {
	name    string
	results []Result
	err     error

	mu      sync.Mutex
	queries []Query
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(ctx context.Context, q Query) ([]Result, error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *stubProvider) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

func articleResults(n int) []Result {
	out := make([]Result, n)
	for i := range out {
		out[i] = Result{
			Title:   "Story",
			URL:     "https://www.thehindu.com/news/national/story-number-" + string(rune('a'+i)) + ".ece",
			Content: "content " + string(rune('a'+i)),
		}
	}
	return out
}

func TestGateway_PrimarySuccess(t *testing.T) {
	primary := &stubProvider{name: "tavily", results: articleResults(5)}
	fallback := &stubProvider{name: "duckduckgo"}

	g := NewGateway(primary, fallback, Options{AllowList: []string{"thehindu.com"}, MaxResults: 5, KeepResults: 3})
	set := g.Search(context.Background(), "GDP grew 8%")

	if set.Provider != "tavily" {
		t.Errorf("Expected tavily provider, got %q", set.Provider)
	}
	if len(set.Items) != 3 {
		t.Fatalf("Expected 3 kept results, got %d", len(set.Items))
	}
	if fallback.calls() != 0 {
		t.Error("Expected fallback not to be called")
	}

	q := primary.queries[0]
	if q.Text != "GDP grew 8%" || q.MaxResults != 5 {
		t.Errorf("Unexpected primary query: %+v", q)
	}
	if len(q.IncludeDomains) != 1 || q.IncludeDomains[0] != "thehindu.com" {
		t.Errorf("Expected allow-list on primary query, got %v", q.IncludeDomains)
	}
}

func TestGateway_PrimaryErrorFallsBackWithSameQuery(t *testing.T) {
	primary := &stubProvider{name: "tavily", err: errors.New("quota exceeded")}
	fallback := &stubProvider{name: "duckduckgo", results: []Result{
		{URL: "https://example.org/", Content: "homepage hits are fine here"},
	}}

	g := NewGateway(primary, fallback, Options{AllowList: []string{"pib.gov.in"}})
	set := g.Search(context.Background(), "claim text")

	if set.Provider != "duckduckgo" || len(set.Items) != 1 {
		t.Fatalf("Expected fallback evidence, got %+v", set)
	}
	if fallback.queries[0].Text != "claim text" {
		t.Errorf("Expected same query on fallback, got %q", fallback.queries[0].Text)
	}
	if len(fallback.queries[0].IncludeDomains) != 0 {
		t.Errorf("Expected no domain filter on fallback, got %v", fallback.queries[0].IncludeDomains)
	}
}

func TestGateway_PrimaryUnusableFallsBack(t *testing.T) {
	primary := &stubProvider{name: "tavily", results: []Result{
		{URL: "https://www.thehindu.com/", Content: "homepage"},
		{URL: "https://twitter.com/someone/status/1", Content: "tweet"},
		{URL: "https://www.ndtv.com/topic/budget", Content: "listing"},
	}}
	fallback := &stubProvider{name: "duckduckgo", results: articleResults(1)}

	g := NewGateway(primary, fallback, Options{})
	set := g.Search(context.Background(), "claim")

	if set.Provider != "duckduckgo" {
		t.Errorf("Expected fallback when primary has no article URLs, got %q", set.Provider)
	}
}

func TestGateway_NoPrimaryUsesFallback(t *testing.T) {
	fallback := &stubProvider{name: "duckduckgo", results: articleResults(2)}

	g := NewGateway(nil, fallback, Options{})
	if set := g.Search(context.Background(), "claim"); len(set.Items) != 2 {
		t.Errorf("Expected 2 fallback items, got %d", len(set.Items))
	}
	if !g.Available() {
		t.Error("Expected gateway with fallback to be available")
	}
}

func TestGateway_BothFailReturnsEmpty(t *testing.T) {
	primary := &stubProvider{name: "tavily", err: errors.New("down")}
	fallback := &stubProvider{name: "duckduckgo", err: errors.New("blocked")}

	g := NewGateway(primary, fallback, Options{})
	set := g.Search(context.Background(), "claim")

	if !set.Empty() {
		t.Errorf("Expected empty set, got %+v", set)
	}
	if g.Blob(context.Background(), "claim") != "" {
		t.Error("Expected empty blob")
	}

	none := NewGateway(nil, nil, Options{})
	if !none.Search(context.Background(), "claim").Empty() || none.Available() {
		t.Error("Expected unconfigured gateway to return empty evidence")
	}
}

func TestGateway_EmptyQuery(t *testing.T) {
	primary := &stubProvider{name: "tavily", results: articleResults(1)}
	g := NewGateway(primary, nil, Options{})

	if !g.Search(context.Background(), "   ").Empty() {
		t.Error("Expected empty set for blank query")
	}
	if primary.calls() != 0 {
		t.Error("Expected no provider call for blank query")
	}
}

func TestGateway_TruncatesAndDedupes(t *testing.T) {
	long := strings.Repeat("é", 50)
	primary := &stubProvider{name: "tavily", results: []Result{
		{URL: "https://www.thehindu.com/news/a-long-article-slug", Content: long},
		{URL: "https://www.thehindu.com/news/a-long-article-slug", Content: "duplicate"},
		{URL: "https://www.thehindu.com/news/no-content-article", Content: "  "},
	}}

	g := NewGateway(primary, nil, Options{MaxExcerptChars: 10})
	set := g.Search(context.Background(), "claim")

	if len(set.Items) != 1 {
		t.Fatalf("Expected 1 item after dedupe, got %d", len(set.Items))
	}
	if got := []rune(set.Items[0].Excerpt); len(got) != 10 {
		t.Errorf("Expected excerpt truncated to 10 runes, got %d", len(got))
	}
}

func TestGateway_TagsAuthorityAndRendersBlob(t *testing.T) {
	primary := &stubProvider{name: "tavily", results: []Result{
		{URL: "https://pib.gov.in/PressReleasePage.aspx?PRID=2001", Content: "official"},
		{URL: "https://www.thehindu.com/news/national/budget-story.ece", Content: "report"},
	}}
	classifier := credibility.NewAuthorityClassifier(nil, nil, nil)

	g := NewGateway(primary, nil, Options{Classifier: classifier})
	set := g.Search(context.Background(), "claim")

	if set.Items[0].Authority != model.TierPrimary {
		t.Errorf("Expected primary authority for pib.gov.in, got %v", set.Items[0].Authority)
	}
	blob := set.Blob()
	if !strings.HasPrefix(blob, "Source: https://pib.gov.in/PressReleasePage.aspx?PRID=2001\nAuthority: primary\nContent: official") {
		t.Errorf("Unexpected blob: %q", blob)
	}
}

func TestGateway_RateLimitCancelled(t *testing.T) {
	primary := &stubProvider{name: "tavily", results: articleResults(1)}
	limiter := worker.NewLimiter(0.001, 1)
	g := NewGateway(primary, nil, Options{Limiter: limiter})

	if g.Search(context.Background(), "first").Empty() {
		t.Fatal("Expected first search to pass the limiter")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if !g.Search(ctx, "second").Empty() {
		t.Error("Expected empty evidence when the limiter wait is cancelled")
	}
	if primary.calls() != 1 {
		t.Errorf("Expected provider not to be called past the limiter, got %d calls", primary.calls())
	}
}

func TestNewProvider(t *testing.T) {
	cfg := model.DefaultConfig()

	if p, err := NewProvider("tavily", cfg, nil); err != nil || p != nil {
		t.Errorf("Expected nil tavily provider without key, got %v, %v", p, err)
	}

	cfg.Search.TavilyAPIKey = "k"
	if p, err := NewProvider("tavily", cfg, nil); err != nil || p == nil || p.Name() != "tavily" {
		t.Errorf("Expected tavily provider, got %v, %v", p, err)
	}
	if p, _ := NewProvider("duckduckgo", cfg, nil); p == nil {
		t.Error("Expected keyless duckduckgo provider")
	}
	if _, err := NewProvider("altavista", cfg, nil); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestGateway_PrimaryEnforcesAllowList(t *testing.T) {
	// Serper-style primary that ignores IncludeDomains
	primary := &stubProvider{name: "serper", results: []Result{
		{URL: "https://random-blog.example/2024/some-long-article-slug", Content: "off list"},
		{URL: "https://pib.gov.in.evil.example/news/press-release-slug", Content: "lookalike"},
		{URL: "https://static.pib.gov.in/WriteReadData/specificdocs/budget-note.pdf", Content: "subdomain"},
		{URL: "https://pib.gov.in/PressReleasePage.aspx?PRID=2001", Content: "official"},
	}}
	fallback := &stubProvider{name: "duckduckgo"}

	g := NewGateway(primary, fallback, Options{AllowList: []string{"pib.gov.in"}})
	set := g.Search(context.Background(), "claim")

	if set.Provider != "serper" || len(set.Items) != 2 {
		t.Fatalf("Expected 2 allow-listed serper items, got %+v", set)
	}
	for _, item := range set.Items {
		if strings.Contains(item.SourceURL, "example") {
			t.Errorf("Off-list URL kept as primary evidence: %s", item.SourceURL)
		}
	}
}

func TestGateway_PrimaryAllOffListFallsBack(t *testing.T) {
	primary := &stubProvider{name: "serper", results: []Result{
		{URL: "https://random-blog.example/2024/some-long-article-slug", Content: "off list"},
	}}
	fallback := &stubProvider{name: "duckduckgo", results: []Result{
		{URL: "https://random-blog.example/2024/some-long-article-slug", Content: "fallback is unrestricted"},
	}}

	g := NewGateway(primary, fallback, Options{AllowList: []string{"pib.gov.in"}})
	set := g.Search(context.Background(), "claim")

	if set.Provider != "duckduckgo" || len(set.Items) != 1 {
		t.Errorf("Expected fallback evidence when primary has only off-list URLs, got %+v", set)
	}
}
