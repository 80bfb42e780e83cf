package credibility

import (
	"testing"

	"github.com/ppiankov/credible/internal/model"
)

func TestAuthorityClassifier_Defaults(t *testing.T) {
	classifier := NewAuthorityClassifier(nil, model.IndiaAuthorityDomains, defaultRegistry(t))

	tests := []struct {
		url      string
		expected model.AuthorityTier
		desc     string
	}{
		{"https://pib.gov.in/PressReleasePage.aspx?PRID=1", model.TierPrimary, "Configured primary domain"},
		{"https://www.mohfw.gov.in/report", model.TierPrimary, "Subdomain of primary suffix"},
		{"https://www.boomlive.in/fact-check/x", model.TierPrimary, "IFCN signatory"},
		{"https://www.reuters.com/world/x", model.TierSecondary, "Configured secondary domain"},
		{"https://www.thehindu.com/news/x", model.TierSecondary, "Reputable publisher"},
		{"https://www.altnews.in/story", model.TierPrimary, "Allow-listed fact-checker"},
		{"https://theonion.com/area-man", model.TierTertiary, "Low-reputation publisher"},
		{"https://myblog.net/post", model.TierTertiary, "Unknown domain"},
		{"::invalid", model.TierTertiary, "Unparseable URL"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := classifier.Classify(tt.url); got != tt.expected {
				t.Errorf("Expected %v for %s, got %v", tt.expected, tt.url, got)
			}
		})
	}
}

func TestAuthorityClassifier_TLDHeuristics(t *testing.T) {
	classifier := NewAuthorityClassifier(&model.AuthorityConfig{}, nil, nil)

	tests := []struct {
		url      string
		expected model.AuthorityTier
		desc     string
	}{
		{"https://whitehouse.gov/statements", model.TierPrimary, ".gov TLD should be primary"},
		{"https://mit.edu/research", model.TierPrimary, ".edu TLD should be primary"},
		{"https://oxford.ac.uk/research", model.TierPrimary, ".ac.uk TLD should be primary (UK academic)"},
		{"https://india.gov.in/topics", model.TierPrimary, ".gov.in should be primary"},
		{"https://example.com/blog", model.TierTertiary, "Commercial domain"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := classifier.Classify(tt.url); got != tt.expected {
				t.Errorf("Expected %v for %s, got %v", tt.expected, tt.url, got)
			}
		})
	}
}

func TestAuthorityClassifier_DomainMap(t *testing.T) {
	config := &model.AuthorityConfig{
		PrimaryDomains: []string{"nytimes.com"},
		DomainMap: map[string]string{
			"nytimes.com":  "secondary",
			"myblog.com":   "tertiary",
			"data.example": "1",
		},
	}

	classifier := NewAuthorityClassifier(config, nil, nil)

	tests := []struct {
		url      string
		expected model.AuthorityTier
	}{
		{"https://nytimes.com/article", model.TierSecondary},
		{"https://myblog.com/post", model.TierTertiary},
		{"https://data.example/set", model.TierPrimary},
	}

	for _, tt := range tests {
		if got := classifier.Classify(tt.url); got != tt.expected {
			t.Errorf("Expected %v for %s, got %v", tt.expected, tt.url, got)
		}
	}
}

func TestAuthorityClassifier_Tag(t *testing.T) {
	classifier := NewAuthorityClassifier(nil, nil, nil)
	set := model.EvidenceSet{Items: []model.Evidence{
		{SourceURL: "https://who.int/news/item"},
		{SourceURL: "https://bbc.com/news/x"},
		{SourceURL: "https://someblog.example/post"},
	}}

	classifier.Tag(&set)

	want := []model.AuthorityTier{model.TierPrimary, model.TierSecondary, model.TierTertiary}
	for i, item := range set.Items {
		if item.Authority != want[i] {
			t.Errorf("Item %d: expected %v, got %v", i, want[i], item.Authority)
		}
	}
}
