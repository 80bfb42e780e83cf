package model

import (
	"strings"
	"testing"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want Label
		ok   bool
	}{
		{"VERIFIED", LabelVerified, true},
		{"verified", LabelVerified, true},
		{"  False ", LabelFalse, true},
		{"Misleading: lacks context", LabelMisleading, true},
		{"UNVERIFIED", LabelUnverified, true},
		{"ERROR", LabelError, true},
		{"True", LabelVerified, true},
		{"CRITICAL_ERROR", LabelError, true},
		{"MOSTLY TRUE", "", false},
		{"", "", false},
		{"PANTS ON FIRE", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseLabel(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseLabel(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLabel_Substantive(t *testing.T) {
	for _, l := range []Label{LabelVerified, LabelFalse, LabelMisleading} {
		if !l.Substantive() {
			t.Errorf("Expected %s to be substantive", l)
		}
	}
	for _, l := range []Label{LabelUnverified, LabelError} {
		if l.Substantive() {
			t.Errorf("Expected %s to not be substantive", l)
		}
	}
}

func TestErrorVerdict(t *testing.T) {
	v := ErrorVerdict("model unreachable")
	if v.Label != LabelError {
		t.Errorf("Expected ERROR, got %s", v.Label)
	}
	if v.Confidence != 0 {
		t.Errorf("Expected zero confidence, got %f", v.Confidence)
	}
	if v.Citations == nil || len(v.Citations) != 0 {
		t.Errorf("Expected empty non-nil citations, got %v", v.Citations)
	}
	if v.Citation() != "" {
		t.Errorf("Expected empty citation, got %q", v.Citation())
	}
}

func TestEvidenceSet_Blob(t *testing.T) {
	empty := EvidenceSet{}
	if empty.Blob() != "" {
		t.Errorf("Expected empty blob for empty set, got %q", empty.Blob())
	}

	set := EvidenceSet{
		Provider: "tavily",
		Items: []Evidence{
			{SourceURL: "https://pib.gov.in/a", Excerpt: "first", Authority: TierPrimary},
			{SourceURL: "https://example.org/b", Excerpt: "second"},
		},
	}
	blob := set.Blob()
	if !strings.Contains(blob, "Source: https://pib.gov.in/a\nAuthority: primary\nContent: first") {
		t.Errorf("Unexpected first block: %q", blob)
	}
	if !strings.HasSuffix(blob, "Source: https://example.org/b\nContent: second") {
		t.Errorf("Unexpected second block: %q", blob)
	}
	if got := set.URLs(); len(got) != 2 || got[1] != "https://example.org/b" {
		t.Errorf("Unexpected URLs: %v", got)
	}
}

func TestSubjectFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.thehindu.com/news/national/budget-2024-highlights.html", "budget 2024 highlights"},
		{"https://example.com/", "example.com"},
		{"not a url", "not a url"},
	}
	for _, tt := range tests {
		if got := SubjectFromURL(tt.url); got != tt.want {
			t.Errorf("SubjectFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
