package model

import (
	"fmt"
	"strings"
)

// Evidence represents one retrieved excerpt that may support or contradict a claim
type Evidence struct {
	SourceURL string        `json:"source_url"`
	Title     string        `json:"title,omitempty"`
	Excerpt   string        `json:"excerpt"`
	Authority AuthorityTier `json:"authority,omitempty"`
}

// EvidenceSet is the outcome of one gateway search
type EvidenceSet struct {
	Provider string     `json:"provider,omitempty"` // Provider that produced the items ("" when empty)
	Items    []Evidence `json:"items"`
}

// Empty reports whether no evidence was found
func (s EvidenceSet) Empty() bool {
	return len(s.Items) == 0
}

// URLs returns the source URLs of all items in order
func (s EvidenceSet) URLs() []string {
	urls := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		urls = append(urls, item.SourceURL)
	}
	return urls
}

// Blob renders the set as the concatenated evidence text handed to the model.
// An empty set renders as the empty string.
func (s EvidenceSet) Blob() string {
	if s.Empty() {
		return ""
	}

	var b strings.Builder
	for i, item := range s.Items {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Source: %s\n", item.SourceURL)
		if item.Authority == TierPrimary {
			b.WriteString("Authority: primary\n")
		}
		fmt.Fprintf(&b, "Content: %s", item.Excerpt)
	}
	return b.String()
}

// AuthorityTier represents the classification of source authority
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = 0 // Not yet classified
	TierPrimary   AuthorityTier = 1 // Government bodies, courts, IFCN fact-checkers, allow-listed authorities
	TierSecondary AuthorityTier = 2 // Reputable publishers and news agencies
	TierTertiary  AuthorityTier = 3 // Everything else
)

func (t AuthorityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}
