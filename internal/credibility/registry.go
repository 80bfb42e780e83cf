// Package credibility holds the publisher credibility table used to tag
// search-result links, and the authority tiering applied to evidence.
package credibility

import (
	_ "embed"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var defaultSources []byte

// Label is the tag shown next to a link
type Label string

const (
	LabelVerified  Label = "VERIFIED"
	LabelReputable Label = "REPUTABLE"
	LabelCaution   Label = "CAUTION"
	LabelUnscored  Label = "UNSCORED"
)

// Verdict codes reported alongside the label
const (
	VerdictIFCN       = "IFCN_CERTIFIED_PUBLISHER"
	VerdictReputable  = "HIGH_EDITORIAL_STANDARD"
	VerdictLowRep     = "LOW_REPUTATION_PUBLISHER"
	VerdictUnverified = "UNVERIFIED_PUBLISHER"
)

// Entry is one assessed publisher
type Entry struct {
	Domain  string
	Label   Label
	Verdict string
	Reason  string
	Name    string
	Link    string
	Region  string
}

// Assessment is the credibility tag returned for one link
type Assessment struct {
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	Verdict   string `json:"verdict"`
	Label     Label  `json:"label"`
	TagReason string `json:"tag_reason"`
}

type sourcesFile struct {
	UnscoredReason string            `yaml:"unscored_reason"`
	IFCNReason     string            `yaml:"ifcn_reason"`
	IFCNSource     string            `yaml:"ifcn_source"`
	IFCN           map[string]string `yaml:"ifcn"`
	Reputable      map[string]struct {
		Name   string `yaml:"name"`
		Link   string `yaml:"link"`
		Reason string `yaml:"reason"`
	} `yaml:"reputable"`
	LowReputation map[string]struct {
		Category string `yaml:"category"`
		Label    string `yaml:"label"`
	} `yaml:"low_reputation"`
}

// Registry maps publisher domains to credibility entries. It is read-only
// after construction and safe for concurrent use.
type Registry struct {
	entries        map[string]Entry
	unscoredReason string
}

// NewDefaultRegistry parses the built-in table
func NewDefaultRegistry() (*Registry, error) {
	return LoadRegistry(defaultSources)
}

// LoadRegistry parses a credibility table. Sections apply in order
// ifcn, reputable, low_reputation; a later section overrides an earlier one.
func LoadRegistry(data []byte) (*Registry, error) {
	var f sourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse credibility table: %w", err)
	}

	r := &Registry{
		entries:        make(map[string]Entry, len(f.IFCN)+len(f.Reputable)+len(f.LowReputation)),
		unscoredReason: f.UnscoredReason,
	}
	if r.unscoredReason == "" {
		r.unscoredReason = "This source has not been assessed."
	}

	for domain, region := range f.IFCN {
		reason := f.IFCNReason
		if f.IFCNSource != "" {
			reason = strings.TrimSpace(reason + " Authority source: " + f.IFCNSource)
		}
		r.put(Entry{
			Domain:  domain,
			Label:   LabelVerified,
			Verdict: VerdictIFCN,
			Reason:  reason,
			Region:  region,
		})
	}

	for domain, pub := range f.Reputable {
		reason := fmt.Sprintf("High editorial standard: %s. %s", pub.Name, pub.Reason)
		if pub.Link != "" {
			reason += " Editorial standards: " + pub.Link
		}
		r.put(Entry{
			Domain:  domain,
			Label:   LabelReputable,
			Verdict: VerdictReputable,
			Reason:  reason,
			Name:    pub.Name,
			Link:    pub.Link,
		})
	}

	for domain, low := range f.LowReputation {
		r.put(Entry{
			Domain:  domain,
			Label:   LabelCaution,
			Verdict: VerdictLowRep,
			Reason:  fmt.Sprintf("%s (%s).", low.Label, low.Category),
		})
	}

	return r, nil
}

func (r *Registry) put(e Entry) {
	e.Domain = normalizeDomain(e.Domain)
	if e.Domain == "" {
		return
	}
	r.entries[e.Domain] = e
}

// Len returns the number of assessed domains
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entry returns the entry for a domain. Subdomains of an assessed domain
// inherit its entry unless they are listed themselves.
func (r *Registry) Entry(domain string) (Entry, bool) {
	domain = normalizeDomain(domain)
	for domain != "" {
		if e, ok := r.entries[domain]; ok {
			return e, true
		}
		idx := strings.Index(domain, ".")
		if idx < 0 || !strings.Contains(domain[idx+1:], ".") {
			break
		}
		domain = domain[idx+1:]
	}
	return Entry{}, false
}

// Domains lists the domains carrying label, sorted
func (r *Registry) Domains(label Label) []string {
	var out []string
	for d, e := range r.entries {
		if e.Label == label {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

// Lookup tags one link. The domain is taken from rawURL and falls back to
// the supplied domain when the URL has no host.
func (r *Registry) Lookup(rawURL, domain string) Assessment {
	d := DomainOf(rawURL)
	if d == "" {
		d = normalizeDomain(domain)
	}

	a := Assessment{
		URL:       rawURL,
		Domain:    d,
		Verdict:   VerdictUnverified,
		Label:     LabelUnscored,
		TagReason: r.unscoredReason,
	}

	if e, ok := r.Entry(d); ok {
		a.Verdict = e.Verdict
		a.Label = e.Label
		a.TagReason = e.Reason
	}
	return a
}

// DomainOf returns the lower-cased host of rawURL without a leading "www."
func DomainOf(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return normalizeDomain(parsed.Hostname())
}

func normalizeDomain(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	d = strings.TrimSuffix(d, ".")
	return strings.TrimPrefix(d, "www.")
}

// Link is one search-result link submitted for tagging
type Link struct {
	URL    string `json:"url"`
	Domain string `json:"domain"`
}

// LookupAll tags links in order
func (r *Registry) LookupAll(links []Link) []Assessment {
	out := make([]Assessment, 0, len(links))
	for _, l := range links {
		out = append(out, r.Lookup(l.URL, l.Domain))
	}
	return out
}
