package credibility

import (
	"net/url"
	"strings"

	"github.com/ppiankov/credible/internal/model"
)

// AuthorityClassifier assigns evidence sources to authority tiers.
//
// Order of precedence: explicit domain map, configured primary domains,
// IFCN signatories, configured secondary domains, reputable publishers,
// the search allow-list, then TLD heuristics. Everything else is tertiary.
type AuthorityClassifier struct {
	domainMap map[string]model.AuthorityTier
	primary   []string
	secondary []string
	allowList []string
	registry  *Registry
}

// NewAuthorityClassifier creates a classifier. registry may be nil.
func NewAuthorityClassifier(config *model.AuthorityConfig, allowList []string, registry *Registry) *AuthorityClassifier {
	if config == nil {
		config = &model.DefaultConfig().Authority
	}

	c := &AuthorityClassifier{
		domainMap: make(map[string]model.AuthorityTier, len(config.DomainMap)),
		registry:  registry,
	}
	for domain, tier := range config.DomainMap {
		c.domainMap[normalizeDomain(domain)] = parseTierString(tier)
	}
	for _, d := range config.PrimaryDomains {
		c.primary = append(c.primary, normalizeDomain(d))
	}
	for _, d := range config.SecondaryDomains {
		c.secondary = append(c.secondary, normalizeDomain(d))
	}
	for _, d := range allowList {
		c.allowList = append(c.allowList, normalizeDomain(d))
	}
	return c
}

// Classify classifies a URL into an authority tier
func (a *AuthorityClassifier) Classify(rawURL string) model.AuthorityTier {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return model.TierTertiary
	}
	host := normalizeDomain(parsed.Hostname())

	if tier, ok := a.domainMap[host]; ok {
		return tier
	}
	if matchesAny(host, a.primary) {
		return model.TierPrimary
	}

	var entry Entry
	var known bool
	if a.registry != nil {
		entry, known = a.registry.Entry(host)
	}
	if known && entry.Label == LabelVerified {
		return model.TierPrimary
	}
	if matchesAny(host, a.secondary) {
		return model.TierSecondary
	}
	if known && entry.Label == LabelReputable {
		return model.TierSecondary
	}
	if known && entry.Label == LabelCaution {
		return model.TierTertiary
	}
	if matchesAny(host, a.allowList) {
		return model.TierPrimary
	}

	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") ||
		strings.HasSuffix(host, ".ac.uk") || strings.HasSuffix(host, ".gov.in") ||
		strings.HasSuffix(host, ".nic.in") {
		return model.TierPrimary
	}

	return model.TierTertiary
}

// Tag sets Authority on every item of the set in place
func (a *AuthorityClassifier) Tag(set *model.EvidenceSet) {
	for i := range set.Items {
		set.Items[i].Authority = a.Classify(set.Items[i].SourceURL)
	}
}

func matchesAny(host string, domains []string) bool {
	for _, d := range domains {
		if d != "" && (host == d || strings.HasSuffix(host, "."+d)) {
			return true
		}
	}
	return false
}

// parseTierString converts a tier string to AuthorityTier
func parseTierString(tier string) model.AuthorityTier {
	switch strings.ToLower(tier) {
	case "primary", "1":
		return model.TierPrimary
	case "secondary", "2":
		return model.TierSecondary
	default:
		return model.TierTertiary
	}
}
