package model

// Claim represents a single factual assertion extracted from an article
type Claim struct {
	Text    string `json:"claim_text"`        // Exact or paraphrased sentence
	Context string `json:"context,omitempty"` // Where in the article it was found
}

// ClaimVerdict pairs a claim with its adjudicated verdict
type ClaimVerdict struct {
	Claim   Claim   `json:"claim"`
	Verdict Verdict `json:"verdict"`
}

// ClaimCheck is the result of a single-claim check
type ClaimCheck struct {
	Claim        Claim         `json:"claim"`
	Verdict      Verdict       `json:"verdict"`
	TierUsed     string        `json:"tier_used"`
	PriorVerdict *PriorVerdict `json:"prior_verdict,omitempty"`
}

// PriorVerdict is a pre-existing rating found in a fact-check database
type PriorVerdict struct {
	Rating    string `json:"rating"`
	Publisher string `json:"publisher"`
	URL       string `json:"url,omitempty"`
}

// Tier tags describing which path produced a single-claim verdict
const (
	TierHybrid  = "Hybrid (Tier 1 Success)"
	TierAgentic = "Agentic (Tier 2 Search)"
)
