package adjudicate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/credible/internal/model"
)

const noEvidence = "No direct evidence found."

// defaultTrusted names the sources the model is told to trust when no allow-list is configured
var defaultTrusted = []string{"pib.gov.in", "altnews.in"}

const promptTemplate = `CLAIM: "%s"

PRIOR CONTEXT:
%s

EVIDENCE:
%s

INSTRUCTIONS:
- VERIFIED: Evidence confirms the claim.
- FALSE: Evidence contradicts the claim.
- MISLEADING: Claim is partially true but misses context.
- UNVERIFIED: No matching evidence found.
- Cite only URLs that appear in the evidence.

REQUIRED JSON FORMAT:
{
  "verdict": "VERIFIED" | "FALSE" | "MISLEADING" | "UNVERIFIED",
  "confidence_score": 0.9,
  "explanation": "2 sentence summary.",
  "sources": ["url_from_evidence"]
}`

func systemPrompt(trusted []string) string {
	if len(trusted) == 0 {
		trusted = defaultTrusted
	}
	if len(trusted) > 8 {
		trusted = trusted[:8]
	}
	return "You are Credible, a strict fact-checking AI. Compare the Claim vs Evidence. " +
		"If evidence is from trusted sources (" + strings.Join(trusted, ", ") + "), trust it implicitly. " +
		"Output JSON."
}

// BuildPrompt renders the user prompt for one adjudication
func BuildPrompt(claim, evidence, prior string) string {
	if strings.TrimSpace(evidence) == "" {
		evidence = noEvidence
	}
	if strings.TrimSpace(prior) == "" {
		prior = "None."
	}
	return fmt.Sprintf(promptTemplate, claim, prior, evidence)
}

// rankedEvidence renders the set with primary sources first
func rankedEvidence(set model.EvidenceSet) string {
	items := append([]model.Evidence(nil), set.Items...)
	sort.SliceStable(items, func(i, j int) bool {
		return tierRank(items[i].Authority) < tierRank(items[j].Authority)
	})
	return model.EvidenceSet{Provider: set.Provider, Items: items}.Blob()
}

func tierRank(t model.AuthorityTier) int {
	if t == model.TierUnknown {
		return 4
	}
	return int(t)
}
