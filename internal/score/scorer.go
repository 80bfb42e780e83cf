// Package score composes per-claim verdicts into a document-level verdict.
package score

import (
	"fmt"

	"github.com/ppiankov/credible/internal/model"
)

// Composite verdict strings
const (
	CompositeHighlyReliable  = "HIGHLY RELIABLE (Claims largely verified)"
	CompositeContextRequired = "CONTEXT REQUIRED (Verification is Mixed/Misleading)"
	CompositeInconclusive    = "INCONCLUSIVE (Default)"
	compositeMajorFalse      = "CONTENT CONTAINS MAJOR FALSE CLAIMS (%d False)"
)

// reliableShare is the verified fraction at or above which an article is highly reliable
const reliableShare = 0.75

// Compose tallies verdicts and applies the composite rules, first match wins:
//
//  1. false > verified and false > misleading: major false claims
//  2. verified >= 75% of all claims: highly reliable
//  3. any misleading or unverified: context required
//  4. otherwise inconclusive
//
// ERROR verdicts count toward the total. Compose is pure.
func Compose(verdicts []model.ClaimVerdict) model.CompositeResult {
	tally := NewTally()
	for _, cv := range verdicts {
		label, ok := model.ParseLabel(string(cv.Verdict.Label))
		if !ok {
			label = model.LabelError
		}
		tally[label]++
	}

	perClaim := make([]model.ClaimVerdict, len(verdicts))
	copy(perClaim, verdicts)

	return model.CompositeResult{
		ClaimCount:     len(verdicts),
		Tally:          tally,
		CompositeLabel: compositeLabel(tally, len(verdicts)),
		PerClaim:       perClaim,
	}
}

// NewTally returns a tally with every label present at zero
func NewTally() map[model.Label]int {
	tally := make(map[model.Label]int, len(model.Labels))
	for _, l := range model.Labels {
		tally[l] = 0
	}
	return tally
}

func compositeLabel(tally map[model.Label]int, total int) string {
	if total == 0 {
		return CompositeInconclusive
	}

	verified := tally[model.LabelVerified]
	falseCount := tally[model.LabelFalse]
	misleading := tally[model.LabelMisleading]
	unverified := tally[model.LabelUnverified]

	switch {
	case falseCount > verified && falseCount > misleading:
		return fmt.Sprintf(compositeMajorFalse, falseCount)
	case float64(verified) >= reliableShare*float64(total):
		return CompositeHighlyReliable
	case misleading > 0 || unverified > 0:
		return CompositeContextRequired
	default:
		return CompositeInconclusive
	}
}
