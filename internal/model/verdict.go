package model

import "strings"

// Label is the closed set of per-claim verdict labels
type Label string

const (
	LabelVerified   Label = "VERIFIED"
	LabelFalse      Label = "FALSE"
	LabelMisleading Label = "MISLEADING"
	LabelUnverified Label = "UNVERIFIED"
	LabelError      Label = "ERROR"
)

// Labels lists every label in reporting order
var Labels = []Label{LabelVerified, LabelFalse, LabelMisleading, LabelUnverified, LabelError}

// labelAliases maps older rating spellings onto the closed set
var labelAliases = map[string]Label{
	"TRUE":           LabelVerified,
	"CRITICAL_ERROR": LabelError,
}

// ParseLabel normalizes a raw label string onto the closed set.
// Case and surrounding whitespace are ignored, as is a "LABEL: detail" suffix.
// Returns false when the value is not a known label.
func ParseLabel(raw string) (Label, bool) {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, ":"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.ToUpper(strings.TrimSpace(s))

	for _, l := range Labels {
		if string(l) == s {
			return l, true
		}
	}
	if l, ok := labelAliases[s]; ok {
		return l, true
	}
	return "", false
}

// Substantive reports whether the label asserts something about the claim
// (as opposed to UNVERIFIED or ERROR)
func (l Label) Substantive() bool {
	return l == LabelVerified || l == LabelFalse || l == LabelMisleading
}

// Verdict is the adjudication outcome for one claim
type Verdict struct {
	Label       Label    `json:"verdict"`
	Confidence  float64  `json:"confidence_score"`
	Explanation string   `json:"explanation"`
	Citations   []string `json:"sources"`
	Warnings    []string `json:"warnings,omitempty"` // Citation leaks and other non-fatal issues
}

// Citation returns the first citation or "" when there is none
func (v Verdict) Citation() string {
	if len(v.Citations) == 0 {
		return ""
	}
	return v.Citations[0]
}

// ErrorVerdict builds a terminal ERROR verdict carrying a diagnostic
func ErrorVerdict(explanation string) Verdict {
	return Verdict{
		Label:       LabelError,
		Confidence:  0,
		Explanation: explanation,
		Citations:   []string{},
	}
}

// UnverifiedVerdict builds an UNVERIFIED verdict carrying a diagnostic
func UnverifiedVerdict(explanation string) Verdict {
	return Verdict{
		Label:       LabelUnverified,
		Confidence:  0,
		Explanation: explanation,
		Citations:   []string{},
	}
}
