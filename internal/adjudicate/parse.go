package adjudicate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/credible/internal/llm"
	"github.com/ppiankov/credible/internal/model"
)

// ResultKind tags the outcome of parsing model output
type ResultKind int

const (
	ResultOK ResultKind = iota
	ResultParseError
	ResultSchemaError
)

func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultParseError:
		return "parse_error"
	case ResultSchemaError:
		return "schema_error"
	default:
		return "unknown"
	}
}

// ParseResult is the tagged outcome of ParseVerdict
type ParseResult struct {
	Kind    ResultKind
	Verdict model.Verdict // Valid only when Kind == ResultOK
	Err     error
}

// Resolve returns the verdict for an OK result and the coerced diagnostic
// verdict otherwise: ERROR for unparseable output, UNVERIFIED for output that
// parsed but broke the verdict schema.
func (r ParseResult) Resolve() model.Verdict {
	switch r.Kind {
	case ResultOK:
		return r.Verdict
	case ResultSchemaError:
		return model.UnverifiedVerdict(fmt.Sprintf("Model output failed validation: %v", r.Err))
	default:
		return model.ErrorVerdict(fmt.Sprintf("Model output could not be parsed: %v", r.Err))
	}
}

type rawVerdict struct {
	Verdict     string   `json:"verdict"`
	Confidence  *float64 `json:"confidence_score"`
	Explanation string   `json:"explanation"`
	Sources     []string `json:"sources"`
}

// ParseVerdict decodes and validates raw model output
func ParseVerdict(raw string) ParseResult {
	var rv rawVerdict
	if err := llm.DecodeJSON(raw, &rv); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return ParseResult{Kind: ResultSchemaError, Err: fmt.Errorf("field %q has the wrong type", typeErr.Field)}
		}
		return ParseResult{Kind: ResultParseError, Err: err}
	}

	label, ok := model.ParseLabel(rv.Verdict)
	if !ok {
		return ParseResult{Kind: ResultSchemaError, Err: fmt.Errorf("unknown verdict %q", rv.Verdict)}
	}

	confidence := 0.0
	if rv.Confidence != nil {
		confidence = *rv.Confidence
	}
	if confidence < 0 || confidence > 1 {
		return ParseResult{Kind: ResultSchemaError, Err: fmt.Errorf("confidence %g outside [0,1]", confidence)}
	}

	citations := make([]string, 0, len(rv.Sources))
	for _, s := range rv.Sources {
		if s = strings.TrimSpace(s); s != "" {
			citations = append(citations, s)
		}
	}
	if label.Substantive() && len(citations) == 0 {
		return ParseResult{Kind: ResultSchemaError, Err: fmt.Errorf("%s verdict without sources", label)}
	}

	return ParseResult{
		Kind: ResultOK,
		Verdict: model.Verdict{
			Label:       label,
			Confidence:  confidence,
			Explanation: strings.TrimSpace(rv.Explanation),
			Citations:   citations,
		},
	}
}

// citationLeaks returns warnings for URL citations that are absent from the evidence
func citationLeaks(citations []string, evidence model.EvidenceSet) []string {
	known := make(map[string]bool, len(evidence.Items))
	for _, u := range evidence.URLs() {
		known[normalizeURL(u)] = true
	}

	var warnings []string
	for _, c := range citations {
		if !strings.HasPrefix(c, "http://") && !strings.HasPrefix(c, "https://") {
			continue
		}
		if !known[normalizeURL(c)] {
			warnings = append(warnings, "citation not found in evidence: "+c)
		}
	}
	return warnings
}

func normalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	u.Host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	if u.Scheme == "http" {
		u.Scheme = "https"
	}
	return u.String()
}
