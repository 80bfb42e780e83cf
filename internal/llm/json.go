package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when model output contains no JSON object span
var ErrNoJSON = errors.New("no JSON object in model output")

var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// ExtractJSON locates the JSON object inside raw model output.
// Markdown fences are stripped first; then the span from the first '{'
// to the last '}' is returned, which drops leading and trailing prose.
func ExtractJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSON
	}

	return text[start : end+1], nil
}

// DecodeJSON extracts the JSON span from raw and unmarshals it into v
func DecodeJSON(raw string, v any) error {
	span, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(span), v); err != nil {
		return fmt.Errorf("decode model JSON: %w", err)
	}
	return nil
}
