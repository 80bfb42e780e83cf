package llm

import (
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain object",
			raw:  `{"claims": []}`,
			want: `{"claims": []}`,
		},
		{
			name: "fenced with language tag",
			raw:  "```json\n{\"verdict\": \"FALSE\"}\n```",
			want: `{"verdict": "FALSE"}`,
		},
		{
			name: "fenced without language tag",
			raw:  "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "leading and trailing prose",
			raw:  "Sure! Here is the result: {\"claims\": [{\"claim_text\": \"x\"}]} Let me know if you need more.",
			want: `{"claims": [{"claim_text": "x"}]}`,
		},
		{
			name: "prose around fence",
			raw:  "Result below\n```json\n{\"a\": {\"b\": 2}}\n```\nDone.",
			want: `{"a": {"b": 2}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.raw)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractJSON_NoObject(t *testing.T) {
	for _, raw := range []string{"", "no json here", "} backwards {", "[1, 2, 3]"} {
		if _, err := ExtractJSON(raw); !errors.Is(err, ErrNoJSON) {
			t.Errorf("ExtractJSON(%q): expected ErrNoJSON, got %v", raw, err)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Verdict string `json:"verdict"`
	}
	if err := DecodeJSON("Answer: {\"verdict\": \"VERIFIED\"}", &out); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out.Verdict != "VERIFIED" {
		t.Errorf("Expected VERIFIED, got %q", out.Verdict)
	}

	// Truncated output: the span exists but is not valid JSON
	if err := DecodeJSON(`{"verdict": "VERIFIED", "sources": [}`, &out); err == nil || errors.Is(err, ErrNoJSON) {
		t.Errorf("Expected decode error, got %v", err)
	}
}
