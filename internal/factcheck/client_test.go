package factcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ppiankov/credible/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(context.Background(), model.FactCheckConfig{
		Enabled:      true,
		APIKey:       "test-key",
		BaseURL:      server.URL,
		LanguageCode: "en-IN",
		Timeout:      2 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return c
}

func TestClient_Lookup_Found(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1alpha1/claims:search" {
			t.Errorf("Expected claims:search path, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("query") != "Vaccines contain microchips" {
			t.Errorf("Unexpected query %q", q.Get("query"))
		}
		if q.Get("languageCode") != "en-IN" {
			t.Errorf("Expected languageCode en-IN, got %q", q.Get("languageCode"))
		}
		if q.Get("key") != "test-key" {
			t.Errorf("Expected API key param, got %q", q.Get("key"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"claims": [{
			"text": "Vaccines contain microchips",
			"claimReview": [{
				"publisher": {"name": "BOOM", "site": "boomlive.in"},
				"url": "https://www.boomlive.in/fact-check/microchips",
				"textualRating": "False"
			}]
		}]}`))
	})

	prior, err := c.Lookup(context.Background(), "Vaccines contain microchips")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if prior == nil {
		t.Fatal("Expected a prior verdict")
	}
	if prior.Rating != "False" || prior.Publisher != "BOOM" || prior.URL != "https://www.boomlive.in/fact-check/microchips" {
		t.Errorf("Unexpected prior verdict: %+v", prior)
	}
}

func TestClient_Lookup_Defaults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"claims": [{"claimReview": [{}]}]}`))
	})

	prior, err := c.Lookup(context.Background(), "claim")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if prior == nil || prior.Rating != defaultRating || prior.Publisher != defaultPublisher {
		t.Errorf("Expected default rating and publisher, got %+v", prior)
	}
}

func TestClient_Lookup_NoMatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	prior, err := c.Lookup(context.Background(), "claim")
	if err != nil || prior != nil {
		t.Errorf("Expected no match, got %+v, %v", prior, err)
	}
}

func TestClient_Lookup_Error(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "API key not valid"}}`))
	})

	if _, err := c.Lookup(context.Background(), "claim"); err == nil {
		t.Error("Expected error for 403")
	}
}

func TestNewClient_Disabled(t *testing.T) {
	c, err := NewClient(context.Background(), model.FactCheckConfig{Enabled: true}, nil)
	if err != nil || c != nil {
		t.Errorf("Expected nil client without key, got %v, %v", c, err)
	}

	c, err = NewClient(context.Background(), model.FactCheckConfig{Enabled: false, APIKey: "k"}, nil)
	if err != nil || c != nil {
		t.Errorf("Expected nil client when disabled, got %v, %v", c, err)
	}

	// A nil client behaves as "not found"
	var none *Client
	if prior, err := none.Lookup(context.Background(), "claim"); prior != nil || err != nil {
		t.Errorf("Expected nil lookup on nil client, got %+v, %v", prior, err)
	}
}
