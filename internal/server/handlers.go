package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/credible/internal/credibility"
	"github.com/ppiankov/credible/internal/model"
)

const noCitation = "N/A"

type healthResponse struct {
	Status               string `json:"status"`
	AdjudicatorAvailable bool   `json:"adjudicator_available"`
	ExtractorAvailable   bool   `json:"extractor_available"`
	Version              string `json:"version"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:               "ok",
		AdjudicatorAvailable: s.checker.AdjudicatorAvailable(),
		ExtractorAvailable:   s.checker.ExtractorAvailable(),
		Version:              s.version,
	})
}

type credibilityRequest struct {
	Links []credibility.Link `json:"links"`
	Query string             `json:"query,omitempty"`
}

func (s *Server) checkCredibility(c *gin.Context) {
	var req credibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	assessments, err := s.checker.CheckCredibility(req.Links)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessments)
}

type claimRequest struct {
	Text  string `json:"text"`
	Claim string `json:"claim"`
}

type claimResponse struct {
	Claim        string   `json:"claim"`
	ClaimVerdict string   `json:"claim_verdict"`
	Verdict      string   `json:"verdict"`
	Confidence   float64  `json:"confidence"`
	Explanation  string   `json:"explanation"`
	Citation     string   `json:"citation"`
	Citations    []string `json:"citations"`
	TierUsed     string   `json:"tier_used"`
	Warnings     []string `json:"warnings,omitempty"`
}

func (s *Server) checkAgenticClaim(c *gin.Context) {
	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		text = strings.TrimSpace(req.Claim)
	}
	if text == "" {
		badRequest(c, `request must include "text" or "claim"`)
		return
	}

	check, err := s.checker.CheckClaim(c.Request.Context(), text)
	if err != nil {
		writeError(c, err)
		return
	}

	v := check.Verdict
	citation := v.Citation()
	if citation == "" {
		citation = noCitation
	}
	c.JSON(http.StatusOK, claimResponse{
		Claim:        check.Claim.Text,
		ClaimVerdict: string(v.Label),
		Verdict:      string(v.Label),
		Confidence:   v.Confidence,
		Explanation:  v.Explanation,
		Citation:     citation,
		Citations:    v.Citations,
		TierUsed:     check.TierUsed,
		Warnings:     v.Warnings,
	})
}

type articleRequest struct {
	URL string `json:"url"`
}

type individualResult struct {
	Claim    string `json:"claim"`
	Verdict  string `json:"verdict"`
	Citation string `json:"citation"`
}

type articleResponse struct {
	URL               string              `json:"url"`
	TotalClaims       int                 `json:"total_claims_analyzed"`
	ClaimsBreakdown   map[model.Label]int `json:"claims_breakdown"`
	CompositeVerdict  string              `json:"composite_verdict"`
	IndividualResults []individualResult  `json:"individual_results"`
}

func (s *Server) verifyArticleFull(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body: "+err.Error())
		return
	}
	rawURL := strings.TrimSpace(req.URL)
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		badRequest(c, `"url" must be an absolute http(s) URL`)
		return
	}

	report, err := s.checker.CheckArticle(c.Request.Context(), rawURL)
	if err != nil {
		writeError(c, err)
		return
	}

	composite := report.Composite
	results := make([]individualResult, 0, len(composite.PerClaim))
	for _, cv := range composite.PerClaim {
		citation := cv.Verdict.Citation()
		if citation == "" {
			citation = noCitation
		}
		results = append(results, individualResult{
			Claim:    cv.Claim.Text,
			Verdict:  string(cv.Verdict.Label),
			Citation: citation,
		})
	}

	c.JSON(http.StatusOK, articleResponse{
		URL:               report.URL,
		TotalClaims:       composite.ClaimCount,
		ClaimsBreakdown:   composite.Tally,
		CompositeVerdict:  composite.CompositeLabel,
		IndividualResults: results,
	})
}
