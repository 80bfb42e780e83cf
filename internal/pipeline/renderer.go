package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/credible/internal/model"
)

// Renderer writes reports as JSON, Markdown and terminal summaries
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the report as indented JSON to path
func (r *Renderer) RenderJSON(report *model.ArticleReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the report as a Markdown document to path
func (r *Renderer) RenderMarkdown(report *model.ArticleReport, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// Markdown renders the report as Markdown
func (r *Renderer) Markdown(report *model.ArticleReport) string {
	var b strings.Builder
	c := report.Composite

	fmt.Fprintf(&b, "# Credibility Report: %s\n\n", report.Subject())
	fmt.Fprintf(&b, "- **URL:** %s\n", report.URL)
	fmt.Fprintf(&b, "- **Checked:** %s\n", report.CheckedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "- **Composite verdict:** %s\n", c.CompositeLabel)
	fmt.Fprintf(&b, "- **Claims analyzed:** %d\n\n", c.ClaimCount)

	b.WriteString("## Breakdown\n\n| Verdict | Claims |\n|---|---|\n")
	for _, l := range model.Labels {
		fmt.Fprintf(&b, "| %s | %d |\n", l, c.Tally[l])
	}

	b.WriteString("\n## Claims\n")
	for i, cv := range c.PerClaim {
		fmt.Fprintf(&b, "\n### %d. %s\n\n", i+1, cv.Claim.Text)
		fmt.Fprintf(&b, "**%s** (confidence %.2f)\n\n", cv.Verdict.Label, cv.Verdict.Confidence)
		if cv.Verdict.Explanation != "" {
			fmt.Fprintf(&b, "%s\n\n", cv.Verdict.Explanation)
		}
		for _, src := range cv.Verdict.Citations {
			fmt.Fprintf(&b, "- %s\n", src)
		}
		for _, w := range cv.Verdict.Warnings {
			fmt.Fprintf(&b, "- ⚠ %s\n", w)
		}
	}

	return b.String()
}

// RenderSummary prints a short article summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.ArticleReport) {
	c := report.Composite
	fmt.Fprintf(w, "\n%s\n", report.URL)
	fmt.Fprintf(w, "  Verdict: %s\n", c.CompositeLabel)
	fmt.Fprintf(w, "  Claims:  %d (", c.ClaimCount)
	parts := make([]string, 0, len(model.Labels))
	for _, l := range model.Labels {
		parts = append(parts, fmt.Sprintf("%s %d", l, c.Tally[l]))
	}
	fmt.Fprintf(w, "%s)\n", strings.Join(parts, ", "))

	for i, cv := range c.PerClaim {
		fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, cv.Verdict.Label, cv.Claim.Text)
		if cite := cv.Verdict.Citation(); cite != "" {
			fmt.Fprintf(w, "     %s\n", cite)
		}
	}
}

// RenderClaim prints a single-claim result
func (r *Renderer) RenderClaim(w io.Writer, check *model.ClaimCheck) {
	v := check.Verdict
	fmt.Fprintf(w, "\nClaim:       %s\n", check.Claim.Text)
	fmt.Fprintf(w, "Verdict:     %s (confidence %.2f)\n", v.Label, v.Confidence)
	fmt.Fprintf(w, "Path:        %s\n", check.TierUsed)
	if check.PriorVerdict != nil {
		fmt.Fprintf(w, "Prior:       %s by %s\n", check.PriorVerdict.Rating, check.PriorVerdict.Publisher)
	}
	if v.Explanation != "" {
		fmt.Fprintf(w, "Explanation: %s\n", v.Explanation)
	}
	for _, src := range v.Citations {
		fmt.Fprintf(w, "Source:      %s\n", src)
	}
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
