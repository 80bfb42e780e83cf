package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/credible/internal/credibility"
)

var (
	credibilityJSON bool
	credibilityList string
)

// credibilityCmd represents the credibility command
var credibilityCmd = &cobra.Command{
	Use:   "credibility <url>...",
	Short: "Tag publishers by credibility",
	Long: `Credibility looks each URL's domain up in the built-in publisher table
(IFCN signatories, reputable newsrooms, low-reputation sites).

With --list, print the table's domains for one label instead.

Example:
  credible credibility https://www.altnews.in/some-check https://www.reuters.com/world/
  credible credibility --list verified`,
	Args: func(cmd *cobra.Command, args []string) error {
		if credibilityList == "" && len(args) == 0 {
			return fmt.Errorf("requires at least 1 URL, or --list <label>")
		}
		return nil
	},
	RunE: runCredibility,
}

func init() {
	rootCmd.AddCommand(credibilityCmd)
	credibilityCmd.Flags().BoolVar(&credibilityJSON, "json", false, "print JSON instead of a table")
	credibilityCmd.Flags().StringVar(&credibilityList, "list", "", "list domains for a label (verified, reputable, caution)")
}

func runCredibility(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	registry, err := credibility.NewDefaultRegistry()
	if err != nil {
		return fmt.Errorf("load credibility table: %w", err)
	}

	if credibilityList != "" {
		return listDomains(os.Stdout, registry, credibilityList, credibilityJSON)
	}

	links := make([]credibility.Link, 0, len(args))
	for _, a := range args {
		links = append(links, credibility.Link{URL: a})
	}
	results := registry.LookupAll(links)

	if credibilityJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, r := range results {
		fmt.Printf("%-40s %-10s %-26s %s\n", r.Domain, r.Label, r.Verdict, r.TagReason)
	}
	return nil
}

// listDomains prints the registry's domains for one label
func listDomains(w io.Writer, registry *credibility.Registry, label string, asJSON bool) error {
	l := credibility.Label(strings.ToUpper(strings.TrimSpace(label)))
	switch l {
	case credibility.LabelVerified, credibility.LabelReputable, credibility.LabelCaution:
	default:
		return fmt.Errorf("unknown label %q (supported: verified, reputable, caution)", label)
	}

	domains := registry.Domains(l)
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"label": l, "domains": domains})
	}

	for _, d := range domains {
		fmt.Fprintln(w, d)
	}
	fmt.Fprintf(w, "\n%d %s domains\n", len(domains), strings.ToLower(string(l)))
	return nil
}
