package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/credible/internal/pipeline"
)

var (
	checkJSON    string
	checkTimeout time.Duration
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <claim>",
	Short: "Check a single claim",
	Long: `Check looks the claim up in fact-check databases first. When a prior
rating exists it is used as context, otherwise the claim is researched
from scratch. Either way the verdict only cites gathered evidence.

Example:
  credible check "India's GDP grew 8.2% in FY24"
  credible check "The RBI cut the repo rate" --json verdict.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkJSON, "json", "", "write the result as JSON to this path")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 2*time.Minute, "overall timeout")
}

func runCheck(cmd *cobra.Command, args []string) error {
	claim := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	p, err := pipeline.NewFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", claim)
	}

	check, err := p.CheckClaim(ctx, claim)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	p.Renderer().RenderClaim(os.Stdout, check)

	if checkJSON != "" {
		data, err := json.MarshalIndent(check, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		if err := os.WriteFile(checkJSON, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", checkJSON, err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", checkJSON)
	}
	return nil
}
