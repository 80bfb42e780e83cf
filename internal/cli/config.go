package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/credible/internal/llm"
	"github.com/ppiankov/credible/internal/model"
	"github.com/ppiankov/credible/internal/search"
)

const hierarchyHelp = `Configuration hierarchy (highest to lowest priority):
  1. CLI flags
  2. Environment variables (CREDIBLE_*, e.g. CREDIBLE_LLM_PROVIDER)
  3. Provider variables (GROQ_API_KEY, TAVILY_API_KEY, SERPER_API_KEY, ...)
  4. Config file (~/.credible/config.yaml)
  5. Defaults`

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Credible configuration",
	Long:  "Manage Credible configuration files and settings.\n\n" + hierarchyHelp,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration. API keys are never printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("  Current Configuration")
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()
		fmt.Println(string(yamlData))
		fmt.Println("Credentials:")
		printCredential("llm", cfg.LLM.APIKey)
		printCredential("tavily", cfg.Search.TavilyAPIKey)
		printCredential("serper", cfg.Search.SerperAPIKey)
		printCredential("factcheck", cfg.FactCheck.APIKey)
		printCredential("scraper", cfg.Fetch.ScraperAPIKey)
		printCredential("redis", cfg.Cache.RedisURL)
		fmt.Println()
		fmt.Println(hierarchyHelp)
		fmt.Println()

		return nil
	},
}

func printCredential(name, value string) {
	state := "not set"
	if value != "" {
		state = "set"
	}
	fmt.Printf("  %-10s %s\n", name+":", state)
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.credible/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configPath := filepath.Join(home, ".credible", "config.yaml")
		if err := writeDefaultConfig(configPath); err != nil {
			return err
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  credible config show\n")
		fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n\n", configPath)
		return nil
	},
}

// writeDefaultConfig writes the commented default configuration to path.
// An existing file is never overwritten.
func writeDefaultConfig(path string) (err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		return fmt.Errorf("config file already exists: %s\nUse 'credible config show' to view it, or delete it first to recreate", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	printf := func(format string, a ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(f, format, a...)
	}

	printf("# Credible Configuration File\n")
	printf("#\n")
	for _, line := range []string{
		"# Configuration hierarchy (highest to lowest priority):",
		"#   1. CLI flags",
		"#   2. Environment variables (CREDIBLE_*)",
		"#   3. Provider variables (GROQ_API_KEY, TAVILY_API_KEY, ...)",
		"#   4. This config file",
		"#   5. Built-in defaults",
	} {
		printf("%s\n", line)
	}
	printf("\n%s", yamlData)
	printf("\n# API keys are read from the environment (or a .env file):\n")
	printf("#   export GROQ_API_KEY=gsk_...\n")
	printf("#   export TAVILY_API_KEY=tvly-...\n")
	printf("#   export SERPER_API_KEY=...\n")
	printf("#   export GOOGLE_FACT_CHECK_API_KEY=...\n")
	printf("#   export SCRAPING_API_KEY=...\n")
	printf("#   export REDIS_URL=redis://localhost:6379/0\n")

	return err
}

var configCheckTimeout time.Duration

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the configured providers are usable",
	Long: `Contact the configured LLM provider and report which search providers
have credentials. Exits non-zero when the LLM provider is configured but
unreachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), configCheckTimeout)
		defer cancel()

		if !checkConfig(ctx, cfg, cmd.OutOrStdout()) {
			return fmt.Errorf("configuration check failed")
		}
		return nil
	},
}

// checkConfig writes one line per provider and returns false when the LLM
// provider cannot be built or does not answer. A disabled LLM is not a failure.
func checkConfig(ctx context.Context, cfg *model.Config, w io.Writer) bool {
	ok := true

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg))
	switch {
	case err != nil:
		fmt.Fprintf(w, "  %-10s error: %v\n", "llm:", err)
		ok = false
	case provider == nil:
		fmt.Fprintf(w, "  %-10s disabled (adjudication and extraction off)\n", "llm:")
	default:
		if closer, isCloser := provider.(io.Closer); isCloser {
			defer func() { _ = closer.Close() }()
		}
		if provider.IsAvailable(ctx) {
			fmt.Fprintf(w, "  %-10s %s ready\n", "llm:", provider.Name())
		} else {
			fmt.Fprintf(w, "  %-10s %s unreachable\n", "llm:", provider.Name())
			ok = false
		}
	}

	for _, slot := range []struct{ label, name string }{
		{"primary:", cfg.Search.Primary},
		{"fallback:", cfg.Search.Fallback},
	} {
		p, err := search.NewProvider(slot.name, cfg, nil)
		switch {
		case err != nil:
			fmt.Fprintf(w, "  %-10s error: %v\n", slot.label, err)
		case p == nil && slot.name != "":
			fmt.Fprintf(w, "  %-10s %s has no API key\n", slot.label, slot.name)
		case p == nil:
			fmt.Fprintf(w, "  %-10s none\n", slot.label)
		default:
			fmt.Fprintf(w, "  %-10s %s configured\n", slot.label, p.Name())
		}
	}

	return ok
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configCheckCmd)
	configCheckCmd.Flags().DurationVar(&configCheckTimeout, "timeout", 15*time.Second, "time allowed for provider checks")
}
