package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/credible/internal/logging"
	"github.com/ppiankov/credible/internal/model"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "0.4.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "credible",
	Short: "Credible - claim extraction and evidence-grounded fact checking",
	Long: `Credible checks factual claims in news articles and free text.

It extracts checkable claims, searches for evidence with a preference for
official and fact-checking sources, and asks a reasoning model for a verdict
that may only cite the evidence it was shown.

Verdicts are VERIFIED, FALSE, MISLEADING, UNVERIFIED or ERROR.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("credible v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.credible/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads .env, the config file and CREDIBLE_* variables
func initConfig() {
	// A missing .env is the normal case
	_ = godotenv.Load()

	if err := registerDefaults(viper.GetViper()); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading defaults: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.credible")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("CREDIBLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// hiddenKeys are omitted from the YAML defaults (secrets and empty
// omitempty fields) but must be known to viper so CREDIBLE_* overrides
// reach them through Unmarshal
var hiddenKeys = []string{
	"llm.api_key",
	"llm.base_url",
	"adjudicate.model",
	"search.tavily_base_url",
	"search.serper_base_url",
	"search.duckduckgo_base_url",
	"factcheck.base_url",
	"http.http_proxy",
	"http.https_proxy",
	"http.no_proxy",
	"search.tavily_api_key",
	"search.serper_api_key",
	"factcheck.api_key",
	"fetch.scraper_api_key",
	"cache.redis_url",
}

// registerDefaults flattens DefaultConfig into viper defaults
func registerDefaults(v *viper.Viper) error {
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	for key, value := range flatten("", tree) {
		v.SetDefault(key, value)
	}
	for _, key := range hiddenKeys {
		if v.IsSet(key) {
			continue
		}
		v.SetDefault(key, "")
	}
	return nil
}

func flatten(prefix string, tree map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok && len(sub) > 0 {
			for sk, sv := range flatten(key, sub) {
				out[sk] = sv
			}
			continue
		}
		out[key] = v
	}
	return out
}

// loadConfig builds the effective configuration and initializes logging
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyEnvSecrets(cfg, os.Getenv)

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logging.Init(level, cfg.Log.Format)

	return cfg, nil
}

// llmKeyEnv maps provider names to their API key variables
var llmKeyEnv = map[string]string{
	"groq":      "GROQ_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"claude":    "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"google":    "GEMINI_API_KEY",
}

// applyEnvSecrets fills credentials from the providers' own variables.
// Values already set through CREDIBLE_* or the config file win.
func applyEnvSecrets(cfg *model.Config, getenv func(string) string) {
	fill := func(dst *string, name string) {
		if *dst == "" {
			*dst = getenv(name)
		}
	}

	if name, ok := llmKeyEnv[strings.ToLower(cfg.LLM.Provider)]; ok {
		fill(&cfg.LLM.APIKey, name)
	}
	if strings.EqualFold(cfg.LLM.Provider, "ollama") {
		fill(&cfg.LLM.BaseURL, "OLLAMA_BASE_URL")
	}

	fill(&cfg.Search.TavilyAPIKey, "TAVILY_API_KEY")
	fill(&cfg.Search.SerperAPIKey, "SERPER_API_KEY")
	fill(&cfg.FactCheck.APIKey, "GOOGLE_FACT_CHECK_API_KEY")
	fill(&cfg.Fetch.ScraperAPIKey, "SCRAPING_API_KEY")
	fill(&cfg.Cache.RedisURL, "REDIS_URL")

	if base := getenv("SCRAPING_BASE_URL"); base != "" {
		cfg.Fetch.ScraperBaseURL = base
	}
}
