package model

import "time"

// Config is the complete runtime configuration. It is built once at startup
// and treated as read-only afterwards.
type Config struct {
	HTTP         HTTPConfig       `yaml:"http" mapstructure:"http"`
	LLM          LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Extract      ExtractConfig    `yaml:"extract" mapstructure:"extract"`
	Adjudicate   AdjudicateConfig `yaml:"adjudicate" mapstructure:"adjudicate"`
	Search       SearchConfig     `yaml:"search" mapstructure:"search"`
	FactCheck    FactCheckConfig  `yaml:"factcheck" mapstructure:"factcheck"`
	Fetch        FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Cache        CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Pipeline     PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Server       ServerConfig     `yaml:"server" mapstructure:"server"`
	RateLimiting RateLimitConfig  `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Authority    AuthorityConfig  `yaml:"authority" mapstructure:"authority"`
	Log          LogConfig        `yaml:"log" mapstructure:"log"`
}

// HTTPConfig controls direct page fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// LLMConfig selects the reasoning model provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // groq, openai, anthropic, gemini, ollama, "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ExtractConfig controls claim extraction
type ExtractConfig struct {
	Model         string        `yaml:"model,omitempty" mapstructure:"model"` // Overrides llm.model for extraction
	MaxInputChars int           `yaml:"max_input_chars" mapstructure:"max_input_chars"`
	Temperature   float64       `yaml:"temperature" mapstructure:"temperature"`
	Attempts      int           `yaml:"attempts" mapstructure:"attempts"`
	Backoff       time.Duration `yaml:"backoff" mapstructure:"backoff"`
}

// AdjudicateConfig controls per-claim adjudication
type AdjudicateConfig struct {
	Model            string        `yaml:"model,omitempty" mapstructure:"model"` // Overrides llm.model for adjudication
	MaxEvidenceChars int           `yaml:"max_evidence_chars" mapstructure:"max_evidence_chars"`
	ModelAttempts    int           `yaml:"model_attempts" mapstructure:"model_attempts"`
	Backoff          time.Duration `yaml:"backoff" mapstructure:"backoff"`
}

// SearchConfig configures the evidence search gateway and its providers
type SearchConfig struct {
	Primary           string        `yaml:"primary" mapstructure:"primary"`   // tavily, serper, ""
	Fallback          string        `yaml:"fallback" mapstructure:"fallback"` // duckduckgo, serper, ""
	TavilyAPIKey      string        `yaml:"-" mapstructure:"tavily_api_key"`
	TavilyBaseURL     string        `yaml:"tavily_base_url,omitempty" mapstructure:"tavily_base_url"`
	SerperAPIKey      string        `yaml:"-" mapstructure:"serper_api_key"`
	SerperBaseURL     string        `yaml:"serper_base_url,omitempty" mapstructure:"serper_base_url"`
	DuckDuckGoBaseURL string        `yaml:"duckduckgo_base_url,omitempty" mapstructure:"duckduckgo_base_url"`
	MaxResults        int           `yaml:"max_results" mapstructure:"max_results"`
	KeepResults       int           `yaml:"keep_results" mapstructure:"keep_results"`
	MaxExcerptChars   int           `yaml:"max_excerpt_chars" mapstructure:"max_excerpt_chars"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	AllowList         []string      `yaml:"allow_list" mapstructure:"allow_list"`
}

// FactCheckConfig configures the Tier-1 pre-existing verdict lookup
type FactCheckConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	APIKey       string        `yaml:"-" mapstructure:"api_key"`
	BaseURL      string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	LanguageCode string        `yaml:"language_code" mapstructure:"language_code"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// FetchConfig selects how article content is retrieved
type FetchConfig struct {
	Mode           string        `yaml:"mode" mapstructure:"mode"` // auto, scraper, direct
	ScraperAPIKey  string        `yaml:"-" mapstructure:"scraper_api_key"`
	ScraperBaseURL string        `yaml:"scraper_base_url" mapstructure:"scraper_base_url"`
	Render         bool          `yaml:"render" mapstructure:"render"`
	ScraperTimeout time.Duration `yaml:"scraper_timeout" mapstructure:"scraper_timeout"`
	MaxRetries     int           `yaml:"max_retries" mapstructure:"max_retries"`
}

// CacheConfig controls page-content caching in the fetcher
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Backend  string        `yaml:"backend" mapstructure:"backend"` // memory, layered, redis
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Dir      string        `yaml:"dir" mapstructure:"dir"`
	RedisURL string        `yaml:"-" mapstructure:"redis_url"`
}

// PipelineConfig controls the orchestrator
type PipelineConfig struct {
	ArticleTimeout time.Duration `yaml:"article_timeout" mapstructure:"article_timeout"`
	ClaimWorkers   int           `yaml:"claim_workers" mapstructure:"claim_workers"` // 1 = sequential
	BatchWorkers   int           `yaml:"batch_workers" mapstructure:"batch_workers"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

// RateLimitConfig throttles outbound search requests per provider host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// AuthorityConfig drives evidence authority classification
type AuthorityConfig struct {
	PrimaryDomains   []string          `yaml:"primary_domains" mapstructure:"primary_domains"`
	SecondaryDomains []string          `yaml:"secondary_domains" mapstructure:"secondary_domains"`
	DomainMap        map[string]string `yaml:"domain_map,omitempty" mapstructure:"domain_map"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // text, json
}

// IndiaAuthorityDomains is the default search allow-list: Indian fact-checkers,
// government and regulator sites, and wire services.
var IndiaAuthorityDomains = []string{
	"altnews.in",
	"boomlive.in",
	"thequint.com",
	"factly.in",
	"vishvasnews.com",
	"pib.gov.in",
	"who.int",
	"rbi.org.in",
	"sci.gov.in",
	"thehindu.com",
	"indianexpress.com",
	"ndtv.com",
	"livemint.com",
	"timesofindia.indiatimes.com",
	"hindustantimes.com",
	"reuters.com",
	"bbc.com",
	"ptinews.com",
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Credible/0.4 (+https://github.com/ppiankov/credible)",
			MaxBodyBytes:  5_000_000,
			RespectRobots: true,
		},
		LLM: LLMConfig{
			Provider:  "groq",
			Model:     "llama-3.3-70b-versatile",
			Timeout:   60,
			MaxTokens: 1024,
		},
		Extract: ExtractConfig{
			Model:         "llama-3.1-8b-instant",
			MaxInputChars: 15000,
			Temperature:   0.1,
			Attempts:      3,
			Backoff:       2 * time.Second,
		},
		Adjudicate: AdjudicateConfig{
			MaxEvidenceChars: 6000,
			ModelAttempts:    2,
			Backoff:          time.Second,
		},
		Search: SearchConfig{
			Primary:         "tavily",
			Fallback:        "duckduckgo",
			MaxResults:      5,
			KeepResults:     3,
			MaxExcerptChars: 2000,
			Timeout:         15 * time.Second,
			AllowList:       append([]string(nil), IndiaAuthorityDomains...),
		},
		FactCheck: FactCheckConfig{
			Enabled:      true,
			LanguageCode: "en-IN",
			Timeout:      4 * time.Second,
		},
		Fetch: FetchConfig{
			Mode:           "auto",
			ScraperBaseURL: "https://api.scraperapi.com/",
			Render:         true,
			ScraperTimeout: 60 * time.Second,
			MaxRetries:     3,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "memory",
			TTL:     30 * time.Minute,
			Dir:     "",
		},
		Pipeline: PipelineConfig{
			ArticleTimeout: 5 * time.Minute,
			ClaimWorkers:   1,
			BatchWorkers:   2,
		},
		Server: ServerConfig{
			Addr: ":8000",
			AllowedOrigins: []string{
				"http://127.0.0.1:8000",
				"http://localhost:8000",
				"https://www.google.com",
				"https://*.google.com",
				"https://www.bing.com",
				"chrome-extension://*",
			},
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  6 * time.Minute,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2.0,
			BurstSize:         4,
		},
		Authority: AuthorityConfig{
			PrimaryDomains: []string{
				"gov.in", "nic.in", "gov", "gov.uk", "who.int", "un.org",
				"rbi.org.in", "sci.gov.in", "pib.gov.in", "cdc.gov",
			},
			SecondaryDomains: []string{
				"reuters.com", "apnews.com", "bbc.com", "ptinews.com",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
