package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8050,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=3m,description=HTTP server timeout; must cover the longest fetch or analyze run"`
		BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8050,description=Public URL used in generated RSS links"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:marketscope.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Feeds []FeedConfig `yaml:"feeds" json:"feeds" jsonschema:"description=RSS/Atom sources; the built-in list is used when empty"`

	Fetch FetchConfig `yaml:"fetch" json:"fetch" jsonschema:"description=Feed fetching configuration"`

	Schedule ScheduleConfig `yaml:"schedule" json:"schedule" jsonschema:"description=Background fetch and analysis schedule"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for impact analysis"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Article text extraction for thin feed summaries"`

	Market MarketConfig `yaml:"market" json:"market" jsonschema:"description=Market summary configuration"`
}

// FeedConfig describes a single feed source
type FeedConfig struct {
	Name string `yaml:"name" json:"name" jsonschema:"required,description=Source name shown in the dashboard"`
	URL  string `yaml:"url" json:"url" jsonschema:"required,description=Feed URL"`
}

// FetchConfig holds feed fetching settings
type FetchConfig struct {
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Timeout for a single feed request"`
	MaxWorkers int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=8,description=Maximum feeds fetched concurrently"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0 (compatible; Marketscope/1.0),description=User agent for feed requests"`
}

// ScheduleConfig holds periodic job settings
type ScheduleConfig struct {
	Enabled         bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Run fetch and analysis periodically"`
	FetchInterval   time.Duration `yaml:"fetch_interval" json:"fetch_interval" jsonschema:"default=15m,description=Interval between feed fetches"`
	AnalyzeInterval time.Duration `yaml:"analyze_interval" json:"analyze_interval" jsonschema:"default=5m,description=Interval between analysis batches"`
	AnalyzeBatch    int           `yaml:"analyze_batch" json:"analyze_batch" jsonschema:"default=15,minimum=1,maximum=100,description=Articles per scheduled analysis batch"`
}

// LLMConfig holds LLM configuration for impact analysis
type LLMConfig struct {
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=http://localhost:11434/v1,description=OpenAI-compatible API endpoint (OpenAI or Groq or Ollama)"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model        string        `yaml:"model" json:"model" jsonschema:"default=llama3.1:8b,description=Model name (e.g. llama-3.3-70b-versatile or gpt-4o-mini)"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.1,description=Temperature for response generation"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=600,description=Maximum tokens in response"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=45s,description=Timeout for a single article analysis"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt for the LLM (optional)"`
	UseJSONMode  bool          `yaml:"use_json_mode" json:"use_json_mode" jsonschema:"default=false,description=Request JSON response format (not all models support this)"`
}

// ExtractionConfig holds content extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Extract article text when the feed summary is too short"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=20s,description=Extraction timeout per article"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0 (compatible; Marketscope/1.0),description=User agent for HTTP requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=200,description=Summaries shorter than this are enriched with extracted text"`
}

// MarketConfig holds market summary settings
type MarketConfig struct {
	TopDrivers        int      `yaml:"top_drivers" json:"top_drivers" jsonschema:"default=5,minimum=1,description=Number of top drivers in the market summary"`
	DirectionPriority []string `yaml:"direction_priority" json:"direction_priority" jsonschema:"description=Tie-break order of market directions with the first one winning"`
}

// directions accepted in market.direction_priority
var knownDirections = []string{"bullish", "bearish", "mixed", "neutral"}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds configuration from YAML content, applies defaults and validates the result.
// Empty content gives the default configuration.
func Parse(data []byte) (*Config, error) {
	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		return nil, fmt.Errorf("verify config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	// server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8050"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 3 * time.Minute
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8050"
	}

	// database
	if c.Database.DSN == "" {
		c.Database.DSN = "file:marketscope.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	// fetch
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 30 * time.Second
	}
	if c.Fetch.MaxWorkers == 0 {
		c.Fetch.MaxWorkers = 8
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "Mozilla/5.0 (compatible; Marketscope/1.0)"
	}

	// schedule
	if c.Schedule.FetchInterval == 0 {
		c.Schedule.FetchInterval = 15 * time.Minute
	}
	if c.Schedule.AnalyzeInterval == 0 {
		c.Schedule.AnalyzeInterval = 5 * time.Minute
	}
	if c.Schedule.AnalyzeBatch == 0 {
		c.Schedule.AnalyzeBatch = 15
	}

	// llm
	if c.LLM.Endpoint == "" {
		c.LLM.Endpoint = "http://localhost:11434/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "llama3.1:8b"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.1
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 600
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 45 * time.Second
	}

	// extraction
	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 20 * time.Second
	}
	if c.Extraction.UserAgent == "" {
		c.Extraction.UserAgent = "Mozilla/5.0 (compatible; Marketscope/1.0)"
	}
	if c.Extraction.MinTextLength == 0 {
		c.Extraction.MinTextLength = 200
	}

	// market
	if c.Market.TopDrivers == 0 {
		c.Market.TopDrivers = 5
	}
	if len(c.Market.DirectionPriority) == 0 {
		c.Market.DirectionPriority = append([]string{}, knownDirections...)
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	seenNames, seenURLs := map[string]bool{}, map[string]bool{}
	for i, f := range cfg.Feeds {
		if f.Name == "" || f.URL == "" {
			return fmt.Errorf("feeds[%d]: name and url are required", i)
		}
		if seenNames[f.Name] {
			return fmt.Errorf("feeds[%d]: duplicate feed name %q", i, f.Name)
		}
		if seenURLs[f.URL] {
			return fmt.Errorf("feeds[%d]: duplicate feed url %q", i, f.URL)
		}
		seenNames[f.Name], seenURLs[f.URL] = true, true
	}

	if cfg.Fetch.MaxWorkers < 1 {
		return fmt.Errorf("fetch.max_workers must be at least 1")
	}

	if cfg.Schedule.Enabled {
		if cfg.Schedule.FetchInterval < time.Minute || cfg.Schedule.AnalyzeInterval < time.Minute {
			return fmt.Errorf("schedule intervals must be at least 1 minute")
		}
	}
	if cfg.Schedule.AnalyzeBatch < 1 || cfg.Schedule.AnalyzeBatch > 100 {
		return fmt.Errorf("schedule.analyze_batch must be between 1 and 100")
	}

	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.Timeout < time.Second {
		return fmt.Errorf("llm.timeout must be at least 1 second")
	}

	if cfg.Extraction.Enabled && cfg.Extraction.Timeout < time.Second {
		return fmt.Errorf("extraction timeout must be at least 1 second")
	}

	if cfg.Market.TopDrivers < 1 {
		return fmt.Errorf("market.top_drivers must be at least 1")
	}
	if err := validateDirectionPriority(cfg.Market.DirectionPriority); err != nil {
		return fmt.Errorf("market.direction_priority: %w", err)
	}

	return nil
}

// validateDirectionPriority requires a permutation of all known directions
func validateDirectionPriority(priority []string) error {
	if len(priority) != len(knownDirections) {
		return fmt.Errorf("must list all of %v", knownDirections)
	}
	seen := map[string]bool{}
	for _, p := range priority {
		known := false
		for _, d := range knownDirections {
			if p == d {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown direction %q", p)
		}
		if seen[p] {
			return fmt.Errorf("direction %q listed twice", p)
		}
		seen[p] = true
	}
	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetBaseURL returns the public URL used in generated links
func (c *Config) GetBaseURL() string {
	return c.Server.BaseURL
}
