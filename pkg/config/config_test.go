package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		configContent := `
server:
  listen: ":9090"
  timeout: 45s
  base_url: https://markets.example.com

feeds:
  - name: CNBC Markets
    url: https://example.com/markets.xml
  - name: FT Markets
    url: https://example.com/ft.xml

fetch:
  max_workers: 4

schedule:
  enabled: true
  fetch_interval: 30m
  analyze_interval: 10m
  analyze_batch: 25

llm:
  endpoint: https://api.groq.com/openai/v1
  model: llama-3.3-70b-versatile
  timeout: 20s

market:
  top_drivers: 3
  direction_priority: [bearish, bullish, mixed, neutral]
`
		configPath := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o600))

		cfg, err := Load(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "https://markets.example.com", cfg.Server.BaseURL)

		require.Len(t, cfg.Feeds, 2)
		assert.Equal(t, FeedConfig{Name: "CNBC Markets", URL: "https://example.com/markets.xml"}, cfg.Feeds[0])
		assert.Equal(t, FeedConfig{Name: "FT Markets", URL: "https://example.com/ft.xml"}, cfg.Feeds[1])

		assert.Equal(t, 4, cfg.Fetch.MaxWorkers)
		assert.True(t, cfg.Schedule.Enabled)
		assert.Equal(t, 30*time.Minute, cfg.Schedule.FetchInterval)
		assert.Equal(t, 10*time.Minute, cfg.Schedule.AnalyzeInterval)
		assert.Equal(t, 25, cfg.Schedule.AnalyzeBatch)

		assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.Endpoint)
		assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
		assert.Equal(t, 20*time.Second, cfg.LLM.Timeout)

		assert.Equal(t, 3, cfg.Market.TopDrivers)
		assert.Equal(t, []string{"bearish", "bullish", "mixed", "neutral"}, cfg.Market.DirectionPriority)
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configContent := `
invalid yaml content
  with bad indentation
    and no structure
`
		configPath := filepath.Join(t.TempDir(), "invalid.yml")
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o600))

		cfg, err := Load(configPath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8050", cfg.Server.Listen)
	assert.Equal(t, 3*time.Minute, cfg.Server.Timeout)
	assert.Equal(t, "http://localhost:8050", cfg.Server.BaseURL)
	assert.Contains(t, cfg.Database.DSN, "marketscope.db")
	assert.Empty(t, cfg.Feeds)

	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 8, cfg.Fetch.MaxWorkers)
	assert.NotEmpty(t, cfg.Fetch.UserAgent)

	assert.False(t, cfg.Schedule.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Schedule.FetchInterval)
	assert.Equal(t, 5*time.Minute, cfg.Schedule.AnalyzeInterval)
	assert.Equal(t, 15, cfg.Schedule.AnalyzeBatch)

	assert.Equal(t, "http://localhost:11434/v1", cfg.LLM.Endpoint)
	assert.Equal(t, "llama3.1:8b", cfg.LLM.Model)
	assert.InDelta(t, 0.1, cfg.LLM.Temperature, 0.0001)
	assert.Equal(t, 600, cfg.LLM.MaxTokens)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)

	assert.False(t, cfg.Extraction.Enabled)
	assert.Equal(t, 200, cfg.Extraction.MinTextLength)

	assert.Equal(t, 5, cfg.Market.TopDrivers)
	assert.Equal(t, []string{"bullish", "bearish", "mixed", "neutral"}, cfg.Market.DirectionPriority)
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("MARKETSCOPE_TEST_KEY", "secret-key-123")
	cfg, err := Parse([]byte("llm:\n  api_key: ${MARKETSCOPE_TEST_KEY}\n"))
	require.NoError(t, err)
	assert.Equal(t, "secret-key-123", cfg.LLM.APIKey)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "feed without url",
			content: "feeds:\n  - name: Reuters\n",
			errMsg:  "name and url are required",
		},
		{
			name:    "duplicate feed name",
			content: "feeds:\n  - {name: A, url: https://a.example.com/rss}\n  - {name: A, url: https://b.example.com/rss}\n",
			errMsg:  "duplicate feed name",
		},
		{
			name:    "duplicate feed url",
			content: "feeds:\n  - {name: A, url: https://a.example.com/rss}\n  - {name: B, url: https://a.example.com/rss}\n",
			errMsg:  "duplicate feed url",
		},
		{
			name:    "negative workers",
			content: "fetch:\n  max_workers: -1\n",
			errMsg:  "max_workers",
		},
		{
			name:    "too frequent schedule",
			content: "schedule:\n  enabled: true\n  fetch_interval: 10s\n",
			errMsg:  "at least 1 minute",
		},
		{
			name:    "analyze batch too large",
			content: "schedule:\n  analyze_batch: 500\n",
			errMsg:  "analyze_batch",
		},
		{
			name:    "temperature out of range",
			content: "llm:\n  temperature: 3.5\n",
			errMsg:  "temperature",
		},
		{
			name:    "llm timeout too short",
			content: "llm:\n  timeout: 10ms\n",
			errMsg:  "llm.timeout",
		},
		{
			name:    "unknown direction",
			content: "market:\n  direction_priority: [bullish, bearish, mixed, sideways]\n",
			errMsg:  `unknown direction "sideways"`,
		},
		{
			name:    "direction listed twice",
			content: "market:\n  direction_priority: [bullish, bullish, mixed, neutral]\n",
			errMsg:  "listed twice",
		},
		{
			name:    "partial priority",
			content: "market:\n  direction_priority: [bullish, bearish]\n",
			errMsg:  "must list all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "validate config")
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_GetServerConfig(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Listen = ":9090"
	cfg.Server.Timeout = 45 * time.Second

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":9090", listen)
	assert.Equal(t, 45*time.Second, timeout)

	cfg.Server.BaseURL = "https://markets.example.com"
	assert.Equal(t, "https://markets.example.com", cfg.GetBaseURL())
}
