package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net"
	"net/url"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/marketscope/pkg/config"
	"github.com/umputun/marketscope/pkg/domain"
)

const (
	maxContentRunes = 3000
	maxSummaryRunes = 600
)

// errors reported by the client
var (
	ErrMalformedResponse = errors.New("malformed llm response")
	ErrNotConfigured     = errors.New("llm is not configured")
	ErrModelMissing      = errors.New("model is not served by the endpoint")
)

// checkTimeout caps a backend availability check
const checkTimeout = 10 * time.Second

// default system prompt for market impact analysis
const defaultSystemPrompt = `You are a markets analyst. For each news item you receive, judge how much it can move
financial markets and in which direction.

Respond with a single JSON object and nothing else:
{
  "impact_level": "high" | "medium" | "low" | "none",
  "impact_score": integer from 0 to 100,
  "market_direction": "bullish" | "bearish" | "mixed" | "neutral",
  "impact_summary": "one or two sentences on why and what it moves",
  "affected_sectors": ["sector", ...]
}

Scoring guide:
- 80-100 high: central bank decisions, major macro prints, systemic events, mega-cap surprises
- 50-79 medium: sector-level news, large company earnings, notable policy moves
- 20-49 low: company-specific news with limited spillover
- 0-19 none: no measurable market relevance

Use plain sector names such as Technology, Finance, Energy, Healthcare, Utilities, Consumer Staples,
Industrial, Real Estate, Materials, Telecom, Media, Bonds, Commodities, Crypto or Broad Market.
Use an empty list when no sector is affected. Write the summary directly about the substance,
without phrases like "the article says".`

// Request is a single article to analyze
type Request struct {
	Title   string
	Summary string
	Content string // optional extracted article text
}

// Client analyzes articles with an OpenAI-compatible chat completion API
type Client struct {
	client    *openai.Client
	config    config.LLMConfig
	systemMsg string
	policy    *bluemonday.Policy
}

// NewClient creates a new LLM client
func NewClient(cfg config.LLMConfig) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.Endpoint, "/")
	}

	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}

	return &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		systemMsg: systemMsg,
		policy:    bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true),
	}
}

// Ready checks the client has what it needs to make calls. Remote endpoints require an api key,
// local ones (Ollama) do not.
func (c *Client) Ready() error {
	if strings.TrimSpace(c.config.Model) == "" {
		return fmt.Errorf("%w: model is not set", ErrNotConfigured)
	}
	u, err := url.Parse(c.config.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: invalid endpoint %q", ErrNotConfigured, c.config.Endpoint)
	}
	if c.config.APIKey == "" && !isLocalHost(u.Hostname()) {
		return fmt.Errorf("%w: api key is not set for %s", ErrNotConfigured, u.Host)
	}
	return nil
}

// Check verifies the backend answers and serves the configured model. Endpoints without a
// model listing are trusted once they answer.
func (c *Client) Check(ctx context.Context) error {
	if err := c.Ready(); err != nil {
		return err
	}

	timeout := checkTimeout
	if c.config.Timeout > 0 && c.config.Timeout < timeout {
		timeout = c.config.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	models, err := c.client.ListModels(ctx)
	if err != nil {
		if listingUnsupported(err) {
			lgr.Printf("[DEBUG] %s has no model listing, model %s not verified", c.config.Endpoint, c.config.Model)
			return nil
		}
		return fmt.Errorf("list models: %w", err)
	}
	for _, m := range models.Models {
		if sameModel(m.ID, c.config.Model) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrModelMissing, c.config.Model)
}

// listingUnsupported reports an endpoint that has no /models route
func listingUnsupported(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusNotFound || apiErr.HTTPStatusCode == http.StatusMethodNotAllowed
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusNotFound || reqErr.HTTPStatusCode == http.StatusMethodNotAllowed
	}
	return false
}

// sameModel matches listed ids, Ollama lists untagged models with the ":latest" tag
func sameModel(listed, want string) bool {
	return listed == want || strings.TrimSuffix(listed, ":latest") == want
}

// Analyze asks the model for the market impact of one article. The answer is validated
// strictly; anything off-schema is reported as ErrMalformedResponse, never repaired.
func (c *Client) Analyze(ctx context.Context, req Request) (domain.Analysis, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Temperature: float32(c.config.Temperature),
		MaxTokens:   c.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemMsg},
			{Role: openai.ChatMessageRoleUser, Content: c.buildPrompt(req)},
		},
	}
	if c.config.UseJSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Analysis{}, fmt.Errorf("%w: no choices in response", ErrMalformedResponse)
	}

	content := resp.Choices[0].Message.Content
	lgr.Printf("[DEBUG] llm response for %q: %s", req.Title, content)
	return c.parseResponse(content)
}

// buildPrompt creates the user message for one article
func (c *Client) buildPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString("Headline: ")
	sb.WriteString(strings.TrimSpace(req.Title))
	sb.WriteString("\n")
	if s := strings.TrimSpace(req.Summary); s != "" {
		sb.WriteString("Summary: ")
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	if s := strings.TrimSpace(req.Content); s != "" {
		if r := []rune(s); len(r) > maxContentRunes {
			s = string(r[:maxContentRunes]) + "..."
		}
		sb.WriteString("Article text: ")
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	sb.WriteString("\nRespond with the JSON object only.")
	return sb.String()
}

// analysisResponse is the raw shape of the model answer
type analysisResponse struct {
	ImpactLevel     *string         `json:"impact_level"`
	ImpactScore     json.RawMessage `json:"impact_score"`
	MarketDirection *string         `json:"market_direction"`
	ImpactSummary   *string         `json:"impact_summary"`
	AffectedSectors json.RawMessage `json:"affected_sectors"`
}

// parseResponse decodes and validates the model answer
func (c *Client) parseResponse(content string) (domain.Analysis, error) {
	start, end := strings.Index(content, "{"), strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return domain.Analysis{}, fmt.Errorf("%w: no json object found", ErrMalformedResponse)
	}

	var raw analysisResponse
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return domain.Analysis{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if raw.ImpactLevel == nil || raw.MarketDirection == nil || raw.ImpactSummary == nil {
		return domain.Analysis{}, fmt.Errorf("%w: missing required fields", ErrMalformedResponse)
	}

	score, err := parseScore(raw.ImpactScore)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	sectors, err := parseSectors(raw.AffectedSectors)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	res := domain.Analysis{
		ImpactLevel:     domain.ImpactLevel(strings.ToLower(strings.TrimSpace(*raw.ImpactLevel))),
		ImpactScore:     score,
		MarketDirection: domain.Direction(strings.ToLower(strings.TrimSpace(*raw.MarketDirection))),
		ImpactSummary:   c.cleanText(*raw.ImpactSummary),
		AffectedSectors: sectors,
	}
	if err := res.Validate(); err != nil {
		return domain.Analysis{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return res, nil
}

// parseScore accepts only an integral JSON number, strings and fractions are rejected
func parseScore(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' || string(raw) == "null" {
		return 0, fmt.Errorf("impact_score must be a number, got %s", string(raw))
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var num json.Number
	if err := dec.Decode(&num); err != nil {
		return 0, fmt.Errorf("impact_score is not a number: %w", err)
	}
	v, err := num.Int64()
	if err != nil {
		return 0, fmt.Errorf("impact_score %s is not an integer", num)
	}
	if v < 0 || v > domain.MaxImpactScore {
		return 0, fmt.Errorf("impact_score %d out of range 0-%d", v, domain.MaxImpactScore)
	}
	return int(v), nil
}

// parseSectors accepts a list of strings, a single comma separated string or nothing
func parseSectors(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("affected_sectors: %w", err)
		}
		return domain.ParseSectors(s), nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("affected_sectors must be a list of strings: %w", err)
	}
	return domain.CleanSectors(list), nil
}

// cleanText strips markup from model text and collapses whitespace
func (c *Client) cleanText(s string) string {
	text := html.UnescapeString(c.policy.Sanitize(s))
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > maxSummaryRunes {
		text = string(r[:maxSummaryRunes])
	}
	return text
}

func isLocalHost(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
}
