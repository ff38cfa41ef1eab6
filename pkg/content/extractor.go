package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html/charset"
)

// maxPageBytes caps how much of a page is read
const maxPageBytes = 5 << 20

// HTTPExtractor fetches article pages and extracts their main text with trafilatura
type HTTPExtractor struct {
	client    *http.Client
	userAgent string
}

// NewHTTPExtractor creates a new content extractor
func NewHTTPExtractor(timeout time.Duration, userAgent string) *HTTPExtractor {
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (compatible; Marketscope/1.0)"
	}
	return &HTTPExtractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Extract retrieves the page at urlStr and returns its main text content
func (e *HTTPExtractor) Extract(ctx context.Context, urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", urlStr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	addBrowserHeaders(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch URL %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for URL %s", resp.StatusCode, urlStr)
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		ExcludeTables:   true, // market pages carry quote tables that drown the story text
		IncludeImages:   false,
		IncludeLinks:    false,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	}

	// pages in legacy encodings are converted to utf-8 before extraction
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", urlStr, err)
	}
	page, err := io.ReadAll(io.LimitReader(body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", urlStr, err)
	}

	text, err := extractMain(page, opts)
	if err == nil {
		return text, nil
	}
	// paywalled pages often carry nothing but the description meta
	if desc := metaDescription(page); desc != "" {
		return desc, nil
	}
	return "", fmt.Errorf("extract content from %s: %w", urlStr, err)
}

var errNoText = errors.New("no text content")

func extractMain(page []byte, opts trafilatura.Options) (string, error) {
	result, err := trafilatura.Extract(bytes.NewReader(page), opts)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", errNoText
	}
	text := strings.TrimSpace(result.ContentText)
	if text == "" {
		return "", errNoText
	}
	return text, nil
}

// metaDescription returns the og or plain description of a page, empty if none
func metaDescription(page []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return ""
	}
	for _, sel := range []string{`meta[property="og:description"]`, `meta[name="description"]`} {
		if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
