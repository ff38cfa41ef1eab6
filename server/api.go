package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/umputun/marketscope/pkg/analyzer"
	"github.com/umputun/marketscope/pkg/domain"
	"github.com/umputun/marketscope/pkg/repository"
)

const (
	defaultArticlesLimit = 100
	maxArticlesLimit     = 500
	defaultBatchSize     = 20
	maxBatchSize         = 100
	maxSinceHours        = 24 * 365 * 10
)

// articleJSON is the wire form of an article
type articleJSON struct {
	ID              int64      `json:"id"`
	URL             string     `json:"url"`
	Title           string     `json:"title"`
	Source          string     `json:"source"`
	Summary         string     `json:"summary"`
	PublishedAt     time.Time  `json:"published_at"`
	FetchedAt       time.Time  `json:"fetched_at"`
	ImpactLevel     string     `json:"impact_level"`
	ImpactScore     int        `json:"impact_score"`
	MarketDirection string     `json:"market_direction"`
	ImpactSummary   *string    `json:"impact_summary"`
	AffectedSectors string     `json:"affected_sectors"` // JSON array encoded as a string
	AnalyzedAt      *time.Time `json:"analyzed_at"`
}

// driverJSON is a top driver entry of the market summary
type driverJSON struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	Source          string    `json:"source"`
	PublishedAt     time.Time `json:"published_at"`
	ImpactScore     int       `json:"impact_score"`
	ImpactLevel     string    `json:"impact_level"`
	ImpactSummary   string    `json:"impact_summary"`
	MarketDirection string    `json:"market_direction"`
}

// summaryJSON replaces the drivers of domain.MarketSummary with their wire form
type summaryJSON struct {
	domain.MarketSummary
	TopDrivers []driverJSON `json:"top_drivers"`
}

func toArticleJSON(a domain.Article) articleJSON {
	res := articleJSON{
		ID:              a.ID,
		URL:             a.URL,
		Title:           a.Title,
		Source:          a.Source,
		Summary:         a.Summary,
		PublishedAt:     a.PublishedAt,
		FetchedAt:       a.FetchedAt,
		ImpactLevel:     string(a.ImpactLevel),
		ImpactScore:     a.ImpactScore,
		MarketDirection: string(a.MarketDirection),
		AffectedSectors: encodeSectors(a.AffectedSectors),
		AnalyzedAt:      a.AnalyzedAt,
	}
	if a.Analyzed() {
		summary := a.ImpactSummary
		res.ImpactSummary = &summary
	}
	return res
}

func encodeSectors(sectors []string) string {
	if len(sectors) == 0 {
		return "[]"
	}
	data, err := json.Marshal(sectors)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// articlesHandler lists articles, GET /api/articles
func (s *Server) articlesHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseArticleFilter(r)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	articles, err := s.store.Query(r.Context(), filter)
	if err != nil {
		renderInternalError(w, r, "failed to load articles", err)
		return
	}

	res := make([]articleJSON, 0, len(articles))
	for _, a := range articles {
		res = append(res, toArticleJSON(a))
	}
	renderJSON(w, r, http.StatusOK, res)
}

// parseArticleFilter validates listing query params
func parseArticleFilter(r *http.Request) (domain.ArticleFilter, error) {
	q := r.URL.Query()
	res := domain.ArticleFilter{
		ImpactLevel: domain.FilterAll,
		Source:      domain.FilterAll,
		SortBy:      "published_at",
		SortOrder:   "DESC",
		Limit:       defaultArticlesLimit,
	}

	if v := q.Get("impact_level"); v != "" && v != domain.FilterAll {
		if !domain.ImpactLevel(v).Valid() {
			return res, fmt.Errorf("invalid impact_level %q", v)
		}
		res.ImpactLevel = v
	}
	if v := q.Get("source"); v != "" {
		res.Source = v
	}
	if v := q.Get("sort_by"); v != "" {
		if !contains(repository.SortFields, v) {
			return res, fmt.Errorf("invalid sort_by %q, expected one of %s", v, strings.Join(repository.SortFields, ", "))
		}
		res.SortBy = v
	}
	if v := q.Get("sort_order"); v != "" {
		v = strings.ToUpper(v)
		if v != "ASC" && v != "DESC" {
			return res, fmt.Errorf("invalid sort_order %q, expected ASC or DESC", q.Get("sort_order"))
		}
		res.SortOrder = v
	}

	limit, err := intParam(q.Get("limit"), defaultArticlesLimit, 1, maxArticlesLimit)
	if err != nil {
		return res, fmt.Errorf("invalid limit: %w", err)
	}
	res.Limit = limit

	offset, err := intParam(q.Get("offset"), 0, 0, -1)
	if err != nil {
		return res, fmt.Errorf("invalid offset: %w", err)
	}
	res.Offset = offset
	return res, nil
}

// articleHandler returns one article, GET /api/articles/{id}
func (s *Server) articleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		renderError(w, r, fmt.Errorf("invalid article ID"), http.StatusBadRequest)
		return
	}

	article, err := s.store.GetArticle(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			renderError(w, r, domain.ErrNotFound, http.StatusNotFound)
			return
		}
		renderInternalError(w, r, "failed to load article", err)
		return
	}
	renderJSON(w, r, http.StatusOK, toArticleJSON(*article))
}

// statsHandler returns counts by impact level, GET /api/stats
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.aggregator.Stats(r.Context())
	if err != nil {
		renderInternalError(w, r, "failed to load stats", err)
		return
	}
	renderJSON(w, r, http.StatusOK, stats)
}

// sourcesHandler returns distinct stored source names, GET /api/sources
func (s *Server) sourcesHandler(w http.ResponseWriter, r *http.Request) {
	sources, err := s.store.Sources(r.Context())
	if err != nil {
		renderInternalError(w, r, "failed to load sources", err)
		return
	}
	renderJSON(w, r, http.StatusOK, sources)
}

// feedsHandler returns registered feed sources, GET /api/feeds
func (s *Server) feedsHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, s.registry.Sources())
}

// fetchHandler runs an ingestion pass, POST /api/fetch[?source=name]
func (s *Server) fetchHandler(w http.ResponseWriter, r *http.Request) {
	// a dropped client must not interrupt the run
	ctx := context.WithoutCancel(r.Context())

	source := strings.TrimSpace(r.URL.Query().Get("source"))
	if source == "" {
		renderJSON(w, r, http.StatusOK, s.fetcher.FetchAll(ctx))
		return
	}

	if !contains(s.registry.Names(), source) {
		renderError(w, r, fmt.Errorf("unknown feed %q", source), http.StatusBadRequest)
		return
	}
	run, err := s.fetcher.FetchSource(ctx, source)
	if err != nil {
		renderInternalError(w, r, "fetch failed", err)
		return
	}
	renderJSON(w, r, http.StatusOK, run)
}

// analyzeHandler runs one analysis batch, POST /api/analyze?batch_size=N
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	batchSize, err := intParam(r.URL.Query().Get("batch_size"), defaultBatchSize, 1, maxBatchSize)
	if err != nil {
		renderError(w, r, fmt.Errorf("invalid batch_size: %w", err), http.StatusBadRequest)
		return
	}

	run, err := s.analyzer.RunBatch(context.WithoutCancel(r.Context()), batchSize)
	if err != nil {
		var se *analyzer.SystemicError
		if errors.As(err, &se) {
			renderJSON(w, r, http.StatusServiceUnavailable, map[string]string{"error": se.Message, "fix": se.Fix})
			return
		}
		renderInternalError(w, r, "analysis failed", err)
		return
	}
	renderJSON(w, r, http.StatusOK, run)
}

// marketSummaryHandler returns the market summary, GET /api/market-summary[?since_hours=N]
func (s *Server) marketSummaryHandler(w http.ResponseWriter, r *http.Request) {
	hours, err := intParam(r.URL.Query().Get("since_hours"), 0, 1, maxSinceHours)
	if err != nil {
		renderError(w, r, fmt.Errorf("invalid since_hours: %w", err), http.StatusBadRequest)
		return
	}
	var since time.Time
	if hours > 0 {
		since = time.Now().Add(-time.Duration(hours) * time.Hour)
	}

	summary, err := s.aggregator.MarketSummary(r.Context(), since)
	if err != nil {
		renderInternalError(w, r, "failed to build market summary", err)
		return
	}

	res := summaryJSON{MarketSummary: summary, TopDrivers: make([]driverJSON, 0, len(summary.TopDrivers))}
	for _, a := range summary.TopDrivers {
		res.TopDrivers = append(res.TopDrivers, driverJSON{ID: a.ID, Title: a.Title, URL: a.URL, Source: a.Source,
			PublishedAt: a.PublishedAt, ImpactScore: a.ImpactScore, ImpactLevel: string(a.ImpactLevel),
			ImpactSummary: a.ImpactSummary, MarketDirection: string(a.MarketDirection)})
	}
	renderJSON(w, r, http.StatusOK, res)
}

// healthHandler reports service state, GET /api/health
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	llmErr := s.llm.Check(r.Context())
	if llmErr != nil {
		log.Printf("[DEBUG] llm not available: %v", llmErr)
	}

	stats, err := s.aggregator.Stats(r.Context())
	if err != nil {
		log.Printf("[ERROR] health check failed: %v", err)
		renderJSON(w, r, http.StatusServiceUnavailable, map[string]any{"status": "error", "llm_available": llmErr == nil})
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]any{"status": "ok", "llm_available": llmErr == nil,
		"articles": stats.Total, "version": s.version})
}

// intParam parses an optional integer query value within [minVal, maxVal], maxVal < 0 means no upper bound
func intParam(raw string, def, minVal, maxVal int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	if v < minVal || (maxVal >= 0 && v > maxVal) {
		if maxVal < 0 {
			return 0, fmt.Errorf("%d is below %d", v, minVal)
		}
		return 0, fmt.Errorf("%d is out of range %d-%d", v, minVal, maxVal)
	}
	return v, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
