package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/umputun/marketscope/pkg/domain"
	"github.com/umputun/marketscope/pkg/feed"
	"github.com/umputun/marketscope/pkg/market"
)

const (
	defaultMinScore = 50
	defaultRSSLimit = 100
)

// rssHandler serves an RSS digest of analyzed articles.
// Supports both /rss/{sector} and /rss?sector=... patterns
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	sector := r.PathValue("sector")
	if sector == "" {
		sector = r.URL.Query().Get("sector")
	}
	sector = strings.ToLower(strings.TrimSpace(sector))

	label := ""
	if sector != "" {
		b, ok := market.LookupBucket(sector)
		if !ok {
			http.Error(w, fmt.Sprintf("unknown sector %q", sector), http.StatusNotFound)
			return
		}
		label = b.Label
	}

	minScore, err := intParam(r.URL.Query().Get("min_score"), defaultMinScore, 0, domain.MaxImpactScore)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid min_score: %v", err), http.StatusBadRequest)
		return
	}

	articles, err := s.aggregator.SectorArticles(r.Context(), sector, minScore, defaultRSSLimit)
	if err != nil {
		log.Printf("[ERROR] failed to get articles for RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	rss, err := feed.NewGenerator(s.config.GetBaseURL()).GenerateRSS(articles, sector, label, minScore)
	if err != nil {
		log.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		log.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}

// opmlHandler exports registered sources as OPML, GET /opml
func (s *Server) opmlHandler(w http.ResponseWriter, _ *http.Request) {
	opml, err := feed.NewGenerator(s.config.GetBaseURL()).GenerateOPML(s.registry.Sources())
	if err != nil {
		log.Printf("[ERROR] failed to generate OPML: %v", err)
		http.Error(w, "Failed to generate OPML", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/x-opml; charset=utf-8")
	if _, err := w.Write([]byte(opml)); err != nil {
		log.Printf("[ERROR] failed to write OPML response: %v", err)
	}
}
