package feed

import (
	"fmt"
	"strings"
)

// Source is a named feed the fetcher reads from
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DefaultSources returns the curated list of market news feeds used when none are configured
func DefaultSources() []Source {
	return []Source{
		{Name: "CNBC Top News", URL: "https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=100003114"},
		{Name: "CNBC World", URL: "https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=100727362"},
		{Name: "CNBC Economy", URL: "https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=20910258"},
		{Name: "CNBC Finance", URL: "https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=10000664"},
		{Name: "MarketWatch Top Stories", URL: "https://feeds.marketwatch.com/marketwatch/topstories/"},
		{Name: "MarketWatch Markets", URL: "https://feeds.marketwatch.com/marketwatch/marketpulse/"},
		{Name: "Reuters Business", URL: "https://www.reutersagency.com/feed/?best-topics=business-finance&post_type=best"},
		{Name: "Yahoo Finance", URL: "https://finance.yahoo.com/news/rssindex"},
		{Name: "Seeking Alpha Market News", URL: "https://seekingalpha.com/market_currents.xml"},
		{Name: "Seeking Alpha Wall St", URL: "https://seekingalpha.com/tag/wall-st-breakfast.xml"},
		{Name: "Investing.com News", URL: "https://www.investing.com/rss/news.rss"},
		{Name: "WSJ Markets", URL: "https://feeds.a.dj.com/rss/RSSMarketsMain.xml"},
		{Name: "WSJ World", URL: "https://feeds.a.dj.com/rss/RSSWorldNews.xml"},
		{Name: "FT Home", URL: "https://www.ft.com/?format=rss"},
		{Name: "BBC Business", URL: "https://feeds.bbci.co.uk/news/business/rss.xml"},
		{Name: "AP Business", URL: "https://rsshub.app/apnews/topics/business"},
		{Name: "NY Times Business", URL: "https://rss.nytimes.com/services/xml/rss/nyt/Business.xml"},
		{Name: "Bloomberg", URL: "https://feeds.bloomberg.com/markets/news.rss"},
		{Name: "The Economist Finance", URL: "https://www.economist.com/finance-and-economics/rss.xml"},
		{Name: "Barrons", URL: "https://www.barrons.com/feed"},
	}
}

// Registry is the fixed, ordered set of sources for the process lifetime
type Registry struct {
	sources []Source
	byName  map[string]Source
}

// NewRegistry makes a registry from sources, rejecting blank or repeated names and urls
func NewRegistry(sources []Source) (*Registry, error) {
	res := &Registry{sources: make([]Source, 0, len(sources)), byName: make(map[string]Source, len(sources))}
	urls := make(map[string]bool, len(sources))
	for i, s := range sources {
		s.Name, s.URL = strings.TrimSpace(s.Name), strings.TrimSpace(s.URL)
		if s.Name == "" || s.URL == "" {
			return nil, fmt.Errorf("source %d: name and url are required", i)
		}
		if _, ok := res.byName[s.Name]; ok {
			return nil, fmt.Errorf("duplicate source name %q", s.Name)
		}
		if urls[s.URL] {
			return nil, fmt.Errorf("duplicate source url %q", s.URL)
		}
		res.byName[s.Name], urls[s.URL] = s, true
		res.sources = append(res.sources, s)
	}
	return res, nil
}

// Sources returns all registered sources in registration order
func (r *Registry) Sources() []Source {
	res := make([]Source, len(r.sources))
	copy(res, r.sources)
	return res
}

// Names returns source names in registration order
func (r *Registry) Names() []string {
	res := make([]string, 0, len(r.sources))
	for _, s := range r.sources {
		res = append(res, s.Name)
	}
	return res
}

// Lookup finds a source by its exact name
func (r *Registry) Lookup(name string) (Source, bool) {
	s, ok := r.byName[name]
	return s, ok
}
