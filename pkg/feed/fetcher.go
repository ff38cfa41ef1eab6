package feed

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/marketscope/pkg/domain"
)

//go:generate moq -out mocks/article_store.go -pkg mocks -skip-ensure -fmt goimports . ArticleStore

// maxSummaryRunes caps the stored summary length
const maxSummaryRunes = 1000

// EntryParser reads the entries of a feed
type EntryParser interface {
	Parse(ctx context.Context, url string) ([]Entry, error)
}

// ArticleStore stores candidates, deduplicating them by canonical url
type ArticleStore interface {
	Upsert(ctx context.Context, c domain.Candidate) (domain.UpsertResult, error)
}

// Fetcher runs ingestion passes over the registered sources
type Fetcher struct {
	registry   *Registry
	parser     EntryParser
	store      ArticleStore
	maxWorkers int
	now        func() time.Time
	policy     *bluemonday.Policy
}

// FetcherConfig holds dependencies and settings of Fetcher
type FetcherConfig struct {
	Registry   *Registry
	Parser     EntryParser
	Store      ArticleStore
	MaxWorkers int
}

// NewFetcher makes a fetcher; max workers default to 1 when unset
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = 1
	}
	return &Fetcher{
		registry:   cfg.Registry,
		parser:     cfg.Parser,
		store:      cfg.Store,
		maxWorkers: cfg.MaxWorkers,
		now:        time.Now,
		policy:     bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true),
	}
}

// FetchAll fetches every registered source concurrently. A failing source is counted in
// errors and never aborts the run; each source gets a single attempt.
func (f *Fetcher) FetchAll(ctx context.Context) domain.FetchRun {
	var (
		mu  sync.Mutex
		res domain.FetchRun
	)

	var g errgroup.Group
	g.SetLimit(f.maxWorkers)
	for _, src := range f.registry.Sources() {
		g.Go(func() error {
			run := f.fetchSource(ctx, src)
			mu.Lock()
			res.Add(run)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	lgr.Printf("[INFO] fetch complete: %d fetched, %d new, %d duplicates, %d errors",
		res.TotalFetched, res.NewArticles, res.Duplicates, res.Errors)
	return res
}

// FetchSource fetches one registered source by name
func (f *Fetcher) FetchSource(ctx context.Context, name string) (domain.FetchRun, error) {
	src, ok := f.registry.Lookup(name)
	if !ok {
		return domain.FetchRun{}, fmt.Errorf("unknown feed %q", name)
	}
	return f.fetchSource(ctx, src), nil
}

// fetchSource parses one source and upserts its entries in feed order
func (f *Fetcher) fetchSource(ctx context.Context, src Source) domain.FetchRun {
	var res domain.FetchRun

	entries, err := f.parser.Parse(ctx, src.URL)
	if err != nil {
		lgr.Printf("[WARN] failed to fetch feed %s (%s): %v", src.Name, src.URL, err)
		res.Errors++
		return res
	}

	for _, e := range entries {
		c, ok := f.candidate(src, e)
		if !ok {
			continue
		}
		res.TotalFetched++
		status, err := f.store.Upsert(ctx, c)
		if err != nil {
			lgr.Printf("[WARN] failed to store article %s from %s: %v", c.URL, src.Name, err)
			res.Errors++
			continue
		}
		switch status {
		case domain.Inserted:
			res.NewArticles++
		case domain.Duplicate:
			res.Duplicates++
		}
	}

	lgr.Printf("[DEBUG] feed %s: %d entries, %d new, %d duplicates", src.Name, res.TotalFetched, res.NewArticles, res.Duplicates)
	return res
}

// candidate normalizes a feed entry, entries without title or link are skipped
func (f *Fetcher) candidate(src Source, e Entry) (domain.Candidate, bool) {
	title := strings.TrimSpace(html.UnescapeString(e.Title))
	link := strings.TrimSpace(e.Link)
	if title == "" || link == "" {
		return domain.Candidate{}, false
	}

	summary := e.Description
	if strings.TrimSpace(summary) == "" {
		summary = e.Content
	}

	published := f.now()
	switch {
	case e.Published != nil && !e.Published.IsZero():
		published = *e.Published
	case e.Updated != nil && !e.Updated.IsZero():
		published = *e.Updated
	}

	return domain.Candidate{
		URL:         link,
		Title:       title,
		Source:      src.Name,
		Summary:     f.cleanText(summary),
		PublishedAt: published.UTC(),
	}, true
}

// cleanText strips markup, unescapes entities, collapses whitespace and truncates to maxSummaryRunes
func (f *Fetcher) cleanText(s string) string {
	if s == "" {
		return ""
	}
	text := html.UnescapeString(f.policy.Sanitize(s))
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > maxSummaryRunes {
		text = strings.TrimSpace(string(r[:maxSummaryRunes]))
	}
	return text
}
