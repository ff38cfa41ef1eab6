// Package analyzer runs batches of unanalyzed articles through the LLM and stores the results.
package analyzer

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/llm.go -pkg mocks -skip-ensure -fmt goimports . LLM
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-pkgz/lgr"
	"github.com/mattn/go-runewidth"

	"github.com/umputun/marketscope/pkg/domain"
	"github.com/umputun/marketscope/pkg/llm"
)

const logTitleWidth = 60

// Store is the part of the article store the analyzer needs
type Store interface {
	Unanalyzed(ctx context.Context, limit int) ([]domain.Article, error)
	MarkAnalyzed(ctx context.Context, id int64, a domain.Analysis) error
}

// LLM produces an analysis for a single article
type LLM interface {
	Check(ctx context.Context) error
	Analyze(ctx context.Context, req llm.Request) (domain.Analysis, error)
	Remediation(err error) string
}

// Extractor fetches the main text of an article page
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// SystemicError aborts a whole batch. Message and Fix are safe to show to users.
type SystemicError struct {
	Message string
	Fix     string
	Err     error
}

func (e *SystemicError) Error() string { return e.Message }

func (e *SystemicError) Unwrap() error { return e.Err }

// Config holds analyzer dependencies and settings
type Config struct {
	Store         Store
	LLM           LLM
	Extractor     Extractor // optional, enables content enrichment
	MinTextLength int       // summaries shorter than this get enriched
}

// Analyzer runs analysis batches, one at a time per process
type Analyzer struct {
	store         Store
	llm           LLM
	extractor     Extractor
	minTextLength int
	mu            sync.Mutex
}

// New creates an analyzer
func New(cfg Config) *Analyzer {
	return &Analyzer{
		store:         cfg.Store,
		llm:           cfg.LLM,
		extractor:     cfg.Extractor,
		minTextLength: cfg.MinTextLength,
	}
}

// RunBatch analyzes up to batchSize unanalyzed articles, oldest first. Failures of single
// items are counted and the article stays unanalyzed. Systemic failures (bad credentials,
// missing model, backend down on the first call) return *SystemicError and no tally.
func (a *Analyzer) RunBatch(ctx context.Context, batchSize int) (domain.AnalysisRun, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// backend down or model not pulled fails the batch before any item is touched
	if err := a.llm.Check(ctx); err != nil {
		return domain.AnalysisRun{}, a.systemic(err)
	}

	articles, err := a.store.Unanalyzed(ctx, batchSize)
	if err != nil {
		return domain.AnalysisRun{}, fmt.Errorf("get unanalyzed articles: %w", err)
	}

	run := domain.AnalysisRun{Total: len(articles)}
	for i, art := range articles {
		if err := ctx.Err(); err != nil {
			return run, fmt.Errorf("analysis interrupted: %w", err)
		}

		res, err := a.llm.Analyze(ctx, a.request(ctx, art))
		if err != nil {
			if isSystemic(err, i == 0) {
				return domain.AnalysisRun{}, a.systemic(err)
			}
			lgr.Printf("[WARN] failed to analyze article %d %q: %v", art.ID, shortTitle(art.Title), err)
			run.Failed++
			continue
		}

		if err := a.store.MarkAnalyzed(ctx, art.ID, res); err != nil {
			if errors.Is(err, domain.ErrAlreadyAnalyzed) {
				lgr.Printf("[DEBUG] article %d already analyzed, skipped", art.ID)
				continue
			}
			lgr.Printf("[WARN] failed to store analysis for article %d: %v", art.ID, err)
			run.Failed++
			continue
		}

		run.Analyzed++
		lgr.Printf("[DEBUG] analyzed %q: %s %d %s", shortTitle(art.Title), res.ImpactLevel, res.ImpactScore, res.MarketDirection)
	}

	lgr.Printf("[INFO] analysis batch done: %d analyzed, %d failed, %d total", run.Analyzed, run.Failed, run.Total)
	return run, nil
}

// request builds the llm input, enriching thin summaries with extracted page text
func (a *Analyzer) request(ctx context.Context, art domain.Article) llm.Request {
	req := llm.Request{Title: art.Title, Summary: art.Summary}
	if a.extractor == nil || utf8.RuneCountInString(strings.TrimSpace(art.Summary)) >= a.minTextLength {
		return req
	}

	text, err := a.extractor.Extract(ctx, art.URL)
	if err != nil {
		lgr.Printf("[DEBUG] content extraction failed for %s: %v", art.URL, err)
		return req
	}
	req.Content = text
	return req
}

func (a *Analyzer) systemic(err error) *SystemicError {
	kind := llm.Kind(err)
	lgr.Printf("[WARN] analysis aborted, llm %s: %v", kind, err)
	return &SystemicError{
		Message: "LLM analysis unavailable: " + kind.String(),
		Fix:     a.llm.Remediation(err),
		Err:     err,
	}
}

// isSystemic tells whether an analyze error should abort the batch. Configuration and
// credential problems abort at any point, transport problems only on the first call.
func isSystemic(err error, first bool) bool {
	switch llm.Kind(err) {
	case llm.KindUnauthorized, llm.KindModelMissing, llm.KindNotConfigured:
		return true
	case llm.KindUnreachable, llm.KindTimeout:
		return first
	default:
		return false
	}
}

func shortTitle(s string) string {
	return runewidth.Truncate(s, logTitleWidth, "...")
}
