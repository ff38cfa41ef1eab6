package scheduler

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/analyzer.go -pkg mocks -skip-ensure -fmt goimports . Analyzer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/marketscope/pkg/analyzer"
	"github.com/umputun/marketscope/pkg/domain"
)

// Fetcher runs an ingestion pass over all registered sources
type Fetcher interface {
	FetchAll(ctx context.Context) domain.FetchRun
}

// Analyzer runs one analysis batch
type Analyzer interface {
	RunBatch(ctx context.Context, batchSize int) (domain.AnalysisRun, error)
}

// Params holds scheduler dependencies and intervals
type Params struct {
	Fetcher         Fetcher
	Analyzer        Analyzer
	FetchInterval   time.Duration
	AnalyzeInterval time.Duration
	AnalyzeBatch    int
}

// Scheduler fetches feeds and analyzes pending articles periodically
type Scheduler struct {
	fetcher         Fetcher
	analyzer        Analyzer
	fetchInterval   time.Duration
	analyzeInterval time.Duration
	analyzeBatch    int

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewScheduler creates a new scheduler instance
func NewScheduler(p Params) *Scheduler {
	if p.FetchInterval <= 0 {
		p.FetchInterval = 15 * time.Minute
	}
	if p.AnalyzeInterval <= 0 {
		p.AnalyzeInterval = 5 * time.Minute
	}
	if p.AnalyzeBatch <= 0 {
		p.AnalyzeBatch = 15
	}
	return &Scheduler{
		fetcher:         p.Fetcher,
		analyzer:        p.Analyzer,
		fetchInterval:   p.FetchInterval,
		analyzeInterval: p.AnalyzeInterval,
		analyzeBatch:    p.AnalyzeBatch,
	}
}

// Start begins the scheduler. Fetch runs right away, analysis on its first tick.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.fetchWorker(ctx)

	if s.analyzer != nil {
		s.wg.Add(1)
		go s.analyzeWorker(ctx)
	}

	lgr.Printf("[INFO] scheduler started, fetch every %v, analyze every %v (batch %d)",
		s.fetchInterval, s.analyzeInterval, s.analyzeBatch)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

func (s *Scheduler) fetchWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.fetchInterval)
	defer ticker.Stop()

	s.fetch(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fetch(ctx)
		}
	}
}

func (s *Scheduler) analyzeWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.analyzeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.analyze(ctx)
		}
	}
}

func (s *Scheduler) fetch(ctx context.Context) {
	run := s.fetcher.FetchAll(ctx)
	lgr.Printf("[INFO] scheduled fetch done: %d fetched, %d new, %d duplicates, %d errors",
		run.TotalFetched, run.NewArticles, run.Duplicates, run.Errors)
}

func (s *Scheduler) analyze(ctx context.Context) {
	run, err := s.analyzer.RunBatch(ctx, s.analyzeBatch)
	if err != nil {
		var se *analyzer.SystemicError
		switch {
		case errors.As(err, &se):
			lgr.Printf("[WARN] skipping scheduled analysis: %s, %s", se.Message, se.Fix)
		case ctx.Err() != nil:
			lgr.Printf("[DEBUG] scheduled analysis interrupted: %v", err)
		default:
			lgr.Printf("[ERROR] scheduled analysis failed: %v", err)
		}
		return
	}
	lgr.Printf("[INFO] scheduled analysis done: %d analyzed, %d failed, %d total", run.Analyzed, run.Failed, run.Total)
}
