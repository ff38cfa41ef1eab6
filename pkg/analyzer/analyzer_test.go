package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/marketscope/pkg/analyzer/mocks"
	"github.com/umputun/marketscope/pkg/domain"
	"github.com/umputun/marketscope/pkg/llm"
	"github.com/umputun/marketscope/pkg/repository"
)

var (
	errUnreachable  = fmt.Errorf("llm request failed: %w", &net.OpError{Op: "dial", Err: errors.New("connection refused")})
	errUnauthorized = fmt.Errorf("llm request failed: %w", &openai.APIError{HTTPStatusCode: 401, Message: "bad key"})
	errTimeout      = fmt.Errorf("llm request failed: %w", context.DeadlineExceeded)
	errMalformed    = fmt.Errorf("%w: impact_score 150 out of range 0-100", llm.ErrMalformedResponse)
)

func validAnalysis() domain.Analysis {
	return domain.Analysis{ImpactLevel: domain.ImpactHigh, ImpactScore: 80, MarketDirection: domain.DirectionBullish,
		ImpactSummary: "Strong demand lifts chipmakers.", AffectedSectors: []string{"Technology"}}
}

func testArticles(n int) []domain.Article {
	res := make([]domain.Article, n)
	for i := range res {
		res[i] = domain.Article{ID: int64(i + 1), Title: fmt.Sprintf("story %d", i+1),
			URL: fmt.Sprintf("https://example.com/%d", i+1), Summary: strings.Repeat("text ", 50)}
	}
	return res
}

func storeMock(articles []domain.Article) *mocks.StoreMock {
	return &mocks.StoreMock{
		UnanalyzedFunc:   func(context.Context, int) ([]domain.Article, error) { return articles, nil },
		MarkAnalyzedFunc: func(context.Context, int64, domain.Analysis) error { return nil },
	}
}

// llmMock answers per article title, unknown titles get a valid analysis
func llmMock(errs map[string]error) *mocks.LLMMock {
	return &mocks.LLMMock{
		CheckFunc: func(context.Context) error { return nil },
		AnalyzeFunc: func(_ context.Context, req llm.Request) (domain.Analysis, error) {
			if err, ok := errs[req.Title]; ok {
				return domain.Analysis{}, err
			}
			return validAnalysis(), nil
		},
		RemediationFunc: func(err error) string { return "fix: " + llm.Kind(err).String() },
	}
}

func TestAnalyzer_RunBatch(t *testing.T) {
	store := storeMock(testArticles(3))
	lm := llmMock(map[string]error{"story 2": errMalformed})
	a := New(Config{Store: store, LLM: lm})

	run, err := a.RunBatch(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisRun{Analyzed: 2, Total: 3, Failed: 1}, run)

	require.Len(t, store.UnanalyzedCalls(), 1)
	assert.Equal(t, 20, store.UnanalyzedCalls()[0].Limit)
	require.Len(t, store.MarkAnalyzedCalls(), 2)
	assert.Equal(t, int64(1), store.MarkAnalyzedCalls()[0].Id)
	assert.Equal(t, int64(3), store.MarkAnalyzedCalls()[1].Id)
	assert.Equal(t, validAnalysis(), store.MarkAnalyzedCalls()[0].A)
	assert.Len(t, lm.AnalyzeCalls(), 3)
}

func TestAnalyzer_RunBatchEmpty(t *testing.T) {
	a := New(Config{Store: storeMock(nil), LLM: llmMock(nil)})
	run, err := a.RunBatch(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisRun{}, run)
}

func TestAnalyzer_RunBatchSystemic(t *testing.T) {
	t.Run("not ready", func(t *testing.T) {
		store := storeMock(testArticles(2))
		lm := llmMock(nil)
		lm.CheckFunc = func(context.Context) error { return fmt.Errorf("%w: api key is not set for api.groq.com", llm.ErrNotConfigured) }
		run, err := New(Config{Store: store, LLM: lm}).RunBatch(context.Background(), 20)
		require.Error(t, err)

		var se *SystemicError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "LLM analysis unavailable: not configured", se.Message)
		assert.Equal(t, "fix: not configured", se.Fix)
		assert.ErrorIs(t, err, llm.ErrNotConfigured)
		assert.Equal(t, domain.AnalysisRun{}, run)
		assert.Empty(t, store.UnanalyzedCalls(), "no items touched")
		assert.Empty(t, lm.AnalyzeCalls())
	})

	t.Run("backend down before any item", func(t *testing.T) {
		store := storeMock(testArticles(2))
		lm := llmMock(nil)
		lm.CheckFunc = func(context.Context) error { return fmt.Errorf("list models: %w", errUnreachable) }
		_, err := New(Config{Store: store, LLM: lm}).RunBatch(context.Background(), 20)
		var se *SystemicError
		require.True(t, errors.As(err, &se), "got %T", err)
		assert.Equal(t, "LLM analysis unavailable: unreachable", se.Message)
		assert.Empty(t, store.UnanalyzedCalls())
		assert.Empty(t, lm.AnalyzeCalls())
	})

	t.Run("model not pulled", func(t *testing.T) {
		store := storeMock(testArticles(2))
		lm := llmMock(nil)
		lm.CheckFunc = func(context.Context) error { return fmt.Errorf("%w: llama3.1:8b", llm.ErrModelMissing) }
		_, err := New(Config{Store: store, LLM: lm}).RunBatch(context.Background(), 20)
		var se *SystemicError
		require.True(t, errors.As(err, &se), "got %T", err)
		assert.Equal(t, "LLM analysis unavailable: model missing", se.Message)
		assert.Empty(t, lm.AnalyzeCalls())
	})

	tests := []struct {
		name       string
		errs       map[string]error
		wantCalls  int
		wantMarked int
	}{
		{"unreachable on first call", map[string]error{"story 1": errUnreachable}, 1, 0},
		{"timeout on first call", map[string]error{"story 1": errTimeout}, 1, 0},
		{"unauthorized later", map[string]error{"story 2": errUnauthorized}, 2, 1},
		{"model missing later", map[string]error{"story 3": &openai.APIError{HTTPStatusCode: 404}}, 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storeMock(testArticles(3))
			lm := llmMock(tt.errs)
			run, err := New(Config{Store: store, LLM: lm}).RunBatch(context.Background(), 20)
			require.Error(t, err)
			var se *SystemicError
			require.True(t, errors.As(err, &se), "got %T", err)
			assert.NotEmpty(t, se.Fix)
			assert.Equal(t, domain.AnalysisRun{}, run, "no partial tally")
			assert.Len(t, lm.AnalyzeCalls(), tt.wantCalls)
			assert.Len(t, store.MarkAnalyzedCalls(), tt.wantMarked)
		})
	}
}

func TestAnalyzer_RunBatchTransportLaterIsPerItem(t *testing.T) {
	store := storeMock(testArticles(3))
	lm := llmMock(map[string]error{"story 2": errTimeout, "story 3": errUnreachable})
	run, err := New(Config{Store: store, LLM: lm}).RunBatch(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisRun{Analyzed: 1, Total: 3, Failed: 2}, run)
}

func TestAnalyzer_RunBatchStoreErrors(t *testing.T) {
	store := storeMock(testArticles(3))
	store.MarkAnalyzedFunc = func(_ context.Context, id int64, _ domain.Analysis) error {
		switch id {
		case 1:
			return fmt.Errorf("mark article 1 analyzed: %w", domain.ErrAlreadyAnalyzed)
		case 2:
			return errors.New("disk I/O error")
		}
		return nil
	}
	run, err := New(Config{Store: store, LLM: llmMock(nil)}).RunBatch(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisRun{Analyzed: 1, Total: 3, Failed: 1}, run, "already analyzed is skipped, not failed")

	t.Run("unanalyzed query fails", func(t *testing.T) {
		store := storeMock(nil)
		store.UnanalyzedFunc = func(context.Context, int) ([]domain.Article, error) { return nil, errors.New("db closed") }
		_, err := New(Config{Store: store, LLM: llmMock(nil)}).RunBatch(context.Background(), 20)
		require.Error(t, err)
		var se *SystemicError
		assert.False(t, errors.As(err, &se))
		assert.Contains(t, err.Error(), "db closed")
	})
}

func TestAnalyzer_RunBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := storeMock(testArticles(3))
	lm := llmMock(nil)
	lm.AnalyzeFunc = func(context.Context, llm.Request) (domain.Analysis, error) {
		cancel()
		return validAnalysis(), nil
	}
	run, err := New(Config{Store: store, LLM: lm}).RunBatch(ctx, 20)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.AnalysisRun{Analyzed: 1, Total: 3}, run)
}

func TestAnalyzer_Enrichment(t *testing.T) {
	articles := testArticles(3)
	articles[0].Summary = "short"
	articles[1].Summary = ""
	ext := &mocks.ExtractorMock{ExtractFunc: func(_ context.Context, url string) (string, error) {
		if url == "https://example.com/2" {
			return "", errors.New("403")
		}
		return "full text of " + url, nil
	}}
	lm := llmMock(nil)
	a := New(Config{Store: storeMock(articles), LLM: lm, Extractor: ext, MinTextLength: 100})

	run, err := a.RunBatch(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, 3, run.Analyzed)

	require.Len(t, ext.ExtractCalls(), 2, "long summary is not enriched")
	assert.Equal(t, "https://example.com/1", ext.ExtractCalls()[0].Url)
	assert.Equal(t, "https://example.com/2", ext.ExtractCalls()[1].Url)

	calls := lm.AnalyzeCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, llm.Request{Title: "story 1", Summary: "short", Content: "full text of https://example.com/1"}, calls[0].Req)
	assert.Equal(t, llm.Request{Title: "story 2"}, calls[1].Req, "extraction failure falls back to summary")
	assert.Empty(t, calls[2].Req.Content)
}

func TestAnalyzer_BatchesSerialized(t *testing.T) {
	var inFlight, maxInFlight int32
	lm := llmMock(nil)
	lm.AnalyzeFunc = func(context.Context, llm.Request) (domain.Analysis, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			m := atomic.LoadInt32(&maxInFlight)
			if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return validAnalysis(), nil
	}
	a := New(Config{Store: storeMock(testArticles(2)), LLM: lm})

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.RunBatch(context.Background(), 20)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight))
	assert.Len(t, lm.AnalyzeCalls(), 8)
}

func TestAnalyzer_WithRepository(t *testing.T) {
	ctx := context.Background()
	repos, err := repository.NewRepositories(ctx, repository.Config{DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	defer repos.Close()

	older := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, title := range []string{"Fed holds rates", "Chip rally"} {
		_, err := repos.Article.Upsert(ctx, domain.Candidate{URL: fmt.Sprintf("https://example.com/n%d", i), Title: title,
			Source: "CNBC", Summary: "summary", PublishedAt: older.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	lm := llmMock(map[string]error{"Chip rally": errMalformed})
	a := New(Config{Store: repos.Article, LLM: lm})

	run, err := a.RunBatch(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisRun{Analyzed: 1, Total: 2, Failed: 1}, run)
	assert.Equal(t, "Fed holds rates", lm.AnalyzeCalls()[0].Req.Title, "oldest published first")

	stats, err := repos.Article.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{Total: 2, Analyzed: 1, HighImpact: 1}, stats)

	// the failed one is retried by the next batch
	lm.AnalyzeFunc = func(context.Context, llm.Request) (domain.Analysis, error) { return validAnalysis(), nil }
	run, err = a.RunBatch(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisRun{Analyzed: 1, Total: 1}, run)
}

func TestShortTitle(t *testing.T) {
	assert.Equal(t, "short", shortTitle("short"))
	long := strings.Repeat("a", 100)
	got := shortTitle(long)
	assert.Len(t, got, logTitleWidth)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len([]rune(shortTitle(strings.Repeat("市", 50)))), logTitleWidth/2+3)
}
