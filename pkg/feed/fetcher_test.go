package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/marketscope/pkg/domain"
	"github.com/umputun/marketscope/pkg/feed/mocks"
	"github.com/umputun/marketscope/pkg/repository"
)

// feedServer serves testRSS at /good, a copy of its first item at /overlap and fails at /broken
func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	overlap := `<?xml version="1.0"?><rss version="2.0"><channel><title>Overlap</title>
<item><title>Fed holds rates steady</title><link>https://www.example.com/fed-holds?utm_source=rss</link></item>
<item><title></title><link>https://example.com/untitled</link></item>
<item><title>No link here</title></item>
</channel></rss>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good":
			_, _ = w.Write([]byte(testRSS))
		case "/overlap":
			_, _ = w.Write([]byte(overlap))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestRegistry(t *testing.T, srv *httptest.Server, paths ...string) *Registry {
	t.Helper()
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		sources = append(sources, Source{Name: strings.TrimPrefix(p, "/"), URL: srv.URL + p})
	}
	reg, err := NewRegistry(sources)
	require.NoError(t, err)
	return reg
}

func TestFetcher_FetchAll(t *testing.T) {
	srv := feedServer(t)
	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	defer repos.Close()

	fetcher := NewFetcher(FetcherConfig{
		Registry:   newTestRegistry(t, srv, "/good", "/overlap", "/broken"),
		Parser:     NewParser(5*time.Second, "test"),
		Store:      repos.Article,
		MaxWorkers: 1, // sources in registration order, so the first copy of a story wins
	})

	run := fetcher.FetchAll(context.Background())
	assert.Equal(t, domain.FetchRun{TotalFetched: 3, NewArticles: 2, Duplicates: 1, Errors: 1}, run)

	t.Run("second run finds only duplicates", func(t *testing.T) {
		run := fetcher.FetchAll(context.Background())
		assert.Equal(t, domain.FetchRun{TotalFetched: 3, NewArticles: 0, Duplicates: 3, Errors: 1}, run)
	})

	t.Run("stored articles are cleaned", func(t *testing.T) {
		articles, err := repos.Article.Query(context.Background(), domain.ArticleFilter{SortOrder: "ASC"})
		require.NoError(t, err)
		require.Len(t, articles, 2)
		var fed domain.Article
		for _, a := range articles {
			if a.Title == "Fed holds rates steady" {
				fed = a
			}
		}
		assert.Equal(t, "The Federal Reserve held rates.", fed.Summary)
		assert.Equal(t, time.Date(2024, 1, 2, 20, 4, 5, 0, time.UTC), fed.PublishedAt)
	})
}

func TestFetcher_FetchSource(t *testing.T) {
	srv := feedServer(t)
	store := &mocks.ArticleStoreMock{
		UpsertFunc: func(ctx context.Context, c domain.Candidate) (domain.UpsertResult, error) {
			return domain.Inserted, nil
		},
	}
	fetcher := NewFetcher(FetcherConfig{
		Registry: newTestRegistry(t, srv, "/good", "/broken"),
		Parser:   NewParser(5*time.Second, "test"),
		Store:    store,
	})

	run, err := fetcher.FetchSource(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, domain.FetchRun{TotalFetched: 2, NewArticles: 2}, run)

	calls := store.UpsertCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "Fed holds rates steady", calls[0].C.Title, "feed order is kept")
	assert.Equal(t, "Oil jumps on supply cut", calls[1].C.Title)
	assert.Equal(t, "good", calls[1].C.Source)

	run, err = fetcher.FetchSource(context.Background(), "broken")
	require.NoError(t, err)
	assert.Equal(t, domain.FetchRun{Errors: 1}, run)

	_, err = fetcher.FetchSource(context.Background(), "unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown feed "unknown"`)
}

func TestFetcher_StoreErrors(t *testing.T) {
	srv := feedServer(t)
	store := &mocks.ArticleStoreMock{
		UpsertFunc: func(ctx context.Context, c domain.Candidate) (domain.UpsertResult, error) {
			if strings.Contains(c.URL, "oil") {
				return domain.Duplicate, errors.New("disk full")
			}
			return domain.Duplicate, nil
		},
	}
	fetcher := NewFetcher(FetcherConfig{Registry: newTestRegistry(t, srv, "/good"), Parser: NewParser(5*time.Second, "test"), Store: store})

	run := fetcher.FetchAll(context.Background())
	assert.Equal(t, domain.FetchRun{TotalFetched: 2, Duplicates: 1, Errors: 1}, run)
}

func TestFetcher_Concurrency(t *testing.T) {
	const feeds = 12
	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		_, _ = fmt.Fprintf(w, `<rss version="2.0"><channel><title>x</title><item><title>story</title><link>https://example.com%s</link></item></channel></rss>`, r.URL.Path)
	}))
	defer srv.Close()

	paths := make([]string, 0, feeds)
	for i := 0; i < feeds; i++ {
		paths = append(paths, fmt.Sprintf("/feed%d", i))
	}
	store := &mocks.ArticleStoreMock{
		UpsertFunc: func(ctx context.Context, c domain.Candidate) (domain.UpsertResult, error) {
			return domain.Inserted, nil
		},
	}
	fetcher := NewFetcher(FetcherConfig{Registry: newTestRegistry(t, srv, paths...), Parser: NewParser(5*time.Second, "test"),
		Store: store, MaxWorkers: 4})

	run := fetcher.FetchAll(context.Background())
	assert.Equal(t, domain.FetchRun{TotalFetched: feeds, NewArticles: feeds}, run)
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, maxInFlight, 4)
	assert.Len(t, store.UpsertCalls(), feeds)
}

func TestFetcher_candidate(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	f := NewFetcher(FetcherConfig{})
	f.now = func() time.Time { return fixed }
	src := Source{Name: "WSJ", URL: "https://example.com/wsj"}
	published := time.Date(2024, 5, 1, 9, 0, 0, 0, time.FixedZone("EDT", -4*3600))
	updated := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)

	t.Run("published preferred", func(t *testing.T) {
		c, ok := f.candidate(src, Entry{Title: "A", Link: "https://example.com/a", Published: &published, Updated: &updated})
		require.True(t, ok)
		assert.Equal(t, published.UTC(), c.PublishedAt)
		assert.Equal(t, "WSJ", c.Source)
	})

	t.Run("updated fallback", func(t *testing.T) {
		c, ok := f.candidate(src, Entry{Title: "A", Link: "https://example.com/a", Updated: &updated})
		require.True(t, ok)
		assert.Equal(t, updated, c.PublishedAt)
	})

	t.Run("fetch time fallback", func(t *testing.T) {
		c, ok := f.candidate(src, Entry{Title: "A", Link: "https://example.com/a"})
		require.True(t, ok)
		assert.Equal(t, fixed, c.PublishedAt)
	})

	t.Run("content used when description empty", func(t *testing.T) {
		c, ok := f.candidate(src, Entry{Title: "A", Link: "https://example.com/a", Description: "  ", Content: "<div>Body&nbsp;text</div>"})
		require.True(t, ok)
		assert.Equal(t, "Body text", c.Summary)
	})

	t.Run("title entities unescaped", func(t *testing.T) {
		c, ok := f.candidate(src, Entry{Title: " S&amp;P 500 rallies ", Link: "https://example.com/a"})
		require.True(t, ok)
		assert.Equal(t, "S&P 500 rallies", c.Title)
	})

	t.Run("skipped without title or link", func(t *testing.T) {
		_, ok := f.candidate(src, Entry{Title: " ", Link: "https://example.com/a"})
		assert.False(t, ok)
		_, ok = f.candidate(src, Entry{Title: "A"})
		assert.False(t, ok)
	})
}

func TestFetcher_cleanText(t *testing.T) {
	f := NewFetcher(FetcherConfig{})

	tests := []struct {
		name, in, want string
	}{
		{"empty", "", ""},
		{"plain", "Stocks rose.", "Stocks rose."},
		{"tags stripped with spacing", "<p>Stocks</p><p>rose</p>", "Stocks rose"},
		{"entities", "AT&amp;T &quot;beats&quot;", `AT&T "beats"`},
		{"whitespace collapsed", "  a \n\t b  ", "a b"},
		{"script removed", "<script>alert(1)</script>News", "News"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.cleanText(tt.in))
		})
	}

	t.Run("truncated by runes", func(t *testing.T) {
		long := strings.Repeat("é", maxSummaryRunes+50)
		got := f.cleanText(long)
		assert.Equal(t, maxSummaryRunes, len([]rune(got)))
	})
}
