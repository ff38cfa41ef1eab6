package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/marketscope/pkg/domain"
	"github.com/umputun/marketscope/pkg/feed"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . ArticleStore
//go:generate moq -out mocks/registry.go -pkg mocks -skip-ensure -fmt goimports . Registry
//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/analyzer.go -pkg mocks -skip-ensure -fmt goimports . Analyzer
//go:generate moq -out mocks/aggregator.go -pkg mocks -skip-ensure -fmt goimports . Aggregator
//go:generate moq -out mocks/llm.go -pkg mocks -skip-ensure -fmt goimports . LLMChecker

// Server represents HTTP server instance
type Server struct {
	config     ConfigProvider
	store      ArticleStore
	registry   Registry
	fetcher    Fetcher
	analyzer   Analyzer
	aggregator Aggregator
	llm        LLMChecker
	version    string
	debug      bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetBaseURL() string
}

// ArticleStore is the read side of the article store
type ArticleStore interface {
	Query(ctx context.Context, f domain.ArticleFilter) ([]domain.Article, error)
	GetArticle(ctx context.Context, id int64) (*domain.Article, error)
	Sources(ctx context.Context) ([]string, error)
}

// Registry lists configured feed sources
type Registry interface {
	Names() []string
	Sources() []feed.Source
}

// Fetcher runs ingestion passes
type Fetcher interface {
	FetchAll(ctx context.Context) domain.FetchRun
	FetchSource(ctx context.Context, name string) (domain.FetchRun, error)
}

// Analyzer runs analysis batches
type Analyzer interface {
	RunBatch(ctx context.Context, batchSize int) (domain.AnalysisRun, error)
}

// Aggregator builds stats and market summaries
type Aggregator interface {
	Stats(ctx context.Context) (domain.Stats, error)
	MarketSummary(ctx context.Context, since time.Time) (domain.MarketSummary, error)
	SectorArticles(ctx context.Context, bucket string, minScore, limit int) ([]domain.Article, error)
}

// LLMChecker reports whether the LLM backend is reachable and serves the model
type LLMChecker interface {
	Check(ctx context.Context) error
}

// Params holds server dependencies
type Params struct {
	Store      ArticleStore
	Registry   Registry
	Fetcher    Fetcher
	Analyzer   Analyzer
	Aggregator Aggregator
	LLM        LLMChecker
	Version    string
	Debug      bool
}

// New initializes a new server instance
func New(cfg ConfigProvider, p Params) *Server {
	s := &Server{
		config:     cfg,
		store:      p.Store,
		registry:   p.Registry,
		fetcher:    p.Fetcher,
		analyzer:   p.Analyzer,
		aggregator: p.Aggregator,
		llm:        p.LLM,
		version:    p.Version,
		debug:      p.Debug,
		router:     routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// Handler returns the router, used by tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(liftDeadlines("/api/fetch", "/api/analyze"))
	s.router.Use(rest.AppInfo("marketscope", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// liftDeadlines clears the server read and write deadlines for long POST batches,
// registered first so it sees the connection's own writer
func liftDeadlines(paths ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && contains(paths, r.URL.Path) {
				rc := http.NewResponseController(w)
				if err := rc.SetWriteDeadline(time.Time{}); err != nil {
					log.Printf("[DEBUG] can't lift write deadline for %s: %v", r.URL.Path, err)
				}
				if err := rc.SetReadDeadline(time.Time{}); err != nil {
					log.Printf("[DEBUG] can't lift read deadline for %s: %v", r.URL.Path, err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /articles", s.articlesHandler)
		r.HandleFunc("GET /articles/{id}", s.articleHandler)
		r.HandleFunc("GET /stats", s.statsHandler)
		r.HandleFunc("GET /sources", s.sourcesHandler)
		r.HandleFunc("GET /feeds", s.feedsHandler)
		r.HandleFunc("POST /fetch", s.fetchHandler)
		r.HandleFunc("POST /analyze", s.analyzeHandler)
		r.HandleFunc("GET /market-summary", s.marketSummaryHandler)
		r.HandleFunc("GET /health", s.healthHandler)
	})

	s.router.HandleFunc("GET /rss", s.rssHandler)
	s.router.HandleFunc("GET /rss/{sector}", s.rssHandler)
	s.router.HandleFunc("GET /opml", s.opmlHandler)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}

// renderInternalError logs the cause and sends a generic message
func renderInternalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	log.Printf("[ERROR] %s: %v", msg, err)
	renderJSON(w, r, http.StatusInternalServerError, map[string]string{"error": msg})
}
