package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/marketscope/pkg/analyzer"
	"github.com/umputun/marketscope/pkg/config"
	"github.com/umputun/marketscope/pkg/content"
	"github.com/umputun/marketscope/pkg/domain"
	"github.com/umputun/marketscope/pkg/feed"
	"github.com/umputun/marketscope/pkg/llm"
	"github.com/umputun/marketscope/pkg/market"
	"github.com/umputun/marketscope/pkg/repository"
	"github.com/umputun/marketscope/pkg/scheduler"
	"github.com/umputun/marketscope/server"
)

// Opts with all CLI options
type Opts struct {
	Config    string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"configuration file"`
	Listen    string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides server.listen"`
	LLMAPIKey string `long:"llm-api-key" env:"LLM_API_KEY" description:"LLM API key, overrides llm.api_key"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, !opts.NoColor, opts.LLMAPIKey)

	log.Printf("[INFO] starting marketscope version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run wires all components from the config and serves until ctx is canceled
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(cfg, opts)

	registry, err := newRegistry(cfg.Feeds)
	if err != nil {
		return fmt.Errorf("failed to build feed registry: %w", err)
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	fetcher := feed.NewFetcher(feed.FetcherConfig{
		Registry:   registry,
		Parser:     feed.NewParser(cfg.Fetch.Timeout, cfg.Fetch.UserAgent),
		Store:      repos.Article,
		MaxWorkers: cfg.Fetch.MaxWorkers,
	})

	llmClient := llm.NewClient(cfg.LLM)
	if err := llmClient.Check(ctx); err != nil {
		log.Printf("[WARN] LLM analysis unavailable: %s", llmClient.Remediation(err))
	}

	analyzerCfg := analyzer.Config{Store: repos.Article, LLM: llmClient, MinTextLength: cfg.Extraction.MinTextLength}
	if cfg.Extraction.Enabled {
		analyzerCfg.Extractor = content.NewHTTPExtractor(cfg.Extraction.Timeout, cfg.Extraction.UserAgent)
	}
	batchAnalyzer := analyzer.New(analyzerCfg)

	aggregator := market.NewAggregator(repos.Article, market.Config{
		TopDrivers:        cfg.Market.TopDrivers,
		DirectionPriority: directions(cfg.Market.DirectionPriority),
	})

	if cfg.Schedule.Enabled {
		sched := scheduler.NewScheduler(scheduler.Params{
			Fetcher:         fetcher,
			Analyzer:        batchAnalyzer,
			FetchInterval:   cfg.Schedule.FetchInterval,
			AnalyzeInterval: cfg.Schedule.AnalyzeInterval,
			AnalyzeBatch:    cfg.Schedule.AnalyzeBatch,
		})
		sched.Start(ctx)
		defer sched.Stop()
	}

	log.Printf("[INFO] %d feed sources, llm model %s at %s", len(registry.Sources()), cfg.LLM.Model, cfg.LLM.Endpoint)

	srv := server.New(cfg, server.Params{
		Store:      repos.Article,
		Registry:   registry,
		Fetcher:    fetcher,
		Analyzer:   batchAnalyzer,
		Aggregator: aggregator,
		LLM:        llmClient,
		Version:    revision,
		Debug:      opts.Debug,
	})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// applyOverrides puts command line values over the loaded config
func applyOverrides(cfg *config.Config, opts Opts) {
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if opts.LLMAPIKey != "" {
		cfg.LLM.APIKey = opts.LLMAPIKey
	}
}

// newRegistry uses configured feeds, or the built-in list when none are set
func newRegistry(feeds []config.FeedConfig) (*feed.Registry, error) {
	if len(feeds) == 0 {
		return feed.NewRegistry(feed.DefaultSources())
	}
	sources := make([]feed.Source, 0, len(feeds))
	for _, f := range feeds {
		sources = append(sources, feed.Source{Name: f.Name, URL: f.URL})
	}
	return feed.NewRegistry(sources)
}

func directions(priority []string) []domain.Direction {
	res := make([]domain.Direction, 0, len(priority))
	for _, p := range priority {
		res = append(res, domain.Direction(p))
	}
	return res
}

func setupLog(dbg, colored bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if colored {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	var nonEmpty []string
	for _, s := range secs {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) > 0 {
		logOpts = append(logOpts, lgr.Secret(nonEmpty...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
