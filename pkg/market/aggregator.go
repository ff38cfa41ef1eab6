// Package market computes stats and the market-wide summary over analyzed articles.
package market

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/umputun/marketscope/pkg/domain"
)

const defaultTopDrivers = 5

// Store is the read side of the article store used by the aggregator
type Store interface {
	Stats(ctx context.Context) (domain.Stats, error)
	Analyzed(ctx context.Context) ([]domain.Article, error)
}

// Config holds aggregator settings
type Config struct {
	TopDrivers        int
	DirectionPriority []domain.Direction // tie-break order, first wins
}

// Aggregator builds stats and summaries from stored analyses
type Aggregator struct {
	store      Store
	topDrivers int
	priority   []domain.Direction
}

// NewAggregator makes an aggregator. Directions missing from the priority list are appended in
// default order so tie-breaks stay total.
func NewAggregator(store Store, cfg Config) *Aggregator {
	if cfg.TopDrivers <= 0 {
		cfg.TopDrivers = defaultTopDrivers
	}
	return &Aggregator{store: store, topDrivers: cfg.TopDrivers, priority: completePriority(cfg.DirectionPriority)}
}

// Stats returns article counts by impact level
func (a *Aggregator) Stats(ctx context.Context) (domain.Stats, error) {
	stats, err := a.store.Stats(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("get stats: %w", err)
	}
	return stats, nil
}

// MarketSummary computes the summary over analyzed articles. A non-zero since limits it to
// articles analyzed after that time.
func (a *Aggregator) MarketSummary(ctx context.Context, since time.Time) (domain.MarketSummary, error) {
	articles, err := a.analyzed(ctx, since)
	if err != nil {
		return domain.MarketSummary{}, err
	}
	return Summarize(articles, a.topDrivers, a.priority), nil
}

// SectorArticles returns analyzed articles of a sector bucket (all articles when empty) with score
// at least minScore, highest score first. Non-positive limit means no limit.
func (a *Aggregator) SectorArticles(ctx context.Context, bucket string, minScore, limit int) ([]domain.Article, error) {
	bucket = strings.ToLower(strings.TrimSpace(bucket))
	if bucket != "" {
		if _, ok := LookupBucket(bucket); !ok {
			return nil, fmt.Errorf("unknown sector bucket %q", bucket)
		}
	}

	articles, err := a.analyzed(ctx, time.Time{})
	if err != nil {
		return nil, err
	}

	res := []domain.Article{}
	for _, art := range articles {
		if art.ImpactScore < minScore {
			continue
		}
		if bucket != "" && !contains(Classify(art.AffectedSectors), bucket) {
			continue
		}
		res = append(res, art)
	}
	sortByImpact(res)
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (a *Aggregator) analyzed(ctx context.Context, since time.Time) ([]domain.Article, error) {
	articles, err := a.store.Analyzed(ctx)
	if err != nil {
		return nil, fmt.Errorf("get analyzed articles: %w", err)
	}
	if since.IsZero() {
		return articles, nil
	}
	res := make([]domain.Article, 0, len(articles))
	for _, art := range articles {
		if art.AnalyzedAt != nil && art.AnalyzedAt.After(since) {
			res = append(res, art)
		}
	}
	return res, nil
}

// Summarize builds a market summary over analyzed articles. The result depends only on the
// input set, not on its order.
func Summarize(articles []domain.Article, topN int, priority []domain.Direction) domain.MarketSummary {
	res := domain.EmptyMarketSummary()
	analyzed := make([]domain.Article, 0, len(articles))
	for _, art := range articles {
		if art.Analyzed() {
			analyzed = append(analyzed, art)
		}
	}
	if len(analyzed) == 0 {
		return res
	}
	priority = completePriority(priority)

	type bucketAcc struct {
		directions map[domain.Direction]int
		count      int
		total      int
	}
	buckets := map[string]*bucketAcc{}

	total := 0
	for _, art := range analyzed {
		total += art.ImpactScore
		res.DirectionBreakdown[art.MarketDirection]++
		res.ImpactBreakdown[art.ImpactLevel]++

		for _, key := range Classify(art.AffectedSectors) {
			acc, ok := buckets[key]
			if !ok {
				acc = &bucketAcc{directions: map[domain.Direction]int{}}
				buckets[key] = acc
			}
			acc.directions[art.MarketDirection]++
			acc.count++
			acc.total += art.ImpactScore
		}
	}

	res.TotalAnalyzed = len(analyzed)
	res.AvgScore = roundedMean(total, len(analyzed))
	res.OverallDirection = dominant(res.DirectionBreakdown, priority)

	for key, acc := range buckets {
		b, _ := LookupBucket(key)
		res.SectorSentiment[key] = domain.SectorSentiment{
			Label:     b.Label,
			Direction: dominant(acc.directions, priority),
			Count:     acc.count,
			AvgScore:  roundedMean(acc.total, acc.count),
		}
	}

	if topN <= 0 {
		topN = defaultTopDrivers
	}
	sortByImpact(analyzed)
	if len(analyzed) > topN {
		analyzed = analyzed[:topN]
	}
	res.TopDrivers = analyzed
	return res
}

// dominant picks the direction with the highest count, ties go to the earlier one in priority
func dominant(counts map[domain.Direction]int, priority []domain.Direction) domain.Direction {
	best, bestCount := domain.DirectionNeutral, -1
	for _, d := range priority {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

// sortByImpact orders by score desc, then most recent published, then id desc
func sortByImpact(articles []domain.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i], articles[j]
		if a.ImpactScore != b.ImpactScore {
			return a.ImpactScore > b.ImpactScore
		}
		if !a.PublishedAt.Equal(b.PublishedAt) {
			return a.PublishedAt.After(b.PublishedAt)
		}
		return a.ID > b.ID
	})
}

// roundedMean rounds half away from zero
func roundedMean(total, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(n)))
}

func completePriority(priority []domain.Direction) []domain.Direction {
	res := make([]domain.Direction, 0, len(domain.DefaultDirectionPriority))
	seen := map[domain.Direction]bool{}
	for _, d := range append(append([]domain.Direction{}, priority...), domain.DefaultDirectionPriority...) {
		if d.Valid() && !seen[d] {
			seen[d] = true
			res = append(res, d)
		}
	}
	return res
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
