package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/marketscope/pkg/domain"
)

// SortFields lists columns accepted by Query as sort keys
var SortFields = []string{"published_at", "impact_score", "fetched_at", "source", "impact_level"}

// ArticleRepository handles article storage, dedup and analysis updates
type ArticleRepository struct {
	db *sqlx.DB
}

// articleSQL represents an article row for SQL operations
type articleSQL struct {
	ID          int64     `db:"id"`
	URL         string    `db:"url"`
	URLKey      string    `db:"url_key"`
	Title       string    `db:"title"`
	Source      string    `db:"source"`
	Summary     string    `db:"summary"`
	PublishedAt time.Time `db:"published_at"`
	FetchedAt   time.Time `db:"fetched_at"`

	ImpactLevel     string         `db:"impact_level"`
	ImpactScore     int            `db:"impact_score"`
	MarketDirection string         `db:"market_direction"`
	ImpactSummary   sql.NullString `db:"impact_summary"`
	AffectedSectors sectorsSQL     `db:"affected_sectors"`
	AnalyzedAt      *time.Time     `db:"analyzed_at"`
}

// sectorsSQL is a JSON array of sector labels for SQL operations
type sectorsSQL []string

// Value implements driver.Valuer for database storage, always a JSON array
func (s sectorsSQL) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval, tolerating legacy comma lists
func (s *sectorsSQL) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = sectorsSQL{}
	case []byte:
		*s = domain.ParseSectors(string(v))
	case string:
		*s = domain.ParseSectors(v)
	default:
		return fmt.Errorf("unsupported sectors type %T", value)
	}
	return nil
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(database *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: database}
}

// Upsert stores a candidate unless an article with the same canonical url exists.
// Losing a concurrent insert race gives Duplicate, not an error.
func (r *ArticleRepository) Upsert(ctx context.Context, c domain.Candidate) (domain.UpsertResult, error) {
	if strings.TrimSpace(c.Title) == "" || strings.TrimSpace(c.Source) == "" {
		return domain.Duplicate, fmt.Errorf("upsert %q: title and source are required", c.URL)
	}
	key, err := domain.CanonicalURL(c.URL)
	if err != nil {
		return domain.Duplicate, fmt.Errorf("upsert: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	published := c.PublishedAt
	if published.IsZero() {
		published = now
	}

	query := `
		INSERT INTO articles (url, url_key, title, source, summary, published_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url_key) DO NOTHING
	`
	var affected int64
	err = newRetrier().Do(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, strings.TrimSpace(c.URL), key, c.Title, c.Source, c.Summary,
			published.UTC().Truncate(time.Second), now)
		if err != nil {
			return retryable(fmt.Errorf("insert article: %w", err))
		}
		if affected, err = res.RowsAffected(); err != nil {
			return &criticalError{err: fmt.Errorf("get rows affected: %w", err)}
		}
		return nil
	}, errCritical)
	if err != nil {
		return domain.Duplicate, fmt.Errorf("upsert %q: %w", c.URL, err)
	}

	if affected == 0 {
		return domain.Duplicate, nil
	}
	return domain.Inserted, nil
}

// Query lists articles matching the filter. Unknown sort fields fall back to published_at,
// id descending is always the final tie-break.
func (r *ArticleRepository) Query(ctx context.Context, f domain.ArticleFilter) ([]domain.Article, error) {
	qb := sq.Select("*").From("articles")
	if f.ImpactLevel != "" && f.ImpactLevel != domain.FilterAll {
		qb = qb.Where(sq.Eq{"impact_level": f.ImpactLevel})
	}
	if f.Source != "" && f.Source != domain.FilterAll {
		qb = qb.Where(sq.Eq{"source": f.Source})
	}

	sortBy := "published_at"
	for _, s := range SortFields {
		if f.SortBy == s {
			sortBy = s
			break
		}
	}
	order := "DESC"
	if strings.EqualFold(f.SortOrder, "ASC") {
		order = "ASC"
	}
	qb = qb.OrderBy(sortBy+" "+order, "id DESC")

	if f.Limit > 0 {
		qb = qb.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		if f.Limit <= 0 {
			qb = qb.Limit(uint64(1<<62)) // sqlite requires LIMIT with OFFSET
		}
		qb = qb.Offset(uint64(f.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build articles query: %w", err)
	}

	var rows []articleSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	return toDomainArticles(rows), nil
}

// GetArticle retrieves an article by id
func (r *ArticleRepository) GetArticle(ctx context.Context, id int64) (*domain.Article, error) {
	var row articleSQL
	if err := r.db.GetContext(ctx, &row, "SELECT * FROM articles WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get article %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get article %d: %w", id, err)
	}
	a := toDomainArticle(&row)
	return &a, nil
}

// Sources returns distinct source names of stored articles, sorted
func (r *ArticleRepository) Sources(ctx context.Context) ([]string, error) {
	sources := []string{}
	if err := r.db.SelectContext(ctx, &sources, "SELECT DISTINCT source FROM articles ORDER BY source"); err != nil {
		return nil, fmt.Errorf("get sources: %w", err)
	}
	return sources, nil
}

// Stats returns article counts by impact level in a single query
func (r *ArticleRepository) Stats(ctx context.Context) (domain.Stats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN impact_level != 'unanalyzed' THEN 1 ELSE 0 END), 0) AS analyzed,
			COALESCE(SUM(CASE WHEN impact_level = 'high' THEN 1 ELSE 0 END), 0) AS high_impact,
			COALESCE(SUM(CASE WHEN impact_level = 'medium' THEN 1 ELSE 0 END), 0) AS medium_impact,
			COALESCE(SUM(CASE WHEN impact_level = 'low' THEN 1 ELSE 0 END), 0) AS low_impact
		FROM articles
	`
	var stats domain.Stats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return domain.Stats{}, fmt.Errorf("get stats: %w", err)
	}
	return stats, nil
}

// Unanalyzed returns up to limit articles awaiting analysis, oldest published first
func (r *ArticleRepository) Unanalyzed(ctx context.Context, limit int) ([]domain.Article, error) {
	query := `
		SELECT * FROM articles
		WHERE impact_level = 'unanalyzed'
		ORDER BY published_at ASC, id ASC
		LIMIT ?
	`
	var rows []articleSQL
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("get unanalyzed articles: %w", err)
	}
	return toDomainArticles(rows), nil
}

// Analyzed returns all analyzed articles ordered by id
func (r *ArticleRepository) Analyzed(ctx context.Context) ([]domain.Article, error) {
	var rows []articleSQL
	err := r.db.SelectContext(ctx, &rows, "SELECT * FROM articles WHERE impact_level != 'unanalyzed' ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("get analyzed articles: %w", err)
	}
	return toDomainArticles(rows), nil
}

// MarkAnalyzed writes all analysis fields of an article in one conditional update.
// Analysis is terminal: a second call gives domain.ErrAlreadyAnalyzed, an unknown id domain.ErrNotFound.
func (r *ArticleRepository) MarkAnalyzed(ctx context.Context, id int64, a domain.Analysis) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("mark article %d analyzed: %w", id, err)
	}

	query := `
		UPDATE articles
		SET impact_level = ?,
		    impact_score = ?,
		    market_direction = ?,
		    impact_summary = ?,
		    affected_sectors = ?,
		    analyzed_at = ?
		WHERE id = ? AND impact_level = 'unanalyzed'
	`
	now := time.Now().UTC().Truncate(time.Second)
	err := newRetrier().Do(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, string(a.ImpactLevel), a.ImpactScore, string(a.MarketDirection),
			strings.TrimSpace(a.ImpactSummary), sectorsSQL(a.AffectedSectors), now, id)
		if err != nil {
			return retryable(fmt.Errorf("update article analysis: %w", err))
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return &criticalError{err: fmt.Errorf("get rows affected: %w", err)}
		}
		if affected > 0 {
			return nil
		}

		var exists bool
		if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM articles WHERE id = ?)", id); err != nil {
			return retryable(fmt.Errorf("check article exists: %w", err))
		}
		if !exists {
			return &criticalError{err: domain.ErrNotFound}
		}
		return &criticalError{err: domain.ErrAlreadyAnalyzed}
	}, errCritical)
	if err != nil {
		return fmt.Errorf("mark article %d analyzed: %w", id, err)
	}
	return nil
}

func toDomainArticles(rows []articleSQL) []domain.Article {
	res := make([]domain.Article, len(rows))
	for i := range rows {
		res[i] = toDomainArticle(&rows[i])
	}
	return res
}

// toDomainArticle converts articleSQL to domain.Article
func toDomainArticle(row *articleSQL) domain.Article {
	sectors := []string(row.AffectedSectors)
	if sectors == nil {
		sectors = []string{}
	}
	return domain.Article{
		ID:              row.ID,
		URL:             row.URL,
		Title:           row.Title,
		Source:          row.Source,
		Summary:         row.Summary,
		PublishedAt:     row.PublishedAt.UTC(),
		FetchedAt:       row.FetchedAt.UTC(),
		ImpactLevel:     domain.ImpactLevel(row.ImpactLevel),
		ImpactScore:     row.ImpactScore,
		MarketDirection: domain.Direction(row.MarketDirection),
		ImpactSummary:   row.ImpactSummary.String,
		AffectedSectors: sectors,
		AnalyzedAt:      row.AnalyzedAt,
	}
}
