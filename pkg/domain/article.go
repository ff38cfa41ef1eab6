package domain

import (
	"errors"
	"time"
)

// ImpactLevel is a coarse bucket of an article's expected market effect
type ImpactLevel string

// impact levels, unanalyzed is the initial state of every stored article
const (
	ImpactUnanalyzed ImpactLevel = "unanalyzed"
	ImpactNone       ImpactLevel = "none"
	ImpactLow        ImpactLevel = "low"
	ImpactMedium     ImpactLevel = "medium"
	ImpactHigh       ImpactLevel = "high"
)

// AnalyzedLevels lists levels an analysis may assign, most significant first
var AnalyzedLevels = []ImpactLevel{ImpactHigh, ImpactMedium, ImpactLow, ImpactNone}

// Valid reports whether the level is a known one, including unanalyzed
func (l ImpactLevel) Valid() bool {
	return l == ImpactUnanalyzed || l.Analyzed()
}

// Analyzed reports whether the level is one an analysis may assign
func (l ImpactLevel) Analyzed() bool {
	switch l {
	case ImpactNone, ImpactLow, ImpactMedium, ImpactHigh:
		return true
	}
	return false
}

// Direction is the directional bias an article implies for the market
type Direction string

// market directions
const (
	DirectionNeutral Direction = "neutral"
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionMixed   Direction = "mixed"
)

// DefaultDirectionPriority breaks ties between directions with equal counts
var DefaultDirectionPriority = []Direction{DirectionBullish, DirectionBearish, DirectionMixed, DirectionNeutral}

// Valid reports whether the direction is a known one
func (d Direction) Valid() bool {
	switch d {
	case DirectionNeutral, DirectionBullish, DirectionBearish, DirectionMixed:
		return true
	}
	return false
}

// errors shared by store and analyzer
var (
	ErrNotFound        = errors.New("article not found")
	ErrAlreadyAnalyzed = errors.New("article already analyzed")
	ErrInvalidAnalysis = errors.New("invalid analysis")
)

// Article is a stored news item with its analysis state
type Article struct {
	ID          int64
	URL         string
	Title       string
	Source      string
	Summary     string
	PublishedAt time.Time
	FetchedAt   time.Time

	ImpactLevel     ImpactLevel
	ImpactScore     int
	MarketDirection Direction
	ImpactSummary   string
	AffectedSectors []string
	AnalyzedAt      *time.Time
}

// Analyzed reports whether the article went through the analyzer
func (a *Article) Analyzed() bool {
	return a.ImpactLevel != ImpactUnanalyzed
}

// Candidate is a normalized feed entry handed to the store by the fetcher
type Candidate struct {
	URL         string
	Title       string
	Source      string
	Summary     string
	PublishedAt time.Time
}

// UpsertResult tells whether a candidate was stored or matched an existing article
type UpsertResult int

// upsert outcomes
const (
	Inserted UpsertResult = iota
	Duplicate
)

func (r UpsertResult) String() string {
	if r == Duplicate {
		return "duplicate"
	}
	return "inserted"
}

// ArticleFilter describes an article listing query
type ArticleFilter struct {
	ImpactLevel string // exact level or "all"
	Source      string // exact source or "all"
	SortBy      string
	SortOrder   string
	Limit       int
	Offset      int
}

// FilterAll matches any value of a filter field
const FilterAll = "all"

// Stats holds article counts by impact level
type Stats struct {
	Total        int `json:"total" db:"total"`
	Analyzed     int `json:"analyzed" db:"analyzed"`
	HighImpact   int `json:"high_impact" db:"high_impact"`
	MediumImpact int `json:"medium_impact" db:"medium_impact"`
	LowImpact    int `json:"low_impact" db:"low_impact"`
}

// FetchRun is the tally of one ingestion pass
type FetchRun struct {
	TotalFetched int `json:"total_fetched"`
	NewArticles  int `json:"new_articles"`
	Duplicates   int `json:"duplicates"`
	Errors       int `json:"errors"`
}

// Add merges another tally into this one
func (r *FetchRun) Add(other FetchRun) {
	r.TotalFetched += other.TotalFetched
	r.NewArticles += other.NewArticles
	r.Duplicates += other.Duplicates
	r.Errors += other.Errors
}

// AnalysisRun is the tally of one analyzer batch
type AnalysisRun struct {
	Analyzed int `json:"analyzed"`
	Total    int `json:"total"`
	Failed   int `json:"failed"`
}
