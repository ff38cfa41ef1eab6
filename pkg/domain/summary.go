package domain

// MarketSummary is the market-wide view computed over analyzed articles
type MarketSummary struct {
	TotalAnalyzed      int                        `json:"total_analyzed"`
	AvgScore           int                        `json:"avg_score"`
	OverallDirection   Direction                  `json:"overall_direction"`
	DirectionBreakdown map[Direction]int          `json:"direction_breakdown"`
	ImpactBreakdown    map[ImpactLevel]int        `json:"impact_breakdown"`
	TopDrivers         []Article                  `json:"-"`
	SectorSentiment    map[string]SectorSentiment `json:"sector_sentiment"`
}

// SectorSentiment is the aggregated view of one sector bucket
type SectorSentiment struct {
	Label     string    `json:"label"`
	Direction Direction `json:"direction"`
	Count     int       `json:"count"`
	AvgScore  int       `json:"avg_score"`
}

// EmptyMarketSummary returns the summary reported when nothing is analyzed yet
func EmptyMarketSummary() MarketSummary {
	res := MarketSummary{
		OverallDirection:   DirectionNeutral,
		DirectionBreakdown: map[Direction]int{},
		ImpactBreakdown:    map[ImpactLevel]int{},
		TopDrivers:         []Article{},
		SectorSentiment:    map[string]SectorSentiment{},
	}
	for _, d := range DefaultDirectionPriority {
		res.DirectionBreakdown[d] = 0
	}
	for _, l := range AnalyzedLevels {
		res.ImpactBreakdown[l] = 0
	}
	return res
}
