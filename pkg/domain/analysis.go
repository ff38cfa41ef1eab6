package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MaxImpactScore is the upper bound of impact_score
const MaxImpactScore = 100

// Analysis is the result of analyzing one article
type Analysis struct {
	ImpactLevel     ImpactLevel
	ImpactScore     int
	MarketDirection Direction
	ImpactSummary   string
	AffectedSectors []string
}

// Validate rejects analyses that would break stored invariants. Out of range scores are
// reported, never clamped.
func (a *Analysis) Validate() error {
	if !a.ImpactLevel.Analyzed() {
		return fmt.Errorf("%w: impact level %q", ErrInvalidAnalysis, a.ImpactLevel)
	}
	if a.ImpactScore < 0 || a.ImpactScore > MaxImpactScore {
		return fmt.Errorf("%w: impact score %d out of range 0-%d", ErrInvalidAnalysis, a.ImpactScore, MaxImpactScore)
	}
	if !a.MarketDirection.Valid() {
		return fmt.Errorf("%w: market direction %q", ErrInvalidAnalysis, a.MarketDirection)
	}
	if strings.TrimSpace(a.ImpactSummary) == "" {
		return fmt.Errorf("%w: empty impact summary", ErrInvalidAnalysis)
	}
	return nil
}

// ParseSectors decodes a stored sector list. Values are expected to be JSON arrays, older or
// hand-edited rows may hold a comma separated list instead.
func ParseSectors(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	var sectors []string
	if err := json.Unmarshal([]byte(raw), &sectors); err == nil {
		return CleanSectors(sectors)
	}

	return CleanSectors(strings.Split(raw, ","))
}

// CleanSectors trims labels and drops empty ones, never returns nil
func CleanSectors(sectors []string) []string {
	res := make([]string, 0, len(sectors))
	for _, s := range sectors {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}
	return res
}
