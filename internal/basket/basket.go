// Package basket aggregates seasonality results across named instrument
// groups and overlays political-cycle impact on dates.
package basket

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"seasonpulse/internal/persistence"
	"seasonpulse/internal/stats"
	"seasonpulse/pkg/contracts/domain"
)

// PeriodAverage is the unweighted cross-instrument mean of one calendar
// period's pattern statistics.
type PeriodAverage struct {
	Period      int     `json:"period"`
	AvgReturn   float64 `json:"avg_return"`
	Volatility  float64 `json:"volatility"`
	WinRate     float64 `json:"win_rate"`
	Confidence  float64 `json:"confidence"`
	Instruments int     `json:"instruments"`
}

// Result is the basket-level seasonality summary for one pattern type.
type Result struct {
	Name        string          `json:"name"`
	Type        domain.PatternType `json:"type"`
	Symbols     []string        `json:"symbols"`
	Periods     []PeriodAverage `json:"periods"`
	BestPeriod  *PeriodAverage  `json:"best_period,omitempty"`
	WorstPeriod *PeriodAverage  `json:"worst_period,omitempty"`
	AnalyzedAt  time.Time       `json:"analyzed_at"`
}

// Analyzer averages per-instrument patterns across a basket and answers
// political-impact lookups.
type Analyzer struct {
	patterns  persistence.PatternStore
	political persistence.PoliticalReader
	logger    *slog.Logger
}

// NewAnalyzer creates a basket analyzer over the given stores.
func NewAnalyzer(patterns persistence.PatternStore, political persistence.PoliticalReader, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{patterns: patterns, political: political, logger: logger}
}

// Analyze fetches each basket member's patterns of the given type, groups
// them by period and averages avgReturn, volatility, win rate and
// confidence with a simple unweighted mean. Instruments without patterns
// contribute nothing; a basket with no patterns at all yields an empty
// result, not an error.
func (a *Analyzer) Analyze(ctx context.Context, name string, symbols []string, pt domain.PatternType) (*Result, error) {
	byPeriod := make(map[int][]domain.Pattern)

	for _, symbol := range symbols {
		patterns, err := a.patterns.PatternsBySymbol(ctx, symbol, pt)
		if err != nil {
			return nil, err
		}
		if len(patterns) == 0 {
			a.logger.DebugContext(ctx, "basket member has no patterns",
				slog.String("basket", name),
				slog.String("symbol", symbol),
				slog.String("type", string(pt)))
			continue
		}
		for _, p := range patterns {
			byPeriod[p.Period] = append(byPeriod[p.Period], p)
		}
	}

	periods := make([]int, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	sort.Ints(periods)

	result := &Result{
		Name:       name,
		Type:       pt,
		Symbols:    symbols,
		Periods:    make([]PeriodAverage, 0, len(periods)),
		AnalyzedAt: time.Now().UTC(),
	}

	for _, period := range periods {
		group := byPeriod[period]
		avg := PeriodAverage{
			Period:      period,
			AvgReturn:   stats.Mean(collect(group, func(p domain.Pattern) float64 { return p.AvgReturn })),
			Volatility:  stats.Mean(collect(group, func(p domain.Pattern) float64 { return p.Volatility })),
			WinRate:     stats.Mean(collect(group, func(p domain.Pattern) float64 { return p.WinRate })),
			Confidence:  stats.Mean(collect(group, func(p domain.Pattern) float64 { return p.Confidence })),
			Instruments: len(group),
		}
		result.Periods = append(result.Periods, avg)
	}

	for i := range result.Periods {
		p := &result.Periods[i]
		if result.BestPeriod == nil || p.AvgReturn > result.BestPeriod.AvgReturn {
			result.BestPeriod = p
		}
		if result.WorstPeriod == nil || p.AvgReturn < result.WorstPeriod.AvgReturn {
			result.WorstPeriod = p
		}
	}

	return result, nil
}

// PoliticalImpact returns the average impact score of political cycles
// overlapping the given date, scoped to the country or GLOBAL. No matching
// cycle yields 0.
func (a *Analyzer) PoliticalImpact(ctx context.Context, date time.Time, country string) (float64, error) {
	cycles, err := a.political.CyclesInRange(ctx, date, date)
	if err != nil {
		return 0, err
	}

	var scores []float64
	for i := range cycles {
		c := &cycles[i]
		if c.Overlaps(date) && c.AppliesTo(country) {
			scores = append(scores, c.ImpactScore)
		}
	}
	return stats.Mean(scores), nil
}

// SpecialDays returns the special-day records in the date range for the
// country, including globally scoped days.
func (a *Analyzer) SpecialDays(ctx context.Context, start, end time.Time, country string) ([]domain.SpecialDay, error) {
	return a.political.SpecialDaysInRange(ctx, start, end, country)
}

func collect(patterns []domain.Pattern, f func(domain.Pattern) float64) []float64 {
	out := make([]float64, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, f(p))
	}
	return out
}
