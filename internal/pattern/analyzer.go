// Package pattern groups an instrument's derived records by calendar period
// and emits statistically summarized seasonality patterns.
package pattern

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"seasonpulse/internal/calendar"
	"seasonpulse/internal/stats"
	"seasonpulse/pkg/contracts/domain"
)

// Minimum observations per group before a pattern is emitted.
const (
	MinMonthlySamples   = 5
	MinWeeklySamples    = 10
	MinQuarterlySamples = 3
)

// Sample sizes at which confidence saturates at 1.
const (
	monthlyConfidenceCap   = 30
	weeklyConfidenceCap    = 50
	quarterlyConfidenceCap = 10
)

// Analyzer computes seasonality patterns from linked timeframe records.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates a pattern analyzer.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Analyze runs the three grouping analyses for one instrument: daily
// records by month-of-year and by day-of-week, monthly records by quarter.
// Groups under the minimum sample size emit nothing; that is expected for
// short histories, not an error.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, daily, monthly []domain.TimeframeRecord) []domain.Pattern {
	patterns := make([]domain.Pattern, 0, 12+7+4)

	patterns = append(patterns, a.analyzeGroups(symbol, domain.TimeframeDaily, domain.PatternMonthlySeasonal,
		groupBy(daily, func(r *domain.TimeframeRecord) int { return int(r.Date.Month()) }),
		MinMonthlySamples, monthlyConfidenceCap)...)

	patterns = append(patterns, a.analyzeGroups(symbol, domain.TimeframeDaily, domain.PatternWeeklySeasonal,
		groupBy(daily, func(r *domain.TimeframeRecord) int { return int(r.Date.Weekday()) }),
		MinWeeklySamples, weeklyConfidenceCap)...)

	patterns = append(patterns, a.analyzeGroups(symbol, domain.TimeframeMonthly, domain.PatternQuarterlySeasonal,
		groupBy(monthly, func(r *domain.TimeframeRecord) int { return calendar.QuarterOf(r.Date) }),
		MinQuarterlySamples, quarterlyConfidenceCap)...)

	a.logger.InfoContext(ctx, "pattern analysis completed",
		slog.String("symbol", symbol),
		slog.Int("daily_records", len(daily)),
		slog.Int("monthly_records", len(monthly)),
		slog.Int("patterns", len(patterns)))

	return patterns
}

// group carries one calendar period's return observations and date range.
type group struct {
	returns []float64
	first   time.Time
	last    time.Time
}

func groupBy(records []domain.TimeframeRecord, periodOf func(*domain.TimeframeRecord) int) map[int]*group {
	groups := make(map[int]*group)
	for i := range records {
		r := &records[i]
		p := periodOf(r)
		g := groups[p]
		if g == nil {
			g = &group{first: r.Date, last: r.Date}
			groups[p] = g
		}
		g.returns = append(g.returns, r.ReturnPercentage)
		if r.Date.Before(g.first) {
			g.first = r.Date
		}
		if r.Date.After(g.last) {
			g.last = r.Date
		}
	}
	return groups
}

func (a *Analyzer) analyzeGroups(symbol string, tf domain.Timeframe, pt domain.PatternType, groups map[int]*group, minSamples, confidenceCap int) []domain.Pattern {
	periods := make([]int, 0, len(groups))
	for p := range groups {
		periods = append(periods, p)
	}
	sort.Ints(periods)

	patterns := make([]domain.Pattern, 0, len(periods))
	now := time.Now().UTC()

	for _, period := range periods {
		g := groups[period]
		n := len(g.returns)
		if n < minSamples {
			continue
		}

		avg := stats.Mean(g.returns)
		vol := stats.StdDev(g.returns)

		confidence := float64(n) / float64(confidenceCap)
		if confidence > 1 {
			confidence = 1
		}

		significance := 0.0
		if vol > 0 {
			significance = math.Abs(avg) / (vol / math.Sqrt(float64(n)))
		}

		patterns = append(patterns, domain.Pattern{
			ID:           uuid.NewString(),
			Symbol:       symbol,
			Timeframe:    tf,
			Type:         pt,
			Period:       period,
			AvgReturn:    avg,
			Volatility:   vol,
			WinRate:      stats.WinRate(g.returns),
			MaxGain:      stats.Max(g.returns),
			MaxLoss:      stats.Min(g.returns),
			SampleSize:   n,
			Confidence:   confidence,
			Significance: significance,
			AnalyzedAt:   now,
			RangeStart:   g.first,
			RangeEnd:     g.last,
		})
	}
	return patterns
}
