package pattern

import (
	"context"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seasonpulse/pkg/contracts/domain"
)

func dailyRecord(d time.Time, ret float64) domain.TimeframeRecord {
	return domain.TimeframeRecord{
		Symbol:           "NIFTY",
		Timeframe:        domain.TimeframeDaily,
		Date:             d,
		ReturnPercentage: ret,
		Positive:         ret > 0,
	}
}

func monthlyRecord(d time.Time, ret float64) domain.TimeframeRecord {
	return domain.TimeframeRecord{
		Symbol:           "NIFTY",
		Timeframe:        domain.TimeframeMonthly,
		Date:             d,
		ReturnPercentage: ret,
		Positive:         ret > 0,
	}
}

// januaries returns n daily records all falling in January, one per year,
// with the given returns.
func januaries(returns ...float64) []domain.TimeframeRecord {
	records := make([]domain.TimeframeRecord, 0, len(returns))
	for i, ret := range returns {
		records = append(records, dailyRecord(time.Date(2015+i, time.January, 10, 0, 0, 0, 0, time.UTC), ret))
	}
	return records
}

func TestAnalyze_MinimumSampleSize(t *testing.T) {
	analyzer := NewAnalyzer(slog.Default())

	// Four January observations: below the monthly minimum of five.
	patterns := analyzer.Analyze(context.Background(), "NIFTY", januaries(1, 2, -1, 3), nil)
	assert.Empty(t, patterns)

	// Exactly five emits exactly one pattern.
	patterns = analyzer.Analyze(context.Background(), "NIFTY", januaries(1, 2, -1, 3, 0.5), nil)
	require.Len(t, patterns, 1)
	assert.Equal(t, domain.PatternMonthlySeasonal, patterns[0].Type)
	assert.Equal(t, 1, patterns[0].Period)
	assert.Equal(t, 5, patterns[0].SampleSize)
}

func TestAnalyze_MonthlyPatternValues(t *testing.T) {
	analyzer := NewAnalyzer(slog.Default())

	patterns := analyzer.Analyze(context.Background(), "NIFTY", januaries(2, 4, -1, 3, 2), nil)
	require.Len(t, patterns, 1)
	p := patterns[0]

	assert.InDelta(t, 2.0, p.AvgReturn, 1e-12)
	assert.InDelta(t, 0.8, p.WinRate, 1e-12) // 4 of 5 positive
	assert.Equal(t, 4.0, p.MaxGain)
	assert.Equal(t, -1.0, p.MaxLoss)
	assert.InDelta(t, 5.0/30.0, p.Confidence, 1e-12)
	assert.Greater(t, p.Volatility, 0.0)

	wantSig := math.Abs(p.AvgReturn) / (p.Volatility / math.Sqrt(5))
	assert.InDelta(t, wantSig, p.Significance, 1e-12)

	assert.Equal(t, 2015, p.RangeStart.Year())
	assert.Equal(t, 2019, p.RangeEnd.Year())
}

func TestAnalyze_ZeroVolatilityGuard(t *testing.T) {
	analyzer := NewAnalyzer(slog.Default())

	patterns := analyzer.Analyze(context.Background(), "NIFTY", januaries(1, 1, 1, 1, 1), nil)
	require.Len(t, patterns, 1)
	assert.Equal(t, 0.0, patterns[0].Volatility)
	assert.Equal(t, 0.0, patterns[0].Significance)
}

func TestAnalyze_WeekdayGrouping(t *testing.T) {
	analyzer := NewAnalyzer(slog.Default())

	// Ten Mondays and three Tuesdays: only the Monday group qualifies.
	var records []domain.TimeframeRecord
	monday := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		records = append(records, dailyRecord(monday.AddDate(0, 0, 7*i), 1))
	}
	tuesday := monday.AddDate(0, 0, 1)
	for i := 0; i < 3; i++ {
		records = append(records, dailyRecord(tuesday.AddDate(0, 0, 7*i), -1))
	}

	patterns := analyzer.Analyze(context.Background(), "NIFTY", records, nil)

	var weekly []domain.Pattern
	for _, p := range patterns {
		if p.Type == domain.PatternWeeklySeasonal {
			weekly = append(weekly, p)
		}
	}
	require.Len(t, weekly, 1)
	assert.Equal(t, int(time.Monday), weekly[0].Period)
	assert.Equal(t, 10, weekly[0].SampleSize)
	assert.InDelta(t, 10.0/50.0, weekly[0].Confidence, 1e-12)
}

func TestAnalyze_QuarterlyUsesMonthlyRecords(t *testing.T) {
	analyzer := NewAnalyzer(slog.Default())

	// Three Q1 months and one Q2 month.
	monthly := []domain.TimeframeRecord{
		monthlyRecord(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), 2),
		monthlyRecord(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), -1),
		monthlyRecord(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), 3),
		monthlyRecord(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), 1),
	}

	patterns := analyzer.Analyze(context.Background(), "NIFTY", nil, monthly)
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, domain.PatternQuarterlySeasonal, p.Type)
	assert.Equal(t, domain.TimeframeMonthly, p.Timeframe)
	assert.Equal(t, 1, p.Period)
	assert.Equal(t, 3, p.SampleSize)
	assert.InDelta(t, 3.0/10.0, p.Confidence, 1e-12)
	assert.Equal(t, "Q1", p.PeriodLabel())
}

func TestAnalyze_ConfidenceSaturates(t *testing.T) {
	analyzer := NewAnalyzer(slog.Default())

	returns := make([]float64, 40)
	for i := range returns {
		returns[i] = float64(i%5) - 2
	}
	patterns := analyzer.Analyze(context.Background(), "NIFTY", januaries(returns...), nil)
	require.Len(t, patterns, 1)
	assert.Equal(t, 1.0, patterns[0].Confidence)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	analyzer := NewAnalyzer(slog.Default())
	assert.Empty(t, analyzer.Analyze(context.Background(), "NIFTY", nil, nil))
}
