package stats

import (
	"context"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "seasonpulse/internal/errors"
	"seasonpulse/pkg/contracts/domain"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.Equal(t, -1.5, Mean([]float64{-1, -2}))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 2, 3}))
}

func TestStdDev_Population(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{5, 5, 5}))
	// Population stdev of {2,4,4,4,5,5,7,9} is exactly 2.
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
}

func TestQuantile(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	assert.Equal(t, 10.0, Quantile(values, 0))
	assert.Equal(t, 40.0, Quantile(values, 1))
	// index = 0.5*3 = 1.5 -> halfway between 20 and 30.
	assert.Equal(t, 25.0, Quantile(values, 0.5))
	// index = 0.25*3 = 0.75 -> 10 + 0.75*10.
	assert.Equal(t, 17.5, Quantile(values, 0.25))
	assert.Equal(t, 0.0, Quantile(nil, 0.5))
}

func TestQuantile_MatchesMedian(t *testing.T) {
	series := [][]float64{
		{1},
		{1, 2},
		{3, 1, 2},
		{1.5, -2, 7, 4.25},
		{5, 5, 5, 5, 5},
	}
	for _, s := range series {
		assert.InDelta(t, Median(s), Quantile(s, 0.5), 1e-12)
	}
}

func TestSkewnessAndKurtosis(t *testing.T) {
	assert.Equal(t, 0.0, Skewness(nil))
	assert.Equal(t, 0.0, Kurtosis(nil))
	assert.Equal(t, 0.0, Skewness([]float64{3, 3, 3}))

	symmetric := []float64{-2, -1, 0, 1, 2}
	assert.InDelta(t, 0.0, Skewness(symmetric), 1e-12)
	// Uniform-ish distribution has negative excess kurtosis.
	assert.Less(t, Kurtosis(symmetric), 0.0)

	rightSkewed := []float64{1, 1, 1, 1, 10}
	assert.Greater(t, Skewness(rightSkewed), 0.0)
}

func TestReturns(t *testing.T) {
	assert.Empty(t, Returns(nil))
	assert.Empty(t, Returns([]float64{100}))

	got := Returns([]float64{100, 110, 99})
	require.Len(t, got, 2)
	assert.InDelta(t, 10.0, got[0], 1e-12)
	assert.InDelta(t, -10.0, got[1], 1e-12)

	// Zero previous close never divides.
	got = Returns([]float64{0, 100})
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0])
}

func TestVaR_Ordering(t *testing.T) {
	series := [][]float64{
		{-5, -3, -1, 0, 1, 2, 4},
		{1, 2, 3},
		{-10, -10, -10},
		{0.5, -0.25, 3, -7, 2, 2, -1, 0},
	}
	for _, s := range series {
		assert.LessOrEqual(t, VaR(s, 0.01), VaR(s, 0.05))
	}
}

func TestExpectedShortfall(t *testing.T) {
	assert.Equal(t, 0.0, ExpectedShortfall(nil, 0.05))

	returns := []float64{-10, -5, 1, 2, 3, 4, 5, 6, 7, 8}
	es := ExpectedShortfall(returns, 0.05)
	// ES is the mean of the tail at or below VaR(0.05) and cannot exceed it.
	assert.LessOrEqual(t, es, VaR(returns, 0.05))
}

func TestSharpeAndSortino_ZeroVolatilityGuard(t *testing.T) {
	flat := []float64{1, 1, 1}
	assert.Equal(t, 0.0, SharpeRatio(flat, 5))
	// No negative returns: downside deviation is 0, ratio guards to 0.
	assert.Equal(t, 0.0, SortinoRatio(flat, 5))
}

func TestSharpeRatio(t *testing.T) {
	returns := []float64{1, -1, 2, -2, 3}
	want := (Mean(returns) - 5.0/252) / StdDev(returns)
	assert.InDelta(t, want, SharpeRatio(returns, 5), 1e-12)
}

func TestDownsideDeviation(t *testing.T) {
	assert.Equal(t, 0.0, DownsideDeviation([]float64{1, 2, 3}))
	// Only the negative returns enter.
	assert.Equal(t, StdDev([]float64{-4, -2}), DownsideDeviation([]float64{5, -4, 3, -2}))
}

func TestMaxDrawdown_CumulativeSum(t *testing.T) {
	assert.Equal(t, 0.0, MaxDrawdown(nil))
	assert.Equal(t, 0.0, MaxDrawdown([]float64{1, 2, 3}))

	// Cumulative sums: 5, 3, -1, 2. Peak 5, trough -1 -> drawdown 6.
	// The cumulative-sum basis (not compounding) is deliberate.
	assert.Equal(t, 6.0, MaxDrawdown([]float64{5, -2, -4, 3}))

	// Decline from the starting point counts against the implicit 0 peak.
	assert.Equal(t, 3.0, MaxDrawdown([]float64{-1, -2}))
}

func TestWinRateAndProfitFactor(t *testing.T) {
	assert.Equal(t, 0.0, WinRate(nil))
	assert.Equal(t, 0.5, WinRate([]float64{1, -1, 2, -2}))

	assert.Equal(t, 0.0, ProfitFactor([]float64{1, 2})) // no losses guard
	assert.Equal(t, 2.0, ProfitFactor([]float64{3, 1, -2}))
}

func TestAnnualized(t *testing.T) {
	assert.Equal(t, 0.0, AnnualizedReturn(10, 0))
	// A full 252-period year with 10% total return annualizes to 10%.
	assert.InDelta(t, 0.10, AnnualizedReturn(10, 252), 1e-12)
	// Half a year compounds: (1.1)^2 - 1.
	assert.InDelta(t, math.Pow(1.1, 2)-1, AnnualizedReturn(10, 126), 1e-12)

	assert.InDelta(t, StdDev([]float64{1, -1})*math.Sqrt(252), AnnualizedVolatility([]float64{1, -1}), 1e-12)
}

func TestCalmarRatio(t *testing.T) {
	assert.Equal(t, 0.0, CalmarRatio(0.2, 0))
	assert.InDelta(t, 4.0, CalmarRatio(0.2, 5), 1e-12)
}

func TestJarqueBera(t *testing.T) {
	assert.Equal(t, 0.0, JarqueBera(nil))

	// Zero-variance series: both moments guard to 0, so JB is 0.
	flat := []float64{1, 1, 1, 1}
	assert.Equal(t, 0.0, JarqueBera(flat))

	skewed := []float64{1, 1, 1, 1, 1, 1, 50}
	assert.Greater(t, JarqueBera(skewed), 0.0)
}

func TestJarqueBeraPValue(t *testing.T) {
	assert.Equal(t, 1.0, JarqueBeraPValue(0))
	assert.InDelta(t, math.Exp(-1), JarqueBeraPValue(2), 1e-12)
	assert.Less(t, JarqueBeraPValue(20), 0.01)
}

func TestAndersonDarling(t *testing.T) {
	assert.Equal(t, 0.0, AndersonDarling(nil))
	assert.Equal(t, 0.0, AndersonDarling([]float64{1}))
	assert.Equal(t, 0.0, AndersonDarling([]float64{2, 2, 2}))

	// Near-normal sample scores lower than a heavily skewed one.
	nearNormal := []float64{-2, -1.5, -1, -0.5, 0, 0.5, 1, 1.5, 2}
	skewed := []float64{0, 0, 0, 0, 0, 0, 0, 0, 25}
	assert.Less(t, AndersonDarling(nearNormal), AndersonDarling(skewed))
}

func TestNormalCDF(t *testing.T) {
	assert.InDelta(t, 0.5, normalCDF(0), 1e-7)
	assert.InDelta(t, 0.8413, normalCDF(1), 1e-4)
	assert.InDelta(t, 0.0228, normalCDF(-2), 1e-4)
}

func TestEngine_Comprehensive(t *testing.T) {
	engine := NewEngine(slog.Default(), EngineConfig{RiskFreeRate: 6})

	closes := []float64{100, 102, 101, 105, 103, 108, 107, 110}
	snap, err := engine.Comprehensive(context.Background(), "NIFTY",
		domain.TimeframeDaily, "comprehensive", closes,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, "NIFTY", snap.Symbol)
	assert.Equal(t, 8, snap.Price.Count)
	assert.Equal(t, 7, snap.Returns.Count)
	assert.Equal(t, 100.0, snap.Price.First)
	assert.Equal(t, 110.0, snap.Price.Last)
	assert.InDelta(t, 10.0, snap.Performance.TotalReturn, 1e-12)
	assert.LessOrEqual(t, snap.Risk.VaR99, snap.Risk.VaR95)
	assert.GreaterOrEqual(t, snap.Risk.MaxDrawdown, 0.0)
	assert.NotEmpty(t, snap.ID)
	assert.True(t, snap.ExpiresAt.After(snap.ComputedAt))
}

func TestEngine_Comprehensive_InsufficientData(t *testing.T) {
	engine := NewEngine(slog.Default(), EngineConfig{})

	_, err := engine.Comprehensive(context.Background(), "NIFTY",
		domain.TimeframeDaily, "comprehensive", []float64{100},
		time.Time{}, time.Time{}, time.Hour)

	require.Error(t, err)
	assert.True(t, apperrors.IsInsufficientData(err))
}
