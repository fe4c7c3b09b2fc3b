package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "seasonpulse/internal/errors"
	"seasonpulse/internal/persistence"
	"seasonpulse/internal/stats"
	"seasonpulse/pkg/contracts/domain"
)

type fakeSnapshotCache struct {
	snapshots map[string]*domain.StatisticsSnapshot
	getErr    error
	putErr    error
	puts      int
}

func newFakeSnapshotCache() *fakeSnapshotCache {
	return &fakeSnapshotCache{snapshots: map[string]*domain.StatisticsSnapshot{}}
}

func cacheKey(symbol string, tf domain.Timeframe, analysisType string) string {
	return symbol + "/" + string(tf) + "/" + analysisType
}

func (f *fakeSnapshotCache) PutSnapshot(_ context.Context, snapshot *domain.StatisticsSnapshot) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	f.snapshots[cacheKey(snapshot.Symbol, snapshot.Timeframe, snapshot.AnalysisType)] = snapshot
	return nil
}

func (f *fakeSnapshotCache) GetSnapshot(_ context.Context, symbol string, tf domain.Timeframe, analysisType string) (*domain.StatisticsSnapshot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.snapshots[cacheKey(symbol, tf, analysisType)], nil
}

func seedRecords(t *testing.T, store *fakeTimeframeStore, symbol string, tf domain.Timeframe, closes []float64) {
	t.Helper()
	records := make([]domain.TimeframeRecord, len(closes))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		records[i] = domain.TimeframeRecord{
			Symbol: symbol, Timeframe: tf,
			Date:  base.AddDate(0, 0, i),
			Close: c,
		}
	}
	require.NoError(t, store.UpsertRecords(context.Background(), symbol, tf, records))
}

func newTestStatistics(store *fakeTimeframeStore, cache *fakeSnapshotCache) *StatisticsService {
	return newTestStatisticsWithPatterns(store, cache, nil)
}

func newTestStatisticsWithPatterns(store *fakeTimeframeStore, cache *fakeSnapshotCache, patterns *fakePatternStore) *StatisticsService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := stats.NewEngine(logger, stats.EngineConfig{RiskFreeRate: 6.5})
	var cachePort persistence.SnapshotCache
	if cache != nil {
		cachePort = cache
	}
	var patternPort persistence.PatternStore
	if patterns != nil {
		patternPort = patterns
	}
	return NewStatisticsService(store, patternPort, cachePort, engine, logger, time.Hour)
}

func TestComprehensive_ComputesAndCaches(t *testing.T) {
	store := newFakeTimeframeStore()
	seedRecords(t, store, "NIFTY", domain.TimeframeDaily, []float64{100, 102, 101, 104, 103, 106})
	cache := newFakeSnapshotCache()
	svc := newTestStatistics(store, cache)

	snap, err := svc.Comprehensive(context.Background(), "NIFTY", domain.TimeframeDaily)
	require.NoError(t, err)

	assert.Equal(t, "NIFTY", snap.Symbol)
	assert.Equal(t, AnalysisComprehensive, snap.AnalysisType)
	assert.Equal(t, 6, snap.Price.Count)
	assert.Equal(t, 1, cache.puts)
	assert.True(t, snap.ExpiresAt.After(snap.ComputedAt))
}

func TestComprehensive_ServesFreshCacheHit(t *testing.T) {
	store := newFakeTimeframeStore()
	seedRecords(t, store, "NIFTY", domain.TimeframeDaily, []float64{100, 102, 101})
	cache := newFakeSnapshotCache()
	svc := newTestStatistics(store, cache)

	first, err := svc.Comprehensive(context.Background(), "NIFTY", domain.TimeframeDaily)
	require.NoError(t, err)

	second, err := svc.Comprehensive(context.Background(), "NIFTY", domain.TimeframeDaily)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, cache.puts)
}

func TestComprehensive_RecomputesExpiredSnapshot(t *testing.T) {
	store := newFakeTimeframeStore()
	seedRecords(t, store, "NIFTY", domain.TimeframeDaily, []float64{100, 102, 101})
	cache := newFakeSnapshotCache()
	cache.snapshots[cacheKey("NIFTY", domain.TimeframeDaily, AnalysisComprehensive)] = &domain.StatisticsSnapshot{
		ID:        "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	svc := newTestStatistics(store, cache)

	snap, err := svc.Comprehensive(context.Background(), "NIFTY", domain.TimeframeDaily)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", snap.ID)
}

func TestComprehensive_CacheFailureDegradesToCompute(t *testing.T) {
	store := newFakeTimeframeStore()
	seedRecords(t, store, "NIFTY", domain.TimeframeDaily, []float64{100, 102, 101})
	cache := newFakeSnapshotCache()
	cache.getErr = errors.New("redis down")
	cache.putErr = errors.New("redis down")
	svc := newTestStatistics(store, cache)

	snap, err := svc.Comprehensive(context.Background(), "NIFTY", domain.TimeframeDaily)
	require.NoError(t, err)
	assert.Equal(t, "NIFTY", snap.Symbol)
}

func TestComprehensive_SeasonalitySummary(t *testing.T) {
	store := newFakeTimeframeStore()
	seedRecords(t, store, "NIFTY", domain.TimeframeDaily, []float64{100, 102, 101, 104})
	patterns := &fakePatternStore{patterns: []domain.Pattern{
		{Symbol: "NIFTY", Type: domain.PatternMonthlySeasonal, Period: 3, AvgReturn: 2.1},
		{Symbol: "NIFTY", Type: domain.PatternMonthlySeasonal, Period: 9, AvgReturn: -1.4},
		{Symbol: "NIFTY", Type: domain.PatternQuarterlySeasonal, Period: 4, AvgReturn: 1.1},
	}}
	svc := newTestStatisticsWithPatterns(store, nil, patterns)

	snap, err := svc.Comprehensive(context.Background(), "NIFTY", domain.TimeframeDaily)
	require.NoError(t, err)

	require.NotNil(t, snap.Seasonality)
	assert.Equal(t, "March", snap.Seasonality.BestMonth)
	assert.Equal(t, "September", snap.Seasonality.WorstMonth)
	assert.Equal(t, "Q4", snap.Seasonality.BestQuarter)
	assert.Equal(t, 3, snap.Seasonality.PatternCount)
	assert.Equal(t, 2.1, snap.Seasonality.TopAvgReturn)
}

func TestComprehensive_NoPatternsNoSummary(t *testing.T) {
	store := newFakeTimeframeStore()
	seedRecords(t, store, "NIFTY", domain.TimeframeDaily, []float64{100, 102, 101})
	svc := newTestStatisticsWithPatterns(store, nil, &fakePatternStore{})

	snap, err := svc.Comprehensive(context.Background(), "NIFTY", domain.TimeframeDaily)
	require.NoError(t, err)
	assert.Nil(t, snap.Seasonality)
}

func TestComprehensive_NoRecords(t *testing.T) {
	svc := newTestStatistics(newFakeTimeframeStore(), nil)

	_, err := svc.Comprehensive(context.Background(), "UNKNOWN", domain.TimeframeDaily)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestComprehensive_TooFewRecords(t *testing.T) {
	store := newFakeTimeframeStore()
	seedRecords(t, store, "NIFTY", domain.TimeframeYearly, []float64{100})
	svc := newTestStatistics(store, nil)

	_, err := svc.Comprehensive(context.Background(), "NIFTY", domain.TimeframeYearly)
	require.Error(t, err)
	assert.True(t, apperrors.IsInsufficientData(err))
}
