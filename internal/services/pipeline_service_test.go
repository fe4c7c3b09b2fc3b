package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seasonpulse/internal/aggregation"
	apperrors "seasonpulse/internal/errors"
	"seasonpulse/internal/pattern"
	"seasonpulse/pkg/contracts/domain"
)

type fakeBarReader struct {
	bars    map[string][]domain.Bar
	listErr error
}

func (f *fakeBarReader) LoadBars(_ context.Context, symbol string) ([]domain.Bar, error) {
	return f.bars[symbol], nil
}

func (f *fakeBarReader) ListSymbols(_ context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	symbols := make([]string, 0, len(f.bars))
	for s := range f.bars {
		symbols = append(symbols, s)
	}
	return symbols, nil
}

type fakeTimeframeStore struct {
	mu      sync.Mutex
	records map[string]map[domain.Timeframe][]domain.TimeframeRecord
	err     error
}

func newFakeTimeframeStore() *fakeTimeframeStore {
	return &fakeTimeframeStore{records: map[string]map[domain.Timeframe][]domain.TimeframeRecord{}}
}

func (f *fakeTimeframeStore) UpsertRecords(_ context.Context, symbol string, tf domain.Timeframe, records []domain.TimeframeRecord) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.records[symbol] == nil {
		f.records[symbol] = map[domain.Timeframe][]domain.TimeframeRecord{}
	}
	f.records[symbol][tf] = records
	return nil
}

func (f *fakeTimeframeStore) LoadRecords(_ context.Context, symbol string, tf domain.Timeframe) ([]domain.TimeframeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[symbol][tf], nil
}

type fakePatternStore struct {
	mu       sync.Mutex
	patterns []domain.Pattern
}

func (f *fakePatternStore) UpsertPatterns(_ context.Context, patterns []domain.Pattern) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patterns = append(f.patterns, patterns...)
	return nil
}

func (f *fakePatternStore) PatternsBySymbol(_ context.Context, symbol string, pt domain.PatternType) ([]domain.Pattern, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Pattern
	for _, p := range f.patterns {
		if p.Symbol == symbol && p.Type == pt {
			out = append(out, p)
		}
	}
	return out, nil
}

func dailyBars(symbol string, start time.Time, n int) []domain.Bar {
	bars := make([]domain.Bar, 0, n)
	price := 100.0
	for d := start; len(bars) < n; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		price += 0.5
		bars = append(bars, domain.Bar{
			Symbol: symbol, Date: d,
			Open: price - 0.3, High: price + 1, Low: price - 1, Close: price,
			Volume: 1000,
		})
	}
	return bars
}

func newTestPipeline(bars *fakeBarReader, tfs *fakeTimeframeStore, pats *fakePatternStore, concurrency int) *PipelineService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPipelineService(bars, tfs, pats,
		aggregation.NewAggregator(logger), pattern.NewAnalyzer(logger),
		nil, logger, concurrency)
}

func TestProcessSymbol_PersistsAllTimeframes(t *testing.T) {
	reader := &fakeBarReader{bars: map[string][]domain.Bar{
		"NIFTY": dailyBars("NIFTY", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), 260),
	}}
	tfs := newFakeTimeframeStore()
	pats := &fakePatternStore{}
	svc := newTestPipeline(reader, tfs, pats, 1)

	result, err := svc.ProcessSymbol(context.Background(), "NIFTY")
	require.NoError(t, err)

	assert.Equal(t, "NIFTY", result.Symbol)
	assert.Positive(t, result.Records)
	for _, tf := range domain.AllTimeframes() {
		recs, err := tfs.LoadRecords(context.Background(), "NIFTY", tf)
		require.NoError(t, err)
		assert.NotEmpty(t, recs, "timeframe %s", tf)
	}
}

func TestProcessSymbol_NoBars(t *testing.T) {
	svc := newTestPipeline(&fakeBarReader{bars: map[string][]domain.Bar{}}, newFakeTimeframeStore(), &fakePatternStore{}, 1)

	_, err := svc.ProcessSymbol(context.Background(), "MISSING")
	require.Error(t, err)
	assert.True(t, apperrors.IsInsufficientData(err))
}

func TestProcessSymbol_StoreFailureAborts(t *testing.T) {
	reader := &fakeBarReader{bars: map[string][]domain.Bar{
		"NIFTY": dailyBars("NIFTY", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 20),
	}}
	tfs := newFakeTimeframeStore()
	tfs.err = errors.New("connection refused")
	svc := newTestPipeline(reader, tfs, &fakePatternStore{}, 1)

	_, err := svc.ProcessSymbol(context.Background(), "NIFTY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestProcessAll_PartialFailure(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	reader := &fakeBarReader{bars: map[string][]domain.Bar{
		"NIFTY":      dailyBars("NIFTY", start, 260),
		"BANKNIFTY":  dailyBars("BANKNIFTY", start, 260),
		"NOBARSHERE": nil,
	}}
	tfs := newFakeTimeframeStore()
	svc := newTestPipeline(reader, tfs, &fakePatternStore{}, 2)

	summary, err := svc.ProcessAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	require.Len(t, summary.Failed, 1)
	assert.Contains(t, summary.Failed, "NOBARSHERE")
	assert.Positive(t, summary.Records)
}

func TestProcessAll_ListFailure(t *testing.T) {
	reader := &fakeBarReader{listErr: errors.New("boom")}
	svc := newTestPipeline(reader, newFakeTimeframeStore(), &fakePatternStore{}, 2)

	_, err := svc.ProcessAll(context.Background())
	require.Error(t, err)
}

func TestProcessAll_Cancellation(t *testing.T) {
	reader := &fakeBarReader{bars: map[string][]domain.Bar{
		"NIFTY": dailyBars("NIFTY", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), 40),
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := newTestPipeline(reader, newFakeTimeframeStore(), &fakePatternStore{}, 1)

	_, err := svc.ProcessAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
