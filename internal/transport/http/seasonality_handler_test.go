package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "seasonpulse/internal/errors"
	"seasonpulse/pkg/contracts/domain"
)

type stubRecordReader struct {
	records []domain.TimeframeRecord
	err     error
}

func (s *stubRecordReader) LoadRecords(context.Context, string, domain.Timeframe) ([]domain.TimeframeRecord, error) {
	return s.records, s.err
}

type stubPatternReader struct {
	patterns []domain.Pattern
	err      error
}

func (s *stubPatternReader) PatternsBySymbol(context.Context, string, domain.PatternType) ([]domain.Pattern, error) {
	return s.patterns, s.err
}

type stubStatisticsProvider struct {
	snapshot *domain.StatisticsSnapshot
	err      error
}

func (s *stubStatisticsProvider) Comprehensive(context.Context, string, domain.Timeframe) (*domain.StatisticsSnapshot, error) {
	return s.snapshot, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSeasonalityServer(records RecordReader, patterns PatternReader, statistics StatisticsProvider) *httptest.Server {
	h := NewSeasonalityHandler(records, patterns, statistics, discardLogger())
	return httptest.NewServer(h.Routes())
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestGetRecords_OK(t *testing.T) {
	srv := newSeasonalityServer(&stubRecordReader{records: []domain.TimeframeRecord{
		{Symbol: "NIFTY", Timeframe: domain.TimeframeDaily, Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 101},
	}}, &stubPatternReader{}, &stubStatisticsProvider{})
	defer srv.Close()

	var body RecordsResponse
	code := getJSON(t, srv.URL+"/instruments/NIFTY/records/daily", &body)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "NIFTY", body.Symbol)
	assert.Equal(t, 1, body.Count)
}

func TestGetRecords_UnknownTimeframe(t *testing.T) {
	srv := newSeasonalityServer(&stubRecordReader{}, &stubPatternReader{}, &stubStatisticsProvider{})
	defer srv.Close()

	code := getJSON(t, srv.URL+"/instruments/NIFTY/records/hourly", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGetRecords_NotFound(t *testing.T) {
	srv := newSeasonalityServer(&stubRecordReader{}, &stubPatternReader{}, &stubStatisticsProvider{})
	defer srv.Close()

	code := getJSON(t, srv.URL+"/instruments/NIFTY/records/daily", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGetRecords_StorageError(t *testing.T) {
	srv := newSeasonalityServer(&stubRecordReader{err: errors.New("db down")}, &stubPatternReader{}, &stubStatisticsProvider{})
	defer srv.Close()

	code := getJSON(t, srv.URL+"/instruments/NIFTY/records/daily", nil)
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestGetPatterns_DefaultsToMonthly(t *testing.T) {
	srv := newSeasonalityServer(&stubRecordReader{}, &stubPatternReader{patterns: []domain.Pattern{
		{Symbol: "NIFTY", Type: domain.PatternMonthlySeasonal, Period: 3},
	}}, &stubStatisticsProvider{})
	defer srv.Close()

	var body PatternsResponse
	code := getJSON(t, srv.URL+"/instruments/NIFTY/patterns", &body)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.PatternMonthlySeasonal, body.Type)
	assert.Equal(t, 1, body.Count)
}

func TestGetPatterns_InvalidType(t *testing.T) {
	srv := newSeasonalityServer(&stubRecordReader{}, &stubPatternReader{}, &stubStatisticsProvider{})
	defer srv.Close()

	code := getJSON(t, srv.URL+"/instruments/NIFTY/patterns?type=lunar", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGetStatistics_InsufficientData(t *testing.T) {
	srv := newSeasonalityServer(&stubRecordReader{}, &stubPatternReader{},
		&stubStatisticsProvider{err: apperrors.NewInsufficientDataError("need more closes")})
	defer srv.Close()

	code := getJSON(t, srv.URL+"/instruments/NIFTY/statistics/monthly", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestGetStatistics_OK(t *testing.T) {
	srv := newSeasonalityServer(&stubRecordReader{}, &stubPatternReader{},
		&stubStatisticsProvider{snapshot: &domain.StatisticsSnapshot{Symbol: "NIFTY", Timeframe: domain.TimeframeDaily}})
	defer srv.Close()

	var body domain.StatisticsSnapshot
	code := getJSON(t, srv.URL+"/instruments/NIFTY/statistics/daily", &body)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "NIFTY", body.Symbol)
}
