package exporter

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"seasonpulse/pkg/contracts/domain"
)

type stubTimeframeStore struct {
	records map[domain.Timeframe][]domain.TimeframeRecord
}

func (s *stubTimeframeStore) UpsertRecords(context.Context, string, domain.Timeframe, []domain.TimeframeRecord) error {
	return nil
}

func (s *stubTimeframeStore) LoadRecords(_ context.Context, _ string, tf domain.Timeframe) ([]domain.TimeframeRecord, error) {
	return s.records[tf], nil
}

type stubPatternStore struct {
	patterns []domain.Pattern
}

func (s *stubPatternStore) UpsertPatterns(context.Context, []domain.Pattern) error { return nil }

func (s *stubPatternStore) PatternsBySymbol(_ context.Context, _ string, pt domain.PatternType) ([]domain.Pattern, error) {
	var out []domain.Pattern
	for _, p := range s.patterns {
		if p.Type == pt {
			out = append(out, p)
		}
	}
	return out, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Strip UTF-8 BOM.
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriter_WritesHeadersAndRows(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, discardLogger())

	err := w.WriteCSV("sub/out.csv", WriteOptions{
		Headers:   []string{"a", "b"},
		Records:   [][]string{{"1", "2"}, {"3", "4"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(dir, "sub", "out.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"a", "b"}, rows[0])
	assert.Equal(t, []string{"3", "4"}, rows[2])
}

func TestRecordsExporter_ExportSymbol(t *testing.T) {
	dir := t.TempDir()
	pct := 1.25
	store := &stubTimeframeStore{records: map[domain.Timeframe][]domain.TimeframeRecord{
		domain.TimeframeDaily: {
			{
				Symbol: "NIFTY", Timeframe: domain.TimeframeDaily,
				Date:    time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
				Weekday: "Monday",
				Open:    100, High: 101.5, Low: 99, Close: 101,
				Volume:           1500,
				ReturnPercentage: 1.0, Positive: true,
				Month: &domain.PeriodRef{ReturnPercentage: pct},
			},
		},
	}}
	exp := NewRecordsExporter(store, &stubPatternStore{}, NewCSVWriter(dir, discardLogger()), discardLogger())

	require.NoError(t, exp.ExportSymbol(context.Background(), "NIFTY"))

	rows := readCSV(t, filepath.Join(dir, "nifty", "daily.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, recordHeaders, rows[0])
	assert.Equal(t, "2024-03-04", rows[1][0])
	assert.Equal(t, "101.50", rows[1][3])
	// Month ref present, week refs absent.
	assert.Equal(t, "1.25", rows[1][21])
	assert.Equal(t, "", rows[1][19])
}

func TestRecordsExporter_SkipsEmptyTimeframes(t *testing.T) {
	dir := t.TempDir()
	exp := NewRecordsExporter(&stubTimeframeStore{records: map[domain.Timeframe][]domain.TimeframeRecord{}},
		&stubPatternStore{}, NewCSVWriter(dir, discardLogger()), discardLogger())

	require.NoError(t, exp.ExportSymbol(context.Background(), "NIFTY"))

	_, err := os.Stat(filepath.Join(dir, "nifty"))
	assert.True(t, os.IsNotExist(err))
}

func TestRecordsExporter_ExportPatterns(t *testing.T) {
	dir := t.TempDir()
	store := &stubPatternStore{patterns: []domain.Pattern{
		{
			Symbol: "NIFTY", Timeframe: domain.TimeframeMonthly,
			Type: domain.PatternMonthlySeasonal, Period: 3,
			AvgReturn: 2.5, WinRate: 0.75, SampleSize: 8, Confidence: 0.27,
		},
	}}
	exp := NewRecordsExporter(&stubTimeframeStore{}, store, NewCSVWriter(dir, discardLogger()), discardLogger())

	require.NoError(t, exp.ExportPatterns(context.Background(), "NIFTY", domain.PatternMonthlySeasonal))

	rows := readCSV(t, filepath.Join(dir, "nifty", "patterns_monthly_seasonal.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, "March", rows[1][4])
	assert.Equal(t, "2.50", rows[1][5])
}

func TestWorkbookExporter_ExportSymbol(t *testing.T) {
	dir := t.TempDir()
	store := &stubPatternStore{patterns: []domain.Pattern{
		{
			Symbol: "NIFTY", Timeframe: domain.TimeframeMonthly,
			Type: domain.PatternMonthlySeasonal, Period: 12,
			AvgReturn: 1.8, SampleSize: 10,
		},
		{
			Symbol: "NIFTY", Timeframe: domain.TimeframeDaily,
			Type: domain.PatternWeeklySeasonal, Period: 1,
			AvgReturn: 0.1, SampleSize: 40,
		},
	}}
	exp := NewWorkbookExporter(store, dir, discardLogger())

	path, err := exp.ExportSymbol(context.Background(), "NIFTY")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nifty_seasonality.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Monthly", "Weekly", "Quarterly"}, f.GetSheetList())
	label, err := f.GetCellValue("Monthly", "A2")
	require.NoError(t, err)
	assert.Equal(t, "December", label)
}
