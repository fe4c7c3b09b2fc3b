package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"seasonpulse/internal/persistence"
	"seasonpulse/pkg/contracts/domain"
)

// RecordsExporter dumps stored timeframe records and patterns as CSV.
type RecordsExporter struct {
	timeframes persistence.TimeframeStore
	patterns   persistence.PatternStore
	writer     *CSVWriter
	logger     *slog.Logger
}

// NewRecordsExporter creates a records exporter.
func NewRecordsExporter(timeframes persistence.TimeframeStore, patterns persistence.PatternStore, writer *CSVWriter, logger *slog.Logger) *RecordsExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordsExporter{timeframes: timeframes, patterns: patterns, writer: writer, logger: logger}
}

var recordHeaders = []string{
	"date", "weekday", "open", "high", "low", "close", "volume", "open_interest",
	"return_points", "return_percentage", "positive",
	"calendar_month_day", "calendar_year_day", "trading_month_day", "trading_year_day",
	"week_of_month", "week_of_year", "even_month", "even_year",
	"monday_week_return_pct", "expiry_week_return_pct", "month_return_pct", "year_return_pct",
}

// ExportSymbol writes one CSV file per timeframe for the given symbol,
// named <symbol>/<timeframe>.csv below the export directory. Timeframes
// with no stored records are skipped.
func (e *RecordsExporter) ExportSymbol(ctx context.Context, symbol string) error {
	exported := 0
	for _, tf := range domain.AllTimeframes() {
		records, err := e.timeframes.LoadRecords(ctx, symbol, tf)
		if err != nil {
			return fmt.Errorf("load %s records for %s: %w", tf, symbol, err)
		}
		if len(records) == 0 {
			continue
		}

		rows := make([][]string, len(records))
		for i, r := range records {
			rows[i] = recordRow(&r)
		}
		path := fmt.Sprintf("%s/%s.csv", strings.ToLower(symbol), tf)
		if err := e.writer.WriteCSV(path, WriteOptions{
			Headers:   recordHeaders,
			Records:   rows,
			BOMPrefix: true,
		}); err != nil {
			return fmt.Errorf("write %s export for %s: %w", tf, symbol, err)
		}
		exported++
	}

	e.logger.InfoContext(ctx, "exported timeframe records",
		slog.String("symbol", symbol),
		slog.Int("timeframes", exported))
	return nil
}

func recordRow(r *domain.TimeframeRecord) []string {
	return []string{
		formatDate(r.Date),
		r.Weekday,
		formatFloat(r.Open),
		formatFloat(r.High),
		formatFloat(r.Low),
		formatFloat(r.Close),
		formatInt(r.Volume),
		formatInt(r.OpenInterest),
		formatFloat(r.ReturnPoints),
		formatFloat(r.ReturnPercentage),
		formatBool(r.Positive),
		formatInt(int64(r.CalendarMonthDay)),
		formatInt(int64(r.CalendarYearDay)),
		formatInt(int64(r.TradingMonthDay)),
		formatInt(int64(r.TradingYearDay)),
		formatInt(int64(r.WeekOfMonth)),
		formatInt(int64(r.WeekOfYear)),
		formatBool(r.EvenMonth),
		formatBool(r.EvenYear),
		refPct(weekPct(r.MondayWeek)),
		refPct(weekPct(r.ExpiryWeek)),
		refPct(periodPct(r.Month)),
		refPct(periodPct(r.Year)),
	}
}

func weekPct(ref *domain.WeekRef) *float64 {
	if ref == nil {
		return nil
	}
	return &ref.ReturnPercentage
}

func periodPct(ref *domain.PeriodRef) *float64 {
	if ref == nil {
		return nil
	}
	return &ref.ReturnPercentage
}

// refPct renders a cross-reference percentage, empty when no enclosing
// record existed at link time.
func refPct(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

var patternHeaders = []string{
	"symbol", "timeframe", "type", "period", "period_label",
	"avg_return", "volatility", "win_rate", "max_gain", "max_loss",
	"sample_size", "confidence", "significance",
}

// ExportPatterns writes the symbol's patterns of the given type to
// <symbol>/patterns_<type>.csv.
func (e *RecordsExporter) ExportPatterns(ctx context.Context, symbol string, pt domain.PatternType) error {
	patterns, err := e.patterns.PatternsBySymbol(ctx, symbol, pt)
	if err != nil {
		return fmt.Errorf("load %s patterns for %s: %w", pt, symbol, err)
	}

	rows := make([][]string, len(patterns))
	for i, p := range patterns {
		rows[i] = []string{
			p.Symbol,
			string(p.Timeframe),
			string(p.Type),
			formatInt(int64(p.Period)),
			p.PeriodLabel(),
			formatFloat(p.AvgReturn),
			formatFloat(p.Volatility),
			formatFloat(p.WinRate),
			formatFloat(p.MaxGain),
			formatFloat(p.MaxLoss),
			formatInt(int64(p.SampleSize)),
			formatFloat(p.Confidence),
			formatFloat(p.Significance),
		}
	}

	path := fmt.Sprintf("%s/patterns_%s.csv", strings.ToLower(symbol), pt)
	return e.writer.WriteCSV(path, WriteOptions{
		Headers:   patternHeaders,
		Records:   rows,
		BOMPrefix: true,
	})
}
